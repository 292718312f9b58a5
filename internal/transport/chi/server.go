package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/robosmart/flowrec/internal/domain"
	domsearch "github.com/robosmart/flowrec/internal/domain/search"
	"github.com/robosmart/flowrec/internal/domain/workflow"
	"github.com/robosmart/flowrec/internal/locale"
	logpkg "github.com/robosmart/flowrec/internal/logger"
	healthuc "github.com/robosmart/flowrec/internal/usecase/health"
	recommenduc "github.com/robosmart/flowrec/internal/usecase/recommend"
)

const maxRequestedResults = 20

// CategoryLister exposes the stored category catalog.
type CategoryLister interface {
	Categories(ctx context.Context) ([]string, error)
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the recommendation HTTP API.
type Server struct {
	recommend     *recommenduc.Service
	categories    CategoryLister
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	recommend *recommenduc.Service,
	categories CategoryLister,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		recommend:  recommend,
		categories: categories,
		health:     health,
		logger:     logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrInvalidFilter, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrVectorDimMismatch, http.StatusBadGateway, CodeEmbeddingProvider),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, CodeRateLimited),
		sentinelHandler(domain.ErrEmbeddingProvider, http.StatusBadGateway, CodeEmbeddingProvider),
		sentinelHandler(domain.ErrStoreAccess, http.StatusServiceUnavailable, CodeStoreAccess),
	}
	return s
}

// Routes mounts all handlers on the given router.
func (s *Server) Routes(r chirouter.Router) {
	r.Route("/api/v1", func(r chirouter.Router) {
		r.Post("/recommend", s.Recommend)
		r.Get("/categories", s.Categories)
	})
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Recommend handles POST /api/v1/recommend.
func (s *Server) Recommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Query == "" {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "query is required")
		return
	}
	if req.MaxResults < 0 || req.MaxResults > maxRequestedResults {
		writeError(w, http.StatusBadRequest, CodeValidationFailed,
			"max_results must be between 0 and 20")
		return
	}

	filters, err := filtersFromDTO(req.Filters)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	result, err := s.recommend.Recommend(r.Context(), recommenduc.Request{
		Query:      req.Query,
		UserID:     req.UserID,
		Filters:    filters,
		MaxResults: req.MaxResults,
		Language:   req.Language,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	resp := resultToDTO(&result)
	msgs := locale.For(req.Language)
	switch {
	case len(resp.Items) == 0:
		resp.Message = msgs.NoResults
	case resp.ContextualResponse == "":
		// No responder configured: a plain heading stands in for the summary.
		resp.Message = msgs.ResultsHeading
	}

	writeJSON(w, http.StatusOK, resp)
}

// Categories handles GET /api/v1/categories.
func (s *Server) Categories(w http.ResponseWriter, r *http.Request) {
	items, err := s.categories.Categories(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if items == nil {
		items = []string{}
	}
	writeJSON(w, http.StatusOK, CategoriesResponse{Items: items})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func filtersFromDTO(f *RequestFilters) (domsearch.Filters, error) {
	if f == nil {
		return domsearch.Filters{}, nil
	}

	var complexity workflow.Complexity
	if f.Complexity != "" {
		complexity = workflow.Complexity(f.Complexity)
		if !complexity.IsValid() {
			return domsearch.Filters{}, errors.New("complexity must be beginner, intermediate or advanced")
		}
	}

	return domsearch.Filters{
		Category:   f.Category,
		Complexity: complexity,
		Tool:       f.Tool,
	}, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrVectorDimMismatch,
		domain.ErrInvalidFilter,
		domain.ErrRateLimited,
		domain.ErrEmbeddingProvider,
		domain.ErrStoreAccess,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	// Prefer the request-scoped logger (carries request_id) when present.
	reqLogger := logpkg.FromContext(r.Context())

	reqLogger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
