package recommend

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	domrec "github.com/robosmart/flowrec/internal/domain/recommend"
	domsearch "github.com/robosmart/flowrec/internal/domain/search"
	"github.com/robosmart/flowrec/internal/locale"
	searchuc "github.com/robosmart/flowrec/internal/usecase/search"
)

// DefaultMaxResults is the number of recommendations returned when the
// caller does not ask for a specific count.
const DefaultMaxResults = 5

// overFetchFactor: the similarity stage returns this many times the final
// count, so grouping attrition still leaves enough candidates to rank.
const overFetchFactor = 2

// Request is one recommendation query.
type Request struct {
	Query      string
	UserID     int64 // 0 = anonymous
	Filters    domsearch.Filters
	MaxResults int    // 0 = DefaultMaxResults
	Language   string // BCP-ish tag for the contextual response, "" = en
}

// Result is a completed recommendation response. A nil error with an empty
// Recommendations list means the search genuinely found nothing.
type Result struct {
	Recommendations []domrec.Recommendation
	ResultsFound    int
	// ContextualResponse is the optional LLM-written summary of the top
	// results. Empty when no responder is configured; on responder failure
	// it holds a localized counted-results line instead.
	ContextualResponse string
}

// Service ranks grouped candidates with the weighted personalization score.
type Service struct {
	search     Searcher
	prefs      PreferenceResolver
	responder  Responder
	defaultMax int
	logger     *zap.Logger
}

// New creates a recommendation service.
func New(search Searcher, prefs PreferenceResolver, logger *zap.Logger) *Service {
	return &Service{search: search, prefs: prefs, defaultMax: DefaultMaxResults, logger: logger}
}

// WithResponder attaches an optional contextual-response generator.
func (s *Service) WithResponder(r Responder) *Service {
	s.responder = r
	return s
}

// WithMaxResults overrides the default recommendation count.
func (s *Service) WithMaxResults(n int) *Service {
	if n > 0 {
		s.defaultMax = n
	}
	return s
}

// Recommend runs the full pipeline: similarity search, chunk grouping,
// preference-weighted re-ranking, truncation. Embedding or store failures
// abort the request; a preference lookup can never fail the request, and
// zero matches is a valid outcome.
func (s *Service) Recommend(ctx context.Context, req Request) (Result, error) {
	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = s.defaultMax
	}

	prefs := s.prefs.Resolve(ctx, req.UserID)

	matches, err := s.search.Search(ctx, req.Query, req.Filters, maxResults*overFetchFactor)
	if err != nil {
		return Result{}, fmt.Errorf("similarity search: %w", err)
	}

	candidates := searchuc.Group(matches)
	if len(candidates) == 0 {
		s.logger.Info("No workflows matched query",
			zap.String("query", req.Query),
			zap.Int64("user_id", req.UserID),
		)
		return Result{}, nil
	}

	recs := make([]domrec.Recommendation, 0, len(candidates))
	for i := range candidates {
		score, factors := scoreCandidate(&candidates[i], &prefs)
		recs = append(recs, domrec.NewRecommendation(candidates[i], score, factors))
	}

	// Stable: candidates with equal personalized scores keep grouped order.
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].PersonalizedScore() > recs[j].PersonalizedScore()
	})

	if len(recs) > maxResults {
		recs = recs[:maxResults]
	}

	result := Result{
		Recommendations: recs,
		ResultsFound:    len(candidates),
	}

	if s.responder != nil {
		lang := req.Language
		if !locale.Supported(lang) {
			lang = "en"
		}

		top := make([]domrec.Candidate, 0, len(recs))
		for i := range recs {
			top = append(top, recs[i].Candidate())
		}
		response, err := s.responder.Respond(ctx, req.Query, lang, top)
		if err != nil {
			// A missing summary never fails the recommendation itself; the
			// caller still gets a counted-results line.
			s.logger.Warn("Contextual response generation failed",
				zap.String("query", req.Query),
				zap.Error(err),
			)
			result.ContextualResponse = fmt.Sprintf(
				locale.For(lang).SummaryUnavailable, len(candidates))
		} else {
			result.ContextualResponse = response
		}
	}

	s.logger.Info("Recommendation completed",
		zap.String("query", req.Query),
		zap.Int64("user_id", req.UserID),
		zap.Int("matches", len(matches)),
		zap.Int("workflows", len(candidates)),
		zap.Int("returned", len(recs)),
	)

	return result, nil
}
