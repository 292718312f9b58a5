package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chirouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/robosmart/flowrec/internal/domain"
	"github.com/robosmart/flowrec/internal/domain/preference"
	domsearch "github.com/robosmart/flowrec/internal/domain/search"
	"github.com/robosmart/flowrec/internal/domain/workflow"
	"github.com/robosmart/flowrec/internal/locale"
	healthuc "github.com/robosmart/flowrec/internal/usecase/health"
	recommenduc "github.com/robosmart/flowrec/internal/usecase/recommend"
)

// --- Mocks ---

type mockSearcher struct {
	matches []domsearch.Match
	err     error
	gotMax  int
}

func (m *mockSearcher) Search(_ context.Context, _ string, _ domsearch.Filters, limit int) ([]domsearch.Match, error) {
	m.gotMax = limit
	return m.matches, m.err
}

type mockResolver struct{}

func (m *mockResolver) Resolve(_ context.Context, _ int64) preference.Preferences {
	return preference.Default()
}

type mockCategories struct {
	items []string
	err   error
}

func (m *mockCategories) Categories(_ context.Context) ([]string, error) {
	return m.items, m.err
}

type mockPinger struct{ err error }

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

func newTestServer(t *testing.T, search *mockSearcher, cats *mockCategories, storeErr error) http.Handler {
	t.Helper()
	logger := zap.NewNop()

	rec := recommenduc.New(search, &mockResolver{}, logger)
	hc := healthuc.New(&mockPinger{err: storeErr}, nil, nil)
	srv := NewServer(rec, cats, hc, logger)

	r := chirouter.NewRouter()
	srv.Routes(r)
	return r
}

func postRecommend(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/recommend", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return resp
}

// --- Tests ---

func TestRecommend_HappyPath(t *testing.T) {
	search := &mockSearcher{matches: []domsearch.Match{
		domsearch.NewMatch("wf-1", 0.9, "Slack digest", "Daily summary", "productivity",
			workflow.Beginner, []string{"slack", "n8n"}, "https://example.com/wf-1"),
		domsearch.NewMatch("wf-1", 0.7, "Slack digest", "Weekly rollup", "productivity",
			workflow.Beginner, []string{"slack", "n8n"}, "https://example.com/wf-1"),
	}}
	h := newTestServer(t, search, &mockCategories{}, nil)

	rr := postRecommend(t, h, `{"query":"slack summaries","max_results":3}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp RecommendResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Items) != 1 {
		t.Fatalf("expected 1 grouped item, got %d", len(resp.Items))
	}
	item := resp.Items[0]
	if item.WorkflowID != "wf-1" || item.ChunkCount != 2 {
		t.Errorf("unexpected item: %+v", item)
	}
	if item.SimilarityScore != 0.9 {
		t.Errorf("expected best-chunk similarity 0.9, got %v", item.SimilarityScore)
	}
	if resp.ResultsFound != 1 {
		t.Errorf("expected results_found=1, got %d", resp.ResultsFound)
	}
	if search.gotMax != 6 {
		t.Errorf("expected overfetch limit 6, got %d", search.gotMax)
	}
	if resp.Message != locale.For("en").ResultsHeading {
		t.Errorf("expected results heading without a responder, got %q", resp.Message)
	}
}

func TestRecommend_EmptyResultGetsMessage(t *testing.T) {
	h := newTestServer(t, &mockSearcher{}, &mockCategories{}, nil)

	rr := postRecommend(t, h, `{"query":"nothing matches this"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusOK)
	}

	var resp RecommendResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Items) != 0 {
		t.Errorf("expected no items, got %d", len(resp.Items))
	}
	if resp.Message == "" {
		t.Error("expected a localized no-results message")
	}
}

func TestRecommend_InvalidBody(t *testing.T) {
	h := newTestServer(t, &mockSearcher{}, &mockCategories{}, nil)

	rr := postRecommend(t, h, `{not json`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if resp := decodeError(t, rr); resp.Code != CodeBadRequest {
		t.Errorf("error code: got %s, want %s", resp.Code, CodeBadRequest)
	}
}

func TestRecommend_MissingQuery(t *testing.T) {
	h := newTestServer(t, &mockSearcher{}, &mockCategories{}, nil)

	rr := postRecommend(t, h, `{"max_results":5}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if resp := decodeError(t, rr); resp.Code != CodeValidationFailed {
		t.Errorf("error code: got %s, want %s", resp.Code, CodeValidationFailed)
	}
}

func TestRecommend_MaxResultsOutOfRange(t *testing.T) {
	h := newTestServer(t, &mockSearcher{}, &mockCategories{}, nil)

	for _, body := range []string{
		`{"query":"q","max_results":21}`,
		`{"query":"q","max_results":-1}`,
	} {
		rr := postRecommend(t, h, body)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("body %s: got %d, want %d", body, rr.Code, http.StatusBadRequest)
		}
	}
}

func TestRecommend_InvalidComplexityFilter(t *testing.T) {
	h := newTestServer(t, &mockSearcher{}, &mockCategories{}, nil)

	rr := postRecommend(t, h, `{"query":"q","filters":{"complexity":"wizard"}}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusBadRequest)
	}
	resp := decodeError(t, rr)
	if resp.Code != CodeValidationFailed {
		t.Errorf("error code: got %s, want %s", resp.Code, CodeValidationFailed)
	}
	if !strings.Contains(resp.Message, "complexity") {
		t.Errorf("expected complexity mention, got %q", resp.Message)
	}
}

func TestRecommend_DomainErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   ErrorCode
	}{
		{"rate limited", domain.ErrRateLimited, http.StatusTooManyRequests, CodeRateLimited},
		{"provider down", domain.ErrEmbeddingProvider, http.StatusBadGateway, CodeEmbeddingProvider},
		{"store down", domain.ErrStoreAccess, http.StatusServiceUnavailable, CodeStoreAccess},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, CodeInternalError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestServer(t, &mockSearcher{err: tc.err}, &mockCategories{}, nil)

			rr := postRecommend(t, h, `{"query":"q"}`)
			if rr.Code != tc.wantStatus {
				t.Errorf("got %d, want %d", rr.Code, tc.wantStatus)
			}
			if resp := decodeError(t, rr); resp.Code != tc.wantCode {
				t.Errorf("error code: got %s, want %s", resp.Code, tc.wantCode)
			}
		})
	}
}

func TestCategories(t *testing.T) {
	h := newTestServer(t, &mockSearcher{}, &mockCategories{items: []string{"automation", "marketing"}}, nil)

	req := httptest.NewRequest("GET", "/api/v1/categories", http.NoBody)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusOK)
	}
	var resp CategoriesResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Items) != 2 || resp.Items[0] != "automation" {
		t.Errorf("unexpected categories: %v", resp.Items)
	}
}

func TestCategories_StoreError(t *testing.T) {
	cats := &mockCategories{err: domain.ErrStoreAccess}
	h := newTestServer(t, &mockSearcher{}, cats, nil)

	req := httptest.NewRequest("GET", "/api/v1/categories", http.NoBody)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("got %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
}

func TestHealth_OK(t *testing.T) {
	h := newTestServer(t, &mockSearcher{}, &mockCategories{}, nil)

	req := httptest.NewRequest("GET", "/health", http.NoBody)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusOK)
	}
	var resp HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("expected ok status, got %s", resp.Status)
	}
}

func TestHealth_Degraded503(t *testing.T) {
	h := newTestServer(t, &mockSearcher{}, &mockCategories{}, errors.New("db down"))

	req := httptest.NewRequest("GET", "/health", http.NoBody)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("got %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
}
