package flowrec

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	domrec "github.com/robosmart/flowrec/internal/domain/recommend"
	"github.com/robosmart/flowrec/internal/domain/workflow"
	backfilluc "github.com/robosmart/flowrec/internal/usecase/backfill"
	healthuc "github.com/robosmart/flowrec/internal/usecase/health"
	recommenduc "github.com/robosmart/flowrec/internal/usecase/recommend"
)

func TestNew_NoDSN(t *testing.T) {
	_, err := New(context.Background(), WithOpenAI("key"))
	if err == nil {
		t.Fatal("expected error when no DSN provided")
	}
}

func TestNew_NoEmbeddingProvider(t *testing.T) {
	_, err := New(context.Background(), WithPostgres("postgres://localhost/flowrec"))
	if err == nil {
		t.Fatal("expected error when no embedding provider configured")
	}
}

func TestClientOptions(t *testing.T) {
	cfg := &clientConfig{}

	WithPostgres("postgres://localhost/flowrec").apply(cfg)
	if cfg.dsn != "postgres://localhost/flowrec" {
		t.Errorf("dsn = %q", cfg.dsn)
	}

	WithRedisCache("localhost:6379", "secret").apply(cfg)
	if len(cfg.cacheAddrs) != 1 || cfg.cacheAddrs[0] != "localhost:6379" {
		t.Errorf("cacheAddrs = %v", cfg.cacheAddrs)
	}
	if cfg.cachePassword != "secret" {
		t.Errorf("cachePassword = %q", cfg.cachePassword)
	}

	WithCacheTTL(time.Hour).apply(cfg)
	if cfg.cacheTTL != time.Hour {
		t.Errorf("cacheTTL = %v", cfg.cacheTTL)
	}

	WithOpenAI("key").apply(cfg)
	if cfg.apiKey != "key" {
		t.Errorf("apiKey = %q", cfg.apiKey)
	}

	WithEmbeddingModel("text-embedding-3-small", 1536).apply(cfg)
	if cfg.model != "text-embedding-3-small" || cfg.dimensions != 1536 {
		t.Errorf("model = %q, dimensions = %d", cfg.model, cfg.dimensions)
	}

	WithChat("gpt-4o").apply(cfg)
	if !cfg.chatEnabled || cfg.chatModel != "gpt-4o" {
		t.Errorf("chat = (%v, %q)", cfg.chatEnabled, cfg.chatModel)
	}

	WithThreshold(0.5).apply(cfg)
	if cfg.threshold != 0.5 {
		t.Errorf("threshold = %v", cfg.threshold)
	}

	WithMaxResults(10).apply(cfg)
	if cfg.maxResults != 10 {
		t.Errorf("maxResults = %d", cfg.maxResults)
	}

	logger := zap.NewNop()
	WithLogger(logger).apply(cfg)
	if cfg.logger != logger {
		t.Error("expected logger to be set")
	}

	reg := prometheus.NewRegistry()
	WithPrometheus(reg).apply(cfg)
	if cfg.metricsReg != reg {
		t.Error("expected metricsReg to be set")
	}
}

func TestEmbedderAdapter(t *testing.T) {
	called := false
	mock := &mockEmbedder{
		fn: func(_ context.Context, _ string) (EmbeddingResult, error) {
			called = true
			return EmbeddingResult{
				Embedding:    []float32{1, 2, 3},
				PromptTokens: 5,
				TotalTokens:  10,
			}, nil
		},
	}

	adapter := &embedderAdapter{inner: mock}
	result, err := adapter.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("inner embedder was not called")
	}
	if len(result.Embedding) != 3 {
		t.Errorf("embedding len = %d, want 3", len(result.Embedding))
	}
	if result.TotalTokens != 10 {
		t.Errorf("total tokens = %d, want 10", result.TotalTokens)
	}
}

func TestEmbedderAdapter_Error(t *testing.T) {
	mock := &mockEmbedder{
		fn: func(_ context.Context, _ string) (EmbeddingResult, error) {
			return EmbeddingResult{}, errors.New("provider down")
		},
	}

	adapter := &embedderAdapter{inner: mock}
	if _, err := adapter.Embed(context.Background(), "hello"); err == nil {
		t.Fatal("expected error from adapter")
	}
}

func TestRecommend_Conversion(t *testing.T) {
	candidate := domrec.NewCandidate(
		"wf-1", "Slack digest", "Daily summary", 0.9,
		"productivity", workflow.Beginner, []string{"slack"},
		"https://example.com/wf-1", 2,
	)
	rec := domrec.NewRecommendation(candidate, 0.87, domrec.Factors{
		Similarity:      0.9,
		ToolAffinity:    1,
		CategoryMatched: true,
	})

	var gotReq recommenduc.Request
	mock := &mockRecommendUC{
		fn: func(_ context.Context, req recommenduc.Request) (recommenduc.Result, error) {
			gotReq = req
			return recommenduc.Result{
				Recommendations:    []domrec.Recommendation{rec},
				ResultsFound:       1,
				ContextualResponse: "The Slack digest fits best.",
			}, nil
		},
	}
	c := testClient(mock, nil, nil, nil)

	res, err := c.Recommend(context.Background(), RecommendRequest{
		Query:      "slack summaries",
		UserID:     42,
		MaxResults: 3,
		Language:   "en",
		Filters:    &Filters{Category: "productivity"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotReq.Query != "slack summaries" || gotReq.UserID != 42 || gotReq.MaxResults != 3 {
		t.Errorf("request not forwarded: %+v", gotReq)
	}
	if gotReq.Filters.Category != "productivity" {
		t.Errorf("filters not forwarded: %+v", gotReq.Filters)
	}

	if len(res.Recommendations) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(res.Recommendations))
	}
	got := res.Recommendations[0]
	if got.WorkflowID != "wf-1" || got.Title != "Slack digest" || got.ChunkCount != 2 {
		t.Errorf("unexpected recommendation: %+v", got)
	}
	if got.SimilarityScore != 0.9 || got.PersonalizedScore != 0.87 {
		t.Errorf("unexpected scores: %+v", got)
	}
	if !got.Factors.CategoryMatched || got.Factors.ToolAffinity != 1 {
		t.Errorf("unexpected factors: %+v", got.Factors)
	}
	if res.ContextualResponse != "The Slack digest fits best." {
		t.Errorf("unexpected contextual response: %q", res.ContextualResponse)
	}
}

func TestRecommend_InvalidComplexityFilter(t *testing.T) {
	c := testClient(&mockRecommendUC{
		fn: func(_ context.Context, _ recommenduc.Request) (recommenduc.Result, error) {
			t.Fatal("usecase must not be called on invalid filters")
			return recommenduc.Result{}, nil
		},
	}, nil, nil, nil)

	_, err := c.Recommend(context.Background(), RecommendRequest{
		Query:   "q",
		Filters: &Filters{Complexity: "wizard"},
	})
	if !errors.Is(err, ErrInvalidFilter) {
		t.Fatalf("expected ErrInvalidFilter, got %v", err)
	}
}

func TestCategories(t *testing.T) {
	c := testClient(nil, &mockCategoryLister{
		fn: func(_ context.Context) ([]string, error) {
			return []string{"automation", "marketing"}, nil
		},
	}, nil, nil)

	items, err := c.Categories(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 || items[0] != "automation" {
		t.Errorf("unexpected categories: %v", items)
	}
}

func TestHealth_Mapping(t *testing.T) {
	c := testClient(nil, nil, &mockHealthUC{report: healthuc.Report{
		Status: healthuc.Degraded,
		Checks: map[string]healthuc.CheckResult{
			"documents": healthuc.CheckError,
			"cache":     healthuc.CheckOK,
		},
	}}, nil)

	status := c.Health(context.Background())
	if status.Status != string(healthuc.Degraded) {
		t.Errorf("status = %q", status.Status)
	}
	if status.Checks["documents"] != string(healthuc.CheckError) {
		t.Errorf("documents check = %q", status.Checks["documents"])
	}
}

func TestBackfill_Summary(t *testing.T) {
	c := testClient(nil, nil, nil, &mockBackfillUC{
		summary: backfilluc.Summary{Total: 5, Succeeded: 4, Failed: 1},
	})

	summary, err := c.Backfill(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Total != 5 || summary.Succeeded != 4 || summary.Failed != 1 {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

func TestClient_Close_NilPool(t *testing.T) {
	c := &Client{}
	c.Close() // must not panic
}

func TestObserver_NilSafe(t *testing.T) {
	var obs *observer
	obs.observe("test", time.Now(), nil)
	obs.observe("test", time.Now(), errors.New("err"))
}

func TestObserver_WithPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}

	obs.observe("recommend", time.Now().Add(-10*time.Millisecond), nil)
	obs.observe("recommend", time.Now(), errors.New("fail"))

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	found := false
	for _, f := range families {
		if f.GetName() == "flowrec_sdk_operations_total" {
			found = true
			if len(f.GetMetric()) != 2 {
				t.Errorf("expected 2 metric samples, got %d", len(f.GetMetric()))
			}
		}
	}
	if !found {
		t.Error("flowrec_sdk_operations_total not found")
	}
}

func TestObserver_NoMetricsNoLogger(t *testing.T) {
	obs, err := newObserver(nil, nil)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}
	obs.observe("noop", time.Now(), nil)
}

type mockEmbedder struct {
	fn func(ctx context.Context, text string) (EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	return m.fn(ctx, text)
}
