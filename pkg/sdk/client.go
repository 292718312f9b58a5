package flowrec

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/robosmart/flowrec/internal/db"
	dbRedis "github.com/robosmart/flowrec/internal/db/redis"
	"github.com/robosmart/flowrec/internal/domain"
	domsearch "github.com/robosmart/flowrec/internal/domain/search"
	"github.com/robosmart/flowrec/internal/domain/workflow"
	"github.com/robosmart/flowrec/internal/repository/embcache"
	profilerepo "github.com/robosmart/flowrec/internal/repository/profile"
	workflowrepo "github.com/robosmart/flowrec/internal/repository/workflow"
	openaiTransport "github.com/robosmart/flowrec/internal/transport/openai"
	backfilluc "github.com/robosmart/flowrec/internal/usecase/backfill"
	healthuc "github.com/robosmart/flowrec/internal/usecase/health"
	preferenceuc "github.com/robosmart/flowrec/internal/usecase/preference"
	recommenduc "github.com/robosmart/flowrec/internal/usecase/recommend"
	searchuc "github.com/robosmart/flowrec/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultModel            = "text-embedding-3-large"
	defaultDimensions       = 3072
	defaultThreshold        = 0.3
)

// Внутренние интерфейсы для подмены в тестах.
type recommendUseCase interface {
	Recommend(ctx context.Context, req recommenduc.Request) (recommenduc.Result, error)
}

type categoryLister interface {
	Categories(ctx context.Context) ([]string, error)
}

type backfillUseCase interface {
	Run(ctx context.Context) (backfilluc.Summary, error)
}

// Client is the flowrec SDK entry point.
type Client struct {
	pool        *pgxpool.Pool
	cache       db.Store
	recSvc      recommendUseCase
	catSvc      categoryLister
	healthSvc   healthUseCase
	backfillSvc backfillUseCase
	obs         *observer
}

// New creates a flowrec Client and connects to the workflow store.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		model:      defaultModel,
		dimensions: defaultDimensions,
		threshold:  defaultThreshold,
		cacheTTL:   embcache.DefaultTTL,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.dsn == "" {
		return nil, errors.New("flowrec: database DSN required (use WithPostgres)")
	}
	if cfg.apiKey == "" && cfg.embedder == nil {
		return nil, errors.New("flowrec: embedding provider required (use WithOpenAI or WithEmbedder)")
	}

	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	pool, err := pgxpool.New(ctx, cfg.dsn)
	if err != nil {
		return nil, fmt.Errorf("flowrec: create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultReadinessTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("flowrec: workflow store not ready: %w", err)
	}

	cache, err := createCache(ctx, cfg)
	if err != nil {
		pool.Close()
		return nil, err
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		if cache != nil {
			cache.Close()
		}
		pool.Close()
		return nil, err
	}

	return wireClient(pool, cache, cfg, logger, obs), nil
}

func createCache(ctx context.Context, cfg *clientConfig) (db.Store, error) {
	if len(cfg.cacheAddrs) == 0 {
		return nil, nil
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.cacheAddrs,
		Password: cfg.cachePassword,
	})
	if err != nil {
		return nil, fmt.Errorf("flowrec: create cache store: %w", err)
	}
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("flowrec: cache not ready: %w", err)
	}
	return store, nil
}

func wireClient(
	pool *pgxpool.Pool, cache db.Store,
	cfg *clientConfig, logger *zap.Logger, obs *observer,
) *Client {
	embedder := buildEmbedder(cfg, cache, logger)

	workflows := workflowrepo.New(pool)
	profiles := profilerepo.New(pool)

	searchSvc := searchuc.New(workflows, embedder, cfg.dimensions, logger).
		WithThreshold(cfg.threshold)
	prefSvc := preferenceuc.New(profiles, logger)
	recSvc := recommenduc.New(searchSvc, prefSvc, logger).
		WithMaxResults(cfg.maxResults)

	if cfg.chatEnabled {
		recSvc.WithResponder(openaiTransport.NewResponder(&openaiTransport.ResponderConfig{
			APIKey:  cfg.apiKey,
			BaseURL: cfg.baseURL,
			Model:   cfg.chatModel,
			Logger:  logger,
		}))
	}

	var cachePinger healthuc.Pinger
	if cache != nil {
		cachePinger = cache
	}
	var embChecker healthuc.EmbeddingChecker
	if hc, ok := embedder.(domain.HealthChecker); ok {
		embChecker = healthCheckerFunc(hc.HealthCheck)
	}
	healthSvc := healthuc.New(pool, cachePinger, embChecker)

	backfillSvc := backfilluc.New(workflows, embedder, logger)

	return &Client{
		pool:        pool,
		cache:       cache,
		recSvc:      recSvc,
		catSvc:      workflows,
		healthSvc:   healthSvc,
		backfillSvc: backfillSvc,
		obs:         obs,
	}
}

// buildEmbedder assembles the decorator chain: provider -> cache.
func buildEmbedder(cfg *clientConfig, cache db.Store, logger *zap.Logger) domain.Embedder {
	var base domain.Embedder
	if cfg.embedder != nil {
		base = &embedderAdapter{inner: cfg.embedder}
	} else {
		base = openaiTransport.NewEmbedder(&openaiTransport.Config{
			APIKey:     cfg.apiKey,
			BaseURL:    cfg.baseURL,
			Model:      cfg.model,
			Dimensions: cfg.dimensions,
			Provider:   "openai",
			Logger:     logger,
		})
	}

	if cache == nil {
		return base
	}
	return embcache.New(base, cache, nil, logger).WithTTL(cfg.cacheTTL)
}

// Close releases all resources.
func (c *Client) Close() {
	if c.cache != nil {
		c.cache.Close()
	}
	if c.pool != nil {
		c.pool.Close()
	}
}

// Ping checks workflow store connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Recommend runs the full recommendation pipeline for one query.
func (c *Client) Recommend(ctx context.Context, req RecommendRequest) (_ RecommendResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("recommend", start, err) }()

	filters, err := filtersToDomain(req.Filters)
	if err != nil {
		return RecommendResult{}, err
	}

	result, err := c.recSvc.Recommend(ctx, recommenduc.Request{
		Query:      req.Query,
		UserID:     req.UserID,
		Filters:    filters,
		MaxResults: req.MaxResults,
		Language:   req.Language,
	})
	if err != nil {
		return RecommendResult{}, err
	}

	recs := make([]Recommendation, len(result.Recommendations))
	for i := range result.Recommendations {
		recs[i] = recommendationFromDomain(&result.Recommendations[i])
	}
	return RecommendResult{
		Recommendations:    recs,
		ResultsFound:       result.ResultsFound,
		ContextualResponse: result.ContextualResponse,
	}, nil
}

// Categories returns the stored category catalog.
func (c *Client) Categories(ctx context.Context) (_ []string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("categories", start, err) }()

	return c.catSvc.Categories(ctx)
}

// Backfill generates embeddings for workflows that are missing them.
func (c *Client) Backfill(ctx context.Context) (_ BackfillSummary, err error) {
	start := time.Now()
	defer func() { c.obs.observe("backfill", start, err) }()

	summary, err := c.backfillSvc.Run(ctx)
	if err != nil {
		return BackfillSummary{}, err
	}
	return BackfillSummary{
		Total:     summary.Total,
		Succeeded: summary.Succeeded,
		Failed:    summary.Failed,
	}, nil
}

func filtersToDomain(f *Filters) (domsearch.Filters, error) {
	if f == nil {
		return domsearch.Filters{}, nil
	}

	var complexity workflow.Complexity
	if f.Complexity != "" {
		complexity = workflow.Complexity(f.Complexity)
		if !complexity.IsValid() {
			return domsearch.Filters{}, fmt.Errorf(
				"complexity %q: %w", f.Complexity, domain.ErrInvalidFilter)
		}
	}

	return domsearch.Filters{
		Category:   f.Category,
		Complexity: complexity,
		Tool:       f.Tool,
	}, nil
}

// embedderAdapter wraps the public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// healthCheckerFunc adapts a function to healthuc.EmbeddingChecker.
type healthCheckerFunc func(ctx context.Context) error

func (f healthCheckerFunc) HealthCheck(ctx context.Context) error { return f(ctx) }
