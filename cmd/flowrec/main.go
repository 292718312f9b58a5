package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/robosmart/flowrec/internal/config"
	"github.com/robosmart/flowrec/internal/db"
	dbRedis "github.com/robosmart/flowrec/internal/db/redis"
	"github.com/robosmart/flowrec/internal/domain"
	logpkg "github.com/robosmart/flowrec/internal/logger"
	"github.com/robosmart/flowrec/internal/metrics"
	"github.com/robosmart/flowrec/internal/repository/embcache"
	profilerepo "github.com/robosmart/flowrec/internal/repository/profile"
	workflowrepo "github.com/robosmart/flowrec/internal/repository/workflow"
	chiTransport "github.com/robosmart/flowrec/internal/transport/chi"
	openaiTransport "github.com/robosmart/flowrec/internal/transport/openai"
	backfilluc "github.com/robosmart/flowrec/internal/usecase/backfill"
	embeddinguc "github.com/robosmart/flowrec/internal/usecase/embedding"
	healthuc "github.com/robosmart/flowrec/internal/usecase/health"
	preferenceuc "github.com/robosmart/flowrec/internal/usecase/preference"
	recommenduc "github.com/robosmart/flowrec/internal/usecase/recommend"
	searchuc "github.com/robosmart/flowrec/internal/usecase/search"
	"github.com/robosmart/flowrec/internal/version"
)

func main() {
	runBackfill := flag.Bool("backfill", false, "generate missing embeddings and exit")
	flag.Parse()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting flowrec",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Bool("backfill", *runBackfill),
	)

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	pingCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second)
	if err := pool.Ping(pingCtx); err != nil {
		cancel()
		logger.Fatal("Document store not ready", zap.Error(err))
	}
	cancel()
	logger.Info("Connected to document store")

	// Embedding cache is optional: no cache addrs means every query hits the
	// provider.
	var cache db.Store
	if len(cfg.Cache.Addrs) > 0 {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Username: cfg.Cache.Username,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		cache = store
		logger.Info("Connected to embedding cache")
	}

	metrics.RegisterEmbeddingMetrics()

	embedder := buildEmbedder(cfg, cache, logger)

	workflows := workflowrepo.New(pool)
	profiles := profilerepo.New(pool)

	if *runBackfill {
		backfillSvc := backfilluc.New(workflows, embedder, logger).
			WithBatchSize(cfg.Backfill.BatchSize).
			WithBatchDelay(time.Duration(cfg.Backfill.BatchDelaySec) * time.Second)

		summary, err := backfillSvc.Run(ctx)
		if err != nil {
			logger.Fatal("Backfill failed", zap.Error(err))
		}
		if summary.Failed > 0 {
			os.Exit(1)
		}
		return
	}

	searchSvc := searchuc.New(workflows, embedder, cfg.Embedding.Dimensions, logger).
		WithThreshold(cfg.Search.Threshold)
	prefSvc := preferenceuc.New(profiles, logger)
	recommendSvc := recommenduc.New(searchSvc, prefSvc, logger).
		WithMaxResults(cfg.Search.MaxResults)

	if cfg.Chat.Enabled {
		recommendSvc.WithResponder(openaiTransport.NewResponder(&openaiTransport.ResponderConfig{
			APIKey:      cfg.Embedding.APIKey,
			BaseURL:     cfg.Embedding.BaseURL,
			Model:       cfg.Chat.Model,
			MaxTokens:   cfg.Chat.MaxTokens,
			Temperature: cfg.Chat.Temperature,
			Logger:      logger,
		}))
		logger.Info("Contextual responses enabled", zap.String("model", cfg.Chat.Model))
	}

	var cachePinger healthuc.Pinger
	if cache != nil {
		cachePinger = cache
	}
	healthSvc := healthuc.New(pool, cachePinger, newEmbeddingHealthChecker(embedder))

	server := chiTransport.NewServer(recommendSvc, workflows, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented.
func buildEmbedder(cfg config.Config, cache db.Store, logger *zap.Logger) domain.Embedder {
	base := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})

	var embedder domain.Embedder = base
	if cache != nil {
		embedder = embcache.New(base, cache, metrics.EmbeddingCacheTotal, logger).
			WithTTL(time.Duration(cfg.Cache.TTLHours) * time.Hour)
	}

	return embeddinguc.NewInstrumentedEmbedder(
		embedder, cfg.Embedding.Provider, cfg.Embedding.Model, logger,
	)
}

// embeddingHealthChecker wraps domain.Embedder to implement health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
