package flowrec

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	dsn string

	cacheAddrs    []string
	cachePassword string
	cacheTTL      time.Duration

	apiKey     string
	baseURL    string
	model      string
	dimensions int

	embedder Embedder

	chatEnabled bool
	chatModel   string

	threshold  float64
	maxResults int

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithPostgres sets the workflow store connection string. Required.
func WithPostgres(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.dsn = dsn
	})
}

// WithRedisCache enables the Redis embedding cache.
// Without it every query embedding hits the provider.
func WithRedisCache(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
	})
}

// WithCacheTTL overrides the cached embedding lifetime. Default: 24h.
func WithCacheTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheTTL = ttl
	})
}

// WithOpenAI sets the embedding provider API key.
// Required unless a custom Embedder is supplied.
func WithOpenAI(apiKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.apiKey = apiKey
	})
}

// WithBaseURL points the provider client at an OpenAI-compatible endpoint.
func WithBaseURL(baseURL string) Option {
	return optionFunc(func(c *clientConfig) {
		c.baseURL = baseURL
	})
}

// WithEmbeddingModel sets the embedding model and vector dimensionality.
// Defaults to text-embedding-3-large with 3072 dimensions.
func WithEmbeddingModel(model string, dimensions int) Option {
	return optionFunc(func(c *clientConfig) {
		c.model = model
		c.dimensions = dimensions
	})
}

// WithEmbedder sets a custom embedding provider instead of OpenAI.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithChat enables contextual response generation with the given chat model.
// Pass "" for the default (gpt-4o-mini).
func WithChat(model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.chatEnabled = true
		c.chatModel = model
	})
}

// WithThreshold sets the minimum cosine similarity (exclusive). Default: 0.3.
func WithThreshold(threshold float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.threshold = threshold
	})
}

// WithMaxResults sets the default recommendation count. Default: 5.
func WithMaxResults(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxResults = n
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
