package backfill

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	dombatch "github.com/robosmart/flowrec/internal/domain/batch"
	"github.com/robosmart/flowrec/internal/domain/workflow"
)

// Defaults tuned against the embedding provider's rate limits.
const (
	DefaultPageSize   = 1000
	DefaultBatchSize  = 10
	DefaultBatchDelay = time.Second
)

// Summary is the outcome of one backfill run.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	Failures  []dombatch.Result
}

// Service generates embeddings for workflows that are missing them.
// Documents are embedded concurrently inside a bounded batch; one
// document's failure is recorded and never aborts the batch.
type Service struct {
	repo       Repository
	embed      Embedder
	pageSize   int
	batchSize  int
	batchDelay time.Duration
	logger     *zap.Logger
}

// New creates a backfill service.
func New(repo Repository, embed Embedder, logger *zap.Logger) *Service {
	return &Service{
		repo:       repo,
		embed:      embed,
		pageSize:   DefaultPageSize,
		batchSize:  DefaultBatchSize,
		batchDelay: DefaultBatchDelay,
		logger:     logger,
	}
}

// WithBatchSize configures the per-batch concurrency bound.
func (s *Service) WithBatchSize(size int) *Service {
	if size > 0 {
		s.batchSize = size
	}
	return s
}

// WithBatchDelay configures the pause between batches.
func (s *Service) WithBatchDelay(d time.Duration) *Service {
	if d >= 0 {
		s.batchDelay = d
	}
	return s
}

// Run walks all workflows without embeddings and fills them in. Returns an
// error only when listing fails or the context is cancelled; individual
// document failures land in the summary.
func (s *Service) Run(ctx context.Context) (Summary, error) {
	var summary Summary

	offset := 0
	for {
		page, err := s.repo.ListMissingEmbeddings(ctx, offset, s.pageSize)
		if err != nil {
			return summary, fmt.Errorf("list missing embeddings: %w", err)
		}
		if len(page) == 0 {
			break
		}

		s.logger.Info("Backfill page fetched",
			zap.Int("offset", offset),
			zap.Int("documents", len(page)),
		)

		for start := 0; start < len(page); start += s.batchSize {
			end := start + s.batchSize
			if end > len(page) {
				end = len(page)
			}

			results := s.processBatch(ctx, page[start:end])
			for _, r := range results {
				summary.Total++
				if r.Status() == dombatch.StatusOK {
					summary.Succeeded++
				} else {
					summary.Failed++
					summary.Failures = append(summary.Failures, r)
				}
			}

			if err := s.pause(ctx); err != nil {
				return summary, err
			}
		}

		if len(page) < s.pageSize {
			break
		}
		offset += s.pageSize
	}

	s.logger.Info("Backfill completed",
		zap.Int("total", summary.Total),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
	)

	return summary, nil
}

// processBatch embeds one batch concurrently, one goroutine per document.
func (s *Service) processBatch(ctx context.Context, docs []workflow.Workflow) []dombatch.Result {
	results := make([]dombatch.Result, len(docs))

	var wg sync.WaitGroup
	for i := range docs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = s.processDocument(ctx, &docs[i])
		}(i)
	}
	wg.Wait()

	return results
}

func (s *Service) processDocument(ctx context.Context, doc *workflow.Workflow) dombatch.Result {
	text := doc.FullDescription()
	if text == "" {
		text = doc.ShortDescription()
	}
	if text == "" {
		return dombatch.NewError(doc.ID(), fmt.Errorf("document has no description"))
	}

	embResult, err := s.embed.Embed(ctx, text)
	if err != nil {
		s.logger.Warn("Embedding generation failed",
			zap.String("workflow_id", doc.ID()),
			zap.Error(err),
		)
		return dombatch.NewError(doc.ID(), fmt.Errorf("embed: %w", err))
	}

	if err := s.repo.UpdateEmbedding(ctx, doc.ID(), embResult.Embedding); err != nil {
		s.logger.Warn("Embedding update failed",
			zap.String("workflow_id", doc.ID()),
			zap.Error(err),
		)
		return dombatch.NewError(doc.ID(), fmt.Errorf("update embedding: %w", err))
	}

	return dombatch.NewOK(doc.ID())
}

func (s *Service) pause(ctx context.Context) error {
	if s.batchDelay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return fmt.Errorf("backfill cancelled: %w", ctx.Err())
	case <-time.After(s.batchDelay):
		return nil
	}
}
