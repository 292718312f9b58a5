package search

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/robosmart/flowrec/internal/domain"
	domsearch "github.com/robosmart/flowrec/internal/domain/search"
	"github.com/robosmart/flowrec/internal/domain/workflow"
)

// DefaultThreshold is the minimum similarity a chunk must exceed (strictly)
// to count as a match.
const DefaultThreshold = 0.3

// Service performs brute-force cosine-similarity search over stored
// workflow chunks.
type Service struct {
	repo       Repository
	embed      Embedder
	threshold  float64
	dimensions int
	logger     *zap.Logger
}

// New creates a similarity search service. dimensions is the embedding
// model's output length; a query vector of any other length is rejected
// and stored vectors of any other length are skipped.
func New(repo Repository, embed Embedder, dimensions int, logger *zap.Logger) *Service {
	return &Service{
		repo:       repo,
		embed:      embed,
		threshold:  DefaultThreshold,
		dimensions: dimensions,
		logger:     logger,
	}
}

// WithThreshold overrides the similarity threshold.
func (s *Service) WithThreshold(t float64) *Service {
	if t >= 0 && t <= 1 {
		s.threshold = t
	}
	return s
}

// Search embeds the query, fetches candidates, and returns raw matches
// ordered by similarity descending, at most limit entries. An empty result
// is a valid, non-exceptional outcome.
func (s *Service) Search(
	ctx context.Context, query string, filters domsearch.Filters, limit int,
) ([]domsearch.Match, error) {
	embResult, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}
	if len(embResult.Embedding) != s.dimensions {
		return nil, fmt.Errorf("query embedding has %d dimensions, want %d: %w",
			len(embResult.Embedding), s.dimensions, domain.ErrVectorDimMismatch)
	}

	candidates, err := s.repo.FetchCandidates(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("fetch candidates: %w", err)
	}

	return s.Rank(embResult.Embedding, candidates, limit), nil
}

// Rank scores candidates against the query vector and keeps those strictly
// above the threshold. Candidates with a missing embedding, a mismatched
// dimension, or a zero norm are skipped, never failing the batch. The sort
// is stable: equal similarities preserve candidate-fetch order.
func (s *Service) Rank(
	queryVector []float32, candidates []workflow.Workflow, limit int,
) []domsearch.Match {
	matches := make([]domsearch.Match, 0, len(candidates))

	for i := range candidates {
		c := &candidates[i]

		vec := c.Embedding()
		if vec == nil {
			continue
		}
		if len(vec) != s.dimensions {
			s.logger.Warn("Skipping candidate with mismatched embedding",
				zap.String("workflow_id", c.ID()),
				zap.Int("got_dimensions", len(vec)),
				zap.Int("want_dimensions", s.dimensions),
			)
			continue
		}

		sim, ok := cosineSimilarity(queryVector, vec)
		if !ok {
			s.logger.Warn("Skipping candidate with degenerate embedding",
				zap.String("workflow_id", c.ID()),
			)
			continue
		}

		if sim > s.threshold {
			matches = append(matches, domsearch.MatchFromWorkflow(c, sim))
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity() > matches[j].Similarity()
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	return matches
}
