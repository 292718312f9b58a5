package search

import (
	"context"

	"github.com/robosmart/flowrec/internal/domain"
	domsearch "github.com/robosmart/flowrec/internal/domain/search"
	"github.com/robosmart/flowrec/internal/domain/workflow"
)

// Repository defines the storage contract for candidate retrieval.
type Repository interface {
	FetchCandidates(ctx context.Context, filters domsearch.Filters) ([]workflow.Workflow, error)
}

// Embedder vectorizes query text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
