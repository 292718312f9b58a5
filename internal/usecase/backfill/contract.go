package backfill

import (
	"context"

	"github.com/robosmart/flowrec/internal/domain"
	"github.com/robosmart/flowrec/internal/domain/workflow"
)

// Repository defines the storage contract for the embedding backfill.
type Repository interface {
	// ListMissingEmbeddings pages through workflows that have a non-empty
	// description but no stored embedding yet.
	ListMissingEmbeddings(ctx context.Context, offset, limit int) ([]workflow.Workflow, error)
	// UpdateEmbedding stores the generated vector for a workflow.
	UpdateEmbedding(ctx context.Context, id string, vector []float32) error
}

// Embedder vectorizes document text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
