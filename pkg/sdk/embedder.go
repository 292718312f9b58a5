package flowrec

import "context"

// Embedder converts text to vector embeddings. Supply one via WithEmbedder
// to replace the built-in OpenAI provider.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// EmbeddingResult carries the embedding vector and token counts.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}
