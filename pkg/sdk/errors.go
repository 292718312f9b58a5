package flowrec

import "github.com/robosmart/flowrec/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound          = domain.ErrNotFound
	ErrVectorDimMismatch = domain.ErrVectorDimMismatch
	ErrEmbeddingProvider = domain.ErrEmbeddingProvider
	ErrStoreAccess       = domain.ErrStoreAccess
	ErrRateLimited       = domain.ErrRateLimited
	ErrInvalidFilter     = domain.ErrInvalidFilter
)
