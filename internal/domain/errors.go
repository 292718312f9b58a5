package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrVectorDimMismatch signals a stored vector whose length differs from the query dimensionality.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrEmbeddingProvider signals an embedding or chat provider failure.
	ErrEmbeddingProvider = errors.New("embedding provider error")
	// ErrStoreAccess signals a document store read failure.
	ErrStoreAccess = errors.New("store access error")
	// ErrRateLimited signals a rate limit hit on an upstream API.
	ErrRateLimited = errors.New("rate limited")
	// ErrInvalidFilter signals an unknown category, complexity, or tool filter value.
	ErrInvalidFilter = errors.New("invalid filter")
)
