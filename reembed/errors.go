package reembed

import "errors"

var (
	// ErrEmbedderRequired is returned when no embedder is configured
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrEmbeddingCountMismatch is returned when the embedder returns a
	// different number of vectors than it was given texts
	ErrEmbeddingCountMismatch = errors.New("embedding count mismatch")
)
