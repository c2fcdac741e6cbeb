package ai

import (
	"context"

	"github.com/poiesic/litenrich/core"
)

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns ErrMissingEmbedding if the service answered without a vector.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Extractor produces the structured enrichment of a single article.
// Implementations must be thread-safe for concurrent use.
type Extractor interface {
	// Extract sends a bounded payload built from the article to the
	// extraction service and returns the parsed Enrichment.
	// Returns ErrEmptyCompletion when the service returns blank content and
	// ErrMalformedEnrichment when the content does not match the schema.
	Extract(ctx context.Context, article *core.Article) (*core.Enrichment, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Extractor returns the structured extraction service.
	// The returned Extractor is safe for concurrent use.
	Extractor() Extractor

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
