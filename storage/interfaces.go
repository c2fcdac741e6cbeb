package storage

import (
	"context"

	"github.com/poiesic/litenrich/core"
)

// CorpusStore receives an enriched corpus.
type CorpusStore interface {
	// InsertMany inserts records without stopping at the first failure.
	// It returns how many records were inserted; failures are joined into
	// the error as *InsertError values.
	InsertMany(ctx context.Context, records ...*core.EnrichedArticle) (int, error)

	// Close closes the storage backend and releases resources.
	Close() error
}

// VectorSearcher finds stored articles near a query vector.
type VectorSearcher interface {
	// FindSimilar finds articles similar to the given vector.
	// Returns articles with similarity >= minSimilarity, up to limit results.
	// Results are ordered by similarity score (highest first).
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error)
}

// ArticleRepository is a searchable corpus store.
type ArticleRepository interface {
	CorpusStore
	VectorSearcher

	// GetArticle retrieves an article by identity key.
	// Returns ErrNotFound if the article doesn't exist.
	GetArticle(ctx context.Context, key string) (*core.EnrichedArticle, error)

	// CountArticles returns the number of stored articles.
	CountArticles(ctx context.Context) (int, error)
}
