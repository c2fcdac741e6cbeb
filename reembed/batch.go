package reembed

import (
	"context"
	"fmt"

	"github.com/poiesic/litenrich/ai"
	"github.com/poiesic/litenrich/core"
)

// BatchProcessor embeds batches of enriched articles.
type BatchProcessor struct {
	embedder ai.Embedder
}

// NewBatchProcessor creates a new batch processor.
func NewBatchProcessor(embedder ai.Embedder) *BatchProcessor {
	return &BatchProcessor{embedder: embedder}
}

// Process embeds the basis of every record in one request and returns
// copies carrying the new, unit-length vectors. The input records are not
// modified.
func (bp *BatchProcessor) Process(ctx context.Context, records []*core.EnrichedArticle) ([]*core.EnrichedArticle, error) {
	if len(records) == 0 {
		return nil, nil
	}

	texts := make([]string, len(records))
	for i, record := range records {
		texts[i] = record.Basis()
	}

	embeddings, err := bp.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings: %w", err)
	}

	if len(embeddings) != len(records) {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrEmbeddingCountMismatch, len(records), len(embeddings))
	}

	updated := make([]*core.EnrichedArticle, len(records))
	for i, record := range records {
		if len(embeddings[i]) == 0 {
			return nil, fmt.Errorf("record %s: %w", core.DisplayID(&record.Article), ai.ErrMissingEmbedding)
		}
		clone := *record
		clone.Embedding = core.NormalizeVector(embeddings[i])
		updated[i] = &clone
	}

	return updated, nil
}
