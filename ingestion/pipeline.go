package ingestion

import (
	"context"
	"log/slog"

	"github.com/poiesic/litenrich/ai"
	"github.com/poiesic/litenrich/core"
	"github.com/poiesic/litenrich/dedupe"
)

// Result is the outcome of a Pipeline run.
type Result struct {
	// Articles is the deduplicated output corpus.
	Articles []*core.EnrichedArticle
	// Failures lists the articles whose enrichment failed.
	Failures []Failure
	// Input is the number of articles given to Run.
	Input int
	// Filtered is the number of articles dropped for having no content.
	Filtered int
	// Enriched is the number of successful enrichments before deduplication.
	Enriched int
	// Batches is the number of batches that completed.
	Batches int
}

// Pipeline filters, enriches and deduplicates articles.
type Pipeline struct {
	batch  *BatchProcessor
	logger *slog.Logger
}

// NewPipeline creates a pipeline that enriches with the provider's
// extractor and embedder.
func NewPipeline(provider ai.AIProvider, opts ...Option) (*Pipeline, error) {
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	enricher, err := NewEnricher(provider.Extractor(), provider.Embedder())
	if err != nil {
		return nil, err
	}

	return NewPipelineWithEnricher(enricher, opts...)
}

// NewPipelineWithEnricher creates a pipeline around an arbitrary enricher.
func NewPipelineWithEnricher(enricher ArticleEnricher, opts ...Option) (*Pipeline, error) {
	batch, err := NewBatchProcessor(enricher, opts...)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		batch:  batch,
		logger: batch.base.With("component", "pipeline"),
	}, nil
}

// Run enriches articles and returns the deduplicated corpus. Per-article
// failures are reported in the result. A non-nil error means ctx ended
// between batches; the result still holds the completed batches.
func (p *Pipeline) Run(ctx context.Context, articles []*core.Article) (*Result, error) {
	candidates := core.FilterArticles(articles)
	result := &Result{
		Input:    len(articles),
		Filtered: len(articles) - len(candidates),
	}
	if result.Filtered > 0 {
		p.logger.Info("dropped articles without title or abstract", "count", result.Filtered)
	}

	processed, err := p.batch.Process(ctx, candidates)
	result.Failures = processed.Failures
	result.Enriched = len(processed.Enriched)
	result.Batches = processed.Batches
	result.Articles = dedupe.Deduplicate(processed.Enriched)

	p.logger.Info("pipeline complete",
		"input", result.Input,
		"enriched", result.Enriched,
		"failed", len(result.Failures),
		"output", len(result.Articles))

	return result, err
}
