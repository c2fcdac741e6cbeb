package ingestion

import "errors"

var (
	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrExtractorRequired is returned when an extractor is not provided.
	ErrExtractorRequired = errors.New("extractor required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrEnricherRequired is returned when a batch processor has no enricher.
	ErrEnricherRequired = errors.New("enricher required")

	// ErrInvalidBatchSize is returned when the batch size is less than one.
	ErrInvalidBatchSize = errors.New("batch size must be at least 1")

	// ErrEnrichmentPanicked wraps a panic recovered from an enrichment task.
	ErrEnrichmentPanicked = errors.New("enrichment panicked")
)
