// Package ingestion provides pipeline orchestration for enriching articles.
//
// The Pipeline type manages the enrichment workflow, including:
//   - Dropping articles with neither a title nor an abstract
//   - Enriching articles in fixed-size batches, concurrently within a batch
//   - Deduplicating the enriched records by identity key
//
// Batches run strictly one after another. Within a batch every article is
// submitted to a worker pool and the batch completes only when every task
// has settled. A failed article is recorded and skipped; it never aborts the
// batch or the run.
package ingestion
