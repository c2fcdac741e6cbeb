// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/litenrich/core"
)

// DefaultBatchSize is the number of articles enriched concurrently.
const DefaultBatchSize = 15

// Failure records an article whose enrichment failed.
type Failure struct {
	// ID is the article's pmid, else its doi, else core.NoID.
	ID  string
	Err error
}

func (f Failure) Error() string {
	return fmt.Sprintf("article %s: %v", f.ID, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// BatchResult is the outcome of a BatchProcessor run.
type BatchResult struct {
	// Enriched holds the successful records in input order.
	Enriched []*core.EnrichedArticle
	// Failures holds one entry per failed article in input order.
	Failures []Failure
	// Batches is the number of batches that completed.
	Batches int
}

// BatchProcessor drives an ArticleEnricher over a list of articles in
// fixed-size batches.
type BatchProcessor struct {
	enricher  ArticleEnricher
	batchSize int
	reporter  Reporter
	base      *slog.Logger
	logger    *slog.Logger
}

// Option configures a BatchProcessor or a Pipeline.
type Option func(*BatchProcessor) error

// WithBatchSize sets how many articles are enriched concurrently.
func WithBatchSize(size int) Option {
	return func(bp *BatchProcessor) error {
		if size < 1 {
			return ErrInvalidBatchSize
		}
		bp.batchSize = size
		return nil
	}
}

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) Option {
	return func(bp *BatchProcessor) error {
		if logger == nil {
			logger = slog.Default()
		}
		bp.base = logger
		return nil
	}
}

// WithReporter sets the progress reporter.
func WithReporter(reporter Reporter) Option {
	return func(bp *BatchProcessor) error {
		if reporter == nil {
			reporter = nopReporter{}
		}
		bp.reporter = reporter
		return nil
	}
}

// NewBatchProcessor creates a BatchProcessor with a batch size of
// DefaultBatchSize unless overridden.
func NewBatchProcessor(enricher ArticleEnricher, opts ...Option) (*BatchProcessor, error) {
	if enricher == nil {
		return nil, ErrEnricherRequired
	}

	bp := &BatchProcessor{
		enricher:  enricher,
		batchSize: DefaultBatchSize,
		reporter:  nopReporter{},
		base:      slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(bp); err != nil {
			return nil, err
		}
	}
	bp.logger = bp.base.With("component", "batch-processor")

	return bp, nil
}

// BatchSize returns the configured batch size.
func (bp *BatchProcessor) BatchSize() int {
	return bp.batchSize
}

// Process enriches every article. Batches run sequentially and each one
// waits for all of its tasks before the next starts. Per-article failures
// are collected in the result. The returned error is non-nil only when ctx
// ends between batches or the worker pool cannot be created; the result
// then holds the batches that completed.
func (bp *BatchProcessor) Process(ctx context.Context, articles []*core.Article) (*BatchResult, error) {
	result := &BatchResult{
		Enriched: make([]*core.EnrichedArticle, 0, len(articles)),
	}
	if len(articles) == 0 {
		bp.logger.Info("all batches complete", "succeeded", 0, "failed", 0)
		return result, nil
	}

	pool, err := ants.NewPool(bp.batchSize)
	if err != nil {
		return result, err
	}
	defer pool.Release()

	bp.reporter.Start(len(articles))
	defer bp.reporter.Finish()

	for start := 0; start < len(articles); start += bp.batchSize {
		if err := ctx.Err(); err != nil {
			bp.logger.Warn("stopping before batch", "first", start+1, "err", err)
			return result, err
		}

		end := min(start+bp.batchSize, len(articles))
		bp.logger.Info("processing batch", "first", start+1, "last", end)

		enriched, failures := bp.runBatch(ctx, pool, articles[start:end])
		result.Enriched = append(result.Enriched, enriched...)
		result.Failures = append(result.Failures, failures...)
		result.Batches++

		bp.logger.Info("batch complete", "succeeded", len(enriched), "failed", len(failures))
	}

	bp.logger.Info("all batches complete",
		"succeeded", len(result.Enriched),
		"failed", len(result.Failures),
		"batches", result.Batches)
	return result, nil
}

// runBatch enriches one batch concurrently and returns once every task has
// settled. Each task writes only its own slot.
func (bp *BatchProcessor) runBatch(ctx context.Context, pool *ants.Pool, batch []*core.Article) ([]*core.EnrichedArticle, []Failure) {
	records := make([]*core.EnrichedArticle, len(batch))
	errs := make([]error, len(batch))

	var wg sync.WaitGroup
	for i, article := range batch {
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					errs[i] = fmt.Errorf("%w: %v", ErrEnrichmentPanicked, r)
				}
				bp.reporter.Increment(1)
			}()
			records[i], errs[i] = bp.enricher.Enrich(ctx, article)
		})
		if submitErr != nil {
			errs[i] = submitErr
			bp.reporter.Increment(1)
			wg.Done()
		}
	}
	wg.Wait()

	enriched := make([]*core.EnrichedArticle, 0, len(batch))
	var failures []Failure
	for i, article := range batch {
		if errs[i] == nil && records[i] == nil {
			errs[i] = core.ErrNilEnrichment
		}
		if errs[i] != nil {
			id := core.DisplayID(article)
			bp.logger.Error("failed for article", "id", id, "err", errs[i])
			failures = append(failures, Failure{ID: id, Err: errs[i]})
			continue
		}
		enriched = append(enriched, records[i])
	}
	return enriched, failures
}
