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


package reembed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/litenrich/ai"
	"github.com/poiesic/litenrich/core"
	"github.com/poiesic/litenrich/ingestion"
)

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of records embedded per request
	BatchSize int

	// Logger receives batch-level log lines. Nil means slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize: DefaultBatchSize,
	}
}

// Reembedder recomputes the embedding of every record in a corpus.
type Reembedder struct {
	config    *Config
	processor *BatchProcessor
	progress  ingestion.Reporter
	logger    *slog.Logger
}

// NewReembedder creates a new reembedder.
// progress: receives per-record progress; nil disables reporting
func NewReembedder(embedder ai.Embedder, config *Config, progress ingestion.Reporter) (*Reembedder, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if config.BatchSize < 1 {
		return nil, fmt.Errorf("%w: %d", ingestion.ErrInvalidBatchSize, config.BatchSize)
	}
	if progress == nil {
		progress = discardProgress{}
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Reembedder{
		config:    config,
		processor: NewBatchProcessor(embedder),
		progress:  progress,
		logger:    logger.With("component", "reembedder"),
	}, nil
}

// Run returns a copy of records with every embedding recomputed from the
// record's basis. Nil entries are dropped. The first failing batch aborts
// the run; partial results are not returned.
func (r *Reembedder) Run(ctx context.Context, records []*core.EnrichedArticle) ([]*core.EnrichedArticle, error) {
	present := make([]*core.EnrichedArticle, 0, len(records))
	for _, record := range records {
		if record != nil {
			present = append(present, record)
		}
	}

	if len(present) == 0 {
		r.logger.Info("no records to reembed")
		return []*core.EnrichedArticle{}, nil
	}

	r.logger.Info("starting reembedding", "records", len(present), "batch_size", r.config.BatchSize)
	r.progress.Start(len(present))
	start := time.Now()

	updated := make([]*core.EnrichedArticle, 0, len(present))
	iterator := NewRecordIterator(present, r.config.BatchSize)
	err := iterator.ForEach(ctx, func(offset int, batch []*core.EnrichedArticle) error {
		r.logger.Debug("processing batch", "first", offset+1, "last", offset+len(batch))
		embedded, err := r.processor.Process(ctx, batch)
		if err != nil {
			return fmt.Errorf("failed to process batch starting at record %d: %w", offset+1, err)
		}
		updated = append(updated, embedded...)
		r.progress.Increment(len(batch))
		return nil
	})
	if err != nil {
		r.logger.Error("reembedding aborted", "err", err)
		return nil, err
	}

	r.progress.Finish()
	elapsed := time.Since(start)
	r.logger.Info("reembedding complete", "records", len(updated), "elapsed", elapsed.Round(time.Millisecond))

	return updated, nil
}

type discardProgress struct{}

func (discardProgress) Start(int)     {}
func (discardProgress) Increment(int) {}
func (discardProgress) Finish()       {}
