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

	"github.com/poiesic/litenrich/core"
)

const (
	// DefaultBatchSize is the default number of records embedded per request
	DefaultBatchSize = 100
)

// RecordIterator walks a corpus in fixed-size batches.
type RecordIterator struct {
	records   []*core.EnrichedArticle
	batchSize int
}

// NewRecordIterator creates a new record iterator.
// batchSize: number of records per batch; values <= 0 use DefaultBatchSize
func NewRecordIterator(records []*core.EnrichedArticle, batchSize int) *RecordIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &RecordIterator{
		records:   records,
		batchSize: batchSize,
	}
}

// ForEach calls fn with the start offset and contents of each batch.
// Iteration stops on the first error from fn. Context cancellation is
// checked before every batch.
func (it *RecordIterator) ForEach(ctx context.Context, fn func(offset int, batch []*core.EnrichedArticle) error) error {
	for i := 0; i < len(it.records); i += it.batchSize {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		end := min(i+it.batchSize, len(it.records))
		if err := fn(i, it.records[i:end]); err != nil {
			return err
		}
	}

	return nil
}
