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

	"github.com/poiesic/litenrich/ai"
	"github.com/poiesic/litenrich/core"
)

// ArticleEnricher turns one article into one enriched record.
// Implementations must be safe for concurrent use.
type ArticleEnricher interface {
	Enrich(ctx context.Context, article *core.Article) (*core.EnrichedArticle, error)
}

// Enricher extracts an enrichment for an article and embeds the merged
// record's basis. Stored embeddings are unit length. Failures from either
// service are returned unchanged.
type Enricher struct {
	extractor ai.Extractor
	embedder  ai.Embedder
}

// NewEnricher creates an Enricher from explicit services.
func NewEnricher(extractor ai.Extractor, embedder ai.Embedder) (*Enricher, error) {
	if extractor == nil {
		return nil, ErrExtractorRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	return &Enricher{extractor: extractor, embedder: embedder}, nil
}

// Enrich produces the enriched record for a single article.
func (e *Enricher) Enrich(ctx context.Context, article *core.Article) (*core.EnrichedArticle, error) {
	enrichment, err := e.extractor.Extract(ctx, article)
	if err != nil {
		return nil, err
	}

	record := core.NewEnrichedArticle(article, enrichment)

	vector, err := e.embedder.EmbedText(ctx, record.Basis())
	if err != nil {
		return nil, err
	}
	record.Embedding = core.NormalizeVector(vector)

	return record, nil
}
