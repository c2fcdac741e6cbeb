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


package openai

import (
	"log/slog"
	"net/http"

	"github.com/poiesic/litenrich/ai"
)

// Provider implements ai.AIProvider using OpenAI-compatible services.
// The embedder and extractor share one HTTP client owned by the provider.
type Provider struct {
	httpClient *http.Client
	embedder   *Embedder
	extractor  *Extractor
	logger     *slog.Logger
}

// NewProvider creates a new AI provider with OpenAI-compatible services.
// The config is validated before use.
//
// Returns ai.AIProvider interface (not *Provider) to enforce abstraction
// and prevent coupling to OpenAI-specific implementation details.
func NewProvider(config *ai.Config) (ai.AIProvider, error) {
	return newProvider(config, &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()})
}

func newProvider(config *ai.Config, httpClient *http.Client) (*Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	embedder, err := newEmbedder(config, httpClient)
	if err != nil {
		return nil, err
	}

	extractor, err := newExtractor(config, httpClient)
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("component", "openai-provider")
	logger.Debug("provider ready",
		"extraction_host", config.ExtractionHost,
		"extraction_model", config.ExtractionModel,
		"embedding_host", config.EmbeddingHost,
		"embedding_model", config.EmbeddingModel)

	return &Provider{
		httpClient: httpClient,
		embedder:   embedder,
		extractor:  extractor,
		logger:     logger,
	}, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Extractor returns the article enrichment service.
func (p *Provider) Extractor() ai.Extractor {
	return p.extractor
}

// Close drops the idle connections of the shared HTTP client. In-flight
// requests are not interrupted.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	p.httpClient.CloseIdleConnections()
	return nil
}
