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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/poiesic/litenrich/ai"
	"github.com/poiesic/litenrich/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Extractor implements ai.Extractor using OpenAI-compatible chat APIs.
type Extractor struct {
	client llms.Model
	logger *slog.Logger
}

// enrichment is the wire shape of the model's response. Pointer fields
// distinguish absent keys from empty values.
type enrichment struct {
	TLDR     *string   `json:"tl_dr"`
	Tags     *[]string `json:"tags"`
	KeyTerms *[]string `json:"key_terms"`
	Quotes   *[]string `json:"quotes"`
}

// newExtractor is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newExtractor(config *ai.Config, httpClient *http.Client) (*Extractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ExtractionHost),
		openai.WithToken(config.Token()),
		openai.WithHTTPClient(httpClient),
		openai.WithModel(config.ExtractionModel),
		openai.WithResponseFormat(enrichmentResponseFormat),
	)
	if err != nil {
		return nil, err
	}

	return &Extractor{
		client: client,
		logger: slog.Default().With("component", "openai-extractor"),
	}, nil
}

// NewExtractor creates a new enrichment extractor using the provided configuration.
//
// Returns ai.Extractor interface to enforce abstraction.
func NewExtractor(config *ai.Config) (ai.Extractor, error) {
	return newExtractor(config, http.DefaultClient)
}

// Extract asks the model for a structured enrichment of one article.
// The request runs at temperature 0 and is not retried.
func (e *Extractor) Extract(ctx context.Context, article *core.Article) (*core.Enrichment, error) {
	payload, err := json.Marshal(ai.NewArticlePayload(article))
	if err != nil {
		return nil, err
	}

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(buildSystemPrompt()),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(buildUserPrompt(payload)),
			},
		},
	}

	response, err := e.client.GenerateContent(ctx, content, llms.WithTemperature(0.0))
	if err != nil {
		e.logger.Error("failed to generate content", "article", core.DisplayID(article), "err", err)
		if isEmptyResponse(err) {
			return nil, fmt.Errorf("%w: %w", ai.ErrEmptyCompletion, err)
		}
		return nil, err
	}

	if len(response.Choices) < 1 || strings.TrimSpace(response.Choices[0].Content) == "" {
		e.logger.Debug("no content returned from model", "article", core.DisplayID(article))
		return nil, ai.ErrEmptyCompletion
	}

	result, err := parseEnrichment(response.Choices[0].Content)
	if err != nil {
		e.logger.Warn("error parsing extraction response",
			"article", core.DisplayID(article),
			"response", response.Choices[0].Content,
			"err", err)
		return nil, fmt.Errorf("%w: %w", ai.ErrMalformedEnrichment, err)
	}

	return result, nil
}

// parseEnrichment decodes a model response into an Enrichment. Markdown
// code fences are tolerated; unknown keys, missing keys and trailing data
// are not.
func parseEnrichment(raw string) (*core.Enrichment, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.DisallowUnknownFields()

	var wire enrichment
	if err := dec.Decode(&wire); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after enrichment object")
	}

	if wire.TLDR == nil {
		return nil, errors.New("tl_dr is missing")
	}
	if wire.Tags == nil {
		return nil, core.ErrMissingTags
	}
	if wire.KeyTerms == nil {
		return nil, core.ErrMissingKeyTerms
	}
	if wire.Quotes == nil {
		return nil, core.ErrMissingQuotes
	}

	result := &core.Enrichment{
		TLDR:     *wire.TLDR,
		Tags:     *wire.Tags,
		KeyTerms: *wire.KeyTerms,
		Quotes:   *wire.Quotes,
	}
	if err := core.ValidateEnrichment(result); err != nil {
		return nil, err
	}
	return result, nil
}
