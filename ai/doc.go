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


// Package ai provides abstractions for the AI services used to enrich articles.
//
// This package defines interfaces for the two external collaborators of the
// enrichment pipeline: a structured-extraction service that turns an article
// into an Enrichment (TL;DR, tags, key terms, quotes), and an embedding
// service that turns text into a vector. Business logic depends on these
// abstractions rather than on a concrete client, so tests can substitute
// the doubles in ai/mock.
//
// # Implementation Packages
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewProvider, openai.NewEmbedder, etc.) return
// INTERFACE types. Test utility constructors (mock.NewMockEmbedder,
// mock.NewMockExtractor) return CONCRETE types so tests can inject behavior
// and read call counts.
//
// # Usage Example
//
//	cfg := ai.NewConfig(ai.WithAPIKey(os.Getenv("OPENAI_API_KEY")))
//	provider, err := openai.NewProvider(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	enrichment, err := provider.Extractor().Extract(ctx, article)
//	vector, err := provider.Embedder().EmbedText(ctx, "Hello world")
//
// # Errors
//
// Extractors report ErrEmptyCompletion and ErrMalformedEnrichment; embedders
// report ErrMissingEmbedding. Callers treat all three as fatal for the one
// article being processed.
package ai
