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


package ai

import "errors"

// Per-article failures. None of them is retried.
var (
	// ErrEmptyCompletion indicates the extraction service returned no content.
	ErrEmptyCompletion = errors.New("empty completion")

	// ErrMalformedEnrichment indicates the completion did not parse as an enrichment.
	ErrMalformedEnrichment = errors.New("malformed enrichment")

	// ErrMissingEmbedding indicates the embedding service returned no vector.
	ErrMissingEmbedding = errors.New("embedding missing in response")
)
