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


package core

import "errors"

// Enrichment validation errors
var (
	// ErrNilEnrichment indicates no enrichment was produced.
	ErrNilEnrichment = errors.New("enrichment is nil")

	// ErrMissingTags indicates the tags field was absent.
	ErrMissingTags = errors.New("enrichment tags missing")

	// ErrMissingKeyTerms indicates the key_terms field was absent.
	ErrMissingKeyTerms = errors.New("enrichment key_terms missing")

	// ErrMissingQuotes indicates the quotes field was absent.
	ErrMissingQuotes = errors.New("enrichment quotes missing")

	// ErrTooManyQuotes indicates more than MaxQuotes quotes were returned.
	ErrTooManyQuotes = errors.New("enrichment has too many quotes")
)
