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

import "strings"

// HasContent reports whether an article has a non-blank title or abstract.
// Articles without either are never sent for enrichment.
func HasContent(a *Article) bool {
	if a == nil {
		return false
	}
	return strings.TrimSpace(a.Title) != "" || strings.TrimSpace(a.Abstract) != ""
}

// FilterArticles returns the articles that have content, preserving order.
func FilterArticles(articles []*Article) []*Article {
	filtered := make([]*Article, 0, len(articles))
	for _, a := range articles {
		if HasContent(a) {
			filtered = append(filtered, a)
		}
	}
	return filtered
}

// ValidateEnrichment checks the shape constraints of an extraction result.
//
// Validation rules:
//   - Tags, KeyTerms and Quotes must not be nil
//   - Quotes holds at most MaxQuotes entries
//
// NOT validated:
//   - whether quotes occur verbatim in the abstract
//   - recommended tag and key term counts
func ValidateEnrichment(e *Enrichment) error {
	if e == nil {
		return ErrNilEnrichment
	}
	if e.Tags == nil {
		return ErrMissingTags
	}
	if e.KeyTerms == nil {
		return ErrMissingKeyTerms
	}
	if e.Quotes == nil {
		return ErrMissingQuotes
	}
	if len(e.Quotes) > MaxQuotes {
		return ErrTooManyQuotes
	}
	return nil
}

// MaxQuotes caps the quotes an enrichment may carry.
const MaxQuotes = 2
