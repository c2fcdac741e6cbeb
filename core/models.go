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

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Article is one research record as produced by the ingestion step.
// Every field is optional; absent and empty are treated the same.
type Article struct {
	PMID     string   `json:"pmid,omitempty"`
	DOI      string   `json:"doi,omitempty"`
	Title    string   `json:"title,omitempty"`
	Abstract string   `json:"abstract,omitempty"`
	Journal  string   `json:"journal,omitempty"`
	Year     Year     `json:"year,omitempty"`
	Authors  []string `json:"authors,omitempty"`
}

// Year is a publication year. Upstream parsers emit it either as a JSON
// number or as a string, so both are accepted. It is written back as a
// number whenever it holds an integer.
type Year string

// UnmarshalJSON accepts a number, a string, or null.
func (y *Year) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*y = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*y = Year(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("year must be a number or string: %w", err)
	}
	*y = Year(n.String())
	return nil
}

// MarshalJSON writes integral years as numbers and anything else as a string.
func (y Year) MarshalJSON() ([]byte, error) {
	if n, ok := y.Int(); ok {
		return []byte(strconv.Itoa(n)), nil
	}
	return json.Marshal(string(y))
}

// Int returns the year as an integer when it is written in plain digits.
func (y Year) Int() (int, bool) {
	if y == "" || strings.Trim(string(y), "0123456789") != "" {
		return 0, false
	}
	n, err := strconv.Atoi(string(y))
	return n, err == nil
}

// Enrichment is the structured object returned by the extraction service.
type Enrichment struct {
	TLDR     string   `json:"tl_dr"`
	Tags     []string `json:"tags"`
	KeyTerms []string `json:"key_terms"`
	Quotes   []string `json:"quotes"`
}

// EnrichedArticle is an Article overlaid with its Enrichment and the
// embedding of its basis text. It is assembled once and never mutated.
type EnrichedArticle struct {
	Article
	Enrichment
	Embedding []float32 `json:"embedding"`
}

// NewEnrichedArticle merges an article and its enrichment. The enrichment
// fields live in their own struct, so nothing on the article is overwritten.
func NewEnrichedArticle(article *Article, enrichment *Enrichment) *EnrichedArticle {
	ea := &EnrichedArticle{}
	if article != nil {
		ea.Article = *article
	}
	if enrichment != nil {
		ea.Enrichment = *enrichment
	}
	return ea
}

// Basis returns the embedding input for this record.
func (ea *EnrichedArticle) Basis() string {
	return Basis(ea.Title, ea.Abstract, ea.TLDR)
}

// SearchResult is a stored article matched by a vector search.
type SearchResult struct {
	Article *EnrichedArticle
	Score   float32
}
