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

import "github.com/poiesic/litenrich/core"

// ArticlePayload is the article view sent to the extraction service.
// The abstract is always cut to core.MaxAbstractChars to bound request cost.
type ArticlePayload struct {
	PMID     string    `json:"pmid,omitempty"`
	Title    string    `json:"title,omitempty"`
	Abstract string    `json:"abstract"`
	Journal  string    `json:"journal,omitempty"`
	Year     core.Year `json:"year,omitempty"`
}

// NewArticlePayload builds the extraction payload for an article.
func NewArticlePayload(a *core.Article) ArticlePayload {
	return ArticlePayload{
		PMID:     a.PMID,
		Title:    a.Title,
		Abstract: core.Truncate(a.Abstract, core.MaxAbstractChars),
		Journal:  a.Journal,
		Year:     a.Year,
	}
}

// EnrichmentSchemaName names the strict output schema requested from the
// extraction service.
const EnrichmentSchemaName = "article_enrichment"
