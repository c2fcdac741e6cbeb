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


// Package dedupe collapses enriched records that share an identity key.
package dedupe

import "github.com/poiesic/litenrich/core"

// Deduplicate keeps one record per identity key (pmid, else doi, else
// content hash). A later record replaces the kept one only when it is
// strictly richer, so ties keep the first seen. Output order is the order
// in which each key was first seen.
func Deduplicate(records []*core.EnrichedArticle) []*core.EnrichedArticle {
	kept := make([]*core.EnrichedArticle, 0, len(records))
	index := make(map[string]int, len(records))

	for _, record := range records {
		if record == nil {
			continue
		}
		key := core.IdentityKey(&record.Article)
		pos, seen := index[key]
		if !seen {
			index[key] = len(kept)
			kept = append(kept, record)
			continue
		}
		if core.Richness(&record.Article) > core.Richness(&kept[pos].Article) {
			kept[pos] = record
		}
	}

	return kept
}
