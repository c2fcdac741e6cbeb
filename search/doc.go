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


// Package search provides semantic search over a stored article corpus.
//
// The Searcher embeds the query with the same embedding service used during
// enrichment and ranks stored articles by cosine similarity. Candidates whose
// title, abstract, summary, tags or key terms contain every non-stop-word of
// the query receive a fixed boost, so exact keyword hits rise above close
// paraphrases.
package search
