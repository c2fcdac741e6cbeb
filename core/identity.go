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
	"encoding/hex"
	"encoding/json"

	"github.com/go-crypt/x/blake2b"
)

// ContentHashPrefix marks identity keys derived from content rather than
// from a PMID or DOI.
const ContentHashPrefix = "hash:"

// NoID is logged in place of an identifier for articles that have none.
const NoID = "(no id)"

// IdentityKey returns the deduplication key of an article: its PMID, else
// its DOI, else a prefixed content hash.
func IdentityKey(a *Article) string {
	if a.PMID != "" {
		return a.PMID
	}
	if a.DOI != "" {
		return a.DOI
	}
	return ContentHashPrefix + ContentHash(a)
}

// ContentHash returns a hex BLAKE2b-128 digest of the article's JSON
// encoding. Field order is fixed by the struct, so equal articles always
// hash alike.
func ContentHash(a *Article) string {
	data, err := json.Marshal(a)
	if err != nil {
		// Article holds only strings, so this is unreachable in practice.
		data = []byte(a.Title + "\x00" + a.Abstract)
	}
	h, _ := blake2b.New(16, nil) // 16 bytes = 128 bits
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Richness scores how much content an article carries: title length plus
// abstract length, in code points.
func Richness(a *Article) int {
	return CharCount(a.Title) + CharCount(a.Abstract)
}

// DisplayID returns the identifier used in log lines.
func DisplayID(a *Article) string {
	switch {
	case a.PMID != "":
		return a.PMID
	case a.DOI != "":
		return a.DOI
	default:
		return NoID
	}
}
