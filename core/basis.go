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
	"strings"
	"unicode/utf8"
)

const (
	// MaxAbstractChars bounds the abstract both in extraction payloads and
	// in the embedding basis.
	MaxAbstractChars = 2000

	// MaxBasisChars bounds the full embedding basis.
	MaxBasisChars = 6000
)

// Basis builds the embedding input: title, a blank line, the abstract
// truncated to MaxAbstractChars, a blank line, then the TL;DR. The result is
// truncated to MaxBasisChars. Lengths are counted in code points.
func Basis(title, abstract, tlDr string) string {
	var b strings.Builder
	b.Grow(len(title) + len(abstract) + len(tlDr) + 4)
	b.WriteString(title)
	b.WriteString("\n\n")
	b.WriteString(Truncate(abstract, MaxAbstractChars))
	b.WriteString("\n\n")
	b.WriteString(tlDr)
	return Truncate(b.String(), MaxBasisChars)
}

// Truncate returns at most n code points of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		// byte length bounds the rune count
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// CharCount returns the number of code points in s.
func CharCount(s string) int {
	return utf8.RuneCountInString(s)
}
