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


// Package corpus reads input article files and reads and writes enriched
// output corpora. Both are JSON arrays; output is indented UTF-8.
package corpus

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/poiesic/litenrich/core"
)

// ReadArticles reads a JSON array of articles from path.
func ReadArticles(path string) ([]*core.Article, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open articles: %w", err)
	}
	defer f.Close()

	return DecodeArticles(f)
}

// DecodeArticles decodes a JSON array of articles. Null entries are skipped.
func DecodeArticles(r io.Reader) ([]*core.Article, error) {
	var articles []*core.Article
	if err := json.NewDecoder(r).Decode(&articles); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArticles, err)
	}
	return compact(articles), nil
}

// ReadCorpus reads a previously written output corpus from path.
func ReadCorpus(path string) ([]*core.EnrichedArticle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()

	return DecodeCorpus(f)
}

// DecodeCorpus decodes a JSON array of enriched articles.
func DecodeCorpus(r io.Reader) ([]*core.EnrichedArticle, error) {
	var records []*core.EnrichedArticle
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCorpus, err)
	}
	return compact(records), nil
}

// WriteCorpus writes records to path as an indented JSON array, replacing
// any existing file. Missing parent directories are created.
func WriteCorpus(path string, records []*core.EnrichedArticle) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create corpus directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create corpus: %w", err)
	}

	if err := EncodeCorpus(f, records); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close corpus: %w", err)
	}
	return nil
}

// EncodeCorpus writes records as an indented JSON array. An empty corpus
// is written as [] rather than null.
func EncodeCorpus(w io.Writer, records []*core.EnrichedArticle) error {
	if records == nil {
		records = []*core.EnrichedArticle{}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode corpus: %w", err)
	}
	return nil
}

func compact[T any](items []*T) []*T {
	out := items[:0]
	for _, item := range items {
		if item != nil {
			out = append(out, item)
		}
	}
	return out
}
