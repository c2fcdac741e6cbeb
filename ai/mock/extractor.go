package mock

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/poiesic/litenrich/core"
)

// MockExtractor is a test double for ai.Extractor.
type MockExtractor struct {
	// ExtractFunc is called by Extract if set.
	// If nil, builds a simple enrichment from the article text.
	ExtractFunc func(ctx context.Context, article *core.Article) (*core.Enrichment, error)

	callCount atomic.Int64

	mu       sync.Mutex
	articles []*core.Article
}

// NewMockExtractor creates a mock extractor with default behavior.
func NewMockExtractor() *MockExtractor {
	return &MockExtractor{}
}

// Extract returns the enrichment for an article.
func (m *MockExtractor) Extract(ctx context.Context, article *core.Article) (*core.Enrichment, error) {
	m.callCount.Add(1)
	m.mu.Lock()
	m.articles = append(m.articles, article)
	m.mu.Unlock()

	if m.ExtractFunc != nil {
		return m.ExtractFunc(ctx, article)
	}

	return Enrichment(article), nil
}

// CallCount returns the number of Extract calls.
func (m *MockExtractor) CallCount() int {
	return int(m.callCount.Load())
}

// Articles returns the articles passed to Extract, in call order.
func (m *MockExtractor) Articles() []*core.Article {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*core.Article(nil), m.articles...)
}

func (m *MockExtractor) Reset() {
	m.callCount.Store(0)
	m.mu.Lock()
	m.articles = nil
	m.mu.Unlock()
	m.ExtractFunc = nil
}

// Enrichment derives a deterministic enrichment from an article.
// The summary echoes the title, tags and key terms come from the first
// words, and the first abstract sentence becomes the only quote.
func Enrichment(article *core.Article) *core.Enrichment {
	words := strings.Fields(strings.ToLower(article.Title + " " + article.Abstract))
	tags := make([]string, 0, 3)
	terms := make([]string, 0, 3)
	for _, word := range words {
		word = strings.Trim(word, ".,!?;:\"'()[]{}")
		if len(word) < 4 {
			continue
		}
		if len(tags) < 3 {
			tags = append(tags, word)
		} else if len(terms) < 3 {
			terms = append(terms, word)
		}
	}

	quotes := []string{}
	if sentence, _, _ := strings.Cut(strings.TrimSpace(article.Abstract), "."); sentence != "" {
		quotes = append(quotes, sentence)
	}

	return &core.Enrichment{
		TLDR:     "Summary of " + strings.TrimSpace(article.Title),
		Tags:     tags,
		KeyTerms: terms,
		Quotes:   quotes,
	}
}
