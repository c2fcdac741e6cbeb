package search

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/poiesic/litenrich/ai"
	"github.com/poiesic/litenrich/core"
	"github.com/poiesic/litenrich/storage"
)

const (
	// DefaultMinSimilarity drops candidates below this cosine similarity.
	DefaultMinSimilarity float32 = 0.3

	// verbatimBoost is added when an article contains every query word.
	verbatimBoost float32 = 0.3

	// candidateFactor widens the vector search so boosted articles outside
	// the plain top maxHits can still be ranked in.
	candidateFactor = 3
)

// Searcher ranks stored articles against a free-text query. Candidates
// come from vector similarity and are boosted when the query appears
// verbatim in the article text.
type Searcher struct {
	vectors       storage.VectorSearcher
	embedder      ai.Embedder
	minSimilarity float32
	logger        *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets the logger. A nil logger selects slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithMinSimilarity sets the cosine similarity threshold for candidates.
func WithMinSimilarity(min float32) Option {
	return func(s *Searcher) error {
		s.minSimilarity = min
		return nil
	}
}

// NewSearcher creates a searcher that embeds queries with the provider's
// embedder and looks candidates up in vectors.
func NewSearcher(vectors storage.VectorSearcher, provider ai.AIProvider, opts ...Option) (*Searcher, error) {
	if vectors == nil {
		return nil, ErrVectorSearcherRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	s := &Searcher{
		vectors:       vectors,
		embedder:      provider.Embedder(),
		minSimilarity: DefaultMinSimilarity,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "searcher")

	return s, nil
}

// FindSimilar returns up to maxHits articles similar to query, best first.
func (s *Searcher) FindSimilar(ctx context.Context, query string, maxHits int) ([]*core.SearchResult, error) {
	return s.FindSimilarWithMonitor(ctx, query, maxHits, nil)
}

// FindSimilarWithMonitor runs a search and reports each stage to monitor.
func (s *Searcher) FindSimilarWithMonitor(ctx context.Context, query string, maxHits int, monitor SearchMonitor) ([]*core.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if maxHits < 1 {
		return nil, ErrInvalidLimit
	}
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(query)

	embedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}

	candidates, err := s.vectors.FindSimilar(ctx, embedding, s.minSimilarity, maxHits*candidateFactor)
	if err != nil {
		s.logger.Error("error querying for similar articles", "err", err)
		return nil, err
	}
	monitor.AfterSemanticSearch(candidates)

	results := make([]*core.SearchResult, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate == nil || candidate.Article == nil {
			continue
		}
		score := candidate.Score
		if containsAllQueryWords(searchableText(candidate.Article), query) {
			score += verbatimBoost
			monitor.VerbatimHit(candidate.Article)
		}
		results = append(results, &core.SearchResult{
			Article: candidate.Article,
			Score:   score,
		})
	}

	slices.SortStableFunc(results, func(a, b *core.SearchResult) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})
	if len(results) > maxHits {
		results = results[:maxHits]
	}
	monitor.Finish(results)

	s.logger.Debug("search complete", "query", query, "candidates", len(candidates), "results", len(results))
	return results, nil
}

// searchableText joins the fields matched by the verbatim boost.
func searchableText(a *core.EnrichedArticle) string {
	parts := []string{a.Title, a.Abstract, a.TLDR}
	parts = append(parts, a.Tags...)
	parts = append(parts, a.KeyTerms...)
	return strings.Join(parts, " ")
}
