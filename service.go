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


package litenrich

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/litenrich/ai"
	"github.com/poiesic/litenrich/ai/openai"
	"github.com/poiesic/litenrich/core"
	"github.com/poiesic/litenrich/corpus"
	"github.com/poiesic/litenrich/ingestion"
	"github.com/poiesic/litenrich/reembed"
	"github.com/poiesic/litenrich/search"
	"github.com/poiesic/litenrich/storage"
)

// ErrRepositoryRequired is returned by operations that need a searchable
// article store when the service was created without one.
var ErrRepositoryRequired = errors.New("article repository is required")

// Service bundles the AI provider with an optional article repository and
// hands out pipelines, reembedders and searchers bound to them. The service
// owns both and closes them in Close.
type Service struct {
	provider ai.AIProvider
	repo     storage.ArticleRepository
	logger   *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	aiConfig *ai.Config
	provider ai.AIProvider
	repo     storage.ArticleRepository
	logger   *slog.Logger
}

// WithAIConfig sets the configuration used to build the OpenAI-compatible
// provider. Ignored when WithProvider is also given.
func WithAIConfig(config *ai.Config) ServiceOption {
	return func(o *serviceOptions) {
		o.aiConfig = config
	}
}

// WithProvider uses an already constructed provider.
func WithProvider(provider ai.AIProvider) ServiceOption {
	return func(o *serviceOptions) {
		o.provider = provider
	}
}

// WithRepository attaches a store used by Load and NewSearcher.
func WithRepository(repo storage.ArticleRepository) ServiceOption {
	return func(o *serviceOptions) {
		o.repo = repo
	}
}

// WithLogger sets the service logger. A nil logger selects slog.Default().
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(o *serviceOptions) {
		o.logger = logger
	}
}

// NewService creates a service. Unless WithProvider is given it builds an
// OpenAI-compatible provider from the AI configuration, which defaults to
// ai.DefaultConfig().
func NewService(opts ...ServiceOption) (*Service, error) {
	options := &serviceOptions{
		aiConfig: ai.DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	provider := options.provider
	if provider == nil {
		var err error
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			return nil, err
		}
	}

	return &Service{
		provider: provider,
		repo:     options.repo,
		logger:   options.logger,
	}, nil
}

// Close closes the provider and the repository, if any, and returns
// their errors joined.
func (s *Service) Close() error {
	var errs []error
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
		errs = append(errs, err)
	}
	if s.repo != nil {
		if err := s.repo.Close(); err != nil {
			s.logger.Error("error closing article repository", "err", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Provider returns the AI provider.
func (s *Service) Provider() ai.AIProvider {
	return s.provider
}

// Repository returns the attached store, or nil.
func (s *Service) Repository() storage.ArticleRepository {
	return s.repo
}

// NewPipeline returns an enrichment pipeline using the service's provider.
// Without a WithLogger option the pipeline logs through the service logger.
func (s *Service) NewPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	opts = append([]ingestion.Option{ingestion.WithLogger(s.logger)}, opts...)
	return ingestion.NewPipeline(s.provider, opts...)
}

// EnrichFile reads the input article file, enriches it, and writes the
// deduplicated corpus to output. The output is written even when the run
// was interrupted between batches, so completed work is kept; the
// interruption error is still returned.
func (s *Service) EnrichFile(ctx context.Context, input, output string, opts ...ingestion.Option) (*ingestion.Result, error) {
	articles, err := corpus.ReadArticles(input)
	if err != nil {
		return nil, err
	}

	pipeline, err := s.NewPipeline(opts...)
	if err != nil {
		return nil, err
	}

	result, runErr := pipeline.Run(ctx, articles)
	if err := corpus.WriteCorpus(output, result.Articles); err != nil {
		return result, err
	}
	s.logger.Info("wrote corpus", "path", output, "articles", len(result.Articles))

	return result, runErr
}

// NewReembedder returns a reembedder using the service's embedder.
func (s *Service) NewReembedder(config *reembed.Config, progress ingestion.Reporter) (*reembed.Reembedder, error) {
	if config == nil {
		config = reembed.DefaultConfig()
	}
	if config.Logger == nil {
		config.Logger = s.logger
	}
	return reembed.NewReembedder(s.provider.Embedder(), config, progress)
}

// ReembedFile recomputes every embedding in the corpus at input and writes
// the result to output. input and output may be the same file.
func (s *Service) ReembedFile(ctx context.Context, input, output string, config *reembed.Config, progress ingestion.Reporter) (int, error) {
	records, err := corpus.ReadCorpus(input)
	if err != nil {
		return 0, err
	}

	reembedder, err := s.NewReembedder(config, progress)
	if err != nil {
		return 0, err
	}

	updated, err := reembedder.Run(ctx, records)
	if err != nil {
		return 0, err
	}

	if err := corpus.WriteCorpus(output, updated); err != nil {
		return 0, err
	}
	return len(updated), nil
}

// Load inserts records into the attached repository.
func (s *Service) Load(ctx context.Context, records []*core.EnrichedArticle) (int, error) {
	if s.repo == nil {
		return 0, ErrRepositoryRequired
	}
	return LoadCorpus(ctx, s.repo, records)
}

// LoadCorpus bulk-inserts records into store. Per-record failures do not
// stop the load; they are returned joined together with the number of
// records that were stored.
func LoadCorpus(ctx context.Context, store storage.CorpusStore, records []*core.EnrichedArticle) (int, error) {
	inserted, err := store.InsertMany(ctx, records...)
	if err != nil {
		return inserted, fmt.Errorf("loaded %d of %d records: %w", inserted, len(records), err)
	}
	return inserted, nil
}

// NewSearcher returns a searcher over the attached repository.
func (s *Service) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	if s.repo == nil {
		return nil, ErrRepositoryRequired
	}
	opts = append([]search.Option{search.WithLogger(s.logger)}, opts...)
	return search.NewSearcher(s.repo, s.provider, opts...)
}
