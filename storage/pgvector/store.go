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


// Package pgvector stores enriched articles in Postgres and searches them
// with the pgvector extension.
package pgvector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"github.com/poiesic/litenrich/core"
	"github.com/poiesic/litenrich/storage"
)

// Config describes the target database and table.
type Config struct {
	// ConnString is a libpq-style URL or keyword/value string.
	ConnString string
	// Table defaults to "articles".
	Table string
	// Dimensions is the embedding size. Defaults to 1536.
	Dimensions int
}

const (
	defaultTable      = "articles"
	defaultDimensions = 1536
)

func (c *Config) applyDefaults() {
	if c.Table == "" {
		c.Table = defaultTable
	}
	if c.Dimensions == 0 {
		c.Dimensions = defaultDimensions
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	c.applyDefaults()
	if c.ConnString == "" {
		return errors.New("pgvector: connection string is required")
	}
	if c.Dimensions < 1 {
		return errors.New("pgvector: dimensions must be positive")
	}
	return nil
}

// Store keeps one row per identity key. The full record is kept as JSONB
// next to the indexed embedding.
type Store struct {
	pool   *pgxpool.Pool
	name   string
	table  string
	dims   int
	psql   sq.StatementBuilderType
	logger *slog.Logger
}

var _ storage.ArticleRepository = (*Store)(nil)

// NewStore connects, enables the vector extension and creates the table
// and its cosine index when missing.
//
// Returns storage.ArticleRepository interface to enforce abstraction.
func NewStore(ctx context.Context, config Config) (storage.ArticleRepository, error) {
	return newStore(ctx, config)
}

func newStore(ctx context.Context, config Config) (*Store, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(ctx, config.ConnString)
	if err != nil {
		return nil, fmt.Errorf("pgvector: connect: %w", err)
	}

	s := &Store{
		pool:   pool,
		name:   config.Table,
		table:  pgx.Identifier{config.Table}.Sanitize(),
		dims:   config.Dimensions,
		psql:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		logger: slog.Default().With("component", "pgvector-store", "table", config.Table),
	}

	if err := s.initialize(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initialize(ctx context.Context) error {
	for _, stmt := range s.schema() {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("pgvector: initialize: %w", err)
		}
	}
	return nil
}

func (s *Store) schema() []string {
	index := pgx.Identifier{s.name + "_embedding_idx"}.Sanitize()
	return []string{
		"CREATE EXTENSION IF NOT EXISTS vector",
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			pmid TEXT,
			doi TEXT,
			title TEXT,
			tags TEXT[],
			document JSONB NOT NULL,
			embedding vector(%d)
		)`, s.table, s.dims),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s USING hnsw (embedding vector_cosine_ops)`,
			index, s.table),
	}
}

// Close releases the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// InsertMany inserts each record with its own statement, so one failure
// does not roll back the others. Existing ids are left untouched and
// reported as storage.ErrDuplicateKey.
func (s *Store) InsertMany(ctx context.Context, records ...*core.EnrichedArticle) (int, error) {
	inserted := 0
	var errs []error

	for _, record := range records {
		if record == nil {
			continue
		}
		key := core.IdentityKey(&record.Article)

		if err := s.insert(ctx, key, record); err != nil {
			errs = append(errs, &storage.InsertError{Key: key, Err: err})
			if ctx.Err() != nil {
				break
			}
			continue
		}
		inserted++
	}

	s.logger.Info("inserted articles", "inserted", inserted, "failed", len(errs))
	return inserted, errors.Join(errs...)
}

func (s *Store) insert(ctx context.Context, key string, record *core.EnrichedArticle) error {
	query, args, err := s.insertQuery(key, record)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrDuplicateKey
	}
	return nil
}

func (s *Store) insertQuery(key string, record *core.EnrichedArticle) (string, []any, error) {
	var embedding any
	if len(record.Embedding) > 0 {
		if len(record.Embedding) != s.dims {
			return "", nil, fmt.Errorf("%w: got %d, table holds %d",
				storage.ErrDimensionMismatch, len(record.Embedding), s.dims)
		}
		embedding = pgvector.NewVector(record.Embedding)
	}

	document, err := storage.MarshalArticle(record)
	if err != nil {
		return "", nil, err
	}

	return s.psql.Insert(s.table).
		Columns("id", "pmid", "doi", "title", "tags", "document", "embedding").
		Values(key, nullable(record.PMID), nullable(record.DOI), record.Title,
			nonNil(record.Tags), string(document), embedding).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
}

// FindSimilar ranks rows by cosine similarity using the pgvector operator.
func (s *Store) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error) {
	if err := storage.ValidateQuery(vector, limit); err != nil {
		return nil, err
	}
	if len(vector) != s.dims {
		return nil, fmt.Errorf("%w: query has %d, table holds %d",
			storage.ErrDimensionMismatch, len(vector), s.dims)
	}

	query, args, err := s.searchQuery(vector, minSimilarity, limit)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgvector: search: %w", err)
	}
	defer rows.Close()

	var results []*core.SearchResult
	for rows.Next() {
		var document []byte
		var similarity float64
		if err := rows.Scan(&document, &similarity); err != nil {
			return nil, fmt.Errorf("pgvector: scan: %w", err)
		}
		record, err := storage.UnmarshalArticle(document)
		if err != nil {
			return nil, err
		}
		results = append(results, &core.SearchResult{Article: record, Score: float32(similarity)})
	}
	return results, rows.Err()
}

func (s *Store) searchQuery(vector []float32, minSimilarity float32, limit int) (string, []any, error) {
	v := pgvector.NewVector(vector)
	return s.psql.Select("document").
		Column(sq.Expr("1 - (embedding <=> ?) AS similarity", v)).
		From(s.table).
		Where("embedding IS NOT NULL").
		Where(sq.Expr("1 - (embedding <=> ?) >= ?", v, minSimilarity)).
		OrderByClause("embedding <=> ?", v).
		Limit(uint64(limit)).
		ToSql()
}

func (s *Store) GetArticle(ctx context.Context, key string) (*core.EnrichedArticle, error) {
	query, args, err := s.psql.Select("document").From(s.table).Where(sq.Eq{"id": key}).ToSql()
	if err != nil {
		return nil, err
	}

	var document []byte
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&document); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return storage.UnmarshalArticle(document)
}

func (s *Store) CountArticles(ctx context.Context) (int, error) {
	query, args, err := s.psql.Select("count(*)").From(s.table).ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	err = s.pool.QueryRow(ctx, query, args...).Scan(&count)
	return count, err
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
