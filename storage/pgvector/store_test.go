package pgvector

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"
	"github.com/poiesic/litenrich/core"
	"github.com/poiesic/litenrich/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(dims int) *Store {
	return &Store{
		name:  "articles",
		table: pgx.Identifier{"articles"}.Sanitize(),
		dims:  dims,
		psql:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := Config{ConnString: "postgres://localhost/db"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "articles", cfg.Table)
	assert.Equal(t, 1536, cfg.Dimensions)

	assert.Error(t, (&Config{}).Validate())
	assert.Error(t, (&Config{ConnString: "x", Dimensions: -1}).Validate())
}

func TestInsertQuery(t *testing.T) {
	s := testStore(2)
	record := &core.EnrichedArticle{
		Article:    core.Article{PMID: "1", Title: "T"},
		Enrichment: core.Enrichment{Tags: []string{"a"}},
		Embedding:  []float32{0.1, 0.2},
	}

	query, args, err := s.insertQuery("1", record)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(query, `INSERT INTO "articles" (id,pmid,doi,title,tags,document,embedding) VALUES ($1,$2,$3,$4,$5,$6,$7)`), query)
	assert.True(t, strings.HasSuffix(query, "ON CONFLICT (id) DO NOTHING"), query)
	require.Len(t, args, 7)
	assert.Equal(t, "1", args[0])
	assert.Nil(t, args[2], "empty doi is stored as NULL")
	assert.Equal(t, []string{"a"}, args[4])
	assert.Contains(t, args[5], `"pmid":"1"`)
	assert.Equal(t, pgvector.NewVector([]float32{0.1, 0.2}), args[6])
}

func TestInsertQuery_NoEmbedding(t *testing.T) {
	s := testStore(2)
	_, args, err := s.insertQuery("hash:x", &core.EnrichedArticle{Article: core.Article{Title: "T"}})
	require.NoError(t, err)
	assert.Nil(t, args[6])
	assert.Equal(t, []string{}, args[4])
}

func TestInsertQuery_DimensionMismatch(t *testing.T) {
	s := testStore(3)
	_, _, err := s.insertQuery("1", &core.EnrichedArticle{Embedding: []float32{1}})
	assert.ErrorIs(t, err, storage.ErrDimensionMismatch)
}

func TestSearchQuery(t *testing.T) {
	s := testStore(2)
	query, args, err := s.searchQuery([]float32{1, 0}, 0.5, 5)
	require.NoError(t, err)

	assert.Contains(t, query, `SELECT document, 1 - (embedding <=> $1) AS similarity FROM "articles"`)
	assert.Contains(t, query, "embedding IS NOT NULL")
	assert.Contains(t, query, "1 - (embedding <=> $2) >= $3")
	assert.Contains(t, query, "ORDER BY embedding <=> $4")
	assert.Contains(t, query, "LIMIT 5")
	require.Len(t, args, 4)
	assert.Equal(t, float32(0.5), args[2])
}

func TestFindSimilar_ValidatesBeforeQuerying(t *testing.T) {
	s := testStore(2)

	_, err := s.FindSimilar(context.Background(), nil, 0, 1)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)

	_, err = s.FindSimilar(context.Background(), []float32{1, 0, 0}, 0, 1)
	assert.ErrorIs(t, err, storage.ErrDimensionMismatch)
}

func TestSchema(t *testing.T) {
	s := testStore(3)
	stmts := s.schema()
	require.Len(t, stmts, 3)
	assert.Contains(t, stmts[1], "embedding vector(3)")
	assert.Contains(t, stmts[2], `"articles_embedding_idx"`)
}

// TestStore_Integration runs against a live server with the vector
// extension available when LITENRICH_POSTGRES_URL is set.
func TestStore_Integration(t *testing.T) {
	url := os.Getenv("LITENRICH_POSTGRES_URL")
	if url == "" {
		t.Skip("LITENRICH_POSTGRES_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	table := "articles_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	store, err := newStore(ctx, Config{ConnString: url, Table: table, Dimensions: 3})
	require.NoError(t, err)
	defer func() {
		_, _ = store.pool.Exec(context.Background(), "DROP TABLE IF EXISTS "+store.table)
		store.Close()
	}()

	n, err := store.InsertMany(ctx,
		&core.EnrichedArticle{Article: core.Article{PMID: "1", Title: "near"}, Embedding: []float32{1, 0, 0}},
		&core.EnrichedArticle{Article: core.Article{PMID: "1", Title: "dup"}, Embedding: []float32{1, 0, 0}},
		&core.EnrichedArticle{Article: core.Article{PMID: "2", Title: "far"}, Embedding: []float32{0, 0, 1}},
		&core.EnrichedArticle{Article: core.Article{PMID: "3", Title: "bad"}, Embedding: []float32{1}},
	)
	assert.Equal(t, 2, n)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
	assert.ErrorIs(t, err, storage.ErrDimensionMismatch)

	count, err := store.CountArticles(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	results, err := store.FindSimilar(ctx, []float32{1, 0, 0}, 0.5, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "near", results[0].Article.Title)
	assert.InDelta(t, 1.0, results[0].Score, 1e-5)

	got, err := store.GetArticle(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "far", got.Title)

	_, err = store.GetArticle(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
