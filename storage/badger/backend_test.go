package badger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/litenrich/core"
	"github.com/poiesic/litenrich/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestOpenBackend_FileSystem(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "db")
	backend, err := OpenBackend(dir, false)
	require.NoError(t, err)
	defer backend.Close()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir(), "missing directories should be created")
}

func TestOpenBackend_NotADirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := OpenBackend(path, false)
	assert.Error(t, err)
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)

	require.NoError(t, backend.Close())
	assert.True(t, backend.IsClosed())

	_, err = backend.FindSimilar(context.Background(), []float32{1}, 0, 1)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestFindSimilar_NoRecords(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	results, err := backend.FindSimilar(context.Background(), []float32{0.1, 0.2, 0.3}, 0.5, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFindSimilar_InvalidQuery(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	_, err = backend.FindSimilar(context.Background(), nil, 0, 10)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)

	_, err = backend.FindSimilar(context.Background(), []float32{1}, 0, 0)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}

func seedRepository(t *testing.T) *ArticleRepository {
	t.Helper()
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	repo := newArticleRepository(backend)
	records := []*core.EnrichedArticle{
		{Article: core.Article{PMID: "1", Title: "First"}, Embedding: []float32{1.0, 0.0, 0.0}},
		{Article: core.Article{PMID: "2", Title: "Second"}, Embedding: []float32{0.9, 0.1, 0.0}},
		{Article: core.Article{PMID: "3", Title: "Third"}, Embedding: []float32{0.0, 0.0, 1.0}},
		{Article: core.Article{PMID: "4", Title: "No vector"}},
		{Article: core.Article{PMID: "5", Title: "Other model"}, Embedding: []float32{1.0, 0.0}},
	}
	n, err := repo.InsertMany(context.Background(), records...)
	require.NoError(t, err)
	require.Equal(t, len(records), n)
	return repo
}

func TestFindSimilar_WithRecords(t *testing.T) {
	repo := seedRepository(t)

	results, err := repo.FindSimilar(context.Background(), []float32{1.0, 0.0, 0.0}, 0.0, 10)
	require.NoError(t, err)
	require.Len(t, results, 3, "records without a same-sized vector are skipped")

	for i := 0; i < len(results)-1; i++ {
		assert.GreaterOrEqual(t, results[i].Score, results[i+1].Score)
	}
	assert.Equal(t, "First", results[0].Article.Title)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
	assert.Equal(t, "Second", results[1].Article.Title)
}

func TestFindSimilar_ThresholdFiltering(t *testing.T) {
	repo := seedRepository(t)

	results, err := repo.FindSimilar(context.Background(), []float32{1.0, 0.0, 0.0}, 0.8, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.GreaterOrEqual(t, r.Score, float32(0.8))
	}
}

func TestFindSimilar_LimitResults(t *testing.T) {
	repo := seedRepository(t)

	results, err := repo.FindSimilar(context.Background(), []float32{1.0, 0.0, 0.0}, -1, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "1", results[0].Article.PMID)
}

func TestFindSimilar_ContextCanceled(t *testing.T) {
	repo := seedRepository(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.FindSimilar(ctx, []float32{1.0, 0.0, 0.0}, 0, 10)
	assert.ErrorIs(t, err, context.Canceled)
}
