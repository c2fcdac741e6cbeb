package mongo

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/litenrich/core"
	"github.com/poiesic/litenrich/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestArticleDocument(t *testing.T) {
	record := &core.EnrichedArticle{
		Article: core.Article{
			PMID:    "1",
			Title:   "Sleep",
			Journal: "J",
			Year:    "2020",
			Authors: []string{"A"},
		},
		Enrichment: core.Enrichment{TLDR: "s", Tags: []string{"t"}},
		Embedding:  []float32{0.5},
	}

	doc := articleDocument(record)
	keys := make([]string, len(doc))
	for i, e := range doc {
		keys[i] = e.Key
	}
	assert.Equal(t, []string{"pmid", "title", "journal", "year", "authors", "tl_dr", "tags", "key_terms", "quotes", "embedding"}, keys)

	m := doc.Map()
	assert.Equal(t, 2020, m["year"])
	assert.Equal(t, []string{}, m["key_terms"], "missing arrays are stored empty")
	assert.Equal(t, []float32{0.5}, m["embedding"])
}

func TestArticleDocument_NonNumericYear(t *testing.T) {
	doc := articleDocument(&core.EnrichedArticle{Article: core.Article{Year: "2020 Spring"}})
	assert.Equal(t, "2020 Spring", doc.Map()["year"])
}

func TestInsertErrors(t *testing.T) {
	bwe := mongo.BulkWriteException{
		WriteErrors: []mongo.BulkWriteError{
			{WriteError: mongo.WriteError{Index: 1, Code: 11000, Message: "E11000 duplicate key"}},
			{WriteError: mongo.WriteError{Index: 0, Code: 121, Message: "document failed validation"}},
			{WriteError: mongo.WriteError{Index: 7, Code: 11000, Message: "E11000 duplicate key"}},
		},
		WriteConcernError: &mongo.WriteConcernError{Message: "waiting for replication timed out"},
	}

	errs := insertErrors(bwe, []string{"1", "10.1/x"})
	require.Len(t, errs, 4)

	var ie *storage.InsertError
	require.ErrorAs(t, errs[0], &ie)
	assert.Equal(t, "10.1/x", ie.Key)
	assert.ErrorIs(t, errs[0], storage.ErrDuplicateKey)

	require.ErrorAs(t, errs[1], &ie)
	assert.Equal(t, "1", ie.Key)
	assert.NotErrorIs(t, errs[1], storage.ErrDuplicateKey)
	assert.Contains(t, errs[1].Error(), "code 121")

	require.ErrorAs(t, errs[2], &ie)
	assert.Equal(t, "7", ie.Key, "unknown indexes fall back to the index")

	assert.Contains(t, errs[3].Error(), "write concern")
}

func TestResolveDatabase(t *testing.T) {
	db, err := resolveDatabase("mongodb://localhost:27017/corpus", "")
	require.NoError(t, err)
	assert.Equal(t, "corpus", db)

	db, err = resolveDatabase("mongodb://localhost:27017", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultDatabase, db)

	db, err = resolveDatabase("mongodb://localhost:27017/corpus", "explicit")
	require.NoError(t, err)
	assert.Equal(t, "explicit", db)

	_, err = resolveDatabase("not-a-uri", "")
	assert.Error(t, err)
}

func TestNewCorpusStore_RequiresURI(t *testing.T) {
	_, err := NewCorpusStore(context.Background(), "", "", "")
	assert.Error(t, err)
}

// TestCorpusStore_Integration runs against a live server when
// LITENRICH_MONGO_URI is set.
func TestCorpusStore_Integration(t *testing.T) {
	uri := os.Getenv("LITENRICH_MONGO_URI")
	if uri == "" {
		t.Skip("LITENRICH_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	collection := "articles_" + uuid.NewString()
	store, err := newCorpusStore(ctx, uri, "litenrich_test", collection)
	require.NoError(t, err)
	defer func() {
		_ = store.collection.Drop(context.Background())
		store.Close()
	}()

	_, err = store.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "pmid", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	require.NoError(t, err)

	n, err := store.InsertMany(ctx,
		&core.EnrichedArticle{Article: core.Article{PMID: "1", Title: "a"}},
		&core.EnrichedArticle{Article: core.Article{PMID: "1", Title: "dup"}},
		&core.EnrichedArticle{Article: core.Article{PMID: "2", Title: "b"}},
	)
	assert.Equal(t, 2, n, "unordered insert continues past the duplicate")
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	var ie *storage.InsertError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "1", ie.Key)

	count, err := store.collection.CountDocuments(ctx, bson.D{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
