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


// Package mongo loads enriched corpora into MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/poiesic/litenrich/core"
	"github.com/poiesic/litenrich/storage"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

const (
	// DefaultDatabase is used when neither the caller nor the URI names one.
	DefaultDatabase = "test"

	// DefaultCollection holds one document per enriched article.
	DefaultCollection = "articles"

	duplicateKeyCode = 11000
)

// CorpusStore inserts enriched articles as flat documents.
type CorpusStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     *slog.Logger
}

var _ storage.CorpusStore = (*CorpusStore)(nil)

// NewCorpusStore connects to uri and verifies the connection. An empty
// database falls back to the one named in the URI, then DefaultDatabase.
// An empty collection means DefaultCollection.
//
// Returns storage.CorpusStore interface to enforce abstraction.
func NewCorpusStore(ctx context.Context, uri, database, collection string) (storage.CorpusStore, error) {
	return newCorpusStore(ctx, uri, database, collection)
}

func newCorpusStore(ctx context.Context, uri, database, collection string) (*CorpusStore, error) {
	if uri == "" {
		return nil, errors.New("mongo: connection URI is required")
	}
	database, err := resolveDatabase(uri, database)
	if err != nil {
		return nil, err
	}
	if collection == "" {
		collection = DefaultCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}

	return &CorpusStore{
		client:     client,
		collection: client.Database(database).Collection(collection),
		logger: slog.Default().With("component", "mongo-store",
			"database", database, "collection", collection),
	}, nil
}

func resolveDatabase(uri, database string) (string, error) {
	if database != "" {
		return database, nil
	}
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return "", fmt.Errorf("mongo: invalid URI: %w", err)
	}
	if cs.Database != "" {
		return cs.Database, nil
	}
	return DefaultDatabase, nil
}

// InsertMany performs one unordered bulk insert, so a failing document does
// not stop the rest. Write errors are reported per record; duplicate key
// violations wrap storage.ErrDuplicateKey.
func (s *CorpusStore) InsertMany(ctx context.Context, records ...*core.EnrichedArticle) (int, error) {
	docs := make([]any, 0, len(records))
	keys := make([]string, 0, len(records))
	for _, record := range records {
		if record == nil {
			continue
		}
		docs = append(docs, articleDocument(record))
		keys = append(keys, core.IdentityKey(&record.Article))
	}
	if len(docs) == 0 {
		return 0, nil
	}

	_, err := s.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err == nil {
		s.logger.Info("inserted articles", "count", len(docs))
		return len(docs), nil
	}

	var bwe mongo.BulkWriteException
	if !errors.As(err, &bwe) {
		return 0, err
	}

	errs := insertErrors(bwe, keys)

	inserted := len(docs) - len(bwe.WriteErrors)
	s.logger.Warn("bulk insert finished with errors",
		"inserted", inserted,
		"failed", len(bwe.WriteErrors))
	return inserted, errors.Join(errs...)
}

// insertErrors maps each failed document back to its record's identity key.
func insertErrors(bwe mongo.BulkWriteException, keys []string) []error {
	errs := make([]error, 0, len(bwe.WriteErrors)+1)
	for _, we := range bwe.WriteErrors {
		key := strconv.Itoa(we.Index)
		if we.Index >= 0 && we.Index < len(keys) {
			key = keys[we.Index]
		}
		errs = append(errs, &storage.InsertError{Key: key, Err: writeError(we.WriteError)})
	}
	if bwe.WriteConcernError != nil {
		errs = append(errs, fmt.Errorf("mongo: write concern: %s", bwe.WriteConcernError.Message))
	}
	return errs
}

func writeError(we mongo.WriteError) error {
	if we.Code == duplicateKeyCode {
		return fmt.Errorf("%w: %s", storage.ErrDuplicateKey, we.Message)
	}
	return fmt.Errorf("mongo: code %d: %s", we.Code, we.Message)
}

// Close disconnects the client.
func (s *CorpusStore) Close() error {
	return s.client.Disconnect(context.Background())
}

// articleDocument lays a record out as the same flat object written to the
// output corpus file. Numeric years are stored as numbers.
func articleDocument(record *core.EnrichedArticle) bson.D {
	doc := bson.D{}
	add := func(key string, value any) {
		doc = append(doc, bson.E{Key: key, Value: value})
	}

	if record.PMID != "" {
		add("pmid", record.PMID)
	}
	if record.DOI != "" {
		add("doi", record.DOI)
	}
	if record.Title != "" {
		add("title", record.Title)
	}
	if record.Abstract != "" {
		add("abstract", record.Abstract)
	}
	if record.Journal != "" {
		add("journal", record.Journal)
	}
	if record.Year != "" {
		if n, ok := record.Year.Int(); ok {
			add("year", n)
		} else {
			add("year", string(record.Year))
		}
	}
	if len(record.Authors) > 0 {
		add("authors", record.Authors)
	}
	add("tl_dr", record.TLDR)
	add("tags", nonNil(record.Tags))
	add("key_terms", nonNil(record.KeyTerms))
	add("quotes", nonNil(record.Quotes))
	add("embedding", nonNil(record.Embedding))
	return doc
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
