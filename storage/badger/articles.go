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


package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/litenrich/core"
	"github.com/poiesic/litenrich/storage"
)

// ArticleRepository stores enriched articles keyed by identity key.
type ArticleRepository struct {
	backend *Backend
	owned   bool
}

var _ storage.ArticleRepository = (*ArticleRepository)(nil)

// NewArticleRepository opens (or creates) a database directory and returns
// a repository that closes it on Close.
//
// Returns storage.ArticleRepository interface to enforce abstraction.
func NewArticleRepository(path string) (storage.ArticleRepository, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	return &ArticleRepository{backend: backend, owned: true}, nil
}

// newArticleRepository wraps a backend owned by the caller.
func newArticleRepository(backend *Backend) *ArticleRepository {
	return &ArticleRepository{backend: backend}
}

// Close closes the backend when the repository opened it.
func (r *ArticleRepository) Close() error {
	if r.owned && !r.backend.IsClosed() {
		return r.backend.Close()
	}
	return nil
}

// InsertMany stores each record in its own transaction. A record whose
// identity key is already stored fails with storage.ErrDuplicateKey and
// does not affect the others.
func (r *ArticleRepository) InsertMany(ctx context.Context, records ...*core.EnrichedArticle) (int, error) {
	inserted := 0
	var errs []error

	for _, record := range records {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if record == nil {
			continue
		}

		key := core.IdentityKey(&record.Article)
		if err := r.insert(key, record); err != nil {
			r.backend.logger.Debug("insert failed", "key", key, "err", err)
			errs = append(errs, &storage.InsertError{Key: key, Err: err})
			continue
		}
		inserted++
	}

	return inserted, errors.Join(errs...)
}

func (r *ArticleRepository) insert(key string, record *core.EnrichedArticle) error {
	value, err := storage.MarshalArticle(record)
	if err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		dbKey := makeArticleKey(key)
		_, err := tx.Get(dbKey)
		if err == nil {
			return storage.ErrDuplicateKey
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := tx.Set(dbKey, value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

func (r *ArticleRepository) GetArticle(ctx context.Context, key string) (*core.EnrichedArticle, error) {
	var result *core.EnrichedArticle
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeArticleKey(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			result, err = storage.UnmarshalArticle(val)
			return err
		})
	}, false)
	return result, err
}

func (r *ArticleRepository) CountArticles(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(articlePrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

func (r *ArticleRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error) {
	return r.backend.FindSimilar(ctx, vector, minSimilarity, limit)
}
