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


// Package storage provides the storage abstraction layer for enriched
// article corpora.
//
// This package defines the interfaces that decouple the loaders and the
// search layer from any one database. Three backends are provided:
//
//   - storage/badger: embedded key/value store with brute-force vector search
//   - storage/mongo: document store loader using unordered bulk inserts
//   - storage/pgvector: Postgres with the pgvector extension for
//     nearest-neighbour search
//
// # Constructor Return Type Pattern
//
// Public constructors return interfaces to enforce abstraction:
//
//	store, err := mongo.NewCorpusStore(ctx, uri, db, collection)  // storage.CorpusStore
//
// Internal package constructors may return concrete types since they're only
// used within the implementation package.
//
// # Bulk Inserts
//
// InsertMany is never all-or-nothing. Every record is attempted, the number
// of inserted records is returned, and per-record failures are joined with
// errors.Join as *InsertError values:
//
//	n, err := store.InsertMany(ctx, records...)
//	var ie *storage.InsertError
//	if errors.As(err, &ie) && errors.Is(ie, storage.ErrDuplicateKey) {
//	    // at least one record already existed
//	}
//
// # Thread Safety
//
// All implementations must be safe for concurrent use.
package storage
