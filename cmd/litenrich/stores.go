package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/poiesic/litenrich/config"
	"github.com/poiesic/litenrich/storage"
	"github.com/poiesic/litenrich/storage/badger"
	"github.com/poiesic/litenrich/storage/mongo"
	"github.com/poiesic/litenrich/storage/pgvector"
)

const (
	targetMongo    = "mongo"
	targetBadger   = "badger"
	targetPgvector = "pgvector"
)

var errUnknownTarget = errors.New("unknown target")

// openStore opens any destination that can accept a corpus.
func openStore(ctx context.Context, cfg *config.Config, target string) (storage.CorpusStore, error) {
	if target == targetMongo {
		if cfg.Mongo.URI == "" {
			return nil, errors.New("mongo target requires --mongo-uri or MONGO_URI")
		}
		store, err := mongo.NewCorpusStore(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		return store, nil
	}
	return openRepository(ctx, cfg, target)
}

// openRepository opens a destination that also supports vector search.
func openRepository(ctx context.Context, cfg *config.Config, target string) (storage.ArticleRepository, error) {
	switch target {
	case targetBadger:
		repo, err := badger.NewArticleRepository(cfg.Badger.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		return repo, nil
	case targetPgvector:
		repo, err := pgvector.NewStore(ctx, pgvector.Config{
			ConnString: cfg.Postgres.URL,
			Table:      cfg.Postgres.Table,
			Dimensions: cfg.Postgres.Dimensions,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("%w %q: must be one of %s, %s, %s", errUnknownTarget, target, targetMongo, targetBadger, targetPgvector)
	}
}
