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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/litenrich/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "litenrich",
		Usage: "Enrich research articles with summaries, tags and embeddings",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file (default: ./litenrich.yaml if present)",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Load environment variables from this file (default: ./.env if present)",
			},
		},
		Before: func(c *cli.Context) error {
			if err := loadEnv(c); err != nil {
				return err
			}
			return setupLogger(c)
		},
		Commands: []*cli.Command{
			{
				Name:   "enrich",
				Usage:  "Enrich an article file and write the deduplicated corpus",
				Action: enrichCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    "input",
						Aliases: []string{"i"},
						Usage:   "Input article JSON file",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output corpus JSON file",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of articles enriched concurrently per batch",
					},
					&cli.StringFlag{
						Name:  "extraction-model",
						Usage: "Chat model used for extraction",
					},
				}, aiFlags()...),
			},
			{
				Name:   "reembed",
				Usage:  "Recompute the embeddings of an existing corpus",
				Action: reembedCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "Corpus JSON file to reembed",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Where to write the reembedded corpus (defaults to the input file)",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of records embedded per request",
					},
				}, aiFlags()...),
			},
			{
				Name:   "load",
				Usage:  "Bulk insert an enriched corpus into a database",
				Action: loadCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    "input",
						Aliases: []string{"i"},
						Usage:   "Corpus JSON file (defaults to the enrich output)",
					},
					&cli.StringFlag{
						Name:    "target",
						Aliases: []string{"t"},
						Usage:   "Destination: mongo, badger or pgvector",
						Value:   targetMongo,
					},
					&cli.StringFlag{
						Name:  "mongo-database",
						Usage: "MongoDB database (defaults to the one in the URI)",
					},
					&cli.StringFlag{
						Name:  "mongo-collection",
						Usage: "MongoDB collection",
					},
				}, storeFlags()...),
			},
			{
				Name:      "search",
				Usage:     "Search a loaded corpus",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: append(append([]cli.Flag{
					&cli.StringFlag{
						Name:    "target",
						Aliases: []string{"t"},
						Usage:   "Store to search: badger or pgvector",
						Value:   targetBadger,
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results",
					},
					&cli.Float64Flag{
						Name:  "min-similarity",
						Usage: "Minimum cosine similarity for a candidate",
					},
				}, storeFlags()...), aiFlags()...),
			},
		},
	}
}

// aiFlags are shared by every command that talks to the model service.
func aiFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "base-url",
			Usage: "OpenAI-compatible API base URL (env OPENAI_BASE_URL)",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
		},
	}
}

func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "mongo-uri",
			Usage: "MongoDB connection URI (env MONGO_URI)",
		},
		&cli.StringFlag{
			Name:  "badger-path",
			Usage: "Path to BadgerDB database directory",
		},
		&cli.StringFlag{
			Name:  "postgres-url",
			Usage: "Postgres connection string (env DATABASE_URL)",
		},
		&cli.StringFlag{
			Name:  "table",
			Usage: "Postgres table name",
		},
		&cli.IntFlag{
			Name:  "dimensions",
			Usage: "Embedding dimensions of the Postgres vector column",
		},
	}
}

func loadEnv(c *cli.Context) error {
	if path := c.String("env-file"); path != "" {
		return config.LoadEnv(path)
	}
	return config.LoadEnv()
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})).With("run", uuid.NewString())
	slog.SetDefault(logger)

	return nil
}

// loadConfig reads the config file and environment, then applies any flag
// the user set explicitly on the command line.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	applyFlags(c, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFlags(c *cli.Context, cfg *config.Config) {
	setString := func(name string, dst *string) {
		if c.IsSet(name) {
			*dst = c.String(name)
		}
	}
	setInt := func(name string, dst *int) {
		if c.IsSet(name) {
			*dst = c.Int(name)
		}
	}

	setString("base-url", &cfg.AI.BaseURL)
	setString("extraction-model", &cfg.AI.ExtractionModel)
	setString("embedding-model", &cfg.AI.EmbeddingModel)

	setString("mongo-uri", &cfg.Mongo.URI)
	setString("mongo-database", &cfg.Mongo.Database)
	setString("mongo-collection", &cfg.Mongo.Collection)
	setString("badger-path", &cfg.Badger.Path)
	setString("postgres-url", &cfg.Postgres.URL)
	setString("table", &cfg.Postgres.Table)
	setInt("dimensions", &cfg.Postgres.Dimensions)

	setInt("limit", &cfg.Search.Limit)
	if c.IsSet("min-similarity") {
		cfg.Search.MinSimilarity = float32(c.Float64("min-similarity"))
	}

	switch c.Command.Name {
	case "enrich":
		setString("input", &cfg.Enrich.Input)
		setString("output", &cfg.Enrich.Output)
		setInt("batch-size", &cfg.Enrich.BatchSize)
	case "reembed":
		setInt("batch-size", &cfg.Reembed.BatchSize)
	}
}
