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


// Package config loads litenrich settings from an optional YAML file, a
// .env file, and the process environment. Environment values win over the
// file; command-line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/poiesic/litenrich/ai"
)

// Defaults applied to unset values.
const (
	DefaultBatchSize      = 15
	DefaultInputPath      = "data/parsed/articles.json"
	DefaultOutputPath     = "data/enriched/articles.enriched.json"
	DefaultSearchLimit    = 10
	DefaultMinSimilarity  = 0.3
	DefaultMongoColl      = "articles"
	DefaultPostgresTable  = "articles"
	DefaultVectorDim      = 1536
	DefaultBadgerPath     = "data/litenrich.db"
	DefaultReembedBatch   = 100
	defaultConfigFileName = "litenrich.yaml"
)

var (
	// ErrInvalidBatchSize is returned when a batch size is below one.
	ErrInvalidBatchSize = errors.New("batch size must be at least 1")
	// ErrInvalidSearchLimit is returned when the search limit is below one.
	ErrInvalidSearchLimit = errors.New("search limit must be at least 1")
)

// AIConfig selects the extraction and embedding services.
type AIConfig struct {
	BaseURL         string `yaml:"base_url"`
	ExtractionHost  string `yaml:"extraction_host"`
	EmbeddingHost   string `yaml:"embedding_host"`
	ExtractionModel string `yaml:"extraction_model"`
	EmbeddingModel  string `yaml:"embedding_model"`
	APIKey          string `yaml:"api_key"`
}

type EnrichConfig struct {
	BatchSize int    `yaml:"batch_size"`
	Input     string `yaml:"input"`
	Output    string `yaml:"output"`
}

type ReembedConfig struct {
	BatchSize int `yaml:"batch_size"`
}

type SearchConfig struct {
	Limit         int     `yaml:"limit"`
	MinSimilarity float32 `yaml:"min_similarity"`
}

type MongoConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

type PostgresConfig struct {
	URL        string `yaml:"url"`
	Table      string `yaml:"table"`
	Dimensions int    `yaml:"dimensions"`
}

type BadgerConfig struct {
	Path string `yaml:"path"`
}

// Config is the full set of litenrich settings.
type Config struct {
	AI       AIConfig       `yaml:"ai"`
	Enrich   EnrichConfig   `yaml:"enrich"`
	Reembed  ReembedConfig  `yaml:"reembed"`
	Search   SearchConfig   `yaml:"search"`
	Mongo    MongoConfig    `yaml:"mongo"`
	Postgres PostgresConfig `yaml:"postgres"`
	Badger   BadgerConfig   `yaml:"badger"`
}

// Load reads the YAML file at path, merges the environment, and applies
// defaults. An empty path tries litenrich.yaml in the working directory and
// then the user config directory; finding neither is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = findConfigFile()
	}

	config := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("error parsing config file %s: %w", path, err)
		}
	}

	mergeWithEnv(config)
	applyDefaults(config)

	return config, nil
}

// LoadEnv loads KEY=value pairs from the given .env files into the process
// environment without overriding variables that are already set. With no
// arguments it loads ./.env if present.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		files = []string{".env"}
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("error loading env file: %w", err)
	}
	return nil
}

func findConfigFile() string {
	locations := []string{defaultConfigFileName}
	if dir, err := os.UserConfigDir(); err == nil {
		locations = append(locations, filepath.Join(dir, "litenrich", "config.yaml"))
	}
	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}
	return ""
}

func mergeWithEnv(config *Config) {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		config.AI.APIKey = key
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		config.AI.BaseURL = baseURL
	}
	if uri := os.Getenv("MONGO_URI"); uri != "" {
		config.Mongo.URI = uri
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		config.Postgres.URL = dbURL
	}
}

func applyDefaults(config *Config) {
	if config.AI.BaseURL == "" {
		config.AI.BaseURL = ai.DefaultHost
	}
	if config.AI.ExtractionModel == "" {
		config.AI.ExtractionModel = ai.DefaultExtractionModel
	}
	if config.AI.EmbeddingModel == "" {
		config.AI.EmbeddingModel = ai.DefaultEmbeddingModel
	}

	if config.Enrich.BatchSize == 0 {
		config.Enrich.BatchSize = DefaultBatchSize
	}
	if config.Enrich.Input == "" {
		config.Enrich.Input = DefaultInputPath
	}
	if config.Enrich.Output == "" {
		config.Enrich.Output = DefaultOutputPath
	}

	if config.Reembed.BatchSize == 0 {
		config.Reembed.BatchSize = DefaultReembedBatch
	}

	if config.Search.Limit == 0 {
		config.Search.Limit = DefaultSearchLimit
	}
	if config.Search.MinSimilarity == 0 {
		config.Search.MinSimilarity = DefaultMinSimilarity
	}

	if config.Mongo.Collection == "" {
		config.Mongo.Collection = DefaultMongoColl
	}

	if config.Postgres.Table == "" {
		config.Postgres.Table = DefaultPostgresTable
	}
	if config.Postgres.Dimensions == 0 {
		config.Postgres.Dimensions = DefaultVectorDim
	}

	if config.Badger.Path == "" {
		config.Badger.Path = DefaultBadgerPath
	}
}

// Validate checks values that defaults cannot repair.
func (c *Config) Validate() error {
	if c.Enrich.BatchSize < 1 {
		return fmt.Errorf("enrich: %w (got %d)", ErrInvalidBatchSize, c.Enrich.BatchSize)
	}
	if c.Reembed.BatchSize < 1 {
		return fmt.Errorf("reembed: %w (got %d)", ErrInvalidBatchSize, c.Reembed.BatchSize)
	}
	if c.Search.Limit < 1 {
		return fmt.Errorf("search: %w (got %d)", ErrInvalidSearchLimit, c.Search.Limit)
	}
	return nil
}

// Provider builds the AI service configuration. Per-service hosts fall back
// to the shared base URL.
func (c *Config) Provider() *ai.Config {
	extractionHost := c.AI.ExtractionHost
	if extractionHost == "" {
		extractionHost = c.AI.BaseURL
	}
	embeddingHost := c.AI.EmbeddingHost
	if embeddingHost == "" {
		embeddingHost = c.AI.BaseURL
	}

	return ai.NewConfig(
		ai.WithExtractionHost(extractionHost),
		ai.WithEmbeddingHost(embeddingHost),
		ai.WithExtractionModel(c.AI.ExtractionModel),
		ai.WithEmbeddingModel(c.AI.EmbeddingModel),
		ai.WithAPIKey(c.AI.APIKey),
	)
}
