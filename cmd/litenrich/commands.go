package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/litenrich"
	"github.com/poiesic/litenrich/core"
	"github.com/poiesic/litenrich/corpus"
	"github.com/poiesic/litenrich/ingestion"
	"github.com/poiesic/litenrich/reembed"
	"github.com/poiesic/litenrich/search"
)

var (
	infoColor    = color.New(color.FgCyan)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	failColor    = color.New(color.FgRed)
)

func enrichCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	svc, err := litenrich.NewService(litenrich.WithAIConfig(cfg.Provider()))
	if err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}
	defer svc.Close()

	out := c.App.ErrWriter
	infoColor.Fprintf(out, "Input: %s\n", cfg.Enrich.Input)
	infoColor.Fprintf(out, "Output: %s\n", cfg.Enrich.Output)
	infoColor.Fprintf(out, "Extraction model: %s\n", cfg.AI.ExtractionModel)
	infoColor.Fprintf(out, "Embedding model: %s\n\n", cfg.AI.EmbeddingModel)

	result, err := svc.EnrichFile(c.Context, cfg.Enrich.Input, cfg.Enrich.Output,
		ingestion.WithBatchSize(cfg.Enrich.BatchSize),
		ingestion.WithReporter(newBarReporter(out, "Enriching")),
	)
	if result != nil {
		printEnrichSummary(c, result)
	}
	if err != nil {
		return fmt.Errorf("enrichment failed: %w", err)
	}
	return nil
}

func printEnrichSummary(c *cli.Context, result *ingestion.Result) {
	out := c.App.ErrWriter
	for _, failure := range result.Failures {
		failColor.Fprintf(out, "  failed %s: %v\n", failure.ID, failure.Err)
	}
	if result.Filtered > 0 {
		warnColor.Fprintf(out, "Dropped %d articles without title or abstract\n", result.Filtered)
	}
	summary := successColor
	if len(result.Failures) > 0 {
		summary = warnColor
	}
	summary.Fprintf(out, "Enriched %d of %d articles in %d batches (%d failed); wrote %d records\n",
		result.Enriched, result.Input-result.Filtered, result.Batches, len(result.Failures), len(result.Articles))
}

func reembedCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	input := c.String("input")
	output := c.String("output")
	if output == "" {
		output = input
	}

	svc, err := litenrich.NewService(litenrich.WithAIConfig(cfg.Provider()))
	if err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}
	defer svc.Close()

	out := c.App.ErrWriter
	infoColor.Fprintf(out, "Corpus: %s\n", input)
	infoColor.Fprintf(out, "Embedding model: %s\n\n", cfg.AI.EmbeddingModel)

	count, err := svc.ReembedFile(c.Context, input, output,
		&reembed.Config{BatchSize: cfg.Reembed.BatchSize},
		newBarReporter(out, "Reembedding"))
	if err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}

	successColor.Fprintf(out, "Reembedded %d records into %s\n", count, output)
	return nil
}

// loadCommand fails only when the corpus was non-empty and nothing could
// be inserted. Partial failures such as duplicates are reported and
// tolerated.
func loadCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	input := c.String("input")
	if input == "" {
		input = cfg.Enrich.Output
	}
	records, err := corpus.ReadCorpus(input)
	if err != nil {
		return err
	}

	store, err := openStore(c.Context, cfg, c.String("target"))
	if err != nil {
		return err
	}
	defer store.Close()

	out := c.App.ErrWriter
	inserted, err := litenrich.LoadCorpus(c.Context, store, records)
	if err != nil {
		failColor.Fprintf(out, "Some records were not inserted: %v\n", err)
		if inserted == 0 && len(records) > 0 {
			return cli.Exit(fmt.Sprintf("import failed: none of %d records inserted", len(records)), 1)
		}
	}

	successColor.Fprintf(out, "Imported %d of %d records into %s\n", inserted, len(records), c.String("target"))
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return errors.New("a search query is required")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	repo, err := openRepository(c.Context, cfg, c.String("target"))
	if err != nil {
		return err
	}

	svc, err := litenrich.NewService(
		litenrich.WithAIConfig(cfg.Provider()),
		litenrich.WithRepository(repo),
	)
	if err != nil {
		repo.Close()
		return fmt.Errorf("invalid AI configuration: %w", err)
	}
	defer svc.Close()

	searcher, err := svc.NewSearcher(search.WithMinSimilarity(cfg.Search.MinSimilarity))
	if err != nil {
		return err
	}

	results, err := searcher.FindSimilar(c.Context, query, cfg.Search.Limit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	printResults(c, results)
	return nil
}

func printResults(c *cli.Context, results []*core.SearchResult) {
	out := c.App.Writer
	fmt.Fprintf(out, "Found %d hits\n", len(results))
	for i, hit := range results {
		infoColor.Fprintf(out, "%d. [%0.3f] ", i+1, hit.Score)
		fmt.Fprintf(out, "%s (%s)\n", hit.Article.Title, core.DisplayID(&hit.Article.Article))
		if hit.Article.TLDR != "" {
			fmt.Fprintf(out, "   %s\n", hit.Article.TLDR)
		}
	}
}
