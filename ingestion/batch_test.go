package ingestion

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/poiesic/litenrich/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEnricher implements ArticleEnricher for testing. It fails for titles
// listed in failOn and records how many calls overlap.
type testEnricher struct {
	failOn  map[string]error
	panicOn string
	delay   func(a *core.Article) time.Duration

	mu          sync.Mutex
	inflight    int
	maxInflight int
	finished    int
	violations  []string
	batchSize   int
}

func (e *testEnricher) Enrich(ctx context.Context, a *core.Article) (*core.EnrichedArticle, error) {
	e.mu.Lock()
	e.inflight++
	e.maxInflight = max(e.maxInflight, e.inflight)
	if e.batchSize > 0 {
		if idx, err := strconv.Atoi(a.Title); err == nil {
			// Every article of earlier batches must have settled.
			if want := (idx / e.batchSize) * e.batchSize; e.finished < want {
				e.violations = append(e.violations, fmt.Sprintf("article %d started after %d finished", idx, e.finished))
			}
		}
	}
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.inflight--
		e.finished++
		e.mu.Unlock()
	}()

	if e.delay != nil {
		time.Sleep(e.delay(a))
	}
	if a.Title == e.panicOn && e.panicOn != "" {
		panic("boom")
	}
	if err, ok := e.failOn[a.Title]; ok {
		return nil, err
	}
	return &core.EnrichedArticle{
		Article:   *a,
		Embedding: []float32{1},
	}, nil
}

func numberedArticles(n int) []*core.Article {
	articles := make([]*core.Article, n)
	for i := range articles {
		articles[i] = &core.Article{PMID: fmt.Sprintf("p%d", i), Title: strconv.Itoa(i)}
	}
	return articles
}

func titles(records []*core.EnrichedArticle) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Title
	}
	return out
}

func TestNewBatchProcessor(t *testing.T) {
	_, err := NewBatchProcessor(nil)
	assert.ErrorIs(t, err, ErrEnricherRequired)

	_, err = NewBatchProcessor(&testEnricher{}, WithBatchSize(0))
	assert.ErrorIs(t, err, ErrInvalidBatchSize)

	bp, err := NewBatchProcessor(&testEnricher{})
	require.NoError(t, err)
	assert.Equal(t, DefaultBatchSize, bp.BatchSize())
}

func TestBatchProcessor_BatchCount(t *testing.T) {
	tests := []struct {
		n, size, batches int
	}{
		{0, 15, 0},
		{1, 15, 1},
		{15, 15, 1},
		{16, 15, 2},
		{31, 15, 3},
		{7, 1, 7},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_by_%d", tt.n, tt.size), func(t *testing.T) {
			bp, err := NewBatchProcessor(&testEnricher{}, WithBatchSize(tt.size))
			require.NoError(t, err)

			result, err := bp.Process(t.Context(), numberedArticles(tt.n))
			require.NoError(t, err)
			assert.Equal(t, tt.batches, result.Batches)
			assert.Len(t, result.Enriched, tt.n)
		})
	}
}

func TestBatchProcessor_FailureIsIsolated(t *testing.T) {
	enricher := &testEnricher{failOn: map[string]error{"15": errors.New("extraction failed")}}
	bp, err := NewBatchProcessor(enricher, WithBatchSize(15))
	require.NoError(t, err)

	result, err := bp.Process(t.Context(), numberedArticles(16))
	require.NoError(t, err)

	assert.Equal(t, 2, result.Batches)
	assert.Len(t, result.Enriched, 15)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "p15", result.Failures[0].ID)
	assert.EqualError(t, result.Failures[0].Err, "extraction failed")
}

func TestBatchProcessor_FailureInsideBatch(t *testing.T) {
	enricher := &testEnricher{failOn: map[string]error{"1": errors.New("x"), "3": errors.New("y")}}
	bp, err := NewBatchProcessor(enricher, WithBatchSize(5))
	require.NoError(t, err)

	result, err := bp.Process(t.Context(), numberedArticles(5))
	require.NoError(t, err)

	assert.Equal(t, []string{"0", "2", "4"}, titles(result.Enriched))
	require.Len(t, result.Failures, 2)
	assert.Equal(t, "p1", result.Failures[0].ID)
	assert.Equal(t, "p3", result.Failures[1].ID)
}

func TestBatchProcessor_PreservesOrder(t *testing.T) {
	// Later articles finish first.
	enricher := &testEnricher{delay: func(a *core.Article) time.Duration {
		idx, _ := strconv.Atoi(a.Title)
		return time.Duration(10-idx) * time.Millisecond
	}}
	bp, err := NewBatchProcessor(enricher, WithBatchSize(4))
	require.NoError(t, err)

	result, err := bp.Process(t.Context(), numberedArticles(10))
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}, titles(result.Enriched))
}

func TestBatchProcessor_SequentialBatches(t *testing.T) {
	enricher := &testEnricher{
		batchSize: 3,
		delay: func(a *core.Article) time.Duration {
			idx, _ := strconv.Atoi(a.Title)
			return time.Duration(idx%3) * 5 * time.Millisecond
		},
	}
	bp, err := NewBatchProcessor(enricher, WithBatchSize(3))
	require.NoError(t, err)

	_, err = bp.Process(t.Context(), numberedArticles(9))
	require.NoError(t, err)

	assert.Empty(t, enricher.violations)
	assert.LessOrEqual(t, enricher.maxInflight, 3)
}

func TestBatchProcessor_ConcurrentWithinBatch(t *testing.T) {
	// Each task waits until the whole batch is running, which only
	// completes when the batch really runs concurrently.
	const size = 4
	var started sync.WaitGroup
	started.Add(size)
	enricher := enricherFunc(func(ctx context.Context, a *core.Article) (*core.EnrichedArticle, error) {
		started.Done()
		started.Wait()
		return &core.EnrichedArticle{Article: *a}, nil
	})

	bp, err := NewBatchProcessor(enricher, WithBatchSize(size))
	require.NoError(t, err)

	done := make(chan *BatchResult, 1)
	go func() {
		result, _ := bp.Process(context.Background(), numberedArticles(size))
		done <- result
	}()

	select {
	case result := <-done:
		assert.Len(t, result.Enriched, size)
	case <-time.After(5 * time.Second):
		t.Fatal("batch did not run concurrently")
	}
}

func TestBatchProcessor_RecoversPanic(t *testing.T) {
	enricher := &testEnricher{panicOn: "1"}
	bp, err := NewBatchProcessor(enricher, WithBatchSize(3))
	require.NoError(t, err)

	result, err := bp.Process(t.Context(), numberedArticles(3))
	require.NoError(t, err)

	assert.Len(t, result.Enriched, 2)
	require.Len(t, result.Failures, 1)
	assert.ErrorIs(t, result.Failures[0].Err, ErrEnrichmentPanicked)
}

func TestBatchProcessor_NilRecordIsFailure(t *testing.T) {
	enricher := enricherFunc(func(context.Context, *core.Article) (*core.EnrichedArticle, error) {
		return nil, nil
	})
	bp, err := NewBatchProcessor(enricher)
	require.NoError(t, err)

	result, err := bp.Process(t.Context(), numberedArticles(1))
	require.NoError(t, err)
	assert.Empty(t, result.Enriched)
	assert.Len(t, result.Failures, 1)
}

func TestBatchProcessor_StopsWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	var mu sync.Mutex
	enricher := enricherFunc(func(_ context.Context, a *core.Article) (*core.EnrichedArticle, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		cancel()
		return &core.EnrichedArticle{Article: *a}, nil
	})

	bp, err := NewBatchProcessor(enricher, WithBatchSize(2))
	require.NoError(t, err)

	result, err := bp.Process(ctx, numberedArticles(6))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, result.Batches, "the running batch completes")
	assert.Len(t, result.Enriched, 2)
	assert.Equal(t, 2, calls)
}

func TestBatchProcessor_LogsFailures(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	enricher := &testEnricher{failOn: map[string]error{"anon": errors.New("bad")}}
	bp, err := NewBatchProcessor(enricher, WithLogger(logger))
	require.NoError(t, err)

	_, err = bp.Process(t.Context(), []*core.Article{{Title: "anon"}, {DOI: "10.1/x", Title: "ok"}})
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "processing batch")
	assert.Contains(t, output, "first=1 last=2")
	assert.Contains(t, output, "failed for article")
	assert.Contains(t, output, `id="(no id)"`)
	assert.Contains(t, output, "batch complete")
	assert.Contains(t, output, "succeeded=1")
	assert.Contains(t, output, "all batches complete")
}

func TestBatchProcessor_Reporter(t *testing.T) {
	reporter := &countingReporter{}
	bp, err := NewBatchProcessor(&testEnricher{}, WithBatchSize(3), WithReporter(reporter))
	require.NoError(t, err)

	_, err = bp.Process(t.Context(), numberedArticles(7))
	require.NoError(t, err)

	assert.Equal(t, 7, reporter.total)
	assert.Equal(t, 7, reporter.done)
	assert.True(t, reporter.finished)
}

type enricherFunc func(ctx context.Context, a *core.Article) (*core.EnrichedArticle, error)

func (f enricherFunc) Enrich(ctx context.Context, a *core.Article) (*core.EnrichedArticle, error) {
	return f(ctx, a)
}

type countingReporter struct {
	mu       sync.Mutex
	total    int
	done     int
	finished bool
}

func (r *countingReporter) Start(total int) { r.total = total }

func (r *countingReporter) Increment(delta int) {
	r.mu.Lock()
	r.done += delta
	r.mu.Unlock()
}

func (r *countingReporter) Finish() { r.finished = true }
