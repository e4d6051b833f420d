// Package pipeline orchestrates a changelog run: it partitions the commit
// set into chunks, fans chunk summarization out across a bounded worker
// pool with per-chunk caching, and folds the results back together with
// the hierarchical merger. Both summary kinds run concurrently.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/gitweekly/gitweekly/internal/cache"
	"github.com/gitweekly/gitweekly/internal/commit"
	"github.com/gitweekly/gitweekly/internal/language"
	"github.com/gitweekly/gitweekly/internal/summary"
)

// Config wires a Runner. All fields are required unless noted.
type Config struct {
	Generator *summary.Generator
	Merger    *summary.Merger
	Store     *cache.Store
	Labels    language.Labels

	Model    string
	Language string

	ChunkSize      int
	MaxConcurrent  int
	MergeBatchSize int

	// Out receives progress lines; nil discards them.
	Out io.Writer
}

// Result is the outcome of one run. Technical and Business are always set:
// a summary kind that fails end to end degrades to the language's fallback
// text rather than failing the run.
type Result struct {
	Technical string
	Business  string

	CommitCount int
	ChunkCount  int
	CacheHits   int
	CacheMisses int
}

// Runner executes changelog runs.
type Runner struct {
	cfg Config
	out io.Writer

	mu     sync.Mutex
	hits   int
	misses int
}

func NewRunner(cfg Config) *Runner {
	out := cfg.Out
	if out == nil {
		out = io.Discard
	}
	return &Runner{cfg: cfg, out: out}
}

// Run summarizes records into both kinds. shared carries the extended
// statistics context included in every prompt, or empty when extended
// analysis is off. Run fails only on empty input; per-chunk and per-kind
// failures degrade as described on Result.
func (r *Runner) Run(ctx context.Context, records []commit.Record, shared string) (*Result, error) {
	total := len(records)
	if total == 0 {
		return nil, fmt.Errorf("no commits to process")
	}

	r.mu.Lock()
	r.hits, r.misses = 0, 0
	r.mu.Unlock()

	var spans []commit.Span
	chunkCount := 1
	if commit.UseChunking(total, r.cfg.ChunkSize) {
		spans = commit.Partition(total, r.cfg.ChunkSize)
		chunkCount = len(spans)
		fmt.Fprintf(r.out, "Processing %d commits in %d chunks of up to %d\n", total, chunkCount, r.cfg.ChunkSize)
	}

	result := &Result{CommitCount: total, ChunkCount: chunkCount}

	var g errgroup.Group
	for _, kind := range summary.Kinds {
		kind := kind
		g.Go(func() error {
			text, err := r.kindSummary(ctx, records, spans, shared, kind)
			if err != nil {
				fmt.Fprintf(r.out, "Using fallback for %s due to: %v\n", kind.Description(), err)
				text = r.fallback(kind)
			} else {
				fmt.Fprintf(r.out, "%s generated successfully\n", kind.Description())
			}
			r.mu.Lock()
			switch kind {
			case summary.Technical:
				result.Technical = text
			case summary.Business:
				result.Business = text
			}
			r.mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	result.CacheHits, result.CacheMisses = r.hits, r.misses
	r.mu.Unlock()
	return result, nil
}

// kindSummary produces one kind's summary, going through the chunked path
// when spans is non-nil.
func (r *Runner) kindSummary(ctx context.Context, records []commit.Record, spans []commit.Span, shared string, kind summary.Kind) (string, error) {
	total := len(records)

	if spans == nil {
		return r.cfg.Generator.Generate(ctx, summary.Input{
			Records:      records,
			Shared:       shared,
			Kind:         kind,
			TotalCommits: total,
		})
	}

	numChunks := len(spans)
	summaries := make([]string, numChunks)
	cached := make([]bool, numChunks)
	desc := kind.Description()

	var g errgroup.Group
	g.SetLimit(r.cfg.MaxConcurrent)
	for i, span := range spans {
		i, span := i, span
		g.Go(func() error {
			chunk := records[span.Start:span.End]
			text := summary.ChunkText(chunk)
			key := cache.Key(text, string(kind), r.cfg.Model, r.cfg.Language)

			if content, ok := r.cfg.Store.Read(key); ok {
				fmt.Fprintf(r.out, "Cache hit for chunk %d/%d %s\n", i+1, numChunks, desc)
				summaries[i] = content
				cached[i] = true
				return nil
			}

			out, err := r.cfg.Generator.Generate(ctx, summary.Input{
				Records:      chunk,
				Shared:       shared,
				Kind:         kind,
				TotalCommits: total,
				Chunked:      true,
				Ordinal:      i,
				NumChunks:    numChunks,
				Span:         span,
			})
			if err != nil {
				fmt.Fprintf(r.out, "Warning: failed to generate %s for chunk %d: %v\n", desc, i+1, err)
				// Keep the chunk's slot so ordering and coverage reporting
				// survive a partial failure.
				summaries[i] = fmt.Sprintf("[Chunk %d analysis failed - commits %d-%d not included in detail]",
					i+1, span.Start+1, span.End)
				return nil
			}

			r.cfg.Store.Write(key, out)
			fmt.Fprintf(r.out, "Chunk %d/%d %s completed\n", i+1, numChunks, desc)
			summaries[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	hits := 0
	for _, c := range cached {
		if c {
			hits++
		}
	}
	r.mu.Lock()
	r.hits += hits
	r.misses += numChunks - hits
	r.mu.Unlock()
	fmt.Fprintf(r.out, "Cache: %d hits, %d misses out of %d chunks\n", hits, numChunks-hits, numChunks)

	if numChunks == 1 {
		return summaries[0], nil
	}
	return r.cfg.Merger.Merge(ctx, summaries, kind, total, r.cfg.MergeBatchSize)
}

func (r *Runner) fallback(kind summary.Kind) string {
	if kind == summary.Business {
		return r.cfg.Labels.FallbackBusiness
	}
	return r.cfg.Labels.FallbackTech
}
