package pipeline

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"subweave/internal/services"
)

// BatchSummary aggregates the outcome of a multi-file run.
type BatchSummary struct {
	Results   []FileResult
	Succeeded int
	Skipped   int
	Failed    int
}

// Failed reports whether any file in the batch failed.
func (s BatchSummary) AnyFailed() bool {
	return s.Failed > 0
}

// RunBatch processes files concurrently with a bounded worker pool. A file
// failure is recorded and the batch continues; only run-fatal errors
// (missing binaries, broken configuration) abort the whole batch.
func (p *Pipeline) RunBatch(ctx context.Context, paths []string) (BatchSummary, error) {
	workers := p.cfg.Batch.Workers
	if workers < 1 {
		workers = 1
	}

	var mu sync.Mutex
	results := make([]FileResult, len(paths))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for i, path := range paths {
		i, path := i, path
		group.Go(func() error {
			result := p.ProcessFile(ctx, path)
			mu.Lock()
			results[i] = result
			mu.Unlock()
			if result.Err != nil && services.RunFatal(result.Err) {
				// Per-file isolation stops at systemic faults; retrying the
				// remaining files would fail identically.
				return result.Err
			}
			return nil
		})
	}
	fatal := group.Wait()

	summary := BatchSummary{Results: results}
	for _, result := range results {
		switch {
		case result.Path == "":
			// Slot never ran because a fatal error canceled the batch.
		case result.Err != nil:
			summary.Failed++
		case result.Skipped:
			summary.Skipped++
		default:
			summary.Succeeded++
		}
	}
	if fatal != nil {
		return summary, fatal
	}
	if ctx.Err() != nil {
		return summary, ctx.Err()
	}
	if summary.Failed > 0 {
		return summary, errors.New("batch finished with failures")
	}
	return summary, nil
}
