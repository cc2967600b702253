package imageopt

import (
	"context"
	"sync"
)

// DefaultConcurrency is the number of parallel fetch/optimize workers.
const DefaultConcurrency = 5

// BatchOptions tunes Optimizer.Batch.
type BatchOptions struct {
	// Concurrency is the worker count; <= 0 means DefaultConcurrency.
	Concurrency int
	// OnResult, if set, is called once per unique key as soon as it finishes.
	// It is called from worker goroutines and must be safe for concurrent use.
	OnResult func(Key, Result)
}

// UniqueKeys drops repeated keys, keeping first-seen order.
func UniqueKeys(keys []Key) []Key {
	seen := make(map[Key]bool, len(keys))
	out := make([]Key, 0, len(keys))
	for _, k := range keys {
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

// Batch runs every unique key through Run on a fixed worker pool and returns
// one result per key. Workers only write their own slot of the result slice;
// the map is assembled after all of them have finished. Items still queued
// when ctx is cancelled are reported as FailCanceled.
func (o *Optimizer) Batch(ctx context.Context, keys []Key, opts BatchOptions) map[Key]Result {
	unique := UniqueKeys(keys)
	results := make([]Result, len(unique))

	workers := opts.Concurrency
	if workers <= 0 {
		workers = DefaultConcurrency
	}
	workers = min(workers, len(unique))

	jobs := make(chan int, len(unique))
	for i := range unique {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for range workers {
		wg.Go(func() {
			for i := range jobs {
				var res Result
				if err := ctx.Err(); err != nil {
					res = contextFailure(unique[i], err)
				} else {
					res = o.Run(ctx, unique[i])
				}
				results[i] = res
				if opts.OnResult != nil {
					opts.OnResult(unique[i], res)
				}
			}
		})
	}
	wg.Wait()

	out := make(map[Key]Result, len(unique))
	for i, k := range unique {
		out[k] = results[i]
	}
	return out
}
