package worker

import (
	"context"
	"sync"
)

type indexedJob[T any] struct {
	index int
	item  T
}

// Map applies fn to every item on up to workers goroutines.
// The returned slice keeps the order of items regardless of completion order.
// If ctx is cancelled before every item is processed, Map returns ctx.Err().
func Map[T, R any](ctx context.Context, workers int, items []T, fn func(context.Context, T) R) ([]R, error) {
	if len(items) == 0 {
		return []R{}, ctx.Err()
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > len(items) {
		workers = len(items)
	}

	results := make([]R, len(items))
	jobQueue := make(chan indexedJob[T], workers*2)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobQueue {
				if ctx.Err() != nil {
					continue // drain
				}
				// Each index is written by exactly one worker
				results[job.index] = fn(ctx, job.item)
			}
		}()
	}

feed:
	for i, item := range items {
		select {
		case <-ctx.Done():
			break feed
		case jobQueue <- indexedJob[T]{index: i, item: item}:
		}
	}
	close(jobQueue)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
