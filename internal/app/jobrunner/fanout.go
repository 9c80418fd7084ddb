package jobrunner

import (
	"context"
	"sync"
)

type result[R any] struct {
	value R
	err   error
}

// fanOut calls fn for every item on at most workers goroutines and returns
// the results in input order. Items still waiting for a slot when ctx is
// canceled get ctx.Err() without fn being called.
func fanOut[T, R any](ctx context.Context, workers int, items []T, fn func(context.Context, T) (R, error)) []result[R] {
	results := make([]result[R], len(items))
	if workers < 1 {
		workers = 1
	}

	slots := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, item := range items {
		wg.Go(func() {
			select {
			case slots <- struct{}{}:
				defer func() { <-slots }()
			case <-ctx.Done():
				results[i] = result[R]{err: ctx.Err()}
				return
			}
			v, err := fn(ctx, item)
			results[i] = result[R]{value: v, err: err}
		})
	}
	wg.Wait()
	return results
}
