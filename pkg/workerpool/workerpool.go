// Package workerpool fans slices of work out over a fixed set of goroutines.
package workerpool

import (
	"context"
	"sync"
)

// Process calls process for every item using workers goroutines. The first
// failure cancels the remaining work and is returned.
func Process[T any](ctx context.Context, workers int, items []T, process func(context.Context, T) error) error {
	if workers <= 0 {
		workers = 1
	}
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	tasks := make(chan T)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range tasks {
				if err := process(ctx, item); err != nil {
					cancel(err)
					return
				}
			}
		}()
	}

feed:
	for _, item := range items {
		select {
		case <-ctx.Done():
			break feed
		case tasks <- item:
		}
	}
	close(tasks)
	wg.Wait()

	return context.Cause(ctx)
}

// Offsets returns the start offset of every page of size pageSize covering
// total rows.
func Offsets(total int64, pageSize int) []int {
	if total <= 0 || pageSize <= 0 {
		return nil
	}
	offsets := make([]int, 0, total/int64(pageSize)+1)
	for off := int64(0); off < total; off += int64(pageSize) {
		offsets = append(offsets, int(off))
	}
	return offsets
}
