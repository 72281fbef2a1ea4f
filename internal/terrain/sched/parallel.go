// Package sched dispatches embarrassingly parallel index ranges across a
// worker pool. Per-index functions must be pure with respect to execution
// order: any sharding of the range has to produce the same result.
package sched

import (
	"context"
	"runtime"
	"sync"

	"github.com/alitto/pond/v2"
)

// ParallelFor calls fn(i) once for every i in [0, n), spread over the given
// number of workers (<= 0 means runtime.NumCPU()). The range is split into
// contiguous shards, one per worker; the first n%workers shards take one
// extra index. The first error returned by fn aborts the remaining shards
// and is returned; context cancellation aborts the batch likewise.
//
// ParallelFor returns only after every started invocation has finished, so
// callers may read shared output buffers as soon as it returns.
func ParallelFor(ctx context.Context, n, workers int, fn func(i int) error) error {
	if n <= 0 {
		return nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}
	if workers == 1 {
		return runRange(ctx, 0, n, fn)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pool := pond.NewPool(workers)
	defer pool.StopAndWait()

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	per := n / workers
	rem := n % workers

	start := 0
	for w := 0; w < workers; w++ {
		count := per
		if w < rem {
			count++
		}
		lo, hi := start, start+count
		start = hi

		wg.Add(1)
		pool.Submit(func() {
			defer wg.Done()
			if err := runRange(ctx, lo, hi, fn); err != nil {
				errOnce.Do(func() {
					firstErr = err
					cancel()
				})
			}
		})
	}

	wg.Wait()
	return firstErr
}

// runRange executes one contiguous shard, checking for cancellation between
// invocations so an aborted batch stops promptly.
func runRange(ctx context.Context, lo, hi int, fn func(i int) error) error {
	for i := lo; i < hi; i++ {
		if i&0x3FF == 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
		if err := fn(i); err != nil {
			return err
		}
	}
	return nil
}
