package renderer

import (
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// RowTask renders one image row; it must only write pixels of that row
type RowTask func(ctx context.Context, row int) error

// ProgressFunc is called after each finished row with the number of rows done so far
type ProgressFunc func(done, total int)

// WorkerPool runs row tasks on a bounded number of goroutines
type WorkerPool struct {
	numWorkers int
	progress   ProgressFunc
}

// NewWorkerPool creates a pool with the given number of workers; zero or less means one per CPU
func NewWorkerPool(numWorkers int, progress ProgressFunc) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{numWorkers: numWorkers, progress: progress}
}

// NumWorkers returns the number of concurrent workers
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}

// Run executes task for every row in [0, rows). It stops scheduling new rows once
// ctx is cancelled or a task fails, and returns the first error.
func (wp *WorkerPool) Run(ctx context.Context, rows int, task RowTask) error {
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(wp.numWorkers)

	var done atomic.Int64
	for row := 0; row < rows; row++ {
		if groupCtx.Err() != nil {
			break
		}
		row := row
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			if err := task(groupCtx, row); err != nil {
				return err
			}
			finished := done.Add(1)
			if wp.progress != nil {
				wp.progress(int(finished), rows)
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}
	// groupCtx is always cancelled once Wait returns; only the caller's ctx matters here
	return ctx.Err()
}
