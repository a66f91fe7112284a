package renderer

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestWorkerPool_RunsEveryRow(t *testing.T) {
	pool := NewWorkerPool(4, nil)
	var mu sync.Mutex
	seen := make(map[int]bool)

	err := pool.Run(context.Background(), 50, func(ctx context.Context, row int) error {
		mu.Lock()
		defer mu.Unlock()
		seen[row] = true
		return nil
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(seen) != 50 {
		t.Errorf("Expected 50 rows, got %d", len(seen))
	}
}

func TestWorkerPool_SuccessfulRunReturnsNil(t *testing.T) {
	for _, workers := range []int{1, 3} {
		ran := 0
		var mu sync.Mutex
		err := NewWorkerPool(workers, nil).Run(context.Background(), 3, func(ctx context.Context, row int) error {
			mu.Lock()
			ran++
			mu.Unlock()
			return nil
		})
		if err != nil {
			t.Errorf("%d workers: expected nil after every row succeeded, got %v", workers, err)
		}
		if ran != 3 {
			t.Errorf("%d workers: expected 3 rows, got %d", workers, ran)
		}
	}
}

func TestWorkerPool_CancelledParent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewWorkerPool(2, nil).Run(ctx, 5, func(ctx context.Context, row int) error {
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestWorkerPool_ReturnsTaskError(t *testing.T) {
	failure := errors.New("row failed")
	pool := NewWorkerPool(2, nil)

	err := pool.Run(context.Background(), 10, func(ctx context.Context, row int) error {
		if row == 3 {
			return failure
		}
		return nil
	})
	if !errors.Is(err, failure) {
		t.Errorf("Expected the task error, got %v", err)
	}
}

func TestWorkerPool_DefaultWorkers(t *testing.T) {
	if NewWorkerPool(0, nil).NumWorkers() < 1 {
		t.Error("Expected at least one worker")
	}
}
