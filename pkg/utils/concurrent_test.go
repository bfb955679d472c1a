package utils

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestExecute(t *testing.T) {
	t.Run("runs all functions", func(t *testing.T) {
		var counter int32
		executor := NewConcurrentExecutor(2)

		fns := make([]func() error, 5)
		for i := range fns {
			fns[i] = func() error {
				atomic.AddInt32(&counter, 1)
				return nil
			}
		}

		errs := executor.Execute(context.Background(), fns...)
		for i, err := range errs {
			if err != nil {
				t.Errorf("function %d: unexpected error %v", i, err)
			}
		}
		if counter != 5 {
			t.Errorf("expected 5 executions, got %d", counter)
		}
	})

	t.Run("collects errors by index", func(t *testing.T) {
		boom := errors.New("boom")
		executor := NewConcurrentExecutor(2)

		errs := executor.Execute(context.Background(),
			func() error { return nil },
			func() error { return boom },
		)
		if errs[0] != nil {
			t.Errorf("expected nil, got %v", errs[0])
		}
		if !errors.Is(errs[1], boom) {
			t.Errorf("expected boom, got %v", errs[1])
		}
	})

	t.Run("recovers panics", func(t *testing.T) {
		executor := NewConcurrentExecutor(1)

		errs := executor.Execute(context.Background(), func() error {
			panic("worker panic")
		})

		var panicErr *PanicError
		if !errors.As(errs[0], &panicErr) {
			t.Fatalf("expected PanicError, got %v", errs[0])
		}
	})

	t.Run("empty input", func(t *testing.T) {
		executor := NewConcurrentExecutor(1)
		if errs := executor.Execute(context.Background()); errs != nil {
			t.Errorf("expected nil, got %v", errs)
		}
	})
}

func TestExecuteWithResults(t *testing.T) {
	results, errs := ExecuteWithResults(context.Background(), 3,
		func() (int, error) { return 1, nil },
		func() (int, error) { return 2, nil },
		func() (int, error) { return 0, errors.New("third failed") },
	)

	if results[0] != 1 || results[1] != 2 {
		t.Errorf("results out of order: %v", results)
	}
	if errs[0] != nil || errs[1] != nil {
		t.Errorf("unexpected errors: %v", errs)
	}
	if errs[2] == nil {
		t.Error("expected error from third function")
	}
}

func TestExecuteCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Saturate the semaphore so waiting functions observe cancellation.
	executor := NewConcurrentExecutor(1)
	executor.semaphore <- struct{}{}

	errs := executor.Execute(ctx, func() error { return nil })
	<-executor.semaphore

	if !errors.Is(errs[0], context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", errs[0])
	}
}

func TestGetSemaphoreLimit(t *testing.T) {
	t.Setenv("SEMAPHORE_LIMIT", "")
	if got := GetSemaphoreLimit(); got != DefaultSemaphoreLimit {
		t.Errorf("expected default %d, got %d", DefaultSemaphoreLimit, got)
	}

	t.Setenv("SEMAPHORE_LIMIT", "3")
	if got := GetSemaphoreLimit(); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}

	t.Setenv("SEMAPHORE_LIMIT", "junk")
	if got := GetSemaphoreLimit(); got != DefaultSemaphoreLimit {
		t.Errorf("expected default %d, got %d", DefaultSemaphoreLimit, got)
	}
}
