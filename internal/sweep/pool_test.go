package sweep

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestWorkerPool_RunsEveryTask(t *testing.T) {
	pool := NewWorkerPool(3)
	pool.Start()

	var count atomic.Int64
	for i := 0; i < 100; i++ {
		if err := pool.Submit(context.Background(), func() { count.Add(1) }); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}
	pool.Stop()

	if count.Load() != 100 {
		t.Errorf("expected 100 tasks run, got %d", count.Load())
	}
	stats := pool.Stats()
	if stats.TasksTotal != 100 || stats.TasksDone != 100 || stats.Running {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestWorkerPool_SubmitAfterStop(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Start()
	pool.Stop()
	pool.Stop() // idempotent

	if err := pool.Submit(context.Background(), func() {}); !errors.Is(err, ErrPoolStopped) {
		t.Errorf("expected ErrPoolStopped, got %v", err)
	}
}

func TestWorkerPool_SubmitHonoursContext(t *testing.T) {
	pool := NewWorkerPool(1)
	pool.Start()
	defer pool.Stop()

	release := make(chan struct{})
	defer close(release)

	// Occupy the worker, then fill the queue.
	block := func() { <-release }
	_ = pool.Submit(context.Background(), block)
	for i := 0; i < cap(pool.taskQueue); i++ {
		_ = pool.Submit(context.Background(), func() {})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := pool.Submit(ctx, func() {}); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestNewWorkerPool_DefaultsToCPUs(t *testing.T) {
	if NewWorkerPool(0).Stats().Workers < 1 {
		t.Error("expected at least one worker")
	}
}
