package worker

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestWorkersExecuteQueuedTasks(t *testing.T) {
	manager := NewWorkerManager(3)

	ctx, cancel := context.WithCancel(context.Background())
	go manager.Run(ctx)

	var wg sync.WaitGroup
	results := make(chan int, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		n := i
		task := NewTask[int](func(ctx context.Context) (int, error) {
			return n, nil
		}, time.Second).Callback(func(result int, err error) {
			results <- result
			wg.Done()
		})
		manager.Add(task)
	}
	wg.Wait()
	cancel()

	if len(results) != 10 {
		t.Errorf("expected 10 results, got %d", len(results))
	}
}

func TestTaskTimeoutIsPassedToExecutor(t *testing.T) {
	manager := NewWorkerManager(1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go manager.Run(ctx)

	done := make(chan struct{})
	task := NewTask[struct{}](func(taskCtx context.Context) (struct{}, error) {
		deadline, ok := taskCtx.Deadline()
		if !ok {
			t.Error("expected the task context to carry a deadline")
		}
		if time.Until(deadline) > 50*time.Millisecond {
			t.Errorf("unexpected deadline: %v", deadline)
		}
		close(done)
		return struct{}{}, nil
	}, 50*time.Millisecond)
	manager.Add(task)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task was not executed in time")
	}
}
