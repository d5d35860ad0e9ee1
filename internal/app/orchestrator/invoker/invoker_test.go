package invoker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestInvokeSucceedsOnFirstAttempt(t *testing.T) {
	inv := NewInvoker(Options{})

	result, err := inv.Invoke(context.Background(), Request{Input: []byte(`{"a":1}`)}, func(ctx context.Context, attempt Attempt, input []byte) ([]byte, error) {
		if attempt.Current != 0 {
			t.Errorf("expected first attempt index 0, got %d", attempt.Current)
		}
		if attempt.Max != MaxRetries {
			t.Errorf("expected max %d, got %d", MaxRetries, attempt.Max)
		}
		if string(input) != `{"a":1}` {
			t.Errorf("unexpected input: %s", string(input))
		}
		return []byte("ok"), nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", result.Attempts)
	}
	if string(result.Output) != "ok" {
		t.Errorf("unexpected output: %s", string(result.Output))
	}
	if result.CorrelationId == "" {
		t.Error("expected a generated correlation id")
	}
	if _, ok := inv.TrackedAttempt(result.CorrelationId); ok {
		t.Error("expected attempt state to be cleared after success")
	}
}

func TestInvokeRetriesUntilExhausted(t *testing.T) {
	inv := NewInvoker(Options{})

	executions := 0
	seen := []int{}
	_, err := inv.Invoke(context.Background(), Request{CorrelationId: "inv-1"}, func(ctx context.Context, attempt Attempt, input []byte) ([]byte, error) {
		executions++
		seen = append(seen, attempt.Current)
		return nil, errors.New("transient failure")
	})
	if err == nil {
		t.Fatal("expected an exhaustion error")
	}
	if !IsExhausted(err) {
		t.Fatalf("expected exhausted error, got %v", err)
	}
	if executions != MaxRetries+1 {
		t.Errorf("expected %d executions, got %d", MaxRetries+1, executions)
	}
	for i, attempt := range seen {
		if attempt != i {
			t.Errorf("expected attempt index %d at position %d, got %d", i, i, attempt)
		}
	}

	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected *ExhaustedError, got %T", err)
	}
	if exhausted.Attempts != MaxRetries+1 {
		t.Errorf("expected %d attempts reported, got %d", MaxRetries+1, exhausted.Attempts)
	}
	if exhausted.CorrelationId != "inv-1" {
		t.Errorf("unexpected correlation id: %s", exhausted.CorrelationId)
	}
	if _, ok := inv.TrackedAttempt("inv-1"); ok {
		t.Error("expected attempt state to be cleared after exhaustion")
	}
}

func TestInvokeSucceedsOnFinalAttempt(t *testing.T) {
	inv := NewInvoker(Options{})

	executions := 0
	result, err := inv.Invoke(context.Background(), Request{CorrelationId: "inv-2"}, func(ctx context.Context, attempt Attempt, input []byte) ([]byte, error) {
		executions++
		if attempt.Current < MaxRetries {
			return nil, fmt.Errorf("failure on attempt %d", attempt.Current)
		}
		return []byte("finally"), nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if executions != MaxRetries+1 {
		t.Errorf("expected %d executions, got %d", MaxRetries+1, executions)
	}
	if result.Attempts != MaxRetries+1 {
		t.Errorf("expected %d attempts reported, got %d", MaxRetries+1, result.Attempts)
	}
	if string(result.Output) != "finally" {
		t.Errorf("unexpected output: %s", string(result.Output))
	}
}

func TestInvokeVerifiesAttemptClaim(t *testing.T) {
	inv := NewInvoker(Options{})

	_, err := inv.Invoke(context.Background(), Request{
		CorrelationId: "inv-3",
		Claim:         &AttemptClaim{Current: 1, Max: MaxRetries},
	}, func(ctx context.Context, attempt Attempt, input []byte) ([]byte, error) {
		t.Error("handler must not run on a consistency violation")
		return nil, nil
	})
	if !IsConsistencyError(err) {
		t.Fatalf("expected consistency error, got %v", err)
	}

	var consistency *ConsistencyError
	if !errors.As(err, &consistency) {
		t.Fatalf("expected *ConsistencyError, got %T", err)
	}
	if consistency.Field != "currentAttempt" {
		t.Errorf("unexpected field: %s", consistency.Field)
	}
	if consistency.Expected != 0 || consistency.Actual != 1 {
		t.Errorf("unexpected values: expected %d, actual %d", consistency.Expected, consistency.Actual)
	}
}

func TestInvokeRejectsDivergingMaxAttempts(t *testing.T) {
	inv := NewInvoker(Options{})

	_, err := inv.Invoke(context.Background(), Request{
		CorrelationId: "inv-4",
		Claim:         &AttemptClaim{Current: 0, Max: 7},
	}, func(ctx context.Context, attempt Attempt, input []byte) ([]byte, error) {
		return nil, nil
	})
	if !IsConsistencyError(err) {
		t.Fatalf("expected consistency error, got %v", err)
	}
}

func TestInvokeTruthfulClaimSurvivesRetries(t *testing.T) {
	inv := NewInvoker(Options{})

	// The claim is correct at entry; the counter advancing across
	// harness-level retries must not turn the failures into a
	// consistency violation.
	executions := 0
	_, err := inv.Invoke(context.Background(), Request{
		CorrelationId: "inv-10",
		Claim:         &AttemptClaim{Current: 0, Max: MaxRetries},
	}, func(ctx context.Context, attempt Attempt, input []byte) ([]byte, error) {
		executions++
		return nil, errors.New("transient failure")
	})
	if IsConsistencyError(err) {
		t.Fatalf("entry claim must not be re-verified across retries, got %v", err)
	}
	if !IsExhausted(err) {
		t.Fatalf("expected exhausted error, got %v", err)
	}
	if executions != MaxRetries+1 {
		t.Errorf("expected %d executions, got %d", MaxRetries+1, executions)
	}
}

func TestInvokeCancelledBeforeAttempt(t *testing.T) {
	inv := NewInvoker(Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := inv.Invoke(ctx, Request{CorrelationId: "inv-5"}, func(ctx context.Context, attempt Attempt, input []byte) ([]byte, error) {
		t.Error("handler must not run on a cancelled context")
		return nil, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	attempt, ok := inv.TrackedAttempt("inv-5")
	if !ok {
		t.Fatal("expected attempt state to survive a cancellation")
	}
	if attempt != 0 {
		t.Errorf("expected attempt counter 0, got %d", attempt)
	}
}

func TestInvokeCancellationDuringBackoffKeepsCounter(t *testing.T) {
	inv := NewInvoker(Options{
		Backoff: func(attempt int) time.Duration { return 30 * time.Second },
	})

	ctx, cancel := context.WithCancel(context.Background())
	_, err := inv.Invoke(ctx, Request{CorrelationId: "inv-6"}, func(ctx context.Context, attempt Attempt, input []byte) ([]byte, error) {
		// Cancel after the first failure so the harness aborts in the backoff.
		cancel()
		return nil, errors.New("transient failure")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	// The next attempt never started, so the counter still points at the
	// failed attempt.
	attempt, ok := inv.TrackedAttempt("inv-6")
	if !ok {
		t.Fatal("expected attempt state to survive a cancellation")
	}
	if attempt != 0 {
		t.Errorf("expected attempt counter 0, got %d", attempt)
	}

	// Resuming the same logical invocation picks up the tracked counter.
	result, err := inv.Invoke(context.Background(), Request{
		CorrelationId: "inv-6",
		Claim:         &AttemptClaim{Current: 0, Max: MaxRetries},
	}, func(ctx context.Context, attempt Attempt, input []byte) ([]byte, error) {
		return []byte("resumed"), nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(result.Output) != "resumed" {
		t.Errorf("unexpected output: %s", string(result.Output))
	}
}

func TestInvokeResetStartsFreshInvocation(t *testing.T) {
	inv := NewInvoker(Options{
		Backoff: func(attempt int) time.Duration { return 30 * time.Second },
	})

	// Leave the invocation with tracked state by cancelling in the backoff.
	ctx, cancel := context.WithCancel(context.Background())
	failures := 0
	inv.Invoke(ctx, Request{CorrelationId: "inv-7"}, func(ctx context.Context, attempt Attempt, input []byte) ([]byte, error) {
		failures++
		cancel()
		return nil, errors.New("transient failure")
	})
	if failures != 1 {
		t.Fatalf("expected 1 failed execution, got %d", failures)
	}

	result, err := inv.Invoke(context.Background(), Request{
		CorrelationId: "inv-7",
		Reset:         true,
	}, func(ctx context.Context, attempt Attempt, input []byte) ([]byte, error) {
		if attempt.Current != 0 {
			t.Errorf("expected reset attempt index 0, got %d", attempt.Current)
		}
		return []byte("fresh"), nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", result.Attempts)
	}
}

func TestInvokeConcurrentInvocationsAreIndependent(t *testing.T) {
	inv := NewInvoker(Options{})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			correlationId := fmt.Sprintf("concurrent-%d", n)
			executions := 0
			_, err := inv.Invoke(context.Background(), Request{CorrelationId: correlationId}, func(ctx context.Context, attempt Attempt, input []byte) ([]byte, error) {
				executions++
				return nil, errors.New("transient failure")
			})
			if !IsExhausted(err) {
				t.Errorf("invocation %s: expected exhausted error, got %v", correlationId, err)
			}
			if executions != MaxRetries+1 {
				t.Errorf("invocation %s: expected %d executions, got %d", correlationId, MaxRetries+1, executions)
			}
		}(i)
	}
	wg.Wait()
}

func TestInvokeCustomRetryBound(t *testing.T) {
	inv := NewInvoker(Options{MaxRetries: 5})

	executions := 0
	_, err := inv.Invoke(context.Background(), Request{CorrelationId: "inv-8"}, func(ctx context.Context, attempt Attempt, input []byte) ([]byte, error) {
		executions++
		return nil, errors.New("transient failure")
	})
	if !IsExhausted(err) {
		t.Fatalf("expected exhausted error, got %v", err)
	}
	if executions != 6 {
		t.Errorf("expected 6 executions, got %d", executions)
	}
}

func TestInvokeAttemptCarriesCorrelationId(t *testing.T) {
	inv := NewInvoker(Options{})

	_, err := inv.Invoke(context.Background(), Request{CorrelationId: "inv-9"}, func(ctx context.Context, attempt Attempt, input []byte) ([]byte, error) {
		if attempt.CorrelationId != "inv-9" {
			t.Errorf("unexpected correlation id in attempt: %s", attempt.CorrelationId)
		}
		return nil, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
