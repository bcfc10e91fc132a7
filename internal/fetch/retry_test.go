package fetch

import (
	"context"
	"errors"
	"testing"
	"time"
)

func noSleep(recorded *[]time.Duration) func(context.Context, time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*recorded = append(*recorded, d)
		return nil
	}
}

func TestRetrySucceedsOnThirdAttempt(t *testing.T) {
	t.Parallel()

	var sleeps []time.Duration
	policy := DefaultPolicy()
	policy.Sleep = noSleep(&sleeps)

	calls := 0
	result, err := Retry(context.Background(), policy, func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "ok" || calls != 3 {
		t.Fatalf("expected success on 3rd attempt, got %q after %d calls", result, calls)
	}
	if len(sleeps) != 2 {
		t.Fatalf("expected 2 backoff sleeps, got %d", len(sleeps))
	}
	for i, d := range sleeps {
		if d < 4*time.Second {
			t.Fatalf("sleep %d below floor: %v", i, d)
		}
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	t.Parallel()

	var sleeps []time.Duration
	policy := DefaultPolicy()
	policy.Sleep = noSleep(&sleeps)

	failure := errors.New("down")
	calls := 0
	_, err := Retry(context.Background(), policy, func(ctx context.Context) (int, error) {
		calls++
		return 0, failure
	})
	if !errors.Is(err, failure) {
		t.Fatalf("expected final failure surfaced, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", calls)
	}
}

func TestRetryBackoffClamped(t *testing.T) {
	t.Parallel()

	policy := DefaultPolicy()
	tests := map[int]time.Duration{
		0:  4 * time.Second,  // 1s clamped up to floor
		1:  4 * time.Second,  // 2s clamped up to floor
		2:  4 * time.Second,  // exactly 4s
		3:  8 * time.Second,  // within bounds
		4:  10 * time.Second, // 16s clamped to ceiling
		40: 10 * time.Second, // large attempt stays at ceiling
	}
	for attempt, expected := range tests {
		if got := policy.Backoff(attempt); got != expected {
			t.Errorf("attempt %d: expected %v, got %v", attempt, expected, got)
		}
	}
}

func TestRetryHonorsContextDuringBackoff(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	policy := DefaultPolicy()
	policy.Sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	_, err := Retry(ctx, policy, func(ctx context.Context) (int, error) {
		return 0, errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}

func TestRetryNoSleepAfterSuccess(t *testing.T) {
	t.Parallel()

	var sleeps []time.Duration
	policy := DefaultPolicy()
	policy.Sleep = noSleep(&sleeps)

	result, err := Retry(context.Background(), policy, func(ctx context.Context) (int, error) {
		return 42, nil
	})
	if err != nil || result != 42 {
		t.Fatalf("unexpected result: %v, %v", result, err)
	}
	if len(sleeps) != 0 {
		t.Fatalf("expected no sleeps on immediate success, got %d", len(sleeps))
	}
}
