package fetch

import (
	"context"
	"time"
)

// Policy retries a fallible operation with exponential backoff.
// The attempt delay is multiplier * 2^attempt, clamped between Floor
// and Ceiling. After MaxAttempts the last error is returned as-is.
type Policy struct {
	MaxAttempts int
	Multiplier  time.Duration
	Floor       time.Duration
	Ceiling     time.Duration

	// Sleep is swapped out in tests. Nil means a context-aware sleep.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultPolicy matches the fetch contract used across all market-data
// operations: 3 attempts, exponential backoff between 4s and 10s.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		Multiplier:  time.Second,
		Floor:       4 * time.Second,
		Ceiling:     10 * time.Second,
	}
}

// Backoff returns the delay after the given zero-based failed attempt.
func (p Policy) Backoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	// 2^attempt, capped early to avoid overflow
	if attempt > 30 {
		return p.Ceiling
	}
	d := p.Multiplier * time.Duration(1<<attempt)
	if d < p.Floor {
		d = p.Floor
	}
	if d > p.Ceiling {
		d = p.Ceiling
	}
	return d
}

func (p Policy) sleep(ctx context.Context, d time.Duration) error {
	if p.Sleep != nil {
		return p.Sleep(ctx, d)
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Retry invokes fn until it succeeds or the policy's attempts are
// exhausted, sleeping the backoff delay between attempts. The final
// failure is propagated, never swallowed.
func Retry[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == attempts-1 {
			break
		}
		if err := p.sleep(ctx, p.Backoff(attempt)); err != nil {
			return zero, err
		}
	}
	return zero, lastErr
}
