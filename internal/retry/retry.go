// Package retry provides the single retry primitive used by both
// paginated listing fetches and push-operation polling: a fixed-delay
// loop bounded by attempt count and elapsed time, with a caller-supplied
// predicate deciding which errors are worth another attempt.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrBudgetExhausted wraps the last attempt's error once both the attempt
// and elapsed-time budgets are spent.
var ErrBudgetExhausted = errors.New("retry budget exhausted")

// Config bounds a retry loop. Zero MaxAttempts or MaxElapsed means one
// single attempt.
type Config struct {
	// InitialDelay is slept before the first attempt.
	InitialDelay time.Duration
	// Interval is slept between attempts.
	Interval time.Duration
	// MaxAttempts caps the number of attempts.
	MaxAttempts int
	// MaxElapsed caps total time spent in the loop, measured from entry.
	MaxElapsed time.Duration
}

// Do runs op until it succeeds, returns a non-retryable error, or the
// budget runs out. Whichever of MaxAttempts and MaxElapsed is reached
// first terminates the loop; the last error is then wrapped with
// ErrBudgetExhausted so callers can tell exhaustion from hard failure.
func Do[T any](ctx context.Context, cfg Config, retryable func(error) bool, op func(context.Context) (T, error)) (T, error) {
	var zero T

	start := time.Now()
	if cfg.InitialDelay > 0 {
		if err := sleep(ctx, cfg.InitialDelay); err != nil {
			return zero, err
		}
	}

	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		if !retryable(err) {
			return zero, err
		}
		lastErr = err

		if attempt == attempts {
			break
		}
		if cfg.MaxElapsed > 0 && time.Since(start)+cfg.Interval > cfg.MaxElapsed {
			break
		}
		if err := sleep(ctx, cfg.Interval); err != nil {
			return zero, err
		}
	}

	return zero, fmt.Errorf("%w after %d attempts: %w", ErrBudgetExhausted, attempts, lastErr)
}

// sleep waits for d unless the context is cancelled first.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
