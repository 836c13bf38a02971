package ai

import (
	"context"
	"log/slog"
	"time"
)

// RetryPolicy bounds a retried operation: how many attempts, the fixed
// pause between them and the time budget of a single attempt.
type RetryPolicy struct {
	MaxAttempts    int
	Delay          time.Duration
	AttemptTimeout time.Duration
}

// DefaultRetryPolicy returns 3 attempts, 2s apart, 30s each
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		Delay:          2 * time.Second,
		AttemptTimeout: 30 * time.Second,
	}
}

// Do runs fn until it succeeds or the attempts run out. Each call gets a
// context limited to AttemptTimeout. Cancelling ctx stops the loop at once.
// It returns the number of attempts made and the last error.
func (p RetryPolicy) Do(ctx context.Context, logger *slog.Logger, fn func(ctx context.Context) error) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return attempt - 1, err
		}

		attemptCtx, cancel := ctx, context.CancelFunc(func() {})
		if p.AttemptTimeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, p.AttemptTimeout)
		}
		err := fn(attemptCtx)
		cancel()
		if err == nil {
			return attempt, nil
		}
		if ctx.Err() != nil {
			return attempt, ctx.Err()
		}
		lastErr = err

		if attempt < attempts {
			logger.Warn("Attempt failed, retrying",
				"attempt", attempt,
				"max_attempts", attempts,
				"wait_time", p.Delay,
				"error", err)
			select {
			case <-time.After(p.Delay):
			case <-ctx.Done():
				return attempt, ctx.Err()
			}
		}
	}
	return attempts, lastErr
}
