package services

import (
	"context"
	"time"
)

// RetryPolicy configures RetryWithBackoff. Retryable decides which errors
// are worth another attempt; everything else fails immediately.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
	Retryable   func(error) bool
}

// RetryWithBackoff runs fn up to MaxAttempts times, sleeping BaseDelay
// before the second attempt and multiplying the delay each retry. Returns
// the last error when attempts are exhausted or the context ends first.
func RetryWithBackoff(ctx context.Context, policy RetryPolicy, fn func() error) error {
	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	delay := policy.BaseDelay
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if policy.Retryable != nil && !policy.Retryable(lastErr) {
			return lastErr
		}
		if attempt == attempts {
			break
		}

		if err := waitBeforeRetry(ctx, delay); err != nil {
			return lastErr
		}
		delay = time.Duration(float64(delay) * policy.Multiplier)
	}

	return lastErr
}

func waitBeforeRetry(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
