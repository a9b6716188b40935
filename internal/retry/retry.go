// Package retry provides the exponential-backoff retry helper used by the
// Fetcher: up to two extra attempts, starting at 500ms and doubling,
// triggered only by a caller-supplied retryable predicate.
package retry

import (
	"context"
	"time"
)

// Default matches spec.md §4.4: "up to 2 extra attempts with exponential
// backoff starting at 0.5s".
const (
	DefaultMaxAttempts  = 3 // 1 initial attempt + 2 retries
	DefaultInitialDelay = 500 * time.Millisecond
)

// Do runs fn up to maxAttempts times. After a failed attempt, retryable is
// consulted: if it returns false, or this was the last attempt, the error
// is returned immediately. Otherwise Do sleeps for an exponentially
// increasing delay (doubling each time, starting at initialDelay) before
// trying again. Sleeping respects ctx cancellation.
func Do[T any](ctx context.Context, maxAttempts int, initialDelay time.Duration, fn func() (T, error), retryable func(error) bool) (T, error) {
	var zero T
	var lastErr error

	delay := initialDelay
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		value, err := fn()
		if err == nil {
			return value, nil
		}
		lastErr = err

		if attempt == maxAttempts || !retryable(err) {
			return zero, lastErr
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
		delay *= 2
	}

	return zero, lastErr
}
