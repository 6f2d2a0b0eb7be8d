// Package clock holds context aware waiting and retry helpers.
package clock

import (
	"context"
	"fmt"
	"time"
)

// SleepWithContext waits for d or until ctx is done.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Retry calls fn up to attempts times, sleeping backoff between failures.
// onFailure, when set, sees every failed attempt.
func Retry(ctx context.Context, attempts int, backoff time.Duration, fn func(context.Context) error, onFailure func(attempt int, err error)) error {
	if attempts <= 0 {
		attempts = 1
	}
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if onFailure != nil {
			onFailure(attempt, err)
		}
		if attempt == attempts {
			break
		}
		if sleepErr := SleepWithContext(ctx, backoff); sleepErr != nil {
			return sleepErr
		}
	}
	return fmt.Errorf("gave up after %d attempts: %w", attempts, err)
}
