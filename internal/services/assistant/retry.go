// File: internal/services/assistant/retry.go
package assistant

import (
	"context"
	"errors"
	"time"
)

// RetryConfig defines simple retry behavior
type RetryConfig struct {
	MaxAttempts int
	Delay       time.Duration
}

// RetryWithDelay executes a function with simple retry logic. Backend errors
// are not retried: the server already gave a definitive answer, only network
// failures are worth a second attempt.
func RetryWithDelay(ctx context.Context, config *RetryConfig, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt < config.MaxAttempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}

		lastErr = err

		var ae *Error
		if errors.As(err, &ae) && ae.Type != ErrTypeNetwork {
			return err
		}

		// Don't wait after last attempt
		if attempt < config.MaxAttempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(config.Delay):
			}
		}
	}

	return lastErr
}
