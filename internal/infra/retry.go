package infra

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// Backoff retries an operation with exponential delay. The resolver
// pipeline never uses it (provider failures there are terminal, a human
// retries by asking again); it serves the collaborators around the
// pipeline, such as transcription.
type Backoff struct {
	Attempts int
	Initial  time.Duration
	Max      time.Duration
	Factor   float64
}

// DefaultBackoff returns the standard retry policy for collaborator calls.
func DefaultBackoff() Backoff {
	return Backoff{
		Attempts: 3,
		Initial:  100 * time.Millisecond,
		Max:      5 * time.Second,
		Factor:   2.0,
	}
}

// Do runs fn until it succeeds, the attempts are exhausted, or the context
// ends. Context errors are never retried.
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	var lastErr error
	delay := b.Initial

	for attempt := 1; attempt <= b.Attempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		if attempt == b.Attempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * b.Factor)
		if delay > b.Max {
			delay = b.Max
		}
	}

	return lastErr
}

// IsRetryableHTTPStatus returns true if the HTTP status code is retryable.
func IsRetryableHTTPStatus(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests ||
		statusCode == http.StatusServiceUnavailable ||
		statusCode == http.StatusGatewayTimeout ||
		statusCode >= 500
}
