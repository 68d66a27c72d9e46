package llmops

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

// ProviderError carries the HTTP status of a failed provider call.
type ProviderError struct {
	Code    int
	Message string
	Cause   error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider error %d: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("provider error %d: %s", e.Code, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Cause }

// retryable reports whether the error is transient: rate limits and 5xx.
func retryable(err error) bool {
	var pe *ProviderError
	if !errors.As(err, &pe) {
		return false
	}
	return pe.Code == 429 || pe.Code >= 500
}

// withRetry retries fn up to maxAttempts using exponential backoff with
// jitter. It respects context cancellation.
func withRetry(ctx context.Context, maxAttempts int, fn func(context.Context) error) error {
	var lastErr error
	for i := range maxAttempts {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !retryable(lastErr) {
			return lastErr
		}
		if i == maxAttempts-1 {
			break
		}
		// Exponential backoff: base 1s, max 30s, ±25% jitter
		base := time.Duration(1<<uint(i)) * time.Second
		if base > 30*time.Second {
			base = 30 * time.Second
		}
		jitter := time.Duration(rand.Float64() * 0.5 * float64(base))
		wait := base/4*3 + jitter
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return fmt.Errorf("max retries (%d) exceeded: %w", maxAttempts, lastErr)
}
