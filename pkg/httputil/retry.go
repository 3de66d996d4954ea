package httputil

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// MaxBackoff caps the wait between two attempts of an artifact transfer.
const MaxBackoff = 30 * time.Second

// RetryableError marks a transfer failure that is worth another attempt:
// connection errors, truncated bodies and 5xx responses. A 404 never is.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Transient wraps err as a retryable [ErrNetwork] failure.
func Transient(err error) error {
	return &RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
}

// Retry runs fn until it succeeds, returns a non-retryable error, or has
// been called attempts times. The wait starts at delay and doubles up to
// [MaxBackoff]. The downloader passes its configured download_retries
// here, so a cold mirror or a dropped connection does not fail the build.
// A cancelled ctx ends the wait with ctx.Err().
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
		if i == attempts-1 {
			break
		}

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay = min(delay*2, MaxBackoff)
	}
	return err
}

// RetryWithBackoff is the policy for small side fetches such as published
// checksum files: 3 attempts starting at one second.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, 3, time.Second, fn)
}

// IsRetryable reports whether err carries a [RetryableError].
func IsRetryable(err error) bool {
	var r *RetryableError
	return errors.As(err, &r)
}
