package app

import (
	"context"
	"time"
)

// Retry is an explicit retry policy for store reads. The zero value retries
// nothing; DefaultRetry matches the historic retry-once behaviour.
type Retry struct {
	MaxAttempts int
	Backoff     time.Duration
}

// DefaultRetry attempts each query twice with a short pause between attempts.
var DefaultRetry = Retry{MaxAttempts: 2, Backoff: 500 * time.Millisecond}

// Do runs fn up to MaxAttempts times, sleeping Backoff between attempts, and
// returns the last error. Cancellation of ctx stops further attempts.
func (r Retry) Do(ctx context.Context, fn func(context.Context) error) error {
	attempts := r.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 && r.Backoff > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.Backoff):
			}
		}
		if err = fn(ctx); err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return err
		}
	}
	return err
}
