package cache

import (
	"context"
	"errors"
	"time"
)

// transientError marks a backend failure worth retrying, such as a dropped
// connection to Redis.
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// Transient marks err as retryable. It returns nil for a nil err.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err}
}

// IsTransient reports whether err, or anything it wraps, was marked with
// [Transient].
func IsTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

// backoff is a bounded exponential retry schedule.
type backoff struct {
	attempts int
	first    time.Duration
}

var redisBackoff = backoff{attempts: 3, first: 200 * time.Millisecond}

// do calls fn until it succeeds, returns a non-transient error, runs out
// of attempts or ctx ends. The delay doubles after every failure.
func (b backoff) do(ctx context.Context, fn func() error) error {
	delay := b.first
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !IsTransient(err) || attempt >= b.attempts {
			return err
		}
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
}
