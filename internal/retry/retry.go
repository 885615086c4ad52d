// Package retry runs an operation until it succeeds, a permanent error is
// classified, attempts run out or the context is cancelled.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type Action int

const (
	Stop  Action = iota // permanent error, abort immediately
	Retry               // transient error, exponential backoff
	After               // rate-limited, wait RateLimitBackoff or the error's hint
)

type Policy struct {
	MaxAttempts      int
	InitialBackoff   time.Duration
	MaxBackoff       time.Duration // zero means uncapped
	RateLimitBackoff time.Duration
	OnRetry          func(attempt int, err error, backoff time.Duration)
}

// DefaultPolicy suits the X API: short transient backoff, a full window on
// rate limiting.
var DefaultPolicy = Policy{
	MaxAttempts:      4,
	InitialBackoff:   time.Second,
	MaxBackoff:       30 * time.Second,
	RateLimitBackoff: 15 * time.Minute,
}

type Classify func(err error) Action
type Operation[T any] func() (T, error)

// Waiter is implemented by errors that know how long to wait before the
// next attempt, such as a rate limit with a reset time.
type Waiter interface {
	RetryAfter() time.Duration
}

func Do[T any](ctx context.Context, p Policy, classify Classify, op Operation[T]) (T, error) {
	var zero T
	if p.MaxAttempts < 1 {
		return zero, errors.New("retry: MaxAttempts must be >= 1")
	}
	backoff := p.InitialBackoff

	for attempt := 1; ; attempt++ {
		val, err := op()
		if err == nil {
			return val, nil
		}

		action := classify(err)
		if action == Stop {
			return zero, &PermanentError{Err: err}
		}
		if attempt == p.MaxAttempts {
			return zero, fmt.Errorf("failed after %d attempts: %w", p.MaxAttempts, err)
		}

		wait := backoff
		if action == After {
			wait = p.RateLimitBackoff
			var w Waiter
			if errors.As(err, &w) && w.RetryAfter() > 0 {
				wait = w.RetryAfter()
			}
		}

		if p.OnRetry != nil {
			p.OnRetry(attempt, err, wait)
		}

		t := time.NewTimer(wait)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return zero, fmt.Errorf("context cancelled during retry: %w", ctx.Err())
		}

		if action == Retry {
			backoff *= 2
			if p.MaxBackoff > 0 && backoff > p.MaxBackoff {
				backoff = p.MaxBackoff
			}
		}
	}
}

func DoVoid(ctx context.Context, p Policy, classify Classify, op func() error) error {
	_, err := Do(ctx, p, classify, func() (struct{}, error) { return struct{}{}, op() })
	return err
}

type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }
