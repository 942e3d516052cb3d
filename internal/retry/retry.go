// Package retry runs ledger and registry calls with bounded exponential backoff.
// Only errors classified as model.ErrNetwork are retried.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/AlexZinkM/paylink/internal/model"
)

// Policy controls retry behavior.
type Policy struct {
	MaxAttempts uint64        // total attempts including the first one
	InitialWait time.Duration // wait before the first retry
	MaxWait     time.Duration // cap for a single wait, zero means uncapped
}

// DefaultPolicy returns sensible defaults.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		InitialWait: 500 * time.Millisecond,
		MaxWait:     5 * time.Second,
	}
}

// Retryable returns true if the error should trigger another attempt.
func Retryable(err error) bool {
	return err != nil && errors.Is(err, model.ErrNetwork)
}

func (p Policy) backoff() retry.Backoff {
	wait := p.InitialWait
	if wait <= 0 {
		wait = time.Millisecond
	}
	b := retry.NewExponential(wait)
	if p.MaxWait > 0 {
		b = retry.WithCappedDuration(p.MaxWait, b)
	}
	attempts := p.MaxAttempts
	if attempts == 0 {
		attempts = 1
	}
	return retry.WithMaxRetries(attempts-1, b)
}

// Do executes fn until it succeeds, fails with a non-retryable error,
// the attempts are exhausted or ctx is done.
func Do[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := retry.Do(ctx, p.backoff(), func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			if Retryable(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		result = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
