// Package retry applies an exponential backoff policy to idempotent reads.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"equipos-backend/internal/config"
	"equipos-backend/internal/docstore"
	"equipos-backend/internal/logger"
)

// Policy describes how an operation is retried. Only errors accepted by
// Retryable are retried; anything else is returned after the first attempt.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
	Retryable   func(error) bool

	// Timer drives the waits between attempts; nil uses a real timer.
	Timer backoff.Timer
}

// DefaultPolicy retries quota errors three times starting at one second.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		Multiplier:  2,
		Retryable:   docstore.IsQuotaExceeded,
	}
}

// FromConfig builds a quota policy from the retry config section.
func FromConfig(cfg config.RetryConfig) Policy {
	p := DefaultPolicy()
	p.MaxAttempts = cfg.MaxAttempts
	p.BaseDelay = cfg.BaseDelay()
	p.Multiplier = cfg.Multiplier
	return p
}

func (p Policy) backOff(ctx context.Context) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = p.BaseDelay
	eb.Multiplier = p.Multiplier
	eb.RandomizationFactor = 0
	eb.MaxInterval = p.BaseDelay << 10
	eb.MaxElapsedTime = 0

	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return backoff.WithContext(backoff.WithMaxRetries(eb, uint64(attempts-1)), ctx)
}

// Do runs op until it succeeds, returns a non-retryable error, or the
// attempts are exhausted. The last error is returned unchanged.
func (p Policy) Do(ctx context.Context, name string, op func() error) error {
	retryable := p.Retryable
	if retryable == nil {
		retryable = docstore.IsQuotaExceeded
	}

	attempt := 0
	wrapped := func() error {
		attempt++
		err := op()
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		logger.Warn("Retrying after transient error", "operation", name, "attempt", attempt, "wait", wait, "error", err)
	}

	err := backoff.RetryNotifyWithTimer(wrapped, p.backOff(ctx), notify, p.Timer)
	if err != nil {
		logger.Error("Operation failed", "operation", name, "attempts", attempt, "error", err)
	}
	return err
}

// Value is Do for operations that return a result.
func Value[T any](ctx context.Context, p Policy, name string, op func() (T, error)) (T, error) {
	var out T
	err := p.Do(ctx, name, func() error {
		v, err := op()
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}
