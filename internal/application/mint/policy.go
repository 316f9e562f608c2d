// internal/application/mint/policy.go
package mint

import (
	"context"
	"time"
)

const (
	DefaultSettleDelay      = 5 * time.Second
	DefaultTokenMaxAttempts = 3
	DefaultTokenRetryDelay  = 2 * time.Second
)

// RetryPolicy bounds the post-mint token lookup.
// Multiplier <= 1 keeps the delay fixed; MaxDelay caps a growing delay.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
	Multiplier  float64
	MaxDelay    time.Duration
}

// DefaultRetryPolicy is 3 attempts, 2s apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: DefaultTokenMaxAttempts, Delay: DefaultTokenRetryDelay}
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultTokenMaxAttempts
	}
	if p.Delay < 0 {
		p.Delay = 0
	}
	return p
}

// DelayAfter returns the wait after the given (1-based) failed attempt.
func (p RetryPolicy) DelayAfter(attempt int) time.Duration {
	d := p.Delay
	if p.Multiplier > 1 {
		for i := 1; i < attempt; i++ {
			d = time.Duration(float64(d) * p.Multiplier)
			if p.MaxDelay > 0 && d >= p.MaxDelay {
				return p.MaxDelay
			}
		}
	}
	if p.MaxDelay > 0 && d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

// Options configures the Orchestrator timing.
type Options struct {
	// SettleDelay is the wait between submission and the state re-read.
	SettleDelay time.Duration
	TokenRetry  RetryPolicy
}

// DefaultOptions mirrors the dapp's timings (5s settle, 3 x 2s lookups).
func DefaultOptions() Options {
	return Options{SettleDelay: DefaultSettleDelay, TokenRetry: DefaultRetryPolicy()}
}

// SleepFunc waits d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
