package retry

import (
	"context"
	"math"
	"time"
)

// BackoffStrategy defines the interface for transient-failure backoff
type BackoffStrategy interface {
	// NextDelay returns the delay before retry number attempt (1-based)
	NextDelay(attempt int) time.Duration
	// Reset restores the strategy to its initial state
	Reset()
}

// ExponentialBackoff doubles the delay with each attempt, capped at
// MaxDelay. The delay is a pure function of the attempt number, so
// interleaved rate-limit waits do not disturb the schedule.
type ExponentialBackoff struct {
	// BaseDelay is the delay before the first retry
	BaseDelay time.Duration
	// MaxDelay caps the computed delay
	MaxDelay time.Duration
	// Multiplier is the factor by which the delay grows
	Multiplier float64
}

// DefaultExponentialBackoff returns the provider-friendly schedule:
// 2s, 4s, 8s, 16s, then capped at 30s.
func DefaultExponentialBackoff() *ExponentialBackoff {
	return &ExponentialBackoff{
		BaseDelay:  2 * time.Second,
		MaxDelay:   30 * time.Second,
		Multiplier: 2.0,
	}
}

// NextDelay calculates the delay for the given attempt
func (eb *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	delay := float64(eb.BaseDelay) * math.Pow(eb.Multiplier, float64(attempt-1))
	if delay > float64(eb.MaxDelay) {
		delay = float64(eb.MaxDelay)
	}

	return time.Duration(delay)
}

// Reset is a no-op: the schedule carries no state between attempts
func (eb *ExponentialBackoff) Reset() {}

// ConstantBackoff waits the same delay before every retry
type ConstantBackoff struct {
	Delay time.Duration
}

// NextDelay returns the constant delay
func (cb *ConstantBackoff) NextDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	return cb.Delay
}

// Reset resets the backoff (no-op for constant backoff)
func (cb *ConstantBackoff) Reset() {}

// Wait sleeps for the specified duration or until the context is
// cancelled
func Wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
