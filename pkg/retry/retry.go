package retry

import (
	"time"

	errs "rclogs/pkg/errors"
)

// State tracks the retry budget of one logical request. It is created
// when the request starts and discarded when the request terminates.
type State struct {
	// Attempt counts retries decided so far; 0 until the first failure
	Attempt int
	// MaxRetries is the budget for this logical request
	MaxRetries int
}

// Decision is the policy's answer for one failed attempt
type Decision struct {
	// Retry is false when the caller must give up and surface the failure
	Retry bool
	// Wait is how long to sleep before the next attempt
	Wait time.Duration
}

// Policy decides whether and how long to wait after a failed attempt.
// Rate-limit rejections wait the server-directed duration (or
// RateLimitWait when the response names none); every other retryable
// failure follows the exponential backoff schedule. Authentication and
// malformed-response failures are never retried.
type Policy struct {
	// MaxRetries per logical request
	MaxRetries int
	// RateLimitWait applies to 429 responses without a usable Retry-After
	RateLimitWait time.Duration
	// Backoff schedules waits for transient failures
	Backoff BackoffStrategy
}

// DefaultPolicy returns the provider-mandated recovery policy:
// three retries, 60s fallback wait on 429, exponential 2s..30s backoff
// for everything else.
func DefaultPolicy() *Policy {
	return &Policy{
		MaxRetries:    3,
		RateLimitWait: 60 * time.Second,
		Backoff:       DefaultExponentialBackoff(),
	}
}

// NewState creates the per-request retry state for this policy
func (p *Policy) NewState() *State {
	return &State{MaxRetries: p.MaxRetries}
}

// Decide consumes one attempt from the state and schedules the next
// one, or gives up. The caller surfaces the original error unchanged
// when Retry is false.
func (p *Policy) Decide(err error, state *State) Decision {
	errType := errs.TypeOf(err)
	if !errs.IsRetryable(errType) {
		return Decision{}
	}

	state.Attempt++
	if state.Attempt > state.MaxRetries {
		return Decision{}
	}

	if errType == errs.ErrorTypeRateLimit {
		wait := p.RateLimitWait
		if after, ok := errs.RetryAfter(err); ok {
			wait = after
		}
		return Decision{Retry: true, Wait: wait}
	}

	return Decision{Retry: true, Wait: p.Backoff.NextDelay(state.Attempt)}
}
