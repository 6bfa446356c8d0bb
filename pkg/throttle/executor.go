package throttle

import (
	"context"
	"time"

	"rclogs/pkg/logger"
	"rclogs/pkg/ratelimit"
	"rclogs/pkg/retry"
)

// RetryHook is called before each scheduled wait. Attempt is the
// global attempt number that just failed, wait is the pause the policy
// chose, and err is the failure that triggered it.
type RetryHook func(attempt int, wait time.Duration, err error)

// Executor runs request functions under the shared rate limiter and
// the recovery policy. Every attempt, first or retry, passes through
// the limiter before it is dispatched; waits between attempts never
// consume admission slots.
type Executor struct {
	limiter ratelimit.Limiter
	policy  *retry.Policy
	log     logger.Logger

	// OnRetry observes scheduled retries, for progress reporting
	OnRetry RetryHook

	// sleep performs the inter-attempt wait; tests replace it
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates an Executor sharing the given limiter. All executors
// that talk to the same provider account must share one limiter
// instance, otherwise the admission window fragments.
func New(limiter ratelimit.Limiter, policy *retry.Policy, log logger.Logger) *Executor {
	return &Executor{
		limiter: limiter,
		policy:  policy,
		log:     log,
		sleep:   retry.Wait,
	}
}

// Execute runs fn until it succeeds, the policy gives up, or the
// context is cancelled. When the policy gives up the last failure is
// returned unchanged.
func (e *Executor) Execute(ctx context.Context, fn func() error) error {
	state := e.policy.NewState()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		e.limiter.Admit()

		err := fn()
		if err == nil {
			return nil
		}

		decision := e.policy.Decide(err, state)
		if !decision.Retry {
			return err
		}

		e.log.WarnWithFields("Attempt failed, retrying", map[string]interface{}{
			"attempt": state.Attempt,
			"wait":    decision.Wait.String(),
			"error":   err.Error(),
		})
		if e.OnRetry != nil {
			e.OnRetry(state.Attempt, decision.Wait, err)
		}

		if werr := e.sleep(ctx, decision.Wait); werr != nil {
			return werr
		}
	}
}

// Do runs fn under the executor and returns its result. It exists
// because methods cannot carry type parameters.
func Do[T any](ctx context.Context, e *Executor, fn func() (T, error)) (T, error) {
	var result T
	err := e.Execute(ctx, func() error {
		r, err := fn()
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	return result, err
}
