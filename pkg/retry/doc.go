// Package retry decides whether and when a failed request should be
// attempted again.
//
// A Policy inspects the classified error and the attempt count and
// returns a Decision: retry after a wait, or give up. Rate-limit
// failures wait for the duration the server requested (falling back to
// a fixed default when the server is silent), transient failures wait
// on an exponential schedule indexed by the attempt number, and fatal
// failures are never retried. Once the attempt budget is spent the
// last failure is surfaced to the caller unchanged.
//
// The package makes decisions only. Executing the wait and re-running
// the request is the caller's job, which keeps every rule here
// testable without sleeping:
//
//	policy := retry.DefaultPolicy()
//	state := policy.NewState()
//
//	for {
//		err := doRequest()
//		if err == nil {
//			return nil
//		}
//		decision := policy.Decide(err, state)
//		if !decision.Retry {
//			return err
//		}
//		if err := retry.Wait(ctx, decision.Wait); err != nil {
//			return err
//		}
//	}
package retry
