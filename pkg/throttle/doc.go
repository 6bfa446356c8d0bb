// Package throttle executes API requests under the provider's
// admission contract.
//
// An Executor threads every attempt through the shared sliding-window
// limiter, classifies failures, and follows the recovery policy:
// rate-limit rejections wait the server-directed duration, transient
// failures back off exponentially, fatal failures surface immediately.
// Retries re-enter the limiter like any other attempt, so a request
// that fails and retries consumes one admission slot per attempt.
//
//	limiter := ratelimit.NewSlidingWindow(10, time.Minute)
//	exec := throttle.New(limiter, retry.DefaultPolicy(), log)
//
//	page, err := throttle.Do(ctx, exec, func() (*ringcentral.CallLogResponse, error) {
//		return client.ListCallLogs(ctx, params)
//	})
package throttle
