// Package ratelimit provides sliding-window admission control for
// outbound API requests.
//
// The RingCentral platform allows a fixed number of requests per
// trailing window (10 per 60 seconds for the call-log endpoints).
// SlidingWindow enforces that bound exactly by keeping the timestamp
// of every admitted request: Admit blocks the caller until a slot is
// free inside the trailing window, then records the request in the
// same critical section. Because the quota is global to the account,
// one limiter instance must be shared by everything that sends
// requests.
//
// Usage:
//
//	limiter := ratelimit.NewSlidingWindow(10, time.Minute)
//
//	limiter.Admit() // blocks until the request may be sent
//	resp, err := client.Do(req)
//
// Only genuinely sent requests consume a slot; waiting callers do not.
package ratelimit
