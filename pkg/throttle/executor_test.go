package throttle

import (
	"context"
	"errors"
	"testing"
	"time"

	errs "rclogs/pkg/errors"
	"rclogs/pkg/logger"
	"rclogs/pkg/retry"
)

// countingLimiter admits everything immediately and counts admissions
type countingLimiter struct {
	admitted int
}

func (c *countingLimiter) Admit() { c.admitted++ }

func (c *countingLimiter) TryAdmit() bool { c.admitted++; return true }
func (c *countingLimiter) Usage() (int, int, time.Time) {
	return c.admitted, 10, time.Time{}
}
func (c *countingLimiter) Reset() { c.admitted = 0 }

func newTestExecutor() (*Executor, *countingLimiter, *[]time.Duration) {
	limiter := &countingLimiter{}
	exec := New(limiter, retry.DefaultPolicy(), logger.NewTestLogger())

	sleeps := &[]time.Duration{}
	exec.sleep = func(ctx context.Context, d time.Duration) error {
		*sleeps = append(*sleeps, d)
		return nil
	}
	return exec, limiter, sleeps
}

func TestExecuteSucceedsFirstAttempt(t *testing.T) {
	exec, limiter, sleeps := newTestExecutor()

	calls := 0
	err := exec.Execute(context.Background(), func() error {
		calls++
		return nil
	})

	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
	if limiter.admitted != 1 {
		t.Errorf("admitted %d times, want 1", limiter.admitted)
	}
	if len(*sleeps) != 0 {
		t.Errorf("slept %v, want no waits", *sleeps)
	}
}

func TestExecuteRetriesTransientThenSucceeds(t *testing.T) {
	exec, limiter, sleeps := newTestExecutor()

	calls := 0
	err := exec.Execute(context.Background(), func() error {
		calls++
		if calls <= 2 {
			return errs.New(errs.ErrorTypeTransient, "503 service unavailable")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if calls != 3 {
		t.Errorf("fn called %d times, want 3", calls)
	}
	if limiter.admitted != 3 {
		t.Errorf("admitted %d times, want 3: every retry passes the limiter", limiter.admitted)
	}

	want := []time.Duration{2 * time.Second, 4 * time.Second}
	if len(*sleeps) != len(want) {
		t.Fatalf("slept %v, want %v", *sleeps, want)
	}
	for i := range want {
		if (*sleeps)[i] != want[i] {
			t.Errorf("sleep %d = %v, want %v", i, (*sleeps)[i], want[i])
		}
	}
}

func TestExecuteHonorsRetryAfter(t *testing.T) {
	exec, _, sleeps := newTestExecutor()

	calls := 0
	err := exec.Execute(context.Background(), func() error {
		calls++
		if calls == 1 {
			e := errs.New(errs.ErrorTypeRateLimit, "rate limit exceeded")
			e.StatusCode = 429
			e.RetryAfter = 5 * time.Second
			e.RetryAfterSet = true
			return e
		}
		return nil
	})

	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if len(*sleeps) != 1 || (*sleeps)[0] != 5*time.Second {
		t.Errorf("slept %v, want exactly [5s]", *sleeps)
	}
}

func TestExecuteSurfacesLastFailureUnchanged(t *testing.T) {
	exec, limiter, sleeps := newTestExecutor()

	var lastErr error
	calls := 0
	err := exec.Execute(context.Background(), func() error {
		calls++
		lastErr = errs.Wrap(errs.ErrorTypeTransient, "attempt failed", errors.New("underlying"))
		return lastErr
	})

	if calls != 4 {
		t.Errorf("fn called %d times, want 4 (initial + 3 retries)", calls)
	}
	if limiter.admitted != 4 {
		t.Errorf("admitted %d times, want 4", limiter.admitted)
	}
	if err != lastErr {
		t.Errorf("Execute returned %v, want the final failure unchanged", err)
	}

	want := []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second}
	if len(*sleeps) != len(want) {
		t.Fatalf("slept %v, want %v", *sleeps, want)
	}
	for i := range want {
		if (*sleeps)[i] != want[i] {
			t.Errorf("sleep %d = %v, want %v", i, (*sleeps)[i], want[i])
		}
	}
}

func TestExecuteAuthFailsImmediately(t *testing.T) {
	exec, limiter, sleeps := newTestExecutor()

	authErr := errs.New(errs.ErrorTypeAuth, "401 unauthorized")
	calls := 0
	err := exec.Execute(context.Background(), func() error {
		calls++
		return authErr
	})

	if err != authErr {
		t.Errorf("Execute returned %v, want the auth failure unchanged", err)
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1: auth failures are never retried", calls)
	}
	if limiter.admitted != 1 {
		t.Errorf("admitted %d times, want 1", limiter.admitted)
	}
	if len(*sleeps) != 0 {
		t.Errorf("slept %v, want no waits", *sleeps)
	}
}

func TestExecuteCancelledContext(t *testing.T) {
	exec, limiter, _ := newTestExecutor()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := exec.Execute(ctx, func() error {
		calls++
		return nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Execute returned %v, want context.Canceled", err)
	}
	if calls != 0 {
		t.Errorf("fn called %d times, want 0", calls)
	}
	if limiter.admitted != 0 {
		t.Errorf("admitted %d times, want 0", limiter.admitted)
	}
}

func TestExecuteStopsWhenSleepCancelled(t *testing.T) {
	limiter := &countingLimiter{}
	exec := New(limiter, retry.DefaultPolicy(), logger.NewTestLogger())
	exec.sleep = func(ctx context.Context, d time.Duration) error {
		return context.Canceled
	}

	calls := 0
	err := exec.Execute(context.Background(), func() error {
		calls++
		return errs.New(errs.ErrorTypeTransient, "flaky")
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Execute returned %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
}

func TestOnRetryHookObservesWaits(t *testing.T) {
	exec, _, _ := newTestExecutor()

	type retryEvent struct {
		attempt int
		wait    time.Duration
	}
	var events []retryEvent
	exec.OnRetry = func(attempt int, wait time.Duration, err error) {
		events = append(events, retryEvent{attempt, wait})
	}

	calls := 0
	_ = exec.Execute(context.Background(), func() error {
		calls++
		if calls <= 2 {
			return errs.New(errs.ErrorTypeTransient, "flaky")
		}
		return nil
	})

	if len(events) != 2 {
		t.Fatalf("hook fired %d times, want 2", len(events))
	}
	if events[0].attempt != 1 || events[0].wait != 2*time.Second {
		t.Errorf("first event = %+v, want attempt 1 wait 2s", events[0])
	}
	if events[1].attempt != 2 || events[1].wait != 4*time.Second {
		t.Errorf("second event = %+v, want attempt 2 wait 4s", events[1])
	}
}

func TestDoReturnsResult(t *testing.T) {
	exec, _, _ := newTestExecutor()

	calls := 0
	got, err := Do(context.Background(), exec, func() (int, error) {
		calls++
		if calls == 1 {
			return 0, errs.New(errs.ErrorTypeTransient, "flaky")
		}
		return 42, nil
	})

	if err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	if got != 42 {
		t.Errorf("Do returned %d, want 42", got)
	}
}

func TestDoReturnsZeroValueOnFailure(t *testing.T) {
	exec, _, _ := newTestExecutor()

	authErr := errs.New(errs.ErrorTypeAuth, "401 unauthorized")
	got, err := Do(context.Background(), exec, func() (string, error) {
		return "partial", authErr
	})

	if err != authErr {
		t.Errorf("Do returned %v, want the auth failure unchanged", err)
	}
	if got != "" {
		t.Errorf("Do returned %q, want zero value", got)
	}
}
