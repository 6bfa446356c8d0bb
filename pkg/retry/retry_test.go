package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	errs "rclogs/pkg/errors"
)

func rateLimitErr(after time.Duration, set bool) error {
	e := errs.New(errs.ErrorTypeRateLimit, "rate limit exceeded")
	e.StatusCode = 429
	e.RetryAfter = after
	e.RetryAfterSet = set
	return e
}

func TestExponentialBackoffSchedule(t *testing.T) {
	eb := DefaultExponentialBackoff()

	expected := []time.Duration{
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
		30 * time.Second,
		30 * time.Second,
	}

	for i, want := range expected {
		attempt := i + 1
		if got := eb.NextDelay(attempt); got != want {
			t.Errorf("NextDelay(%d) = %v, want %v", attempt, got, want)
		}
	}
}

func TestExponentialBackoffNonPositiveAttempt(t *testing.T) {
	eb := DefaultExponentialBackoff()

	if got := eb.NextDelay(0); got != 0 {
		t.Errorf("NextDelay(0) = %v, want 0", got)
	}
	if got := eb.NextDelay(-1); got != 0 {
		t.Errorf("NextDelay(-1) = %v, want 0", got)
	}
}

func TestConstantBackoff(t *testing.T) {
	cb := &ConstantBackoff{Delay: 5 * time.Second}

	for attempt := 1; attempt <= 3; attempt++ {
		if got := cb.NextDelay(attempt); got != 5*time.Second {
			t.Errorf("NextDelay(%d) = %v, want 5s", attempt, got)
		}
	}
}

func TestDecideRateLimitHonorsRetryAfter(t *testing.T) {
	policy := DefaultPolicy()
	state := policy.NewState()

	decision := policy.Decide(rateLimitErr(5*time.Second, true), state)

	if !decision.Retry {
		t.Fatal("expected retry for rate-limit error")
	}
	if decision.Wait != 5*time.Second {
		t.Errorf("Wait = %v, want 5s from Retry-After", decision.Wait)
	}
}

func TestDecideRateLimitDefaultWait(t *testing.T) {
	policy := DefaultPolicy()
	state := policy.NewState()

	decision := policy.Decide(rateLimitErr(0, false), state)

	if !decision.Retry {
		t.Fatal("expected retry for rate-limit error")
	}
	if decision.Wait != 60*time.Second {
		t.Errorf("Wait = %v, want exactly 60s when Retry-After is absent", decision.Wait)
	}
}

func TestDecideRateLimitZeroRetryAfter(t *testing.T) {
	policy := DefaultPolicy()
	state := policy.NewState()

	// Retry-After: 0 is a valid server directive, not an absent header.
	decision := policy.Decide(rateLimitErr(0, true), state)

	if !decision.Retry {
		t.Fatal("expected retry for rate-limit error")
	}
	if decision.Wait != 0 {
		t.Errorf("Wait = %v, want 0s from explicit Retry-After: 0", decision.Wait)
	}
}

func TestDecideTransientSchedule(t *testing.T) {
	policy := DefaultPolicy()
	state := policy.NewState()
	transient := errs.New(errs.ErrorTypeTransient, "connection reset")

	expected := []time.Duration{
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
	}

	for i, want := range expected {
		decision := policy.Decide(transient, state)
		if !decision.Retry {
			t.Fatalf("attempt %d: expected retry", i+1)
		}
		if decision.Wait != want {
			t.Errorf("attempt %d: Wait = %v, want %v", i+1, decision.Wait, want)
		}
	}

	// The budget of three retries is spent; the fourth failure surfaces.
	decision := policy.Decide(transient, state)
	if decision.Retry {
		t.Error("expected give-up after max retries")
	}
}

func TestDecideMixedSequenceKeepsAttemptIndex(t *testing.T) {
	policy := DefaultPolicy()
	state := policy.NewState()

	// First failure is a 429: wait comes from the server directive.
	first := policy.Decide(rateLimitErr(7*time.Second, true), state)
	if !first.Retry || first.Wait != 7*time.Second {
		t.Fatalf("first decision = %+v, want retry with 7s wait", first)
	}

	// Second failure is transient. The schedule is indexed by the
	// global attempt number, so this is attempt 2: 4s, not 2s.
	second := policy.Decide(errs.New(errs.ErrorTypeTransient, "502 bad gateway"), state)
	if !second.Retry {
		t.Fatal("expected retry for second failure")
	}
	if second.Wait != 4*time.Second {
		t.Errorf("second Wait = %v, want 4s for attempt 2", second.Wait)
	}
}

func TestDecideAuthNeverRetried(t *testing.T) {
	policy := DefaultPolicy()
	state := policy.NewState()

	decision := policy.Decide(errs.New(errs.ErrorTypeAuth, "token expired"), state)

	if decision.Retry {
		t.Error("auth failures must not be retried")
	}
	if state.Attempt != 0 {
		t.Errorf("Attempt = %d, want 0: fatal failures consume no budget", state.Attempt)
	}
}

func TestDecideMalformedNeverRetried(t *testing.T) {
	policy := DefaultPolicy()
	state := policy.NewState()

	decision := policy.Decide(errs.New(errs.ErrorTypeMalformed, "bad page payload"), state)

	if decision.Retry {
		t.Error("malformed responses must not be retried")
	}
}

func TestDecideUnclassifiedErrorIsTransient(t *testing.T) {
	policy := DefaultPolicy()
	state := policy.NewState()

	decision := policy.Decide(errors.New("dial tcp: i/o timeout"), state)

	if !decision.Retry {
		t.Fatal("unclassified errors count as transient and retry")
	}
	if decision.Wait != 2*time.Second {
		t.Errorf("Wait = %v, want 2s for attempt 1", decision.Wait)
	}
}

func TestWaitZeroDelay(t *testing.T) {
	start := time.Now()
	if err := Wait(context.Background(), 0); err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("zero-delay Wait took %v", elapsed)
	}
}

func TestWaitContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- Wait(ctx, 10*time.Second)
	}()

	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Wait returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after cancellation")
	}
}
