package ratelimit

import (
	"sort"
	"sync"
	"testing"
	"time"
)

func TestSlidingWindowTryAdmit(t *testing.T) {
	sw := NewSlidingWindow(3, time.Second)

	// Test initial admissions
	for i := 0; i < 3; i++ {
		if !sw.TryAdmit() {
			t.Errorf("Expected request %d to be admitted", i+1)
		}
	}

	// Test limit reached
	if sw.TryAdmit() {
		t.Error("Expected request to be denied when limit is reached")
	}

	// Test window sliding
	time.Sleep(time.Second + 100*time.Millisecond)
	if !sw.TryAdmit() {
		t.Error("Expected request to be admitted after window slides")
	}

	// Test reset
	sw.Reset()
	if len(sw.requests) != 0 {
		t.Error("Expected requests to be cleared after reset")
	}
}

func TestSlidingWindowAdmitBlocks(t *testing.T) {
	window := 300 * time.Millisecond
	sw := NewSlidingWindow(2, window)

	sw.Admit()
	sw.Admit()

	start := time.Now()
	sw.Admit()
	elapsed := time.Since(start)

	// The third admission must wait for the oldest to leave the window
	if elapsed < window-50*time.Millisecond {
		t.Errorf("Expected third Admit to block close to %v, blocked %v", window, elapsed)
	}
}

// The invariant: no trailing window ever contains more than maxRequests
// admissions. Admission times recorded after each Admit can only be
// later than the limiter's own record, so spacing checks stay safe.
func TestSlidingWindowInvariant(t *testing.T) {
	const capacity = 3
	window := 200 * time.Millisecond
	sw := NewSlidingWindow(capacity, window)

	times := make([]time.Time, 0, 9)
	for i := 0; i < 9; i++ {
		sw.Admit()
		times = append(times, time.Now())
	}

	for i := capacity; i < len(times); i++ {
		gap := times[i].Sub(times[i-capacity])
		if gap < window-20*time.Millisecond {
			t.Errorf("admissions %d and %d are %v apart, want at least %v",
				i-capacity, i, gap, window)
		}
	}
}

func TestSlidingWindowConcurrentAdmit(t *testing.T) {
	const capacity = 4
	window := 150 * time.Millisecond
	sw := NewSlidingWindow(capacity, window)

	var mu sync.Mutex
	times := make([]time.Time, 0, 12)

	var wg sync.WaitGroup
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sw.Admit()
			mu.Lock()
			times = append(times, time.Now())
			mu.Unlock()
		}()
	}
	wg.Wait()

	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	for i := capacity; i < len(times); i++ {
		gap := times[i].Sub(times[i-capacity])
		if gap < window-20*time.Millisecond {
			t.Errorf("concurrent admissions %d and %d are %v apart, want at least %v",
				i-capacity, i, gap, window)
		}
	}
}

func TestSlidingWindowUsage(t *testing.T) {
	sw := NewSlidingWindow(5, time.Second)

	used, capacity, resetAt := sw.Usage()
	if used != 0 || capacity != 5 {
		t.Errorf("Expected 0/5 before any admission, got %d/%d", used, capacity)
	}
	if !resetAt.IsZero() {
		t.Error("Expected zero reset time for an empty window")
	}

	sw.Admit()
	sw.Admit()

	used, capacity, resetAt = sw.Usage()
	if used != 2 || capacity != 5 {
		t.Errorf("Expected 2/5 after two admissions, got %d/%d", used, capacity)
	}
	if resetAt.IsZero() || resetAt.Before(time.Now()) {
		t.Errorf("Expected reset time in the future, got %v", resetAt)
	}
}
