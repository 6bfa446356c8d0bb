package ratelimit

import (
	"sync"
	"time"
)

// Limiter defines the interface for request admission control
type Limiter interface {
	// Admit blocks until the rate limit permits another request, then
	// records the request as sent
	Admit()
	// TryAdmit records and admits a request if the rate limit permits,
	// without blocking
	TryAdmit() bool
	// Usage reports the admitted requests currently inside the window,
	// the window capacity, and when the oldest admission leaves the window
	Usage() (used int, capacity int, resetAt time.Time)
	// Reset clears all recorded admissions
	Reset()
}

// SlidingWindow admits at most maxRequests requests per trailing
// windowSize. It keeps the exact timestamp of every admitted request;
// admission and recording happen in one critical section, so the
// window bound holds under concurrent callers.
type SlidingWindow struct {
	windowSize  time.Duration
	maxRequests int
	requests    []time.Time
	mu          sync.Mutex
}

// NewSlidingWindow creates a sliding window limiter admitting
// maxRequests per windowSize
func NewSlidingWindow(maxRequests int, windowSize time.Duration) *SlidingWindow {
	return &SlidingWindow{
		windowSize:  windowSize,
		maxRequests: maxRequests,
		requests:    make([]time.Time, 0, maxRequests),
	}
}

// Admit blocks until fewer than maxRequests admissions remain in the
// trailing window, then records the new request. The wait re-evaluates
// in a loop rather than sleeping once: another caller may have taken
// the slot freed by the oldest admission expiring.
func (sw *SlidingWindow) Admit() {
	for {
		sw.mu.Lock()
		now := time.Now()
		sw.cleanOldRequests(now)

		if len(sw.requests) < sw.maxRequests {
			sw.requests = append(sw.requests, now)
			sw.mu.Unlock()
			return
		}

		wait := sw.windowSize - now.Sub(sw.requests[0])
		sw.mu.Unlock()

		if wait > 0 {
			time.Sleep(wait)
		}
	}
}

// TryAdmit records a request if a slot is free, without blocking
func (sw *SlidingWindow) TryAdmit() bool {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	now := time.Now()
	sw.cleanOldRequests(now)

	if len(sw.requests) < sw.maxRequests {
		sw.requests = append(sw.requests, now)
		return true
	}

	return false
}

// Usage reports current window occupancy for progress display
func (sw *SlidingWindow) Usage() (int, int, time.Time) {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	sw.cleanOldRequests(time.Now())

	var resetAt time.Time
	if len(sw.requests) > 0 {
		resetAt = sw.requests[0].Add(sw.windowSize)
	}
	return len(sw.requests), sw.maxRequests, resetAt
}

// Reset clears all recorded admissions
func (sw *SlidingWindow) Reset() {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	sw.requests = sw.requests[:0]
}

// cleanOldRequests removes admissions that have left the window.
// Callers must hold the mutex.
func (sw *SlidingWindow) cleanOldRequests(now time.Time) {
	cutoff := now.Add(-sw.windowSize)

	i := 0
	for i < len(sw.requests) && sw.requests[i].Before(cutoff) {
		i++
	}

	if i > 0 {
		copy(sw.requests, sw.requests[i:])
		sw.requests = sw.requests[:len(sw.requests)-i]
	}
}
