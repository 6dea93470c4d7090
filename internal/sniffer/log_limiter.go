package sniffer

import (
	"sync"
	"sync/atomic"
	"time"
)

// LogRateLimiter caps repetitive warnings per reason so a stream of
// malformed records cannot flood the log. It uses a sliding window approach:
// counts are stored per window and automatically rotated.
type LogRateLimiter struct {
	mu           sync.Mutex
	current      map[string]*atomic.Int64 // reason → warnings in current window
	windowStart  time.Time
	windowSize   time.Duration
	maxPerWindow int64

	suppressed atomic.Int64
}

// NewLogRateLimiter creates a limiter allowing maxPerWindow messages per
// reason per window.
func NewLogRateLimiter(maxPerWindow int64, window time.Duration) *LogRateLimiter {
	if window <= 0 {
		window = 10 * time.Second
	}
	return &LogRateLimiter{
		current:      make(map[string]*atomic.Int64),
		windowStart:  time.Now(),
		windowSize:   window,
		maxPerWindow: maxPerWindow,
	}
}

// Allow reports whether a message for the given reason may be logged now.
func (l *LogRateLimiter) Allow(reason string, now time.Time) bool {
	l.mu.Lock()

	// Rotate window if expired
	if now.Sub(l.windowStart) >= l.windowSize {
		l.current = make(map[string]*atomic.Int64)
		l.windowStart = now
	}

	counter, exists := l.current[reason]
	if !exists {
		counter = &atomic.Int64{}
		l.current[reason] = counter
	}
	l.mu.Unlock()

	// Atomic increment + check (lock-free hot path after map lookup)
	count := counter.Add(1)
	if count > l.maxPerWindow {
		l.suppressed.Add(1)
		return false
	}
	return true
}

// Suppressed returns the total number of suppressed messages.
func (l *LogRateLimiter) Suppressed() int64 {
	return l.suppressed.Load()
}

// ActiveReasons returns the number of distinct reasons in the current window.
func (l *LogRateLimiter) ActiveReasons() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.current)
}
