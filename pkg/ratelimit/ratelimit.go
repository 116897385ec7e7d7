package ratelimit

import (
	"sync"
	"time"
)

// Limiter gates mutating operations per principal.
type Limiter interface {
	Allow(principalID string) bool
}

type window struct {
	count     int
	lastReset time.Time
}

// FixedWindow counts operations per principal inside a fixed time window.
// Counters live in process memory only and do not survive restarts; a
// multi-instance deployment would need these backed by a shared store.
type FixedWindow struct {
	mu      sync.Mutex
	window  time.Duration
	maxOps  int
	windows map[string]*window
	now     func() time.Time
}

func NewFixedWindow(windowSize time.Duration, maxOps int) *FixedWindow {
	return &FixedWindow{
		window:  windowSize,
		maxOps:  maxOps,
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// Allow records one operation for the principal and reports whether it fits
// in the current window. A denied call does not consume the window.
func (l *FixedWindow) Allow(principalID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[principalID]
	if !ok || now.Sub(w.lastReset) > l.window {
		l.windows[principalID] = &window{count: 1, lastReset: now}
		return true
	}

	if w.count >= l.maxOps {
		return false
	}

	w.count++
	return true
}

// Evict drops windows that have been idle past the window length and returns
// how many were removed. Run periodically so the map does not grow with every
// principal ever seen.
func (l *FixedWindow) Evict() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	evicted := 0
	for id, w := range l.windows {
		if now.Sub(w.lastReset) > l.window {
			delete(l.windows, id)
			evicted++
		}
	}
	return evicted
}
