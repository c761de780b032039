// Package ratelimit provides per-user fixed-window admission control for
// the connection gateway.
package ratelimit

import (
	"log/slog"
	"sync"
	"time"
)

// Reference configuration: 10 permits per one-second window, with a short
// grace wait before rejecting.
const (
	DefaultPermitsPerSecond = 10
	DefaultGraceWait        = 100 * time.Millisecond

	windowDuration = time.Second
)

// window counts admissions inside the current one-second slot. All permits
// refresh together at the slot boundary; there is no gradual refill.
type window struct {
	mu    sync.Mutex
	start time.Time
	used  int
}

// Limiter keeps one admission window per user, created lazily on first
// acquire. Release discards the window entirely; it is meant for session
// teardown, not for returning permits mid-session.
type Limiter struct {
	mu               sync.Mutex
	log              *slog.Logger
	permitsPerSecond int
	graceWait        time.Duration
	windows          map[string]*window
}

func NewLimiter(log *slog.Logger, permitsPerSecond int, graceWait time.Duration) *Limiter {
	return &Limiter{
		log:              log,
		permitsPerSecond: permitsPerSecond,
		graceWait:        graceWait,
		windows:          make(map[string]*window),
	}
}

// TryAcquire takes one permit from the user's current window. When the
// window is exhausted, the call waits for the next boundary only if it falls
// within the grace duration; otherwise the request is rejected. Acquires for
// one user are serialized, so a grace wait delays that user alone.
func (l *Limiter) TryAcquire(userID string) bool {
	l.mu.Lock()
	w, ok := l.windows[userID]
	if !ok {
		w = &window{start: time.Now()}
		l.windows[userID] = w
	}
	l.mu.Unlock()

	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	w.advance(now)

	if w.used < l.permitsPerSecond {
		w.used++
		return true
	}

	untilNextWindow := w.start.Add(windowDuration).Sub(now)
	if untilNextWindow > l.graceWait {
		l.log.Warn("Rate limit exceeded", "userId", userID)
		return false
	}

	time.Sleep(untilNextWindow)
	w.advance(time.Now())
	w.used++
	return true
}

// advance shifts the window start forward by whole periods, refreshing all
// permits at once like the boundary-refresh limiter it mirrors.
func (w *window) advance(now time.Time) {
	elapsed := now.Sub(w.start)
	if elapsed < windowDuration {
		return
	}
	w.start = w.start.Add(elapsed.Truncate(windowDuration))
	w.used = 0
}

// Release forgets the user's window. The next acquire starts a fresh one
// with all permits available.
func (l *Limiter) Release(userID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, userID)
}
