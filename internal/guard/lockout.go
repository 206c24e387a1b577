package guard

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const (
	MaxAttempts   = 5
	LockoutWindow = 15 * time.Minute
)

// Lockout blocks a key once it has too many failed logins inside the window.
// Successful logins are not counted.
type Lockout struct {
	mu       sync.Mutex
	failures map[string][]time.Time
	max      int
	window   time.Duration
	now      func() time.Time
}

// NewLockout creates a Lockout. Non-positive arguments fall back to
// MaxAttempts and LockoutWindow.
func NewLockout(maxAttempts int, window time.Duration) *Lockout {
	if maxAttempts <= 0 {
		maxAttempts = MaxAttempts
	}
	if window <= 0 {
		window = LockoutWindow
	}
	return &Lockout{
		failures: make(map[string][]time.Time),
		max:      maxAttempts,
		window:   window,
		now:      time.Now,
	}
}

// Check reports whether key may attempt a login.
func (l *Lockout) Check(_ context.Context, key string) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n := len(l.recent(key)); n >= l.max {
		return Result{
			Allowed: false,
			Reason:  fmt.Sprintf("%d failed logins within %s", n, l.window),
			Guard:   "lockout",
		}
	}
	return Result{Allowed: true}
}

// RecordFailure counts one failed login for key.
func (l *Lockout) RecordFailure(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failures[key] = append(l.recent(key), l.now())
}

// RecordSuccess forgets the failures of key.
func (l *Lockout) RecordSuccess(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.failures, key)
}

// recent drops expired failures of key and returns the rest. Caller holds mu.
func (l *Lockout) recent(key string) []time.Time {
	cutoff := l.now().Add(-l.window)
	times := l.failures[key]
	i := 0
	for i < len(times) && !times[i].After(cutoff) {
		i++
	}
	times = times[i:]
	if len(times) == 0 {
		delete(l.failures, key)
		return nil
	}
	l.failures[key] = times
	return times
}
