package guard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// cleanupThreshold is the minimum map size before a pruning pass runs.
	cleanupThreshold = 500
	// maxIdleAge is how long an idle key is kept around.
	maxIdleAge = 10 * time.Minute
)

// Result is the outcome of a guard check.
type Result struct {
	Allowed bool
	Reason  string
	Guard   string
}

type keyEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a token bucket per key (client IP for login attempts).
type RateLimiter struct {
	mu    sync.Mutex
	keys  map[string]*keyEntry
	limit rate.Limit
	burst int
	now   func() time.Time
}

// NewRateLimiter allows perMinute events per key with the given burst.
// A non-positive perMinute disables limiting.
func NewRateLimiter(perMinute, burst int) *RateLimiter {
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Limit(float64(perMinute) / 60)
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		keys:  make(map[string]*keyEntry),
		limit: limit,
		burst: burst,
		now:   time.Now,
	}
}

// Check consumes one token for key and reports whether the event is allowed.
func (rl *RateLimiter) Check(_ context.Context, key string) Result {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if len(rl.keys) > cleanupThreshold {
		cutoff := now.Add(-maxIdleAge)
		for k, e := range rl.keys {
			if e.lastSeen.Before(cutoff) {
				delete(rl.keys, k)
			}
		}
	}

	e, ok := rl.keys[key]
	if !ok {
		e = &keyEntry{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.keys[key] = e
	}
	e.lastSeen = now

	if !e.limiter.AllowN(now, 1) {
		return Result{
			Allowed: false,
			Reason:  fmt.Sprintf("rate limit exceeded: burst %d", rl.burst),
			Guard:   "rate_limiter",
		}
	}
	return Result{Allowed: true}
}

// Len returns the number of tracked keys.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.keys)
}
