// Package ratelimiter throttles calls to rate-limited upstream APIs.
package ratelimiter

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Limiter limits how often an operation such as an API call may run.
type Limiter interface {
	Wait(ctx context.Context) error
}

// RateLimiter allows up to limit calls per interval window. Callers beyond the
// limit block until the window resets or their context is done.
type RateLimiter struct {
	limit    int           // calls allowed per window
	interval time.Duration // window length

	mu        sync.Mutex
	count     int
	lastReset time.Time
	now       func() time.Time
}

// NewRateLimiter creates a RateLimiter. A limit below one disables limiting.
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:     limit,
		interval:  interval,
		lastReset: time.Now(),
		now:       time.Now,
	}
}

// Wait reserves one call, sleeping until the next window when the current one
// is exhausted.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if rl == nil || rl.limit < 1 {
		return ctx.Err()
	}
	for {
		rl.mu.Lock()
		now := rl.now()
		// reset the window once interval has elapsed
		if now.Sub(rl.lastReset) >= rl.interval {
			rl.count = 0
			rl.lastReset = now
		}
		if rl.count < rl.limit {
			rl.count++
			rl.mu.Unlock()
			return nil
		}
		sleep := rl.interval - now.Sub(rl.lastReset)
		rl.mu.Unlock()

		slog.Debug("rate limit reached, waiting", "limit", rl.limit, "sleep", sleep)
		timer := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
