package cascade

import (
	"context"
	"sync"
	"time"
)

// RateLimiter enforces a sliding-window request budget. Timestamps of recent
// sends are kept and evicted once older than the window; Wait blocks until a
// slot opens or the context ends.
type RateLimiter struct {
	mu         sync.Mutex
	maxPerMin  int
	window     time.Duration
	timestamps []int64
}

func NewRateLimiter(maxPerMinute int) *RateLimiter {
	if maxPerMinute <= 0 {
		maxPerMinute = 14
	}
	return &RateLimiter{
		maxPerMin: maxPerMinute,
		window:    time.Minute,
	}
}

// Wait blocks until the caller may send. The reservation is made before
// returning, so concurrent callers cannot share one slot.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		wait := r.tryReserve()
		if wait == 0 {
			return nil
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// tryReserve records a send if under budget, otherwise returns how long until
// the oldest timestamp leaves the window.
func (r *RateLimiter) tryReserve() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UnixMilli()
	cutoff := now - r.window.Milliseconds()

	kept := r.timestamps[:0]
	for _, ts := range r.timestamps {
		if ts > cutoff {
			kept = append(kept, ts)
		}
	}
	r.timestamps = kept

	if len(r.timestamps) < r.maxPerMin {
		r.timestamps = append(r.timestamps, now)
		return 0
	}

	wait := time.Duration(r.timestamps[0]-cutoff) * time.Millisecond
	if wait <= 0 {
		wait = time.Millisecond
	}
	return wait
}

// InFlight reports how many sends currently count against the window.
func (r *RateLimiter) InFlight() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().UnixMilli() - r.window.Milliseconds()
	n := 0
	for _, ts := range r.timestamps {
		if ts > cutoff {
			n++
		}
	}
	return n
}
