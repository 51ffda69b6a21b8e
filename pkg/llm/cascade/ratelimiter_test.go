package cascade

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiterAllowsBudget(t *testing.T) {
	limiter := NewRateLimiter(3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := limiter.Wait(ctx); err != nil {
			t.Fatalf("Wait %d: %v", i, err)
		}
	}
	if got := limiter.InFlight(); got != 3 {
		t.Errorf("InFlight = %d, want 3", got)
	}
}

func TestRateLimiterBlocksOverBudget(t *testing.T) {
	limiter := NewRateLimiter(1)

	if err := limiter.Wait(context.Background()); err != nil {
		t.Fatalf("first Wait: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx); err == nil {
		t.Error("second Wait should block until the context expires")
	}
}

func TestRateLimiterEvictsOldTimestamps(t *testing.T) {
	limiter := NewRateLimiter(2)

	// Backdate both slots past the window so they no longer count.
	old := time.Now().Add(-2 * time.Minute).UnixMilli()
	limiter.mu.Lock()
	limiter.timestamps = []int64{old, old}
	limiter.mu.Unlock()

	if got := limiter.InFlight(); got != 0 {
		t.Errorf("InFlight = %d, want 0 after window passes", got)
	}
	if err := limiter.Wait(context.Background()); err != nil {
		t.Errorf("Wait after eviction: %v", err)
	}
}

func TestRateLimiterDefaultBudget(t *testing.T) {
	limiter := NewRateLimiter(0)
	if limiter.maxPerMin != 14 {
		t.Errorf("maxPerMin = %d, want 14", limiter.maxPerMin)
	}
}
