package fetcher

import (
	"context"
	"sync"
	"time"
)

// RateLimiter spaces calls at least interval apart. Waiters are serialized,
// so concurrent callers are released one interval after another.
type RateLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewRateLimiter creates a limiter. A non-positive interval disables waiting.
func NewRateLimiter(interval time.Duration) *RateLimiter {
	return &RateLimiter{
		interval: interval,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// Wait blocks until interval has passed since the previous call returned,
// or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.interval > 0 && !r.last.IsZero() {
		if delta := r.interval - r.now().Sub(r.last); delta > 0 {
			if err := r.sleep(ctx, delta); err != nil {
				return err
			}
		}
	}
	r.last = r.now()
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
