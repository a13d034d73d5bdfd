package serp

import (
	"context"
	"sync"
	"time"
)

// limiter serializes provider calls and enforces a fixed spacing between
// them. The mutex is held for the whole wait so concurrent callers queue up
// one behind the other.
type limiter struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
}

// newLimiter creates a limiter with the given inter-call spacing
func newLimiter(interval time.Duration) *limiter {
	if interval <= 0 {
		interval = defaultInterval
	}

	return &limiter{interval: interval}
}

// wait blocks until the caller may issue the next provider call
func (l *limiter) wait(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := l.last.Add(l.interval)
	if now := time.Now(); now.Before(next) {
		timer := time.NewTimer(next.Sub(now))
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	l.last = time.Now()

	return nil
}
