package worker

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces outbound requests so that at most one starts per interval.
// A single Pacer is shared by every caller that talks to the same upstream.
type Pacer struct {
	limiter  *rate.Limiter
	mu       sync.Mutex
	interval time.Duration
}

// NewPacer creates a pacer. A non-positive interval disables pacing.
func NewPacer(interval time.Duration) *Pacer {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Pacer{
		limiter:  rate.NewLimiter(limit, 1),
		interval: interval,
	}
}

// Wait blocks until the next request slot opens or ctx is done.
// A nil Pacer never blocks.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil {
		return nil
	}
	return p.limiter.Wait(ctx)
}

// SlowTo widens the spacing to at least d. It never narrows it.
// Returns true if the interval changed.
func (p *Pacer) SlowTo(d time.Duration) bool {
	if p == nil || d <= 0 {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if d <= p.interval {
		return false
	}
	p.interval = d
	p.limiter.SetLimit(rate.Every(d))
	return true
}

// Interval returns the current minimum spacing
func (p *Pacer) Interval() time.Duration {
	if p == nil {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.interval
}
