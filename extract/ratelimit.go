package extract

import (
	"context"
	"sync"

	"github.com/fwojciec/artex"
	"golang.org/x/time/rate"
)

var _ artex.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter rate-limits requests per host with token buckets. Each
// host gets its own limiter so a slow site never throttles the others.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
}

// NewDomainLimiter creates a DomainLimiter allowing rps requests per
// second per host, with no bursting.
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

// Wait blocks until the host's rate limit admits a request, or the
// context is canceled.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	d.mu.Lock()
	limiter, ok := d.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(d.rps), 1)
		d.limiters[host] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}
