package artex

import "context"

// DomainLimiter throttles outbound requests per origin host so that batch
// runs stay polite to the sites they extract from.
type DomainLimiter interface {
	// Wait blocks until a request to the host is allowed, or the context
	// is canceled.
	Wait(ctx context.Context, host string) error
}
