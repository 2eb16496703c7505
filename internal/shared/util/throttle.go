package util

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Throttle admits a bounded number of events per minute with a burst of one.
type Throttle struct {
	inner *rate.Limiter
}

// NewThrottle allows perMinute events per minute. Zero or less means no
// limit.
func NewThrottle(perMinute int) *Throttle {
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(perMinute))
	}
	return &Throttle{inner: rate.NewLimiter(limit, 1)}
}

// TryAcquire takes the token if it is available right now.
func (t *Throttle) TryAcquire() bool {
	return t.inner.Allow()
}

// Acquire blocks until the token is available or ctx is done.
func (t *Throttle) Acquire(ctx context.Context) error {
	return t.inner.Wait(ctx)
}
