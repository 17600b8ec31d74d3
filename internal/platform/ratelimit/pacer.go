package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer gates sequential work against an upstream budget. Wait blocks until
// the next token is available or the context is done.
type Pacer interface {
	Wait(ctx context.Context) error
}

type TokenBucket struct {
	limiter *rate.Limiter
}

// NewTokenBucket refills one token per interval with the given burst
// capacity. A non-positive interval means no pacing.
func NewTokenBucket(interval time.Duration, burst int) *TokenBucket {
	if burst < 1 {
		burst = 1
	}

	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}

	return &TokenBucket{limiter: rate.NewLimiter(limit, burst)}
}

func (t *TokenBucket) Wait(ctx context.Context) error {
	return t.limiter.Wait(ctx)
}

// NoopPacer never blocks. Useful in tests and when pacing is disabled.
type NoopPacer struct{}

func (NoopPacer) Wait(ctx context.Context) error {
	return ctx.Err()
}
