package ratelimiter

import (
	"context"
	"fmt"
	"time"
)

// Store keeps bucket state. Take refills the bucket for the time elapsed
// since its last refill and consumes n tokens only if enough are available.
type Store interface {
	Take(ctx context.Context, key string, n int, cfg Config, now time.Time) (Result, error)
	Reset(ctx context.Context, key string) error
}

func errInvalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
}
