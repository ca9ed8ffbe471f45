package ratelimiter

import (
	"context"
	"fmt"
	"time"
)

// Bucket applies one token-bucket Config to any number of keys.
type Bucket struct {
	store  Store
	config Config
	now    func() time.Time
}

// Option configures a Bucket.
type Option func(*Bucket)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(b *Bucket) {
		if now != nil {
			b.now = now
		}
	}
}

// NewBucket validates cfg and returns a limiter backed by store.
func NewBucket(store Store, cfg Config, opts ...Option) (*Bucket, error) {
	if store == nil {
		return nil, errInvalid("store is required")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	b := &Bucket{store: store, config: cfg, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Allow takes one token for key.
func (b *Bucket) Allow(ctx context.Context, key string) (Result, error) {
	return b.AllowN(ctx, key, 1)
}

// AllowN takes n tokens for key, or none if fewer are available.
func (b *Bucket) AllowN(ctx context.Context, key string, n int) (Result, error) {
	if n <= 0 || n > b.config.Capacity {
		return Result{}, fmt.Errorf("%w: %d not in 1..%d", ErrInvalidTokenCount, n, b.config.Capacity)
	}
	return b.store.Take(ctx, key, n, b.config, b.now())
}

// Reset forgets key's bucket.
func (b *Bucket) Reset(ctx context.Context, key string) error {
	return b.store.Reset(ctx, key)
}

// Now returns the bucket's clock reading.
func (b *Bucket) Now() time.Time { return b.now() }
