package ratelimiter

import (
	"context"
	"sync"
	"time"
)

type bucket struct {
	tokens     int
	lastRefill time.Time
	expiresAt  time.Time
}

// MemoryStore keeps buckets in process memory. Idle buckets are evicted by a
// background sweep; call Close to stop it.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*bucket

	sweepEvery time.Duration
	stop       chan struct{}
	stopOnce   sync.Once
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithCleanupInterval sets how often expired buckets are swept; 0 disables it.
func WithCleanupInterval(d time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) { ms.sweepEvery = d }
}

// NewMemoryStore returns an empty store.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	ms := &MemoryStore{
		buckets:    make(map[string]*bucket),
		sweepEvery: 5 * time.Minute,
		stop:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(ms)
	}
	if ms.sweepEvery > 0 {
		go ms.sweep()
	}
	return ms
}

func (ms *MemoryStore) Take(ctx context.Context, key string, n int, cfg Config, now time.Time) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	b, ok := ms.buckets[key]
	if !ok || now.After(b.expiresAt) {
		b = &bucket{tokens: cfg.Capacity, lastRefill: now}
		ms.buckets[key] = b
	}

	if intervals := int(now.Sub(b.lastRefill) / cfg.RefillInterval); intervals > 0 {
		// Capped so a long idle period cannot overflow the multiplication.
		intervals = min(intervals, cfg.Capacity/cfg.RefillRate+1)
		b.tokens = min(b.tokens+intervals*cfg.RefillRate, cfg.Capacity)
		b.lastRefill = b.lastRefill.Add(time.Duration(intervals) * cfg.RefillInterval)
		if now.Sub(b.lastRefill) >= cfg.RefillInterval {
			b.lastRefill = now
		}
	}

	allowed := b.tokens >= n
	if allowed {
		b.tokens -= n
	}
	b.expiresAt = now.Add(cfg.ttl())

	return Result{
		Allowed:   allowed,
		Limit:     cfg.Capacity,
		Remaining: b.tokens,
		ResetAt:   b.lastRefill.Add(cfg.RefillInterval),
	}, nil
}

func (ms *MemoryStore) Reset(_ context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.buckets, key)
	return nil
}

// Len returns the number of tracked buckets.
func (ms *MemoryStore) Len() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return len(ms.buckets)
}

// Close stops the sweep goroutine. Safe to call more than once.
func (ms *MemoryStore) Close() {
	ms.stopOnce.Do(func() { close(ms.stop) })
}

func (ms *MemoryStore) sweep() {
	ticker := time.NewTicker(ms.sweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			ms.evictExpired(time.Now())
		case <-ms.stop:
			return
		}
	}
}

func (ms *MemoryStore) evictExpired(now time.Time) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	for key, b := range ms.buckets {
		if now.After(b.expiresAt) {
			delete(ms.buckets, key)
		}
	}
}
