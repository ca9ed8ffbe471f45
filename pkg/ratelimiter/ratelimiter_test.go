package ratelimiter_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/ratelimiter"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

var cfg = ratelimiter.Config{Capacity: 3, RefillRate: 1, RefillInterval: time.Minute}

func stores(t *testing.T) map[string]ratelimiter.Store {
	t.Helper()
	mem := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0))
	t.Cleanup(mem.Close)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return map[string]ratelimiter.Store{
		"memory": mem,
		"redis":  ratelimiter.NewRedisStore(client, "test:"),
	}
}

func TestBucket_ConsumesAndRefills(t *testing.T) {
	t.Parallel()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			clk := &clock{t: time.UnixMilli(1_709_631_000_000)}
			b, err := ratelimiter.NewBucket(store, cfg, ratelimiter.WithClock(clk.now))
			require.NoError(t, err)

			for i := range 3 {
				res, err := b.Allow(ctx, "patient@example.com")
				require.NoError(t, err)
				assert.True(t, res.Allowed)
				assert.Equal(t, 2-i, res.Remaining)
				assert.Equal(t, 3, res.Limit)
			}

			res, err := b.Allow(ctx, "patient@example.com")
			require.NoError(t, err)
			assert.False(t, res.Allowed)
			assert.Equal(t, 0, res.Remaining, "a denied call consumes nothing")
			assert.Equal(t, time.Minute, res.RetryAfter(clk.now()))

			other, err := b.Allow(ctx, "other@example.com")
			require.NoError(t, err)
			assert.True(t, other.Allowed, "keys are independent")

			clk.advance(time.Minute)
			res, err = b.Allow(ctx, "patient@example.com")
			require.NoError(t, err)
			assert.True(t, res.Allowed)
			assert.Equal(t, 0, res.Remaining)

			clk.advance(time.Hour)
			res, err = b.Allow(ctx, "patient@example.com")
			require.NoError(t, err)
			assert.Equal(t, 2, res.Remaining, "refill is capped at capacity")

			require.NoError(t, b.Reset(ctx, "patient@example.com"))
			res, err = b.AllowN(ctx, "patient@example.com", 3)
			require.NoError(t, err)
			assert.True(t, res.Allowed)
		})
	}
}

func TestBucket_Concurrent(t *testing.T) {
	t.Parallel()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			b, err := ratelimiter.NewBucket(store, ratelimiter.Config{Capacity: 10, RefillRate: 1, RefillInterval: time.Hour})
			require.NoError(t, err)

			var allowed atomic.Int32
			var wg sync.WaitGroup
			for range 50 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					res, err := b.Allow(context.Background(), "shared")
					if err == nil && res.Allowed {
						allowed.Add(1)
					}
				}()
			}
			wg.Wait()
			assert.Equal(t, int32(10), allowed.Load())
		})
	}
}

func TestNewBucket_Validation(t *testing.T) {
	t.Parallel()

	store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0))
	defer store.Close()

	for name, c := range map[string]ratelimiter.Config{
		"capacity": {Capacity: 0, RefillRate: 1, RefillInterval: time.Second},
		"rate":     {Capacity: 1, RefillRate: 0, RefillInterval: time.Second},
		"interval": {Capacity: 1, RefillRate: 1},
	} {
		_, err := ratelimiter.NewBucket(store, c)
		assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig, name)
	}
	_, err := ratelimiter.NewBucket(nil, cfg)
	assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)

	b, err := ratelimiter.NewBucket(store, cfg)
	require.NoError(t, err)
	_, err = b.AllowN(context.Background(), "k", 0)
	assert.ErrorIs(t, err, ratelimiter.ErrInvalidTokenCount)
	_, err = b.AllowN(context.Background(), "k", 4)
	assert.ErrorIs(t, err, ratelimiter.ErrInvalidTokenCount)
}

func TestRedisStore_Unavailable(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	b, err := ratelimiter.NewBucket(ratelimiter.NewRedisStore(client, ""), cfg)
	require.NoError(t, err)
	_, err = b.Allow(context.Background(), "k")
	assert.ErrorIs(t, err, ratelimiter.ErrStoreUnavailable)
}

func TestMemoryStore_EvictsExpired(t *testing.T) {
	t.Parallel()

	store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(10 * time.Millisecond))
	defer store.Close()

	short := ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Millisecond}
	b, err := ratelimiter.NewBucket(store, short)
	require.NoError(t, err)
	_, err = b.Allow(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())

	assert.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 10*time.Millisecond)
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0))
	defer store.Close()
	b, err := ratelimiter.NewBucket(store, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Minute})
	require.NoError(t, err)

	h := ratelimiter.Middleware(b, ratelimiter.ByClientIP, nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	call := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/send-prediction-email", nil)
		req.RemoteAddr = ip + ":41000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	first := call("203.0.113.7")
	assert.Equal(t, http.StatusNoContent, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))

	second := call("203.0.113.7")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusNoContent, call("198.51.100.1").Code)
}

func TestMiddleware_FailsOpen(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	b, err := ratelimiter.NewBucket(ratelimiter.NewRedisStore(client, ""), cfg)
	require.NoError(t, err)

	h := ratelimiter.Middleware(b, ratelimiter.ByClientIP, nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
