// Package ratelimiter is a token-bucket limiter with in-memory and Redis
// stores. The Redis store runs the refill-and-take step as a Lua script so
// several service instances share one budget per key.
//
//	b, _ := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), ratelimiter.Config{
//	    Capacity: 5, RefillRate: 1, RefillInterval: time.Minute,
//	})
//	r.With(ratelimiter.Middleware(b, ratelimiter.ByClientIP, log)).Post("/send", h)
//
// A denied call consumes nothing. Store errors wrap ErrStoreUnavailable and
// the HTTP middleware fails open on them.
package ratelimiter
