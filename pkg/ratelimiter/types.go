package ratelimiter

import "time"

// Result is the outcome of one Allow call.
type Result struct {
	Allowed   bool
	Limit     int       // bucket capacity
	Remaining int       // tokens left after this call
	ResetAt   time.Time // next refill
}

// RetryAfter returns how long a denied caller should wait, relative to now.
func (r Result) RetryAfter(now time.Time) time.Duration {
	if r.Allowed || !r.ResetAt.After(now) {
		return 0
	}
	return r.ResetAt.Sub(now)
}

// Config is a token bucket: Capacity tokens, RefillRate added every RefillInterval.
type Config struct {
	Capacity       int           `env:"CAPACITY" envDefault:"5"`
	RefillRate     int           `env:"REFILL_RATE" envDefault:"1"`
	RefillInterval time.Duration `env:"REFILL_INTERVAL" envDefault:"1m"`
}

func (c Config) validate() error {
	switch {
	case c.Capacity <= 0:
		return errInvalid("capacity must be positive, got %d", c.Capacity)
	case c.RefillRate <= 0:
		return errInvalid("refill rate must be positive, got %d", c.RefillRate)
	case c.RefillInterval < time.Millisecond:
		return errInvalid("refill interval must be at least 1ms, got %v", c.RefillInterval)
	}
	return nil
}

// ttl bounds how long an idle bucket must be kept before it is full again.
func (c Config) ttl() time.Duration {
	intervals := (c.Capacity + c.RefillRate - 1) / c.RefillRate
	return time.Duration(intervals+1) * c.RefillInterval
}
