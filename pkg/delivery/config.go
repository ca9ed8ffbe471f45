package delivery

import (
	"fmt"
	"time"
)

// Config bounds a delivery. The defaults leave headroom under a 90s caller budget.
type Config struct {
	TotalTimeout    time.Duration `env:"DELIVERY_TOTAL_TIMEOUT" envDefault:"45s"`
	ConnectTimeout  time.Duration `env:"DELIVERY_CONNECT_TIMEOUT" envDefault:"15s"`
	SendTimeout     time.Duration `env:"DELIVERY_SEND_TIMEOUT" envDefault:"30s"`
	ProbeEnabled    bool          `env:"DELIVERY_PROBE_ENABLED" envDefault:"true"`
	ProbeTimeout    time.Duration `env:"DELIVERY_PROBE_TIMEOUT" envDefault:"5s"`
	FallbackTimeout time.Duration `env:"DELIVERY_FALLBACK_TIMEOUT" envDefault:"2s"`
	Tag             string        `env:"DELIVERY_TAG" envDefault:"prediction-report"`
}

// DefaultConfig returns the env defaults.
func DefaultConfig() Config {
	return Config{
		TotalTimeout:    45 * time.Second,
		ConnectTimeout:  15 * time.Second,
		SendTimeout:     30 * time.Second,
		ProbeEnabled:    true,
		ProbeTimeout:    5 * time.Second,
		FallbackTimeout: 2 * time.Second,
		Tag:             "prediction-report",
	}
}

// Validate checks that every bound is positive.
func (c Config) Validate() error {
	for name, d := range map[string]time.Duration{
		"total timeout":    c.TotalTimeout,
		"connect timeout":  c.ConnectTimeout,
		"send timeout":     c.SendTimeout,
		"probe timeout":    c.ProbeTimeout,
		"fallback timeout": c.FallbackTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %s", ErrInvalidConfig, name, d)
		}
	}
	return nil
}

// ValidateAgainst checks that a delivery always finishes before the outer
// caller budget (e.g. the HTTP write timeout) runs out.
func (c Config) ValidateAgainst(outer time.Duration) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if outer > 0 && c.TotalTimeout >= outer {
		return fmt.Errorf("%w: total timeout %s must be below the caller budget %s",
			ErrInvalidConfig, c.TotalTimeout, outer)
	}
	return nil
}

// fallbackReserve is the slice of the total budget kept for the fallback write.
func (c Config) fallbackReserve() time.Duration {
	return min(c.FallbackTimeout, c.TotalTimeout/4)
}
