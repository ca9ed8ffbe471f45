// Package config loads application configuration from environment variables.
//
// It wraps `github.com/joho/godotenv` and `github.com/caarlos0/env/v11`:
//
//   - Loads values from one or multiple `.env` files (falling back to the
//     default `.env` in the current working directory).
//   - Parses the environment into any Go struct using field tags.
//   - Exposes helpers that panic on failure (`MustLoadEnv`, `MustLoad`) for
//     configuration the service cannot start without.
//
// Parsed structs are not cached. Delivery credentials are read once when the
// orchestrator is built and never mutated afterwards; picking up rotated
// credentials means loading the config again and building a new orchestrator.
//
// # Usage
//
//	type DeliveryConfig struct {
//	    TotalTimeout time.Duration `env:"DELIVERY_TOTAL_TIMEOUT" envDefault:"45s"`
//	}
//
//	var cfg DeliveryConfig
//	config.MustLoad(&cfg)
//
// # Error Handling
//
// Errors wrap ErrParsingConfig, ErrLoadingEnvFile or ErrNilPointer and can be
// matched with errors.Is.
package config
