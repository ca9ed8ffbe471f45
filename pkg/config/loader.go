package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var defaultEnvLoaded sync.Once

// Load parses environment variables into the provided configuration struct.
//
// The default .env file in the working directory is loaded on the first call;
// a missing file is not an error. Values already present in the process
// environment take precedence over the file.
//
// Results are intentionally not cached: every call re-reads the environment,
// so a component that needs fresh credentials must be constructed again.
//
// Example:
//
//	type SMTPConfig struct {
//		Host   string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
//		Port   int    `env:"SMTP_PORT" envDefault:"587"`
//		Sender string `env:"SENDER_EMAIL"`
//	}
//
//	var cfg SMTPConfig
//	if err := config.Load(&cfg); err != nil {
//		// Handle error
//	}
func Load[T any](v *T) error {
	defaultEnvLoaded.Do(func() {
		// The .env file is optional.
		_ = godotenv.Load()
	})
	return parse(v, env.Options{})
}

// LoadWithPrefix works like Load but only considers variables starting with prefix.
// Useful when two instances of the same config struct live in one process.
func LoadWithPrefix[T any](v *T, prefix string) error {
	defaultEnvLoaded.Do(func() {
		_ = godotenv.Load()
	})
	return parse(v, env.Options{Prefix: prefix})
}

// MustLoad works like Load but panics if configuration loading fails.
// This is useful for configurations that are required for the application to start.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("Failed to load required configuration: %v", err))
	}
}

// LoadEnv loads one or more .env files into the process environment.
// Later files override earlier ones. With no arguments the default .env is used.
func LoadEnv(paths ...string) error {
	var err error
	if len(paths) == 0 {
		err = godotenv.Load()
	} else {
		err = godotenv.Overload(paths...)
	}
	if err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	return nil
}

// MustLoadEnv works like LoadEnv but panics on failure.
func MustLoadEnv(paths ...string) {
	if err := LoadEnv(paths...); err != nil {
		panic(fmt.Sprintf("Failed to load env file: %v", err))
	}
}

func parse[T any](v *T, opts env.Options) error {
	if v == nil {
		return ErrNilPointer
	}
	if err := env.ParseWithOptions(v, opts); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}
