package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dmitrymomot/notifykit/pkg/config"
	"github.com/dmitrymomot/notifykit/pkg/delivery"
	"github.com/dmitrymomot/notifykit/pkg/email"
	"github.com/dmitrymomot/notifykit/pkg/fallback"
	"github.com/dmitrymomot/notifykit/pkg/httpserver"
	"github.com/dmitrymomot/notifykit/pkg/pg"
	"github.com/dmitrymomot/notifykit/pkg/ratelimiter"
	"github.com/dmitrymomot/notifykit/pkg/redis"
)

const (
	providerSMTP     = "smtp"
	providerPostmark = "postmark"
	providerDev      = "dev"
)

type appConfig struct {
	Env           string `env:"APP_ENV" envDefault:"development"`
	Service       string `env:"SERVICE_NAME" envDefault:"notifyd"`
	LogLevel      string `env:"LOG_LEVEL"`
	EmailProvider string `env:"EMAIL_PROVIDER" envDefault:"smtp"`
	DevDir        string `env:"EMAIL_DEV_DIR" envDefault:"mail_outbox"`
	Brand         string `env:"REPORT_BRAND" envDefault:"MediCare+"`
	ReplyTo       string `env:"REPORT_REPLY_TO"`
}

type limitConfig struct {
	Enabled bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	Store   string `env:"RATE_LIMIT_STORE" envDefault:"memory"` // memory | redis
}

type settings struct {
	App      appConfig
	Sender   email.SenderConfig
	SMTP     email.SMTPConfig
	Postmark email.PostmarkConfig
	Delivery delivery.Config
	Fallback fallback.Config
	Redis    redis.Config
	Postgres pg.Config
	HTTP     httpserver.Config

	Limits         limitConfig
	ClientLimit    ratelimiter.Config
	RecipientLimit ratelimiter.Config
}

// loadSettings reads an optional .env file and then the environment.
func loadSettings(envFile string) (settings, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := config.LoadEnv(envFile); err != nil {
				return settings{}, err
			}
		}
	}

	var s settings
	for _, load := range []func() error{
		func() error { return config.Load(&s.App) },
		func() error { return config.Load(&s.Sender) },
		func() error { return config.Load(&s.SMTP) },
		func() error { return config.Load(&s.Postmark) },
		func() error { return config.Load(&s.Delivery) },
		func() error { return config.Load(&s.Fallback) },
		func() error { return config.Load(&s.Redis) },
		func() error { return config.Load(&s.Postgres) },
		func() error { return config.Load(&s.HTTP) },
		func() error { return config.Load(&s.Limits) },
		func() error { return config.LoadWithPrefix(&s.ClientLimit, "RATE_LIMIT_CLIENT_") },
		func() error { return config.LoadWithPrefix(&s.RecipientLimit, "RATE_LIMIT_RECIPIENT_") },
	} {
		if err := load(); err != nil {
			return settings{}, err
		}
	}

	if err := s.Delivery.ValidateAgainst(s.HTTP.WriteTimeout); err != nil {
		return settings{}, err
	}
	return s, nil
}

// newLimiters returns the per-client and per-recipient buckets, or nils when
// limiting is disabled. The returned func releases the store.
func newLimiters(ctx context.Context, s settings) (client, recipient *ratelimiter.Bucket, closeFn func(), err error) {
	if !s.Limits.Enabled {
		return nil, nil, func() {}, nil
	}

	var store ratelimiter.Store
	switch s.Limits.Store {
	case "memory", "":
		mem := ratelimiter.NewMemoryStore()
		store, closeFn = mem, mem.Close
	case "redis":
		rdb, err := redis.Connect(ctx, s.Redis)
		if err != nil {
			return nil, nil, nil, err
		}
		store, closeFn = ratelimiter.NewRedisStore(rdb, "notifykit:ratelimit:"), func() { _ = rdb.Close() }
	default:
		return nil, nil, nil, fmt.Errorf("%w: unknown RATE_LIMIT_STORE %q", ratelimiter.ErrInvalidConfig, s.Limits.Store)
	}

	if client, err = ratelimiter.NewBucket(store, s.ClientLimit); err == nil {
		recipient, err = ratelimiter.NewBucket(store, s.RecipientLimit)
	}
	if err != nil {
		closeFn()
		return nil, nil, nil, err
	}
	return client, recipient, closeFn, nil
}

// newTransport builds the transport selected by EMAIL_PROVIDER and returns
// the host and port the reachability probe should target.
func newTransport(s settings, log *slog.Logger) (email.Transport, string, int, error) {
	switch s.App.EmailProvider {
	case providerSMTP, "":
		t, err := email.NewSMTPTransport(s.SMTP, email.WithLogger(log))
		if err != nil {
			return nil, "", 0, err
		}
		return t, s.SMTP.Host, s.SMTP.Port, nil
	case providerPostmark:
		t, err := email.NewPostmarkTransport(s.Postmark)
		if err != nil {
			return nil, "", 0, err
		}
		return t, "api.postmarkapp.com", 443, nil
	case providerDev:
		return email.NewDevTransport(s.App.DevDir), "", 0, nil
	default:
		return nil, "", 0, fmt.Errorf("%w: unknown EMAIL_PROVIDER %q", email.ErrInvalidConfig, s.App.EmailProvider)
	}
}
