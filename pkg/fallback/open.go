package fallback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dmitrymomot/notifykit/pkg/pg"
	"github.com/dmitrymomot/notifykit/pkg/redis"
)

// Backend names accepted by Config.Backend.
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config selects and sizes the journal backend.
type Config struct {
	Backend    string `env:"FALLBACK_BACKEND" envDefault:"file"`
	FilePath   string `env:"FALLBACK_FILE_PATH" envDefault:"email_reports.json"`
	MaxRecords int    `env:"FALLBACK_MAX_RECORDS" envDefault:"100"`
	RedisKey   string `env:"FALLBACK_REDIS_KEY" envDefault:"email_reports"`
}

// Store is an opened journal with its health probe and release function.
type Store struct {
	Journal     Journal
	Backend     string
	Healthcheck func(context.Context) error
	Close       func()
}

// Open builds the journal selected by cfg. Redis and Postgres connections
// are created from their own configs; Postgres migrations are applied.
func Open(ctx context.Context, cfg Config, redisCfg redis.Config, pgCfg pg.Config, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}
	opts := []Option{WithMaxRecords(cfg.MaxRecords), WithLogger(log)}
	noop := func() {}

	switch cfg.Backend {
	case BackendFile, "":
		j, err := NewFileJournal(cfg.FilePath, opts...)
		if err != nil {
			return nil, err
		}
		return &Store{Journal: j, Backend: BackendFile, Healthcheck: fileHealthcheck(j.Path()), Close: noop}, nil

	case BackendMemory:
		return &Store{
			Journal:     NewMemoryJournal(opts...),
			Backend:     BackendMemory,
			Healthcheck: func(context.Context) error { return nil },
			Close:       noop,
		}, nil

	case BackendRedis:
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return nil, err
		}
		j, err := NewRedisJournal(client, cfg.RedisKey, opts...)
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		return &Store{
			Journal:     j,
			Backend:     BackendRedis,
			Healthcheck: redis.Healthcheck(client),
			Close:       func() { _ = client.Close() },
		}, nil

	case BackendPostgres:
		pool, err := pg.Connect(ctx, pgCfg)
		if err != nil {
			return nil, err
		}
		if err := pg.Migrate(ctx, pool, pgCfg, Migrations, MigrationsDir, log); err != nil {
			pool.Close()
			return nil, err
		}
		j, err := NewPostgresJournal(pool, opts...)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return &Store{Journal: j, Backend: BackendPostgres, Healthcheck: pg.Healthcheck(pool), Close: pool.Close}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

// fileHealthcheck reports whether the journal directory exists and is a directory.
func fileHealthcheck(path string) func(context.Context) error {
	return func(context.Context) error {
		dir := filepath.Dir(path)
		info, err := os.Stat(dir)
		if err != nil {
			return errors.Join(ErrStoreFailed, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%w: %s is not a directory", ErrStoreFailed, dir)
		}
		return nil
	}
}
