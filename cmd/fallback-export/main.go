// Command fallback-export dumps the fallback journal for reconciliation,
// to stdout or to an S3 bucket.
//
//	fallback-export -format yaml
//	fallback-export -s3
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrymomot/notifykit/pkg/config"
	"github.com/dmitrymomot/notifykit/pkg/fallback"
	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/pg"
	"github.com/dmitrymomot/notifykit/pkg/redis"
)

type options struct {
	format  string
	toS3    bool
	envFile string
	timeout time.Duration
}

func main() {
	var opts options
	flag.StringVar(&opts.format, "format", "json", "output format: json or yaml")
	flag.BoolVar(&opts.toS3, "s3", false, "upload to EXPORT_S3_BUCKET instead of writing to stdout")
	flag.StringVar(&opts.envFile, "env", ".env", "optional dotenv file")
	flag.DurationVar(&opts.timeout, "timeout", time.Minute, "overall deadline")
	flag.Parse()

	log := logger.New(logger.WithTextFormatter(), logger.WithOutput(os.Stderr))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	if err := run(ctx, opts, os.Stdout, log); err != nil {
		log.Error("export failed", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, stdout io.Writer, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	format, err := fallback.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	if opts.envFile != "" {
		if _, err := os.Stat(opts.envFile); err == nil {
			if err := config.LoadEnv(opts.envFile); err != nil {
				return err
			}
		}
	}

	var (
		cfg      fallback.Config
		redisCfg redis.Config
		pgCfg    pg.Config
	)
	if err := config.Load(&cfg); err != nil {
		return err
	}
	if err := config.Load(&redisCfg); err != nil {
		return err
	}
	if err := config.Load(&pgCfg); err != nil {
		return err
	}

	store, err := fallback.Open(ctx, cfg, redisCfg, pgCfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	if !opts.toS3 {
		return fallback.Export(ctx, store.Journal, stdout, format)
	}

	var s3Cfg fallback.S3Config
	if err := config.Load(&s3Cfg); err != nil {
		return err
	}
	exporter, err := fallback.NewS3Exporter(ctx, s3Cfg)
	if err != nil {
		return err
	}
	key, err := exporter.Upload(ctx, store.Journal, format)
	if err != nil {
		return err
	}
	log.LogAttrs(ctx, slog.LevelInfo, "fallback journal uploaded",
		logger.Backend(store.Backend), slog.String("bucket", s3Cfg.Bucket), slog.String("key", key))
	_, err = fmt.Fprintf(stdout, "s3://%s/%s\n", s3Cfg.Bucket, key)
	return err
}
