// Command notifyd serves prediction-report delivery over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/notifykit/modules/reports"
	"github.com/dmitrymomot/notifykit/pkg/delivery"
	"github.com/dmitrymomot/notifykit/pkg/fallback"
	"github.com/dmitrymomot/notifykit/pkg/httpserver"
	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/probe"
	"github.com/dmitrymomot/notifykit/pkg/report"
	"github.com/dmitrymomot/notifykit/pkg/requestid"
)

func main() {
	envFile := flag.String("env", ".env", "optional dotenv file")
	flag.Parse()

	if err := run(*envFile); err != nil {
		slog.Error("notifyd stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(envFile string) error {
	s, err := loadSettings(envFile)
	if err != nil {
		return err
	}

	log := logger.New(
		logger.WithEnvironment(s.App.Env, s.App.Service),
		logger.WithLevelName(s.App.LogLevel),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := fallback.Open(ctx, s.Fallback, s.Redis, s.Postgres, log)
	if err != nil {
		return err
	}
	defer store.Close()

	transport, probeHost, probePort, err := newTransport(s, log)
	if err != nil {
		return err
	}

	opts := []delivery.Option{
		delivery.WithConfig(s.Delivery),
		delivery.WithCredentials(s.Sender.Credentials()),
		delivery.WithComposer(report.New(report.WithBrand(s.App.Brand), report.WithReplyTo(s.App.ReplyTo))),
		delivery.WithLogger(log),
	}
	if probeHost != "" {
		opts = append(opts, delivery.WithProber(probe.New(probe.WithLogger(log)), probeHost, probePort))
	}
	orchestrator := delivery.New(transport, store.Journal, opts...)
	if !orchestrator.Configured() {
		log.LogAttrs(ctx, slog.LevelWarn, "sender credentials missing, every report will be journaled",
			logger.Backend(store.Backend))
	}

	clientLimit, recipientLimit, closeLimits, err := newLimiters(ctx, s)
	if err != nil {
		return err
	}
	defer closeLimits()

	r := chi.NewRouter()
	r.Mount("/", reports.Router(reports.RouterOptions{
		Delivery:         orchestrator,
		Journal:          store.Journal,
		ClientLimiter:    clientLimit,
		RecipientLimiter: recipientLimit,
		Checks:           []httpserver.Check{{Name: "journal_" + store.Backend, Fn: store.Healthcheck}},
		Logger:           log,
	}))

	srv := httpserver.NewFromConfig(s.HTTP, httpserver.WithLogger(log))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx, r) })
	g.Go(func() error {
		<-gctx.Done()
		return srv.Shutdown(context.WithoutCancel(gctx))
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.LogAttrs(context.Background(), slog.LevelInfo, "notifyd stopped")
	return nil
}
