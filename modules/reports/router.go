package reports

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/notifykit/pkg/delivery"
	"github.com/dmitrymomot/notifykit/pkg/fallback"
	"github.com/dmitrymomot/notifykit/pkg/httpserver"
	"github.com/dmitrymomot/notifykit/pkg/ratelimiter"
	"github.com/dmitrymomot/notifykit/pkg/report"
	"github.com/dmitrymomot/notifykit/pkg/requestid"
)

// Deliverer is satisfied by *delivery.Orchestrator.
type Deliverer interface {
	Deliver(ctx context.Context, recipient string, payload report.Payload) delivery.Outcome
}

// RouterOptions configures the reports module. Delivery and Journal are
// required; Checks feed the readiness endpoint. The limiters are optional:
// ClientLimiter is keyed by caller IP, RecipientLimiter by email address.
type RouterOptions struct {
	Delivery         Deliverer
	Journal          fallback.Journal
	ClientLimiter    *ratelimiter.Bucket
	RecipientLimiter *ratelimiter.Bucket
	Checks           []httpserver.Check
	HealthTimeout    time.Duration
	Logger           *slog.Logger
}

// Router mounts the delivery and journal endpoints.
//
//	r := chi.NewRouter()
//	r.Mount("/", reports.Router(reports.RouterOptions{
//	    Delivery: orchestrator,
//	    Journal:  store.Journal,
//	}))
func Router(opts RouterOptions) chi.Router {
	if opts.Delivery == nil || opts.Journal == nil {
		panic("reports.Router: Delivery and Journal are required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.HealthTimeout <= 0 {
		opts.HealthTimeout = 2 * time.Second
	}

	h := &handler{
		deliverer: opts.Delivery,
		journal:   opts.Journal,
		limiter:   opts.RecipientLimiter,
		log:       opts.Logger,
	}

	r := chi.NewRouter()
	r.Use(requestid.Middleware)

	r.Group(func(r chi.Router) {
		if opts.ClientLimiter != nil {
			r.Use(ratelimiter.Middleware(opts.ClientLimiter, ratelimiter.ByClientIP, opts.Logger))
		}
		r.Post("/send-prediction-email", h.sendPredictionEmail)
	})
	r.Get("/fallback/records", h.listRecords)
	r.Get("/livez", httpserver.HealthCheckHandler(opts.Logger, opts.HealthTimeout))
	r.Get("/healthz", httpserver.HealthCheckHandler(opts.Logger, opts.HealthTimeout, opts.Checks...))

	return r
}
