package delivery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/notifykit/pkg/async"
	"github.com/dmitrymomot/notifykit/pkg/email"
	"github.com/dmitrymomot/notifykit/pkg/fallback"
	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/report"
)

// Prober reports whether host:port accepts TCP connections within timeout.
type Prober interface {
	Probe(ctx context.Context, host string, port int, timeout time.Duration) bool
}

// Orchestrator sequences probe, compose, dispatch and fallback for one
// message at a time. It is safe for concurrent use; deliveries are independent.
type Orchestrator struct {
	transport email.Transport
	journal   fallback.Journal
	creds     email.Credentials
	composer  *report.Composer
	prober    Prober
	probeHost string
	probePort int
	cfg       Config
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithCredentials sets the sender identity. Without a complete identity
// every delivery is reported as not configured.
func WithCredentials(c email.Credentials) Option {
	return func(o *Orchestrator) { o.creds = c }
}

// WithProber enables the pre-flight reachability check against host:port.
func WithProber(p Prober, host string, port int) Option {
	return func(o *Orchestrator) {
		o.prober = p
		o.probeHost = host
		o.probePort = port
	}
}

// WithComposer replaces the default report composer.
func WithComposer(c *report.Composer) Option {
	return func(o *Orchestrator) {
		if c != nil {
			o.composer = c
		}
	}
}

// WithConfig sets the timeouts. Non-positive durations keep their defaults.
func WithConfig(cfg Config) Option {
	return func(o *Orchestrator) {
		def := o.cfg
		o.cfg = cfg
		for _, f := range []struct {
			v   *time.Duration
			def time.Duration
		}{
			{&o.cfg.TotalTimeout, def.TotalTimeout},
			{&o.cfg.ConnectTimeout, def.ConnectTimeout},
			{&o.cfg.SendTimeout, def.SendTimeout},
			{&o.cfg.ProbeTimeout, def.ProbeTimeout},
			{&o.cfg.FallbackTimeout, def.FallbackTimeout},
		} {
			if *f.v <= 0 {
				*f.v = f.def
			}
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock overrides the time source used for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// New builds an orchestrator that exclusively owns transport and journal.
// A nil journal is replaced by an in-memory one.
func New(transport email.Transport, journal fallback.Journal, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		transport: transport,
		journal:   journal,
		composer:  report.New(),
		cfg:       DefaultConfig(),
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.journal == nil {
		o.journal = fallback.NewMemoryJournal()
	}
	return o
}

// Configured reports whether deliveries will attempt network I/O.
func (o *Orchestrator) Configured() bool {
	return o.transport != nil && o.creds.Configured()
}

// Journal returns the fallback journal.
func (o *Orchestrator) Journal() fallback.Journal { return o.journal }

// Deliver sends a report built from payload to recipient. It never returns an
// error and never blocks past the total timeout: every failure becomes an
// Outcome, and undelivered messages are journaled on a best-effort basis.
func (o *Orchestrator) Deliver(ctx context.Context, recipient string, payload report.Payload) (out Outcome) {
	start := time.Now()
	deadline := start.Add(o.cfg.TotalTimeout)
	snapshot := payload.Clone()
	st := newTracker(o.logger, recipient)

	// Dispatch gets the budget minus what the fallback write may need.
	dispatchCtx, cancel := context.WithTimeout(ctx, o.cfg.TotalTimeout-o.cfg.fallbackReserve())
	defer cancel()

	out = Outcome{NetworkCheck: NetworkCheckSkipped}

	defer func() {
		if r := recover(); r != nil {
			out.Success = false
			out.MessageID = ""
			out.Err = fmt.Errorf("delivery panicked: %v", r)
			out.FailureKind = FailureUnknown
			out.FallbackUsed = o.storeFallback(ctx, deadline, recipient, snapshot, FailureUnknown)
		}
		out.Elapsed = time.Since(start)
		out.Message = message(out.FailureKind, recipient, out.FallbackUsed)
		o.logOutcome(ctx, recipient, out)
	}()

	if !o.Configured() {
		return o.fail(ctx, st, deadline, out, recipient, snapshot, FailureNotConfigured,
			errors.New("sender credentials are not configured"))
	}
	if !email.ValidAddress(recipient) {
		return o.fail(ctx, st, deadline, out, recipient, snapshot, FailureTransportError,
			fmt.Errorf("%w: malformed recipient address", email.ErrInvalidParams))
	}

	if o.prober != nil && o.cfg.ProbeEnabled {
		st.to(ctx, StateProbing)
		timeout := min(o.cfg.ProbeTimeout, remaining(dispatchCtx))
		if !o.prober.Probe(dispatchCtx, o.probeHost, o.probePort, timeout) {
			out.NetworkCheck = NetworkCheckFailed
			return o.fail(ctx, st, deadline, out, recipient, snapshot, FailureNetworkUnavailable,
				fmt.Errorf("%w: %s:%d is unreachable", email.ErrConnection, o.probeHost, o.probePort))
		}
		out.NetworkCheck = NetworkCheckPassed
	}

	st.to(ctx, StateComposing)
	msg := o.composer.Compose(report.Input{
		Recipient:   recipient,
		Payload:     report.Payload(snapshot),
		GeneratedAt: o.now(),
	})

	st.to(ctx, StateDispatching)
	req := email.SendRequest{
		To:             recipient,
		Subject:        msg.Subject,
		BodyHTML:       msg.BodyHTML,
		BodyText:       msg.BodyText,
		Tag:            o.cfg.Tag,
		Credentials:    o.creds,
		ConnectTimeout: o.cfg.ConnectTimeout,
		SendTimeout:    o.cfg.SendTimeout,
	}
	// The send runs on its own goroutine so the budget holds even if the
	// transport ignores ctx. An abandoned send never touches the journal.
	ack, err := async.Async(dispatchCtx, req, o.transport.Send).AwaitContext(dispatchCtx)
	if err != nil {
		kind := Classify(err)
		if out.NetworkCheck == NetworkCheckPassed &&
			(kind == FailureNetworkUnavailable || kind == FailureTimeout) {
			out.NetworkCheck = NetworkCheckPassedButFailedDuringSend
		}
		return o.fail(ctx, st, deadline, out, recipient, snapshot, kind, err)
	}

	st.to(ctx, StateDelivered)
	st.to(ctx, StateDone)
	out.Success = true
	out.FailureKind = FailureNone
	out.MessageID = ack.MessageID
	return out
}

// fail moves to FallingBack, stores the record and fills the failure fields.
// The primary kind is never replaced by a storage failure.
func (o *Orchestrator) fail(
	ctx context.Context,
	st *tracker,
	deadline time.Time,
	out Outcome,
	recipient string,
	snapshot map[string]any,
	kind FailureKind,
	cause error,
) Outcome {
	st.to(ctx, StateFallingBack)
	out.Success = false
	out.FailureKind = kind
	out.Err = cause
	out.FallbackUsed = o.storeFallback(ctx, deadline, recipient, snapshot, kind)
	st.to(ctx, StateDone)
	return out
}

// storeFallback appends a record within the fallback reserve, never past
// deadline. It survives cancellation of the caller's context so an expired
// caller still journals. The append runs on its own goroutine: a journal that
// ignores ctx is abandoned at the deadline and reported as not stored, even
// if its write lands later.
func (o *Orchestrator) storeFallback(ctx context.Context, deadline time.Time, recipient string, snapshot map[string]any, kind FailureKind) bool {
	wctx, cancel := context.WithDeadline(context.WithoutCancel(ctx), fallbackDeadline(time.Now(), deadline, o.cfg.fallbackReserve()))
	defer cancel()

	rec := fallback.NewRecord(recipient, snapshot, kind.String())
	_, err := async.Async(wctx, rec, func(ctx context.Context, rec fallback.Record) (struct{}, error) {
		return struct{}{}, o.journal.Append(ctx, rec)
	}).AwaitContext(wctx)
	if err != nil {
		o.logger.LogAttrs(ctx, slog.LevelError, "failed to store fallback record",
			logger.Recipient(recipient),
			logger.FailureKind(kind.String()),
			logger.Error(err),
		)
		return false
	}
	o.logger.LogAttrs(ctx, slog.LevelInfo, "stored fallback record",
		logger.Recipient(recipient),
		logger.FailureKind(kind.String()),
		slog.String("record_id", rec.ID),
	)
	return true
}

// fallbackDeadline is now+reserve capped at the delivery deadline.
func fallbackDeadline(now, deadline time.Time, reserve time.Duration) time.Time {
	if d := now.Add(reserve); d.Before(deadline) {
		return d
	}
	return deadline
}

func (o *Orchestrator) logOutcome(ctx context.Context, recipient string, out Outcome) {
	attrs := []slog.Attr{
		logger.Recipient(recipient),
		logger.FailureKind(out.FailureKind.String()),
		logger.Duration(out.Elapsed),
		slog.String("network_check", string(out.NetworkCheck)),
		slog.Bool("fallback_used", out.FallbackUsed),
	}
	if out.Success {
		o.logger.LogAttrs(ctx, slog.LevelInfo, "report delivered", append(attrs, logger.MessageID(out.MessageID))...)
		return
	}
	o.logger.LogAttrs(ctx, slog.LevelWarn, "report not delivered", append(attrs, logger.Error(out.Err))...)
}

// remaining returns the time left before ctx's deadline.
func remaining(ctx context.Context) time.Duration {
	if deadline, ok := ctx.Deadline(); ok {
		return max(time.Until(deadline), 0)
	}
	return time.Duration(1<<63 - 1)
}
