package probe

import (
	"context"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/dmitrymomot/notifykit/pkg/logger"
)

// DefaultTimeout bounds a probe when the caller passes a non-positive timeout.
const DefaultTimeout = 5 * time.Second

// Resolver resolves a host name to addresses. *net.Resolver satisfies it.
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// Dialer opens a network connection. *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Prober performs an advisory reachability check: name resolution followed
// by a TCP connect to the first resolved address.
//
// A true result does not guarantee the subsequent dispatch will succeed.
// A false result is a strong hint that the network is unusable right now.
type Prober struct {
	resolver Resolver
	dialer   Dialer
	logger   *slog.Logger
}

// Option configures a Prober.
type Option func(*Prober)

// WithResolver replaces the name resolver, mostly for tests.
func WithResolver(r Resolver) Option {
	return func(p *Prober) {
		if r != nil {
			p.resolver = r
		}
	}
}

// WithDialer replaces the TCP dialer, mostly for tests.
func WithDialer(d Dialer) Option {
	return func(p *Prober) {
		if d != nil {
			p.dialer = d
		}
	}
}

// WithLogger sets the logger for probe diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(p *Prober) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates a Prober backed by the system resolver and a plain net.Dialer.
func New(opts ...Option) *Prober {
	p := &Prober{
		resolver: net.DefaultResolver,
		dialer:   &net.Dialer{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe reports whether host:port accepted a TCP connection within timeout.
// Resolution and connect share the same bound. No error ever escapes.
func (p *Prober) Probe(ctx context.Context, host string, port int, timeout time.Duration) bool {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	log := p.logger.With(logger.Component("probe"), logger.Endpoint(host, port))

	addrs, err := p.resolver.LookupHost(ctx, host)
	if err != nil || len(addrs) == 0 {
		log.LogAttrs(ctx, slog.LevelWarn, "name resolution failed",
			logger.Duration(time.Since(start)),
			logger.Error(err),
		)
		return false
	}

	conn, err := p.dialer.DialContext(ctx, "tcp", net.JoinHostPort(addrs[0], strconv.Itoa(port)))
	if err != nil {
		log.LogAttrs(ctx, slog.LevelWarn, "connect probe failed",
			slog.String("address", addrs[0]),
			logger.Duration(time.Since(start)),
			logger.Error(err),
		)
		return false
	}
	_ = conn.Close()

	log.LogAttrs(ctx, slog.LevelDebug, "endpoint reachable", logger.Duration(time.Since(start)))
	return true
}
