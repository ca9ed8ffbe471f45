package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wneessen/go-mail"

	"github.com/dmitrymomot/notifykit/pkg/logger"
)

// DefaultMailer is the X-Mailer header value.
const DefaultMailer = "notifykit"

// Dialer opens the raw TCP connection to the endpoint.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// SMTPTransport submits messages over SMTP with STARTTLS or implicit TLS
// and PLAIN authentication. Each Send opens its own session.
type SMTPTransport struct {
	host        string
	port        int
	implicitTLS bool
	tlsPolicy   string
	tlsConfig   *tls.Config
	localName   string
	mailer      string
	dialer      Dialer
	logger      *slog.Logger
}

// SMTPOption configures an SMTPTransport.
type SMTPOption func(*SMTPTransport)

// WithDialer replaces the TCP dialer.
func WithDialer(d Dialer) SMTPOption {
	return func(t *SMTPTransport) {
		if d != nil {
			t.dialer = d
		}
	}
}

// WithLogger sets the logger for stage failures.
func WithLogger(l *slog.Logger) SMTPOption {
	return func(t *SMTPTransport) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithMailer sets the X-Mailer header value.
func WithMailer(name string) SMTPOption {
	return func(t *SMTPTransport) {
		if name != "" {
			t.mailer = name
		}
	}
}

// WithTLSConfig overrides the TLS client configuration.
func WithTLSConfig(cfg *tls.Config) SMTPOption {
	return func(t *SMTPTransport) {
		if cfg != nil {
			t.tlsConfig = cfg
		}
	}
}

// NewSMTPTransport validates cfg and builds an SMTP transport.
func NewSMTPTransport(cfg SMTPConfig, opts ...SMTPOption) (*SMTPTransport, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, fmt.Errorf("%w: SMTP host is required", ErrInvalidConfig)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("%w: SMTP port %d is out of range", ErrInvalidConfig, cfg.Port)
	}
	policy := cfg.TLSPolicy
	if policy == "" {
		policy = TLSMandatory
	}
	if policy != TLSMandatory && policy != TLSOpportunistic {
		return nil, fmt.Errorf("%w: unknown TLS policy %q", ErrInvalidConfig, cfg.TLSPolicy)
	}
	localName := cfg.LocalName
	if localName == "" {
		localName = "localhost"
	}

	t := &SMTPTransport{
		host:        cfg.Host,
		port:        cfg.Port,
		implicitTLS: cfg.ImplicitTLS,
		tlsPolicy:   policy,
		tlsConfig: &tls.Config{
			ServerName:         cfg.Host,
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: cfg.InsecureSkipVerify,
		},
		localName: localName,
		mailer:    DefaultMailer,
		dialer:    &net.Dialer{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// MustNewSMTPTransport is like NewSMTPTransport but panics on invalid config.
func MustNewSMTPTransport(cfg SMTPConfig, opts ...SMTPOption) *SMTPTransport {
	t, err := NewSMTPTransport(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// Send performs one SMTP session: connect, TLS, authenticate, submit.
// Connect through auth is bounded by req.ConnectTimeout, the envelope and
// data by req.SendTimeout, and every stage is aborted when ctx ends.
func (t *SMTPTransport) Send(ctx context.Context, req SendRequest) (Ack, error) {
	if err := req.Validate(); err != nil {
		return Ack{}, err
	}
	if !req.Credentials.Configured() {
		return Ack{}, fmt.Errorf("%w: sender credentials are required", ErrInvalidParams)
	}
	req = req.withDefaults()
	start := time.Now()

	msg, msgID, err := t.buildMessage(req)
	if err != nil {
		return Ack{}, err
	}

	addr := net.JoinHostPort(t.host, strconv.Itoa(t.port))

	connectCtx, cancel := context.WithTimeout(ctx, req.ConnectTimeout)
	defer cancel()

	conn, err := t.dialer.DialContext(connectCtx, "tcp", addr)
	if err != nil {
		return Ack{}, t.fail(ctx, stageConnect, classify(ctx, stageConnect, err, ErrConnection))
	}
	guard := &deadlineGuard{conn: conn}
	stop := context.AfterFunc(ctx, guard.abort)
	defer stop()
	defer conn.Close()

	if err := guard.set(deadlineOf(connectCtx, req.ConnectTimeout)); err != nil {
		return Ack{}, t.fail(ctx, stageConnect, classify(ctx, stageConnect, err, ErrConnection))
	}

	var sessionConn net.Conn = conn
	if t.implicitTLS {
		tlsConn := tls.Client(conn, t.tlsConfig)
		if err := tlsConn.HandshakeContext(connectCtx); err != nil {
			return Ack{}, t.fail(ctx, stageTLS, classify(ctx, stageTLS, err, ErrProtocol))
		}
		sessionConn = tlsConn
	}

	client, err := smtp.NewClient(sessionConn, t.host)
	if err != nil {
		return Ack{}, t.fail(ctx, stageConnect, classify(ctx, stageConnect, err, ErrProtocol))
	}
	defer client.Close()

	if err := client.Hello(t.localName); err != nil {
		return Ack{}, t.fail(ctx, stageConnect, classify(ctx, stageConnect, err, ErrProtocol))
	}

	if !t.implicitTLS {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(t.tlsConfig); err != nil {
				return Ack{}, t.fail(ctx, stageTLS, classify(ctx, stageTLS, err, ErrProtocol))
			}
		} else if t.tlsPolicy == TLSMandatory {
			return Ack{}, t.fail(ctx, stageTLS,
				fmt.Errorf("%w: %s: server does not offer STARTTLS", ErrProtocol, stageTLS))
		}
	}

	auth := smtp.PlainAuth("", req.Credentials.Address, req.Credentials.Secret, t.host)
	if err := client.Auth(auth); err != nil {
		return Ack{}, t.fail(ctx, stageAuth, classify(ctx, stageAuth, err, ErrAuth))
	}

	if err := guard.set(deadlineOf(ctx, req.SendTimeout)); err != nil {
		return Ack{}, t.fail(ctx, stageSend, classify(ctx, stageSend, err, ErrProtocol))
	}
	if err := t.submit(client, req, msg); err != nil {
		return Ack{}, t.fail(ctx, stageSend, classify(ctx, stageSend, err, ErrProtocol))
	}

	// The message is accepted once DATA completes; a failed QUIT changes nothing.
	_ = client.Quit()

	return Ack{MessageID: msgID, Elapsed: time.Since(start)}, nil
}

func (t *SMTPTransport) submit(client *smtp.Client, req SendRequest, msg *mail.Msg) error {
	if err := client.Mail(req.Credentials.Address); err != nil {
		return err
	}
	if err := client.Rcpt(strings.TrimSpace(req.To)); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := msg.WriteTo(w); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// buildMessage renders the MIME message and returns it with its Message-ID.
func (t *SMTPTransport) buildMessage(req SendRequest) (*mail.Msg, string, error) {
	msg := mail.NewMsg()

	from := req.Credentials.Address
	if req.Credentials.Name != "" {
		if err := msg.FromFormat(req.Credentials.Name, from); err != nil {
			return nil, "", fmt.Errorf("%w: invalid sender: %v", ErrInvalidParams, err)
		}
	} else if err := msg.From(from); err != nil {
		return nil, "", fmt.Errorf("%w: invalid sender: %v", ErrInvalidParams, err)
	}
	if err := msg.To(strings.TrimSpace(req.To)); err != nil {
		return nil, "", fmt.Errorf("%w: invalid recipient: %v", ErrInvalidParams, err)
	}
	msg.Subject(req.Subject)
	msg.SetDate()

	msgID := fmt.Sprintf("<%s@%s>", uuid.NewString(), domainOf(from))
	msg.SetGenHeader(mail.HeaderMessageID, msgID)
	msg.SetGenHeader(mail.HeaderXMailer, t.mailer)

	if req.BodyText != "" {
		msg.SetBodyString(mail.TypeTextPlain, req.BodyText)
		msg.AddAlternativeString(mail.TypeTextHTML, req.BodyHTML)
	} else {
		msg.SetBodyString(mail.TypeTextHTML, req.BodyHTML)
	}
	return msg, msgID, nil
}

func (t *SMTPTransport) fail(ctx context.Context, stage string, err error) error {
	t.logger.LogAttrs(ctx, slog.LevelWarn, "smtp stage failed",
		logger.Component("smtp"),
		logger.Stage(stage),
		logger.Endpoint(t.host, t.port),
		logger.Error(err),
	)
	return err
}

func domainOf(addr string) string {
	if i := strings.LastIndexByte(addr, '@'); i >= 0 && i < len(addr)-1 {
		return addr[i+1:]
	}
	return "localhost"
}

// deadlineOf returns now+d capped by the context deadline.
func deadlineOf(ctx context.Context, d time.Duration) time.Time {
	deadline := time.Now().Add(d)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		return ctxDeadline
	}
	return deadline
}

// deadlineGuard serialises deadline updates with cancellation so a stage
// deadline can never revive a connection the context already aborted.
type deadlineGuard struct {
	mu      sync.Mutex
	conn    net.Conn
	aborted bool
}

func (g *deadlineGuard) abort() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.aborted = true
	_ = g.conn.SetDeadline(time.Unix(1, 0))
}

func (g *deadlineGuard) set(t time.Time) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.aborted {
		return context.Canceled
	}
	return g.conn.SetDeadline(t)
}
