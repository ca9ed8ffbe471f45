package email

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
)

// Default per-stage bounds applied when a request leaves them unset.
const (
	DefaultConnectTimeout = 15 * time.Second
	DefaultSendTimeout    = 30 * time.Second
)

// Transport submits one fully formed message to one recipient.
//
// Implementations perform no retries. A call is attempted at most once; when
// the caller stops waiting (context done) the remote side effect may or may
// not have happened.
type Transport interface {
	Send(ctx context.Context, req SendRequest) (Ack, error)
}

// Credentials identify the sender towards the submission endpoint.
type Credentials struct {
	Address string // envelope and From address
	Secret  string // password, app password or API token
	Name    string // optional From display name
}

// Configured reports whether both the address and the secret are present.
func (c Credentials) Configured() bool {
	return strings.TrimSpace(c.Address) != "" && strings.TrimSpace(c.Secret) != ""
}

// LogValue keeps the secret out of log output.
func (c Credentials) LogValue() slog.Value {
	secret := ""
	if c.Secret != "" {
		secret = "[REDACTED]"
	}
	return slog.GroupValue(
		slog.String("address", c.Address),
		slog.String("name", c.Name),
		slog.String("secret", secret),
	)
}

// SendRequest is one submission attempt.
type SendRequest struct {
	To             string
	Subject        string
	BodyHTML       string
	BodyText       string // optional plain-text alternative
	Tag            string // optional provider tag for analytics
	Credentials    Credentials
	ConnectTimeout time.Duration // connect + TLS + auth
	SendTimeout    time.Duration // envelope + data submission
}

// Ack confirms the endpoint accepted the message.
type Ack struct {
	MessageID string
	Elapsed   time.Duration
}

// emailRegex is a shape check only; the endpoint has the final say.
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidAddress reports whether addr looks like a mailbox address.
func ValidAddress(addr string) bool {
	return emailRegex.MatchString(strings.TrimSpace(addr))
}

// Validate checks the request shape before any network I/O.
func (r SendRequest) Validate() error {
	switch {
	case strings.TrimSpace(r.To) == "":
		return fmt.Errorf("%w: To is required", ErrInvalidParams)
	case !ValidAddress(r.To):
		return fmt.Errorf("%w: To must be a valid email address", ErrInvalidParams)
	case strings.TrimSpace(r.Subject) == "":
		return fmt.Errorf("%w: Subject is required", ErrInvalidParams)
	case strings.TrimSpace(r.BodyHTML) == "":
		return fmt.Errorf("%w: BodyHTML is required", ErrInvalidParams)
	}
	return nil
}

func (r SendRequest) withDefaults() SendRequest {
	if r.ConnectTimeout <= 0 {
		r.ConnectTimeout = DefaultConnectTimeout
	}
	if r.SendTimeout <= 0 {
		r.SendTimeout = DefaultSendTimeout
	}
	return r
}
