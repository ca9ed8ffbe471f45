package email

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/mrz1836/postmark"
)

// Postmark error codes that mean the sender itself is not accepted.
// https://postmarkapp.com/developer/api/overview#error-codes
var postmarkAuthCodes = map[int64]bool{
	10:  true, // bad or missing server token
	400: true, // sender signature not found
	401: true, // sender signature not confirmed
	412: true, // account pending approval
}

// PostmarkTransport submits messages through the Postmark HTTP API.
// The request credentials' Secret is used as the server token.
type PostmarkTransport struct {
	config PostmarkConfig
}

// NewPostmarkTransport creates a Postmark-backed transport.
func NewPostmarkTransport(cfg PostmarkConfig) (*PostmarkTransport, error) {
	if cfg.AccountToken == "" {
		return nil, fmt.Errorf("%w: PostmarkAccountToken is required", ErrInvalidConfig)
	}
	if cfg.ReplyTo != "" && !ValidAddress(cfg.ReplyTo) {
		return nil, fmt.Errorf("%w: ReplyTo must be a valid email address", ErrInvalidConfig)
	}
	return &PostmarkTransport{config: cfg}, nil
}

// MustNewPostmarkTransport creates a Postmark transport that panics on invalid config.
func MustNewPostmarkTransport(cfg PostmarkConfig) *PostmarkTransport {
	t, err := NewPostmarkTransport(cfg)
	if err != nil {
		panic(err)
	}
	return t
}

// Send implements Transport. Tracking covers opens and HTML link clicks only.
func (p *PostmarkTransport) Send(ctx context.Context, req SendRequest) (Ack, error) {
	if err := req.Validate(); err != nil {
		return Ack{}, err
	}
	if !req.Credentials.Configured() {
		return Ack{}, fmt.Errorf("%w: sender credentials are required", ErrInvalidParams)
	}
	req = req.withDefaults()
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, req.ConnectTimeout+req.SendTimeout)
	defer cancel()

	tr := &http.Transport{
		DialContext:         (&net.Dialer{Timeout: req.ConnectTimeout}).DialContext,
		TLSHandshakeTimeout: req.ConnectTimeout,
		IdleConnTimeout:     req.SendTimeout,
	}
	defer tr.CloseIdleConnections()

	client := postmark.NewClient(req.Credentials.Secret, p.config.AccountToken)
	client.HTTPClient = &http.Client{Transport: tr}
	if p.config.BaseURL != "" {
		client.BaseURL = strings.TrimRight(p.config.BaseURL, "/")
	}

	from := req.Credentials.Address
	if req.Credentials.Name != "" {
		from = fmt.Sprintf("%s <%s>", req.Credentials.Name, req.Credentials.Address)
	}

	resp, err := client.SendEmail(ctx, postmark.Email{
		From:       from,
		ReplyTo:    p.config.ReplyTo,
		To:         strings.TrimSpace(req.To),
		Subject:    req.Subject,
		Tag:        req.Tag,
		HTMLBody:   req.BodyHTML,
		TextBody:   req.BodyText,
		TrackOpens: true,
		TrackLinks: "HtmlOnly",
	})
	if code, msg, ok := postmarkRejection(resp, err); ok {
		cause := fmt.Errorf("postmark error: %d - %s", code, msg)
		if postmarkAuthCodes[code] {
			return Ack{}, errors.Join(ErrAuth, cause)
		}
		return Ack{}, errors.Join(ErrProtocol, cause)
	}
	if err != nil {
		return Ack{}, classify(ctx, stageSend, err, ErrProtocol)
	}
	return Ack{MessageID: resp.MessageID, Elapsed: time.Since(start)}, nil
}

// postmarkRejection extracts the API error code. The client reports it either
// as an APIError (HTTP 4xx/5xx) or through the response body of a 200.
func postmarkRejection(resp postmark.EmailResponse, err error) (int64, string, bool) {
	if resp.ErrorCode != 0 {
		return resp.ErrorCode, resp.Message, true
	}
	var apiErr postmark.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode != 0 {
		return apiErr.ErrorCode, apiErr.Message, true
	}
	return 0, "", false
}
