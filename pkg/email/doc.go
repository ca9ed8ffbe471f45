// Package email submits transactional messages through a pluggable Transport.
//
// Three transports are provided:
//   - SMTPTransport talks SMTP directly (STARTTLS or implicit TLS, PLAIN auth)
//     and builds the MIME message with go-mail
//   - PostmarkTransport uses the Postmark HTTP API
//   - DevTransport writes HTML and JSON files to disk for local development
//
// Every call is a single attempt. Credentials travel with each SendRequest so
// one transport can serve many senders.
//
// # Errors
//
// Failures wrap exactly one class sentinel so callers can branch with errors.Is:
//
//	ErrTimeout     a connect, auth or send bound elapsed, or ctx ended
//	ErrConnection  DNS, refused, reset or unreachable
//	ErrAuth        the endpoint rejected the credentials
//	ErrProtocol    the endpoint rejected the envelope, data or TLS negotiation
//
// ErrInvalidParams and ErrInvalidConfig are returned before any I/O happens.
//
// # Usage
//
//	t, err := email.NewSMTPTransport(email.SMTPConfig{Host: "smtp.gmail.com", Port: 587})
//	if err != nil {
//	    return err
//	}
//	ack, err := t.Send(ctx, email.SendRequest{
//	    To:          "patient@example.com",
//	    Subject:     subject,
//	    BodyHTML:    html,
//	    BodyText:    text,
//	    Credentials: email.Credentials{Address: from, Secret: appPassword},
//	})
//	switch {
//	case errors.Is(err, email.ErrTimeout):
//	    // maybe delivered, maybe not
//	case err != nil:
//	    // not delivered
//	}
package email
