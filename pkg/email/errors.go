package email

import "errors"

var (
	ErrFailedToSendEmail = errors.New("mailer.errors.failed_to_send_email")
	ErrInvalidConfig     = errors.New("mailer.errors.invalid_config")
	ErrInvalidParams     = errors.New("mailer.errors.invalid_params")

	// Failure classes. Every transport failure wraps exactly one of these.
	ErrTimeout    = errors.New("mailer.errors.timeout")
	ErrConnection = errors.New("mailer.errors.connection_failed")
	ErrAuth       = errors.New("mailer.errors.auth_rejected")
	ErrProtocol   = errors.New("mailer.errors.protocol_rejected")
)
