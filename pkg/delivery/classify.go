package delivery

import (
	"context"
	"errors"

	"github.com/dmitrymomot/notifykit/pkg/async"
	"github.com/dmitrymomot/notifykit/pkg/email"
)

// Classify maps a dispatch error to a FailureKind. Transport class sentinels
// win; raw network errors are recognised for transports that do not wrap them.
func Classify(err error) FailureKind {
	switch {
	case err == nil:
		return FailureNone
	case errors.Is(err, async.ErrAbandoned),
		errors.Is(err, email.ErrTimeout),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return FailureTimeout
	case errors.Is(err, email.ErrConnection):
		return FailureNetworkUnavailable
	case errors.Is(err, email.ErrAuth),
		errors.Is(err, email.ErrProtocol),
		errors.Is(err, email.ErrInvalidParams),
		errors.Is(err, email.ErrFailedToSendEmail):
		return FailureTransportError
	case errors.Is(err, email.ErrInvalidConfig):
		return FailureNotConfigured
	case email.IsTimeoutError(err):
		return FailureTimeout
	case email.IsConnectionError(err):
		return FailureNetworkUnavailable
	default:
		return FailureUnknown
	}
}
