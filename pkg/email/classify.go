package email

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/textproto"
	"os"
	"syscall"
)

// Transport stages, used in error messages and logs.
const (
	stageConnect = "connect"
	stageTLS     = "tls"
	stageAuth    = "auth"
	stageSend    = "send"
)

// IsTimeoutError reports whether err is a deadline or I/O timeout.
func IsTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// IsConnectionError reports whether err means the endpoint could not be
// reached or dropped the connection: DNS failure, refused, reset,
// unreachable network or host, unexpected EOF.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	for _, errno := range []syscall.Errno{
		syscall.ECONNREFUSED,
		syscall.ECONNRESET,
		syscall.ECONNABORTED,
		syscall.ENETUNREACH,
		syscall.EHOSTUNREACH,
		syscall.ENETDOWN,
		syscall.EPIPE,
	} {
		if errors.Is(err, errno) {
			return true
		}
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// classify wraps a raw transport error with exactly one failure class.
// fallback is used when the error is neither a timeout nor a connectivity problem.
func classify(ctx context.Context, stage string, err error, fallback error) error {
	wrapped := fmt.Errorf("%s: %w", stage, err)
	switch {
	case ctx.Err() != nil:
		return errors.Join(ErrTimeout, ctx.Err(), wrapped)
	case IsTimeoutError(err):
		return errors.Join(ErrTimeout, wrapped)
	case isServerReply(err):
		return errors.Join(fallback, wrapped)
	case IsConnectionError(err):
		return errors.Join(ErrConnection, wrapped)
	default:
		return errors.Join(fallback, wrapped)
	}
}

// isServerReply reports whether err is an SMTP status line from the server.
func isServerReply(err error) bool {
	var tpErr *textproto.Error
	return errors.As(err, &tpErr)
}
