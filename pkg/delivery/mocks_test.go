package delivery_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/notifykit/pkg/email"
	"github.com/dmitrymomot/notifykit/pkg/fallback"
)

type mockTransport struct {
	mock.Mock
}

func (m *mockTransport) Send(ctx context.Context, req email.SendRequest) (email.Ack, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(email.Ack), args.Error(1)
}

type mockProber struct {
	mock.Mock
}

func (m *mockProber) Probe(ctx context.Context, host string, port int, timeout time.Duration) bool {
	return m.Called(ctx, host, port, timeout).Bool(0)
}

type mockJournal struct {
	mock.Mock
}

func (m *mockJournal) Append(ctx context.Context, rec fallback.Record) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *mockJournal) List(ctx context.Context) ([]fallback.Record, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fallback.Record), args.Error(1)
}

// funcTransport adapts a function for cases where mock bookkeeping gets in the way.
type funcTransport func(ctx context.Context, req email.SendRequest) (email.Ack, error)

func (f funcTransport) Send(ctx context.Context, req email.SendRequest) (email.Ack, error) {
	return f(ctx, req)
}
