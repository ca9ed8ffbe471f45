package probe_test

import (
	"context"
	"errors"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/probe"
)

type stubResolver struct {
	addrs []string
	err   error
}

func (r stubResolver) LookupHost(ctx context.Context, host string) ([]string, error) {
	return r.addrs, r.err
}

type blockingDialer struct{}

func (blockingDialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func listen(t *testing.T) (string, int) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			_ = conn.Close()
		}
	}()

	host, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	p, err := strconv.Atoi(port)
	require.NoError(t, err)
	return host, p
}

func TestProbe_Reachable(t *testing.T) {
	t.Parallel()

	host, port := listen(t)
	p := probe.New()

	assert.True(t, p.Probe(context.Background(), host, port, time.Second))
}

func TestProbe_ConnectionRefused(t *testing.T) {
	t.Parallel()

	// Grab a free port and release it so nothing is listening there.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	p := probe.New()
	assert.False(t, p.Probe(context.Background(), "127.0.0.1", port, time.Second))
}

func TestProbe_ResolutionFailure(t *testing.T) {
	t.Parallel()

	dnsErr := &net.DNSError{Err: "no such host", Name: "smtp.invalid", IsNotFound: true}
	p := probe.New(
		probe.WithResolver(stubResolver{err: dnsErr}),
		probe.WithDialer(blockingDialer{}),
	)

	start := time.Now()
	assert.False(t, p.Probe(context.Background(), "smtp.invalid", 587, time.Second))
	assert.Less(t, time.Since(start), 500*time.Millisecond, "resolution failure must short-circuit the connect")
}

func TestProbe_EmptyResolution(t *testing.T) {
	t.Parallel()

	p := probe.New(probe.WithResolver(stubResolver{}))
	assert.False(t, p.Probe(context.Background(), "smtp.example.com", 587, time.Second))
}

func TestProbe_ConnectTimeout(t *testing.T) {
	t.Parallel()

	p := probe.New(
		probe.WithResolver(stubResolver{addrs: []string{"192.0.2.1"}}),
		probe.WithDialer(blockingDialer{}),
	)

	start := time.Now()
	ok := p.Probe(context.Background(), "smtp.example.com", 587, 50*time.Millisecond)
	elapsed := time.Since(start)

	assert.False(t, ok)
	assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
	assert.Less(t, elapsed, time.Second)
}

func TestProbe_ParentContextCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := probe.New(
		probe.WithResolver(stubResolver{err: errors.New("should not matter")}),
	)
	assert.False(t, p.Probe(ctx, "smtp.example.com", 587, time.Second))
}
