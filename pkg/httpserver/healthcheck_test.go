package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/httpserver"
)

type healthBody struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func serveHealth(t *testing.T, h http.HandlerFunc) (int, healthBody) {
	t.Helper()
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	var body healthBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	return rec.Code, body
}

func TestHealthCheckHandler_Liveness(t *testing.T) {
	t.Parallel()

	code, body := serveHealth(t, httpserver.HealthCheckHandler(nil, time.Second))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "alive", body.Status)
	assert.Empty(t, body.Checks)
}

func TestHealthCheckHandler_Readiness(t *testing.T) {
	t.Parallel()

	ok := httpserver.Check{Name: "journal", Fn: func(context.Context) error { return nil }}
	bad := httpserver.Check{Name: "redis", Fn: func(context.Context) error { return errors.New("connection refused") }}
	slow := httpserver.Check{Name: "postgres", Fn: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}}

	code, body := serveHealth(t, httpserver.HealthCheckHandler(nil, time.Second, ok))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ready", body.Status)
	assert.Equal(t, map[string]string{"journal": "ok"}, body.Checks)

	code, body = serveHealth(t, httpserver.HealthCheckHandler(nil, 20*time.Millisecond, ok, bad, slow))
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "not_ready", body.Status)
	assert.Equal(t, map[string]string{"journal": "ok", "redis": "failed", "postgres": "failed"}, body.Checks)
}
