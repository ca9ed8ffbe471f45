package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/notifykit/pkg/logger"
)

// Check is a named dependency probe.
type Check struct {
	Name string
	Fn   func(context.Context) error
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// HealthCheckHandler serves liveness when no checks are given ("alive") and
// readiness otherwise: 200 "ready" when every check passes, 503 "not_ready"
// with per-check results when any fails. Each check gets timeout.
func HealthCheckHandler(log *slog.Logger, timeout time.Duration, checks ...Check) http.HandlerFunc {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Status: "alive"}
		status := http.StatusOK

		if len(checks) > 0 {
			resp.Status = "ready"
			resp.Checks = make(map[string]string, len(checks))
			for _, c := range checks {
				ctx, cancel := context.WithTimeout(r.Context(), timeout)
				err := c.Fn(ctx)
				cancel()
				if err != nil {
					log.LogAttrs(r.Context(), slog.LevelError, "readiness check failed",
						logger.Component(c.Name), logger.Error(err))
					resp.Checks[c.Name] = "failed"
					resp.Status = "not_ready"
					status = http.StatusServiceUnavailable
					continue
				}
				resp.Checks[c.Name] = "ok"
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
