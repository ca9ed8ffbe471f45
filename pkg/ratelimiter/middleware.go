package ratelimiter

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dmitrymomot/notifykit/pkg/clientip"
	"github.com/dmitrymomot/notifykit/pkg/logger"
)

// KeyFunc extracts the limit key from a request. An empty key skips limiting.
type KeyFunc func(r *http.Request) string

// ByClientIP keys requests by the resolved client address.
func ByClientIP(r *http.Request) string {
	if ip := clientip.GetIP(r); ip != "" {
		return "ip:" + ip
	}
	return ""
}

// SetHeaders writes the X-RateLimit-* headers and, when denied, Retry-After.
func SetHeaders(w http.ResponseWriter, res Result, b *Bucket) {
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(max(0, res.Remaining)))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))
	if !res.Allowed {
		secs := int((res.RetryAfter(b.Now()) + 999_999_999) / 1_000_000_000)
		h.Set("Retry-After", strconv.Itoa(max(1, secs)))
	}
}

// Middleware rejects requests over the limit with 429. A store failure lets
// the request through: losing the limiter must not stop deliveries.
func Middleware(b *Bucket, key KeyFunc, log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			if k == "" {
				next.ServeHTTP(w, r)
				return
			}

			res, err := b.Allow(r.Context(), k)
			if err != nil {
				log.LogAttrs(r.Context(), slog.LevelWarn, "rate limiter unavailable", logger.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			SetHeaders(w, res, b)
			if !res.Allowed {
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
