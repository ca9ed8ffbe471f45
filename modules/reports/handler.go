package reports

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/notifykit/pkg/delivery"
	"github.com/dmitrymomot/notifykit/pkg/fallback"
	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/ratelimiter"
	"github.com/dmitrymomot/notifykit/pkg/report"
)

const maxBodyBytes = 1 << 20

// SendRequest is the body of POST /send-prediction-email.
type SendRequest struct {
	Email       string         `json:"email"`
	Prediction  map[string]any `json:"prediction"`
	PatientData map[string]any `json:"patient_data"`
}

// Payload flattens the patient attributes and nests the prediction under
// "prediction", the shape the report composer reads.
func (r SendRequest) Payload() report.Payload {
	p := make(report.Payload, len(r.PatientData)+1)
	for k, v := range r.PatientData {
		p[k] = v
	}
	if r.Prediction != nil {
		p["prediction"] = r.Prediction
	} else {
		p["prediction"] = map[string]any{}
	}
	return p
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type handler struct {
	deliverer Deliverer
	journal   fallback.Journal
	limiter   *ratelimiter.Bucket
	log       *slog.Logger
}

// sendPredictionEmail always answers with an Outcome once the body is valid:
// 200 when delivered, 202 when the report was kept for later, 503 otherwise.
func (h *handler) sendPredictionEmail(w http.ResponseWriter, r *http.Request) {
	var req SendRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Message: "request body is too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "request body must be a JSON object"})
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "email is required"})
		return
	}

	if !h.allowRecipient(w, r, req.Email) {
		return
	}

	out := h.deliverer.Deliver(r.Context(), req.Email, req.Payload())

	status := http.StatusOK
	switch {
	case out.Success:
	case out.FallbackUsed:
		status = http.StatusAccepted
	default:
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, out)
}

// allowRecipient caps how many reports one address can receive. Limiter
// failures let the delivery proceed.
func (h *handler) allowRecipient(w http.ResponseWriter, r *http.Request, recipient string) bool {
	if h.limiter == nil {
		return true
	}
	res, err := h.limiter.Allow(r.Context(), "recipient:"+strings.ToLower(recipient))
	if err != nil {
		h.log.LogAttrs(r.Context(), slog.LevelWarn, "recipient limiter unavailable", logger.Error(err))
		return true
	}
	ratelimiter.SetHeaders(w, res, h.limiter)
	if !res.Allowed {
		h.log.LogAttrs(r.Context(), slog.LevelInfo, "recipient rate limited", logger.Recipient(recipient))
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Message: "too many reports for this recipient, try again later"})
		return false
	}
	return true
}

// listRecords exports the fallback journal; ?format=yaml switches encoding.
func (h *handler) listRecords(w http.ResponseWriter, r *http.Request) {
	format, err := fallback.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := fallback.Export(r.Context(), h.journal, &buf, format); err != nil {
		h.log.LogAttrs(r.Context(), slog.LevelError, "fallback export failed", logger.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "fallback records are unavailable"})
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

var _ Deliverer = (*delivery.Orchestrator)(nil)
