package fallback

import (
	"time"

	"github.com/google/uuid"
)

// StatusStoredLocally marks a record that was journaled instead of delivered.
const StatusStoredLocally = "stored_locally"

// Record is one undelivered message. JSON field names are part of the
// journal format read by reconciliation tooling.
type Record struct {
	ID         string         `json:"id" yaml:"id"`
	Recipient  string         `json:"recipient" yaml:"recipient"`
	Payload    map[string]any `json:"payload" yaml:"payload"`
	CapturedAt time.Time      `json:"timestamp" yaml:"timestamp"`
	Status     string         `json:"status" yaml:"status"`
	Reason     string         `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// NewRecord builds a record captured now. payload must already be a snapshot
// the caller will not mutate.
func NewRecord(recipient string, payload map[string]any, reason string) Record {
	if payload == nil {
		payload = map[string]any{}
	}
	return Record{
		ID:         uuid.NewString(),
		Recipient:  recipient,
		Payload:    payload,
		CapturedAt: time.Now().UTC(),
		Status:     StatusStoredLocally,
		Reason:     reason,
	}
}
