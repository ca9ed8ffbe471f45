package delivery

import "time"

// FailureKind classifies why a delivery did not succeed.
type FailureKind string

const (
	FailureNone               FailureKind = "none"
	FailureNotConfigured      FailureKind = "not_configured"
	FailureNetworkUnavailable FailureKind = "network_unavailable"
	FailureTimeout            FailureKind = "timeout"
	FailureTransportError     FailureKind = "transport_error"
	FailureUnknown            FailureKind = "unknown"
)

func (k FailureKind) String() string { return string(k) }

// NetworkCheck reports what the pre-flight probe concluded.
type NetworkCheck string

const (
	NetworkCheckSkipped                   NetworkCheck = "skipped"
	NetworkCheckPassed                    NetworkCheck = "passed"
	NetworkCheckFailed                    NetworkCheck = "failed"
	NetworkCheckPassedButFailedDuringSend NetworkCheck = "passed_but_failed_during_send"
)

// Outcome is the single result of Deliver.
//
// FailureKind is FailureNone exactly when Success is true. FallbackUsed is
// true exactly when the delivery failed and a fallback record was stored.
type Outcome struct {
	Success      bool          `json:"success"`
	Message      string        `json:"message"`
	FailureKind  FailureKind   `json:"failure_kind"`
	Elapsed      time.Duration `json:"elapsed"`
	FallbackUsed bool          `json:"fallback_used"`
	NetworkCheck NetworkCheck  `json:"network_check"`
	MessageID    string        `json:"message_id,omitempty"`
	Err          error         `json:"-"` // primary cause, for logs only
}
