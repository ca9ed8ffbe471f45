package delivery

import "fmt"

// message returns the stable, user-facing text for an outcome.
func message(kind FailureKind, recipient string, fallbackUsed bool) string {
	if kind == FailureNone {
		return fmt.Sprintf("Prediction report sent successfully to %s! Check your inbox.", recipient)
	}

	var reason string
	switch kind {
	case FailureNotConfigured:
		reason = "Email delivery is not configured."
	case FailureNetworkUnavailable:
		reason = "The email server could not be reached. Check your internet connection."
	case FailureTimeout:
		reason = "Sending the email took too long and was stopped."
	case FailureTransportError:
		reason = "The email server rejected the message."
	default:
		reason = "The email could not be sent due to an unexpected error."
	}

	if fallbackUsed {
		return reason + " Your report has been saved locally and can be sent later."
	}
	return reason + " Your report could not be saved for later delivery."
}
