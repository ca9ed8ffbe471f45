// Package delivery sends a prediction report to one recipient within a fixed
// time budget and never loses it silently.
//
// A delivery walks these states:
//
//	Idle -> Probing -> Composing -> Dispatching -> Delivered -> Done
//	                                    |
//	Idle / Probing / Dispatching -> FallingBack -> Done
//
// Missing credentials and malformed recipients go straight from Idle to
// FallingBack. The optional probe short-circuits to FallingBack when the
// endpoint is unreachable. Dispatch runs on its own goroutine and is abandoned,
// not awaited, once the budget runs out.
//
// Deliver always returns an Outcome. Failures are classified into a small
// taxonomy (see FailureKind) and the undelivered message is appended to a
// fallback.Journal. A journal failure is logged and reported through
// FallbackUsed; it never replaces the original failure kind.
//
//	orch := delivery.New(transport, journal,
//	    delivery.WithCredentials(sender.Credentials()),
//	    delivery.WithProber(probe.New(), "smtp.gmail.com", 587),
//	    delivery.WithConfig(cfg),
//	)
//	out := orch.Deliver(ctx, "patient@example.com", payload)
//	if !out.Success {
//	    log.Printf("%s (%s)", out.Message, out.FailureKind)
//	}
package delivery
