package delivery

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/notifykit/pkg/logger"
)

// State is a step of a single delivery.
type State string

const (
	StateIdle        State = "idle"
	StateProbing     State = "probing"
	StateComposing   State = "composing"
	StateDispatching State = "dispatching"
	StateDelivered   State = "delivered"
	StateFallingBack State = "falling_back"
	StateDone        State = "done"
)

// transitions lists the legal moves. Idle may skip straight to FallingBack
// (not configured, malformed recipient) and Probing may too (unreachable).
var transitions = map[State][]State{
	StateIdle:        {StateProbing, StateComposing, StateFallingBack},
	StateProbing:     {StateComposing, StateFallingBack},
	StateComposing:   {StateDispatching},
	StateDispatching: {StateDelivered, StateFallingBack},
	StateDelivered:   {StateDone},
	StateFallingBack: {StateDone},
}

// tracker walks one delivery through its states and logs every transition.
// It is owned by a single Deliver call and is not safe for concurrent use.
type tracker struct {
	current   State
	recipient string
	logger    *slog.Logger
}

func newTracker(l *slog.Logger, recipient string) *tracker {
	return &tracker{current: StateIdle, recipient: recipient, logger: l}
}

// to moves to next. An illegal move is a programming error.
func (t *tracker) to(ctx context.Context, next State) {
	if !canTransition(t.current, next) {
		panic(fmt.Sprintf("delivery: illegal transition %s -> %s", t.current, next))
	}
	t.logger.LogAttrs(ctx, slog.LevelDebug, "delivery state changed",
		logger.Recipient(t.recipient),
		slog.String("from", string(t.current)),
		logger.State(string(next)),
	)
	t.current = next
}

func canTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
