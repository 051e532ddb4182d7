package statemachine

import (
	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/upgrowth/domain/federation"
)

// guardCanTransition checks if the transition is legal for the round
// lifecycle. In statekit, guards receive the context by value. Since our
// context is *Context, the guard receives *Context directly.
func guardCanTransition(ctx *Context, event statekit.Event) bool {
	if ctx == nil || ctx.Transitions == nil {
		return false
	}

	fromState := ctx.Current

	var toState federation.RoundState
	if payload, ok := event.Payload.(TransitionPayload); ok {
		toState = payload.ToState
	} else {
		toState = stateFromEventType(event.Type)
	}

	return ctx.Transitions.CanTransition(fromState, toState)
}

// stateFromEventType derives the target state from an event type.
func stateFromEventType(eventType statekit.EventType) federation.RoundState {
	switch eventType {
	case "MINE":
		return federation.RoundMining
	case "SUBMIT":
		return federation.RoundSubmitting
	case "AGGREGATE":
		return federation.RoundAggregated
	case "FAIL":
		return federation.RoundFailed
	default:
		return federation.RoundState(eventType)
	}
}
