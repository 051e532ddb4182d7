package statemachine

import (
	"time"

	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/upgrowth/domain/federation"
)

// markEntered updates the current state when a state is entered.
// In statekit, actions receive a pointer to the context. Since our context is *Context,
// actions receive **Context.
func markEntered(ctx **Context, event statekit.Event) {
	if ctx == nil || *ctx == nil {
		return
	}

	c := *ctx

	var newState federation.RoundState
	if payload, ok := event.Payload.(TransitionPayload); ok {
		newState = payload.ToState
	} else {
		newState = stateFromEventType(event.Type)
	}

	if newState != "" {
		c.Current = newState
	}
}

// recordTransition appends the transition to the round history.
func recordTransition(ctx **Context, event statekit.Event) {
	if ctx == nil || *ctx == nil {
		return
	}

	c := *ctx
	fromState := c.Current

	var toState federation.RoundState
	var reason string
	if payload, ok := event.Payload.(TransitionPayload); ok {
		toState = payload.ToState
		reason = payload.Reason
	} else {
		toState = stateFromEventType(event.Type)
	}

	c.History = append(c.History, federation.TransitionRecord{
		From:   fromState,
		To:     toState,
		Reason: reason,
		At:     time.Now(),
	})

	// A submitting -> mining transition starts the next round.
	if fromState == federation.RoundSubmitting && toState == federation.RoundMining && c.Session != nil {
		c.Session.Round++
	}

	c.Current = toState
}
