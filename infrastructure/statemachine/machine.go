// Package statemachine provides the statekit integration for the
// federation round lifecycle.
package statemachine

import (
	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/upgrowth/domain/federation"
)

// Context carries round state through the state machine.
type Context struct {
	Session     *federation.Session
	Current     federation.RoundState
	Transitions *federation.RoundTransitions
	History     []federation.TransitionRecord
}

// NewContext creates a new machine context for a session.
func NewContext(session *federation.Session) *Context {
	return &Context{
		Session:     session,
		Current:     federation.RoundRegistered,
		Transitions: federation.DefaultRoundTransitions(),
	}
}

// State IDs as StateID type for statekit.
const (
	stateRegistered statekit.StateID = statekit.StateID(federation.RoundRegistered)
	stateMining     statekit.StateID = statekit.StateID(federation.RoundMining)
	stateSubmitting statekit.StateID = statekit.StateID(federation.RoundSubmitting)
	stateAggregated statekit.StateID = statekit.StateID(federation.RoundAggregated)
	stateFailed     statekit.StateID = statekit.StateID(federation.RoundFailed)
)

// NewRoundMachine creates the canonical round lifecycle statechart.
func NewRoundMachine() (*statekit.MachineConfig[*Context], error) {
	return statekit.NewMachine[*Context]("round").
		WithInitial(stateRegistered).
		WithContext(&Context{}).
		// Register actions
		WithAction("markEntered", markEntered).
		WithAction("recordTransition", recordTransition).
		// Register guards
		WithGuard("canTransition", guardCanTransition).
		// Define states
		State(stateRegistered).
			OnEntry("markEntered").
			On("MINE").Target(stateMining).Guard("canTransition").Do("recordTransition").
			On("FAIL").Target(stateFailed).Do("recordTransition").
			Done().
		State(stateMining).
			OnEntry("markEntered").
			On("SUBMIT").Target(stateSubmitting).Guard("canTransition").Do("recordTransition").
			On("FAIL").Target(stateFailed).Do("recordTransition").
			Done().
		State(stateSubmitting).
			OnEntry("markEntered").
			On("AGGREGATE").Target(stateAggregated).Guard("canTransition").Do("recordTransition").
			On("MINE").Target(stateMining).Guard("canTransition").Do("recordTransition"). // next round
			On("FAIL").Target(stateFailed).Do("recordTransition").
			Done().
		State(stateAggregated).
			Final().
			OnEntry("markEntered").
			Done().
		State(stateFailed).
			Final().
			OnEntry("markEntered").
			Done().
		Build()
}

// EventForTransition returns the event type for a round state transition.
func EventForTransition(to federation.RoundState) statekit.EventType {
	switch to {
	case federation.RoundMining:
		return "MINE"
	case federation.RoundSubmitting:
		return "SUBMIT"
	case federation.RoundAggregated:
		return "AGGREGATE"
	case federation.RoundFailed:
		return "FAIL"
	default:
		return statekit.EventType(to)
	}
}

// StateFromMachine converts the machine state ID to a round state.
func StateFromMachine(stateID statekit.StateID) federation.RoundState {
	return federation.RoundState(stateID)
}
