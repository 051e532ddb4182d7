package federation

import "time"

// RoundState is one phase of a client's participation in a round.
type RoundState string

const (
	RoundRegistered RoundState = "registered"
	RoundMining     RoundState = "mining"
	RoundSubmitting RoundState = "submitting"
	RoundAggregated RoundState = "aggregated"
	RoundFailed     RoundState = "failed"
)

// IsTerminal reports whether no further transitions are possible.
func (s RoundState) IsTerminal() bool {
	return s == RoundAggregated || s == RoundFailed
}

// RoundTransitions encodes which round state changes are legal.
type RoundTransitions struct {
	allowed map[RoundState][]RoundState
}

// DefaultRoundTransitions returns the canonical round lifecycle:
// registered -> mining -> submitting -> aggregated, with failure
// reachable from every non-terminal state. A new round loops an
// aggregated client back to mining via registered re-entry on the
// server side, so submitting -> mining is also legal.
func DefaultRoundTransitions() *RoundTransitions {
	return &RoundTransitions{
		allowed: map[RoundState][]RoundState{
			RoundRegistered: {RoundMining, RoundFailed},
			RoundMining:     {RoundSubmitting, RoundFailed},
			RoundSubmitting: {RoundAggregated, RoundMining, RoundFailed},
		},
	}
}

// CanTransition reports whether from -> to is a legal transition.
func (t *RoundTransitions) CanTransition(from, to RoundState) bool {
	for _, s := range t.allowed[from] {
		if s == to {
			return true
		}
	}
	return false
}

// TransitionRecord is one entry in a client's round history.
type TransitionRecord struct {
	From   RoundState
	To     RoundState
	Reason string
	At     time.Time
}
