package federation

import "errors"

var (
	// ErrUnknownSession indicates a submission with a session the
	// server never issued or already closed.
	ErrUnknownSession = errors.New("unknown session")

	// ErrClientExists indicates a registration with an ID already in use.
	ErrClientExists = errors.New("client already registered")

	// ErrDuplicateSubmission indicates a client submitted twice for the
	// same round.
	ErrDuplicateSubmission = errors.New("duplicate submission for round")

	// ErrRoundNotReady indicates aggregation of a round with no
	// submissions.
	ErrRoundNotReady = errors.New("no submissions for round")

	// ErrNoGlobalResult indicates no round has been aggregated yet.
	ErrNoGlobalResult = errors.New("no global result available")
)
