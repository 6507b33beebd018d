package review

import "errors"

var (
	// ErrNoSuchSession is returned for operations on an unknown session ID.
	ErrNoSuchSession = errors.New("no such review session")

	// ErrSessionClosed is returned when an operation targets a session that
	// has already completed or been abandoned.
	ErrSessionClosed = errors.New("review session is already closed")

	// ErrStepMismatch is returned when a step payload does not match the
	// session's expected step and is not a resubmission of a completed one.
	ErrStepMismatch = errors.New("step does not match the session's current step")
)
