package repository

import "errors"

var (
	// ErrSessionAlreadyOpen is returned by CreateSession when an active or
	// paused session already exists.
	ErrSessionAlreadyOpen = errors.New("a review session is already open")

	// ErrVersionConflict is returned when an update carries a stale version.
	ErrVersionConflict = errors.New("session was modified concurrently")
)
