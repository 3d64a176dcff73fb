package repository

import "errors"

var (
	// ErrNotFound indicates the requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrOngoingExists indicates the user already has an ONGOING session
	// and the one-ongoing index rejected the insert.
	ErrOngoingExists = errors.New("ongoing session already exists")

	// ErrAlreadyEnded indicates an update tried to end a session twice.
	ErrAlreadyEnded = errors.New("session already ended")
)
