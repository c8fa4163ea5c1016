package repositories

import "errors"

// Sentinel errors shared by every repository. Handlers map these onto HTTP
// statuses; anything else is treated as an internal failure.
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record conflict")

	// ErrTokenMismatch reports that a refresh-token compare-and-swap saw a
	// different stored value, i.e. the presented token has been superseded.
	ErrTokenMismatch = errors.New("refresh token mismatch")
)
