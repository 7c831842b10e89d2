package repository

import "errors"

var (
	// ErrNotFound is returned when no row matches, including rows that exist
	// but are owned by a different user.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when an insert hits a uniqueness constraint.
	ErrConflict = errors.New("conflict")
)
