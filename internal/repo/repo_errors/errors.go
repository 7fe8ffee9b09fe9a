package repo_errors

import "errors"

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a status-guarded write matched no row: the
	// entity exists but is no longer in the state the caller expected.
	ErrConflict  = errors.New("conditional update lost")
	ErrDuplicate = errors.New("duplicate key")
)
