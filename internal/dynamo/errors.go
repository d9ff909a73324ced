package dynamo

import "errors"

var (
	// ErrNotFound is returned when a single-item read misses.
	ErrNotFound = errors.New("item not found")

	// ErrMissingField is returned when a required field is missing or empty.
	ErrMissingField = errors.New("required field missing")
)
