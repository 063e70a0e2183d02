package store

import "errors"

var (
	// ErrStoreUnavailable indicates the durable store could not be reached
	// or rejected the operation.
	ErrStoreUnavailable = errors.New("store: unavailable")

	// ErrNotFound indicates no object exists for the requested day.
	ErrNotFound = errors.New("store: not found")

	// ErrInvalidConfig indicates a backend was configured incorrectly.
	ErrInvalidConfig = errors.New("store: invalid config")
)
