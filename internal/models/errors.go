package models

import "errors"

// Sentinel errors shared across repositories and services. Repositories map
// driver-level failures onto these so handlers can pick a status code without
// knowing anything about MongoDB.
var (
	// ErrNotFound means the referenced document does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable means the store could not be reached or the operation
	// failed transiently. Callers may retry.
	ErrUnavailable = errors.New("store unavailable")

	// ErrDuplicate means a unique index rejected the insert. For read
	// records and completions this is not a failure, the row already exists.
	ErrDuplicate = errors.New("duplicate record")
)
