package errdef

import "errors"

// Sentinels for the engine's validation/availability failures. Callers match
// with errors.Is; handlers map them onto HTTP statuses.
var (
	// ErrNotFound means the referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrOutOfRange means an index is invalid for the current array length.
	ErrOutOfRange = errors.New("index out of range")
	// ErrUnsupported means the operation is not valid for this content type.
	ErrUnsupported = errors.New("unsupported operation")
	// ErrUnavailable means dependent data is missing for an otherwise-valid
	// entity (e.g. an image row without stored bytes).
	ErrUnavailable = errors.New("dependent data unavailable")
	// ErrTimeout means an external call exceeded its budget.
	ErrTimeout = errors.New("external call timed out")
	// ErrMalformedAction marks a tool invocation with missing or mistyped
	// required fields. It is dropped from the batch, never raised to callers.
	ErrMalformedAction = errors.New("malformed action")
)
