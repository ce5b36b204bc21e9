package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an update or delete targets a row that
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEngineNotReady is returned when the database engine failed to
	// initialize. Operations wrapping this error are fatal: the store is
	// unusable and there is no retry.
	ErrEngineNotReady = errors.New("database engine not initialized")
)

// ValidationError reports a business-rule violation detected while
// constructing an entity. It is always recoverable: fix the input and retry.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

// IsValidation returns true if the error is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
