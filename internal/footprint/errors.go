package footprint

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is matched (errors.Is) by every *InvalidInputError.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError names the field that failed to parse or validate.
// No partial result is produced when it is returned.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

// Is lets callers test with errors.Is(err, ErrInvalidInput).
func (e *InvalidInputError) Is(target error) bool { return target == ErrInvalidInput }

func invalid(field, reason string) error {
	return &InvalidInputError{Field: field, Reason: reason}
}
