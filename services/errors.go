package services

import (
	"errors"
	"fmt"

	"speshway-platform/internal/database"
)

// ErrNotFound is returned when an id does not resolve, including malformed ids.
var ErrNotFound = database.ErrNotFound

// ValidationError reports bad or missing input. It maps to 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
