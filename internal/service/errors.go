package service

import (
	"errors"
	"fmt"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// ValidationError is a field-level request failure, surfaced as 422.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
