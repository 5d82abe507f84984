package config

import (
	"errors"
	"fmt"
)

// ErrInvalid matches every FieldError through errors.Is.
var ErrInvalid = errors.New("invalid configuration")

// FieldError reports one invalid configuration field.
type FieldError struct {
	Field   string // Dotted key, e.g. "pool.workers"
	Message string
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is reports whether target is ErrInvalid.
func (e *FieldError) Is(target error) bool {
	return target == ErrInvalid
}

func invalid(field, format string, args ...any) error {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}
