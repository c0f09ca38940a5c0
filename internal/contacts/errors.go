package contacts

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
)

// ValidationError reports a field value rejected at construction
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NotFoundError reports a missing item inside a record, e.g. a phone to edit
type NotFoundError struct {
	Kind  string
	Value string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.Value)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}
