package service

import (
	"errors"
	"fmt"
)

// ErrNoItems is returned by StudentInfo when a user has no memory
// items at all, so callers can emit the empty-state sentinel instead
// of an empty payload.
var ErrNoItems = errors.New("no memory items found")

// ValidationError reports a client-supplied value rejected before any
// write took place. The invalid value is always named.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func invalid(field, value, reason string) error {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}
