package incidents

import (
	"errors"
	"fmt"
)

// Repository errors.
var (
	ErrIncidentNotFound = errors.New("incident not found")
)

// ValidationError reports the first missing or invalid field of an input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func missingField(field string) *ValidationError {
	return &ValidationError{Field: field, Reason: "is required"}
}

func invalidField(field string) *ValidationError {
	return &ValidationError{Field: field, Reason: "has an invalid value"}
}
