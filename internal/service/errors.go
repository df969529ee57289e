package service

import (
	"errors"
	"sort"
	"strings"
)

// Error kinds surfaced to callers. Handlers map them to HTTP statuses.
var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("authentication credentials were not provided")
	ErrInvalidToken       = errors.New("invalid token")
	ErrForbidden          = errors.New("you may only modify your own records")
	ErrNotFound           = errors.New("not found")
)

// ValidationError describes rejected input. It matches ErrValidation with errors.Is.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func newValidationError(message string, fields map[string]string) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}
