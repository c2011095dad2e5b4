package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when a shipment id or tracking code is unknown,
	// or when access scoping hides the record from the caller.
	ErrNotFound = errors.New("shipment not found")
	// ErrCodeConflict is returned when a tracking code is already in use.
	ErrCodeConflict = errors.New("tracking code already in use")
	// ErrForbidden is returned when a write requires administrative capability.
	ErrForbidden = errors.New("administrator capability required")
	// ErrUpdateConflict is returned when concurrent writes to one shipment
	// keep invalidating the optimistic version check.
	ErrUpdateConflict = errors.New("shipment update conflict")
)

// ValidationError carries per-field messages for malformed input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsValidationError unwraps err into a ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
