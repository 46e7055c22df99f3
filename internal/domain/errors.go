package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, end before begin).
// Handlers should map this to HTTP 400 with a field-error body.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when a write would violate a uniqueness rule,
// e.g. creating a tag whose key already exists on the same status, or
// processing an event suggestion twice.
// Handlers should map this to HTTP 400.
var ErrConflict = errors.New("already exists")

// ErrForbidden is returned when the acting user is not authorized to perform
// the operation on the subject resource.
// Handlers should map this to HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrStationNotFound is returned when the external station lookup yields no
// candidates for a station name. It is a soft, user-correctable failure,
// not a system fault — handlers map it to HTTP 400, never 5xx.
var ErrStationNotFound = errors.New("station not found")

// FieldErrors carries per-field validation messages from the service layer
// to the HTTP boundary. It wraps ErrValidation, so errors.Is(err,
// ErrValidation) holds for any FieldErrors value.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e[f]))
	}
	return "validation error: " + strings.Join(parts, "; ")
}

// Unwrap makes errors.Is(e, ErrValidation) true.
func (e FieldErrors) Unwrap() error { return ErrValidation }
