package validation

import (
	"sort"
	"strings"
)

// NonFieldErrors is the details key for errors that concern the payload as a whole.
const NonFieldErrors = "non_field_errors"

// Error is a field-addressable validation failure.
type Error struct {
	Fields map[string][]string `json:"fields"`
}

func NewFieldError(field, msg string) *Error {
	return (&Error{}).Add(field, msg)
}

func NewNonFieldError(msg string) *Error {
	return (&Error{}).Add(NonFieldErrors, msg)
}

// Add appends msg under field and returns e for chaining.
func (e *Error) Add(field, msg string) *Error {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
	return e
}

// On returns the messages recorded for field.
func (e *Error) On(field string) []string {
	if e == nil {
		return nil
	}
	return e.Fields[field]
}

func (e *Error) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
