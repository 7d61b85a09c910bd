// Package services defines the business logic for authentication, tickets,
// and interactions. This file centralizes common service-level error values
// so that they can be consistently returned by service methods and checked
// by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler/controller layer.
package services

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrInvalidCredentials is returned by Login when the email is unknown
	// or the password does not match. The two cases are deliberately not
	// distinguished.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrForbidden indicates the acting user is authenticated but not
	// permitted to perform the requested mutation.
	ErrForbidden = errors.New("forbidden")

	// ErrTicketNotFound indicates that the requested ticket does not exist.
	ErrTicketNotFound = errors.New("ticket not found")

	// ErrInteractionNotFound indicates that the requested interaction does
	// not exist.
	ErrInteractionNotFound = errors.New("interaction not found")
)

// ValidationError carries per-field validation messages collected before any
// store mutation. Handlers map it to HTTP 422 with the field map attached.
type ValidationError struct {
	Fields map[string][]string
}

// Error implements the error interface: a deterministic summary of the
// violated fields, sorted for stable output.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString("validation failed: ")
	for i, k := range keys {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Fields[k], ", "))
	}
	return b.String()
}

// newValidation builds an empty ValidationError ready for add().
func newValidation() *ValidationError {
	return &ValidationError{Fields: map[string][]string{}}
}

// add appends a message for a field.
func (e *ValidationError) add(field, msg string) {
	e.Fields[field] = append(e.Fields[field], msg)
}

// orNil returns the error when at least one field failed, nil otherwise.
func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// AsValidation unwraps err into a *ValidationError, or nil when err is of a
// different kind.
func AsValidation(err error) *ValidationError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}
