// Package apperr defines the error taxonomy shared by services and handlers.
// Each failure mode is a distinct sentinel checked with errors.Is, so handlers
// can map errors to status codes without string matching.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation - malformed or missing required input. No state is mutated.
	ErrValidation = errors.New("validation error")

	// ErrUnauthorized - missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden - actor lacks ownership or the required role.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound - referenced entry, player, or scope has no stored record.
	ErrNotFound = errors.New("not found")

	// ErrConsistency - a ranking or scoring pass hit an unexpected state.
	// Fatal to the current operation; the transaction must roll back.
	ErrConsistency = errors.New("consistency error")
)

// Error ties a sentinel to a human-readable message.
type Error struct {
	Kind    error
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the sentinel and, when present, the wrapped cause, so both
// participate in errors.Is and errors.As chains.
func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// Validation builds a validation error with a caller-visible message.
func Validation(message string) error {
	return &Error{Kind: ErrValidation, Message: message}
}

// Unauthorized builds an authentication error.
func Unauthorized(message string) error {
	return &Error{Kind: ErrUnauthorized, Message: message}
}

// Forbidden builds an authorization error.
func Forbidden(message string) error {
	return &Error{Kind: ErrForbidden, Message: message}
}

// NotFound builds a missing-record error.
func NotFound(message string) error {
	return &Error{Kind: ErrNotFound, Message: message}
}

// Consistency wraps an unexpected-state error encountered mid-operation.
func Consistency(message string, err error) error {
	return &Error{Kind: ErrConsistency, Message: message, Err: err}
}
