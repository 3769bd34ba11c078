// Package apperrors defines the service error taxonomy. Services return these
// types (usually wrapped with fmt.Errorf and %w); handlers classify them with
// errors.As to pick an HTTP status. Anything unclassified is an internal
// error and surfaces as an opaque 500.
package apperrors

import "fmt"

// ValidationError marks bad or missing input, detected before any mutation.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NotFoundError marks a lookup of an unknown user, shop, product or order.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ForbiddenError marks an actor without the capability for an action.
type ForbiddenError struct {
	Msg string
}

func (e *ForbiddenError) Error() string { return e.Msg }

// ConflictError marks a precondition invalidated inside the transaction,
// such as insufficient stock at decrement time.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFound builds a NotFoundError for the named resource.
func NotFound(resource string, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// Forbiddenf builds a ForbiddenError from a format string.
func Forbiddenf(format string, args ...interface{}) error {
	return &ForbiddenError{Msg: fmt.Sprintf(format, args...)}
}

// Conflictf builds a ConflictError from a format string.
func Conflictf(format string, args ...interface{}) error {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}
