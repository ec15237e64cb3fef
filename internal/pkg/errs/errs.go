// Package errs provides the standardized error types used throughout the
// matching and delivery engine.
//
// Every error kind follows the same pattern:
//   - a sentinel error variable (e.g. ErrObjectNotFound) usable with errors.Is
//   - a struct type carrying the error details and an optional Cause
//   - constructor functions with and without cause
//   - Error() for formatting and Unwrap() returning the sentinel
//
// The kinds map onto the behavioral contract of the engine: validation
// failures (required / invalid / out of range), missing objects, actors
// without permission, and state machine edges that are not in the allowed
// transition table. Domain-specific kinds (duplicate application, duplicate
// rating, confirmation failures) live next to their aggregates.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValueIsRequired is the sentinel for missing required values.
	ErrValueIsRequired = errors.New("value is required")
	// ErrValueIsInvalid is the sentinel for malformed values.
	ErrValueIsInvalid = errors.New("value is invalid")
	// ErrValueIsOutOfRange is the sentinel for values outside their allowed bounds.
	ErrValueIsOutOfRange = errors.New("value is out of range")
	// ErrObjectNotFound is the sentinel for lookups of unknown identifiers.
	ErrObjectNotFound = errors.New("object not found")
	// ErrForbidden is the sentinel for actors acting on resources they do not own.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidStateTransition is the sentinel for state machine edges that are
	// not in the allowed transition table.
	ErrInvalidStateTransition = errors.New("invalid state transition")
)

// sanitize collapses newlines so multi-line values cannot break log lines.
func sanitize(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "\r", " ")
}

// ValueIsRequiredError indicates that a required parameter was not provided.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

// NewValueIsRequiredError creates a ValueIsRequiredError for the given parameter.
func NewValueIsRequiredError(paramName string) ValueIsRequiredError {
	return ValueIsRequiredError{ParamName: paramName}
}

// NewValueIsRequiredErrorWithCause creates a ValueIsRequiredError wrapping a cause.
func NewValueIsRequiredErrorWithCause(paramName string, cause error) ValueIsRequiredError {
	return ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsRequired, sanitize(e.ParamName), e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsRequired, sanitize(e.ParamName))
}

func (e ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// ValueIsInvalidError indicates that a provided value is malformed.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewValueIsInvalidError creates a ValueIsInvalidError for the given parameter.
func NewValueIsInvalidError(paramName string) ValueIsInvalidError {
	return ValueIsInvalidError{ParamName: paramName}
}

// NewValueIsInvalidErrorWithCause creates a ValueIsInvalidError wrapping a cause.
func NewValueIsInvalidErrorWithCause(paramName string, cause error) ValueIsInvalidError {
	return ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsInvalid, sanitize(e.ParamName), e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, sanitize(e.ParamName))
}

func (e ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError indicates that a value lies outside its allowed bounds.
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

// NewValueIsOutOfRangeError creates a ValueIsOutOfRangeError with the offending
// value and its inclusive bounds.
func NewValueIsOutOfRangeError(paramName string, value, min, max any) ValueIsOutOfRangeError {
	return ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: min, Max: max}
}

// NewValueIsOutOfRangeErrorWithCause creates a ValueIsOutOfRangeError wrapping a cause.
func NewValueIsOutOfRangeErrorWithCause(paramName string, value, min, max any, cause error) ValueIsOutOfRangeError {
	return ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: min, Max: max, Cause: cause}
}

func (e ValueIsOutOfRangeError) Error() string {
	msg := fmt.Sprintf("%s: %s is %s, min value is %v, max value is %v",
		ErrValueIsOutOfRange, sanitize(e.ParamName), sanitize(fmt.Sprintf("%v", e.Value)), e.Min, e.Max)
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %s)", msg, e.Cause)
	}
	return msg
}

func (e ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ObjectNotFoundError indicates that no object exists for the given identifier.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

// NewObjectNotFoundError creates an ObjectNotFoundError for the given identifier.
func NewObjectNotFoundError(paramName string, id any) ObjectNotFoundError {
	return ObjectNotFoundError{ParamName: paramName, ID: id}
}

// NewObjectNotFoundErrorWithCause creates an ObjectNotFoundError wrapping a cause.
func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) ObjectNotFoundError {
	return ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %s)", ErrObjectNotFound, e.ParamName, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, e.ID)
}

func (e ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ForbiddenError indicates that the acting party is neither the owning
// requester, the assigned courier, nor an admin for the targeted resource.
type ForbiddenError struct {
	ActorID string
	Action  string
	Cause   error
}

// NewForbiddenError creates a ForbiddenError for an actor attempting an action.
func NewForbiddenError(actorID, action string) ForbiddenError {
	return ForbiddenError{ActorID: actorID, Action: action}
}

// NewForbiddenErrorWithCause creates a ForbiddenError wrapping a cause.
func NewForbiddenErrorWithCause(actorID, action string, cause error) ForbiddenError {
	return ForbiddenError{ActorID: actorID, Action: action, Cause: cause}
}

func (e ForbiddenError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s may not %s (cause: %s)", ErrForbidden, sanitize(e.ActorID), sanitize(e.Action), e.Cause)
	}
	return fmt.Sprintf("%s: %s may not %s", ErrForbidden, sanitize(e.ActorID), sanitize(e.Action))
}

func (e ForbiddenError) Unwrap() error {
	return ErrForbidden
}

// InvalidStateTransitionError indicates an attempted status edge that is not
// in the entity's allowed transition table.
type InvalidStateTransitionError struct {
	Entity string
	From   string
	To     string
	Cause  error
}

// NewInvalidStateTransitionError creates an InvalidStateTransitionError for the
// disallowed edge From -> To on the named entity.
func NewInvalidStateTransitionError(entity, from, to string) InvalidStateTransitionError {
	return InvalidStateTransitionError{Entity: entity, From: from, To: to}
}

// NewInvalidStateTransitionErrorWithCause creates an InvalidStateTransitionError wrapping a cause.
func NewInvalidStateTransitionErrorWithCause(entity, from, to string, cause error) InvalidStateTransitionError {
	return InvalidStateTransitionError{Entity: entity, From: from, To: to, Cause: cause}
}

func (e InvalidStateTransitionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s cannot go from %s to %s (cause: %s)",
			ErrInvalidStateTransition, sanitize(e.Entity), sanitize(e.From), sanitize(e.To), e.Cause)
	}
	return fmt.Sprintf("%s: %s cannot go from %s to %s",
		ErrInvalidStateTransition, sanitize(e.Entity), sanitize(e.From), sanitize(e.To))
}

func (e InvalidStateTransitionError) Unwrap() error {
	return ErrInvalidStateTransition
}
