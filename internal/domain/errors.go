package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies lifecycle failures for the request boundary.
type ErrorKind string

const (
	KindConflict   ErrorKind = "conflict"
	KindNotFound   ErrorKind = "not_found"
	KindValidation ErrorKind = "validation"
	KindInternal   ErrorKind = "internal"
)

// ConflictError is returned when an agent already has an ongoing break.
type ConflictError struct {
	AgentID   string
	SessionID string
}

func (e *ConflictError) Error() string {
	if e.SessionID != "" {
		return fmt.Sprintf("agent %s is already on a break (session %s)", e.AgentID, e.SessionID)
	}
	return fmt.Sprintf("agent %s is already on a break", e.AgentID)
}

func (e *ConflictError) Kind() ErrorKind { return KindConflict }

// NotFoundError is returned when an agent ends a break without having one.
type NotFoundError struct {
	AgentID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("agent %s has no ongoing break", e.AgentID)
}

func (e *NotFoundError) Kind() ErrorKind { return KindNotFound }

// ValidationError reports an unknown reference or a malformed field.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Kind() ErrorKind { return KindValidation }

// KindOf walks the error chain and returns the first taxonomy kind found,
// or KindInternal for anything else.
func KindOf(err error) ErrorKind {
	var k interface{ Kind() ErrorKind }
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindInternal
}
