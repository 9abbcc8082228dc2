package ops

import (
	"errors"
	"fmt"
)

// Kind classifies a runner failure for the operator
type Kind string

const (
	UnknownOperation        Kind = "UnknownOperation"
	ConnectionFailure       Kind = "ConnectionFailure"
	PrerequisiteCheckFailed Kind = "PrerequisiteCheckFailed"
	AmbiguousState          Kind = "AmbiguousState"
	ExecutionFailed         Kind = "ExecutionFailed"
	DryRunProjectionFailed  Kind = "DryRunProjectionFailed"
)

// Error carries the failure classification plus enough context (operation id,
// target, underlying driver message) to diagnose without a rerun
type Error struct {
	Kind   Kind
	Op     string
	Target string
	Err    error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Op != "" {
		msg += fmt.Sprintf(": operation %q", e.Op)
	}
	if e.Target != "" {
		msg += fmt.Sprintf(" on %s", e.Target)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the classification of err, or the empty string when err is
// not a runner error
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
