// Package domainerrors defines the error taxonomy shared across gate
// services. Callers branch on codes, never on error strings.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a failure for retry and reporting decisions.
type Code string

const (
	// CodeTransient marks a platform query failure: retryable, or treated
	// as "not yet true" by polling callers.
	CodeTransient Code = "transient"
	// CodePrecondition marks a user-side prerequisite not met; terminal for
	// the current attempt, the user must retry manually.
	CodePrecondition Code = "precondition"
	// CodeEmptyResult marks an unusable platform response, such as an empty
	// invite link.
	CodeEmptyResult Code = "empty_result"
	// CodePermission marks missing bot rights; reported to the operator,
	// never auto-remedied.
	CodePermission Code = "permission"
	// CodeInternal is the fallback for everything else.
	CodeInternal Code = "internal"
)

// Error carries a code alongside a message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a coded error without a cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap builds a coded error around a cause.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf extracts the code from err, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// IsTransient reports whether err is a normalized platform query failure.
func IsTransient(err error) bool { return CodeOf(err) == CodeTransient }

// IsPrecondition reports whether err is an unmet user prerequisite.
func IsPrecondition(err error) bool { return CodeOf(err) == CodePrecondition }
