// Package errors provides the error helpers used throughout biomage. Errors
// are wrapped with short context strings as they propagate up the stack, so
// that the final message reads like a trace of what was being attempted:
//
//	pull experiment: update config "mock_experiment.json": get item: ...
package errors

import (
	goerrors "errors"
	"fmt"
)

// FriendlyError is implemented by errors whose message is meant to be shown
// to the operator as-is, without the context trace.
type FriendlyError interface {
	error
	FriendlyMessage() string
}

type baseError struct {
	msg string
}

func (err baseError) Error() string {
	return err.msg
}

// New returns an error with the given message.
func New(msg string) error {
	return baseError{msg}
}

type contextError struct {
	context string
	cause   error
}

func (err contextError) Error() string {
	return fmt.Sprintf("%s: %s", err.context, err.cause)
}

func (err contextError) Unwrap() error {
	return err.cause
}

// WithContext wraps `err` with a description of what was being done when it
// occurred. It returns nil if `err` is nil.
func WithContext(err error, context string) error {
	if err == nil {
		return nil
	}
	return contextError{context: context, cause: err}
}

type friendlyError struct {
	format string
	args   []interface{}
}

func (err friendlyError) Error() string {
	return err.FriendlyMessage()
}

func (err friendlyError) FriendlyMessage() string {
	return fmt.Sprintf(err.format, err.args...)
}

// NewFriendlyError creates an error whose message is printed directly to the
// operator.
func NewFriendlyError(format string, args ...interface{}) error {
	return friendlyError{format: format, args: args}
}

// RootCause returns the innermost error wrapped by WithContext.
func RootCause(err error) error {
	for {
		ctxErr, ok := err.(contextError)
		if !ok {
			return err
		}
		err = ctxErr.cause
	}
}

// GetPrintableMessage returns the message that should be shown to the
// operator for `err`. Friendly errors anywhere in the chain take precedence
// over the full context trace.
func GetPrintableMessage(err error) string {
	var friendly FriendlyError
	if goerrors.As(err, &friendly) {
		return friendly.FriendlyMessage()
	}
	return err.Error()
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return goerrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return goerrors.As(err, target)
}
