// Package errors provides standardized error handling for the remote gateway
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the device link and the command dispatcher
var (
	// ErrNotConnected indicates no live device session exists at call time
	ErrNotConnected = errors.New("tv not connected")

	// ErrDevice indicates a transport or protocol failure reported by the session
	ErrDevice = errors.New("device error")

	// ErrBadRequest indicates a malformed request payload
	ErrBadRequest = errors.New("bad request")

	// ErrInvalidAction indicates an action that cannot be resolved to a command.
	// It is reported as a server failure, not as bad input.
	ErrInvalidAction = errors.New("invalid action")

	// ErrUnsupportedAction indicates an unknown action type inside a sequence
	ErrUnsupportedAction = errors.New("unsupported action")
)

// Error represents a domain error with additional context
type Error struct {
	// Code is a machine-readable error code
	Code string
	// Message is a human-readable error description
	Message string
	// Op describes the operation that failed
	Op string
	// Err is the underlying error
	Err error
}

// Error implements the error interface with a formatted message
func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying error for error chain handling
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new Error with the given details
func NewError(code string, message string, op string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

// NotConnected builds the error returned when a command is attempted without a session
func NotConnected(op string) *Error {
	return NewError("NOT_CONNECTED", "TV not connected", op, ErrNotConnected)
}

// Device wraps a session failure as a device error
func Device(op string, message string) *Error {
	return NewError("DEVICE_ERROR", message, op, ErrDevice)
}

// BadRequest builds an invalid input error
func BadRequest(op string, message string) *Error {
	return NewError("BAD_REQUEST", message, op, ErrBadRequest)
}

// InvalidAction builds the error for an action missing the field it resolves from
func InvalidAction(op string, message string) *Error {
	return NewError("INVALID_ACTION", message, op, ErrInvalidAction)
}

// Unsupported builds the error recorded for an unknown sequence step type
func Unsupported(op string, actionType string) *Error {
	return NewError("UNSUPPORTED_ACTION", fmt.Sprintf("unsupported action type: %s", actionType), op, ErrUnsupportedAction)
}

// Message returns the human-readable part of err without the operation prefix
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsNotConnected returns true if err represents a missing device session
func IsNotConnected(err error) bool {
	return errors.Is(err, ErrNotConnected)
}

// IsDevice returns true if err represents a device failure
func IsDevice(err error) bool {
	return errors.Is(err, ErrDevice)
}

// IsBadRequest returns true if err represents an invalid input error
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest)
}

// IsInvalidAction returns true if err represents an unresolvable action
func IsInvalidAction(err error) bool {
	return errors.Is(err, ErrInvalidAction)
}

// IsUnsupportedAction returns true if err represents an unknown sequence step
func IsUnsupportedAction(err error) bool {
	return errors.Is(err, ErrUnsupportedAction)
}
