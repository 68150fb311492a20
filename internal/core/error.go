// FILE: internal/core/error.go
package core

import "errors"

// Error codes
const (
	ErrCodeUnknownCommand = "UNKNOWN_COMMAND"
	ErrCodeReentrant      = "REENTRANT_COMMAND"
	ErrCodeReleased       = "ENGINE_RELEASED"
	ErrCodeInvalidInput   = "INVALID_INPUT"
	ErrCodeInvalidFEN     = "INVALID_FEN"
	ErrCodeEngine         = "ENGINE_ERROR"
	ErrCodeNotFound       = "SESSION_NOT_FOUND"
	ErrCodeInternal       = "INTERNAL_ERROR"
)

// Error carries a machine readable code alongside the message
type Error struct {
	Code string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same code
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// NewError builds an *Error, wrapping cause if non-nil
func NewError(code, msg string, cause error) *Error {
	return &Error{Code: code, Msg: msg, Err: cause}
}

var (
	ErrUnknownCommand   = &Error{Code: ErrCodeUnknownCommand, Msg: "unknown command"}
	ErrReentrantCommand = &Error{Code: ErrCodeReentrant, Msg: "command issued while another is in flight"}
	ErrReleased         = &Error{Code: ErrCodeReleased, Msg: "engine already released"}
	ErrInvalidInput     = &Error{Code: ErrCodeInvalidInput, Msg: "invalid input"}
	ErrInvalidFEN       = &Error{Code: ErrCodeInvalidFEN, Msg: "invalid FEN"}
	ErrSessionNotFound  = &Error{Code: ErrCodeNotFound, Msg: "session not found"}
)

// Code extracts the code from err, or ErrCodeInternal for foreign errors
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeInternal
}
