// Package apperror is the error taxonomy shared by the business and HTTP layers.
// Every error that reaches the HTTP boundary is converted into an *Error.
package apperror

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindAuth
	KindForbidden
	KindNotFound
	KindUpstream
)

// Sentinels wrapped by domain errors so the boundary can classify them.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)

type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Kind == KindUnexpected {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(message string, err error) *Error {
	return &Error{Kind: KindValidation, Status: http.StatusBadRequest, Message: message, Err: err}
}

func Auth(message string, err error) *Error {
	return &Error{Kind: KindAuth, Status: http.StatusUnauthorized, Message: message, Err: err}
}

func Forbidden(message string, err error) *Error {
	return &Error{Kind: KindForbidden, Status: http.StatusForbidden, Message: message, Err: err}
}

func NotFound(message string, err error) *Error {
	return &Error{Kind: KindNotFound, Status: http.StatusNotFound, Message: message, Err: err}
}

// Upstream reports a failure of a third-party service with the status derived
// from the upstream reason.
func Upstream(status int, message string, err error) *Error {
	if status == 0 {
		status = http.StatusBadGateway
	}
	return &Error{Kind: KindUpstream, Status: status, Message: message, Err: err}
}

func Unexpected(err error) *Error {
	return &Error{Kind: KindUnexpected, Status: http.StatusInternalServerError, Message: "internal server error", Err: err}
}

// From converts any error into an *Error. Unknown errors become Unexpected.
func From(err error) *Error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return NotFound(err.Error(), err)
	case errors.Is(err, ErrUnauthorized):
		return Auth(err.Error(), err)
	}

	return Unexpected(err)
}

// PublicMessage is the message safe to send to clients.
func (e *Error) PublicMessage() string {
	if e.Kind == KindUnexpected {
		return "internal server error"
	}
	return e.Message
}
