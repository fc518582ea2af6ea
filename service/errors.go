package service

import (
	"errors"
	"fmt"

	"github.com/tnqbao/charcoal-cms/repository"
)

type Code string

const (
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeBadRequest   Code = "BAD_REQUEST"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInternal     Code = "INTERNAL_SERVER_ERROR"
)

// ErrNameTaken is wrapped by every uniqueness failure (media names, slugs, page paths).
var ErrNameTaken = errors.New("name already taken")

// Error is the failure returned across the service boundary.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Unauthorized(message string) *Error {
	return &Error{Code: CodeUnauthorized, Message: message}
}

func BadRequest(message string) *Error {
	return &Error{Code: CodeBadRequest, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

func Internal(message string, err error) *Error {
	return &Error{Code: CodeInternal, Message: message, Err: err}
}

func nameTaken(label, name string) *Error {
	return &Error{Code: CodeBadRequest, Message: fmt.Sprintf("%s %q is already taken", label, name), Err: ErrNameTaken}
}

// CodeOf reports the taxonomy code of err. Unknown errors are internal.
func CodeOf(err error) Code {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Code
	}
	return CodeInternal
}

// MessageOf returns the caller-safe message of err.
func MessageOf(err error) string {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Message
	}
	return "internal server error"
}

func notFoundOr(err error, notFoundMessage, internalMessage string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return NotFound(notFoundMessage)
	}
	return Internal(internalMessage, err)
}
