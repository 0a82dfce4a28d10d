package http

import (
	"net/http"

	"github.com/wrale/webos-remote/internal/tvremoted/errors"
)

type HTTPError interface {
	error
	StatusCode() int
}

type httpError struct {
	msg  string
	code int
}

func (e *httpError) Error() string {
	return e.msg
}

func (e *httpError) StatusCode() int {
	return e.code
}

func ErrInvalidRequest(msg string) error {
	return &httpError{msg: msg, code: http.StatusBadRequest}
}

func ErrNotFound(msg string) error {
	return &httpError{msg: msg, code: http.StatusNotFound}
}

// errorResponse maps err to a status code and the message shown to the caller.
// Invalid input is a 400; device and link failures are a 500 carrying the
// underlying message.
func errorResponse(err error) (int, string) {
	if he, ok := err.(HTTPError); ok {
		return he.StatusCode(), he.Error()
	}
	if errors.IsBadRequest(err) {
		return http.StatusBadRequest, errors.Message(err)
	}
	return http.StatusInternalServerError, errors.Message(err)
}
