package errutil

import (
	"errors"
	"fmt"
	"net/http"
)

const msgInternalServerError = "Internal server error"

type HttpError struct {
	Code int
	Msg  string
	Err  error
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *HttpError) Unwrap() error {
	return e.Err
}

func newHttpError(code int, msg string, err error) error {
	return &HttpError{
		Code: code,
		Msg:  msg,
		Err:  err,
	}
}

func BadRequestError(err error) error {
	return newHttpError(http.StatusBadRequest, err.Error(), err)
}

// ValidationError reports a request that failed field validation.
// The message is the validator's reason, which is safe to return to clients.
func ValidationError(err error) error {
	return newHttpError(http.StatusBadRequest, err.Error(), err)
}

func NotFoundError(err error) error {
	return newHttpError(http.StatusNotFound, err.Error(), err)
}

// InternalError hides err behind msg. Only msg reaches the client.
func InternalError(msg string, err error) error {
	return newHttpError(http.StatusInternalServerError, msg, err)
}

// UpstreamError relays the status code and detail of a third-party API
// rejection as-is.
func UpstreamError(code int, detail string) error {
	return newHttpError(code, detail, nil)
}

func ParseHttpError(err error) (int, string) {
	if err == nil {
		return http.StatusOK, ""
	}

	var httpErr *HttpError
	if errors.As(err, &httpErr) {
		return httpErr.Code, httpErr.Msg
	}

	return http.StatusInternalServerError, msgInternalServerError
}
