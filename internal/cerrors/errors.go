package cerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is an error carrying a stable code and the HTTP status it maps to.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e == nil {
		return "OK"
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithCause returns a shallow copy of e with Cause.
func (e *AppError) WithCause(err error) *AppError {
	if e == nil {
		return nil
	}
	c := *e
	c.Cause = err
	return &c
}

// WithMessage returns a shallow copy with an overridden message.
func (e *AppError) WithMessage(msg string, a ...any) *AppError {
	if e == nil {
		return nil
	}
	c := *e
	if len(a) > 0 {
		c.Message = fmt.Sprintf(msg, a...)
	} else {
		c.Message = msg
	}
	return &c
}

// asAppError finds the first *AppError in err's chain.
func asAppError(err error) (*AppError, bool) {
	var e *AppError
	if errors.As(err, &e) && e != nil {
		return e, true
	}
	return nil, false
}

// CodeOf returns the code of the first *AppError in err's chain.
func CodeOf(err error) string {
	if err == nil {
		return OK.Code
	}
	if e, ok := asAppError(err); ok {
		return e.Code
	}
	return "UNKNOWN"
}

// MessageOf prefers the message of the first *AppError in err's chain.
func MessageOf(err error) string {
	if err == nil {
		return OK.Message
	}
	if e, ok := asAppError(err); ok {
		if e.Message != "" {
			return e.Message
		}
		return e.Code
	}
	return err.Error()
}

// HTTPStatusOf maps err to a status: 200 for nil, 500 unless an *AppError says otherwise.
func HTTPStatusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if e, ok := asAppError(err); ok && e.HTTPStatus != 0 {
		return e.HTTPStatus
	}
	return http.StatusInternalServerError
}

// IsCode reports whether err is an *AppError with the given code.
func IsCode(err error, code string) bool {
	var e *AppError
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// def is a small constructor for sentinels.
func def(code, msg string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: msg, HTTPStatus: httpStatus}
}

var (
	OK = def("OK", "OK", http.StatusOK)
)

var (
	ErrGenericBadRequest      = def("400000", "bad request error", http.StatusBadRequest)
	ErrGenericUnknownAPIPath  = def("400004", "unknown api path", http.StatusNotFound)
	ErrGenericInternalServer  = def("500000", "internal server error", http.StatusInternalServerError)
	ErrGenericRequestTimedOut = def("500004", "request timeout error", http.StatusGatewayTimeout)
	ErrGenericUnavailable     = def("500006", "service unavailable", http.StatusServiceUnavailable)
)

var (
	ErrInvalidDashboard    = def("420000", "invalid dashboard configuration", http.StatusUnprocessableEntity)
	ErrUnknownChannel      = def("420001", "unknown channel", http.StatusNotFound)
	ErrMissingDefaultStyle = def("420002", "missing default style", http.StatusUnprocessableEntity)
	ErrInvalidScale        = def("420003", "invalid scale range", http.StatusUnprocessableEntity)
	ErrInvalidInterval     = def("420004", "invalid between interval", http.StatusUnprocessableEntity)
	ErrInvalidFormat       = def("420005", "invalid value format", http.StatusUnprocessableEntity)
	ErrInvalidChannelValue = def("420006", "invalid channel value", http.StatusBadRequest)
)

var (
	ErrNoFrameAvailable = def("430000", "no frame available yet", http.StatusServiceUnavailable)
	ErrPageOutOfRange   = def("430001", "page out of range", http.StatusNotFound)
)
