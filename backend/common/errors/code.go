package errors

import (
	"errors"
	"net/http"
)

const (
	ErrInternalServer = "ERR_INTERNAL_SERVER"
	ErrUnauthorized   = "ERR_UNAUTHORIZED"
)

// 文件相关错误码
const (
	ErrMissingField  = "ERR_MISSING_FIELD"
	ErrInvalidType   = "ERR_INVALID_TYPE"
	ErrInvalidParent = "ERR_INVALID_PARENT"
	ErrNotFound      = "ERR_NOT_FOUND"
)

// Error is the typed failure returned across the service boundary. Msg is
// safe to show to clients; Err is the underlying cause and is only logged.
type Error struct {
	Code string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Code == ErrInternalServer {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(code string, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

func Wrap(err error, code string, msg string) *Error {
	return &Error{Code: code, Msg: msg, Err: err}
}

func Unauthorized() *Error {
	return New(ErrUnauthorized, "Unauthorized")
}

// MissingField reports an absent required field, e.g. "Missing name".
func MissingField(field string) *Error {
	return New(ErrMissingField, "Missing "+field)
}

func NotFound() *Error {
	return New(ErrNotFound, "Not found")
}

func Internal(err error) *Error {
	return Wrap(err, ErrInternalServer, "Internal server error")
}

// IsErrorCode reports whether err carries the given code.
func IsErrorCode(err error, code string) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// HTTPStatus maps an error to the response status. Untyped errors are
// treated as internal.
func HTTPStatus(err error) int {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Code {
	case ErrUnauthorized:
		return http.StatusUnauthorized
	case ErrMissingField, ErrInvalidType, ErrInvalidParent:
		return http.StatusBadRequest
	case ErrNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the text a client may see for err.
func PublicMessage(err error) string {
	var appErr *Error
	if !errors.As(err, &appErr) || appErr.Code == ErrInternalServer {
		return "Internal server error"
	}
	return appErr.Msg
}
