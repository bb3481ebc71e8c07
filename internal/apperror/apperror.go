package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Error struct {
	Code       string
	Message    string
	StatusCode int
	Internal   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Internal
}

// Kinds of failure an image operation can report. Operations return copies
// carrying a specific message; compare with Is, never by pointer.
var (
	ErrMissingParameter = &Error{
		Code:       "missing_parameter",
		Message:    "A required parameter is missing",
		StatusCode: http.StatusBadRequest,
	}

	ErrInvalidPath = &Error{
		Code:       "invalid_path",
		Message:    "The path is not a file, not a directory or not writable",
		StatusCode: http.StatusUnprocessableEntity,
	}

	ErrUnsupportedFormat = &Error{
		Code:       "unsupported_format",
		Message:    "The file must be a jpg, gif or png image",
		StatusCode: http.StatusUnsupportedMediaType,
	}

	ErrCodecFailure = &Error{
		Code:       "codec_failure",
		Message:    "The image could not be decoded or encoded",
		StatusCode: http.StatusUnprocessableEntity,
	}

	ErrIOFailure = &Error{
		Code:       "io_failure",
		Message:    "The file could not be written",
		StatusCode: http.StatusInternalServerError,
	}

	ErrBadRequest = &Error{
		Code:       "bad_request",
		Message:    "Invalid request",
		StatusCode: http.StatusBadRequest,
	}

	ErrInternal = &Error{
		Code:       "internal_error",
		Message:    "An unexpected error occurred. Please try again later",
		StatusCode: http.StatusInternalServerError,
	}
)

func New(code, message string, statusCode int) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

func Wrap(err error, appErr *Error) *Error {
	return &Error{
		Code:       appErr.Code,
		Message:    appErr.Message,
		StatusCode: appErr.StatusCode,
		Internal:   err,
	}
}

func WrapWithMessage(err error, code, message string, statusCode int) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Internal:   err,
	}
}

// Describe returns an error of the given kind with its own message.
func Describe(kind *Error, internal error, format string, args ...any) *Error {
	return &Error{
		Code:       kind.Code,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: kind.StatusCode,
		Internal:   internal,
	}
}

func Is(err error, target *Error) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == target.Code
	}
	return false
}

func StatusCode(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

func SafeMessage(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return ErrInternal.Message
}

func Code(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternal.Code
}
