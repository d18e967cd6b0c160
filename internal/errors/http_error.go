package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
)

// HTTPError represents an error with an associated HTTP status code.
// Services return these for violated preconditions; the route layer maps
// them straight onto the response.
type HTTPError struct {
	Code    int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTPError with the given code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

func BadRequest(format string, args ...interface{}) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, fmt.Sprintf(format, args...))
}

func Unauthorized(msg string) *HTTPError {
	return NewHTTPError(http.StatusUnauthorized, msg)
}

func Forbidden(msg string) *HTTPError {
	return NewHTTPError(http.StatusForbidden, msg)
}

func NotFound(format string, args ...interface{}) *HTTPError {
	return NewHTTPError(http.StatusNotFound, fmt.Sprintf(format, args...))
}

func Conflict(format string, args ...interface{}) *HTTPError {
	return NewHTTPError(http.StatusConflict, fmt.Sprintf(format, args...))
}

func Internal(msg string) *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, msg)
}

// Write renders an error as a JSON response. Anything that is not an
// HTTPError becomes a 500 without leaking internals.
func Write(w http.ResponseWriter, err error) {
	var httpErr *HTTPError
	if !stderrors.As(err, &httpErr) {
		httpErr = Internal("internal server error")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpErr.Code)
	json.NewEncoder(w).Encode(map[string]string{"error": httpErr.Message})
}
