package router

import "fmt"

// HTTPError is an error carrying an HTTP status code. Handlers and
// middlewares return it to control the status of the error page
// response.
type HTTPError struct {
	Code    int
	Message string
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *HTTPError) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status code for this error.
func (e *HTTPError) StatusCode() int { return e.Code }

// NotFoundError creates a 404 error.
func NotFoundError(message string) *HTTPError {
	return &HTTPError{Code: 404, Message: message}
}

// BadRequestError creates a 400 error.
func BadRequestError(err error) *HTTPError {
	return &HTTPError{Code: 400, Message: "bad request", Err: err}
}

// ForbiddenError creates a 403 error.
func ForbiddenError(message string) *HTTPError {
	return &HTTPError{Code: 403, Message: message}
}

// InternalError wraps an unexpected failure as a 500 error.
func InternalError(err error) *HTTPError {
	return &HTTPError{Code: 500, Message: "internal error", Err: err}
}

// Errorf creates an HTTPError with a formatted message.
func Errorf(code int, format string, args ...any) *HTTPError {
	return &HTTPError{Code: code, Message: fmt.Sprintf(format, args...)}
}
