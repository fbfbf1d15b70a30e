package errors

import (
	"errors"
	"net/http"
)

// Error is a business failure with a stable wire code. The set of values is
// closed: callers compare against the sentinels below with errors.Is.
type Error struct {
	Code   string
	Status int
}

func (e *Error) Error() string {
	return e.Code
}

var (
	// ErrUserNotFound is returned when no user matches an id or email address.
	ErrUserNotFound = &Error{Code: "user-not-found", Status: http.StatusNotFound}
	// ErrUserAlreadyExists is returned when signing up with a taken email address.
	ErrUserAlreadyExists = &Error{Code: "user-already-exist", Status: http.StatusConflict}
	// ErrPasswordMismatch is returned when the password does not match the stored digest.
	ErrPasswordMismatch = &Error{Code: "password-mismatch", Status: http.StatusUnauthorized}
	// ErrTokenInvalid is returned when a bearer token fails verification.
	ErrTokenInvalid = &Error{Code: "jwt-invalid", Status: http.StatusUnauthorized}
	// ErrAuthHeaderMissing is returned when a protected route is called without credentials.
	ErrAuthHeaderMissing = &Error{Code: "authHeader-invalid", Status: http.StatusUnauthorized}
	// ErrPostNotFound is returned when a post does not exist.
	ErrPostNotFound = &Error{Code: "post-not-found", Status: http.StatusNotFound}
	// ErrCommentNotFound is returned when a comment does not exist.
	ErrCommentNotFound = &Error{Code: "comment-not-found", Status: http.StatusNotFound}
	// ErrPermissionDenied is returned when the acting user does not own the resource.
	ErrPermissionDenied = &Error{Code: "permission-denied", Status: http.StatusForbidden}
)

// CodeInternal is the error code sent for every unexpected failure.
const CodeInternal = "internal-error"

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error" example:"post-not-found"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Code       string
	// Cause is the original error, kept for server side logging.
	Cause error
}

func (e *HTTPError) Error() string {
	return e.Code
}

func (e *HTTPError) Unwrap() error {
	return e.Cause
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Code:       code,
	}
}

// Invalid builds the 400 response for a request field that failed validation.
func Invalid(field string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, field+"-invalid")
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{Error: e.Code}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything outside the
// domain set becomes a 500 carrying the original error as its cause.
func MapErrorToHTTP(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return &HTTPError{StatusCode: domainErr.Status, Code: domainErr.Code, Cause: err}
	}
	return &HTTPError{StatusCode: http.StatusInternalServerError, Code: CodeInternal, Cause: err}
}
