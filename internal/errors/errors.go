package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrTokenInvalid is returned when a token's signature or structure is invalid.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenExpired is returned when a token is past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenRevoked is returned when a token has been revoked by logout.
	ErrTokenRevoked = errors.New("token revoked")
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrRecordNotFound is returned when a record is absent or not owned by the caller.
	ErrRecordNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when registering with an email that is taken.
	ErrDuplicateEmail = errors.New("user with this email already exists")
	// ErrDuplicateMobile is returned when registering with a mobile number that is taken.
	ErrDuplicateMobile = errors.New("user with this mobile number already exists")
	// ErrInvalidPagination is returned when page or limit is out of range.
	ErrInvalidPagination = errors.New("invalid pagination parameters")
	// ErrUpstream is returned when the database, image store, or extraction
	// service fails in a way that is not locally recoverable.
	ErrUpstream = errors.New("upstream service failure")
)

// ValidationError carries one or more client-correctable input violations.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "validation failed"
	}
	msg := e.Violations[0]
	for _, v := range e.Violations[1:] {
		msg += "; " + v
	}
	return msg
}

// NewValidationError creates a validation error from the given violations.
func NewValidationError(violations ...string) *ValidationError {
	return &ValidationError{Violations: violations}
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Token failure kinds stay
// distinct so clients can tell an expired session from a revoked one.
func MapErrorToHTTP(err error) *HTTPError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return NewHTTPError(http.StatusBadRequest, ve.Error(), "VALIDATION_FAILED")
	}

	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrTokenExpired):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "TOKEN_EXPIRED")
	case errors.Is(err, ErrTokenRevoked):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "TOKEN_REVOKED")
	case errors.Is(err, ErrTokenInvalid):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "TOKEN_INVALID")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrRecordNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "RECORD_NOT_FOUND")
	case errors.Is(err, ErrDuplicateEmail):
		return NewHTTPError(http.StatusConflict, err.Error(), "DUPLICATE_EMAIL")
	case errors.Is(err, ErrDuplicateMobile):
		return NewHTTPError(http.StatusConflict, err.Error(), "DUPLICATE_MOBILE")
	case errors.Is(err, ErrInvalidPagination):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_PAGINATION")
	case errors.Is(err, ErrUpstream):
		return NewHTTPError(http.StatusBadGateway, err.Error(), "UPSTREAM_FAILURE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
