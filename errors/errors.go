package errors

import (
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ValidationError    ErrorType = "VALIDATION_ERROR"
	AuthorizationError ErrorType = "AUTHORIZATION_ERROR"
	AuthError          ErrorType = "AUTHENTICATION_ERROR"
	NotFoundError      ErrorType = "NOT_FOUND"
	ConsistencyError   ErrorType = "CONSISTENCY_ERROR"
	RateLimitError     ErrorType = "RATE_LIMIT_ERROR"
	DatabaseError      ErrorType = "DATABASE_ERROR"
	ServerError        ErrorType = "SERVER_ERROR"
)

// Machine-readable codes for validation failures of split input.
const (
	CodeSplitMismatch = "SPLIT_MISMATCH"
	CodeNegativeShare = "NEGATIVE_SHARE"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Code       string    `json:"code,omitempty"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Raw        error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *AppError) Unwrap() error {
	return e.Raw
}

// GetHTTPStatus returns the HTTP status code associated with the error.
func (e *AppError) GetHTTPStatus() int {
	if e.HTTPStatus == 0 {
		return getHTTPStatus(e.Type)
	}
	return e.HTTPStatus
}

// New creates a new AppError
func New(errType ErrorType, message string, detail string) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     detail,
		HTTPStatus: getHTTPStatus(errType),
	}
}

// Wrap wraps a raw error with AppError context
func Wrap(err error, errType ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     err.Error(),
		HTTPStatus: getHTTPStatus(errType),
		Raw:        err,
	}
}

// Helper constructors for common errors

func NotFound(entity string, id interface{}) *AppError {
	return &AppError{
		Type:       NotFoundError,
		Message:    fmt.Sprintf("%s not found", entity),
		Detail:     fmt.Sprintf("ID: %v", id),
		HTTPStatus: http.StatusNotFound,
	}
}

func ValidationFailed(message string, detail string) *AppError {
	return &AppError{
		Type:       ValidationError,
		Message:    message,
		Detail:     detail,
		HTTPStatus: http.StatusBadRequest,
	}
}

// SplitMismatch flags custom split input that does not line up with the
// participant list. Fully recoverable by resubmitting corrected input.
func SplitMismatch(detail string) *AppError {
	return &AppError{
		Type:       ValidationError,
		Code:       CodeSplitMismatch,
		Message:    "Custom splits must be provided for all participants",
		Detail:     detail,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NegativeShare flags custom splits that exceed the expense total,
// which would leave the creator with a negative implicit share.
func NegativeShare(detail string) *AppError {
	return &AppError{
		Type:       ValidationError,
		Code:       CodeNegativeShare,
		Message:    "Custom splits may not exceed the expense total",
		Detail:     detail,
		HTTPStatus: http.StatusBadRequest,
	}
}

func Forbidden(message string, detail string) *AppError {
	return &AppError{
		Type:       AuthorizationError,
		Message:    message,
		Detail:     detail,
		HTTPStatus: http.StatusForbidden,
	}
}

func AuthenticationFailed(message string) *AppError {
	return &AppError{
		Type:       AuthError,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Consistency signals an invariant violation detected at commit time.
// It must abort the enclosing transaction and never be swallowed.
func Consistency(message string, detail string) *AppError {
	return &AppError{
		Type:       ConsistencyError,
		Message:    message,
		Detail:     detail,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// RateLimitExceeded signals that the client has sent too many requests in
// the current window. retryAfterSeconds feeds the Retry-After header.
func RateLimitExceeded(message string, retryAfterSeconds int) *AppError {
	return &AppError{
		Type:       RateLimitError,
		Message:    message,
		Detail:     fmt.Sprintf("Retry after %d seconds", retryAfterSeconds),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

func NewDatabaseError(err error) *AppError {
	return &AppError{
		Type:       DatabaseError,
		Message:    "Database operation failed",
		Detail:     "Please try again later",
		HTTPStatus: http.StatusInternalServerError,
		Raw:        err,
	}
}

func InternalServerError(message string) *AppError {
	return &AppError{
		Type:       ServerError,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

func getHTTPStatus(errType ErrorType) int {
	switch errType {
	case ValidationError:
		return http.StatusBadRequest
	case NotFoundError:
		return http.StatusNotFound
	case AuthError:
		return http.StatusUnauthorized
	case AuthorizationError:
		return http.StatusForbidden
	case RateLimitError:
		return http.StatusTooManyRequests
	case ConsistencyError, DatabaseError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
