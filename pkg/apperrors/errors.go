package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes forming the failure taxonomy. Expected denials
// (TRANSITION_REJECTED, FORBIDDEN) are returned values, never panics.
const (
	CodeAuthenticationRequired = "AUTHENTICATION_REQUIRED"
	CodeTransitionRejected     = "TRANSITION_REJECTED"
	CodeValidationFailed       = "VALIDATION_FAILED"
	CodeNetworkFailure         = "NETWORK_FAILURE"
	CodeNotFound               = "NOT_FOUND"
	CodeForbidden              = "FORBIDDEN"
	CodeConflict               = "CONFLICT"
	CodeInternal               = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// New constructs a DomainError.
func New(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// NewAuthenticationRequired signals a missing or expired session.
func NewAuthenticationRequired(message string) error {
	return New(CodeAuthenticationRequired, message, http.StatusUnauthorized, nil)
}

// NewTransitionRejected signals a policy or state-machine denial. The
// reason is user-visible; it is never retried automatically.
func NewTransitionRejected(reason string, details map[string]any) error {
	return New(CodeTransitionRejected, reason, http.StatusConflict, details)
}

// NewValidationError rejects malformed input before any backend call.
func NewValidationError(message string, details map[string]any) error {
	return New(CodeValidationFailed, message, http.StatusBadRequest, details)
}

// NewNetworkFailure wraps a transient transport error. Safe to retry on
// the next poll cycle, never retried inline.
func NewNetworkFailure(err error) error {
	return &DomainError{
		Code:       CodeNetworkFailure,
		Message:    "upstream unreachable",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewForbidden(message string) error {
	return New(CodeForbidden, message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return New(CodeConflict, message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// IsCode reports whether err carries the given taxonomy code.
func IsCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}
