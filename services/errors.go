package services

import (
	"errors"
	"fmt"
)

// ErrorType represents the type/category of error
type ErrorType string

const (
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	ErrorTypeInternal     ErrorType = "internal"
)

// UnauthorizedReason classifies why a request was rejected.
// It is only used for logging; every reason produces the same HTTP response.
type UnauthorizedReason string

const (
	ReasonMissingToken        UnauthorizedReason = "missing_token"
	ReasonMalformedHeader     UnauthorizedReason = "malformed_header"
	ReasonRejected            UnauthorizedReason = "rejected"
	ReasonProviderUnavailable UnauthorizedReason = "provider_unavailable"
	ReasonEmptyIdentity       UnauthorizedReason = "empty_identity"
	ReasonPrecheckFailed      UnauthorizedReason = "precheck_failed"
)

// DomainError represents a structured error with additional context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Details map[string]interface{}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithDetail adds a detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// Diagnostic returns the human-readable cause, suitable for the response detail
func (e *DomainError) Diagnostic() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Details: make(map[string]interface{}),
	}
}

// ErrUnauthorized matches any unauthorized DomainError via errors.Is
var ErrUnauthorized = NewDomainError(ErrorTypeUnauthorized, "unauthorized", nil)

// NewUnauthorizedError creates an unauthorized error tagged with a reason
func NewUnauthorizedError(reason UnauthorizedReason, message string, err error) *DomainError {
	return NewDomainError(ErrorTypeUnauthorized, message, err).WithDetail("reason", reason)
}

// IsUnauthorizedError checks if an error is an unauthorized error
func IsUnauthorizedError(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// GetUnauthorizedReason extracts the rejection reason, or "" when absent
func GetUnauthorizedReason(err error) UnauthorizedReason {
	var domainErr *DomainError
	if !errors.As(err, &domainErr) || domainErr.Type != ErrorTypeUnauthorized {
		return ""
	}
	reason, _ := domainErr.Details["reason"].(UnauthorizedReason)
	return reason
}

// GetErrorDetails extracts details from a domain error
func GetErrorDetails(err error) map[string]interface{} {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Details
	}
	return nil
}

// DiagnosticOf returns the diagnostic string of a domain error, or err.Error()
func DiagnosticOf(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Diagnostic()
	}
	return err.Error()
}
