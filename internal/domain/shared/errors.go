package shared

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a domain error so callers can react without parsing messages
type ErrorKind string

const (
	// KindValidation means the request is structurally wrong and the caller can correct it
	KindValidation ErrorKind = "VALIDATION"
	// KindNotFound means a well-formed id does not reference an existing record
	KindNotFound ErrorKind = "NOT_FOUND"
	// KindBusinessRule means the request is well-formed but would break a domain invariant
	KindBusinessRule ErrorKind = "BUSINESS_RULE"
)

// DomainError represents a domain-level error
type DomainError struct {
	Kind    ErrorKind `json:"kind"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a domain error with the same kind and code.
// It lets errors.Is match a sentinel against an error carrying a custom message.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// WithMessage returns a copy of the error carrying a more specific message
func (e *DomainError) WithMessage(message string) *DomainError {
	return &DomainError{Kind: e.Kind, Code: e.Code, Message: message}
}

// WithMessagef is WithMessage with formatting
func (e *DomainError) WithMessagef(format string, args ...any) *DomainError {
	return e.WithMessage(fmt.Sprintf(format, args...))
}

// NewDomainError creates a new domain error
func NewDomainError(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a validation error
func NewValidationError(code, message string) *DomainError {
	return NewDomainError(KindValidation, code, message)
}

// NewNotFoundError creates a not-found error
func NewNotFoundError(code, message string) *DomainError {
	return NewDomainError(KindNotFound, code, message)
}

// NewBusinessRuleError creates a business-rule error
func NewBusinessRuleError(code, message string) *DomainError {
	return NewDomainError(KindBusinessRule, code, message)
}

// KindOf returns the kind of the first domain error in err's chain
func KindOf(err error) (ErrorKind, bool) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Kind, true
	}
	return "", false
}

// IsKind reports whether err carries a domain error of the given kind
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// Common domain errors
var (
	ErrNotFound          = NewNotFoundError("NOT_FOUND", "Resource not found")
	ErrInvalidInput      = NewValidationError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidID         = NewValidationError("INVALID_ID", "Identifier must be a positive integer")
	ErrInvalidPage       = NewValidationError("INVALID_PAGE", "Page must be at least 1 and page size between 1 and 100")
	ErrInvalidState      = NewBusinessRuleError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock = NewBusinessRuleError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrHasDependents     = NewBusinessRuleError("HAS_DEPENDENTS", "Resource is still referenced by other records")
)
