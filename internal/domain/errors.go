package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies calculation failures
type ErrorKind string

const (
	// KindInvalidArgument marks out-of-domain input such as negative amounts or zero periods
	KindInvalidArgument ErrorKind = "invalid_argument"
	// KindDomainError marks a mathematically undefined operation
	KindDomainError ErrorKind = "domain_error"
)

// Sentinels for errors.Is checks. Every CalculationError unwraps to one of these.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrDomain          = errors.New("domain error")
)

// CalculationError represents a rejected computation. Calculations are all-or-nothing,
// so a CalculationError is never returned alongside a partial result.
type CalculationError struct {
	Kind      ErrorKind
	Operation string
	Field     string
	Message   string
}

func (e *CalculationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s: %s", e.Operation, e.Kind, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Operation, e.Kind, e.Message)
}

// Unwrap maps the error kind to its sentinel
func (e *CalculationError) Unwrap() error {
	if e.Kind == KindDomainError {
		return ErrDomain
	}
	return ErrInvalidArgument
}

// InvalidArgument builds a CalculationError for a rejected input field
func InvalidArgument(operation, field, format string, args ...any) error {
	return &CalculationError{
		Kind:      KindInvalidArgument,
		Operation: operation,
		Field:     field,
		Message:   fmt.Sprintf(format, args...),
	}
}

// DomainError builds a CalculationError for an undefined operation
func DomainError(operation, format string, args ...any) error {
	return &CalculationError{
		Kind:      KindDomainError,
		Operation: operation,
		Message:   fmt.Sprintf(format, args...),
	}
}

// IsInvalidArgument reports whether err is (or wraps) an invalid-argument failure
func IsInvalidArgument(err error) bool { return errors.Is(err, ErrInvalidArgument) }

// IsDomainError reports whether err is (or wraps) a domain failure
func IsDomainError(err error) bool { return errors.Is(err, ErrDomain) }
