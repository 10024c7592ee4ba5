package transform

import (
	"fmt"

	"github.com/rgehrsitz/finplan/internal/domain"
)

// LoanTransform defines the interface for loan offer transformations.
// Transforms are composable operations that derive an alternative offer from a base
// loan request, enabling offer comparison and what-if exploration.
type LoanTransform interface {
	// Apply returns a new request derived from base. base is never modified.
	Apply(base domain.LoanRequest) (domain.LoanRequest, error)

	// Name returns a short identifier for this transform (e.g., "change_tenure").
	Name() string

	// Description returns a human-readable description of what this transform does.
	Description() string

	// Validate checks if the transform can be applied to base without applying it.
	Validate(base domain.LoanRequest) error
}

// ApplyTransforms applies a sequence of transforms to a base request.
// Transforms are applied in order, with each transform receiving the output of the previous one.
func ApplyTransforms(base domain.LoanRequest, transforms []LoanTransform) (domain.LoanRequest, error) {
	current := base
	for i, transform := range transforms {
		if transform == nil {
			return domain.LoanRequest{}, fmt.Errorf("transform at index %d is nil", i)
		}
		if err := transform.Validate(current); err != nil {
			return domain.LoanRequest{}, fmt.Errorf("transform %s validation failed: %w", transform.Name(), err)
		}
		next, err := transform.Apply(current)
		if err != nil {
			return domain.LoanRequest{}, fmt.Errorf("transform %s failed: %w", transform.Name(), err)
		}
		current = next
	}
	return current, nil
}

// TransformError represents an error that occurred during transformation.
type TransformError struct {
	TransformName string
	Operation     string
	Reason        string
	Err           error
}

func (e *TransformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transform %s (%s): %s: %v", e.TransformName, e.Operation, e.Reason, e.Err)
	}
	return fmt.Sprintf("transform %s (%s): %s", e.TransformName, e.Operation, e.Reason)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// NewTransformError creates a new TransformError.
func NewTransformError(transformName, operation, reason string, err error) error {
	return &TransformError{
		TransformName: transformName,
		Operation:     operation,
		Reason:        reason,
		Err:           err,
	}
}
