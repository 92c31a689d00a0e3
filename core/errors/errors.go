// Package errors provides standardized error types and helpers for the sekai-core codebase.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	// ErrInvalidInput indicates invalid input or validation failure
	ErrInvalidInput = errors.New("invalid input")
	// ErrDuplicateIndex indicates a rebuild request with a repeated entry index
	ErrDuplicateIndex = errors.New("duplicate entry index")
	// ErrMissingIndex indicates a rebuild request with a gap in its entry indices
	ErrMissingIndex = errors.New("missing entry index")
	// ErrUnsupportedEncoding indicates no detection candidate reached the plausibility floor
	ErrUnsupportedEncoding = errors.New("unsupported encoding")
	// ErrInternal indicates an internal defect (broken invariant), not a caller mistake
	ErrInternal = errors.New("internal error")
)

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string // Field name that failed validation
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// RebuildError represents a corrupted edit session detected during rebuild.
// Index is the offending entry index.
type RebuildError struct {
	Index   int
	Message string
	Err     error // ErrDuplicateIndex or ErrMissingIndex
}

func (e *RebuildError) Error() string {
	return fmt.Sprintf("rebuild aborted at index %d: %s", e.Index, e.Message)
}

func (e *RebuildError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// InternalError represents a broken invariant inside the core.
// One malformed input must not take down the process, so these are
// surfaced as error responses rather than panics.
type InternalError struct {
	Component string // Component that detected the defect (e.g., "segmenter")
	Message   string
	Err       error
}

func (e *InternalError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("internal failure in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("internal failure: %s", e.Message)
}

func (e *InternalError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInternal
}

// IOError represents an I/O operation error with context
type IOError struct {
	Operation string // Operation being performed (e.g., "read", "open")
	Path      string // File/resource path involved
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Helper functions for creating common errors

// NewValidation creates a ValidationError
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewDuplicateIndex creates a RebuildError for a repeated index
func NewDuplicateIndex(index int) *RebuildError {
	return &RebuildError{
		Index:   index,
		Message: fmt.Sprintf("index %d appears more than once", index),
		Err:     ErrDuplicateIndex,
	}
}

// NewMissingIndex creates a RebuildError for an absent index
func NewMissingIndex(index int) *RebuildError {
	return &RebuildError{
		Index:   index,
		Message: fmt.Sprintf("index %d is absent from the entry set", index),
		Err:     ErrMissingIndex,
	}
}

// NewInternal creates an InternalError
func NewInternal(component, message string) *InternalError {
	return &InternalError{
		Component: component,
		Message:   message,
	}
}

// NewIO creates an IOError
func NewIO(operation, path string, err error) *IOError {
	return &IOError{
		Operation: operation,
		Path:      path,
		Err:       err,
	}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}
