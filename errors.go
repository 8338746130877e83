// Package mmsched structured error types for plan-construction failures
package mmsched

import (
	"fmt"
)

// ErrorType represents categories of errors
type ErrorType int

const (
	// Config invariant violations (sub-block counts, split products)
	ErrTypeConfigValidation ErrorType = iota
	// Declared layout does not match the required packing
	ErrTypeUnsupportedLayout
	// Invalid argument errors
	ErrTypeInvalidArg
)

// SchedError represents a structured error with context.
//
// Everything in this package fails eagerly at plan-construction time; there
// is no runtime-recoverable category. A bad Config is a programming or
// search bug, not a transient fault.
type SchedError struct {
	Type    ErrorType
	Op      string // Operation that failed
	Message string // Human-readable message
	Err     error  // Underlying error if any
}

// Error implements the error interface
func (e *SchedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("mmsched %s error in %s: %s (caused by: %v)",
			e.Type.String(), e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("mmsched %s error in %s: %s",
		e.Type.String(), e.Op, e.Message)
}

// Unwrap allows error chain inspection
func (e *SchedError) Unwrap() error {
	return e.Err
}

// String returns the error type as a string
func (t ErrorType) String() string {
	switch t {
	case ErrTypeConfigValidation:
		return "ConfigValidation"
	case ErrTypeUnsupportedLayout:
		return "UnsupportedLayout"
	case ErrTypeInvalidArg:
		return "InvalidArgument"
	default:
		return "Unknown"
	}
}

// Common error constructors

// NewConfigValidationError creates a config invariant violation error
func NewConfigValidationError(op string, message string) error {
	return &SchedError{
		Type:    ErrTypeConfigValidation,
		Op:      op,
		Message: message,
	}
}

// NewUnsupportedLayoutError creates a layout mismatch error
func NewUnsupportedLayoutError(op string, message string) error {
	return &SchedError{
		Type:    ErrTypeUnsupportedLayout,
		Op:      op,
		Message: message,
	}
}

// NewInvalidArgError creates an invalid argument error
func NewInvalidArgError(op string, message string) error {
	return &SchedError{
		Type:    ErrTypeInvalidArg,
		Op:      op,
		Message: message,
	}
}

// IsConfigValidationError checks if an error is a config validation error
func IsConfigValidationError(err error) bool {
	if e, ok := err.(*SchedError); ok {
		return e.Type == ErrTypeConfigValidation
	}
	return false
}

// IsUnsupportedLayoutError checks if an error is a layout mismatch error
func IsUnsupportedLayoutError(err error) bool {
	if e, ok := err.(*SchedError); ok {
		return e.Type == ErrTypeUnsupportedLayout
	}
	return false
}

// IsInvalidArgError checks if an error is an invalid argument error
func IsInvalidArgError(err error) bool {
	if e, ok := err.(*SchedError); ok {
		return e.Type == ErrTypeInvalidArg
	}
	return false
}
