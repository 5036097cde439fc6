// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrComputationFailed = errors.New("computation failed")
	ErrConfigInvalid     = errors.New("invalid configuration")
	ErrScenarioNotFound  = errors.New("scenario file not found")
)

// ValidationError represents a validation error on a single input field.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// Unwrap lets errors.Is match ErrInvalidArgument.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidArgument
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// ComputationError represents a numerical routine that could not produce a
// finite answer from individually valid inputs.
type ComputationError struct {
	Operation  string
	Iterations int
	Reason     string
}

func (e *ComputationError) Error() string {
	if e.Iterations > 0 {
		return fmt.Sprintf("computation failed [%s] after %d iterations: %s", e.Operation, e.Iterations, e.Reason)
	}
	return fmt.Sprintf("computation failed [%s]: %s", e.Operation, e.Reason)
}

func (e *ComputationError) Unwrap() error {
	return ErrComputationFailed
}

// NewComputationError creates a new ComputationError.
func NewComputationError(operation string, iterations int, reason string) *ComputationError {
	return &ComputationError{
		Operation:  operation,
		Iterations: iterations,
		Reason:     reason,
	}
}

// ConfigError represents an out-of-range configuration value.
type ConfigError struct {
	Key     string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Key, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return ErrConfigInvalid
}

// NewConfigError creates a new ConfigError.
func NewConfigError(key, message string) *ConfigError {
	return &ConfigError{Key: key, Message: message}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// IsInvalidArgument reports whether err was caused by a rejected input.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsComputationFailed reports whether err was caused by a numerical failure.
func IsComputationFailed(err error) bool {
	return errors.Is(err, ErrComputationFailed)
}
