package errors

import (
	"errors"
	"fmt"
)

// Error codes for programmatic handling
const (
	// Precondition errors
	ErrCodeNotARepository = "NOT_A_REPOSITORY"
	ErrCodeTokenMissing   = "TOKEN_MISSING"
	ErrCodeTokenInvalid   = "TOKEN_INVALID"

	// Validation errors
	ErrCodeValidationFailed = "VALIDATION_FAILED"

	// Deployment errors
	ErrCodeDeploymentCancelled = "DEPLOYMENT_CANCELLED"
	ErrCodePushFailed          = "PUSH_FAILED"

	// Git operation errors
	ErrCodeGitNotFound  = "GIT_NOT_FOUND"
	ErrCodeGitOperation = "GIT_OPERATION"

	// System errors
	ErrCodeFileSystem = "FILE_SYSTEM"

	// Configuration errors
	ErrCodeConfigInvalid = "CONFIG_INVALID"
)

// ShipError represents a standardized error with code and context.
//
// ShipError provides structured error handling for shipit operations with:
//   - Code: standardized error code for programmatic handling
//   - Message: human-readable error description
//   - Cause: underlying error that caused this error (optional)
//   - Context: additional contextual information as key-value pairs
//
// Example usage:
//
//	err := ErrNotARepository("/tmp/project")
//	if IsShipError(err, ErrCodeNotARepository) {
//	  // Handle missing repository
//	}
type ShipError struct {
	Code    string                 // Standardized error code (see ErrCode* constants)
	Message string                 // Human-readable error message
	Cause   error                  // Underlying error that caused this error
	Context map[string]interface{} // Additional contextual information
}

// Error implements the error interface
func (e *ShipError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *ShipError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error code
func (e *ShipError) Is(target error) bool {
	if t, ok := target.(*ShipError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithContext adds context information to the error
func (e *ShipError) WithContext(key string, value interface{}) *ShipError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewShipError creates a new standardized error
func NewShipError(code, message string, cause error) *ShipError {
	return &ShipError{
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewShipErrorf creates a new standardized error with formatted message
func NewShipErrorf(code string, cause error, format string, args ...interface{}) *ShipError {
	return &ShipError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Error factory functions for common error types

// Precondition errors
func ErrNotARepository(path string) *ShipError {
	return NewShipErrorf(ErrCodeNotARepository, nil, "not a git repository: %s", path).
		WithContext("path", path)
}

func ErrTokenMissing(envVar string) *ShipError {
	return NewShipErrorf(ErrCodeTokenMissing, nil, "no token provided: pass it as an argument or export %s", envVar).
		WithContext("env", envVar)
}

func ErrTokenInvalid(envVar, reason string) *ShipError {
	return NewShipErrorf(ErrCodeTokenInvalid, nil, "cannot store the %s token: %s", envVar, reason).
		WithContext("env", envVar)
}

// Validation errors
func ErrValidationFailed(file string, cause error) *ShipError {
	return NewShipErrorf(ErrCodeValidationFailed, cause, "validation failed for %s", file).
		WithContext("file", file)
}

// Deployment errors
func ErrDeploymentCancelled(branch string) *ShipError {
	return NewShipError(ErrCodeDeploymentCancelled, "deployment cancelled", nil).
		WithContext("branch", branch)
}

func ErrPushFailed(target string, cause error) *ShipError {
	return NewShipErrorf(ErrCodePushFailed, cause, "push to %s failed", target).
		WithContext("target", target)
}

// Git operation errors
func ErrGitNotFound(cause error) *ShipError {
	return NewShipError(ErrCodeGitNotFound, "git is not available in PATH", cause)
}

func ErrGitOperation(operation string, cause error) *ShipError {
	return NewShipErrorf(ErrCodeGitOperation, cause, "git %s failed", operation).
		WithContext("operation", operation)
}

// System errors
func ErrFileSystem(operation string, cause error) *ShipError {
	return NewShipErrorf(ErrCodeFileSystem, cause, "file system operation failed: %s", operation).
		WithContext("operation", operation)
}

// Configuration errors
func ErrConfigInvalid(reason string, cause error) *ShipError {
	return NewShipErrorf(ErrCodeConfigInvalid, cause, "invalid configuration: %s", reason).
		WithContext("reason", reason)
}

// IsShipError reports whether err carries a ShipError with the given code.
func IsShipError(err error, code string) bool {
	var shipErr *ShipError
	if errors.As(err, &shipErr) {
		return shipErr.Code == code
	}
	return false
}

// GetErrorCode returns the ShipError code from any error, or "".
func GetErrorCode(err error) string {
	var shipErr *ShipError
	if errors.As(err, &shipErr) {
		return shipErr.Code
	}
	return ""
}

// GetErrorContext returns the context map of a ShipError in err's chain.
func GetErrorContext(err error) map[string]interface{} {
	var shipErr *ShipError
	if errors.As(err, &shipErr) {
		return shipErr.Context
	}
	return nil
}
