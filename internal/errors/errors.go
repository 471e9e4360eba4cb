// Package errors provides domain-specific error types for fetch-iplist.
//
// This package defines structured errors with error codes, making it easier to handle
// and test different error conditions consistently across the application.
package errors

import "fmt"

// ErrorCode represents a category of error that can occur in the application.
type ErrorCode string

const (
	// ErrCodeConfig indicates a configuration-related error.
	ErrCodeConfig ErrorCode = "CONFIG_ERROR"

	// ErrCodeValidation indicates a validation error.
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"

	// ErrCodeFetch indicates a source could not be retrieved or returned a
	// non-success status. Fatal for the whole run.
	ErrCodeFetch ErrorCode = "FETCH_ERROR"

	// ErrCodeStaging indicates no writable location for a staging file could
	// be found.
	ErrCodeStaging ErrorCode = "STAGING_ERROR"

	// ErrCodeUnsafeDestination indicates the destination path is a symbolic
	// link, which publishing refuses to write through.
	ErrCodeUnsafeDestination ErrorCode = "UNSAFE_DESTINATION"

	// ErrCodeMetadata indicates reading or applying destination
	// ownership/permissions failed.
	ErrCodeMetadata ErrorCode = "METADATA_ERROR"

	// ErrCodePublish indicates the final rename onto the destination failed.
	ErrCodePublish ErrorCode = "PUBLISH_ERROR"

	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Error represents a domain-specific error with an error code and optional cause.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error for errors.Is and errors.As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a new domain error with the specified code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Wrap creates a new domain error wrapping an existing error.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewConfigError creates a new configuration error.
func NewConfigError(message string, cause error) *Error {
	return Wrap(ErrCodeConfig, message, cause)
}

// NewValidationError creates a new validation error.
func NewValidationError(message string, cause error) *Error {
	return Wrap(ErrCodeValidation, message, cause)
}

// NewFetchError creates a new source fetch error.
func NewFetchError(message string, cause error) *Error {
	return Wrap(ErrCodeFetch, message, cause)
}

// NewStagingError creates a new staging file error.
func NewStagingError(message string, cause error) *Error {
	return Wrap(ErrCodeStaging, message, cause)
}

// NewUnsafeDestinationError creates a new unsafe destination error.
func NewUnsafeDestinationError(message string, cause error) *Error {
	return Wrap(ErrCodeUnsafeDestination, message, cause)
}

// NewMetadataError creates a new destination metadata error.
func NewMetadataError(message string, cause error) *Error {
	return Wrap(ErrCodeMetadata, message, cause)
}

// NewPublishError creates a new publish (rename) error.
func NewPublishError(message string, cause error) *Error {
	return Wrap(ErrCodePublish, message, cause)
}

// NewInternalError creates a new internal error.
func NewInternalError(message string, cause error) *Error {
	return Wrap(ErrCodeInternal, message, cause)
}
