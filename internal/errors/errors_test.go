package errors

import (
	"errors"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "error without cause",
			err:      &Error{Code: ErrCodeConfig, Message: "invalid configuration"},
			expected: "[CONFIG_ERROR] invalid configuration",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeFetch, "failed to fetch source", errors.New("connection refused")),
			expected: "[FETCH_ERROR] failed to fetch source: connection refused",
		},
		{
			name:     "unsafe destination",
			err:      New(ErrCodeUnsafeDestination, "destination is a symbolic link"),
			expected: "[UNSAFE_DESTINATION] destination is a symbolic link",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInternal, "wrapper", cause)

	if unwrapped := err.Unwrap(); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}
}

func TestError_Is(t *testing.T) {
	err1 := &Error{Code: ErrCodeStaging, Message: "test error"}
	err2 := &Error{Code: ErrCodeStaging, Message: "another error"}
	err3 := &Error{Code: ErrCodePublish, Message: "rename failed"}

	if !err1.Is(err2) {
		t.Errorf("Expected errors with same code to match")
	}

	if err1.Is(err3) {
		t.Errorf("Expected errors with different codes to not match")
	}
}

func TestErrorsIsThroughWrapping(t *testing.T) {
	cause := NewStagingError("no writable staging location", errors.New("read-only fs"))

	if !errors.Is(cause, New(ErrCodeStaging, "")) {
		t.Errorf("Expected errors.Is to match by code")
	}
}

func TestNewFetchError(t *testing.T) {
	cause := errors.New("status 503")
	err := NewFetchError("source returned failure", cause)

	if err.Code != ErrCodeFetch {
		t.Errorf("Expected code %v, got %v", ErrCodeFetch, err.Code)
	}

	if err.Message != "source returned failure" {
		t.Errorf("Expected message 'source returned failure', got %v", err.Message)
	}

	if err.Cause != cause {
		t.Errorf("Expected cause to be preserved")
	}
}
