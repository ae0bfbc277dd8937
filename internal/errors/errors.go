package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a winterarc error code.
type ErrorCode string

const (
	ErrInvalidRequest   ErrorCode = "INVALID_REQUEST"   // 400
	ErrCancelled        ErrorCode = "CANCELLED"         // 499
	ErrStoreCorrupt     ErrorCode = "STORE_CORRUPT"     // 500
	ErrInternal         ErrorCode = "INTERNAL"          // 500
	ErrStoreUnavailable ErrorCode = "STORE_UNAVAILABLE" // 503
)

// ArcError represents a structured error with code, status, and details.
type ArcError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
	cause   error
}

// Error implements the error interface.
func (e *ArcError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *ArcError) Unwrap() error {
	return e.cause
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *ArcError {
	return &ArcError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewInvalidField creates a 400 error naming the offending input field.
func NewInvalidField(field, msg string) *ArcError {
	return &ArcError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
		Details: map[string]any{"field": field},
	}
}

// NewCancelled creates an error for an operation stopped by context cancellation.
func NewCancelled(op string) *ArcError {
	return &ArcError{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("%s cancelled", op),
		Details: map[string]any{"operation": op},
	}
}

// NewStoreCorrupt creates an error for a stored payload that cannot be decoded.
func NewStoreCorrupt(key string, err error) *ArcError {
	msg := fmt.Sprintf("stored record %q is corrupt", key)
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return &ArcError{
		Code:    ErrStoreCorrupt,
		Status:  500,
		Message: msg,
		Details: map[string]any{"key": key},
		cause:   err,
	}
}

// NewStoreUnavailable creates a 503 error when the backing store cannot be reached.
func NewStoreUnavailable(backend string, err error) *ArcError {
	msg := fmt.Sprintf("%s store unavailable", backend)
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return &ArcError{
		Code:    ErrStoreUnavailable,
		Status:  503,
		Message: msg,
		Details: map[string]any{"backend": backend},
		cause:   err,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *ArcError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &ArcError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
		cause:   err,
	}
}

// Is checks if an error is (or wraps) an ArcError with the given code.
func Is(err error, code ErrorCode) bool {
	var aErr *ArcError
	if stderrors.As(err, &aErr) {
		return aErr.Code == code
	}
	return false
}
