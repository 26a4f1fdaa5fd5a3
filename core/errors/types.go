// ABOUTME: Custom error types for the core business logic
// ABOUTME: Provides structured errors for better error handling and API responses

package errors

import (
	"errors"
	"fmt"
)

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ValidationError represents a caller-input validation error
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// QuotaExceededError is returned when an owner already has the maximum
// number of active shares. No writes are performed when it is returned.
type QuotaExceededError struct {
	OwnerID string
	Limit   int
}

// Error implements the error interface
func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("share quota exceeded for owner %s: limit %d", e.OwnerID, e.Limit)
}

// StoreUnavailableError represents a transient blob store failure.
// Idempotent operations are safe to retry; retries of create should
// re-check quota rather than assume success.
type StoreUnavailableError struct {
	Op  string
	Err error
}

// Error implements the error interface
func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("store unavailable during %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying store error
func (e *StoreUnavailableError) Unwrap() error {
	return e.Err
}

// CorruptIndexError is returned when a user index object fails to parse.
// The index is never silently treated as empty.
type CorruptIndexError struct {
	Bucket string
	Err    error
}

// Error implements the error interface
func (e *CorruptIndexError) Error() string {
	return fmt.Sprintf("corrupt index in bucket %s: %v", e.Bucket, e.Err)
}

// Unwrap returns the underlying parse error
func (e *CorruptIndexError) Unwrap() error {
	return e.Err
}

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsQuotaExceeded checks if an error is a QuotaExceededError
func IsQuotaExceeded(err error) bool {
	var quotaErr *QuotaExceededError
	return errors.As(err, &quotaErr)
}

// IsStoreUnavailable checks if an error is a StoreUnavailableError
func IsStoreUnavailable(err error) bool {
	var storeErr *StoreUnavailableError
	return errors.As(err, &storeErr)
}

// IsCorruptIndex checks if an error is a CorruptIndexError
func IsCorruptIndex(err error) bool {
	var corruptErr *CorruptIndexError
	return errors.As(err, &corruptErr)
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
