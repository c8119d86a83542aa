// Package apperrors defines the typed error taxonomy the order flow
// surfaces to callers: validation failures, missing resources, stock
// shortfalls and lost concurrency races. Anything outside the taxonomy is
// treated as an internal error and never shown to the caller verbatim.
package apperrors

import (
	"errors"
	"fmt"
)

// ValidationError reports missing or malformed input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError creates a ValidationError with the given message.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// NotFoundError reports a referenced product or order that does not exist.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// NewNotFoundError creates a NotFoundError with the given message.
func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

// InsufficientStockError reports a requested quantity that exceeds current
// availability. It carries the shortfall details for the caller message.
type InsufficientStockError struct {
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("only %d left for %s", e.Available, e.ProductName)
}

// NewInsufficientStockError creates an InsufficientStockError.
func NewInsufficientStockError(productName string, available, requested int) *InsufficientStockError {
	return &InsufficientStockError{
		ProductName: productName,
		Available:   available,
		Requested:   requested,
	}
}

// ConflictError reports a transaction that lost a concurrency race and was
// aborted by the database (serialization failure).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// NewConflictError creates a ConflictError with the given message.
func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsInsufficientStock reports whether err is an InsufficientStockError.
func IsInsufficientStock(err error) bool {
	var is *InsufficientStockError
	return errors.As(err, &is)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
