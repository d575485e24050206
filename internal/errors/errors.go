// Package errors provides domain-specific error types and sentinel errors
// for improved error handling across the application.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common scenarios.
// Use errors.Is() to check these errors in your code.
var (
	// ErrNotFound indicates a requested resource was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrEmptyCart indicates a checkout was attempted with no items in the cart.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrSubmissionInFlight indicates an order submission is already in progress.
	ErrSubmissionInFlight = errors.New("order submission already in progress")

	// ErrSubmissionCanceled indicates a pending order submission was canceled.
	ErrSubmissionCanceled = errors.New("order submission canceled")

	// ErrCheckoutClosed indicates an operation that requires an open checkout.
	ErrCheckoutClosed = errors.New("checkout is not open")

	// ErrRateLimitExceeded indicates rate limit has been exceeded.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrInvalidInput indicates user provided invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrContextCanceled indicates context was canceled.
	ErrContextCanceled = errors.New("context canceled")
)

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsEmptyCart reports whether err is or wraps ErrEmptyCart.
func IsEmptyCart(err error) bool {
	return errors.Is(err, ErrEmptyCart)
}

// IsSubmissionInFlight reports whether err is or wraps ErrSubmissionInFlight.
func IsSubmissionInFlight(err error) bool {
	return errors.Is(err, ErrSubmissionInFlight)
}

// IsRateLimitExceeded reports whether err is or wraps ErrRateLimitExceeded.
func IsRateLimitExceeded(err error) bool {
	return errors.Is(err, ErrRateLimitExceeded)
}

// IsInvalidInput reports whether err is or wraps ErrInvalidInput.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// ValidationError represents input validation failures.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// Is allows errors.Is(err, ErrInvalidInput) to match validation errors.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// AsValidationError returns the *ValidationError in err's chain, if any.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// SubmissionError represents an order submission failure reported by the
// order endpoint. The cart is left intact so the order can be retried.
type SubmissionError struct {
	OrderID string
	Err     error
}

func (e *SubmissionError) Error() string {
	if e.OrderID != "" {
		return fmt.Sprintf("order submission failed (order=%s): %v", e.OrderID, e.Err)
	}
	return fmt.Sprintf("order submission failed: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// NewSubmissionError creates a new submission error.
func NewSubmissionError(orderID string, err error) *SubmissionError {
	return &SubmissionError{
		OrderID: orderID,
		Err:     err,
	}
}
