// Package http provides the retrying HTTP client behind webhook delivery.
package http

import (
	"errors"
	"fmt"
	"time"
)

// Standard sentinel errors for delivery endpoints.
var (
	// ErrNotFound indicates the endpoint URL points at nothing.
	ErrNotFound = errors.New("endpoint not found")

	// ErrUnauthorized indicates the receiver rejected the credentials.
	ErrUnauthorized = errors.New("authentication failed")

	// ErrForbidden indicates the receiver refused the delivery.
	ErrForbidden = errors.New("permission denied")

	// ErrRateLimited indicates the receiver is throttling deliveries.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrBadRequest indicates the receiver rejected the payload.
	ErrBadRequest = errors.New("bad request")

	// ErrServerError indicates the receiver failed internally.
	ErrServerError = errors.New("server error")
)

// DeliveryError represents an error response from a delivery endpoint.
type DeliveryError struct {
	// Endpoint is the label of the receiving endpoint (e.g., "webhook").
	Endpoint string

	// StatusCode is the HTTP status code returned.
	StatusCode int

	// Message is the error message from the receiver.
	Message string

	// RequestID is the receiver's request ID for debugging (if available).
	RequestID string
}

// Error implements the error interface.
func (e *DeliveryError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("%s delivery failed (%d) [%s]: %s",
			e.Endpoint, e.StatusCode, e.RequestID, e.Message)
	}
	return fmt.Sprintf("%s delivery failed (%d): %s",
		e.Endpoint, e.StatusCode, e.Message)
}

// Unwrap returns the underlying sentinel error based on status code.
func (e *DeliveryError) Unwrap() error {
	switch e.StatusCode {
	case 400:
		return ErrBadRequest
	case 401:
		return ErrUnauthorized
	case 403:
		return ErrForbidden
	case 404:
		return ErrNotFound
	case 429:
		return ErrRateLimited
	default:
		if e.StatusCode >= 500 {
			return ErrServerError
		}
		return nil
	}
}

// RateLimitError represents the receiver throttling deliveries.
type RateLimitError struct {
	// Endpoint is the label of the throttling endpoint.
	Endpoint string

	// RetryAfter is how long the receiver asked us to wait.
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s rate limited, retry after %s", e.Endpoint, e.RetryAfter)
	}
	return fmt.Sprintf("%s rate limited", e.Endpoint)
}

// Unwrap returns ErrRateLimited.
func (e *RateLimitError) Unwrap() error {
	return ErrRateLimited
}

// IsNotFound reports whether the error indicates a dead endpoint URL.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnauthorized reports whether the error indicates rejected credentials.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsRateLimited reports whether the error indicates throttling.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsRetryable reports whether the error is transient and a later delivery
// attempt may succeed.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimited) || errors.Is(err, ErrServerError) {
		return true
	}

	var dErr *DeliveryError
	if errors.As(err, &dErr) {
		return dErr.StatusCode >= 500 && dErr.StatusCode < 600
	}

	return false
}
