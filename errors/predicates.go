package errors

import (
	"errors"
	"strings"
)

// IsMissingAPIKey checks if an error is a missing-credential problem.
func IsMissingAPIKey(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrMissingAPIKey) {
		return true
	}

	return strings.Contains(strings.ToLower(err.Error()), "api key")
}

// IsRateLimited checks if an error is provider throttling.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrRateLimited) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "quota") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "resource exhausted") ||
		strings.Contains(errStr, "429")
}

// IsProviderUnavailable checks if an error is connectivity-related.
// This includes timeouts and network connectivity issues.
func IsProviderUnavailable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrProviderUnavailable) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "network is unreachable") ||
		strings.Contains(errStr, "dial tcp") ||
		strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded")
}

// IsThreadNotFound checks if an error means a thread has no paused run.
func IsThreadNotFound(err error) bool {
	return err != nil && errors.Is(err, ErrThreadNotFound)
}

// IsRunNotFound checks if an error means a run ID has no transcript.
func IsRunNotFound(err error) bool {
	return err != nil && errors.Is(err, ErrRunNotFound)
}
