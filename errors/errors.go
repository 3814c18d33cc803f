package errors

import "errors"

// Common CLI errors with actionable guidance.
var (
	// ErrMissingAPIKey indicates no provider API key was found.
	ErrMissingAPIKey = errors.New("api key not set")

	// ErrRateLimited indicates the provider is throttling requests.
	ErrRateLimited = errors.New("rate limited")

	// ErrProviderUnavailable indicates the provider API is unreachable.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrThreadNotFound indicates no paused run exists for a thread.
	ErrThreadNotFound = errors.New("thread not found")

	// ErrRunNotFound indicates no recorded run exists for an ID.
	ErrRunNotFound = errors.New("run not found")
)
