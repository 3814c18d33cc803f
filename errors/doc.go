// Package errors provides CLI error patterns with user-friendly messaging.
//
// Core type:
//   - CLIError: Wraps errors with message, suggestion, and details
//
// Sentinel errors for common scenarios:
//   - ErrMissingAPIKey: No provider API key in the environment
//   - ErrRateLimited: The provider is throttling requests
//   - ErrProviderUnavailable: The provider API is unreachable
//   - ErrThreadNotFound: No paused run exists for a thread
//   - ErrRunNotFound: No recorded run exists for an ID
//
// Example usage:
//
//	// Wrap a provider failure with actionable guidance
//	if _, err := studio.Invoke(ctx, in); err != nil {
//	    return errors.WrapProviderError(err, settings.Provider)
//	}
//
//	// Check error types
//	if errors.IsRateLimited(err) {
//	    // Back off and resume the thread later
//	}
package errors
