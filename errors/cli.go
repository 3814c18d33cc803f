package errors

import (
	"fmt"
	"strings"
)

// CLIError wraps an error with user-friendly context and suggestions.
type CLIError struct {
	// Err is the underlying error
	Err error

	// Message is a user-friendly description of what went wrong
	Message string

	// Suggestion is an actionable hint for the user
	Suggestion string

	// Details provides additional context (optional)
	Details string
}

func (e *CLIError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)

	if e.Details != "" {
		sb.WriteString("\n")
		sb.WriteString(e.Details)
	}

	if e.Suggestion != "" {
		sb.WriteString("\n\n")
		sb.WriteString(e.Suggestion)
	}

	return sb.String()
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// WrapProviderError wraps LLM provider failures with helpful guidance.
// Unrecognized errors pass through unchanged.
func WrapProviderError(err error, provider string) error {
	if err == nil {
		return nil
	}

	errStr := strings.ToLower(err.Error())

	if strings.Contains(errStr, "api key") {
		return &CLIError{
			Err:     ErrMissingAPIKey,
			Message: fmt.Sprintf("No API key available for provider %q.", provider),
			Suggestion: "Export GEMINI_API_KEY or ANTHROPIC_API_KEY for your provider,\n" +
				"or point api_key_env in .resumeflow.yaml at another variable.",
		}
	}

	if strings.Contains(errStr, "unknown provider") {
		return &CLIError{
			Err:        err,
			Message:    fmt.Sprintf("Unknown provider %q.", provider),
			Suggestion: "Valid providers are \"gemini\" and \"anthropic\".",
		}
	}

	if strings.Contains(errStr, "quota") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "resource exhausted") ||
		strings.Contains(errStr, "429") {
		return &CLIError{
			Err:     ErrRateLimited,
			Message: fmt.Sprintf("The %s API is rate limiting requests.", provider),
			Suggestion: "Wait a moment and try again. A paused run keeps its checkpoint,\n" +
				"so resuming the same thread picks up where it stopped.",
		}
	}

	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "network is unreachable") ||
		strings.Contains(errStr, "dial tcp") ||
		strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") {
		return &CLIError{
			Err:        ErrProviderUnavailable,
			Message:    fmt.Sprintf("Cannot reach the %s API.", provider),
			Details:    err.Error(),
			Suggestion: "Check your network connection and try again.",
		}
	}

	return err
}

// WrapThreadError wraps checkpoint lookup failures for a thread.
func WrapThreadError(err error, threadID string) error {
	if err == nil {
		return nil
	}

	if strings.Contains(strings.ToLower(err.Error()), "not found") {
		return &CLIError{
			Err:        ErrThreadNotFound,
			Message:    fmt.Sprintf("No paused run found for thread %q.", threadID),
			Suggestion: "List runs and their threads with 'resumeflow runs'.",
		}
	}

	return err
}

// WrapRunError wraps transcript lookup failures for a run ID.
func WrapRunError(err error, runID string) error {
	if err == nil {
		return nil
	}

	if strings.Contains(strings.ToLower(err.Error()), "not found") {
		return &CLIError{
			Err:        ErrRunNotFound,
			Message:    fmt.Sprintf("No recorded run %q.", runID),
			Suggestion: "List recorded runs with 'resumeflow runs'.",
		}
	}

	return err
}

// NewMissingAPIKeyError reports an unset key variable before any API call is
// attempted.
func NewMissingAPIKeyError(envVar string) error {
	return &CLIError{
		Err:     ErrMissingAPIKey,
		Message: fmt.Sprintf("Environment variable %s is not set.", envVar),
		Suggestion: fmt.Sprintf("Export %s with your provider API key,\n"+
			"or point api_key_env in .resumeflow.yaml at another variable.", envVar),
	}
}
