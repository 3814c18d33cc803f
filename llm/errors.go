package llm

import (
	"errors"
	"fmt"
	"strings"
)

// Gateway errors.
var (
	// ErrNoAPIKey indicates a provider client was constructed without a key.
	ErrNoAPIKey = errors.New("api key is required")

	// ErrEmptyResponse indicates the provider returned no usable text.
	ErrEmptyResponse = errors.New("empty model response")

	// ErrUnknownProvider indicates Config.Provider names no known client.
	ErrUnknownProvider = errors.New("unknown provider")
)

// FieldError is a single schema violation at a field path.
type FieldError struct {
	Field   string
	Message string
}

// SchemaValidationError reports model output that failed its declared
// response schema: either not parseable at all (Cause set) or valid JSON
// violating the schema (Errors set).
type SchemaValidationError struct {
	Schema string // schema name
	Errors []FieldError
	Cause  error
}

func (e *SchemaValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("response failed schema %q: %v", e.Schema, e.Cause)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "response failed schema %q:\n", e.Schema)
	for i, fe := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s: %s\n", i+1, fe.Field, fe.Message)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func (e *SchemaValidationError) Unwrap() error { return e.Cause }

// IsSchemaValidation reports whether err is (or wraps) a
// SchemaValidationError.
func IsSchemaValidation(err error) bool {
	var sve *SchemaValidationError
	return errors.As(err, &sve)
}
