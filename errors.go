package resumeflow

import "errors"

// Workflow service errors
var (
	// ErrNoLLMClient indicates no LLM client was injected into the context.
	ErrNoLLMClient = errors.New("llm.Client not found in context")

	// ErrNoPromptLoader indicates no prompt loader was injected into the context.
	ErrNoPromptLoader = errors.New("prompt.Loader not found in context")

	// ErrClientRequired indicates the studio was built without an LLM client.
	ErrClientRequired = errors.New("llm client is required (use WithClient)")
)

// InputError reports invalid caller input to an invocation.
type InputError struct {
	Field string // struct field that failed validation
	Rule  string // validation rule that rejected it
}

func (e *InputError) Error() string {
	return "invalid input: " + e.Field + " failed " + e.Rule
}
