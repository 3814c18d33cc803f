package context

import (
	"context"

	"github.com/randalmurphal/resumeflow/llm"
	"github.com/randalmurphal/resumeflow/prompt"
	"github.com/randalmurphal/resumeflow/transcript"
)

// =============================================================================
// Context Injection Helpers
// =============================================================================
// These helpers allow resumeflow services to be injected into context.Context
// for use by workflow nodes.

// serviceContextKey is a private type for context keys to avoid collisions
type serviceContextKey string

// Context keys for resumeflow services
const (
	llmServiceKey        serviceContextKey = "resumeflow.llm"
	transcriptServiceKey serviceContextKey = "resumeflow.transcripts"
	promptServiceKey     serviceContextKey = "resumeflow.prompts"
)

// WithLLM adds an LLM client to the context.
func WithLLM(ctx context.Context, client llm.Client) context.Context {
	return context.WithValue(ctx, llmServiceKey, client)
}

// LLM extracts the LLM client from context.
func LLM(ctx context.Context) llm.Client {
	if client, ok := ctx.Value(llmServiceKey).(llm.Client); ok {
		return client
	}
	return nil
}

// MustLLM extracts the LLM client or panics.
func MustLLM(ctx context.Context) llm.Client {
	client := LLM(ctx)
	if client == nil {
		panic("resumeflow/context: llm.Client not found in context")
	}
	return client
}

// WithTranscript adds a transcript manager to the context
func WithTranscript(ctx context.Context, mgr transcript.Manager) context.Context {
	return context.WithValue(ctx, transcriptServiceKey, mgr)
}

// Transcript extracts transcript manager from context
func Transcript(ctx context.Context) transcript.Manager {
	if mgr, ok := ctx.Value(transcriptServiceKey).(transcript.Manager); ok {
		return mgr
	}
	return nil
}

// MustTranscript extracts transcript manager or panics
func MustTranscript(ctx context.Context) transcript.Manager {
	mgr := Transcript(ctx)
	if mgr == nil {
		panic("resumeflow/context: transcript.Manager not found in context")
	}
	return mgr
}

// WithPrompt adds a prompt loader to the context
func WithPrompt(ctx context.Context, loader *prompt.Loader) context.Context {
	return context.WithValue(ctx, promptServiceKey, loader)
}

// Prompt extracts prompt loader from context
func Prompt(ctx context.Context) *prompt.Loader {
	if loader, ok := ctx.Value(promptServiceKey).(*prompt.Loader); ok {
		return loader
	}
	return nil
}

// MustPrompt extracts prompt loader or panics
func MustPrompt(ctx context.Context) *prompt.Loader {
	loader := Prompt(ctx)
	if loader == nil {
		panic("resumeflow/context: prompt.Loader not found in context")
	}
	return loader
}
