// Package context provides dependency injection for workflow services.
//
// Core types:
//   - Services: Collection of all resumeflow services for injection
//
// Context injection functions:
//   - WithLLM/LLM/MustLLM: LLM client injection
//   - WithTranscript/Transcript/MustTranscript: Transcript manager injection
//   - WithPrompt/Prompt/MustPrompt: Prompt loader injection
//
// Notifiers travel on the context through the notify package itself
// (notify.WithNotifier); InjectAll wires them alongside the rest.
//
// The package also reads user-supplied documents (job posts, resumes)
// from disk with a size cap and binary rejection, see ReadDocument.
//
// Example usage:
//
//	services := &context.Services{
//	    LLM:         llmClient,
//	    Transcripts: transcriptStore,
//	    Prompts:     promptLoader,
//	}
//	ctx := services.InjectAll(ctx)
//
//	// Later, inside a workflow node
//	client := context.MustLLM(ctx)
package context
