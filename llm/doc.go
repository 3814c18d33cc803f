// Package llm is the gateway to LLM providers.
//
// Core types:
//   - Client: Interface every provider implements (Complete/Close)
//   - Message: Role-tagged conversation entry (RoleSystem, RoleHuman)
//   - CompletionRequest / CompletionResponse: One call in, one result out
//   - ResponseSchema: Declares and enforces JSON output
//   - Config: Provider, models, key, sampling knobs; passed explicitly to
//     constructors, never read from the environment inside clients
//
// Implementations:
//   - GeminiClient: Google Gemini via generative-ai-go
//   - ClaudeClient: Anthropic via anthropic-sdk-go
//   - MockClient: Scripted responses for tests
//
// When a request declares a ResponseSchema, the client strips Markdown code
// fences from the model output and validates it against the schema before
// returning; failures surface as *SchemaValidationError with field-level
// detail. Decode unmarshals validated content into a target struct.
//
// Example usage:
//
//	client, err := llm.NewClient(ctx, llm.Config{
//	    Provider: llm.ProviderGemini,
//	    APIKey:   key,
//	})
//	resp, err := client.Complete(ctx, llm.CompletionRequest{
//	    SystemPrompt: "You are a resume writer.",
//	    Messages:     []llm.Message{{Role: llm.RoleHuman, Content: jobPost}},
//	    Schema:       &qualificationsSchema,
//	})
package llm
