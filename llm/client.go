package llm

import (
	"context"
	"fmt"
)

// =============================================================================
// Messages
// =============================================================================

// Role identifies the author of a conversation message.
type Role string

// Role constants.
const (
	RoleSystem Role = "system"
	RoleHuman  Role = "human"
)

// Message is one role-tagged entry in a completion request.
type Message struct {
	Role    Role
	Content string
}

// Tier selects which configured model serves a request.
type Tier string

// Tier constants.
const (
	// TierDefault uses Config.Model.
	TierDefault Tier = "default"
	// TierFast uses Config.FastModel, falling back to Config.Model.
	TierFast Tier = "fast"
)

// CompletionRequest is one call to a provider.
type CompletionRequest struct {
	SystemPrompt string
	Messages     []Message
	Schema       *ResponseSchema // non-nil requests validated JSON output
	Tier         Tier
}

// Usage reports token consumption for a completion.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// CompletionResponse is the provider's answer: the (schema-validated, when
// requested) text content plus the model that produced it.
type CompletionResponse struct {
	Content string
	Model   string
	Usage   Usage
}

// =============================================================================
// Client Interface
// =============================================================================

// Client is the provider abstraction the workflow nodes call.
type Client interface {
	// Complete runs one completion. When the request declares a Schema,
	// the returned Content has already passed validation.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// Close releases any resources held by the client.
	Close() error
}

// =============================================================================
// Configuration
// =============================================================================

// Provider names accepted by NewClient.
const (
	ProviderGemini = "gemini"
	ProviderClaude = "anthropic"
)

// Default models and sampling parameters.
const (
	DefaultGeminiModel     = "gemini-2.5-flash"
	DefaultGeminiFastModel = "gemini-2.5-flash-lite"
	DefaultClaudeModel     = "claude-sonnet-4-20250514"
	DefaultClaudeFastModel = "claude-haiku-4-20250514"
	DefaultMaxTokens       = 4096
	DefaultTemperature     = 0.1
)

// Config holds provider settings. It is passed explicitly to constructors;
// clients never read the environment themselves.
type Config struct {
	Provider    string
	Model       string
	FastModel   string
	APIKey      string
	Temperature float32
	MaxTokens   int
}

// ModelFor returns the model serving the given tier.
func (c Config) ModelFor(tier Tier) string {
	if tier == TierFast && c.FastModel != "" {
		return c.FastModel
	}
	return c.Model
}

// withDefaults fills zero-valued fields with provider-appropriate defaults.
func (c Config) withDefaults() Config {
	if c.Provider == "" {
		c.Provider = ProviderGemini
	}
	switch c.Provider {
	case ProviderGemini:
		if c.Model == "" {
			c.Model = DefaultGeminiModel
		}
		if c.FastModel == "" {
			c.FastModel = DefaultGeminiFastModel
		}
	case ProviderClaude:
		if c.Model == "" {
			c.Model = DefaultClaudeModel
		}
		if c.FastModel == "" {
			c.FastModel = DefaultClaudeFastModel
		}
	}
	if c.Temperature == 0 {
		c.Temperature = DefaultTemperature
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	return c
}

// NewClient creates a provider client from configuration.
func NewClient(ctx context.Context, cfg Config) (Client, error) {
	cfg = cfg.withDefaults()
	switch cfg.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, cfg)
	case ProviderClaude:
		return NewClaudeClient(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}
