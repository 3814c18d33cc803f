package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// ClaudeClient implements Client for the Anthropic Messages API.
type ClaudeClient struct {
	client anthropic.Client
	cfg    Config
}

// NewClaudeClient creates an Anthropic-backed client.
func NewClaudeClient(cfg Config) (*ClaudeClient, error) {
	cfg = cfg.withDefaults()
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("claude: %w", ErrNoAPIKey)
	}

	return &ClaudeClient{
		client: anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		cfg:    cfg,
	}, nil
}

// Complete implements Client.
func (c *ClaudeClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	name := c.cfg.ModelFor(req.Tier)

	system := req.SystemPrompt
	var messages []anthropic.MessageParam
	for _, m := range req.Messages {
		if m.Role == RoleSystem {
			if system == "" {
				system = m.Content
			} else {
				system += "\n\n" + m.Content
			}
			continue
		}
		messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
	}
	if len(messages) == 0 {
		return nil, fmt.Errorf("claude: request has no messages")
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(name),
		MaxTokens: int64(c.cfg.MaxTokens),
		Messages:  messages,
	}
	if system != "" {
		// Cache the system prompt; revision loops resend it unchanged.
		params.System = []anthropic.TextBlockParam{
			{
				Type: "text",
				Text: system,
				CacheControl: anthropic.CacheControlEphemeralParam{
					Type: "ephemeral",
				},
			},
		}
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, formatClaudeError(err, name)
	}
	if len(message.Content) == 0 {
		return nil, fmt.Errorf("claude: %w", ErrEmptyResponse)
	}

	var content string
	for _, block := range message.Content {
		if block.Type == "text" {
			content = block.Text
			break
		}
	}
	if content == "" {
		return nil, fmt.Errorf("claude: %w: no text block", ErrEmptyResponse)
	}

	if req.Schema != nil {
		content = cleanJSONBlock(content)
		if err := req.Schema.Validate(content); err != nil {
			return nil, err
		}
	}

	return &CompletionResponse{
		Content: content,
		Model:   name,
		Usage: Usage{
			InputTokens:  int(message.Usage.InputTokens),
			OutputTokens: int(message.Usage.OutputTokens),
		},
	}, nil
}

// Close implements Client. The underlying HTTP client needs no cleanup.
func (c *ClaudeClient) Close() error { return nil }

// formatClaudeError converts API errors to actionable messages.
func formatClaudeError(err error, model string) error {
	if err == nil {
		return nil
	}
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "401") || strings.Contains(errStr, "authentication_error"):
		return fmt.Errorf("claude: invalid API key: %w", err)
	case strings.Contains(errStr, "403") || strings.Contains(errStr, "permission_denied"):
		return fmt.Errorf("claude: key does not have access to model %q: %w", model, err)
	case strings.Contains(errStr, "404") || strings.Contains(errStr, "not_found"):
		return fmt.Errorf("claude: model %q not found: %w", model, err)
	case strings.Contains(errStr, "rate_limit"):
		return fmt.Errorf("claude: rate limit exceeded for model %q: %w", model, err)
	case strings.Contains(errStr, "overloaded") || strings.Contains(errStr, "529"):
		return fmt.Errorf("claude: service overloaded: %w", err)
	default:
		return fmt.Errorf("claude: %w", err)
	}
}
