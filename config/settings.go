package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/randalmurphal/resumeflow/llm"
)

// Settings is the typed view of resolved configuration.
type Settings struct {
	Provider      string
	Model         string
	FastModel     string
	APIKeyEnv     string
	Temperature   float32
	MaxTokens     int
	RevisionLimit int
	CheckpointDir string
	CheckpointDB  string
	TranscriptDir string
	NotifyWebhook string
}

// Settings parses the resolved string values into their typed form.
// Parse failures name the offending key so the user can find it with Dump.
func (c *Resolved) Settings() (Settings, error) {
	s := Settings{
		Provider:      c.Get(KeyProvider),
		Model:         c.Get(KeyModel),
		FastModel:     c.Get(KeyFastModel),
		APIKeyEnv:     c.Get(KeyAPIKeyEnv),
		CheckpointDir: c.Get(KeyCheckpointDir),
		CheckpointDB:  c.Get(KeyCheckpointDB),
		TranscriptDir: c.Get(KeyTranscriptDir),
		NotifyWebhook: c.Get(KeyNotifyWebhook),
	}

	if v := c.Get(KeyTemperature); v != "" {
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return Settings{}, fmt.Errorf("invalid %s %q: %w", KeyTemperature, v, err)
		}
		s.Temperature = float32(f)
	}

	if v := c.Get(KeyMaxTokens); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Settings{}, fmt.Errorf("invalid %s %q: %w", KeyMaxTokens, v, err)
		}
		s.MaxTokens = n
	}

	if v := c.Get(KeyRevisionLimit); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Settings{}, fmt.Errorf("invalid %s %q: %w", KeyRevisionLimit, v, err)
		}
		s.RevisionLimit = n
	}

	return s, nil
}

// Validate checks settings that have no usable zero value.
func (s Settings) Validate() error {
	switch s.Provider {
	case llm.ProviderGemini, llm.ProviderClaude:
	default:
		return fmt.Errorf("%w: %q", llm.ErrUnknownProvider, s.Provider)
	}
	if s.RevisionLimit < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", KeyRevisionLimit, s.RevisionLimit)
	}
	if s.Temperature < 0 || s.Temperature > 2 {
		return fmt.Errorf("%s must be between 0 and 2, got %g", KeyTemperature, s.Temperature)
	}
	return nil
}

// APIKeyVar returns the environment variable the provider key is read from.
// Explicit api_key_env wins; otherwise the provider picks its own.
func (s Settings) APIKeyVar() string {
	if s.APIKeyEnv != "" {
		return s.APIKeyEnv
	}
	if s.Provider == llm.ProviderClaude {
		return "ANTHROPIC_API_KEY"
	}
	return "GEMINI_API_KEY"
}

// APIKey reads the provider key from the environment. Config files never
// hold the key itself, only the variable name.
func (s Settings) APIKey() string {
	return os.Getenv(s.APIKeyVar())
}

// LLM bridges settings into the client config the llm package consumes.
// The environment is read here so clients never touch os.Getenv themselves.
func (s Settings) LLM() llm.Config {
	return llm.Config{
		Provider:    s.Provider,
		Model:       s.Model,
		FastModel:   s.FastModel,
		APIKey:      s.APIKey(),
		Temperature: s.Temperature,
		MaxTokens:   s.MaxTokens,
	}
}
