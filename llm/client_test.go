package llm

import (
	"context"
	"errors"
	"testing"
)

func TestConfig_ModelFor(t *testing.T) {
	cfg := Config{Model: "big-model", FastModel: "small-model"}

	tests := []struct {
		name string
		tier Tier
		cfg  Config
		want string
	}{
		{"default tier", TierDefault, cfg, "big-model"},
		{"fast tier", TierFast, cfg, "small-model"},
		{"fast without fast model", TierFast, Config{Model: "big-model"}, "big-model"},
		{"zero tier", "", cfg, "big-model"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.ModelFor(tt.tier); got != tt.want {
				t.Errorf("ModelFor(%q) = %q, want %q", tt.tier, got, tt.want)
			}
		})
	}
}

func TestConfig_Defaults(t *testing.T) {
	got := Config{}.withDefaults()
	if got.Provider != ProviderGemini {
		t.Errorf("Provider = %q, want %q", got.Provider, ProviderGemini)
	}
	if got.Model != DefaultGeminiModel || got.FastModel != DefaultGeminiFastModel {
		t.Errorf("models = %q/%q, want gemini defaults", got.Model, got.FastModel)
	}
	if got.MaxTokens != DefaultMaxTokens {
		t.Errorf("MaxTokens = %d, want %d", got.MaxTokens, DefaultMaxTokens)
	}

	got = Config{Provider: ProviderClaude}.withDefaults()
	if got.Model != DefaultClaudeModel || got.FastModel != DefaultClaudeFastModel {
		t.Errorf("models = %q/%q, want claude defaults", got.Model, got.FastModel)
	}

	// Explicit settings survive.
	got = Config{Provider: ProviderGemini, Model: "custom", MaxTokens: 128}.withDefaults()
	if got.Model != "custom" || got.MaxTokens != 128 {
		t.Errorf("explicit settings overridden: %+v", got)
	}
}

func TestNewClient_UnknownProvider(t *testing.T) {
	_, err := NewClient(context.Background(), Config{Provider: "carrier-pigeon"})
	if !errors.Is(err, ErrUnknownProvider) {
		t.Errorf("NewClient() error = %v, want ErrUnknownProvider", err)
	}
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	for _, provider := range []string{ProviderGemini, ProviderClaude} {
		t.Run(provider, func(t *testing.T) {
			_, err := NewClient(context.Background(), Config{Provider: provider})
			if !errors.Is(err, ErrNoAPIKey) {
				t.Errorf("NewClient() error = %v, want ErrNoAPIKey", err)
			}
		})
	}
}
