package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/randalmurphal/resumeflow/llm"
)

func TestResolver_Defaults(t *testing.T) {
	resolver := NewResolverWithPaths("", "")

	cfg := resolver.Resolve()

	if got := cfg.Get(KeyProvider); got != "gemini" {
		t.Errorf("provider = %q, want %q", got, "gemini")
	}
	if got := cfg.Get(KeyRevisionLimit); got != "2" {
		t.Errorf("revision_limit = %q, want %q", got, "2")
	}
	if got := cfg.Get(KeyMaxTokens); got != "4096" {
		t.Errorf("max_tokens = %q, want %q", got, "4096")
	}
	if got := cfg.Source(KeyProvider); got != SourceDefault {
		t.Errorf("source = %q, want %q", got, SourceDefault)
	}
}

func TestResolver_EnvOverridesDefaults(t *testing.T) {
	os.Setenv("RESUMEFLOW_PROVIDER", "anthropic")
	defer os.Unsetenv("RESUMEFLOW_PROVIDER")

	resolver := NewResolverWithPaths("", "")

	cfg := resolver.Resolve()

	if got := cfg.Get(KeyProvider); got != "anthropic" {
		t.Errorf("provider = %q, want %q", got, "anthropic")
	}
	if got := cfg.Source(KeyProvider); got != SourceEnv {
		t.Errorf("source = %q, want %q", got, SourceEnv)
	}
}

func TestResolver_GlobalConfig(t *testing.T) {
	tmpDir := t.TempDir()
	globalConfig := filepath.Join(tmpDir, GlobalConfigName)
	os.WriteFile(globalConfig, []byte("provider: anthropic\nmodel: claude-sonnet-4-20250514\n"), 0644)

	resolver := NewResolverWithPaths(globalConfig, "")

	cfg := resolver.Resolve()

	if got := cfg.Get(KeyModel); got != "claude-sonnet-4-20250514" {
		t.Errorf("model = %q, want %q", got, "claude-sonnet-4-20250514")
	}
	if got := cfg.Source(KeyModel); got != SourceGlobal {
		t.Errorf("source = %q, want %q", got, SourceGlobal)
	}
}

func TestResolver_LocalOverridesGlobal(t *testing.T) {
	tmpDir := t.TempDir()

	globalConfig := filepath.Join(tmpDir, GlobalConfigName)
	os.WriteFile(globalConfig, []byte("revision_limit: 5\n"), 0644)

	localConfig := filepath.Join(tmpDir, LocalConfigName)
	os.WriteFile(localConfig, []byte("revision_limit: 3\n"), 0644)

	resolver := NewResolverWithPaths(globalConfig, localConfig)

	cfg := resolver.Resolve()

	if got := cfg.Get(KeyRevisionLimit); got != "3" {
		t.Errorf("revision_limit = %q, want %q", got, "3")
	}
	if got := cfg.Source(KeyRevisionLimit); got != SourceLocal {
		t.Errorf("source = %q, want %q", got, SourceLocal)
	}
}

func TestResolver_Priority(t *testing.T) {
	tmpDir := t.TempDir()

	globalConfig := filepath.Join(tmpDir, GlobalConfigName)
	os.WriteFile(globalConfig, []byte("model: from-global\n"), 0644)

	localConfig := filepath.Join(tmpDir, LocalConfigName)
	os.WriteFile(localConfig, []byte("model: from-local\n"), 0644)

	os.Setenv("RESUMEFLOW_MODEL", "from-env")
	defer os.Unsetenv("RESUMEFLOW_MODEL")

	resolver := NewResolverWithPaths(globalConfig, localConfig)

	cfg := resolver.Resolve()

	// Env should win
	if got := cfg.Get(KeyModel); got != "from-env" {
		t.Errorf("model = %q, want %q (env should have highest priority)", got, "from-env")
	}
}

func TestResolver_ResolveWithFlags(t *testing.T) {
	resolver := NewResolverWithPaths("", "")

	cfg := resolver.ResolveWithFlags(map[string]string{
		KeyProvider: "anthropic",
	})

	if got := cfg.Get(KeyProvider); got != "anthropic" {
		t.Errorf("provider = %q, want %q", got, "anthropic")
	}
	if got := cfg.Source(KeyProvider); got != SourceFlag {
		t.Errorf("source = %q, want %q", got, SourceFlag)
	}
}

func TestResolver_UnknownKeyWarns(t *testing.T) {
	tmpDir := t.TempDir()
	localConfig := filepath.Join(tmpDir, LocalConfigName)
	os.WriteFile(localConfig, []byte("provider: anthropic\nmystery_key: value\n"), 0644)

	resolver := NewResolverWithPaths("", localConfig)
	resolver.SetErrWriter(io.Discard)

	cfg := resolver.Resolve()

	if got := cfg.Get("mystery_key"); got != "" {
		t.Errorf("mystery_key = %q, want empty", got)
	}
	if len(resolver.Warnings) != 1 {
		t.Fatalf("got %d warnings, want 1: %v", len(resolver.Warnings), resolver.Warnings)
	}
	if !strings.Contains(resolver.Warnings[0], "mystery_key") {
		t.Errorf("warning %q does not name the unknown key", resolver.Warnings[0])
	}
	// The valid key still applies
	if got := cfg.Get(KeyProvider); got != "anthropic" {
		t.Errorf("provider = %q, want %q", got, "anthropic")
	}
}

func TestResolver_MalformedFileWarns(t *testing.T) {
	tmpDir := t.TempDir()
	localConfig := filepath.Join(tmpDir, LocalConfigName)
	os.WriteFile(localConfig, []byte(":\tnot yaml {{{\n"), 0644)

	resolver := NewResolverWithPaths("", localConfig)
	resolver.SetErrWriter(io.Discard)

	cfg := resolver.Resolve()

	// Defaults survive a broken file
	if got := cfg.Get(KeyProvider); got != "gemini" {
		t.Errorf("provider = %q, want %q", got, "gemini")
	}
	if len(resolver.Warnings) == 0 {
		t.Error("expected a parse warning")
	}
}

func TestResolver_NumericValues(t *testing.T) {
	tmpDir := t.TempDir()
	localConfig := filepath.Join(tmpDir, LocalConfigName)
	os.WriteFile(localConfig, []byte("temperature: 0.7\nmax_tokens: 2048\n"), 0644)

	resolver := NewResolverWithPaths("", localConfig)

	cfg := resolver.Resolve()

	if got := cfg.Get(KeyTemperature); got != "0.7" {
		t.Errorf("temperature = %q, want %q", got, "0.7")
	}
	if got := cfg.Get(KeyMaxTokens); got != "2048" {
		t.Errorf("max_tokens = %q, want %q", got, "2048")
	}
}

func TestResolved_All(t *testing.T) {
	resolver := NewResolverWithPaths("", "")

	cfg := resolver.Resolve()
	all := cfg.All()

	if len(all) != len(Defaults()) {
		t.Errorf("got %d keys, want %d", len(all), len(Defaults()))
	}
	if all[KeyProvider] != "gemini" {
		t.Errorf("provider = %q, want %q", all[KeyProvider], "gemini")
	}
}

func TestResolved_Keys_Sorted(t *testing.T) {
	resolver := NewResolverWithPaths("", "")

	cfg := resolver.Resolve()
	keys := cfg.Keys()

	for i := 1; i < len(keys); i++ {
		if keys[i-1] > keys[i] {
			t.Fatalf("keys not sorted: %v", keys)
		}
	}
}

func TestResolved_Dump(t *testing.T) {
	resolver := NewResolverWithPaths("", "")

	cfg := resolver.Resolve()

	var buf bytes.Buffer
	cfg.Dump(&buf)

	out := buf.String()
	if !strings.Contains(out, "provider") || !strings.Contains(out, "(default)") {
		t.Errorf("dump missing provider default line:\n%s", out)
	}
	// Keys without values still appear
	if !strings.Contains(out, "notify_webhook") {
		t.Errorf("dump missing unset key notify_webhook:\n%s", out)
	}
}

func TestFindLocalConfig(t *testing.T) {
	tmpDir := t.TempDir()

	// Create nested directories
	nested := filepath.Join(tmpDir, "a", "b", "c")
	os.MkdirAll(nested, 0755)

	// Create config in root
	configPath := filepath.Join(tmpDir, LocalConfigName)
	os.WriteFile(configPath, []byte("provider: gemini\n"), 0644)

	// Find from nested directory
	found := findLocalConfig(nested)
	if found != configPath {
		t.Errorf("findLocalConfig() = %q, want %q", found, configPath)
	}
}

func TestFindLocalConfig_NotFound(t *testing.T) {
	tmpDir := t.TempDir()

	found := findLocalConfig(tmpDir)
	if found != "" {
		t.Errorf("findLocalConfig() = %q, want empty", found)
	}
}

func TestResolved_Settings(t *testing.T) {
	tmpDir := t.TempDir()
	localConfig := filepath.Join(tmpDir, LocalConfigName)
	os.WriteFile(localConfig, []byte(`provider: anthropic
model: claude-sonnet-4-20250514
temperature: 0.3
max_tokens: 8192
revision_limit: 4
checkpoint_db: postgres://localhost/resumeflow
notify_webhook: https://hooks.example.com/runs
`), 0644)

	resolver := NewResolverWithPaths("", localConfig)

	settings, err := resolver.Resolve().Settings()
	if err != nil {
		t.Fatalf("Settings() error: %v", err)
	}

	if settings.Provider != "anthropic" {
		t.Errorf("Provider = %q, want %q", settings.Provider, "anthropic")
	}
	if settings.Model != "claude-sonnet-4-20250514" {
		t.Errorf("Model = %q, want %q", settings.Model, "claude-sonnet-4-20250514")
	}
	if settings.Temperature != 0.3 {
		t.Errorf("Temperature = %v, want 0.3", settings.Temperature)
	}
	if settings.MaxTokens != 8192 {
		t.Errorf("MaxTokens = %d, want 8192", settings.MaxTokens)
	}
	if settings.RevisionLimit != 4 {
		t.Errorf("RevisionLimit = %d, want 4", settings.RevisionLimit)
	}
	if settings.CheckpointDB != "postgres://localhost/resumeflow" {
		t.Errorf("CheckpointDB = %q", settings.CheckpointDB)
	}
	if settings.NotifyWebhook != "https://hooks.example.com/runs" {
		t.Errorf("NotifyWebhook = %q", settings.NotifyWebhook)
	}
}

func TestResolved_Settings_ParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantKey string
	}{
		{"bad temperature", "temperature: warm\n", KeyTemperature},
		{"bad max_tokens", "max_tokens: many\n", KeyMaxTokens},
		{"bad revision_limit", "revision_limit: twice\n", KeyRevisionLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			localConfig := filepath.Join(tmpDir, LocalConfigName)
			os.WriteFile(localConfig, []byte(tt.yaml), 0644)

			resolver := NewResolverWithPaths("", localConfig)

			_, err := resolver.Resolve().Settings()
			if err == nil {
				t.Fatal("expected parse error")
			}
			if !strings.Contains(err.Error(), tt.wantKey) {
				t.Errorf("error %q does not name key %q", err, tt.wantKey)
			}
		})
	}
}

func TestSettings_Validate(t *testing.T) {
	valid := Settings{Provider: llm.ProviderGemini, Temperature: 0.1, RevisionLimit: 2}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	unknown := Settings{Provider: "carrier-pigeon", RevisionLimit: 2}
	if err := unknown.Validate(); !errors.Is(err, llm.ErrUnknownProvider) {
		t.Errorf("Validate() = %v, want ErrUnknownProvider", err)
	}

	noRevisions := Settings{Provider: llm.ProviderGemini, RevisionLimit: 0}
	if err := noRevisions.Validate(); err == nil {
		t.Error("expected error for revision_limit 0")
	}

	hot := Settings{Provider: llm.ProviderGemini, RevisionLimit: 1, Temperature: 3}
	if err := hot.Validate(); err == nil {
		t.Error("expected error for temperature 3")
	}
}

func TestSettings_APIKeyVar(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		want     string
	}{
		{"gemini default", Settings{Provider: llm.ProviderGemini}, "GEMINI_API_KEY"},
		{"claude default", Settings{Provider: llm.ProviderClaude}, "ANTHROPIC_API_KEY"},
		{"explicit override", Settings{Provider: llm.ProviderGemini, APIKeyEnv: "MY_KEY"}, "MY_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.settings.APIKeyVar(); got != tt.want {
				t.Errorf("APIKeyVar() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSettings_LLM(t *testing.T) {
	os.Setenv("RESUMEFLOW_TEST_KEY", "sk-test-123")
	defer os.Unsetenv("RESUMEFLOW_TEST_KEY")

	settings := Settings{
		Provider:    llm.ProviderClaude,
		Model:       "claude-sonnet-4-20250514",
		APIKeyEnv:   "RESUMEFLOW_TEST_KEY",
		Temperature: 0.2,
		MaxTokens:   1024,
	}

	cfg := settings.LLM()

	if cfg.Provider != llm.ProviderClaude {
		t.Errorf("Provider = %q", cfg.Provider)
	}
	if cfg.APIKey != "sk-test-123" {
		t.Errorf("APIKey = %q, want the value of RESUMEFLOW_TEST_KEY", cfg.APIKey)
	}
	if cfg.MaxTokens != 1024 {
		t.Errorf("MaxTokens = %d, want 1024", cfg.MaxTokens)
	}
}
