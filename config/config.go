package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Configuration keys.
const (
	KeyProvider      = "provider"       // LLM provider: "gemini" or "anthropic"
	KeyModel         = "model"          // default-tier model name
	KeyFastModel     = "fast_model"     // fast-tier model name
	KeyAPIKeyEnv     = "api_key_env"    // env var holding the provider API key
	KeyTemperature   = "temperature"    // sampling temperature
	KeyMaxTokens     = "max_tokens"     // completion token cap
	KeyRevisionLimit = "revision_limit" // editorial passes before the final draft
	KeyCheckpointDir = "checkpoint_dir" // where paused runs are stored
	KeyCheckpointDB  = "checkpoint_db"  // optional Postgres URL for checkpoints
	KeyTranscriptDir = "transcript_dir" // where LLM transcripts are stored
	KeyNotifyWebhook = "notify_webhook" // optional webhook URL for run events
)

const (
	// EnvPrefix is prepended to key names for environment variable lookup.
	// Key "revision_limit" maps to RESUMEFLOW_REVISION_LIMIT.
	EnvPrefix = "RESUMEFLOW_"

	// LocalConfigName is the per-project config file, found by walking up
	// from the working directory.
	LocalConfigName = ".resumeflow.yaml"

	// GlobalConfigName is the file under ~/.config/ holding user defaults.
	GlobalConfigName = "resumeflow.yaml"
)

// Defaults returns the built-in default values.
// Model names are left empty here; the llm package fills provider-specific
// defaults when the config reaches it.
func Defaults() map[string]string {
	return map[string]string{
		KeyProvider:      "gemini",
		KeyTemperature:   "0.1",
		KeyMaxTokens:     "4096",
		KeyRevisionLimit: "2",
		KeyCheckpointDir: filepath.Join(".resumeflow", "checkpoints"),
		KeyTranscriptDir: filepath.Join(".resumeflow", "transcripts"),
	}
}

// ValidKeys lists every key the resolver understands. Config files may only
// set these; anything else draws a warning and is skipped.
func ValidKeys() []string {
	return []string{
		KeyProvider,
		KeyModel,
		KeyFastModel,
		KeyAPIKeyEnv,
		KeyTemperature,
		KeyMaxTokens,
		KeyRevisionLimit,
		KeyCheckpointDir,
		KeyCheckpointDB,
		KeyTranscriptDir,
		KeyNotifyWebhook,
	}
}

// Resolver handles hierarchical configuration resolution.
type Resolver struct {
	globalPath string
	localPath  string
	errWriter  io.Writer

	// Warnings collects non-fatal issues during resolution.
	Warnings []string
}

// NewResolver creates a resolver wired to the standard config locations:
// ~/.config/resumeflow.yaml and the nearest .resumeflow.yaml at or above
// the working directory.
func NewResolver() *Resolver {
	resolver := &Resolver{
		errWriter: os.Stderr,
	}

	if home, err := os.UserHomeDir(); err == nil {
		resolver.globalPath = filepath.Join(home, ".config", GlobalConfigName)
	}
	resolver.localPath = findLocalConfig(".")

	return resolver
}

// NewResolverWithPaths creates a resolver with explicit global and local paths.
// This is useful for testing or when paths are known ahead of time.
func NewResolverWithPaths(globalPath, localPath string) *Resolver {
	return &Resolver{
		globalPath: globalPath,
		localPath:  localPath,
		errWriter:  os.Stderr,
	}
}

// SetErrWriter redirects warning output. Pass io.Discard to silence it.
func (r *Resolver) SetErrWriter(w io.Writer) {
	r.errWriter = w
}

// warn adds a warning and optionally prints it.
func (r *Resolver) warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
	if r.errWriter != nil {
		fmt.Fprintf(r.errWriter, "Warning: %s\n", msg)
	}
}

// Resolved holds the final merged configuration.
type Resolved struct {
	values  map[string]string
	sources map[string]Source
}

// Get returns the value for a key, or empty string if not set.
func (c *Resolved) Get(key string) string {
	return c.values[key]
}

// Source returns the source of a key's value.
func (c *Resolved) Source(key string) Source {
	return c.sources[key]
}

// GetWithSource returns both the value and its source.
func (c *Resolved) GetWithSource(key string) (string, Source) {
	return c.values[key], c.sources[key]
}

// All returns a copy of all key-value pairs.
func (c *Resolved) All() map[string]string {
	result := make(map[string]string, len(c.values))
	for k, v := range c.values {
		result[k] = v
	}
	return result
}

// Keys returns all configuration keys, sorted.
func (c *Resolved) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Dump writes every key with its value and source, one per line, sorted by
// key. Unset keys print as empty strings so the full vocabulary is visible.
func (c *Resolved) Dump(w io.Writer) {
	keys := ValidKeys()
	sort.Strings(keys)
	for _, key := range keys {
		value, source := c.GetWithSource(key)
		if source == "" {
			source = "unset"
		}
		fmt.Fprintf(w, "%-16s = %-36q (%s)\n", key, value, source)
	}
}

// Resolve builds the final config by merging all sources.
// Priority (highest to lowest): env > local > global > defaults.
func (r *Resolver) Resolve() *Resolved {
	cfg := &Resolved{
		values:  make(map[string]string),
		sources: make(map[string]Source),
	}

	// 1. Apply defaults (lowest priority)
	r.applyDefaults(cfg)

	// 2. Apply global config
	r.applyFile(cfg, r.globalPath, SourceGlobal)

	// 3. Apply local config
	r.applyFile(cfg, r.localPath, SourceLocal)

	// 4. Apply environment variables
	r.applyEnv(cfg)

	return cfg
}

// ResolveWithFlags resolves config and applies flag overrides.
func (r *Resolver) ResolveWithFlags(flags map[string]string) *Resolved {
	cfg := r.Resolve()

	for key, value := range flags {
		if value != "" {
			cfg.values[key] = value
			cfg.sources[key] = SourceFlag
		}
	}

	return cfg
}

func (r *Resolver) applyDefaults(cfg *Resolved) {
	for key, value := range Defaults() {
		cfg.values[key] = value
		cfg.sources[key] = SourceDefault
	}
}

func (r *Resolver) applyFile(cfg *Resolved, path string, source Source) {
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return // File doesn't exist - not an error
	}

	var parsed map[string]interface{}
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		r.warn(fmt.Sprintf("could not parse %s: %v", path, err))
		return
	}

	for key, value := range parsed {
		if !contains(ValidKeys(), key) {
			r.warn(fmt.Sprintf("%s: unknown key %q ignored", path, key))
			continue
		}
		if strVal := toString(value); strVal != "" {
			cfg.values[key] = strVal
			cfg.sources[key] = source
		}
	}
}

func (r *Resolver) applyEnv(cfg *Resolved) {
	for _, key := range ValidKeys() {
		envKey := EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
		if value := os.Getenv(envKey); value != "" {
			cfg.values[key] = value
			cfg.sources[key] = SourceEnv
		}
	}
}

// GlobalPath returns the path to the global config file.
func (r *Resolver) GlobalPath() string {
	return r.globalPath
}

// LocalPath returns the path to the local config file, or empty when none
// was found.
func (r *Resolver) LocalPath() string {
	return r.localPath
}

// Helper functions

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

func toString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int, int64, float64:
		return fmt.Sprintf("%v", val)
	default:
		return ""
	}
}

// findLocalConfig walks up from startDir looking for LocalConfigName.
func findLocalConfig(startDir string) string {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return ""
	}

	for {
		path := filepath.Join(dir, LocalConfigName)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break // Reached root
		}
		dir = parent
	}

	return ""
}
