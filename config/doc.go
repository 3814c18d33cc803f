// Package config provides hierarchical configuration resolution.
//
// Values merge with clear precedence:
//  1. Command-line flags (highest priority)
//  2. Environment variables (RESUMEFLOW_*)
//  3. Local config (.resumeflow.yaml, found by walking up from the
//     working directory)
//  4. Global config (~/.config/resumeflow.yaml)
//  5. Built-in defaults (lowest priority)
//
// # Basic Usage
//
//	resolver := config.NewResolver()
//	cfg := resolver.Resolve()
//
//	settings, err := cfg.Settings()
//	if err != nil {
//	    return err
//	}
//	client, err := llm.NewClient(ctx, settings.LLM())
//
// # Environment Variables
//
// Each key maps to an environment variable with the RESUMEFLOW_ prefix:
//
//	RESUMEFLOW_PROVIDER=anthropic    # sets "provider"
//	RESUMEFLOW_REVISION_LIMIT=3      # sets "revision_limit"
//	RESUMEFLOW_CHECKPOINT_DIR=/tmp/cp
//
// # API Key Indirection
//
// Config files never hold secrets. The api_key_env key names the
// environment variable the provider key is read from; it defaults to
// GEMINI_API_KEY or ANTHROPIC_API_KEY depending on the provider.
//
// # Config Sources
//
// Each resolved value tracks where it came from:
//   - "default": built-in default value
//   - "global": ~/.config/resumeflow.yaml
//   - "local": nearest .resumeflow.yaml above the working directory
//   - "env": environment variable
//   - "flag": command-line flag
//
// Resolved.Dump prints every key with its value and source for debugging.
package config
