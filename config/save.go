package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SaveGlobal saves a key-value pair to ~/.config/resumeflow.yaml,
// creating the file if needed.
func SaveGlobal(key, value string) error {
	path, err := globalConfigPath()
	if err != nil {
		return err
	}
	if err := validateKey(key); err != nil {
		return err
	}
	// Global config may name env vars but never holds secrets; keep it private anyway.
	return saveTo(path, key, value, 0o600)
}

// SaveLocal saves a key-value pair to .resumeflow.yaml in dir,
// usually the project root.
func SaveLocal(dir, key, value string) error {
	if dir == "" {
		return fmt.Errorf("local config directory not specified")
	}
	if err := validateKey(key); err != nil {
		return err
	}
	// Local config is shared and should be readable
	return saveTo(filepath.Join(dir, LocalConfigName), key, value, 0o644)
}

// DeleteGlobalKey removes a key from the global config.
func DeleteGlobalKey(key string) error {
	path, err := globalConfigPath()
	if err != nil {
		return err
	}
	return deleteKeyAt(path, key)
}

func globalConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", GlobalConfigName), nil
}

func validateKey(key string) error {
	if !contains(ValidKeys(), key) {
		return fmt.Errorf("unknown config key: %s\n\nValid keys: %s",
			key, strings.Join(ValidKeys(), ", "))
	}
	return nil
}

func saveTo(path, key, value string, perm os.FileMode) error {
	// Load existing config
	var existing map[string]interface{}
	if data, readErr := os.ReadFile(path); readErr == nil {
		_ = yaml.Unmarshal(data, &existing)
	}
	if existing == nil {
		existing = make(map[string]interface{})
	}

	// Update value
	existing[key] = parseValue(value)

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(existing)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, perm)
}

func deleteKeyAt(path, key string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil // Nothing to delete
	}

	var existing map[string]interface{}
	if err := yaml.Unmarshal(data, &existing); err != nil {
		return nil
	}

	delete(existing, key)

	data, err = yaml.Marshal(existing)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

// parseValue converts string values to appropriate types for YAML.
func parseValue(value string) interface{} {
	lower := strings.ToLower(value)
	if lower == "true" {
		return true
	}
	if lower == "false" {
		return false
	}
	return value
}
