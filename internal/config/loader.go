package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.ragent.yaml",               // Project-specific config (highest priority)
	"~/.config/ragent/config.yaml", // User config
	"/etc/ragent/config.yaml",      // System config (lowest priority)
}

// Load reads configuration starting from defaults. With a custom path only
// that file is read; otherwise the standard paths merge lowest priority
// first. Environment references like ${OPENAI_API_KEY} in api_key expand
// after merging, then the result is validated.
func Load(customPath string) (*Config, error) {
	config := DefaultConfig()

	if customPath != "" {
		if err := loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("load config from %s: %w", customPath, err)
		}
	} else {
		for i := len(ConfigPaths) - 1; i >= 0; i-- {
			path := expandPath(ConfigPaths[i])
			if _, err := os.Stat(path); err != nil {
				continue
			}
			if err := loadFromFile(config, path); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to load config from %s: %v\n", path, err)
			}
		}
	}

	config.LLM.APIKey = expandEnvRefs(config.LLM.APIKey)
	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func loadFromFile(config *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func applyEnvOverrides(config *Config) {
	overrides := map[string]*string{
		"RAGENT_LLM_PROVIDER": &config.LLM.Provider,
		"RAGENT_LLM_MODEL":    &config.LLM.Model,
		"RAGENT_LLM_ENDPOINT": &config.LLM.Endpoint,
		"RAGENT_LLM_API_KEY":  &config.LLM.APIKey,
		"RAGENT_EMBED_MODEL":  &config.Embedding.Model,
		"RAGENT_DATASET":      &config.Dataset.Path,
		"RAGENT_INDEX_DIR":    &config.Dataset.IndexDir,
	}

	for name, target := range overrides {
		if v := os.Getenv(name); v != "" {
			*target = v
		}
	}
}

var envRefPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnvRefs substitutes ${VAR} references with environment values.
// Unset variables expand to empty so validation catches missing keys.
func expandEnvRefs(s string) string {
	return envRefPattern.ReplaceAllStringFunc(s, func(ref string) string {
		name := envRefPattern.FindStringSubmatch(ref)[1]
		return os.Getenv(name)
	})
}

// expandPath resolves a leading ~ to the user home directory.
func expandPath(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
