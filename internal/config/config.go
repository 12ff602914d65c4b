// Package config loads strategos configuration from a yaml file with
// environment overrides. Each concern keeps its struct in its own file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all strategos configuration.
type Config struct {
	LLM     LLMConfig     `yaml:"llm"`
	Storage StorageConfig `yaml:"storage"`
	Polling PollingConfig `yaml:"polling"`
	Logging LoggingConfig `yaml:"logging"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		LLM:     defaultLLMConfig(),
		Storage: defaultStorageConfig(),
		Polling: defaultPollingConfig(),
		Logging: defaultLoggingConfig(),
	}
}

// Load reads configuration from path. A missing file is not an error: the
// defaults are returned. Environment overrides are applied last either way.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.applyEnvOverrides()
	return cfg, nil
}

// DefaultPath returns ~/.strategos/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".strategos", "config.yaml")
}

// StateDir returns the directory holding the database and logs.
func (c *Config) StateDir() string {
	if c.Storage.StateDir != "" {
		return c.Storage.StateDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".strategos"
	}
	return filepath.Join(home, ".strategos")
}

// applyDefaults fills zero values left by a partial config file.
func (c *Config) applyDefaults() {
	d := Default()
	if c.LLM.Model == "" {
		c.LLM.Model = d.LLM.Model
	}
	if c.LLM.Timeout == "" {
		c.LLM.Timeout = d.LLM.Timeout
	}
	if c.Storage.DatabaseFile == "" {
		c.Storage.DatabaseFile = d.Storage.DatabaseFile
	}
	if c.Polling.IntervalSeconds <= 0 {
		c.Polling.IntervalSeconds = d.Polling.IntervalSeconds
	}
	if c.Polling.MaxAttempts <= 0 {
		c.Polling.MaxAttempts = d.Polling.MaxAttempts
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
}

// applyEnvOverrides lets the environment override file values. Used by CI
// and by users who do not want API keys on disk.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("STRATEGOS_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" && c.LLM.APIKey == "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("STRATEGOS_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("STRATEGOS_DB"); v != "" {
		c.Storage.DatabaseFile = v
	}
	if v := os.Getenv("STRATEGOS_DEBUG"); v == "1" || v == "true" {
		c.Logging.DebugMode = true
	}
}

// Save writes the configuration back to path, creating parent directories.
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
