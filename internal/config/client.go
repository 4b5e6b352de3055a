package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ClientConfig holds employeectl settings
type ClientConfig struct {
	APIBaseURL  string        `yaml:"api_base_url"`
	Timeout     time.Duration `yaml:"timeout"`
	Concurrency int           `yaml:"concurrency"`
}

// DefaultClientConfig returns the settings used when no file exists
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		APIBaseURL:  "http://localhost:8080",
		Timeout:     30 * time.Second,
		Concurrency: 1,
	}
}

// DefaultClientConfigPath returns ~/.employeectl.yaml
func DefaultClientConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".employeectl.yaml"
	}
	return filepath.Join(home, ".employeectl.yaml")
}

// LoadClient loads the CLI configuration from a YAML file.
// A missing file yields defaults; EMPLOYEECTL_* variables override the file.
func LoadClient(path string) (*ClientConfig, error) {
	cfg := DefaultClientConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.APIBaseURL = getEnv("EMPLOYEECTL_API_BASE_URL", cfg.APIBaseURL)
	cfg.Timeout = getDurationEnv("EMPLOYEECTL_TIMEOUT", cfg.Timeout)
	cfg.Concurrency = getIntEnv("EMPLOYEECTL_CONCURRENCY", cfg.Concurrency)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if the client configuration is usable
func (c *ClientConfig) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("api_base_url is required")
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}
