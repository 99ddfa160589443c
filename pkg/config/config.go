package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultDotEnvFile is loaded from the working directory when present
	DefaultDotEnvFile = ".env"

	// APIURLEnvVar overrides the GitHub API base URL
	APIURLEnvVar = "GITHUB_API_URL"
)

// Config represents the ghenv configuration
type Config struct {
	GitHub    GitHubConfig    `yaml:"github"`
	Variables VariablesConfig `yaml:"variables"`
}

// GitHubConfig represents GitHub API settings
type GitHubConfig struct {
	Token   string `yaml:"token,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
}

// VariablesConfig represents defaults for variable commands
type VariablesConfig struct {
	UpdatePolicy string `yaml:"update_policy,omitempty"`
}

// LoadConfig loads configuration from the default location
func LoadConfig() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	return LoadConfigFromPath(configPath)
}

// LoadConfigFromPath loads configuration from a specific path
func LoadConfigFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{}, nil // Return empty config if file doesn't exist
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return &config, nil
}

// SaveConfig saves configuration to the default location
func (c *Config) SaveConfig() error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	return c.SaveConfigToPath(configPath)
}

// SaveConfigToPath saves configuration to a specific path. The file may
// hold a token, so it is written owner-only.
func (c *Config) SaveConfigToPath(path string) error {
	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".ghenv", "config.yaml"), nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch strings.ToLower(c.Variables.UpdatePolicy) {
	case "", "recreate", "put":
	default:
		return fmt.Errorf("variables.update_policy must be 'recreate' or 'put', got %q", c.Variables.UpdatePolicy)
	}

	if c.GitHub.BaseURL != "" {
		u, err := url.Parse(c.GitHub.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("github.base_url must be an absolute URL, got %q", c.GitHub.BaseURL)
		}
	}

	return nil
}

// APIBaseURL picks the API base URL: the explicit value, then
// GITHUB_API_URL, then the config file. Empty means the public API.
func (c *Config) APIBaseURL(explicit string) string {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return explicit
	}
	if env := strings.TrimSpace(os.Getenv(APIURLEnvVar)); env != "" {
		return env
	}
	return c.GitHub.BaseURL
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment,
// overriding variables that are already set. A missing file is only an
// error when required is true.
func LoadDotEnv(path string, required bool) error {
	if path == "" {
		path = DefaultDotEnvFile
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if required {
			return fmt.Errorf("env file %s does not exist", path)
		}
		return nil
	}

	if err := godotenv.Overload(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}
