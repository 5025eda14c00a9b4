package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/civicdesk/civicdesk/internal/errors"
)

// Default values applied when the configuration file is absent or partial.
const (
	DefaultBaseURL     = "http://localhost:8080"
	DefaultHTTPTimeout = 30 * time.Second
	DefaultRole        = "citizen"
)

// Config represents the complete config.yaml configuration
type Config struct {
	// BaseURL is the municipal backend base URL
	BaseURL string `yaml:"base_url"`

	// HTTPTimeoutSeconds bounds every request made by the API client
	HTTPTimeoutSeconds int `yaml:"http_timeout,omitempty"`

	// DefaultRole selects the login route when none is given (citizen, admin, super-admin)
	DefaultRole string `yaml:"default_role,omitempty"`

	// LogLevel is the minimum diagnostic level (debug, info, warn, error)
	LogLevel string `yaml:"log_level,omitempty"`

	// LogFormat selects diagnostic output encoding (text, json)
	LogFormat string `yaml:"log_format,omitempty"`
}

// HTTPTimeout returns the configured request timeout
func (c *Config) HTTPTimeout() time.Duration {
	if c.HTTPTimeoutSeconds <= 0 {
		return DefaultHTTPTimeout
	}
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// DefaultConfig returns a configuration with all defaults applied
func DefaultConfig() *Config {
	return &Config{
		BaseURL:     DefaultBaseURL,
		DefaultRole: DefaultRole,
		LogLevel:    "info",
		LogFormat:   "text",
	}
}

// Dir returns the civicdesk configuration directory.
// CIVICDESK_HOME overrides the default of ~/.civicdesk.
func Dir() (string, error) {
	if dir := os.Getenv("CIVICDESK_HOME"); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".civicdesk"), nil
}

// Path returns the location of config.yaml
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load loads configuration from a YAML file.
// A missing file yields the defaults rather than an error; a present but
// unreadable or invalid file is an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return applyOverrides(DefaultConfig()), nil
		}
		return nil, errors.Wrap(errors.ErrCodeConfigNotFound, fmt.Sprintf("read config file: %s", path), err)
	}

	// Expand environment variables in the config
	configStr := os.ExpandEnv(string(data))

	config := DefaultConfig()
	if err := yaml.Unmarshal([]byte(configStr), config); err != nil {
		return nil, errors.NewConfigUnmarshalError(path, err)
	}

	config = applyOverrides(config)

	if err := Validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadDefault loads configuration from the standard location
func LoadDefault() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// Save writes the configuration to a YAML file with owner-only permissions
func Save(config *Config, path string) error {
	if err := Validate(config); err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return errors.Wrap(errors.ErrCodeConfigWrite, "marshal config", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.Wrap(errors.ErrCodeConfigWrite, "create config directory", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.Wrap(errors.ErrCodeConfigWrite, fmt.Sprintf("write config file: %s", path), err)
	}

	return nil
}

// Validate checks a configuration for obvious mistakes
func Validate(config *Config) error {
	if config.BaseURL == "" {
		return errors.New(errors.ErrCodeConfigInvalid, "base_url must not be empty").
			WithSuggestion("Set base_url in config.yaml or export CIVICDESK_BASE_URL")
	}

	u, err := url.Parse(config.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New(errors.ErrCodeConfigInvalid, fmt.Sprintf("base_url is not a valid URL: %s", config.BaseURL)).
			WithSuggestion("Use an absolute URL such as https://complaints.example.gov")
	}

	switch config.DefaultRole {
	case "", "citizen", "admin", "super-admin":
	default:
		return errors.New(errors.ErrCodeConfigInvalid, fmt.Sprintf("default_role is not valid: %s", config.DefaultRole)).
			WithSuggestion("Use one of: citizen, admin, super-admin")
	}

	if config.HTTPTimeoutSeconds < 0 {
		return errors.New(errors.ErrCodeConfigInvalid, "http_timeout must not be negative")
	}

	return nil
}

// applyOverrides applies environment variable overrides on top of file values
func applyOverrides(config *Config) *Config {
	if v := os.Getenv("CIVICDESK_BASE_URL"); v != "" {
		config.BaseURL = v
	}
	if v := os.Getenv("CIVICDESK_LOG_LEVEL"); v != "" {
		config.LogLevel = v
	}
	return config
}
