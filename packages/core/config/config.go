package config

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the orangeprobe configuration
type Config struct {
	BaseURL         string            `json:"baseUrl,omitempty" yaml:"baseUrl,omitempty" validate:"omitempty,http_url"`
	Scenario        string            `json:"scenario,omitempty" yaml:"scenario,omitempty"`
	Timeout         int               `json:"timeout,omitempty" yaml:"timeout,omitempty" validate:"gte=0"`     // milliseconds
	Rate            *float64          `json:"rate,omitempty" yaml:"rate,omitempty" validate:"omitempty,gte=0"` // requests per second, 0 is unpaced
	Headers         map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Output          string            `json:"output,omitempty" yaml:"output,omitempty" validate:"omitempty,oneof=console json"`
	History         string            `json:"history,omitempty" yaml:"history,omitempty"` // sqlite path
	Proxy           string            `json:"proxy,omitempty" yaml:"proxy,omitempty" validate:"omitempty,url"`
	FollowRedirects *bool             `json:"followRedirects,omitempty" yaml:"followRedirects,omitempty"`
	ValidateSSL     *bool             `json:"validateSSL,omitempty" yaml:"validateSSL,omitempty"`
	CheckEnvelope   *bool             `json:"checkEnvelope,omitempty" yaml:"checkEnvelope,omitempty"`
	Verbose         *bool             `json:"verbose,omitempty" yaml:"verbose,omitempty"`
	NoColor         *bool             `json:"noColor,omitempty" yaml:"noColor,omitempty"`
}

// BoolPtr is a helper for setting the optional bool fields
func BoolPtr(b bool) *bool {
	return &b
}

// Float64Ptr is a helper for setting Rate
func Float64Ptr(f float64) *float64 {
	return &f
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetFollowRedirects returns the follow redirects setting, defaulting to true
func (c *Config) GetFollowRedirects() bool {
	return getBool(c.FollowRedirects, true)
}

// GetValidateSSL returns the validate SSL setting, defaulting to true
func (c *Config) GetValidateSSL() bool {
	return getBool(c.ValidateSSL, true)
}

// GetCheckEnvelope returns the envelope check setting, defaulting to false
func (c *Config) GetCheckEnvelope() bool {
	return getBool(c.CheckEnvelope, false)
}

// GetVerbose returns the verbose setting, defaulting to false
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// GetRate returns the pacing rate, defaulting to 0 (unpaced)
func (c *Config) GetRate() float64 {
	if c.Rate == nil {
		return 0
	}
	return *c.Rate
}

// TimeoutDuration returns Timeout as a duration.
func (c *Config) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Millisecond
}

// ConfigFilenames contains the possible config file names, in search order
var ConfigFilenames = []string{
	".orangeprobe.yml",
	".orangeprobe.yaml",
	".orangeprobe.json",
	"orangeprobe.config.json",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}

	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	if path := FindConfigFile(dir); path != "" {
		return loadConfigFromFile(path)
	}

	// Return defaults if no config file found
	return DefaultConfig(), nil
}

// FindConfigFile returns the first config file present in dir, or "".
func FindConfigFile(dir string) string {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
	}
	return ""
}

// loadConfigFromFile loads configuration from a specific file. The format
// follows the extension; anything not .yml/.yaml is read as JSON.
func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		err = yaml.Unmarshal(data, config)
	default:
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return config, nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c // Copy
	result.Headers = maps.Clone(c.Headers)

	if other.BaseURL != "" {
		result.BaseURL = other.BaseURL
	}
	if other.Scenario != "" {
		result.Scenario = other.Scenario
	}
	if other.Timeout > 0 {
		result.Timeout = other.Timeout
	}
	if other.Rate != nil {
		result.Rate = other.Rate
	}
	if other.Output != "" {
		result.Output = other.Output
	}
	if other.History != "" {
		result.History = other.History
	}
	if other.Proxy != "" {
		result.Proxy = other.Proxy
	}

	// Boolean flags - only override if explicitly set in other config
	if other.FollowRedirects != nil {
		result.FollowRedirects = other.FollowRedirects
	}
	if other.ValidateSSL != nil {
		result.ValidateSSL = other.ValidateSSL
	}
	if other.CheckEnvelope != nil {
		result.CheckEnvelope = other.CheckEnvelope
	}
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	if len(other.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string)
		}
		for k, v := range other.Headers {
			result.Headers[k] = v
		}
	}

	return &result
}

var validate = validator.New()

// Validate checks field ranges and formats.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			var problems []string
			for _, fe := range errs {
				problems = append(problems, fmt.Sprintf("%s: failed %q (value %v)", fe.Field(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// SaveConfig saves the configuration to a file
func (c *Config) SaveConfig(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
