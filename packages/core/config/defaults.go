package config

import (
	"github.com/orangeserver/orangeprobe/packages/core/runner"
	"github.com/orangeserver/orangeprobe/packages/scenario"
)

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		BaseURL:  runner.DefaultBaseURL,
		Scenario: scenario.Default,
		Timeout:  int(runner.DefaultTimeout.Milliseconds()),
		Output:   "console",
	}
}
