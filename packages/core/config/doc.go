// Package config handles configuration loading and management for orangeprobe.
//
// It provides functionality for:
//   - Loading configuration from .orangeprobe.yml, .orangeprobe.yaml or JSON files
//   - Default configuration values matching a local Orange API deployment
//   - ORANGEPROBE_* environment overrides
//   - Validation of the merged result
package config
