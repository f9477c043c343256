// Package config provides the core configuration types and validation logic for clifixture.
package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Config represents the main configuration structure for clifixture.
// Relative paths are resolved by the loader: RootDir against the directory
// holding the config file, everything else against RootDir.
type Config struct {
	Version string `json:"version"`
	// Installation root of the project; replaced by Placeholder in output
	RootDir string `json:"rootDir,omitempty"`
	// Default working directory for executed commands
	FixturesDir string `json:"fixturesDir,omitempty"`
	// Entry point of the tool under test, relative to FixturesDir
	ToolEntry string `json:"toolEntry,omitempty"`
	// Interpreter used to run the tool entry point
	Interpreter string `json:"interpreter,omitempty"`
	// Token that replaces RootDir in normalized output
	Placeholder string `json:"placeholder,omitempty"`
	// Bundled script whose frames lose line and column, relative to RootDir
	BundleFile string `json:"bundleFile,omitempty"`
	// Glob selecting fixture suites, relative to FixturesDir
	FixtureGlob string `json:"fixtureGlob,omitempty"`
	// Maximum number of concurrent commands during check
	Parallel int `json:"parallel,omitempty"`
	// Per-command timeout in milliseconds; zero means none
	Timeout int `json:"timeout,omitempty"`
	// Extra environment for every command (KEY=VALUE)
	Environment []string `json:"environment,omitempty"`
}

// Validate performs validation on the Config
func (c *Config) Validate() error {
	if c.Version == "" {
		return fmt.Errorf("version is required")
	}

	if c.Placeholder != "" && !strings.HasPrefix(c.Placeholder, "/") {
		return fmt.Errorf("placeholder %q must start with /", c.Placeholder)
	}

	if c.BundleFile != "" && filepath.IsAbs(c.BundleFile) {
		return fmt.Errorf("bundleFile %q must be relative to the root directory", c.BundleFile)
	}

	if c.Parallel < 0 {
		return fmt.Errorf("parallel must not be negative")
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}

	for _, env := range c.Environment {
		if !strings.Contains(env, "=") {
			return fmt.Errorf("environment entry %q must be KEY=VALUE", env)
		}
	}

	return nil
}

// TimeoutDuration returns the timeout as a duration
func (c *Config) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Millisecond
}

// LoadConfig parses and validates configuration from JSON data
func LoadConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Clone returns a deep copy of the configuration
func (c *Config) Clone() *Config {
	clone := *c
	clone.Environment = append([]string(nil), c.Environment...)
	return &clone
}
