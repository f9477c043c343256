package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/bebsworthy/clifixture/pkg/config"
)

// ConfigFileName mirrors the name the loader searches for
const ConfigFileName = ".clifixture.json"

// ConfigBuilder provides a fluent interface for building test configurations.
type ConfigBuilder struct {
	config *config.Config
}

// NewConfigBuilder creates a new ConfigBuilder with default test configuration.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		config: &config.Config{
			Version: "1.0",
		},
	}
}

// WithVersion sets the configuration version.
func (b *ConfigBuilder) WithVersion(version string) *ConfigBuilder {
	b.config.Version = version
	return b
}

// WithRootDir sets the project root.
func (b *ConfigBuilder) WithRootDir(dir string) *ConfigBuilder {
	b.config.RootDir = dir
	return b
}

// WithFixturesDir sets the fixtures directory.
func (b *ConfigBuilder) WithFixturesDir(dir string) *ConfigBuilder {
	b.config.FixturesDir = dir
	return b
}

// WithTool sets the interpreter and the entry point of the tool under test.
func (b *ConfigBuilder) WithTool(interpreter, entry string) *ConfigBuilder {
	b.config.Interpreter = interpreter
	b.config.ToolEntry = entry
	return b
}

// WithPlaceholder sets the placeholder that replaces the root.
func (b *ConfigBuilder) WithPlaceholder(placeholder string) *ConfigBuilder {
	b.config.Placeholder = placeholder
	return b
}

// WithFixtureGlob sets the pattern used to discover suites.
func (b *ConfigBuilder) WithFixtureGlob(glob string) *ConfigBuilder {
	b.config.FixtureGlob = glob
	return b
}

// WithParallel sets the number of concurrent commands.
func (b *ConfigBuilder) WithParallel(n int) *ConfigBuilder {
	b.config.Parallel = n
	return b
}

// WithTimeout sets the per-command timeout in milliseconds.
func (b *ConfigBuilder) WithTimeout(ms int) *ConfigBuilder {
	b.config.Timeout = ms
	return b
}

// WithEnv adds KEY=VALUE entries to the environment.
func (b *ConfigBuilder) WithEnv(env ...string) *ConfigBuilder {
	b.config.Environment = append(b.config.Environment, env...)
	return b
}

// Build returns the constructed configuration.
func (b *ConfigBuilder) Build() *config.Config {
	return b.config
}

// WriteToFile writes the configuration to a JSON file.
func (b *ConfigBuilder) WriteToFile(path string) error {
	data, err := json.MarshalIndent(b.config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// CreateTestConfigFile writes cfg as the config file of dir and returns its path.
func CreateTestConfigFile(dir string, cfg *config.Config) (string, error) {
	if cfg == nil {
		cfg = NewConfigBuilder().Build()
	}

	configPath := filepath.Join(dir, ConfigFileName)
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return "", err
	}

	return configPath, nil
}
