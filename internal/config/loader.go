// Package config provides configuration loading and management for clifixture.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bebsworthy/clifixture/internal/debug"
	"github.com/bebsworthy/clifixture/pkg/config"
)

const (
	// ConfigFileName is the default configuration file name
	ConfigFileName = ".clifixture.json"

	// ConfigEnvVar is the environment variable to specify custom config path
	ConfigEnvVar = "CLIFIXTURE_CONFIG"
)

// ErrNoConfig is returned when no configuration file exists in the search paths
var ErrNoConfig = errors.New("no configuration file found")

// Loader handles locating, loading and resolving configuration files
type Loader struct {
	// SearchPaths contains the paths to search for configuration files
	SearchPaths []string
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{
		SearchPaths: getDefaultSearchPaths(),
	}
}

// Load attempts to load configuration from the environment variable or the search paths.
// The returned configuration has every path resolved and every default applied.
func (l *Loader) Load() (*config.Config, error) {
	debug.LogSection("Configuration Loading")

	if envPath := os.Getenv(ConfigEnvVar); envPath != "" {
		debug.Log("Loading config from environment variable %s: %s", ConfigEnvVar, envPath)
		cfg, err := l.loadFromPath(envPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", ConfigEnvVar, err)
		}
		return cfg, nil
	}

	debug.Log("Searching for config in default paths: %v", l.SearchPaths)
	for _, searchPath := range l.SearchPaths {
		configPath := filepath.Join(searchPath, ConfigFileName)
		debug.Log("Checking path: %s", configPath)
		if _, err := os.Stat(configPath); err == nil {
			debug.Log("Found config at: %s", configPath)
			cfg, err := l.loadFromPath(configPath)
			if err != nil {
				return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
			}
			return cfg, nil
		}
	}

	return nil, fmt.Errorf("%w in search paths: %v", ErrNoConfig, l.SearchPaths)
}

// LoadOrDefault behaves like Load but falls back to the defaults rooted at
// rootDir when no configuration file exists.
func (l *Loader) LoadOrDefault(rootDir string) (*config.Config, error) {
	cfg, err := l.Load()
	if errors.Is(err, ErrNoConfig) {
		debug.Log("No config file found, using defaults rooted at %s", rootDir)
		return Default(rootDir)
	}
	return cfg, err
}

// LoadFromPath loads configuration from a specific file path
func (l *Loader) LoadFromPath(path string) (*config.Config, error) {
	return l.loadFromPath(path)
}

// loadFromPath loads, validates and resolves configuration from a file
func (l *Loader) loadFromPath(path string) (*config.Config, error) {
	debug.Log("Loading config from file: %s", path)

	// #nosec G304 - path comes from the search paths or the user
	file, err := os.Open(path)
	if err != nil {
		debug.LogError(err, "opening config file")
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() { _ = file.Close() }() //nolint:errcheck // Best effort cleanup

	data, err := io.ReadAll(file)
	if err != nil {
		debug.LogError(err, "reading config file")
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	debug.Log("Config file size: %d bytes", len(data))
	cfg, err := config.LoadConfig(data)
	if err != nil {
		debug.LogError(err, "parsing config")
		return nil, err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	if err := Resolve(cfg, filepath.Dir(absPath)); err != nil {
		return nil, err
	}

	debug.Log("Loaded config: version=%s, root=%s, fixtures=%s",
		cfg.Version, cfg.RootDir, cfg.FixturesDir)

	return cfg, nil
}

// getDefaultSearchPaths returns the working directory and its parents up to
// the first directory that looks like a project root.
func getDefaultSearchPaths() []string {
	paths := []string{}

	cwd, err := os.Getwd()
	if err != nil {
		return paths
	}
	paths = append(paths, cwd)
	if isProjectRoot(cwd) {
		return paths
	}

	dir := cwd
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		paths = append(paths, parent)
		if isProjectRoot(parent) {
			break
		}
		dir = parent
	}

	return paths
}

func isProjectRoot(dir string) bool {
	for _, marker := range []string{".git", "package.json", "go.mod"} {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}

// ValidateConfigFile validates a configuration file without resolving it
func ValidateConfigFile(path string) error {
	// #nosec G304 - path is provided by user for validation purposes
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() { _ = file.Close() }() //nolint:errcheck // Best effort cleanup

	var cfg config.Config
	decoder := json.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	return cfg.Validate()
}
