// Package config provides configuration validation utilities
package config

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/bebsworthy/clifixture/pkg/config"
)

// Validator checks a resolved configuration against the filesystem
type Validator struct {
	// CheckCommands indicates whether to validate that the interpreter exists
	CheckCommands bool

	// CheckPaths indicates whether to validate that directories exist
	CheckPaths bool
}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	return &Validator{
		CheckCommands: true,
		CheckPaths:    true,
	}
}

// Validate performs the structural checks of config.Validate plus
// filesystem checks on a resolved configuration
func (v *Validator) Validate(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.FixtureGlob != "" && !doublestar.ValidatePattern(cfg.FixtureGlob) {
		return fmt.Errorf("fixture glob %q is not a valid pattern", cfg.FixtureGlob)
	}

	if v.CheckPaths {
		if err := checkDir("root directory", cfg.RootDir); err != nil {
			return err
		}
		if err := checkDir("fixtures directory", cfg.FixturesDir); err != nil {
			return err
		}
	}

	if v.CheckCommands && cfg.Interpreter != "" {
		if err := v.checkCommandExists(cfg.Interpreter); err != nil {
			return fmt.Errorf("interpreter: %w", err)
		}
	}

	return nil
}

func checkDir(label, path string) error {
	if path == "" {
		return fmt.Errorf("%s is not set", label)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s %q does not exist", label, path)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s %q is not a directory", label, path)
	}
	return nil
}

// checkCommandExists verifies that a command can be found and executed
func (v *Validator) checkCommandExists(command string) error {
	if strings.Contains(command, "/") || strings.Contains(command, "\\") {
		if _, err := os.Stat(command); err == nil {
			return nil
		}
		return fmt.Errorf("command %q not found at specified path", command)
	}

	path, err := exec.LookPath(command)
	if err != nil {
		if runtime.GOOS == "windows" {
			return fmt.Errorf("command %q not found in PATH (did you mean %s.exe?)", command, command)
		}
		return fmt.Errorf("command %q not found in PATH", command)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot stat command %q: %w", command, err)
	}

	if runtime.GOOS != "windows" && info.Mode()&0111 == 0 {
		return fmt.Errorf("command %q is not executable", command)
	}

	return nil
}

// SuggestFixes returns hints for resolving a validation error
func (v *Validator) SuggestFixes(err error) []string {
	errStr := err.Error()
	suggestions := []string{}

	if strings.Contains(errStr, "not found in PATH") || strings.Contains(errStr, "not found at specified path") {
		suggestions = append(suggestions,
			"Make sure the interpreter is installed and available in your PATH",
			"Set \"interpreter\" in "+ConfigFileName+" to an absolute path",
		)
	}

	if strings.Contains(errStr, "fixtures directory") {
		suggestions = append(suggestions,
			"Set \"fixturesDir\" relative to \"rootDir\"",
			"Run from the project root or point "+ConfigEnvVar+" at the config file",
		)
	}

	if strings.Contains(errStr, "root directory") {
		suggestions = append(suggestions,
			"Set \"rootDir\" relative to the directory holding "+ConfigFileName,
		)
	}

	if strings.Contains(errStr, "glob") {
		suggestions = append(suggestions,
			"Use ** for recursive matching (e.g., 'expected/**/*.yaml')",
			"Check for unbalanced brackets or braces in the pattern",
		)
	}

	if strings.Contains(errStr, "placeholder") {
		suggestions = append(suggestions,
			"Placeholders must look like an absolute path, e.g. '/qunit'",
		)
	}

	return suggestions
}

// RelativeToRoot returns path relative to the configured root when possible
func RelativeToRoot(cfg *config.Config, path string) string {
	rel, err := filepath.Rel(cfg.RootDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}
