package config

import (
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/bebsworthy/clifixture/internal/debug"
	"github.com/bebsworthy/clifixture/internal/normalize"
	"github.com/bebsworthy/clifixture/pkg/config"
)

// Default values applied to fields left empty in the configuration file
const (
	DefaultVersion     = "1.0"
	DefaultFixturesDir = "test/cli/fixtures"
	DefaultToolEntry   = "../../../bin/qunit.js"
	DefaultInterpreter = "node"
	DefaultFixtureGlob = "expected/**/*.yaml"
	DefaultParallel    = 4
)

// Default returns the configuration used when no file is found, rooted at rootDir
func Default(rootDir string) (*config.Config, error) {
	cfg := &config.Config{Version: DefaultVersion, RootDir: rootDir}
	if err := Resolve(cfg, rootDir); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Resolve fills in defaults and makes every path in cfg absolute. RootDir is
// resolved against baseDir, FixturesDir against RootDir. ToolEntry stays
// relative since it is interpreted from the working directory of each command.
func Resolve(cfg *config.Config, baseDir string) error {
	if cfg.Version == "" {
		cfg.Version = DefaultVersion
	}

	root := cfg.RootDir
	switch {
	case root == "":
		root = baseDir
	case !filepath.IsAbs(root):
		root = filepath.Join(baseDir, root)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("failed to resolve root directory %q: %w", root, err)
	}
	cfg.RootDir = absRoot

	if cfg.FixturesDir == "" {
		cfg.FixturesDir = DefaultFixturesDir
	}
	if !filepath.IsAbs(cfg.FixturesDir) {
		cfg.FixturesDir = filepath.Join(cfg.RootDir, cfg.FixturesDir)
	}
	cfg.FixturesDir = filepath.Clean(cfg.FixturesDir)

	if cfg.ToolEntry == "" {
		cfg.ToolEntry = DefaultToolEntry
	}
	if cfg.Interpreter == "" {
		cfg.Interpreter = DefaultInterpreter
	}
	cfg.Interpreter = lookupInterpreter(cfg.Interpreter)

	if cfg.Placeholder == "" {
		cfg.Placeholder = normalize.DefaultPlaceholder
	}
	if cfg.BundleFile == "" {
		cfg.BundleFile = normalize.DefaultBundle
	}
	if cfg.FixtureGlob == "" {
		cfg.FixtureGlob = DefaultFixtureGlob
	}
	if cfg.Parallel == 0 {
		cfg.Parallel = DefaultParallel
	}

	return nil
}

// lookupInterpreter pins the interpreter to an absolute path so every command
// runs the same executable regardless of its environment.
func lookupInterpreter(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	path, err := exec.LookPath(name)
	if err != nil {
		debug.Log("Interpreter %q not found in PATH, leaving unresolved", name)
		return name
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	debug.Log("Interpreter %q resolved to %s", name, path)
	return path
}
