package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bebsworthy/clifixture/internal/config"
	"github.com/bebsworthy/clifixture/internal/executor"
	"github.com/bebsworthy/clifixture/internal/normalize"
	"github.com/bebsworthy/clifixture/internal/reporter"
	pkgconfig "github.com/bebsworthy/clifixture/pkg/config"
)

// Swappable for tests
var (
	osExit                 = os.Exit
	outputWriter io.Writer = os.Stdout
	errorWriter  io.Writer = os.Stderr
	inputReader  io.Reader = os.Stdin
)

// loadConfig loads the file named by --config, or searches for one and
// falls back to defaults rooted at the working directory.
func loadConfig() (*pkgconfig.Config, error) {
	loader := config.NewLoader()
	if configPath != "" {
		cfg, err := loader.LoadFromPath(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		return cfg, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	cfg, err := loader.LoadOrDefault(cwd)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func newNormalizer(cfg *pkgconfig.Config) *normalize.Normalizer {
	return normalize.New(cfg.RootDir,
		normalize.WithPlaceholder(cfg.Placeholder),
		normalize.WithBundle(cfg.BundleFile),
	)
}

func newRunner(cfg *pkgconfig.Config) *executor.Runner {
	runner := executor.NewRunner(
		cfg.FixturesDir,
		executor.NewDefaultResolver(cfg.Interpreter, cfg.ToolEntry),
		newNormalizer(cfg),
	)
	runner.DefaultTimeout = cfg.TimeoutDuration()
	return runner
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// useColor reports whether output written to outputWriter may be coloured
func useColor(noColor bool) bool {
	if noColor {
		return false
	}
	f, ok := outputWriter.(*os.File)
	return ok && reporter.ColorEnabled(f)
}

// writeReport prints the report and exits with its code when non-zero
func writeReport(report *reporter.ReportResult) {
	writeLine(outputWriter, report.Stdout)
	writeLine(errorWriter, report.Stderr)
	if report.ExitCode != 0 {
		osExit(report.ExitCode)
	}
}

// writeLine writes s terminated by exactly one newline; empty s writes nothing
func writeLine(w io.Writer, s string) {
	if s == "" {
		return
	}
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	_, _ = io.WriteString(w, s) //nolint:errcheck
}
