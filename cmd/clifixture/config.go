package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bebsworthy/clifixture/internal/config"
	pkgconfig "github.com/bebsworthy/clifixture/pkg/config"
)

type configOptions struct {
	validate bool
	create   bool
	output   string
	force    bool
}

func newConfigCmd() *cobra.Command {
	opts := &configOptions{}

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show, validate or create the configuration",
		Long: `Show the resolved configuration as JSON, with every default filled in and
every path made absolute.

With --validate the configuration is checked against the file system: the
root and fixtures directories must exist and the interpreter must be
found. With --init a starter ` + config.ConfigFileName + ` is written.`,
		Example: `  # Print the resolved configuration
  clifixture config

  # Validate the configuration
  clifixture config --validate

  # Create a starter configuration in the current directory
  clifixture config --init`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.create {
				return runConfigInit(opts)
			}
			return runConfigShow(opts)
		},
	}

	cmd.Flags().BoolVar(&opts.validate, "validate", false, "Validate the configuration")
	cmd.Flags().BoolVar(&opts.create, "init", false, "Write a starter configuration file")
	cmd.Flags().StringVar(&opts.output, "output", config.ConfigFileName, "Output path for --init")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite an existing file with --init")

	return cmd
}

func runConfigShow(opts *configOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if opts.validate {
		validator := config.NewValidator()
		if err := validator.Validate(cfg); err != nil {
			fmt.Fprintf(errorWriter, "Configuration validation failed:\n  %v\n", err)
			if suggestions := validator.SuggestFixes(err); len(suggestions) > 0 {
				fmt.Fprintln(errorWriter, "\nSuggestions:")
				for _, s := range suggestions {
					fmt.Fprintf(errorWriter, "  - %s\n", s)
				}
			}
			osExit(1)
			return nil
		}
		fmt.Fprintln(outputWriter, "Configuration is valid")
		return nil
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	writeLine(outputWriter, string(data))
	return nil
}

func runConfigInit(opts *configOptions) error {
	path, err := filepath.Abs(opts.output)
	if err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}

	if !opts.force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists, use --force to overwrite", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to check %s: %w", path, err)
		}
	}

	starter := &pkgconfig.Config{
		Version:     config.DefaultVersion,
		FixturesDir: config.DefaultFixturesDir,
		ToolEntry:   config.DefaultToolEntry,
		Interpreter: config.DefaultInterpreter,
		FixtureGlob: config.DefaultFixtureGlob,
		Parallel:    config.DefaultParallel,
	}
	data, err := json.MarshalIndent(starter, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(outputWriter, "Wrote %s\n", path)
	return nil
}
