package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bebsworthy/clifixture/internal/normalize"
)

type normalizeOptions struct {
	root        string
	separator   string
	placeholder string
}

func newNormalizeCmd() *cobra.Command {
	opts := &normalizeOptions{}

	cmd := &cobra.Command{
		Use:   "normalize [files...]",
		Short: "Normalize output read from files or stdin",
		Long: `Apply the output normalization rules to text read from the given files,
or from stdin when no file is given, and print the result.

The root, placeholder and bundle file come from the configuration unless
overridden by flags.`,
		Example: `  # Normalize a saved log
  clifixture normalize run.log

  # Normalize output produced on another machine
  some-command | clifixture normalize --root /home/ci/project --separator '\'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNormalize(opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.root, "root", "", "Root directory to replace (default: the configured root)")
	cmd.Flags().StringVar(&opts.separator, "separator", "", "Path separator of the producing system (default: this system's)")
	cmd.Flags().StringVar(&opts.placeholder, "placeholder", "", "Replacement for the root (default: the configured placeholder)")

	return cmd
}

func runNormalize(opts *normalizeOptions, files []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	root := cfg.RootDir
	if opts.root != "" {
		root = opts.root
	}
	placeholder := cfg.Placeholder
	if opts.placeholder != "" {
		placeholder = opts.placeholder
	}

	options := []normalize.Option{
		normalize.WithPlaceholder(placeholder),
		normalize.WithBundle(cfg.BundleFile),
	}
	if opts.separator != "" {
		options = append(options, normalize.WithSeparator(opts.separator))
	}
	n := normalize.New(root, options...)

	if len(files) == 0 {
		data, err := io.ReadAll(inputReader)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		_, err = io.WriteString(outputWriter, n.Normalize(string(data)))
		return err
	}

	for _, name := range files {
		data, err := os.ReadFile(name) // #nosec G304 - file names come from the user
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}
		if _, err := io.WriteString(outputWriter, n.Normalize(string(data))); err != nil {
			return err
		}
	}
	return nil
}
