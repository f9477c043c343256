package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

func newManCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "man",
		Short: "Generate man pages for clifixture",
		Long:  `Generate man pages for clifixture and all its subcommands.`,
		Example: `  # Generate man pages in a specific directory
  clifixture man --dir ./docs/man

  # View a generated page
  man ./docs/man/clifixture-check.1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerateMan(cmd, dir)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "Directory to write man pages to")

	return cmd
}

func runGenerateMan(cmd *cobra.Command, dir string) error {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	header := &doc.GenManHeader{
		Title:   "CLIFIXTURE",
		Section: "1",
		Source:  fmt.Sprintf("clifixture %s", Version),
		Manual:  "Clifixture Manual",
	}

	if err := doc.GenManTree(cmd.Root(), header, dir); err != nil {
		return fmt.Errorf("failed to generate man pages: %w", err)
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.1"))
	if err != nil {
		return fmt.Errorf("failed to list generated files: %w", err)
	}

	fmt.Fprintf(outputWriter, "Man pages generated in %s:\n", dir)
	for _, file := range files {
		fmt.Fprintf(outputWriter, "  %s\n", filepath.Base(file))
	}
	return nil
}
