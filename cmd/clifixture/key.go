package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bebsworthy/clifixture/internal/executor"
)

func newKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "key -- <command> [args...]",
		Short: "Print the fixture key of a command",
		Long: `Print the string that identifies a command in fixture suites. Arguments
containing a space or "*" are wrapped in single quotes.`,
		Example: `  clifixture key -- qunit 'test/*.js'
  # qunit 'test/*.js'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(outputWriter, executor.PrettyPrintCommand(executor.Command(args)))
			return err
		},
	}
}
