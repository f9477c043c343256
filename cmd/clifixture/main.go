// Package main is the entry point for the clifixture CLI tool.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/bebsworthy/clifixture/internal/debug"
)

// Version is set at build time via ldflags
var Version = "dev"

// Global flags
var (
	debugFlag  bool
	configPath string
)

// newRootCmd creates and returns the root command
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clifixture",
		Short: "Run a CLI under test and compare its output with fixtures",
		Long: `Clifixture launches the command-line tool under test as a child process,
captures its output and normalizes it so that expected output stays stable
across machines, operating systems and runtime versions.

Normalization replaces the project root with a placeholder, converts path
separators to "/", drops line and column numbers from frames in the bundled
script, joins source-mapped frames and collapses runtime-internal stack
frames into a single "at internal" line.

The program names "qunit" and "node" are reserved: "qunit" runs the tool
entry point through the interpreter and "node" runs the interpreter itself.

EXAMPLES:
  # Run the tool under test once and see normalized output
  $ clifixture run -- qunit test/passing.js

  # Check every fixture suite
  $ clifixture check

  # Re-record expectations after an intended change
  $ clifixture check --update expected/reporter/*.yaml

  # Normalize arbitrary output
  $ node bin/qunit.js test/x.js | clifixture normalize

  # Print the fixture key of a command
  $ clifixture key -- qunit 'test/*.js'

For more information, see: https://github.com/bebsworthy/clifixture`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			debug.EnableFromEnv()
			if debugFlag {
				debug.Enable()
			}
		},
	}

	cmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug output")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file")

	// Disable the default completion command
	cmd.CompletionOptions.DisableDefaultCmd = true

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newNormalizeCmd())
	cmd.AddCommand(newKeyCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newCompletionCmd())
	cmd.AddCommand(newManCmd())

	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(errorWriter, err)
		osExit(1)
	}
}
