package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/bebsworthy/clifixture/internal/debug"
	"github.com/bebsworthy/clifixture/internal/executor"
	"github.com/bebsworthy/clifixture/internal/reporter"
)

type runOptions struct {
	jsonOutput bool
	cwd        string
	env        []string
	stdio      string
	input      string
	timeout    time.Duration
}

// runResult is the --json view of one execution
type runResult struct {
	Key string `json:"key"`
	*executor.ExecResult
	Error     string `json:"error,omitempty"`
	ErrorType string `json:"errorType,omitempty"`
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run [flags] -- <command> [args...]",
		Short: "Execute one command and print its normalized output",
		Long: `Execute one command the way fixture checks do and print the result.

Stdout is trimmed and normalized, stderr is only trimmed. The exit code of
the command becomes the exit code of clifixture; a command killed by a
signal exits with 128 and a command that could not be started exits with 1.`,
		Example: `  # Run the tool under test from the fixtures directory
  clifixture run -- qunit test/passing.js

  # Feed stdin through the spawn hook and print JSON
  clifixture run --input 'hello' --json -- node echo.js

  # Run with extra environment and a timeout
  clifixture run --env FORCE_COLOR=0 --timeout 5s -- qunit --seed 7`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(cmd, opts, executor.Command(args))
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print the result as JSON")
	cmd.Flags().StringVar(&opts.cwd, "cwd", "", "Working directory (default: the fixtures directory)")
	cmd.Flags().StringArrayVar(&opts.env, "env", nil, "Extra environment variable (KEY=VALUE), repeatable")
	cmd.Flags().StringVar(&opts.stdio, "stdio", string(executor.StdioPipe), "Stdin handling: pipe, inherit or ignore")
	cmd.Flags().StringVar(&opts.input, "input", "", "Text written to stdin after the process starts (requires --stdio pipe)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Kill the command after this long (default: the configured timeout)")

	return cmd
}

func runCommand(cmd *cobra.Command, opts *runOptions, command executor.Command) error {
	stdio := executor.StdioMode(opts.stdio)
	switch stdio {
	case executor.StdioPipe, executor.StdioInherit, executor.StdioIgnore:
	default:
		return fmt.Errorf("invalid --stdio %q: must be pipe, inherit or ignore", opts.stdio)
	}
	if opts.input != "" && stdio != executor.StdioPipe {
		return fmt.Errorf("--input requires --stdio pipe")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	execOpts := &executor.ExecOptions{
		Stdio:       stdio,
		Environment: append(append([]string(nil), cfg.Environment...), opts.env...),
		Timeout:     opts.timeout,
	}
	if opts.cwd != "" {
		dir, err := filepath.Abs(opts.cwd)
		if err != nil {
			return fmt.Errorf("invalid --cwd: %w", err)
		}
		execOpts.WorkingDir = dir
	}

	var onSpawn executor.SpawnHook
	if opts.input != "" {
		onSpawn = func(p *executor.Process) {
			if _, err := io.WriteString(p.Stdin, opts.input); err != nil {
				debug.LogError(err, "writing stdin")
			}
			_ = p.Stdin.Close() //nolint:errcheck // child sees EOF
		}
	}

	res, execErr := newRunner(cfg).Execute(commandContext(cmd), command, execOpts, onSpawn)

	report := reporter.NewErrorReporter().ReportRun(command, res, execErr)
	if opts.jsonOutput {
		return writeRunJSON(command, res, execErr, report.ExitCode)
	}

	writeReport(report)
	return nil
}

func writeRunJSON(command executor.Command, res *executor.ExecResult, execErr error, exitCode int) error {
	out := runResult{Key: executor.PrettyPrintCommand(command), ExecResult: res}
	if execErr != nil {
		if out.ExecResult == nil {
			out.ExecResult = executor.ResultOf(execErr)
		}
		out.Error = execErr.Error()
		var e *executor.ExecError
		if errors.As(execErr, &e) {
			out.ErrorType = e.Type.String()
		}
	}

	enc := json.NewEncoder(outputWriter)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	if exitCode != 0 {
		osExit(exitCode)
	}
	return nil
}
