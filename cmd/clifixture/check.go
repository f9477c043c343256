package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bebsworthy/clifixture/internal/config"
	"github.com/bebsworthy/clifixture/internal/debug"
	"github.com/bebsworthy/clifixture/internal/fixture"
	"github.com/bebsworthy/clifixture/internal/reporter"
)

type checkOptions struct {
	update   bool
	parallel int
	timeout  time.Duration
	verbose  bool
	noColor  bool
}

func newCheckCmd() *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check [patterns...]",
		Short: "Run fixture suites and compare output with expectations",
		Long: `Run every case of the matching fixture suites and compare exit code,
normalized stdout and, when a case lists it, stderr with the recorded
expectations.

Patterns are doublestar globs relative to the fixtures directory. Without
patterns the configured fixture glob is used.`,
		Example: `  # Check every suite
  clifixture check

  # Check one directory with more parallelism
  clifixture check --parallel 8 'expected/reporters/**/*.yaml'

  # Record the current output as the new expectation
  clifixture check --update`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.update, "update", false, "Write actual output back to mismatching cases")
	cmd.Flags().IntVar(&opts.parallel, "parallel", 0, "Maximum concurrent commands (default: the configured value)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Per-command timeout (default: the configured timeout)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "List passing cases too")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable coloured output")

	return cmd
}

func runCheck(cmd *cobra.Command, opts *checkOptions, patterns []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := config.NewValidator().Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if len(patterns) == 0 {
		patterns = []string{cfg.FixtureGlob}
	}

	store := fixture.NewOSStore(cfg.FixturesDir)
	suites, err := store.LoadAll(patterns...)
	if err != nil {
		return err
	}
	debug.Log("Loaded %d suites from %s", len(suites), config.RelativeToRoot(cfg, cfg.FixturesDir))

	parallel := cfg.Parallel
	if opts.parallel > 0 {
		parallel = opts.parallel
	}
	timeout := cfg.TimeoutDuration()
	if opts.timeout > 0 {
		timeout = opts.timeout
	}

	checker := fixture.NewChecker(newRunner(cfg), fixture.CheckOptions{
		FixturesDir: cfg.FixturesDir,
		Parallel:    parallel,
		Environment: cfg.Environment,
		Timeout:     timeout,
	})
	report, err := checker.Check(commandContext(cmd), suites, func(completed, total int, id string) {
		debug.Log("[%d/%d] %s", completed, total, id)
	})
	if err != nil {
		return err
	}

	r := reporter.NewCheckReporter(useColor(opts.noColor))
	r.Verbose = opts.verbose
	result := r.Report(report)

	if opts.update {
		changed := fixture.Update(report)
		for _, suite := range changed {
			if err := store.Save(suite); err != nil {
				return err
			}
		}
		result.Stdout += fmt.Sprintf("Updated %d suite(s)\n", len(changed))
		result.ExitCode = 0
		for _, res := range report.Results {
			if res.Err != nil {
				result.ExitCode = 1
			}
		}
	}

	writeReport(result)
	return nil
}
