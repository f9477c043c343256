package fixture

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/bebsworthy/clifixture/internal/debug"
	"github.com/bebsworthy/clifixture/internal/executor"
)

// CheckOptions configures a Checker
type CheckOptions struct {
	// Directory that case working directories are relative to
	FixturesDir string
	// Maximum number of concurrent commands
	Parallel int
	// Environment applied to every case before its own Env
	Environment []string
	// Per-command timeout; zero means none
	Timeout time.Duration
}

// CaseResult is the outcome of running one case
type CaseResult struct {
	Suite *Suite
	Case  *Case
	// Captured result; partial when Err is set
	Result *executor.ExecResult
	// Set when the command could not run to completion
	Err        error
	Mismatches []Mismatch
}

// Passed reports whether the case ran and matched every expectation
func (r *CaseResult) Passed() bool {
	return r.Err == nil && len(r.Mismatches) == 0
}

// Report collects the results of a check in suite order
type Report struct {
	Results  []*CaseResult
	Passed   int
	Failed   int
	Duration time.Duration
}

// OK reports whether every case passed
func (r *Report) OK() bool {
	return r.Failed == 0
}

// Checker runs suites and compares their output against expectations
type Checker struct {
	runner  *executor.ParallelRunner
	options CheckOptions
}

// NewChecker creates a checker running commands through exec
func NewChecker(exec executor.Executor, options CheckOptions) *Checker {
	return &Checker{
		runner:  executor.NewParallelRunner(exec, options.Parallel),
		options: options,
	}
}

// Check runs every case of every suite and compares the results
func (c *Checker) Check(ctx context.Context, suites []*Suite, progress executor.ProgressCallback) (*Report, error) {
	debug.LogSection("Fixture Check")

	type entry struct {
		suite *Suite
		tc    *Case
	}
	var (
		invocations []executor.Invocation
		entries     = make(map[string]entry)
	)

	for _, suite := range suites {
		for i, tc := range suite.Cases {
			id := fmt.Sprintf("%s#%d", suite.Path, i)
			entries[id] = entry{suite: suite, tc: tc}
			invocations = append(invocations, executor.Invocation{
				ID:      id,
				Command: tc.Command,
				Options: c.optionsFor(tc),
			})
		}
	}
	debug.Log("Checking %d cases from %d suites", len(invocations), len(suites))

	start := time.Now()
	parallel, err := c.runner.Run(ctx, invocations, progress)
	if err != nil {
		return nil, err
	}

	report := &Report{Results: make([]*CaseResult, 0, len(parallel.Order))}
	for _, id := range parallel.Order {
		e := entries[id]
		outcome := parallel.Outcomes[id]

		result := &CaseResult{Suite: e.suite, Case: e.tc, Result: outcome.Result}
		// A non-zero exit is an ordinary outcome to compare against the fixture
		if outcome.Err != nil && !errors.Is(outcome.Err, executor.ErrNonZeroExit) {
			result.Err = outcome.Err
		} else {
			result.Mismatches = Compare(e.tc, outcome.Result)
		}

		if result.Passed() {
			report.Passed++
		} else {
			report.Failed++
			debug.Log("Case %s failed: err=%v mismatches=%d", e.tc.Key(), result.Err, len(result.Mismatches))
		}
		report.Results = append(report.Results, result)
	}
	report.Duration = time.Since(start)

	return report, nil
}

func (c *Checker) optionsFor(tc *Case) executor.ExecOptions {
	opts := executor.ExecOptions{
		Timeout: c.options.Timeout,
	}
	if tc.Cwd != "" {
		opts.WorkingDir = filepath.Join(c.options.FixturesDir, filepath.FromSlash(tc.Cwd))
	}
	env := append([]string(nil), c.options.Environment...)
	opts.Environment = append(env, tc.Environment()...)
	return opts
}

// Update records the actual results of mismatched cases as their new
// expectations. Cases that did not run to completion are left alone. It
// returns the suites that changed.
func Update(report *Report) []*Suite {
	var changed []*Suite
	seen := make(map[*Suite]bool)

	for _, r := range report.Results {
		if r.Err != nil || len(r.Mismatches) == 0 || r.Result == nil {
			continue
		}
		r.Case.Code = r.Result.ExitCode
		r.Case.Stdout = r.Result.Stdout
		if r.Case.Stderr != nil {
			stderr := r.Result.Stderr
			r.Case.Stderr = &stderr
		}
		if !seen[r.Suite] {
			seen[r.Suite] = true
			changed = append(changed, r.Suite)
		}
	}
	return changed
}
