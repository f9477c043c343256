package executor

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Invocation is one command to run as part of a batch
type Invocation struct {
	// Unique identifier for this invocation
	ID string
	// Command to execute
	Command Command
	// Execution options; each invocation gets its own copy
	Options ExecOptions
	// Optional spawn hook
	OnSpawn SpawnHook
}

// Outcome is the result of one invocation. Result is set for failures too,
// holding the partial output.
type Outcome struct {
	Result *ExecResult
	Err    error
}

// Failed reports whether the invocation did not exit with code 0
func (o *Outcome) Failed() bool {
	return o.Err != nil
}

// ParallelResult represents the result of a parallel execution
type ParallelResult struct {
	// Individual outcomes keyed by identifier
	Outcomes map[string]*Outcome
	// Order of submission
	Order []string
	// Total execution time
	TotalTime time.Duration
	// Whether any command failed
	HasFailures bool
	// Count of successful executions
	SuccessCount int
	// Count of failed executions
	FailureCount int
}

// ProgressCallback is called to report progress during parallel execution
type ProgressCallback func(completed int, total int, currentID string)

// ParallelRunner executes multiple commands concurrently. Every invocation
// owns its own process and output buffers.
type ParallelRunner struct {
	executor    Executor
	maxParallel int
}

// NewParallelRunner creates a new parallel runner
func NewParallelRunner(executor Executor, maxParallel int) *ParallelRunner {
	if maxParallel <= 0 {
		maxParallel = 4
	}
	return &ParallelRunner{
		executor:    executor,
		maxParallel: maxParallel,
	}
}

// Run executes all invocations, at most maxParallel at a time
func (pr *ParallelRunner) Run(ctx context.Context, invocations []Invocation, progress ProgressCallback) (*ParallelResult, error) {
	result := &ParallelResult{
		Outcomes: make(map[string]*Outcome, len(invocations)),
		Order:    make([]string, 0, len(invocations)),
	}

	seen := make(map[string]bool, len(invocations))
	for _, inv := range invocations {
		if seen[inv.ID] {
			return nil, fmt.Errorf("duplicate invocation id %q", inv.ID)
		}
		seen[inv.ID] = true
		result.Order = append(result.Order, inv.ID)
	}
	if len(invocations) == 0 {
		return result, nil
	}

	startTime := time.Now()
	semaphore := make(chan struct{}, pr.maxParallel)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		completed int
	)

	for _, inv := range invocations {
		wg.Add(1)

		go func(inv Invocation) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			var outcome *Outcome
			if err := ctx.Err(); err != nil {
				outcome = &Outcome{Err: ClassifyError(err, inv.Command.String(), nil)}
			} else {
				opts := inv.Options
				res, err := pr.executor.Execute(ctx, inv.Command, &opts, inv.OnSpawn)
				if err != nil {
					res = ResultOf(err)
				}
				outcome = &Outcome{Result: res, Err: err}
			}

			mu.Lock()
			result.Outcomes[inv.ID] = outcome
			completed++
			current := completed
			mu.Unlock()

			if progress != nil {
				progress(current, len(invocations), inv.ID)
			}
		}(inv)
	}

	wg.Wait()

	result.TotalTime = time.Since(startTime)
	for _, outcome := range result.Outcomes {
		if outcome.Failed() {
			result.FailureCount++
			result.HasFailures = true
		} else {
			result.SuccessCount++
		}
	}

	return result, nil
}

// FailureSummary returns a summary of failures in submission order
func (r *ParallelResult) FailureSummary() string {
	if !r.HasFailures {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Failed commands (%d/%d):\n", r.FailureCount, len(r.Order))
	for _, id := range r.Order {
		outcome, ok := r.Outcomes[id]
		if !ok || !outcome.Failed() {
			continue
		}
		fmt.Fprintf(&b, "  - %s: %v\n", id, outcome.Err)
	}
	return b.String()
}
