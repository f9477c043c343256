package testutil

import (
	"context"

	"github.com/bebsworthy/clifixture/internal/executor"
)

// ResultBuilder provides a fluent interface for building Execute outcomes.
type ResultBuilder struct {
	command string
	result  executor.ExecResult
	errType executor.ErrorType
	cause   error
}

// NewResultBuilder creates a builder for a successful, silent run.
func NewResultBuilder() *ResultBuilder {
	return &ResultBuilder{command: "qunit"}
}

// ForCommand sets the program name reported in errors.
func (b *ResultBuilder) ForCommand(name string) *ResultBuilder {
	b.command = name
	return b
}

// WithStdout sets the captured stdout.
func (b *ResultBuilder) WithStdout(stdout string) *ResultBuilder {
	b.result.Stdout = stdout
	return b
}

// WithStderr sets the captured stderr.
func (b *ResultBuilder) WithStderr(stderr string) *ResultBuilder {
	b.result.Stderr = stderr
	return b
}

// WithPID sets the process id.
func (b *ResultBuilder) WithPID(pid int) *ResultBuilder {
	b.result.PID = pid
	return b
}

// Success creates a successful result with optional stdout.
func (b *ResultBuilder) Success(stdout ...string) *ResultBuilder {
	b.result.ExitCode = 0
	b.result.Signal = ""
	b.cause = nil
	if len(stdout) > 0 {
		b.result.Stdout = stdout[0]
	}
	return b
}

// Failure creates a run that exited with code and optional stdout.
func (b *ResultBuilder) Failure(code int, stdout ...string) *ResultBuilder {
	b.result.ExitCode = code
	b.errType = executor.ErrorTypeNonZeroExit
	b.cause = executor.ErrNonZeroExit
	if len(stdout) > 0 {
		b.result.Stdout = stdout[0]
	}
	return b
}

// Signal creates a run terminated by the named signal.
func (b *ResultBuilder) Signal(name string) *ResultBuilder {
	b.result.ExitCode = executor.NoExitCode
	b.result.Signal = name
	b.errType = executor.ErrorTypeNonZeroExit
	b.cause = executor.ErrNonZeroExit
	return b
}

// NotFound creates a spawn failure for a missing program.
func (b *ResultBuilder) NotFound() *ResultBuilder {
	b.result = executor.ExecResult{ExitCode: executor.NoExitCode}
	b.errType = executor.ErrorTypeCommandNotFound
	b.cause = executor.ErrCommandNotFound
	return b
}

// TimedOut creates a run killed by its timeout.
func (b *ResultBuilder) TimedOut() *ResultBuilder {
	b.result.ExitCode = executor.NoExitCode
	b.result.Signal = "killed"
	b.errType = executor.ErrorTypeTimeout
	b.cause = context.DeadlineExceeded
	return b
}

// Build returns the pair Execute would return: the result and a nil error
// on success, or a nil result and an *ExecError carrying the result.
func (b *ResultBuilder) Build() (*executor.ExecResult, error) {
	res := b.result
	if b.cause == nil {
		return &res, nil
	}
	return nil, &executor.ExecError{
		Type:    b.errType,
		Command: b.command,
		Err:     b.cause,
		Result:  &res,
	}
}

// Func returns Build as a closure for table-driven fakes.
func (b *ResultBuilder) Func() func() (*executor.ExecResult, error) {
	return b.Build
}
