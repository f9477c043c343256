// Package executor provides command execution functionality for clifixture.
package executor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"
)

// Error types for command execution
var (
	// ErrCommandNotFound indicates the command was not found in PATH
	ErrCommandNotFound = errors.New("command not found")

	// ErrPermissionDenied indicates the command cannot be executed due to permissions
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNonZeroExit indicates the command ran but did not exit with code 0
	ErrNonZeroExit = errors.New("non-zero exit")

	// ErrTimeout indicates the command timed out
	ErrTimeout = errors.New("command timed out")

	// ErrCanceled indicates the caller's context was canceled while the command ran
	ErrCanceled = errors.New("command canceled")

	// ErrInvalidWorkingDirectory indicates the working directory is invalid
	ErrInvalidWorkingDirectory = errors.New("invalid working directory")
)

// ErrorType represents the type of execution error
type ErrorType int

const (
	// ErrorTypeUnknown indicates an unknown error
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeCommandNotFound indicates the command was not found
	ErrorTypeCommandNotFound
	// ErrorTypePermissionDenied indicates permission was denied
	ErrorTypePermissionDenied
	// ErrorTypeWorkingDirectory indicates working directory error
	ErrorTypeWorkingDirectory
	// ErrorTypeNonZeroExit indicates the process exited with a non-zero or signal status
	ErrorTypeNonZeroExit
	// ErrorTypeTimeout indicates the command timed out
	ErrorTypeTimeout
	// ErrorTypeCanceled indicates the context was canceled
	ErrorTypeCanceled
)

// String returns a short name for the error type
func (t ErrorType) String() string {
	switch t {
	case ErrorTypeCommandNotFound:
		return "command-not-found"
	case ErrorTypePermissionDenied:
		return "permission-denied"
	case ErrorTypeWorkingDirectory:
		return "working-directory"
	case ErrorTypeNonZeroExit:
		return "non-zero-exit"
	case ErrorTypeTimeout:
		return "timeout"
	case ErrorTypeCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// IsSpawnError reports whether the process could not be created at all
func (t ErrorType) IsSpawnError() bool {
	return t == ErrorTypeCommandNotFound || t == ErrorTypePermissionDenied || t == ErrorTypeWorkingDirectory
}

// ExecError is the failure value of Execute. Result always holds whatever
// output was captured before the failure, plus the PID and exit code.
type ExecError struct {
	Type    ErrorType
	Command string
	Args    []string
	Err     error
	Details string
	Result  *ExecResult
}

// Error implements the error interface
func (e *ExecError) Error() string {
	cmd := e.Command
	if len(e.Args) > 0 {
		cmd = fmt.Sprintf("%s %s", e.Command, strings.Join(e.Args, " "))
	}

	switch e.Type {
	case ErrorTypeCommandNotFound:
		return fmt.Sprintf("command not found: %s", e.Command)
	case ErrorTypePermissionDenied:
		return fmt.Sprintf("permission denied: %s", cmd)
	case ErrorTypeWorkingDirectory:
		return fmt.Sprintf("working directory error: %s", e.Details)
	case ErrorTypeNonZeroExit:
		if e.Result != nil && e.Result.Signal != "" {
			return fmt.Sprintf("%s: killed by signal %s", cmd, e.Result.Signal)
		}
		if e.Result != nil {
			return fmt.Sprintf("%s: error code %d", cmd, e.Result.ExitCode)
		}
		return fmt.Sprintf("%s: %v", cmd, e.Err)
	case ErrorTypeTimeout:
		return fmt.Sprintf("command timed out: %s", cmd)
	case ErrorTypeCanceled:
		return fmt.Sprintf("command canceled: %s", cmd)
	default:
		return fmt.Sprintf("unknown error for %s: %v", cmd, e.Err)
	}
}

// Unwrap returns the underlying error
func (e *ExecError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ExecError) Is(target error) bool {
	switch target {
	case ErrCommandNotFound:
		return e.Type == ErrorTypeCommandNotFound
	case ErrPermissionDenied:
		return e.Type == ErrorTypePermissionDenied
	case ErrNonZeroExit:
		return e.Type == ErrorTypeNonZeroExit
	case ErrTimeout:
		return e.Type == ErrorTypeTimeout
	case ErrCanceled:
		return e.Type == ErrorTypeCanceled
	case ErrInvalidWorkingDirectory:
		return e.Type == ErrorTypeWorkingDirectory
	}
	return false
}

// ResultOf returns the partial result carried by an execution failure, or
// nil when err is not an *ExecError.
func ResultOf(err error) *ExecResult {
	var execErr *ExecError
	if errors.As(err, &execErr) {
		return execErr.Result
	}
	return nil
}

// ClassifyError analyzes an error and returns a typed ExecError
func ClassifyError(err error, command string, args []string) *ExecError {
	if err == nil {
		return nil
	}

	execErr := &ExecError{
		Type:    ErrorTypeUnknown,
		Command: command,
		Args:    args,
		Err:     err,
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) && pathErr.Op == "chdir" {
		execErr.Type = ErrorTypeWorkingDirectory
		execErr.Details = err.Error()
		return execErr
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		execErr.Type = ErrorTypeTimeout
		return execErr
	case errors.Is(err, context.Canceled):
		execErr.Type = ErrorTypeCanceled
		return execErr
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		execErr.Type = ErrorTypeCommandNotFound
		return execErr
	case errors.Is(err, fs.ErrPermission):
		execErr.Type = ErrorTypePermissionDenied
		return execErr
	}

	// Check for exit error (command ran but returned non-zero)
	var exitError *exec.ExitError
	if errors.As(err, &exitError) {
		execErr.Type = ErrorTypeNonZeroExit
		return execErr
	}

	execErr.Type = classifyByErrorMessage(err.Error())
	if execErr.Type == ErrorTypeWorkingDirectory {
		execErr.Details = err.Error()
	}

	return execErr
}

// classifyByErrorMessage classifies errors by their message content
func classifyByErrorMessage(errorMessage string) ErrorType {
	errStr := strings.ToLower(errorMessage)

	switch {
	case strings.Contains(errStr, "permission denied") || strings.Contains(errStr, "operation not permitted"):
		return ErrorTypePermissionDenied
	case strings.Contains(errStr, "executable file not found") ||
		strings.Contains(errStr, "no such file or directory") ||
		strings.Contains(errStr, "not found"):
		return ErrorTypeCommandNotFound
	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded"):
		return ErrorTypeTimeout
	case strings.Contains(errStr, "working directory") || strings.Contains(errStr, "chdir"):
		return ErrorTypeWorkingDirectory
	default:
		return ErrorTypeUnknown
	}
}
