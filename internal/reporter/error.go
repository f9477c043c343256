// Package reporter formats execution results and fixture check reports for clifixture.
package reporter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bebsworthy/clifixture/internal/executor"
)

// ReportResult contains the final report output
type ReportResult struct {
	// Exit code (0 for success, 1 for failures, the child's code for run)
	ExitCode int
	// Standard error output (for errors)
	Stderr string
	// Standard output (for success or informational messages)
	Stdout string
}

// ErrorReporter formats single command outcomes and tool errors
type ErrorReporter struct{}

// NewErrorReporter creates a new error reporter
func NewErrorReporter() *ErrorReporter {
	return &ErrorReporter{}
}

// ReportRun turns the outcome of one Execute call into process output.
// The child's exit code is passed through. Spawn failures and timeouts
// exit with 1, signals with 128.
func (r *ErrorReporter) ReportRun(command executor.Command, res *executor.ExecResult, err error) *ReportResult {
	if err == nil {
		return &ReportResult{ExitCode: 0, Stdout: res.Stdout, Stderr: res.Stderr}
	}

	var execErr *executor.ExecError
	if !errors.As(err, &execErr) {
		execErr = executor.ClassifyError(err, command.String(), nil)
	}
	if res == nil {
		res = executor.ResultOf(execErr)
	}

	report := &ReportResult{ExitCode: 1}
	if res != nil {
		report.Stdout = res.Stdout
		report.Stderr = res.Stderr
	}

	if execErr.Type == executor.ErrorTypeNonZeroExit {
		switch {
		case res != nil && res.Signal != "":
			report.ExitCode = 128
		case res != nil:
			report.ExitCode = res.ExitCode
		}
		return report
	}

	msg := r.FormatExecError(executor.PrettyPrintCommand(command), execErr)
	if report.Stderr != "" {
		report.Stderr += "\n\n"
	}
	report.Stderr += "[CLIFIXTURE ERROR] Execution Error\n\n" + msg
	return report
}

// FormatExecError formats an execution error with a suggested fix
func (r *ErrorReporter) FormatExecError(command string, execErr *executor.ExecError) string {
	var msg strings.Builder

	msg.WriteString(fmt.Sprintf("Command: %s\n", command))

	switch execErr.Type {
	case executor.ErrorTypeCommandNotFound:
		msg.WriteString("Error: Command not found\n")
		msg.WriteString(fmt.Sprintf("Details: The command '%s' is not installed or not in PATH\n", execErr.Command))
		msg.WriteString("Fix: Ensure the interpreter is installed or set \"interpreter\" in the config")
	case executor.ErrorTypePermissionDenied:
		msg.WriteString("Error: Permission denied\n")
		msg.WriteString("Details: Insufficient permissions to execute the command\n")
		msg.WriteString("Fix: Check file permissions and user privileges")
	case executor.ErrorTypeTimeout:
		msg.WriteString("Error: Command timed out\n")
		msg.WriteString("Details: The command exceeded the configured timeout\n")
		msg.WriteString("Fix: Increase \"timeout\" in the configuration or pass a longer --timeout")
	case executor.ErrorTypeCanceled:
		msg.WriteString("Error: Command canceled\n")
		msg.WriteString("Details: The run was interrupted before the command finished")
	case executor.ErrorTypeWorkingDirectory:
		msg.WriteString("Error: Working directory error\n")
		msg.WriteString(fmt.Sprintf("Details: %s\n", execErr.Details))
		msg.WriteString("Fix: Ensure the working directory exists and is accessible")
	case executor.ErrorTypeNonZeroExit:
		msg.WriteString(fmt.Sprintf("Error: %s", execErr.Error()))
	default:
		msg.WriteString(fmt.Sprintf("Error: %v", execErr.Err))
	}

	return msg.String()
}

// ReportSingleError creates a report for a single error message
func (r *ErrorReporter) ReportSingleError(errorType string, message string, details ...string) *ReportResult {
	var stderr strings.Builder

	stderr.WriteString(fmt.Sprintf("[CLIFIXTURE ERROR] %s: %s\n", errorType, message))

	if len(details) > 0 {
		stderr.WriteString("\nDetails:\n")
		for _, detail := range details {
			stderr.WriteString(fmt.Sprintf("- %s\n", detail))
		}
	}

	stderr.WriteString("\nDebug with: clifixture --debug <command>")

	return &ReportResult{
		ExitCode: 1,
		Stderr:   stderr.String(),
	}
}
