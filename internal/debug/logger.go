// Package debug provides debug logging functionality for clifixture.
package debug

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/alessio/shellescape"
)

// EnvVar enables debug logging when set to a non-empty value other than "0"
const EnvVar = "CLIFIXTURE_DEBUG"

// Logger provides debug logging capabilities
type Logger struct {
	mu      sync.Mutex
	enabled bool
	writer  io.Writer
	start   time.Time
}

// Global debug logger instance
var globalLogger = &Logger{
	enabled: false,
	writer:  os.Stderr,
}

// Enable enables debug logging
func Enable() {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	globalLogger.enabled = true
	globalLogger.start = time.Now()
}

// Disable turns debug logging off
func Disable() {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	globalLogger.enabled = false
}

// EnableFromEnv enables debug logging if EnvVar is set
func EnableFromEnv() {
	if v := os.Getenv(EnvVar); v != "" && v != "0" {
		Enable()
	}
}

// IsEnabled returns whether debug logging is enabled
func IsEnabled() bool {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	return globalLogger.enabled
}

// SetWriter sets the output writer for debug logs
func SetWriter(w io.Writer) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	globalLogger.writer = w
}

// Log writes a debug message if debugging is enabled
func Log(format string, args ...interface{}) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	if !globalLogger.enabled {
		return
	}

	elapsed := time.Since(globalLogger.start)
	prefix := fmt.Sprintf("[DEBUG %s] ", formatDuration(elapsed))
	message := fmt.Sprintf(format, args...)

	// Ensure message ends with newline
	if !strings.HasSuffix(message, "\n") {
		message += "\n"
	}

	_, _ = fmt.Fprint(globalLogger.writer, prefix+message)
}

// LogSection writes a section header for better organization
func LogSection(title string) {
	Log("=== %s ===", title)
}

// LogCommand logs the resolved command line, shell-escaped so it can be
// pasted into a terminal.
func LogCommand(command string, args []string, workingDir string) {
	if !IsEnabled() {
		return
	}

	LogSection("Command Execution")
	Log("Command: %s", shellescape.QuoteCommand(append([]string{command}, args...)))
	if workingDir != "" {
		Log("Working Directory: %s", workingDir)
	}
}

// LogTiming logs timing information
func LogTiming(operation string, duration time.Duration) {
	Log("Timing: %s took %s", operation, formatDuration(duration))
}

// LogRule logs whether a normalization rule changed its input
func LogRule(name string, changed bool) {
	if !IsEnabled() {
		return
	}

	status := "unchanged"
	if changed {
		status = "rewritten"
	}
	Log("Rule %s: %s", name, status)
}

// LogError logs error details
func LogError(err error, context string) {
	Log("Error in %s: %v", context, err)
}

// formatDuration formats a duration for display
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

// truncate truncates a string to the specified length
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// LogOutput logs a short preview of captured output
func LogOutput(stream, output string) {
	Log("%s: %q", stream, truncate(output, 80))
}
