package testutil

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

const windowsOS = "windows"

// ToolScript is a stand-in for the CLI under test. It prints a TAP header,
// one line per argument and a short stack trace containing the project root
// and a runtime-internal frame. TOOL_STDERR is echoed to stderr and
// TOOL_EXIT sets the exit code.
const ToolScript = `root=$(cd "$(dirname "$0")/.." && pwd)
echo "TAP version 13"
for arg in "$@"; do
  echo "ok - $arg"
done
echo "    at run ($root/src/run.js:3:7)"
echo "    at next (node:internal/process/task_queues:95:5)"
if [ -n "$TOOL_STDERR" ]; then
  echo "$TOOL_STDERR" >&2
fi
exit "${TOOL_EXIT:-0}"
`

// RequireCommand skips the test if the command is not available.
func RequireCommand(t testing.TB, command string) {
	t.Helper()

	_, err := exec.LookPath(command)
	if err != nil {
		t.Skipf("Command %q not found in PATH", command)
	}
}

// TempScript creates a temporary executable script for testing.
func TempScript(t testing.TB, content string) string {
	t.Helper()

	tmpFile, err := os.CreateTemp(t.TempDir(), "test-script-*.sh")
	if err != nil {
		t.Fatalf("Failed to create temp script: %v", err)
	}
	defer func() { _ = tmpFile.Close() }() //nolint:errcheck

	if _, err := tmpFile.WriteString("#!/bin/sh\n" + content); err != nil {
		t.Fatalf("Failed to write script content: %v", err)
	}

	if err := os.Chmod(tmpFile.Name(), 0755); err != nil { //nolint:gosec // G302: Script needs to be executable for testing
		t.Fatalf("Failed to make script executable: %v", err)
	}

	return tmpFile.Name()
}

// WriteTool writes ToolScript to dir/name and returns its path
func WriteTool(t testing.TB, dir, name string) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(ToolScript), 0755); err != nil { //nolint:gosec // G306: tool must be executable
		t.Fatalf("Failed to write tool script: %v", err)
	}
	return path
}

// IsWindows returns true if running on Windows.
func IsWindows() bool {
	return runtime.GOOS == windowsOS
}

// SkipOnWindows skips the test if running on Windows.
func SkipOnWindows(t testing.TB, reason string) {
	t.Helper()
	if IsWindows() {
		t.Skip("Skipping on Windows: " + reason)
	}
}

// TestContext returns a context that is canceled when the test ends or
// after 30 seconds, whichever comes first.
func TestContext(t testing.TB) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}
