//go:build unix

package executor

import (
	"os"
	"os/exec"
	"syscall"
)

// configureVerbatimArgs is a no-op: argv is passed to execve as-is
func configureVerbatimArgs(_ *exec.Cmd, _ string, _ []string, _ bool) {}

// signalName returns the name of the signal that killed the process, if any
func signalName(state *os.ProcessState) string {
	if state == nil {
		return ""
	}
	status, ok := state.Sys().(syscall.WaitStatus)
	if !ok || !status.Signaled() {
		return ""
	}
	return status.Signal().String()
}
