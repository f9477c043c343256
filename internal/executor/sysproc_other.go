//go:build !unix && !windows

package executor

import (
	"os"
	"os/exec"
)

func configureVerbatimArgs(_ *exec.Cmd, _ string, _ []string, _ bool) {}

func signalName(_ *os.ProcessState) string {
	return ""
}
