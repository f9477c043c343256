//go:build windows

package executor

import (
	"os"
	"os/exec"
	"strings"
	"syscall"
)

// configureVerbatimArgs hands the arguments to CreateProcess unquoted,
// joined by single spaces. Only the program name is escaped.
func configureVerbatimArgs(cmd *exec.Cmd, name string, args []string, verbatim bool) {
	if !verbatim {
		return
	}
	line := syscall.EscapeArg(name)
	if len(args) > 0 {
		line += " " + strings.Join(args, " ")
	}
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.CmdLine = line
}

// signalName is always empty on Windows, which has no signal exit status
func signalName(_ *os.ProcessState) string {
	return ""
}
