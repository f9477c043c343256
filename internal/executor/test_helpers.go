//go:build unit

package executor

import (
	"fmt"
	"runtime"
)

// Shells used to build the platform commands below
const (
	windowsGOOS  = "windows"
	windowsShell = "cmd"
	windowsFlag  = "/C"
	posixShell   = "sh"
	posixFlag    = "-c"
)

// platformCommand builds commands that behave the same on every platform
type platformCommand struct{}

var pc = platformCommand{}

func (platformCommand) echo(message string) Command {
	if runtime.GOOS == windowsGOOS {
		return Command{windowsShell, windowsFlag, "echo", message}
	}
	return Command{"echo", message}
}

func (platformCommand) exit(code int) Command {
	if runtime.GOOS == windowsGOOS {
		return Command{windowsShell, windowsFlag, "exit", fmt.Sprintf("%d", code)}
	}
	return Command{posixShell, posixFlag, fmt.Sprintf("exit %d", code)}
}

func (platformCommand) stderr(message string) Command {
	if runtime.GOOS == windowsGOOS {
		return Command{windowsShell, windowsFlag, "echo", message, "1>&2"}
	}
	return Command{posixShell, posixFlag, fmt.Sprintf("echo '%s' >&2", message)}
}
