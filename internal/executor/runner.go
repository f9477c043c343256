// Package executor provides command execution functionality for clifixture.
package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode"

	"github.com/bebsworthy/clifixture/internal/debug"
)

// NoExitCode is reported when the process never started or was killed by a signal
const NoExitCode = -1

// waitDelay bounds how long Wait keeps draining output pipes once the process
// has exited or been killed. Descendants that inherited the pipes may keep
// them open; their later output is dropped.
const waitDelay = 500 * time.Millisecond

// Command is a program name followed by its arguments
type Command []string

// String returns the fixture key form of the command
func (c Command) String() string {
	return PrettyPrintCommand(c)
}

// StdioMode selects how the child's standard input is wired.
// Stdout and stderr are always captured.
type StdioMode string

const (
	// StdioPipe creates a stdin pipe that is handed to the spawn hook
	StdioPipe StdioMode = "pipe"
	// StdioInherit connects the child to this process's stdin
	StdioInherit StdioMode = "inherit"
	// StdioIgnore connects the child's stdin to the null device
	StdioIgnore StdioMode = "ignore"
)

// ExecOptions defines options for command execution
type ExecOptions struct {
	// Working directory for the command; defaults to the fixtures directory
	WorkingDir string
	// Stdin handling; defaults to StdioPipe
	Stdio StdioMode
	// Environment overrides (in KEY=VALUE format)
	Environment []string
	// Start from an empty environment instead of the parent's
	CleanEnv bool
	// Pass arguments to the OS without quoting (Windows only)
	VerbatimArgs bool
	// Timeout for command execution; zero means none
	Timeout time.Duration
	// Optional writers that receive output as it arrives
	Stdout io.Writer
	Stderr io.Writer
}

// ExecResult contains the result of command execution
type ExecResult struct {
	// Exit code of the command, NoExitCode when unknown
	ExitCode int `json:"code"`
	// Signal that terminated the process, if any
	Signal string `json:"signal,omitempty"`
	// Process id, zero when the process never started
	PID int `json:"pid"`
	// Normalized standard output
	Stdout string `json:"stdout"`
	// Raw standard error
	Stderr string `json:"stderr"`
}

// OutputNormalizer rewrites captured stdout into its canonical form
type OutputNormalizer interface {
	Normalize(text string) string
}

// SpawnHook is called synchronously once the process has started
type SpawnHook func(p *Process)

// Executor runs a single command to completion
type Executor interface {
	Execute(ctx context.Context, command Command, options *ExecOptions, onSpawn SpawnHook) (*ExecResult, error)
}

// Runner executes commands from the fixtures directory and normalizes their output
type Runner struct {
	fixturesDir string
	resolver    *Resolver
	normalizer  OutputNormalizer

	// DefaultTimeout applies when ExecOptions.Timeout is zero. Zero means
	// a hung process blocks until the caller's context is done.
	DefaultTimeout time.Duration
}

var _ Executor = (*Runner)(nil)

// NewRunner creates a runner. A nil resolver passes every program name
// through unchanged; a nil normalizer leaves stdout as captured.
func NewRunner(fixturesDir string, resolver *Resolver, normalizer OutputNormalizer) *Runner {
	if resolver == nil {
		resolver = NewResolver()
	}
	return &Runner{
		fixturesDir: fixturesDir,
		resolver:    resolver,
		normalizer:  normalizer,
	}
}

// FixturesDir returns the default working directory
func (r *Runner) FixturesDir() string {
	return r.fixturesDir
}

// Execute runs command and waits for it to exit. It succeeds only on exit
// code 0; every other outcome returns an *ExecError whose Result holds the
// output captured so far. options is updated in place with the defaults
// that were applied.
func (r *Runner) Execute(ctx context.Context, command Command, options *ExecOptions, onSpawn SpawnHook) (*ExecResult, error) {
	if len(command) == 0 || command[0] == "" {
		return nil, fmt.Errorf("command cannot be empty")
	}
	if options == nil {
		options = &ExecOptions{}
	}
	r.applyDefaults(options)

	name, args := r.resolver.Resolve(command)
	debug.LogCommand(name, args, options.WorkingDir)
	start := time.Now()
	defer func() { debug.LogTiming(PrettyPrintCommand(command), time.Since(start)) }()

	timeout := options.Timeout
	if timeout <= 0 {
		timeout = r.DefaultTimeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	result := &ExecResult{ExitCode: NoExitCode}
	stdout := &captureBuffer{}
	stderr := &captureBuffer{}

	if err := checkWorkingDir(options.WorkingDir); err != nil {
		return nil, r.fail(&ExecError{
			Type:    ErrorTypeWorkingDirectory,
			Command: name,
			Args:    args,
			Err:     err,
			Details: err.Error(),
		}, result, stdout, stderr)
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = options.WorkingDir
	cmd.Env = prepareEnvironment(*options)
	cmd.WaitDelay = waitDelay
	var killed atomic.Bool
	cmd.Cancel = func() error {
		err := cmd.Process.Kill()
		if err == nil {
			killed.Store(true)
		}
		return err
	}
	configureVerbatimArgs(cmd, name, args, options.VerbatimArgs)

	cmd.Stdout = teeWriter(stdout, options.Stdout)
	cmd.Stderr = teeWriter(stderr, options.Stderr)

	var stdin io.WriteCloser
	switch options.Stdio {
	case StdioInherit:
		cmd.Stdin = os.Stdin
	case StdioIgnore:
	default:
		pipe, err := cmd.StdinPipe()
		if err != nil {
			return nil, r.fail(ClassifyError(err, name, args), result, stdout, stderr)
		}
		stdin = pipe
	}

	if err := cmd.Start(); err != nil {
		debug.LogError(err, "starting process")
		return nil, r.fail(ClassifyError(err, name, args), result, stdout, stderr)
	}
	result.PID = cmd.Process.Pid
	debug.Log("Started pid %d", result.PID)

	if onSpawn != nil {
		onSpawn(&Process{Cmd: cmd, PID: result.PID, Stdin: stdin, stdout: stdout, stderr: stderr})
	} else if stdin != nil {
		_ = stdin.Close() //nolint:errcheck // child sees EOF
	}

	waitErr := cmd.Wait()
	if state := cmd.ProcessState; state != nil {
		result.ExitCode = state.ExitCode()
		result.Signal = signalName(state)
	}

	if waitErr == nil || (errors.Is(waitErr, exec.ErrWaitDelay) && cmd.ProcessState.Success()) {
		if waitErr != nil {
			debug.Log("pid %d exited but left its output pipes open", result.PID)
		}
		r.finish(result, stdout, stderr)
		return result, nil
	}

	// The context only decides the outcome when it killed the process.
	if ctxErr := ctx.Err(); ctxErr != nil && killed.Load() {
		execErr := ClassifyError(ctxErr, name, args)
		execErr.Err = fmt.Errorf("%w: %w", ctxErr, waitErr)
		return nil, r.fail(execErr, result, stdout, stderr)
	}

	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return nil, r.fail(&ExecError{
			Type:    ErrorTypeNonZeroExit,
			Command: name,
			Args:    args,
			Err:     waitErr,
		}, result, stdout, stderr)
	}

	return nil, r.fail(ClassifyError(waitErr, name, args), result, stdout, stderr)
}

// applyDefaults fills in the options the caller left unset
func (r *Runner) applyDefaults(options *ExecOptions) {
	if options.WorkingDir == "" {
		options.WorkingDir = r.fixturesDir
	}
	if options.Stdio == "" {
		options.Stdio = StdioPipe
	}
	// Avoid Windows seeing 'foo/bar' as a directory named "'foo/".
	options.VerbatimArgs = true
}

// finish trims both streams and normalizes stdout
func (r *Runner) finish(result *ExecResult, stdout, stderr *captureBuffer) {
	debug.LogOutput("stdout", stdout.String())
	debug.LogOutput("stderr", stderr.String())
	out := trimEnd(stdout.String())
	if r.normalizer != nil {
		out = r.normalizer.Normalize(out)
	}
	result.Stdout = out
	result.Stderr = trimEnd(stderr.String())
}

// fail attaches the partial result to execErr
func (r *Runner) fail(execErr *ExecError, result *ExecResult, stdout, stderr *captureBuffer) *ExecError {
	r.finish(result, stdout, stderr)
	execErr.Result = result
	debug.LogError(execErr, "execute")
	return execErr
}

// checkWorkingDir verifies that dir exists and is a directory
func checkWorkingDir(dir string) error {
	if dir == "" {
		return nil
	}
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("invalid working directory: %w", err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("invalid working directory: %s does not exist", absPath)
		}
		return fmt.Errorf("invalid working directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("invalid working directory: %s is not a directory", absPath)
	}
	return nil
}

// prepareEnvironment applies the overrides on top of the parent environment
// (or an empty one when CleanEnv is set). A nil return inherits the parent.
func prepareEnvironment(options ExecOptions) []string {
	if len(options.Environment) == 0 && !options.CleanEnv {
		return nil
	}

	var env []string
	if !options.CleanEnv {
		env = os.Environ()
	}

	envMap := make(map[string]string, len(env)+len(options.Environment))
	for _, e := range env {
		if k, v, ok := strings.Cut(e, "="); ok {
			envMap[k] = v
		}
	}
	for _, e := range options.Environment {
		if k, v, ok := strings.Cut(e, "="); ok {
			envMap[k] = v
		}
	}

	keys := make([]string, 0, len(envMap))
	for k := range envMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env = make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, k+"="+envMap[k])
	}
	return env
}

func trimEnd(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}

func teeWriter(buf *captureBuffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(buf, w)
}

// captureBuffer is an append-only buffer that is safe to read while the
// process is still writing to it.
type captureBuffer struct {
	mu  sync.Mutex
	buf strings.Builder
}

// Write implements io.Writer
func (b *captureBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// String returns everything written so far
func (b *captureBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Process is the handle passed to a SpawnHook
type Process struct {
	Cmd *exec.Cmd
	PID int
	// Stdin is nil unless the stdio mode is StdioPipe. The hook owns it and
	// should close it when done writing.
	Stdin io.WriteCloser

	stdout *captureBuffer
	stderr *captureBuffer
}

// Stdout returns the raw stdout captured so far
func (p *Process) Stdout() string {
	return p.stdout.String()
}

// Stderr returns the raw stderr captured so far
func (p *Process) Stderr() string {
	return p.stderr.String()
}

// Signal sends sig to the process
func (p *Process) Signal(sig os.Signal) error {
	return p.Cmd.Process.Signal(sig)
}

// WaitForOutput polls stdout until it contains substr or ctx is done
func (p *Process) WaitForOutput(ctx context.Context, substr string) error {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		if strings.Contains(p.Stdout(), substr) {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for %q: %w", substr, ctx.Err())
		case <-ticker.C:
		}
	}
}
