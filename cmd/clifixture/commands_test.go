package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bebsworthy/clifixture/internal/debug"
	"github.com/bebsworthy/clifixture/internal/testutil"
)

// normalized output of the test tool invoked with a single "a b" argument
const toolOutput = "TAP version 13\nok - a b\n    at run (/qunit/src/run.js:3:7)\n    at internal"

type cliResult struct {
	stdout string
	stderr string
	code   int
	err    error
}

// runCLI executes the root command with swapped writers and exit function
func runCLI(t *testing.T, args ...string) cliResult {
	t.Helper()

	stdout, stderr := testutil.NewTestWriter(), testutil.NewTestWriter()
	oldOut, oldErr, oldExit := outputWriter, errorWriter, osExit
	code := 0
	outputWriter = stdout
	errorWriter = stderr
	osExit = func(c int) { code = c }
	debugFlag, configPath = false, ""
	t.Cleanup(func() {
		outputWriter, errorWriter, osExit = oldOut, oldErr, oldExit
		debug.Disable()
	})

	cmd := newRootCmd()
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())

	return cliResult{stdout: stdout.String(), stderr: stderr.String(), code: code, err: err}
}

func withInput(t *testing.T, input string) {
	t.Helper()
	old := inputReader
	inputReader = strings.NewReader(input)
	t.Cleanup(func() { inputReader = old })
}

func TestRunCommand(t *testing.T) {
	p := testutil.NewProject(t)

	t.Run("normalized output", func(t *testing.T) {
		res := runCLI(t, "--config", p.ConfigPath, "run", "--", "qunit", "a b")
		require.NoError(t, res.err)

		assert.Equal(t, 0, res.code)
		assert.Equal(t, toolOutput+"\n", res.stdout)
		assert.Empty(t, res.stderr)
	})

	t.Run("exit code passthrough", func(t *testing.T) {
		res := runCLI(t, "--config", p.ConfigPath, "run", "--env", "TOOL_EXIT=3", "--env", "TOOL_STDERR=boom", "--", "qunit", "a b")
		require.NoError(t, res.err)

		assert.Equal(t, 3, res.code)
		assert.Equal(t, toolOutput+"\n", res.stdout)
		assert.Equal(t, "boom\n", res.stderr)
	})

	t.Run("command not found", func(t *testing.T) {
		res := runCLI(t, "--config", p.ConfigPath, "run", "--", "clifixture-no-such-command")
		require.NoError(t, res.err)

		assert.Equal(t, 1, res.code)
		assert.Contains(t, res.stderr, "[CLIFIXTURE ERROR] Execution Error")
		assert.Contains(t, res.stderr, "clifixture-no-such-command")
	})

	t.Run("json output", func(t *testing.T) {
		res := runCLI(t, "--config", p.ConfigPath, "run", "--json", "--env", "TOOL_EXIT=2", "--", "qunit", "a b")
		require.NoError(t, res.err)
		assert.Equal(t, 2, res.code)

		var out map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(res.stdout), &out))
		assert.Equal(t, "qunit 'a b'", out["key"])
		assert.Equal(t, float64(2), out["code"])
		assert.Equal(t, toolOutput, out["stdout"])
		assert.Equal(t, "non-zero-exit", out["errorType"])
		assert.NotZero(t, out["pid"])
	})

	t.Run("stdin through spawn hook", func(t *testing.T) {
		res := runCLI(t, "--config", p.ConfigPath, "run", "--input", "hello", "--", "cat")
		require.NoError(t, res.err)

		assert.Equal(t, 0, res.code)
		assert.Equal(t, "hello\n", res.stdout)
	})

	t.Run("killed by signal", func(t *testing.T) {
		script := testutil.TempScript(t, "echo partial\nkill -TERM $$\n")
		res := runCLI(t, "--config", p.ConfigPath, "run", "--", "sh", script)
		require.NoError(t, res.err)

		assert.Equal(t, 128, res.code)
		assert.Equal(t, "partial\n", res.stdout)
	})

	t.Run("cwd", func(t *testing.T) {
		res := runCLI(t, "--config", p.ConfigPath, "run", "--cwd", p.Root, "--", "sh", "-c", "pwd")
		require.NoError(t, res.err)
		assert.Equal(t, "/qunit\n", res.stdout)
	})

	t.Run("invalid stdio", func(t *testing.T) {
		res := runCLI(t, "--config", p.ConfigPath, "run", "--stdio", "tty", "--", "qunit")
		require.Error(t, res.err)
		assert.Contains(t, res.err.Error(), "invalid --stdio")
	})

	t.Run("input requires pipe", func(t *testing.T) {
		res := runCLI(t, "--config", p.ConfigPath, "run", "--stdio", "ignore", "--input", "x", "--", "cat")
		require.Error(t, res.err)
	})
}

func TestKeyCommand(t *testing.T) {
	res := runCLI(t, "key", "--", "qunit", "test/*.js", "--seed", "a b")
	require.NoError(t, res.err)
	assert.Equal(t, "qunit 'test/*.js' --seed 'a b'\n", res.stdout)
}

func TestNormalizeCommand(t *testing.T) {
	p := testutil.NewProject(t)

	t.Run("stdin", func(t *testing.T) {
		withInput(t, "at foo ("+p.Root+"/lib/x.js:1:2)\n")
		res := runCLI(t, "--config", p.ConfigPath, "normalize")
		require.NoError(t, res.err)
		assert.Equal(t, "at foo (/qunit/lib/x.js:1:2)\n", res.stdout)
	})

	t.Run("foreign root and separator", func(t *testing.T) {
		withInput(t, `    at run (C:\ci\qunit\src\run.js:3:7)`)
		res := runCLI(t, "--config", p.ConfigPath, "normalize", "--root", `C:\ci\qunit`, "--separator", `\`)
		require.NoError(t, res.err)
		assert.Equal(t, "    at run (/qunit/src/run.js:3:7)", res.stdout)
	})

	t.Run("files", func(t *testing.T) {
		log := filepath.Join(t.TempDir(), "run.log")
		require.NoError(t, os.WriteFile(log, []byte(p.Root+"/a\n"), 0600))

		res := runCLI(t, "--config", p.ConfigPath, "normalize", log)
		require.NoError(t, res.err)
		assert.Equal(t, "/qunit/a\n", res.stdout)
	})

	t.Run("missing file", func(t *testing.T) {
		res := runCLI(t, "--config", p.ConfigPath, "normalize", filepath.Join(p.Root, "missing.log"))
		require.Error(t, res.err)
	})
}

const passingSuite = `cases:
  - command: [qunit, a b]
    code: 0
    stdout: |
      TAP version 13
      ok - a b
          at run (/qunit/src/run.js:3:7)
          at internal
`

const failingSuite = `cases:
  - command: [qunit, a b]
    code: 1
    stdout: |
      TAP version 13
      ok - something else
`

func TestCheckCommand(t *testing.T) {
	t.Run("all pass", func(t *testing.T) {
		p := testutil.NewProject(t)
		p.WriteSuite("expected/pass.yaml", passingSuite)

		res := runCLI(t, "--config", p.ConfigPath, "check", "--no-color")
		require.NoError(t, res.err)

		assert.Equal(t, 0, res.code)
		assert.Contains(t, res.stdout, "All 1 cases passed")
	})

	t.Run("failure", func(t *testing.T) {
		p := testutil.NewProject(t)
		p.WriteSuite("expected/pass.yaml", passingSuite)
		p.WriteSuite("expected/fail.yaml", failingSuite)

		res := runCLI(t, "--config", p.ConfigPath, "check", "--no-color")
		require.NoError(t, res.err)

		assert.Equal(t, 1, res.code)
		assert.Contains(t, res.stdout, "✗ expected/fail.yaml: qunit 'a b'")
		assert.Contains(t, res.stdout, "code: expected 1, got 0")
		assert.Contains(t, res.stdout, "+ ok - a b")
		assert.Contains(t, res.stdout, "1 passed, 1 failed")
	})

	t.Run("pattern selects suites", func(t *testing.T) {
		p := testutil.NewProject(t)
		p.WriteSuite("expected/pass.yaml", passingSuite)
		p.WriteSuite("expected/fail.yaml", failingSuite)

		res := runCLI(t, "--config", p.ConfigPath, "check", "--no-color", "expected/pass.yaml")
		require.NoError(t, res.err)
		assert.Equal(t, 0, res.code)
	})

	t.Run("update rewrites expectations", func(t *testing.T) {
		p := testutil.NewProject(t)
		p.WriteSuite("expected/fail.yaml", failingSuite)

		res := runCLI(t, "--config", p.ConfigPath, "check", "--no-color", "--update")
		require.NoError(t, res.err)
		assert.Equal(t, 0, res.code)
		assert.Contains(t, res.stdout, "Updated 1 suite(s)")

		updated := p.ReadSuite("expected/fail.yaml")
		assert.Contains(t, updated, "code: 0")
		assert.Contains(t, updated, "ok - a b")

		res = runCLI(t, "--config", p.ConfigPath, "check", "--no-color")
		require.NoError(t, res.err)
		assert.Equal(t, 0, res.code)
	})

	t.Run("invalid suite", func(t *testing.T) {
		p := testutil.NewProject(t)
		p.WriteSuite("expected/bad.yaml", "cases:\n  - code: 0\n")

		res := runCLI(t, "--config", p.ConfigPath, "check")
		require.Error(t, res.err)
		assert.Contains(t, res.err.Error(), "has no command")
	})
}

func TestConfigCommand(t *testing.T) {
	t.Run("show", func(t *testing.T) {
		p := testutil.NewProject(t)

		res := runCLI(t, "--config", p.ConfigPath, "config")
		require.NoError(t, res.err)

		var out map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(res.stdout), &out))
		assert.Equal(t, p.Root, out["rootDir"])
		assert.Equal(t, p.FixturesDir, out["fixturesDir"])
		assert.Equal(t, "/qunit", out["placeholder"])
	})

	t.Run("valid", func(t *testing.T) {
		p := testutil.NewProject(t)

		res := runCLI(t, "--config", p.ConfigPath, "config", "--validate")
		require.NoError(t, res.err)
		assert.Equal(t, 0, res.code)
		assert.Equal(t, "Configuration is valid\n", res.stdout)
	})

	t.Run("invalid", func(t *testing.T) {
		p := testutil.NewProject(t)
		p.WriteConfig(p.DefaultConfig().WithFixturesDir("does/not/exist"))

		res := runCLI(t, "--config", p.ConfigPath, "config", "--validate")
		require.NoError(t, res.err)
		assert.Equal(t, 1, res.code)
		assert.Contains(t, res.stderr, "Configuration validation failed")
		assert.Contains(t, res.stderr, "Suggestions:")
	})

	t.Run("init", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), ".clifixture.json")

		res := runCLI(t, "config", "--init", "--output", out)
		require.NoError(t, res.err)
		assert.FileExists(t, out)

		res = runCLI(t, "config", "--init", "--output", out)
		require.Error(t, res.err)
		assert.Contains(t, res.err.Error(), "already exists")

		res = runCLI(t, "config", "--init", "--force", "--output", out)
		require.NoError(t, res.err)
	})
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			res := runCLI(t, "completion", shell)
			require.NoError(t, res.err)
			assert.Contains(t, res.stdout, "clifixture")
		})
	}

	res := runCLI(t, "completion", "tcsh")
	assert.Error(t, res.err)
}

func TestManCommand(t *testing.T) {
	dir := t.TempDir()

	res := runCLI(t, "man", "--dir", dir)
	require.NoError(t, res.err)

	assert.FileExists(t, filepath.Join(dir, "clifixture.1"))
	assert.FileExists(t, filepath.Join(dir, "clifixture-check.1"))
	assert.Contains(t, res.stdout, "clifixture-run.1")
}
