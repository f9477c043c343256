package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// Project is a temporary project with the default layout: fixtures live in
// test/cli/fixtures and the tool under test is bin/tool.sh, run through sh.
type Project struct {
	Root        string
	FixturesDir string
	ConfigPath  string

	t testing.TB
}

// NewProject creates the project and writes its config file. The root has
// symlinks resolved so that paths printed by child processes match it.
func NewProject(t testing.TB) *Project {
	t.Helper()
	SkipOnWindows(t, "the tool under test is a shell script")

	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to resolve temp dir: %v", err)
	}

	p := &Project{
		Root:        root,
		FixturesDir: filepath.Join(root, "test", "cli", "fixtures"),
		t:           t,
	}
	if err := os.MkdirAll(p.FixturesDir, 0755); err != nil {
		t.Fatalf("Failed to create fixtures dir: %v", err)
	}
	WriteTool(t, filepath.Join(root, "bin"), "tool.sh")

	p.WriteConfig(p.DefaultConfig())
	return p
}

// DefaultConfig returns the builder for the project's standard config file
func (p *Project) DefaultConfig() *ConfigBuilder {
	return NewConfigBuilder().
		WithTool("sh", "../../../bin/tool.sh").
		WithEnv("TOOL_EXIT=0")
}

// WriteConfig replaces the project's config file
func (p *Project) WriteConfig(b *ConfigBuilder) {
	p.t.Helper()
	path, err := CreateTestConfigFile(p.Root, b.Build())
	if err != nil {
		p.t.Fatalf("Failed to write config: %v", err)
	}
	p.ConfigPath = path
}

// WriteSuite writes a fixture file relative to the fixtures directory
func (p *Project) WriteSuite(name, content string) string {
	p.t.Helper()
	path := filepath.Join(p.FixturesDir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		p.t.Fatalf("Failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		p.t.Fatalf("Failed to write suite %s: %v", name, err)
	}
	return path
}

// ReadSuite returns the content of a fixture file
func (p *Project) ReadSuite(name string) string {
	p.t.Helper()
	data, err := os.ReadFile(filepath.Join(p.FixturesDir, filepath.FromSlash(name))) // #nosec G304 - paths are controlled by tests
	if err != nil {
		p.t.Fatalf("Failed to read suite %s: %v", name, err)
	}
	return string(data)
}

// RepoFixturesDir returns the absolute path of the repository's own
// test/cli/fixtures directory.
func RepoFixturesDir(t testing.TB) string {
	t.Helper()

	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get source file path")
	}

	dir := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", "..", "test", "cli", "fixtures"))
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("Fixtures not found: %s", dir)
	}
	return dir
}
