package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bebsworthy/clifixture/pkg/config"
)

func validResolvedConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	fixtures := filepath.Join(root, "fixtures")
	if err := os.MkdirAll(fixtures, 0755); err != nil {
		t.Fatal(err)
	}
	return &config.Config{
		Version:     "1.0",
		RootDir:     root,
		FixturesDir: fixtures,
		Interpreter: os.Args[0],
		Placeholder: "/qunit",
		FixtureGlob: "expected/**/*.yaml",
	}
}

func TestValidator_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *config.Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(cfg *config.Config) {},
		},
		{
			name:    "structural error",
			mutate:  func(cfg *config.Config) { cfg.Version = "" },
			wantErr: "version is required",
		},
		{
			name:    "bad glob",
			mutate:  func(cfg *config.Config) { cfg.FixtureGlob = "expected/[*.yaml" },
			wantErr: "not a valid pattern",
		},
		{
			name:    "missing fixtures directory",
			mutate:  func(cfg *config.Config) { cfg.FixturesDir = filepath.Join(cfg.RootDir, "nope") },
			wantErr: "fixtures directory",
		},
		{
			name: "fixtures path is a file",
			mutate: func(cfg *config.Config) {
				file := filepath.Join(cfg.RootDir, "file.txt")
				_ = os.WriteFile(file, []byte("x"), 0644)
				cfg.FixturesDir = file
			},
			wantErr: "is not a directory",
		},
		{
			name:    "interpreter missing from PATH",
			mutate:  func(cfg *config.Config) { cfg.Interpreter = "clifixture-no-such-interpreter" },
			wantErr: "not found in PATH",
		},
		{
			name:    "interpreter missing at path",
			mutate:  func(cfg *config.Config) { cfg.Interpreter = filepath.Join(cfg.RootDir, "bin", "node") },
			wantErr: "not found at specified path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validResolvedConfig(t)
			tt.mutate(cfg)

			err := NewValidator().Validate(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() error = nil, want %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidator_SkipChecks(t *testing.T) {
	cfg := validResolvedConfig(t)
	cfg.FixturesDir = filepath.Join(cfg.RootDir, "missing")
	cfg.Interpreter = "clifixture-no-such-interpreter"

	v := &Validator{}
	if err := v.Validate(cfg); err != nil {
		t.Errorf("Validate() with checks disabled error = %v", err)
	}
}

func TestValidator_SuggestFixes(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		err        string
		wantSubstr string
	}{
		{`interpreter: command "node" not found in PATH`, "installed"},
		{`fixtures directory "/x" does not exist`, "fixturesDir"},
		{`root directory "/x" does not exist`, "rootDir"},
		{`fixture glob "[" is not a valid pattern`, "**"},
		{`placeholder "x" must start with /`, "/qunit"},
	}

	for _, tt := range tests {
		suggestions := v.SuggestFixes(errString(tt.err))
		found := false
		for _, s := range suggestions {
			if strings.Contains(s, tt.wantSubstr) {
				found = true
			}
		}
		if !found {
			t.Errorf("SuggestFixes(%q) = %v, want a hint containing %q", tt.err, suggestions, tt.wantSubstr)
		}
	}

	if got := v.SuggestFixes(errString("something else")); len(got) != 0 {
		t.Errorf("SuggestFixes() for unrelated error = %v, want none", got)
	}
}

func TestRelativeToRoot(t *testing.T) {
	cfg := &config.Config{RootDir: filepath.FromSlash("/home/ci/qunit")}

	if got := RelativeToRoot(cfg, filepath.FromSlash("/home/ci/qunit/test/cli/a.yaml")); got != "test/cli/a.yaml" {
		t.Errorf("RelativeToRoot() = %q, want test/cli/a.yaml", got)
	}
	outside := filepath.FromSlash("/tmp/a.yaml")
	if got := RelativeToRoot(cfg, outside); got != outside {
		t.Errorf("RelativeToRoot() = %q, want %q unchanged", got, outside)
	}
}

type errString string

func (e errString) Error() string { return string(e) }
