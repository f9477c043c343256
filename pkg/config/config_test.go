//go:build unit

package config

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

// testConfigBuilder is a local helper to build test configs without import cycles
type testConfigBuilder struct {
	config *Config
}

func newTestConfigBuilder() *testConfigBuilder {
	return &testConfigBuilder{
		config: &Config{
			Version: "1.0",
		},
	}
}

func (b *testConfigBuilder) withVersion(version string) *testConfigBuilder {
	b.config.Version = version
	return b
}

func (b *testConfigBuilder) withPlaceholder(placeholder string) *testConfigBuilder {
	b.config.Placeholder = placeholder
	return b
}

func (b *testConfigBuilder) withEnv(env ...string) *testConfigBuilder {
	b.config.Environment = append(b.config.Environment, env...)
	return b
}

func (b *testConfigBuilder) build() *Config {
	return b.config
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		buildFunc func() *Config
		wantErr   bool
		errMsg    string
	}{
		{
			name: "minimal config",
			buildFunc: func() *Config {
				return newTestConfigBuilder().build()
			},
			wantErr: false,
		},
		{
			name: "missing version",
			buildFunc: func() *Config {
				return newTestConfigBuilder().withVersion("").build()
			},
			wantErr: true,
			errMsg:  "version is required",
		},
		{
			name: "placeholder without leading slash",
			buildFunc: func() *Config {
				return newTestConfigBuilder().withPlaceholder("ROOT").build()
			},
			wantErr: true,
			errMsg:  "must start with /",
		},
		{
			name: "absolute bundle file",
			buildFunc: func() *Config {
				cfg := newTestConfigBuilder().build()
				cfg.BundleFile = "/qunit/qunit.js"
				return cfg
			},
			wantErr: true,
			errMsg:  "bundleFile",
		},
		{
			name: "negative parallel",
			buildFunc: func() *Config {
				cfg := newTestConfigBuilder().build()
				cfg.Parallel = -1
				return cfg
			},
			wantErr: true,
			errMsg:  "parallel must not be negative",
		},
		{
			name: "negative timeout",
			buildFunc: func() *Config {
				cfg := newTestConfigBuilder().build()
				cfg.Timeout = -5
				return cfg
			},
			wantErr: true,
			errMsg:  "timeout must not be negative",
		},
		{
			name: "malformed environment",
			buildFunc: func() *Config {
				return newTestConfigBuilder().withEnv("FOO=bar", "BROKEN").build()
			},
			wantErr: true,
			errMsg:  `"BROKEN" must be KEY=VALUE`,
		},
		{
			name: "full config",
			buildFunc: func() *Config {
				cfg := newTestConfigBuilder().withPlaceholder("/qunit").withEnv("FORCE_COLOR=0").build()
				cfg.RootDir = ".."
				cfg.FixturesDir = "test/cli/fixtures"
				cfg.ToolEntry = "../../../bin/qunit.js"
				cfg.Interpreter = "node"
				cfg.BundleFile = "qunit/qunit.js"
				cfg.Parallel = 2
				cfg.Timeout = 1000
				return cfg
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.buildFunc()
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("Config.Validate() error = %v, want error containing %q", err, tt.errMsg)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    *Config
		wantErr bool
	}{
		{
			name: "valid",
			data: `{"version": "1.0", "fixturesDir": "test/cli/fixtures", "parallel": 3}`,
			want: &Config{Version: "1.0", FixturesDir: "test/cli/fixtures", Parallel: 3},
		},
		{
			name:    "invalid json",
			data:    `{"version": `,
			wantErr: true,
		},
		{
			name:    "fails validation",
			data:    `{"fixturesDir": "x"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadConfig([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("LoadConfig() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestConfig_TimeoutDuration(t *testing.T) {
	cfg := &Config{Timeout: 1500}
	if got := cfg.TimeoutDuration(); got != 1500*time.Millisecond {
		t.Errorf("TimeoutDuration() = %v, want 1.5s", got)
	}
}

func TestConfig_Clone(t *testing.T) {
	original := newTestConfigBuilder().withEnv("A=1").build()
	clone := original.Clone()

	if !reflect.DeepEqual(original, clone) {
		t.Fatalf("Clone() = %+v, want %+v", clone, original)
	}

	clone.Environment[0] = "A=2"
	if original.Environment[0] != "A=1" {
		t.Error("Clone() shares the environment slice")
	}
}
