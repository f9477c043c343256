// Package fixture loads, checks and updates expected-output suites for the
// CLI under test. A suite is a YAML file listing commands together with the
// exit code and normalized output they are expected to produce.
package fixture

import (
	"fmt"
	"sort"

	"github.com/bebsworthy/clifixture/internal/executor"
)

// Case is one command and its expected outcome
type Case struct {
	// Command vector; element 0 may be a sentinel such as "qunit"
	Command executor.Command `yaml:"command"`
	// Expected exit code
	Code int `yaml:"code"`
	// Expected normalized stdout
	Stdout string `yaml:"stdout"`
	// Expected stderr; not compared when absent
	Stderr *string `yaml:"stderr,omitempty"`
	// Extra environment for this case
	Env map[string]string `yaml:"env,omitempty"`
	// Working directory relative to the fixtures directory
	Cwd string `yaml:"cwd,omitempty"`
}

// Key returns the pretty-printed command identifying the case in its suite
func (c *Case) Key() string {
	key := executor.PrettyPrintCommand(c.Command)
	if c.Cwd != "" {
		key = c.Cwd + ": " + key
	}
	return key
}

// Environment returns Env as sorted KEY=VALUE entries
func (c *Case) Environment() []string {
	if len(c.Env) == 0 {
		return nil
	}
	env := make([]string, 0, len(c.Env))
	for k, v := range c.Env {
		env = append(env, k+"="+v)
	}
	sort.Strings(env)
	return env
}

// Suite is the content of one fixture file
type Suite struct {
	// Path of the file relative to the fixtures directory
	Path  string  `yaml:"-"`
	Cases []*Case `yaml:"cases"`
}

// Validate checks that every case has a command and that keys are unique
func (s *Suite) Validate() error {
	seen := make(map[string]bool, len(s.Cases))
	for i, c := range s.Cases {
		if c == nil || len(c.Command) == 0 {
			return fmt.Errorf("%s: case %d has no command", s.Path, i)
		}
		key := c.Key()
		if seen[key] {
			return fmt.Errorf("%s: duplicate case %q", s.Path, key)
		}
		seen[key] = true
	}
	return nil
}

// Find returns the case with the given key
func (s *Suite) Find(key string) (*Case, bool) {
	for _, c := range s.Cases {
		if c.Key() == key {
			return c, true
		}
	}
	return nil, false
}
