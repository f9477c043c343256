package fixture

import (
	"bytes"
	"fmt"
	"path"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/bebsworthy/clifixture/internal/debug"
)

// Store reads and writes suites on a filesystem rooted at the fixtures directory
type Store struct {
	fs afero.Fs
}

// NewStore creates a store over fs. Paths handed to the store are relative
// to the root of fs.
func NewStore(fs afero.Fs) *Store {
	return &Store{fs: fs}
}

// NewOSStore creates a store rooted at dir on the real filesystem
func NewOSStore(dir string) *Store {
	return NewStore(afero.NewBasePathFs(afero.NewOsFs(), dir))
}

// Discover returns the files matching any of the patterns, sorted and
// without duplicates. Patterns use doublestar syntax with forward slashes.
func (s *Store) Discover(patterns ...string) ([]string, error) {
	fsys := afero.NewIOFS(s.fs)
	seen := make(map[string]bool)
	var files []string

	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid fixture pattern %q", pattern)
		}
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("failed to match %q: %w", pattern, err)
		}
		debug.Log("Pattern %q matched %d files", pattern, len(matches))
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

// Load reads and validates the suite at name
func (s *Store) Load(name string) (*Suite, error) {
	data, err := afero.ReadFile(s.fs, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture %s: %w", name, err)
	}

	var suite Suite
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("failed to parse fixture %s: %w", name, err)
	}
	suite.Path = name

	if err := suite.Validate(); err != nil {
		return nil, err
	}
	return &suite, nil
}

// LoadAll discovers and loads every suite matching the patterns
func (s *Store) LoadAll(patterns ...string) ([]*Suite, error) {
	files, err := s.Discover(patterns...)
	if err != nil {
		return nil, err
	}

	suites := make([]*Suite, 0, len(files))
	for _, f := range files {
		suite, err := s.Load(f)
		if err != nil {
			return nil, err
		}
		suites = append(suites, suite)
	}
	return suites, nil
}

// Save writes the suite back to its path
func (s *Store) Save(suite *Suite) error {
	if suite.Path == "" {
		return fmt.Errorf("suite has no path")
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(suite); err != nil {
		return fmt.Errorf("failed to encode fixture %s: %w", suite.Path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode fixture %s: %w", suite.Path, err)
	}

	if dir := path.Dir(suite.Path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := afero.WriteFile(s.fs, suite.Path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write fixture %s: %w", suite.Path, err)
	}
	debug.Log("Saved %d cases to %s", len(suite.Cases), suite.Path)
	return nil
}
