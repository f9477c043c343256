// Package normalize rewrites captured CLI output into a canonical form so it
// can be compared against fixtures on any operating system and runtime
// version.
//
// The rewrites run in a fixed order:
//
//  1. the absolute root directory becomes the placeholder ("/qunit")
//  2. the OS path separator becomes "/"
//  3. line and column are dropped from frames inside the bundled script
//  4. two-line source-mapped frames are joined into one frame
//  5. frames outside the project become "  at internal"
//  6. consecutive "at internal" lines collapse into one
//
// Later rules match text produced by earlier ones, so the order matters.
package normalize

import (
	"os"
	"regexp"
	"strings"

	"github.com/bebsworthy/clifixture/internal/debug"
)

const (
	// DefaultPlaceholder replaces the root directory
	DefaultPlaceholder = "/qunit"
	// DefaultBundle is the bundled script path, relative to the root
	DefaultBundle = "qunit/qunit.js"
	// InternalFrame replaces stack frames outside the project
	InternalFrame = "  at internal"
)

// Rule is a single global regexp substitution
type Rule struct {
	Name        string
	Pattern     *regexp.Regexp
	Replacement string
}

// Apply replaces every match of the rule in text
func (r Rule) Apply(text string) string {
	return r.Pattern.ReplaceAllString(text, r.Replacement)
}

// Normalizer applies an ordered list of rules
type Normalizer struct {
	root        string
	placeholder string
	separator   string
	bundle      string
	rules       []Rule
}

// Option configures a Normalizer
type Option func(*Normalizer)

// WithPlaceholder sets the token that replaces the root directory
func WithPlaceholder(placeholder string) Option {
	return func(n *Normalizer) {
		n.placeholder = placeholder
	}
}

// WithSeparator overrides the OS path separator, mainly for tests
func WithSeparator(sep string) Option {
	return func(n *Normalizer) {
		n.separator = sep
	}
}

// WithBundle sets the bundled script path (slash separated, relative to root)
func WithBundle(bundle string) Option {
	return func(n *Normalizer) {
		n.bundle = bundle
	}
}

// New creates a normalizer for output produced under root. An empty root
// disables the root substitution.
func New(root string, opts ...Option) *Normalizer {
	n := &Normalizer{
		root:        root,
		placeholder: DefaultPlaceholder,
		separator:   string(os.PathSeparator),
		bundle:      DefaultBundle,
	}
	for _, opt := range opts {
		opt(n)
	}
	n.rules = buildRules(n.cleanRoot(), n.placeholder, n.separator, n.bundle)
	return n
}

// Normalize applies every rule in order. It never fails and is idempotent.
func (n *Normalizer) Normalize(text string) string {
	for _, rule := range n.rules {
		next := rule.Apply(text)
		debug.LogRule(rule.Name, next != text)
		text = next
	}
	return text
}

// Rules returns a copy of the rules in application order
func (n *Normalizer) Rules() []Rule {
	return append([]Rule(nil), n.rules...)
}

// Root returns the directory replaced by the placeholder
func (n *Normalizer) Root() string {
	return n.cleanRoot()
}

// cleanRoot strips trailing separators. A root that is nothing but a
// separator would match every path, so it is treated as empty.
func (n *Normalizer) cleanRoot() string {
	if n.separator == "" {
		return n.root
	}
	return strings.TrimRight(n.root, n.separator)
}
