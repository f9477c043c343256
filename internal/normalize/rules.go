package normalize

import (
	"regexp"
	"strings"
)

// Rule names, in application order
const (
	RuleRootPath      = "root-path"
	RuleSeparator     = "separator"
	RuleBundleFrame   = "bundle-frame"
	RuleSourceMap     = "source-map"
	RuleInternalFrame = "internal-frame"
	RuleMergeInternal = "merge-internal"
	RuleMergeInitial  = "merge-initial"
)

var (
	// "at foo (/min.js:1)\n -> /src.js:2" becomes "at foo (/src.js:2)"
	sourceMapFrame = regexp.MustCompile(`\b(at [^(]+\s\()[^)]+(\))\n\s+-> ([^\n]+)`)

	// a frame whose location does not start with "/" is outside the project
	externalFrame = regexp.MustCompile(` {2}at .+\([^/)][^)]*\)`)

	successiveInternal = regexp.MustCompile(`(\n\s+at internal)+`)

	initialInternal = regexp.MustCompile(`(at internal)\n\s+at internal`)
)

func buildRules(root, placeholder, separator, bundle string) []Rule {
	var rules []Rule

	if root != "" {
		rules = append(rules, Rule{
			Name:        RuleRootPath,
			Pattern:     regexp.MustCompile(regexp.QuoteMeta(root)),
			Replacement: escapeReplacement(placeholder),
		})
	}

	if separator != "" && separator != "/" {
		rules = append(rules, Rule{
			Name:        RuleSeparator,
			Pattern:     regexp.MustCompile(regexp.QuoteMeta(separator)),
			Replacement: "/",
		})
	}

	// Bundlers renumber lines between runtime versions.
	rules = append(rules, Rule{
		Name:        RuleBundleFrame,
		Pattern:     regexp.MustCompile(`(` + regexp.QuoteMeta(placeholder+"/"+bundle) + `):\d+:\d+\)`),
		Replacement: "${1})",
	})

	rules = append(rules,
		Rule{
			Name:        RuleSourceMap,
			Pattern:     sourceMapFrame,
			Replacement: "${1}${3}${2}",
		},
		Rule{
			Name:        RuleInternalFrame,
			Pattern:     externalFrame,
			Replacement: InternalFrame,
		},
		Rule{
			Name:        RuleMergeInternal,
			Pattern:     successiveInternal,
			Replacement: "${1}",
		},
		Rule{
			Name:        RuleMergeInitial,
			Pattern:     initialInternal,
			Replacement: "${1}",
		},
	)

	return rules
}

// escapeReplacement makes s safe to use as a literal ReplaceAllString template
func escapeReplacement(s string) string {
	return strings.ReplaceAll(s, "$", "$$")
}
