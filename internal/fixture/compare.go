package fixture

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/bebsworthy/clifixture/internal/executor"
)

// Compared fields
const (
	FieldCode   = "code"
	FieldStdout = "stdout"
	FieldStderr = "stderr"
)

// Mismatch describes one field whose actual value differs from the expected one
type Mismatch struct {
	Field    string
	Expected string
	Actual   string
}

// Diff renders a line diff between the expected and actual values
func (m Mismatch) Diff() string {
	return Diff(m.Expected, m.Actual)
}

// Compare checks res against the expectations of c. Expected output gets the
// same trailing whitespace trim as captured output before comparison.
func Compare(c *Case, res *executor.ExecResult) []Mismatch {
	if res == nil {
		res = &executor.ExecResult{ExitCode: executor.NoExitCode}
	}

	var mismatches []Mismatch

	if res.ExitCode != c.Code {
		actual := strconv.Itoa(res.ExitCode)
		if res.Signal != "" {
			actual = res.Signal
		}
		mismatches = append(mismatches, Mismatch{
			Field:    FieldCode,
			Expected: strconv.Itoa(c.Code),
			Actual:   actual,
		})
	}

	if expected := trimEnd(c.Stdout); expected != res.Stdout {
		mismatches = append(mismatches, Mismatch{
			Field:    FieldStdout,
			Expected: expected,
			Actual:   res.Stdout,
		})
	}

	if c.Stderr != nil {
		if expected := trimEnd(*c.Stderr); expected != res.Stderr {
			mismatches = append(mismatches, Mismatch{
				Field:    FieldStderr,
				Expected: expected,
				Actual:   res.Stderr,
			})
		}
	}

	return mismatches
}

// Diff returns a line-oriented diff of expected and actual. Unchanged lines
// are prefixed with two spaces, removed lines with "- " and added lines
// with "+ ".
func Diff(expected, actual string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(expected+"\n", actual+"\n")
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	var buf strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		}
		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			buf.WriteString(prefix)
			buf.WriteString(line)
			buf.WriteByte('\n')
		}
	}
	return buf.String()
}

func trimEnd(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}
