package reporter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/bebsworthy/clifixture/internal/executor"
	"github.com/bebsworthy/clifixture/internal/fixture"
)

// Status markers
const (
	PassMark = "✓"
	FailMark = "✗"
)

// CheckReporter renders fixture check reports
type CheckReporter struct {
	// Verbose lists passing cases too
	Verbose bool

	errors *ErrorReporter

	passColor  *color.Color
	failColor  *color.Color
	addColor   *color.Color
	delColor   *color.Color
	mutedColor *color.Color
}

// NewCheckReporter creates a reporter; colours are emitted only when useColor is set
func NewCheckReporter(useColor bool) *CheckReporter {
	r := &CheckReporter{
		errors:     NewErrorReporter(),
		passColor:  color.New(color.FgGreen),
		failColor:  color.New(color.FgRed, color.Bold),
		addColor:   color.New(color.FgGreen),
		delColor:   color.New(color.FgRed),
		mutedColor: color.New(color.FgHiBlack),
	}
	for _, c := range []*color.Color{r.passColor, r.failColor, r.addColor, r.delColor, r.mutedColor} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

// Report formats the check report. Failures go to stdout together with the
// summary so that the diff stays next to the case it belongs to.
func (r *CheckReporter) Report(report *fixture.Report) *ReportResult {
	var out strings.Builder

	for _, res := range report.Results {
		name := fmt.Sprintf("%s: %s", res.Suite.Path, res.Case.Key())
		if res.Passed() {
			if r.Verbose {
				out.WriteString(r.passColor.Sprint(PassMark) + " " + name + "\n")
			}
			continue
		}

		out.WriteString(r.failColor.Sprint(FailMark) + " " + name + "\n")
		if res.Err != nil {
			r.writeError(&out, res)
			continue
		}
		for _, m := range res.Mismatches {
			r.writeMismatch(&out, m)
		}
	}

	out.WriteString(r.summary(report))

	exitCode := 0
	if !report.OK() {
		exitCode = 1
	}
	return &ReportResult{ExitCode: exitCode, Stdout: out.String()}
}

func (r *CheckReporter) writeError(out *strings.Builder, res *fixture.CaseResult) {
	var execErr *executor.ExecError
	if !errors.As(res.Err, &execErr) {
		execErr = executor.ClassifyError(res.Err, res.Case.Command.String(), nil)
	}
	msg := r.errors.FormatExecError(res.Case.Key(), execErr)
	for _, line := range strings.Split(msg, "\n") {
		out.WriteString("    " + line + "\n")
	}
}

func (r *CheckReporter) writeMismatch(out *strings.Builder, m fixture.Mismatch) {
	if m.Field == fixture.FieldCode {
		fmt.Fprintf(out, "    %s: expected %s, got %s\n", m.Field, m.Expected, m.Actual)
		return
	}

	fmt.Fprintf(out, "    %s differs:\n", m.Field)
	diff := strings.TrimSuffix(m.Diff(), "\n")
	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+ "):
			line = r.addColor.Sprint(line)
		case strings.HasPrefix(line, "- "):
			line = r.delColor.Sprint(line)
		default:
			line = r.mutedColor.Sprint(line)
		}
		out.WriteString("      " + line + "\n")
	}
}

func (r *CheckReporter) summary(report *fixture.Report) string {
	total := report.Passed + report.Failed
	if total == 0 {
		return "No fixture cases found.\n"
	}

	duration := report.Duration.Round(time.Millisecond)
	if report.OK() {
		return r.passColor.Sprintf("All %d cases passed", total) + fmt.Sprintf(" (%s)\n", duration)
	}
	return fmt.Sprintf("%d passed, %s (%s)\n",
		report.Passed, r.failColor.Sprintf("%d failed", report.Failed), duration)
}
