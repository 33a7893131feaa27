package report

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/cataloro/cataloro-probe/internal/models"
	"github.com/cataloro/cataloro-probe/internal/util"
)

const timeLayout = "2006-01-02 15:04:05"

// Console renders runs for a terminal.
type Console struct {
	out  io.Writer
	ok   *color.Color
	bad  *color.Color
	warn *color.Color
	bold *color.Color
}

// NewConsole writes to out. With noColor set, no escape sequences are emitted
// regardless of the terminal; otherwise color.NoColor decides.
func NewConsole(out io.Writer, noColor bool) *Console {
	c := &Console{
		out:  out,
		ok:   color.New(color.FgGreen, color.Bold),
		bad:  color.New(color.FgRed, color.Bold),
		warn: color.New(color.FgYellow),
		bold: color.New(color.Bold),
	}
	if noColor {
		for _, col := range []*color.Color{c.ok, c.bad, c.warn, c.bold} {
			col.DisableColor()
		}
	}
	return c
}

// Summary prints the per-suite table, the totals and every failed check.
func (c *Console) Summary(run models.Run) {
	fmt.Fprintln(c.out)
	c.bold.Fprintf(c.out, "Run %s against %s (%s)\n", run.ID, run.Target, run.BackendURL)

	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SUITE\tTOTAL\tPASSED\tFAILED\tSKIPPED\tRATE")
	for _, s := range models.SummarizeBySuite(run.Results) {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%s\n",
			s.Suite, s.Total, s.Passed, s.Failed, s.Skipped, c.rate(s.Summary))
	}
	_ = tw.Flush()

	sum := run.Summary
	fmt.Fprintln(c.out)
	fmt.Fprintf(c.out, "Total: %d  Passed: %s  Failed: %s  Skipped: %s  Success rate: %s  Duration: %s\n",
		sum.Total,
		c.ok.Sprint(sum.Passed),
		c.failed(sum.Failed),
		c.warn.Sprint(sum.Skipped),
		c.rate(sum),
		run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond),
	)

	failures := run.Failures()
	if len(failures) == 0 {
		return
	}
	fmt.Fprintln(c.out)
	c.bad.Fprintln(c.out, "Failed checks:")
	for _, f := range failures {
		line := fmt.Sprintf("  - %s / %s", f.Suite, f.Check)
		if f.StatusCode != 0 {
			line += fmt.Sprintf(" [%d]", f.StatusCode)
		}
		if f.Error != "" {
			line += ": " + util.Truncate(f.Error, 200)
		}
		fmt.Fprintln(c.out, line)
	}
}

// History prints one line per run, newest first as given.
func (c *Console) History(runs []models.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(c.out, "no runs recorded")
		return
	}
	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTARGET\tSTARTED\tSUITES\tPASSED\tFAILED\tSKIPPED\tRATE")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
			r.ID, r.Target, r.StartedAt.Local().Format(timeLayout), len(r.Suites),
			r.Summary.Passed, r.Summary.Failed, r.Summary.Skipped, c.rate(r.Summary))
	}
	_ = tw.Flush()
}

// Results prints every result of a stored run followed by its summary.
func (c *Console) Results(run models.Run, format func(models.CheckResult) string) {
	for _, r := range run.Results {
		fmt.Fprintln(c.out, format(r))
	}
	c.Summary(run)
}

func (c *Console) Flaky(checks []models.FlakyCheck, window int) {
	if len(checks) == 0 {
		c.ok.Fprintf(c.out, "no flaky checks in the last %d runs\n", window)
		return
	}
	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SUITE\tCHECK\tPASSED\tFAILED")
	for _, f := range checks {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", f.Suite, f.Check, f.Passed, c.bad.Sprint(f.Failed))
	}
	_ = tw.Flush()
}

func (c *Console) rate(s models.Summary) string {
	text := fmt.Sprintf("%.1f%%", s.SuccessRate)
	switch {
	case s.Executed() == 0:
		return c.warn.Sprint(text)
	case s.Failed == 0:
		return c.ok.Sprint(text)
	default:
		return c.bad.Sprint(text)
	}
}

func (c *Console) failed(n int) string {
	if n == 0 {
		return c.ok.Sprint(n)
	}
	return c.bad.Sprint(n)
}
