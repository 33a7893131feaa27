package probe

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/cataloro/cataloro-probe/internal/models"
	"github.com/cataloro/cataloro-probe/internal/util"
)

const maxDetailsWidth = 160

var (
	passLabel = color.New(color.FgGreen, color.Bold).SprintFunc()
	failLabel = color.New(color.FgRed, color.Bold).SprintFunc()
	skipLabel = color.New(color.FgYellow).SprintFunc()
	faint     = color.New(color.Faint).SprintFunc()
)

// Recorder collects results and prints one line per result as it arrives.
// It is safe for concurrent use.
type Recorder struct {
	out     io.Writer
	mu      sync.Mutex
	results []models.CheckResult
}

// NewRecorder prints to out; a nil out records silently.
func NewRecorder(out io.Writer) *Recorder {
	return &Recorder{out: out}
}

func (r *Recorder) Record(res models.CheckResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.results = append(r.results, res)
	if r.out != nil {
		fmt.Fprintln(r.out, FormatResult(res))
	}
}

// Results returns a copy of everything recorded, in record order.
func (r *Recorder) Results() []models.CheckResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.CheckResult(nil), r.results...)
}

func (r *Recorder) Summary() models.Summary {
	return models.Summarize(r.Results())
}

// FormatResult renders "[PASS] suite / check (123ms) details".
func FormatResult(res models.CheckResult) string {
	var label string
	switch res.Outcome {
	case models.OutcomePass:
		label = passLabel("[PASS]")
	case models.OutcomeFail:
		label = failLabel("[FAIL]")
	default:
		label = skipLabel("[SKIP]")
	}

	line := fmt.Sprintf("%s %s / %s %s", label, res.Suite, res.Check, faint(fmt.Sprintf("(%dms)", res.Duration.Milliseconds())))
	details := res.Details
	if res.Error != "" {
		details = res.Error
	}
	if details != "" {
		line += " " + util.Truncate(details, maxDetailsWidth)
	}
	return line
}
