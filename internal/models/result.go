package models

import (
	"fmt"
	"time"
)

// Outcome is the verdict of a single check.
type Outcome string

const (
	OutcomePass Outcome = "pass"
	OutcomeFail Outcome = "fail"
	OutcomeSkip Outcome = "skip"
)

func ParseOutcome(s string) (Outcome, error) {
	switch s {
	case "pass":
		return OutcomePass, nil
	case "fail":
		return OutcomeFail, nil
	case "skip":
		return OutcomeSkip, nil
	default:
		return "", fmt.Errorf("invalid outcome: %s", s)
	}
}

func (o Outcome) Value() string {
	return string(o)
}

// CheckResult is the record of one executed (or skipped) check.
type CheckResult struct {
	Suite      string        `json:"suite" yaml:"suite"`
	Check      string        `json:"check" yaml:"check"`
	Outcome    Outcome       `json:"outcome" yaml:"outcome"`
	Details    string        `json:"details,omitempty" yaml:"details,omitempty"`
	Error      string        `json:"error,omitempty" yaml:"error,omitempty"`
	StatusCode int           `json:"status_code,omitempty" yaml:"status_code,omitempty"`
	Duration   time.Duration `json:"duration" yaml:"duration"`
	Timestamp  time.Time     `json:"timestamp" yaml:"timestamp"`
}

// Summary aggregates check results.
type Summary struct {
	Total       int           `json:"total" yaml:"total"`
	Passed      int           `json:"passed" yaml:"passed"`
	Failed      int           `json:"failed" yaml:"failed"`
	Skipped     int           `json:"skipped" yaml:"skipped"`
	SuccessRate float64       `json:"success_rate" yaml:"success_rate"`
	Duration    time.Duration `json:"duration" yaml:"duration"`
}

// Summarize counts results. Skipped checks are left out of the success rate.
// Duration is the summed check time; a run overrides it with its wall clock.
func Summarize(results []CheckResult) Summary {
	var s Summary
	for _, r := range results {
		s.Total++
		switch r.Outcome {
		case OutcomePass:
			s.Passed++
		case OutcomeFail:
			s.Failed++
		case OutcomeSkip:
			s.Skipped++
		}
		s.Duration += r.Duration
	}
	if executed := s.Passed + s.Failed; executed > 0 {
		s.SuccessRate = roundOne(float64(s.Passed) / float64(executed) * 100)
	}
	return s
}

// Executed is the number of checks that were not skipped.
func (s Summary) Executed() int {
	return s.Passed + s.Failed
}

func (s Summary) OK() bool {
	return s.Failed == 0
}

// SuiteSummary is a Summary scoped to one suite.
type SuiteSummary struct {
	Suite string
	Summary
}

// SummarizeBySuite groups results per suite, keeping the order in which suites first appear.
func SummarizeBySuite(results []CheckResult) []SuiteSummary {
	var order []string
	grouped := make(map[string][]CheckResult)
	for _, r := range results {
		if _, ok := grouped[r.Suite]; !ok {
			order = append(order, r.Suite)
		}
		grouped[r.Suite] = append(grouped[r.Suite], r)
	}

	out := make([]SuiteSummary, 0, len(order))
	for _, name := range order {
		out = append(out, SuiteSummary{Suite: name, Summary: Summarize(grouped[name])})
	}
	return out
}

// Run is one invocation of the probe against one deployment.
type Run struct {
	ID         string        `json:"id" yaml:"id"`
	Target     string        `json:"target" yaml:"target"`
	BackendURL string        `json:"backend_url" yaml:"backend_url"`
	Suites     []string      `json:"suites" yaml:"suites"`
	StartedAt  time.Time     `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time     `json:"finished_at" yaml:"finished_at"`
	Results    []CheckResult `json:"results" yaml:"results"`
	Summary    Summary       `json:"summary" yaml:"summary"`
}

// Failures returns the failed results in execution order.
func (r Run) Failures() []CheckResult {
	var out []CheckResult
	for _, c := range r.Results {
		if c.Outcome == OutcomeFail {
			out = append(out, c)
		}
	}
	return out
}

// FlakyCheck is a check that both passed and failed over a window of runs.
type FlakyCheck struct {
	Suite  string
	Check  string
	Passed int
	Failed int
}

func roundOne(f float64) float64 {
	return float64(int64(f*10+0.5)) / 10
}
