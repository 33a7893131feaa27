package report_test

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/cataloro/cataloro-probe/internal/models"
	"github.com/cataloro/cataloro-probe/internal/report"
)

func sampleRun() models.Run {
	start := time.Date(2026, 5, 4, 8, 30, 0, 0, time.UTC)
	results := []models.CheckResult{
		{Suite: "auth", Check: "health", Outcome: models.OutcomePass, Duration: 12 * time.Millisecond, Timestamp: start},
		{Suite: "auth", Check: "login", Outcome: models.OutcomeFail, Error: "expected status 200, got 401", StatusCode: 401, Duration: 40 * time.Millisecond, Timestamp: start.Add(time.Second)},
		{Suite: "catalyst", Check: "read settings", Outcome: models.OutcomePass, Details: "pt 28.5", Duration: 8 * time.Millisecond, Timestamp: start.Add(2 * time.Second)},
		{Suite: "catalyst", Check: "calculations match", Outcome: models.OutcomeSkip, Details: "admin login failed", Timestamp: start.Add(2 * time.Second)},
	}
	return models.Run{
		ID:         "run-1",
		Target:     "staging",
		BackendURL: "https://staging.example.com",
		Suites:     []string{"auth", "catalyst"},
		StartedAt:  start,
		FinishedAt: start.Add(3 * time.Second),
		Results:    results,
		Summary:    models.Summarize(results),
	}
}

var _ = Describe("Console", func() {
	It("should print per-suite rows, totals and failed checks without color", func() {
		var buf bytes.Buffer
		report.NewConsole(&buf, true).Summary(sampleRun())

		out := buf.String()
		Expect(out).NotTo(ContainSubstring("\x1b["))
		Expect(out).To(ContainSubstring("Run run-1 against staging"))
		Expect(out).To(MatchRegexp(`auth\s+2\s+1\s+1\s+0\s+50\.0%`))
		Expect(out).To(MatchRegexp(`catalyst\s+2\s+1\s+0\s+1\s+100\.0%`))
		Expect(out).To(ContainSubstring("Success rate: 66.7%"))
		Expect(out).To(ContainSubstring("Failed checks:"))
		Expect(out).To(ContainSubstring("- auth / login [401]: expected status 200, got 401"))
	})

	It("should omit the failure list when everything passed", func() {
		run := sampleRun()
		run.Results = run.Results[:1]
		run.Summary = models.Summarize(run.Results)

		var buf bytes.Buffer
		report.NewConsole(&buf, true).Summary(run)
		Expect(buf.String()).NotTo(ContainSubstring("Failed checks"))
		Expect(buf.String()).To(ContainSubstring("Success rate: 100.0%"))
	})

	It("should print history and flaky tables", func() {
		var buf bytes.Buffer
		c := report.NewConsole(&buf, true)

		c.History(nil)
		Expect(buf.String()).To(ContainSubstring("no runs recorded"))

		buf.Reset()
		c.History([]models.Run{sampleRun()})
		Expect(buf.String()).To(MatchRegexp(`run-1\s+staging`))

		buf.Reset()
		c.Flaky([]models.FlakyCheck{{Suite: "auth", Check: "login", Passed: 3, Failed: 1}}, 5)
		Expect(buf.String()).To(MatchRegexp(`auth\s+login\s+3\s+1`))

		buf.Reset()
		c.Flaky(nil, 5)
		Expect(buf.String()).To(ContainSubstring("no flaky checks in the last 5 runs"))
	})
})

var _ = Describe("Exports", func() {
	It("should write a workbook with summary and results sheets", func() {
		path := filepath.Join(GinkgoT().TempDir(), "run.xlsx")
		Expect(report.WriteXLSX(path, sampleRun())).To(Succeed())

		f, err := excelize.OpenFile(path)
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		Expect(f.GetSheetList()).To(Equal([]string{"Summary", "Results"}))

		target, err := f.GetCellValue("Summary", "B2")
		Expect(err).NotTo(HaveOccurred())
		Expect(target).To(Equal("staging"))

		rows, err := f.GetRows("Results")
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(5))
		Expect(rows[0][0]).To(Equal("Suite"))
		Expect(rows[2][1]).To(Equal("login"))
		Expect(rows[2][2]).To(Equal("fail"))
		Expect(rows[2][3]).To(Equal("401"))
	})

	It("should encode JSON that decodes back to the run", func() {
		var buf bytes.Buffer
		Expect(report.WriteJSON(&buf, sampleRun())).To(Succeed())

		var got models.Run
		Expect(json.Unmarshal(buf.Bytes(), &got)).To(Succeed())
		Expect(got.Summary.SuccessRate).To(Equal(66.7))
		Expect(got.Results).To(HaveLen(4))
	})

	It("should encode YAML with snake case keys", func() {
		var buf bytes.Buffer
		Expect(report.WriteYAML(&buf, sampleRun())).To(Succeed())
		Expect(buf.String()).To(ContainSubstring("backend_url: https://staging.example.com"))
		Expect(buf.String()).To(ContainSubstring("success_rate: 66.7"))

		var got models.Run
		Expect(yaml.Unmarshal(buf.Bytes(), &got)).To(Succeed())
		Expect(got.Results[1].StatusCode).To(Equal(401))
		Expect(got.Results[0].Duration).To(Equal(12 * time.Millisecond))
	})
})
