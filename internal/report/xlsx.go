package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/cataloro/cataloro-probe/internal/models"
)

const (
	summarySheet = "Summary"
	resultsSheet = "Results"
)

var resultHeaders = []string{"Suite", "Check", "Outcome", "Status", "Duration (ms)", "Details", "Error", "Timestamp"}

// WriteXLSX saves the run as a workbook with a Summary and a Results sheet.
func WriteXLSX(path string, run models.Run) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(resultsSheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	failStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#C00000"},
	})
	if err != nil {
		return err
	}

	if err := writeSummarySheet(f, run, headerStyle); err != nil {
		return err
	}
	if err := writeResultsSheet(f, run, headerStyle, failStyle); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, run models.Run, headerStyle int) error {
	rows := [][]any{
		{"Run", run.ID},
		{"Target", run.Target},
		{"Backend URL", run.BackendURL},
		{"Started", run.StartedAt.UTC().Format(timeLayout)},
		{"Finished", run.FinishedAt.UTC().Format(timeLayout)},
		{"Total", run.Summary.Total},
		{"Passed", run.Summary.Passed},
		{"Failed", run.Summary.Failed},
		{"Skipped", run.Summary.Skipped},
		{"Success rate (%)", run.Summary.SuccessRate},
		{},
		{"Suite", "Total", "Passed", "Failed", "Skipped", "Success rate (%)"},
	}
	suiteHeaderRow := len(rows)
	for _, s := range models.SummarizeBySuite(run.Results) {
		rows = append(rows, []any{s.Suite, s.Total, s.Passed, s.Failed, s.Skipped, s.SuccessRate})
	}

	if err := writeRows(f, summarySheet, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A1", fmt.Sprintf("A%d", 10), headerStyle); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, fmt.Sprintf("A%d", suiteHeaderRow), fmt.Sprintf("F%d", suiteHeaderRow), headerStyle); err != nil {
		return err
	}
	return f.SetColWidth(summarySheet, "A", "F", 18)
}

func writeResultsSheet(f *excelize.File, run models.Run, headerStyle, failStyle int) error {
	header := make([]any, len(resultHeaders))
	for i, h := range resultHeaders {
		header[i] = h
	}
	rows := [][]any{header}
	for _, r := range run.Results {
		rows = append(rows, []any{
			r.Suite, r.Check, string(r.Outcome), r.StatusCode, r.Duration.Milliseconds(),
			r.Details, r.Error, r.Timestamp.UTC().Format(timeLayout),
		})
	}
	if err := writeRows(f, resultsSheet, rows); err != nil {
		return err
	}

	last, err := excelize.CoordinatesToCellName(len(resultHeaders), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(resultsSheet, "A1", last, headerStyle); err != nil {
		return err
	}
	for i, r := range run.Results {
		if r.Outcome != models.OutcomeFail {
			continue
		}
		cell := fmt.Sprintf("C%d", i+2)
		if err := f.SetCellStyle(resultsSheet, cell, cell, failStyle); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(resultsSheet, "A", "B", 24); err != nil {
		return err
	}
	if err := f.SetColWidth(resultsSheet, "F", "G", 60); err != nil {
		return err
	}
	return f.AutoFilter(resultsSheet, fmt.Sprintf("A1:H%d", len(rows)), nil)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
