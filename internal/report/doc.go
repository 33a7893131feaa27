// Package report renders finished runs.
//
// Console prints the colored end-of-run summary: one row per suite, the
// totals with the success rate, and the list of failed checks. It also
// renders the history and flaky tables of the stored-run commands.
//
// WriteXLSX, WriteJSON and WriteYAML export a run for sharing. The workbook
// has a Summary sheet with the run metadata and the per-suite counts, and a
// Results sheet with one row per check.
package report
