package reportwriter

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/olzhaszz/business-data-validation-toolkit/internal/kpi"
	"github.com/olzhaszz/business-data-validation-toolkit/internal/types"
)

// Sheet names of data_quality_report.xlsx, in tab order.
const (
	SheetSummary    = "Summary"
	SheetExceptions = "Exceptions"
	SheetSamples    = "Samples"
	SheetKPIs       = "KPIs"
)

// WorkbookData is everything data_quality_report.xlsx shows.
type WorkbookData struct {
	RunID         string
	GeneratedAt   time.Time
	Score         types.QualityScore
	Issues        []types.Issue
	SampleHeaders []string
	Samples       []types.SampleRow
	KPIs          kpi.Summary
}

// WriteWorkbook writes the validation results as a single workbook with one
// sheet per flat file. It carries the same values as the CSV/JSON outputs.
func (w *Writer) WriteWorkbook(path string, data WorkbookData) error {
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	// A new file starts with one default sheet; it becomes the summary.
	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	summary := [][]interface{}{
		{"Score", float64(data.Score.Score)},
		{"Grade", data.Score.Grade},
		{"Total rows", data.Score.TotalRows},
		{"Issue count", data.Score.IssueCount},
		{"Run ID", data.RunID},
		{"Generated", data.GeneratedAt.Format(time.RFC3339)},
	}
	if err := writeSheet(f, SheetSummary, []string{"Metric", "Value"}, summary, header); err != nil {
		return err
	}

	exceptions := make([][]interface{}, 0, len(data.Issues))
	for _, issue := range data.Issues {
		exceptions = append(exceptions, []interface{}{
			issue.IssueType, string(issue.Severity), issue.RowCount, issue.Owner, issue.RecommendedFix,
		})
	}
	if err := addSheet(f, SheetExceptions, ExceptionLogHeaders, exceptions, header); err != nil {
		return err
	}

	cols, records := sampleRecords(data.SampleHeaders, data.Samples)
	if err := addSheet(f, SheetSamples, cols, toCells(records), header); err != nil {
		return err
	}

	k := data.KPIs
	kpiRow := []interface{}{k.Rows, k.UniqueInvoices, k.UniqueCustomers, k.Countries, k.GrossRevenue, ""}
	if k.AvgOrderValue.Valid {
		kpiRow[5] = k.AvgOrderValue.Value
	}
	if err := addSheet(f, SheetKPIs, SummaryKPIHeaders, [][]interface{}{kpiRow}, header); err != nil {
		return err
	}

	f.SetActiveSheet(0)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

// addSheet creates a sheet and fills it.
func addSheet(f *excelize.File, name string, headers []string, rows [][]interface{}, headerStyle int) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", name, err)
	}
	return writeSheet(f, name, headers, rows, headerStyle)
}

// writeSheet writes a bold header row followed by the data rows.
func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]interface{}, headerStyle int) error {
	headerCells := make([]interface{}, len(headers))
	for i, h := range headers {
		headerCells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerCells); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func toCells(records [][]string) [][]interface{} {
	out := make([][]interface{}, len(records))
	for i, record := range records {
		row := make([]interface{}, len(record))
		for j, v := range record {
			row[j] = v
		}
		out[i] = row
	}
	return out
}
