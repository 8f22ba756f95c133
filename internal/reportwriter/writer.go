// =============================================================================
// Business Data Validation Toolkit - Report Writer Module
// =============================================================================
//
// This module serializes the results of a run to flat files.
//
// OUTPUT FILES (validate command):
//   exception_log.csv        issue_type, severity, row_count, owner,
//                            recommended_fix (one row per issue)
//   exception_samples.csv    input columns in input order, then IssueType and
//                            Severity (one row per sampled violation)
//   summary_kpis.csv         one row of KPIs
//   data_quality_score.json  score, grade, total_rows, issue_count
//
// OUTPUT FILES (report command):
//   value_report_weekly.csv        Week, invoices, customers, revenue, lines
//   value_report_top_products.csv  StockCode, Description, revenue, qty, invoices
//
// Every CSV has a header row, even when it has no data rows. The writer only
// writes where it is told to; making a set of files appear atomically is the
// caller's job (see utils.Stage).
//
// =============================================================================

package reportwriter

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/olzhaszz/business-data-validation-toolkit/internal/kpi"
	"github.com/olzhaszz/business-data-validation-toolkit/internal/types"
	"github.com/olzhaszz/business-data-validation-toolkit/internal/valuereport"
)

// Output file names.
const (
	ExceptionLogFile     = "exception_log.csv"
	ExceptionSamplesFile = "exception_samples.csv"
	SummaryKPIsFile      = "summary_kpis.csv"
	QualityScoreFile     = "data_quality_score.json"
	WeeklyReportFile     = "value_report_weekly.csv"
	TopProductsFile      = "value_report_top_products.csv"
	WorkbookFile         = "data_quality_report.xlsx"
)

// Columns appended to every sample row.
const (
	sampleIssueTypeCol = "IssueType"
	sampleSeverityCol  = "Severity"
)

// Column headers of the fixed-layout CSVs.
var (
	ExceptionLogHeaders = []string{"issue_type", "severity", "row_count", "owner", "recommended_fix"}
	SummaryKPIHeaders   = []string{"rows", "unique_invoices", "unique_customers", "countries", "gross_revenue", "avg_order_value"}
	WeeklyHeaders       = []string{"Week", "invoices", "customers", "revenue", "lines"}
	TopProductHeaders   = []string{"StockCode", "Description", "revenue", "qty", "invoices"}
)

// =============================================================================
// WRITER
// =============================================================================

// Options configures a Writer.
type Options struct {
	// BOMPrefix writes a UTF-8 byte order mark at the start of every CSV.
	BOMPrefix bool
}

// Writer writes report files.
type Writer struct {
	opts Options
}

// New creates a Writer.
func New(opts Options) *Writer {
	return &Writer{opts: opts}
}

func (w *Writer) csv(path string, headers []string, records [][]string) error {
	return writeCSV(path, csvOptions{
		Headers:   headers,
		Records:   records,
		BOMPrefix: w.opts.BOMPrefix,
	})
}

// WriteExceptionLog writes exception_log.csv. Issues are written in the order
// given; callers sort them first.
func (w *Writer) WriteExceptionLog(path string, issues []types.Issue) error {
	return w.csv(path, ExceptionLogHeaders, exceptionLogRecords(issues))
}

func exceptionLogRecords(issues []types.Issue) [][]string {
	records := make([][]string, 0, len(issues))
	for _, issue := range issues {
		records = append(records, []string{
			issue.IssueType,
			string(issue.Severity),
			strconv.Itoa(issue.RowCount),
			issue.Owner,
			issue.RecommendedFix,
		})
	}
	return records
}

// WriteSamples writes exception_samples.csv.
//
// PARAMETERS:
//   - path:    The destination file.
//   - headers: The input columns, in input order.
//   - samples: The sampled rows.
func (w *Writer) WriteSamples(path string, headers []string, samples []types.SampleRow) error {
	cols, records := sampleRecords(headers, samples)
	return w.csv(path, cols, records)
}

func sampleRecords(headers []string, samples []types.SampleRow) ([]string, [][]string) {
	cols := make([]string, 0, len(headers)+2)
	cols = append(cols, headers...)
	cols = append(cols, sampleIssueTypeCol, sampleSeverityCol)

	records := make([][]string, 0, len(samples))
	for i := range samples {
		s := &samples[i]
		record := make([]string, 0, len(cols))
		for _, h := range headers {
			record = append(record, recordValue(&s.Record, h))
		}
		record = append(record, s.IssueType, string(s.Severity))
		records = append(records, record)
	}
	return cols, records
}

// WriteKPIs writes summary_kpis.csv.
func (w *Writer) WriteKPIs(path string, summary kpi.Summary) error {
	return w.csv(path, SummaryKPIHeaders, [][]string{kpiRecord(summary)})
}

func kpiRecord(summary kpi.Summary) []string {
	return []string{
		strconv.Itoa(summary.Rows),
		strconv.Itoa(summary.UniqueInvoices),
		strconv.Itoa(summary.UniqueCustomers),
		strconv.Itoa(summary.Countries),
		FormatFloat(summary.GrossRevenue),
		formatNullFloat(summary.AvgOrderValue),
	}
}

// WriteScore writes data_quality_score.json with two-space indentation.
func (w *Writer) WriteScore(path string, score types.QualityScore) error {
	data, err := json.MarshalIndent(score, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode quality score: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// WriteWeekly writes value_report_weekly.csv.
func (w *Writer) WriteWeekly(path string, rows []valuereport.WeekRow) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.Week,
			strconv.Itoa(r.Invoices),
			strconv.Itoa(r.Customers),
			FormatFloat(r.Revenue),
			strconv.Itoa(r.Lines),
		})
	}
	return w.csv(path, WeeklyHeaders, records)
}

// WriteTopProducts writes value_report_top_products.csv.
func (w *Writer) WriteTopProducts(path string, rows []valuereport.ProductRow) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.StockCode,
			r.Description,
			FormatFloat(r.Revenue),
			FormatCount(r.Qty),
			strconv.Itoa(r.Invoices),
		})
	}
	return w.csv(path, TopProductHeaders, records)
}
