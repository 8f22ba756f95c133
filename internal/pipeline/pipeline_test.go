package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/olzhaszz/business-data-validation-toolkit/internal/config"
	"github.com/olzhaszz/business-data-validation-toolkit/internal/reportwriter"
	"github.com/olzhaszz/business-data-validation-toolkit/internal/types"
	"github.com/olzhaszz/business-data-validation-toolkit/internal/validation"
)

const transactionHeader = "InvoiceNo,StockCode,Description,Quantity,InvoiceDate,UnitPrice,CustomerID,Country"

// transactionLines returns n clean lines; edit may change line i before it is
// joined.
func transactionLines(n int, edit func(i int, cells []string)) string {
	lines := []string{transactionHeader}
	for i := 0; i < n; i++ {
		cells := []string{
			fmt.Sprintf("5363%02d", i+1), "85123A", "WHITE HANGING HEART T-LIGHT HOLDER",
			"2", "12/1/2010 8:26", "2.5", "17850", "United Kingdom",
		}
		if edit != nil {
			edit(i, cells)
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	return strings.Join(lines, "\n") + "\n"
}

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func readOutput(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(data)
}

func validateOptions(t *testing.T, transactions string) ValidateOptions {
	t.Helper()
	return validateOptionsWithMaster(t, transactions, "StockCode,UnitPrice_Ref\n85123A,2.5\n")
}

func validateOptionsWithMaster(t *testing.T, transactions, master string) ValidateOptions {
	t.Helper()
	dir := t.TempDir()
	return ValidateOptions{
		InputPath:         writeInput(t, dir, "transactions.csv", transactions),
		ProductMasterPath: writeInput(t, dir, "product_master.csv", master),
		OutputDir:         filepath.Join(dir, "outputs"),
	}
}

// cleanMasterRefs are reference prices for P01..P10. Against a UnitPrice of
// 2.5 their ratios run from 2.0 down to 0.5, both bounds included.
var cleanMasterRefs = []string{"1.25", "1.5", "1.75", "2.0", "2.5", "3.0", "3.5", "4.0", "4.5", "5.0"}

func cleanMaster() string {
	lines := []string{"StockCode,UnitPrice_Ref"}
	for i, ref := range cleanMasterRefs {
		lines = append(lines, fmt.Sprintf("P%02d,%s", i+1, ref))
	}
	return strings.Join(lines, "\n") + "\n"
}

func TestValidator_CleanInput(t *testing.T) {
	opts := validateOptionsWithMaster(t, transactionLines(10, func(i int, cells []string) {
		cells[1] = fmt.Sprintf("P%02d", i+1)
	}), cleanMaster())

	result, err := NewValidator(config.Default(), nil).Run(opts)
	require.NoError(t, err)

	assert.Empty(t, result.Issues)
	assert.Equal(t, types.QualityScore{Score: 100, Grade: "A", TotalRows: 10, IssueCount: 0}, result.Score)
	assert.Zero(t, result.SampleRows)
	assert.NotEmpty(t, result.RunID)

	assert.Equal(t, "issue_type,severity,row_count,owner,recommended_fix\n",
		readOutput(t, opts.OutputDir, reportwriter.ExceptionLogFile))
	assert.Equal(t, transactionHeader+",IssueType,Severity\n",
		readOutput(t, opts.OutputDir, reportwriter.ExceptionSamplesFile))
	assert.Equal(t, "rows,unique_invoices,unique_customers,countries,gross_revenue,avg_order_value\n10,10,1,1,50.0,5.0\n",
		readOutput(t, opts.OutputDir, reportwriter.SummaryKPIsFile))
	assert.Equal(t, "{\n  \"score\": 100.0,\n  \"grade\": \"A\",\n  \"total_rows\": 10,\n  \"issue_count\": 0\n}\n",
		readOutput(t, opts.OutputDir, reportwriter.QualityScoreFile))

	entries, err := os.ReadDir(opts.OutputDir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{
		reportwriter.ExceptionLogFile,
		reportwriter.ExceptionSamplesFile,
		reportwriter.SummaryKPIsFile,
		reportwriter.QualityScoreFile,
	}, names)
}

func TestValidator_DirtyInput(t *testing.T) {
	opts := validateOptions(t, transactionLines(10, func(i int, cells []string) {
		switch i {
		case 2:
			cells[6] = "" // CustomerID
		case 4:
			cells[3] = "0" // Quantity
		}
	}))

	result, err := NewValidator(config.Default(), nil).Run(opts)
	require.NoError(t, err)

	require.Len(t, result.Issues, 2)
	assert.Equal(t, validation.IssueNonPositiveQuantity, result.Issues[0].IssueType)
	assert.Equal(t, validation.IssueMissingCustomerID, result.Issues[1].IssueType)
	// 100 - 4*10 - 2*10
	assert.Equal(t, types.Score(40), result.Score.Score)
	assert.Equal(t, "E", result.Score.Grade)
	assert.Equal(t, 2, result.SampleRows)
	assert.Equal(t, 45.0, result.KPIs.GrossRevenue)

	wantLog := "issue_type,severity,row_count,owner,recommended_fix\n" +
		"NON_POSITIVE_QUANTITY,MEDIUM,1,Process Owner,Separate returns vs sales; enforce Quantity>0 for sales extracts; tag returns with a flag.\n" +
		"MISSING_CUSTOMER_ID,LOW,1,Data Owner,\"If CustomerID is required for the report, make it mandatory upstream; otherwise exclude from customer-level KPIs.\"\n"
	assert.Equal(t, wantLog, readOutput(t, opts.OutputDir, reportwriter.ExceptionLogFile))

	wantSamples := transactionHeader + ",IssueType,Severity\n" +
		"536303,85123A,WHITE HANGING HEART T-LIGHT HOLDER,2.0,2010-12-01 08:26:00,2.5,,United Kingdom,MISSING_CUSTOMER_ID,LOW\n" +
		"536305,85123A,WHITE HANGING HEART T-LIGHT HOLDER,0.0,2010-12-01 08:26:00,2.5,17850.0,United Kingdom,NON_POSITIVE_QUANTITY,MEDIUM\n"
	assert.Equal(t, wantSamples, readOutput(t, opts.OutputDir, reportwriter.ExceptionSamplesFile))
}

func TestValidator_PriceOutlier(t *testing.T) {
	master := "StockCode,UnitPrice_Ref\n85123A,2.5\n22752,10.0\n"
	opts := validateOptionsWithMaster(t, transactionLines(10, func(i int, cells []string) {
		if i == 7 {
			cells[1] = "22752"
		}
	}), master)

	result, err := NewValidator(config.Default(), nil).Run(opts)
	require.NoError(t, err)

	require.Len(t, result.Issues, 1)
	assert.Equal(t, validation.IssueUnitPriceOutlier, result.Issues[0].IssueType)
	assert.Equal(t, 1, result.Issues[0].RowCount)
	// 100 - 2*10
	assert.Equal(t, types.Score(80), result.Score.Score)
	assert.Equal(t, "C", result.Score.Grade)
	assert.Contains(t, readOutput(t, opts.OutputDir, reportwriter.ExceptionSamplesFile),
		"536308,22752,WHITE HANGING HEART T-LIGHT HOLDER,2.0,2010-12-01 08:26:00,2.5,17850.0,United Kingdom,UNITPRICE_OUTLIER_VS_REFERENCE,LOW\n")
}

func TestValidator_CommitBlockedLeavesNoReports(t *testing.T) {
	opts := validateOptions(t, transactionLines(10, nil))
	require.NoError(t, os.MkdirAll(filepath.Join(opts.OutputDir, reportwriter.ExceptionSamplesFile), 0755))

	_, err := NewValidator(config.Default(), nil).Run(opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), reportwriter.ExceptionSamplesFile)

	entries, err := os.ReadDir(opts.OutputDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, reportwriter.ExceptionSamplesFile, entries[0].Name())
	assert.True(t, entries[0].IsDir())
}

func TestValidator_SchemaFailure(t *testing.T) {
	opts := validateOptions(t, transactionLines(10, func(i int, cells []string) {
		if i == 0 {
			cells[5] = "abc" // UnitPrice
		}
	}))

	result, err := NewValidator(config.Default(), nil).Run(opts)
	require.NoError(t, err)

	require.NotEmpty(t, result.Issues)
	assert.Equal(t, validation.IssueSchemaValidationFailed, result.Issues[0].IssueType)
	assert.Equal(t, 1, result.Issues[0].RowCount)
	assert.Equal(t, 1, result.Coercion.ByColumn[validation.ColUnitPrice])
}

func TestValidator_MissingColumn(t *testing.T) {
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(transactionLines(3, nil)), "\n") {
		lines = append(lines, line[:strings.LastIndex(line, ",")])
	}
	opts := validateOptions(t, strings.Join(lines, "\n")+"\n")

	_, err := NewValidator(config.Default(), nil).Run(opts)

	require.ErrorIs(t, err, validation.ErrMissingColumn)
	assert.Contains(t, err.Error(), "Country")
	assert.NoDirExists(t, opts.OutputDir)
}

func TestValidator_MissingInput(t *testing.T) {
	opts := validateOptions(t, transactionLines(1, nil))
	opts.InputPath = filepath.Join(t.TempDir(), "missing.csv")

	_, err := NewValidator(config.Default(), nil).Run(opts)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "input file not found")
}

func TestValidator_WorkbookOutputAndXLSXMaster(t *testing.T) {
	opts := validateOptions(t, transactionLines(4, nil))

	master := excelize.NewFile()
	require.NoError(t, master.SetSheetRow("Sheet1", "A1", &[]interface{}{"StockCode", "UnitPrice_Ref"}))
	require.NoError(t, master.SetSheetRow("Sheet1", "A2", &[]interface{}{"85123A", 2.5}))
	opts.ProductMasterPath = filepath.Join(t.TempDir(), "product_master.xlsx")
	require.NoError(t, master.SaveAs(opts.ProductMasterPath))
	require.NoError(t, master.Close())

	cfg := config.Default()
	cfg.Output.XLSXReport = true

	result, err := NewValidator(cfg, nil).Run(opts)
	require.NoError(t, err)

	assert.Equal(t, "A", result.Score.Grade)
	assert.Contains(t, result.OutputFiles, filepath.Join(opts.OutputDir, reportwriter.WorkbookFile))

	f, err := excelize.OpenFile(filepath.Join(opts.OutputDir, reportwriter.WorkbookFile))
	require.NoError(t, err)
	defer f.Close()
	grade, err := f.GetCellValue(reportwriter.SheetSummary, "B3")
	require.NoError(t, err)
	assert.Equal(t, "A", grade)
}

func TestReporter_Run(t *testing.T) {
	dir := t.TempDir()
	input := transactionLines(3, func(i int, cells []string) {
		if i == 2 {
			cells[4] = "12/8/2010 9:00" // following week
			cells[1] = "22633"
			cells[2] = "HAND WARMER UNION JACK"
		}
	})
	opts := ReportOptions{
		InputPath: writeInput(t, dir, "transactions.csv", input),
		OutputDir: filepath.Join(dir, "outputs"),
	}

	result, err := NewReporter(config.Default(), nil).Run(opts)
	require.NoError(t, err)

	require.Len(t, result.Weeks, 2)
	assert.Len(t, result.Products, 2)

	assert.Equal(t,
		"Week,invoices,customers,revenue,lines\n"+
			"2010-11-29/2010-12-05,2,1,10.0,2\n"+
			"2010-12-06/2010-12-12,1,1,5.0,1\n",
		readOutput(t, opts.OutputDir, reportwriter.WeeklyReportFile))
	assert.Equal(t,
		"StockCode,Description,revenue,qty,invoices\n"+
			"85123A,WHITE HANGING HEART T-LIGHT HOLDER,10.0,4,2\n"+
			"22633,HAND WARMER UNION JACK,5.0,2,1\n",
		readOutput(t, opts.OutputDir, reportwriter.TopProductsFile))
}

func TestReporter_UndatedRowsFormTheirOwnWeek(t *testing.T) {
	dir := t.TempDir()
	input := transactionLines(3, func(i int, cells []string) {
		if i == 0 {
			cells[4] = ""
		}
	})
	opts := ReportOptions{
		InputPath: writeInput(t, dir, "transactions.csv", input),
		OutputDir: filepath.Join(dir, "outputs"),
	}

	_, err := NewReporter(config.Default(), nil).Run(opts)
	require.NoError(t, err)

	assert.Equal(t,
		"Week,invoices,customers,revenue,lines\n"+
			"2010-11-29/2010-12-05,2,1,10.0,2\n"+
			"NaT,1,1,5.0,1\n",
		readOutput(t, opts.OutputDir, reportwriter.WeeklyReportFile))
}

func TestReporter_TopOverride(t *testing.T) {
	dir := t.TempDir()
	input := transactionLines(3, func(i int, cells []string) {
		cells[1] = fmt.Sprintf("CODE%d", i)
	})
	opts := ReportOptions{
		InputPath:   writeInput(t, dir, "transactions.csv", input),
		OutputDir:   filepath.Join(dir, "outputs"),
		TopProducts: 1,
	}

	result, err := NewReporter(config.Default(), nil).Run(opts)
	require.NoError(t, err)

	assert.Len(t, result.Products, 1)
}
