package xlsxparser

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/olzhaszz/business-data-validation-toolkit/internal/config"
)

// writeWorkbook saves rows to the named sheet of a new workbook.
func writeWorkbook(t *testing.T, sheet string, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "master.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestParse(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]interface{}{
		{"StockCode", " UnitPrice_Ref ", "Note"},
		{"85123A", 2.55, "x"},
		{nil, nil, nil},
		{"71053", 3.39},
	})

	table, err := Parse(path, config.InputConfig{})
	require.NoError(t, err)

	assert.Equal(t, []string{"StockCode", "UnitPrice_Ref", "Note"}, table.Headers)
	require.Equal(t, 2, table.RowCount())
	assert.Equal(t, map[string]string{"StockCode": "85123A", "UnitPrice_Ref": "2.55", "Note": "x"}, table.Rows[0])
	assert.Equal(t, map[string]string{"StockCode": "71053", "UnitPrice_Ref": "3.39", "Note": ""}, table.Rows[1])
	assert.Equal(t, path, table.SourceFile)
}

func TestParse_NamedSheet(t *testing.T) {
	path := writeWorkbook(t, "Master", [][]interface{}{
		{"StockCode", "UnitPrice_Ref"},
		{"22633", 1.85},
	})

	table, err := Parse(path, config.InputConfig{Sheet: "Master"})
	require.NoError(t, err)
	assert.Equal(t, "22633", table.Rows[0]["StockCode"])

	_, err = Parse(path, config.InputConfig{Sheet: "Missing"})
	assert.Error(t, err)
}

func TestParse_NoHeader(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", nil)

	_, err := Parse(path, config.InputConfig{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no header row")
}

func TestFromRows_DuplicateHeaders(t *testing.T) {
	table, err := fromRows([][]string{
		{"StockCode", " UnitPrice_Ref", "UnitPrice_Ref "},
		{"85123A", "2.55", "9.99"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"StockCode", "UnitPrice_Ref", "UnitPrice_Ref.1"}, table.Headers)
	assert.Equal(t, "2.55", table.Rows[0]["UnitPrice_Ref"])
	assert.Equal(t, "9.99", table.Rows[0]["UnitPrice_Ref.1"])
}

func TestFromRows_LongRow(t *testing.T) {
	_, err := fromRows([][]string{{"a"}, {"1", "2"}})

	assert.Error(t, err)
}
