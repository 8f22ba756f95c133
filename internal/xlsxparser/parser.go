// =============================================================================
// Business Data Validation Toolkit - XLSX Input Parser
// =============================================================================
//
// Product masters in particular are often maintained as Excel workbooks. This
// module reads one worksheet of an .xlsx file into the same RawTable the CSV
// parser produces, so everything downstream is format-agnostic.
//
// SHEET LAYOUT (Expected):
//
//   | Row 1 | StockCode | UnitPrice_Ref | ...   <- header row
//   | Row 2 | 85123A    | 2.55          | ...   <- data rows
//
// Cells are read as their formatted text (what the user sees in Excel).
// Rows that are completely empty are skipped.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/olzhaszz/business-data-validation-toolkit/internal/config"
	"github.com/olzhaszz/business-data-validation-toolkit/internal/types"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a worksheet from an XLSX file.
//
// PARAMETERS:
//   - filePath: The path to the workbook.
//   - settings: The input settings. settings.Sheet selects the worksheet;
//     empty means the first sheet.
//
// RETURNS:
//   - A pointer to the RawTable.
//   - An error if the workbook or sheet cannot be read or has no header row.
func Parse(filePath string, settings config.InputConfig) (*types.RawTable, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := settings.Sheet
	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}
	if sheetName == "" {
		return nil, fmt.Errorf("%s: workbook has no sheets", filePath)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read sheet %q: %w", filePath, sheetName, err)
	}

	table, err := fromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: sheet %q: %w", filePath, sheetName, err)
	}
	table.SourceFile = filePath

	return table, nil
}

// fromRows converts excelize rows into a RawTable. The first non-empty row is
// the header.
func fromRows(rows [][]string) (*types.RawTable, error) {
	start := 0
	for start < len(rows) && isRowEmpty(rows[start]) {
		start++
	}
	if start == len(rows) {
		return nil, fmt.Errorf("no header row")
	}

	headers := make([]string, len(rows[start]))
	for i, h := range rows[start] {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Column_%d", i+1)
		}
		headers[i] = h
	}
	types.UniqueHeaders(headers)

	table := &types.RawTable{Headers: headers}

	for i := start + 1; i < len(rows); i++ {
		row := rows[i]
		if isRowEmpty(row) {
			continue
		}
		if len(row) > len(headers) {
			return nil, fmt.Errorf("row %d: expected %d cells, saw %d", i+1, len(headers), len(row))
		}

		// GetRows drops trailing empty cells, so short rows are padded.
		values := make(map[string]string, len(headers))
		for col, header := range headers {
			if col < len(row) {
				values[header] = row[col]
			} else {
				values[header] = ""
			}
		}
		table.Rows = append(table.Rows, values)
	}

	return table, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
