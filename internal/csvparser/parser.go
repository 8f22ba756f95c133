// =============================================================================
// Business Data Validation Toolkit - CSV Parser Module
// =============================================================================
//
// This module reads the CSV exports (transactions and product master) into a
// RawTable. It does not interpret any value: typing is the job of the schema
// coercer in the validation package.
//
// FEATURES:
//   - Configurable delimiter (comma, semicolon, pipe, tab)
//   - UTF-8 byte order mark on the header row is ignored
//   - Short rows are padded with empty cells
//
// FATAL CONDITIONS:
//   Structural problems abort the run before any output is written:
//   - The file cannot be opened
//   - The file has no header row
//   - A data row has more fields than the header
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olzhaszz/business-data-validation-toolkit/internal/config"
	"github.com/olzhaszz/business-data-validation-toolkit/internal/types"
)

// ErrEmptyFile is returned when a file has no header row.
var ErrEmptyFile = errors.New("file is empty")

// utf8BOM is stripped from the first header cell.
const utf8BOM = "\ufeff"

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV file and returns the parsed table.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: The input settings (delimiter).
//
// RETURNS:
//   - A pointer to the RawTable containing the header and data rows.
//   - An error if the file cannot be read or is structurally malformed.
func Parse(filePath string, settings config.InputConfig) (*types.RawTable, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	table, err := ParseReader(bufio.NewReader(file), settings)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	table.SourceFile = filePath

	return table, nil
}

// ParseReader reads CSV data from r. It is Parse without the file handling.
func ParseReader(r io.Reader, settings config.InputConfig) (*types.RawTable, error) {
	csvReader := csv.NewReader(r)
	configureReader(csvReader, settings)

	// Header row.
	header, err := csvReader.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	headers := cleanHeaders(header)

	// Data rows.
	var rows []map[string]string
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}

		row, err := toRowMap(record, headers)
		if err != nil {
			line, _ := csvReader.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}

	return &types.RawTable{
		Headers: headers,
		Rows:    rows,
	}, nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.InputConfig) {
	switch settings.Delimiter {
	case "\\t", "\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(settings.Delimiter) > 0 {
			reader.Comma = rune(settings.Delimiter[0])
		} else {
			reader.Comma = ','
		}
	}

	// Row length is checked against the header in toRowMap so that short rows
	// can be padded.
	reader.FieldsPerRecord = -1

	// Values are kept byte-for-byte: a leading space in a StockCode is a data
	// problem the rules must see, not something to clean up here.
	reader.TrimLeadingSpace = false

	// Descriptions such as 12" RULER carry bare quotes inside unquoted fields.
	reader.LazyQuotes = true
}

// cleanHeaders trims header names, names empty headers by position and renames
// repeated headers (see types.UniqueHeaders).
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))

	for i, header := range headers {
		if i == 0 {
			header = strings.TrimPrefix(header, utf8BOM)
		}
		header = strings.TrimSpace(header)

		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}

		cleaned[i] = header
	}

	return types.UniqueHeaders(cleaned)
}

// toRowMap converts a record into a header -> value map. Missing trailing
// cells become empty strings; surplus cells are an error.
func toRowMap(record []string, headers []string) (map[string]string, error) {
	if len(record) > len(headers) {
		return nil, fmt.Errorf("expected %d fields, saw %d", len(headers), len(record))
	}

	row := make(map[string]string, len(headers))
	for i, header := range headers {
		if i < len(record) {
			row[header] = record[i]
		} else {
			row[header] = ""
		}
	}
	return row, nil
}
