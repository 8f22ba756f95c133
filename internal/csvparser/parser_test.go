package csvparser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olzhaszz/business-data-validation-toolkit/internal/config"
)

var commaSettings = config.InputConfig{Delimiter: ","}

func TestParseReader(t *testing.T) {
	input := "\ufeffInvoiceNo, StockCode ,Description\n" +
		"536365,85123A,WHITE HANGING HEART\n" +
		"536366, 22633,\n"

	table, err := ParseReader(strings.NewReader(input), commaSettings)
	require.NoError(t, err)

	assert.Equal(t, []string{"InvoiceNo", "StockCode", "Description"}, table.Headers)
	require.Equal(t, 2, table.RowCount())
	assert.Equal(t, "WHITE HANGING HEART", table.Rows[0]["Description"])
	// Cell values are not trimmed.
	assert.Equal(t, " 22633", table.Rows[1]["StockCode"])
	assert.Equal(t, "", table.Rows[1]["Description"])
}

func TestParseReader_ShortRowsArePadded(t *testing.T) {
	table, err := ParseReader(strings.NewReader("a,b,c\n1\n"), commaSettings)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"a": "1", "b": "", "c": ""}, table.Rows[0])
}

func TestParseReader_LongRow(t *testing.T) {
	_, err := ParseReader(strings.NewReader("a,b\n1,2\n1,2,3\n"), commaSettings)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}

func TestParseReader_Empty(t *testing.T) {
	_, err := ParseReader(strings.NewReader(""), commaSettings)

	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestParseReader_Delimiters(t *testing.T) {
	tests := []struct {
		delimiter string
		input     string
	}{
		{";", "a;b\n1;2\n"},
		{"semicolon", "a;b\n1;2\n"},
		{"|", "a|b\n1|2\n"},
		{"\\t", "a\tb\n1\t2\n"},
		{"", "a,b\n1,2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.delimiter, func(t *testing.T) {
			table, err := ParseReader(strings.NewReader(tt.input), config.InputConfig{Delimiter: tt.delimiter})
			require.NoError(t, err)
			assert.Equal(t, map[string]string{"a": "1", "b": "2"}, table.Rows[0])
		})
	}
}

func TestParseReader_BareQuotes(t *testing.T) {
	table, err := ParseReader(strings.NewReader("Description,Qty\n12\" RULER,3\n"), commaSettings)
	require.NoError(t, err)

	assert.Equal(t, `12" RULER`, table.Rows[0]["Description"])
}

func TestParseReader_EmptyHeaderNamed(t *testing.T) {
	table, err := ParseReader(strings.NewReader("a,,c\n1,2,3\n"), commaSettings)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "Column_2", "c"}, table.Headers)
}

func TestParseReader_DuplicateHeadersKeepEveryColumn(t *testing.T) {
	table, err := ParseReader(strings.NewReader("InvoiceNo,Quantity,Quantity\n536365,6,abc\n"), commaSettings)
	require.NoError(t, err)

	assert.Equal(t, []string{"InvoiceNo", "Quantity", "Quantity.1"}, table.Headers)
	assert.Equal(t, map[string]string{"InvoiceNo": "536365", "Quantity": "6", "Quantity.1": "abc"}, table.Rows[0])
}

func TestParse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tx.csv")
	require.NoError(t, os.WriteFile(path, []byte("StockCode,UnitPrice_Ref\n85123A,2.55\n"), 0644))

	table, err := Parse(path, commaSettings)
	require.NoError(t, err)

	assert.Equal(t, path, table.SourceFile)
	assert.Equal(t, 1, table.RowCount())
}

func TestParse_MissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "missing.csv"), commaSettings)

	assert.ErrorIs(t, err, os.ErrNotExist)
}
