// =============================================================================
// Business Data Validation Toolkit - Schema Coercer
// =============================================================================
//
// The schema coercer turns a RawTable (all text) into a typed Table.
//
// COERCION STRATEGY:
//   Coercion is lenient. Every cell is parsed strictly against the declared
//   type of its column; a cell that does not parse becomes null instead of
//   aborting the run. Rows are never dropped or reordered.
//
//   While coercing, the coercer counts non-conforming cells. A cell is
//   non-conforming when:
//     1. it holds a value the strict parser for its type rejects, or
//     2. it is null in a column declared non-nullable.
//   The total is reported once, as a single HIGH SCHEMA_VALIDATION_FAILED
//   issue, before any rule runs.
//
//   Timestamp columns are an exception to (1): an unparseable date is nulled
//   without counting as a schema failure, because the INVALID_INVOICE_DATE
//   rule reports it separately.
//
// NULL MARKERS:
//   The usual spreadsheet and CSV null spellings ("", "NA", "N/A", "NaN",
//   "null", "None", "#N/A", ...) are null in every column.
//
// =============================================================================

package validation

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/olzhaszz/business-data-validation-toolkit/internal/types"
)

// ErrMissingColumn is returned when an input file lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// =============================================================================
// COLUMN SPECIFICATIONS
// =============================================================================

// DataType is the declared type of a column.
type DataType int

const (
	// TypeText accepts any non-null value.
	TypeText DataType = iota

	// TypeNumber accepts decimal numbers.
	TypeNumber

	// TypeTimestamp accepts values matching one of the configured layouts.
	TypeTimestamp
)

// String returns the type name used in log messages.
func (t DataType) String() string {
	switch t {
	case TypeText:
		return "text"
	case TypeNumber:
		return "number"
	case TypeTimestamp:
		return "timestamp"
	default:
		return fmt.Sprintf("DataType(%d)", int(t))
	}
}

// ColumnSpec declares one column of a schema.
type ColumnSpec struct {
	Name     string
	Type     DataType
	Nullable bool
}

// Column names of the transactions extract.
const (
	ColInvoiceNo   = "InvoiceNo"
	ColStockCode   = "StockCode"
	ColDescription = "Description"
	ColQuantity    = "Quantity"
	ColInvoiceDate = "InvoiceDate"
	ColUnitPrice   = "UnitPrice"
	ColCustomerID  = "CustomerID"
	ColCountry     = "Country"
)

// Column names of the product master.
const (
	ColUnitPriceRef = "UnitPrice_Ref"
)

// TransactionSchema is the schema of the transactions extract.
var TransactionSchema = []ColumnSpec{
	{Name: ColInvoiceNo, Type: TypeText, Nullable: false},
	{Name: ColStockCode, Type: TypeText, Nullable: false},
	{Name: ColDescription, Type: TypeText, Nullable: true},
	{Name: ColQuantity, Type: TypeNumber, Nullable: false},
	{Name: ColInvoiceDate, Type: TypeTimestamp, Nullable: false},
	{Name: ColUnitPrice, Type: TypeNumber, Nullable: false},
	{Name: ColCustomerID, Type: TypeNumber, Nullable: true},
	{Name: ColCountry, Type: TypeText, Nullable: false},
}

// nullMarkers are cell values read as null.
var nullMarkers = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// IsNull reports whether a raw cell value is a null marker.
func IsNull(value string) bool {
	_, ok := nullMarkers[value]
	return ok
}

// =============================================================================
// COERCION
// =============================================================================

// CoercionReport summarizes what the coercer had to change.
type CoercionReport struct {
	// Failures is the number of non-conforming cells (see package comment).
	Failures int

	// ByColumn breaks Failures down per column.
	ByColumn map[string]int

	// UnparsedDates counts timestamp cells that were present but unparseable.
	// They are not part of Failures.
	UnparsedDates int
}

// Coercer coerces raw tables against a schema.
type Coercer struct {
	specs       []ColumnSpec
	dateLayouts []string
}

// NewCoercer creates a Coercer for the given schema. dateLayouts are Go time
// layouts tried in order for timestamp columns.
func NewCoercer(specs []ColumnSpec, dateLayouts []string) *Coercer {
	return &Coercer{
		specs:       specs,
		dateLayouts: dateLayouts,
	}
}

// RequireColumns checks that every named column is present in the header.
// Missing columns are a structural problem, not a data problem, so this is
// the one check in the package that returns an error.
func RequireColumns(raw *types.RawTable, names ...string) error {
	var missing []string
	for _, name := range names {
		if !raw.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return nil
}

// ColumnNames returns the names of the given specs.
func ColumnNames(specs []ColumnSpec) []string {
	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = s.Name
	}
	return names
}

// Coerce converts the raw transactions table into a typed Table.
//
// PARAMETERS:
//   - raw: The table as read from disk.
//
// RETURNS:
//   - The coerced table. Row i of the result is row i of raw.
//   - A report of the cells that did not conform to the schema.
func (c *Coercer) Coerce(raw *types.RawTable) (*types.Table, CoercionReport) {
	report := CoercionReport{ByColumn: make(map[string]int)}

	schemaCols := make(map[string]struct{}, len(c.specs))
	for _, spec := range c.specs {
		schemaCols[spec.Name] = struct{}{}
	}

	table := &types.Table{
		Headers: append([]string(nil), raw.Headers...),
		Records: make([]types.Transaction, len(raw.Rows)),
	}

	for i, row := range raw.Rows {
		rec := types.Transaction{Row: i}

		for _, spec := range c.specs {
			v, ok := c.coerceCell(row[spec.Name], spec, &report)
			if !ok {
				report.Failures++
				report.ByColumn[spec.Name]++
			}
			assign(&rec, spec.Name, v)
		}

		for _, h := range raw.Headers {
			if _, isSchema := schemaCols[h]; isSchema {
				continue
			}
			if rec.Extra == nil {
				rec.Extra = make(map[string]string)
			}
			rec.Extra[h] = row[h]
		}

		table.Records[i] = rec
	}

	return table, report
}

// cell is a coerced value of any schema type.
type cell struct {
	text  types.NullString
	num   types.NullFloat
	stamp types.NullTime
}

// coerceCell parses one value. The second result is false when the cell is
// non-conforming.
func (c *Coercer) coerceCell(value string, spec ColumnSpec, report *CoercionReport) (cell, bool) {
	var out cell

	if IsNull(value) {
		return out, spec.Nullable
	}

	switch spec.Type {
	case TypeText:
		out.text = types.NullString{Value: value, Valid: true}
		return out, true

	case TypeNumber:
		f, ok := ParseNumber(value)
		if !ok {
			return out, false
		}
		if math.IsNaN(f) {
			return out, spec.Nullable
		}
		out.num = types.NullFloat{Value: f, Valid: true}
		return out, true

	case TypeTimestamp:
		t, ok := ParseTimestamp(value, c.dateLayouts)
		if !ok {
			report.UnparsedDates++
			return out, true
		}
		out.stamp = types.NullTime{Value: t, Valid: true}
		return out, true

	default:
		return out, false
	}
}

// assign stores a coerced cell in the matching Transaction field.
func assign(rec *types.Transaction, column string, v cell) {
	switch column {
	case ColInvoiceNo:
		rec.InvoiceNo = v.text
	case ColStockCode:
		rec.StockCode = v.text
	case ColDescription:
		rec.Description = v.text
	case ColQuantity:
		rec.Quantity = v.num
	case ColInvoiceDate:
		rec.InvoiceDate = v.stamp
	case ColUnitPrice:
		rec.UnitPrice = v.num
	case ColCustomerID:
		rec.CustomerID = v.num
	case ColCountry:
		rec.Country = v.text
	}
}

// =============================================================================
// STRICT PARSERS
// =============================================================================

// ParseNumber parses a decimal number. Surrounding whitespace is allowed;
// thousands separators and infinities are not. NaN spellings parse to NaN.
func ParseNumber(value string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseTimestamp tries each layout in order and returns the first match.
func ParseTimestamp(value string, layouts []string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// =============================================================================
// PRODUCT MASTER
// =============================================================================

// BuildProductMaster turns the raw product master into the lookup value used
// by the rules. StockCode and UnitPrice_Ref are required columns; rows with a
// null StockCode are ignored and an unparseable reference price leaves the
// code without a price.
func BuildProductMaster(raw *types.RawTable) (types.ProductMaster, error) {
	if err := RequireColumns(raw, ColStockCode, ColUnitPriceRef); err != nil {
		return types.ProductMaster{}, err
	}

	entries := make([]types.ProductEntry, 0, len(raw.Rows))
	for _, row := range raw.Rows {
		code := row[ColStockCode]
		if IsNull(code) {
			continue
		}

		entry := types.ProductEntry{StockCode: code}
		if price := row[ColUnitPriceRef]; !IsNull(price) {
			if f, ok := ParseNumber(price); ok && !math.IsNaN(f) {
				entry.UnitPriceRef = types.NullFloat{Value: f, Valid: true}
			}
		}
		entries = append(entries, entry)
	}

	return types.NewProductMaster(entries), nil
}
