// =============================================================================
// Business Data Validation Toolkit - Shared Types
// =============================================================================
//
// This package contains the types shared by the loader, the validation engine,
// the scorer, the KPI aggregator and the report writer. Keeping them here
// avoids import cycles between those packages:
//   - csvparser / xlsxparser  -> RawTable
//   - validation              -> Transaction, ProductMaster, Issue, SampleRow
//   - scoring                 -> Issue, QualityScore
//   - kpi / valuereport       -> Transaction
//   - reportwriter            -> everything above
//
// =============================================================================

package types

import (
	"strconv"
	"time"
)

// =============================================================================
// RAW TABLE
// =============================================================================

// RawTable is an input file exactly as it was read: a header row and the data
// rows as header -> cell text. Nothing in a RawTable has been typed yet.
type RawTable struct {
	// Headers contains the column headers in file order.
	Headers []string

	// Rows contains the data rows as maps of header -> value.
	Rows []map[string]string

	// SourceFile is the path the table was loaded from.
	SourceFile string
}

// RowCount returns the number of data rows (excluding the header row).
func (t *RawTable) RowCount() int {
	return len(t.Rows)
}

// HasColumn reports whether the table carries the given header.
func (t *RawTable) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// UniqueHeaders renames repeated headers so that every column keeps its own
// name. The first occurrence is unchanged; later ones get ".1", ".2", ...
// skipping any name already taken, so "Quantity,Quantity" becomes
// "Quantity,Quantity.1". The slice is modified in place and returned.
func UniqueHeaders(headers []string) []string {
	taken := make(map[string]bool, len(headers))
	for _, h := range headers {
		taken[h] = true
	}

	seen := make(map[string]bool, len(headers))
	next := make(map[string]int)
	for i, h := range headers {
		if !seen[h] {
			seen[h] = true
			continue
		}

		n := next[h]
		name := h
		for taken[name] {
			n++
			name = h + "." + strconv.Itoa(n)
		}
		next[h] = n
		taken[name] = true
		seen[name] = true
		headers[i] = name
	}
	return headers
}

// =============================================================================
// NULLABLE VALUES
// =============================================================================

// NullString is a text cell that may be absent.
type NullString struct {
	Value string
	Valid bool
}

// NullFloat is a numeric cell that may be absent.
type NullFloat struct {
	Value float64
	Valid bool
}

// NullTime is a timestamp cell that may be absent.
type NullTime struct {
	Value time.Time
	Valid bool
}

// String returns the text or "" for null.
func (n NullString) String() string {
	if !n.Valid {
		return ""
	}
	return n.Value
}

// =============================================================================
// TRANSACTION RECORD
// =============================================================================

// Transaction is one coerced row of the transactions extract.
type Transaction struct {
	// Row is the 0-based index of the row in the source file.
	// Coercion never drops or reorders rows, so Row == position in the table.
	Row int

	InvoiceNo   NullString
	StockCode   NullString
	Description NullString
	Quantity    NullFloat
	InvoiceDate NullTime
	UnitPrice   NullFloat
	CustomerID  NullFloat
	Country     NullString

	// LineRevenue is Quantity x UnitPrice. Null when either factor is null.
	// It is filled in by the rule engine and read by the KPI aggregator.
	LineRevenue NullFloat

	// Extra holds columns that are not part of the transaction schema.
	// They are passed through untouched to the sample output.
	Extra map[string]string
}

// Table is the coerced transactions table plus the header order of the
// source file (used to lay out the sample output).
type Table struct {
	Headers []string
	Records []Transaction
}

// Len returns the number of records in the table.
func (t *Table) Len() int {
	return len(t.Records)
}

// =============================================================================
// PRODUCT MASTER
// =============================================================================

// ProductMaster is the read-only reference lookup built from the product
// master file. Keys are StockCodes compared as exact text, so " 85123A" and
// "85123A" are different codes. Duplicate keys collapse
// and, for the reference price, the last occurrence wins.
type ProductMaster struct {
	codes  map[string]struct{}
	prices map[string]float64
}

// NewProductMaster builds the lookup from (code, reference price) pairs.
// A pair whose price is not Valid still registers the code.
func NewProductMaster(entries []ProductEntry) ProductMaster {
	pm := ProductMaster{
		codes:  make(map[string]struct{}, len(entries)),
		prices: make(map[string]float64, len(entries)),
	}
	for _, e := range entries {
		key := e.StockCode
		pm.codes[key] = struct{}{}
		if e.UnitPriceRef.Valid {
			pm.prices[key] = e.UnitPriceRef.Value
		} else {
			delete(pm.prices, key)
		}
	}
	return pm
}

// ProductEntry is one row of the product master file.
type ProductEntry struct {
	StockCode    string
	UnitPriceRef NullFloat
}

// Contains reports whether the StockCode exists in the master.
func (pm ProductMaster) Contains(code string) bool {
	_, ok := pm.codes[code]
	return ok
}

// RefPrice returns the reference unit price for a StockCode.
func (pm ProductMaster) RefPrice(code string) (float64, bool) {
	p, ok := pm.prices[code]
	return p, ok
}

// Len returns the number of distinct StockCodes.
func (pm ProductMaster) Len() int {
	return len(pm.codes)
}

// =============================================================================
// ISSUES
// =============================================================================

// Severity classifies how badly an issue affects reporting.
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
)

// Rank orders severities HIGH < MEDIUM < LOW; unknown values sort last.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	case SeverityLow:
		return 2
	default:
		return 3
	}
}

// Issue is one rule-level finding. RowCount is always >= 1.
type Issue struct {
	IssueType      string   `json:"issue_type"`
	Severity       Severity `json:"severity"`
	RowCount       int      `json:"row_count"`
	Owner          string   `json:"owner"`
	RecommendedFix string   `json:"recommended_fix"`
}

// SampleRow is a copy of an offending record tagged with the rule it broke.
type SampleRow struct {
	Record    Transaction
	IssueType string
	Severity  Severity
}

// =============================================================================
// QUALITY SCORE
// =============================================================================

// QualityScore is the terminal output of one validation run.
type QualityScore struct {
	Score      Score  `json:"score"`
	Grade      string `json:"grade"`
	TotalRows  int    `json:"total_rows"`
	IssueCount int    `json:"issue_count"`
}
