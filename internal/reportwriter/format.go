package reportwriter

import (
	"math"
	"strconv"
	"strings"

	"github.com/olzhaszz/business-data-validation-toolkit/internal/types"
	"github.com/olzhaszz/business-data-validation-toolkit/internal/validation"
)

// timestampLayout is how coerced InvoiceDate values are written back out.
const timestampLayout = "2006-01-02 15:04:05"

// FormatFloat writes the shortest round-trip digits, always with a decimal
// point ("17850.0"). Magnitudes below 1e-4 or from 1e16 up use exponent form.
// NaN is written as an empty cell.
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return ""
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// FormatCount writes a float holding a whole number without a decimal point
// and any other value with FormatFloat.
func FormatCount(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return FormatFloat(v)
}

func formatNullFloat(v types.NullFloat) string {
	if !v.Valid {
		return ""
	}
	return FormatFloat(v.Value)
}

func formatNullTime(v types.NullTime) string {
	if !v.Valid {
		return ""
	}
	return v.Value.Format(timestampLayout)
}

// recordValue returns the output text of one column of a coerced record.
// Columns outside the transaction schema are written as they were read.
func recordValue(rec *types.Transaction, column string) string {
	switch column {
	case validation.ColInvoiceNo:
		return rec.InvoiceNo.String()
	case validation.ColStockCode:
		return rec.StockCode.String()
	case validation.ColDescription:
		return rec.Description.String()
	case validation.ColQuantity:
		return formatNullFloat(rec.Quantity)
	case validation.ColInvoiceDate:
		return formatNullTime(rec.InvoiceDate)
	case validation.ColUnitPrice:
		return formatNullFloat(rec.UnitPrice)
	case validation.ColCustomerID:
		return formatNullFloat(rec.CustomerID)
	case validation.ColCountry:
		return rec.Country.String()
	default:
		return rec.Extra[column]
	}
}
