package validation

import (
	"fmt"
	"time"

	"github.com/olzhaszz/business-data-validation-toolkit/internal/types"
)

var invoiceTime = time.Date(2010, 12, 1, 8, 26, 0, 0, time.UTC)

func str(s string) types.NullString { return types.NullString{Value: s, Valid: true} }
func num(f float64) types.NullFloat { return types.NullFloat{Value: f, Valid: true} }
func stamp(t time.Time) types.NullTime { return types.NullTime{Value: t, Valid: true} }

// validRecord returns a record that breaks no rule against testMaster.
func validRecord(row int) types.Transaction {
	return types.Transaction{
		Row:         row,
		InvoiceNo:   str(fmt.Sprintf("5363%02d", row)),
		StockCode:   str("85123A"),
		Description: str("WHITE HANGING HEART T-LIGHT HOLDER"),
		Quantity:    num(6),
		InvoiceDate: stamp(invoiceTime),
		UnitPrice:   num(2.55),
		CustomerID:  num(17850),
		Country:     str("United Kingdom"),
	}
}

func tableOf(records ...types.Transaction) *types.Table {
	for i := range records {
		records[i].Row = i
	}
	return &types.Table{Headers: ColumnNames(TransactionSchema), Records: records}
}

func testMaster(extra ...types.ProductEntry) types.ProductMaster {
	entries := append([]types.ProductEntry{
		{StockCode: "85123A", UnitPriceRef: num(2.55)},
		{StockCode: "71053", UnitPriceRef: num(3.39)},
	}, extra...)
	return types.NewProductMaster(entries)
}

func rawTable(headers []string, rows ...[]string) *types.RawTable {
	raw := &types.RawTable{Headers: headers}
	for _, r := range rows {
		m := make(map[string]string, len(headers))
		for i, h := range headers {
			m[h] = r[i]
		}
		raw.Rows = append(raw.Rows, m)
	}
	return raw
}

func issueTypes(issues []types.Issue) []string {
	out := make([]string, 0, len(issues))
	for _, i := range issues {
		out = append(out, i.IssueType)
	}
	return out
}
