// Package kpi computes the summary business metrics of a transactions table.
// It runs independently of the rule engine but reads the LineRevenue column
// the engine derives.
package kpi

import (
	"github.com/olzhaszz/business-data-validation-toolkit/internal/types"
)

// Summary is the single row of summary_kpis.csv.
type Summary struct {
	Rows            int
	UniqueInvoices  int
	UniqueCustomers int
	Countries       int
	GrossRevenue    float64

	// AvgOrderValue is the mean of the per-invoice revenue sums. It is null
	// when the table has no invoice numbers at all.
	AvgOrderValue types.NullFloat
}

// Compute aggregates the table. Null values are skipped by every unique count
// and by the revenue sums; rows with a null InvoiceNo do not form an order.
func Compute(table *types.Table) Summary {
	invoices := make(map[string]*Sum)
	var invoiceOrder []string
	customers := make(map[float64]struct{})
	countries := make(map[string]struct{})
	var gross Sum

	for i := range table.Records {
		rec := &table.Records[i]

		if rec.LineRevenue.Valid {
			gross.Add(rec.LineRevenue.Value)
		}
		if rec.CustomerID.Valid {
			customers[rec.CustomerID.Value] = struct{}{}
		}
		if rec.Country.Valid {
			countries[rec.Country.Value] = struct{}{}
		}
		if rec.InvoiceNo.Valid {
			s, ok := invoices[rec.InvoiceNo.Value]
			if !ok {
				s = &Sum{}
				invoices[rec.InvoiceNo.Value] = s
				invoiceOrder = append(invoiceOrder, rec.InvoiceNo.Value)
			}
			if rec.LineRevenue.Valid {
				s.Add(rec.LineRevenue.Value)
			}
		}
	}

	summary := Summary{
		Rows:            table.Len(),
		UniqueInvoices:  len(invoices),
		UniqueCustomers: len(customers),
		Countries:       len(countries),
		GrossRevenue:    gross.Float64(),
	}

	if len(invoiceOrder) > 0 {
		var orders Sum
		for _, inv := range invoiceOrder {
			orders.Add(invoices[inv].Float64())
		}
		summary.AvgOrderValue = types.NullFloat{
			Value: orders.Float64() / float64(len(invoiceOrder)),
			Valid: true,
		}
	}

	return summary
}
