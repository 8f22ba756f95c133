// =============================================================================
// Business Data Validation Toolkit - Value Report
// =============================================================================
//
// The value report summarizes what the transactions are worth, independent of
// their quality:
//   - Weekly trend: invoices, customers, revenue and lines per calendar week
//   - Top products: the best-selling (StockCode, Description) pairs by revenue
//
// Weeks run Monday to Sunday and are labelled "YYYY-MM-DD/YYYY-MM-DD".
// Rows without an InvoiceDate are grouped under the week "NaT", reported after
// every dated week. Rows without a StockCode or Description are left out of
// the product ranking.
//
// =============================================================================

package valuereport

import (
	"sort"
	"time"

	"github.com/olzhaszz/business-data-validation-toolkit/internal/kpi"
	"github.com/olzhaszz/business-data-validation-toolkit/internal/types"
)

// DefaultTopProducts is the number of products kept by TopProducts.
const DefaultTopProducts = 25

// weekLabelLayout formats both ends of a week label.
const weekLabelLayout = "2006-01-02"

// UndatedWeek labels the group of records that have no InvoiceDate.
const UndatedWeek = "NaT"

// =============================================================================
// WEEKLY TREND
// =============================================================================

// WeekRow is one row of value_report_weekly.csv.
type WeekRow struct {
	Week      string
	Invoices  int
	Customers int
	Revenue   float64
	Lines     int
}

type weekAgg struct {
	invoices  map[string]struct{}
	customers map[float64]struct{}
	revenue   kpi.Sum
	lines     int
}

// Weekly groups the table by Monday-Sunday week.
//
// RETURNS:
//   - One row per week that has at least one record, oldest first, then
//     the UndatedWeek row if any record lacks an InvoiceDate. Lines counts
//     records with an InvoiceNo; Revenue is 0 for a week whose records all
//     lack LineRevenue.
func Weekly(table *types.Table) []WeekRow {
	weeks := make(map[string]*weekAgg)

	for i := range table.Records {
		rec := &table.Records[i]
		label := UndatedWeek
		if rec.InvoiceDate.Valid {
			label = WeekLabel(WeekStart(rec.InvoiceDate.Value))
		}

		agg, ok := weeks[label]
		if !ok {
			agg = &weekAgg{
				invoices:  make(map[string]struct{}),
				customers: make(map[float64]struct{}),
			}
			weeks[label] = agg
		}

		if rec.InvoiceNo.Valid {
			agg.invoices[rec.InvoiceNo.Value] = struct{}{}
			agg.lines++
		}
		if rec.CustomerID.Valid {
			agg.customers[rec.CustomerID.Value] = struct{}{}
		}
		if rec.LineRevenue.Valid {
			agg.revenue.Add(rec.LineRevenue.Value)
		}
	}

	rows := make([]WeekRow, 0, len(weeks))
	for label, agg := range weeks {
		rows = append(rows, WeekRow{
			Week:      label,
			Invoices:  len(agg.invoices),
			Customers: len(agg.customers),
			Revenue:   agg.revenue.Float64(),
			Lines:     agg.lines,
		})
	}

	// Dated labels start with an ISO date, so string order is date order.
	sort.Slice(rows, func(i, j int) bool {
		if (rows[i].Week == UndatedWeek) != (rows[j].Week == UndatedWeek) {
			return rows[j].Week == UndatedWeek
		}
		return rows[i].Week < rows[j].Week
	})

	return rows
}

// WeekStart returns midnight of the Monday starting t's week.
func WeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// WeekLabel formats the week starting on monday as "monday/sunday".
func WeekLabel(monday time.Time) string {
	return monday.Format(weekLabelLayout) + "/" + monday.AddDate(0, 0, 6).Format(weekLabelLayout)
}

// =============================================================================
// TOP PRODUCTS
// =============================================================================

// ProductRow is one row of value_report_top_products.csv.
type ProductRow struct {
	StockCode   string
	Description string
	Revenue     float64
	Qty         float64
	Invoices    int
}

type productKey struct {
	stockCode   string
	description string
}

type productAgg struct {
	revenue  kpi.Sum
	qty      kpi.Sum
	invoices map[string]struct{}
}

// TopProducts ranks (StockCode, Description) pairs by revenue.
//
// PARAMETERS:
//   - table: The coerced table with LineRevenue filled in.
//   - n:     The number of products kept. Non-positive means DefaultTopProducts.
//
// RETURNS:
//   - At most n rows, highest revenue first. Equal revenues are ordered by
//     StockCode and then Description.
func TopProducts(table *types.Table, n int) []ProductRow {
	if n <= 0 {
		n = DefaultTopProducts
	}

	products := make(map[productKey]*productAgg)

	for i := range table.Records {
		rec := &table.Records[i]
		if !rec.StockCode.Valid || !rec.Description.Valid {
			continue
		}

		key := productKey{stockCode: rec.StockCode.Value, description: rec.Description.Value}
		agg, ok := products[key]
		if !ok {
			agg = &productAgg{invoices: make(map[string]struct{})}
			products[key] = agg
		}

		if rec.LineRevenue.Valid {
			agg.revenue.Add(rec.LineRevenue.Value)
		}
		if rec.Quantity.Valid {
			agg.qty.Add(rec.Quantity.Value)
		}
		if rec.InvoiceNo.Valid {
			agg.invoices[rec.InvoiceNo.Value] = struct{}{}
		}
	}

	rows := make([]ProductRow, 0, len(products))
	for key, agg := range products {
		rows = append(rows, ProductRow{
			StockCode:   key.stockCode,
			Description: key.description,
			Revenue:     agg.revenue.Float64(),
			Qty:         agg.qty.Float64(),
			Invoices:    len(agg.invoices),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Revenue != rows[j].Revenue {
			return rows[i].Revenue > rows[j].Revenue
		}
		if rows[i].StockCode != rows[j].StockCode {
			return rows[i].StockCode < rows[j].StockCode
		}
		return rows[i].Description < rows[j].Description
	})

	if len(rows) > n {
		rows = rows[:n]
	}
	return rows
}
