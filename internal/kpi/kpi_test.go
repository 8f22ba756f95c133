package kpi

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olzhaszz/business-data-validation-toolkit/internal/types"
)

func line(invoice string, customer float64, country string, revenue float64) types.Transaction {
	rec := types.Transaction{
		LineRevenue: types.NullFloat{Value: revenue, Valid: true},
	}
	if invoice != "" {
		rec.InvoiceNo = types.NullString{Value: invoice, Valid: true}
	}
	if customer != 0 {
		rec.CustomerID = types.NullFloat{Value: customer, Valid: true}
	}
	if country != "" {
		rec.Country = types.NullString{Value: country, Valid: true}
	}
	return rec
}

func TestCompute(t *testing.T) {
	noRevenue := line("C", 3, "France", 0)
	noRevenue.LineRevenue = types.NullFloat{}

	table := &types.Table{Records: []types.Transaction{
		line("A", 1, "United Kingdom", 10),
		line("A", 1, "United Kingdom", 5),
		line("B", 2, "France", 3),
		noRevenue,
		line("", 0, "", 7),
	}}

	got := Compute(table)

	assert.Equal(t, 5, got.Rows)
	assert.Equal(t, 3, got.UniqueInvoices)
	assert.Equal(t, 3, got.UniqueCustomers)
	assert.Equal(t, 2, got.Countries)
	assert.Equal(t, 25.0, got.GrossRevenue)
	require.True(t, got.AvgOrderValue.Valid)
	// Orders: A=15, B=3, C=0.
	assert.Equal(t, 6.0, got.AvgOrderValue.Value)
}

func TestCompute_EmptyTable(t *testing.T) {
	got := Compute(&types.Table{})

	assert.Equal(t, Summary{}, got)
	assert.False(t, got.AvgOrderValue.Valid)
}

func TestCompute_SumIsExact(t *testing.T) {
	table := &types.Table{Records: []types.Transaction{
		line("A", 1, "UK", 0.1),
		line("A", 1, "UK", 0.2),
	}}

	got := Compute(table)

	assert.Equal(t, 0.3, got.GrossRevenue)
	assert.Equal(t, 0.3, got.AvgOrderValue.Value)
}

func TestSum(t *testing.T) {
	var s Sum
	assert.Equal(t, 0.0, s.Float64())

	s.Add(1.5)
	s.Add(-0.25)
	assert.Equal(t, 1.25, s.Float64())
	assert.Equal(t, "1.25", s.Decimal().String())

	s.Add(math.Inf(1))
	assert.True(t, math.IsInf(s.Float64(), 1))
}
