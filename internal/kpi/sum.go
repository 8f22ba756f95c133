package kpi

import (
	"math"

	"github.com/shopspring/decimal"
)

// Sum accumulates revenue exactly, so totals do not depend on row order.
//
// Non-finite inputs (possible only on float overflow of Quantity x UnitPrice)
// cannot be represented as decimals and are carried separately.
type Sum struct {
	total     decimal.Decimal
	nonFinite float64
}

// Add adds v to the sum.
func (s *Sum) Add(v float64) {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		s.nonFinite += v
		return
	}
	s.total = s.total.Add(decimal.NewFromFloat(v))
}

// Float64 returns the sum as the nearest float64.
func (s Sum) Float64() float64 {
	if s.nonFinite != 0 {
		return s.nonFinite
	}
	return s.total.InexactFloat64()
}

// Decimal returns the exact sum of the finite inputs.
func (s Sum) Decimal() decimal.Decimal {
	return s.total
}
