package utils

import (
	"github.com/shopspring/decimal"
)

// ComputeAmount returns hours * unitPrice rounded to cents.
func ComputeAmount(hours, unitPrice float64) float64 {
	amount := decimal.NewFromFloat(hours).Mul(decimal.NewFromFloat(unitPrice)).Round(2)
	f, _ := amount.Float64()
	return f
}

// Sum adds monetary values without accumulating float drift.
func Sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	f, _ := total.Round(2).Float64()
	return f
}

// Money accumulates monetary values as decimals.
type Money struct {
	total decimal.Decimal
}

// Add adds v to the running total.
func (m *Money) Add(v float64) {
	m.total = m.total.Add(decimal.NewFromFloat(v))
}

// Sub subtracts v from the running total.
func (m *Money) Sub(v float64) {
	m.total = m.total.Sub(decimal.NewFromFloat(v))
}

// Float64 returns the total rounded to cents.
func (m Money) Float64() float64 {
	f, _ := m.total.Round(2).Float64()
	return f
}
