package domain

import (
	"fmt"

	"equipos-backend/internal/utils"
)

// StatsFilter selects the dashboard period. Month 0 means the whole year.
type StatsFilter struct {
	Year        int
	Month       int
	EquipmentID string
}

// Range returns the inclusive date bounds of the period.
func (s StatsFilter) Range() (string, string, error) {
	if s.Year <= 0 {
		return "", "", fmt.Errorf("year is required")
	}
	if s.Month == 0 {
		start, end := utils.YearRange(s.Year)
		return start, end, nil
	}
	return utils.MonthRange(s.Year, s.Month)
}

// DashboardStats aggregates a period. UnpaidBalance is not scoped by the
// period: it is the total owed across every unpaid rental.
type DashboardStats struct {
	Income           float64  `json:"ingresos"`
	Expense          float64  `json:"gastos"`
	EquipmentExpense float64  `json:"gastos_equipos"`
	OperatorPayments float64  `json:"pagos_operadores"`
	Profit           float64  `json:"utilidad"`
	UnpaidBalance    float64  `json:"saldo_pendiente"`
	ActiveEquipment  int      `json:"equipos_activos"`
	IncomeRecords    []Rental `json:"alquileres"`
}

// Debt is a client's balance over a date range.
type Debt struct {
	Invoiced float64 `json:"facturado"`
	Paid     float64 `json:"abonado"`
	Balance  float64 `json:"saldo"`
}

// NewDebt computes the balance from its two totals.
func NewDebt(invoiced, paid float64) Debt {
	var m utils.Money
	m.Add(invoiced)
	m.Sub(paid)
	return Debt{Invoiced: invoiced, Paid: paid, Balance: m.Float64()}
}

// Ranking is a named value used for top-N dashboard entries.
type Ranking struct {
	ID    string  `json:"id"`
	Name  string  `json:"nombre"`
	Value float64 `json:"valor"`
}

// Dashboard is the stats of a period plus the leaders derived from its income records.
type Dashboard struct {
	Stats        DashboardStats `json:"estadisticas"`
	TopEquipment *Ranking       `json:"equipo_top,omitempty"`
	TopOperator  *Ranking       `json:"operador_top,omitempty"`
}

// EquipmentPerformance summarizes the economics of one equipment over a range.
type EquipmentPerformance struct {
	EquipmentID      string  `json:"equipo_id"`
	Name             string  `json:"nombre"`
	Start            string  `json:"start,omitempty"`
	End              string  `json:"end,omitempty"`
	Rentals          int     `json:"alquileres"`
	Hours            float64 `json:"horas"`
	Income           float64 `json:"ingresos"`
	Expenses         float64 `json:"gastos"`
	OperatorHours    float64 `json:"horas_operador"`
	OperatorPayments float64 `json:"pagos_operadores"`
	Maintenance      float64 `json:"mantenimientos"`
	Net              float64 `json:"neto"`
	// Margin is Net as a percentage of Income, 0 without income.
	Margin float64 `json:"margen_porcentaje"`
}
