package core

import "github.com/shopspring/decimal"

// MonthlySummary aggregates income and expense for one year-month.
// Balance is always Income minus Expense.
type MonthlySummary struct {
	Year    int
	Month   int // 1-12
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
}

// CategoryTotal is the sum for one (category, type) pair within a month.
type CategoryTotal struct {
	Category string          `db:"category"`
	Type     TxType          `db:"type"`
	Total    decimal.Decimal `db:"total"`
}

// MonthPoint is one calendar month of the plotting series.
type MonthPoint struct {
	Label   string // YYYY-MM
	Income  decimal.Decimal
	Expense decimal.Decimal
}
