package domain

import "github.com/shopspring/decimal"

// MonthPoint is one bar of the dashboard's yearly chart.
type MonthPoint struct {
	Label   string          `json:"label"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// DashboardSummary aggregates a user's financial position.
type DashboardSummary struct {
	AvailableBalance decimal.Decimal `json:"availableBalance"`
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalExpense     decimal.Decimal `json:"totalExpense"`
	ChartData        []*MonthPoint   `json:"chartData"`
	LastTransactions []*Transaction  `json:"lastTransactions"`
	LastAccounts     []*Account      `json:"lastAccounts"`
}
