package service

import (
	"time"

	"github.com/finflow-app/finflow-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	dashboardRecentTransactions = 5
	dashboardRecentAccounts     = 4
)

// DashboardService assembles the aggregate view of a user's finances.
type DashboardService struct {
	accountRepo     domain.AccountRepository
	transactionRepo domain.TransactionRepository
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(accountRepo domain.AccountRepository, transactionRepo domain.TransactionRepository) *DashboardService {
	return &DashboardService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
	}
}

// GetSummary returns all-time totals, the current year's monthly chart and
// the most recent transactions and accounts.
func (s *DashboardService) GetSummary(userID uuid.UUID) (*domain.DashboardSummary, error) {
	totalIncome, totalExpense, err := s.transactionRepo.SumByType(userID)
	if err != nil {
		return nil, err
	}

	year := time.Now().UTC().Year()
	monthlyTotals, err := s.transactionRepo.MonthlyTotals(userID, year)
	if err != nil {
		return nil, err
	}

	chartData := make([]*domain.MonthPoint, 12)
	for i := range chartData {
		chartData[i] = &domain.MonthPoint{
			Label:   time.Month(i + 1).String(),
			Income:  decimal.Zero,
			Expense: decimal.Zero,
		}
	}
	for _, t := range monthlyTotals {
		if t.Month >= 1 && t.Month <= 12 {
			chartData[t.Month-1].Income = t.Income
			chartData[t.Month-1].Expense = t.Expense
		}
	}

	lastTransactions, err := s.transactionRepo.Recent(userID, dashboardRecentTransactions)
	if err != nil {
		return nil, err
	}
	lastAccounts, err := s.accountRepo.Recent(userID, dashboardRecentAccounts)
	if err != nil {
		return nil, err
	}

	return &domain.DashboardSummary{
		AvailableBalance: totalIncome.Sub(totalExpense),
		TotalIncome:      totalIncome,
		TotalExpense:     totalExpense,
		ChartData:        chartData,
		LastTransactions: lastTransactions,
		LastAccounts:     lastAccounts,
	}, nil
}
