package service

import (
	"strings"
	"time"

	"github.com/finflow-app/finflow-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetService handles budget CRUD. Budgets are created and edited
// independently of transactions; only ledger operations move AmountSpent.
type BudgetService struct {
	budgetRepo domain.BudgetRepository
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(budgetRepo domain.BudgetRepository) *BudgetService {
	return &BudgetService{budgetRepo: budgetRepo}
}

// CreateBudgetInput holds the input for creating a budget
type CreateBudgetInput struct {
	Category     string
	BudgetAmount decimal.Decimal
	StartDate    time.Time
	EndDate      time.Time
}

// CreateBudget creates a new budget with a zero spent amount
func (s *BudgetService) CreateBudget(userID uuid.UUID, input CreateBudgetInput) (*domain.Budget, error) {
	category := strings.TrimSpace(input.Category)
	if category == "" || input.StartDate.IsZero() || input.EndDate.IsZero() {
		return nil, domain.ErrMissingFields
	}
	if len(category) > domain.MaxCategoryLength {
		return nil, domain.ErrInvalidInput
	}
	if !input.BudgetAmount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if input.EndDate.Before(input.StartDate) {
		return nil, domain.ErrInvalidInput
	}

	return s.budgetRepo.Create(&domain.Budget{
		UserID:       userID,
		Category:     category,
		BudgetAmount: input.BudgetAmount,
		AmountSpent:  decimal.Zero,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
	})
}

// GetBudgets retrieves all of a user's budgets
func (s *BudgetService) GetBudgets(userID uuid.UUID) ([]*domain.Budget, error) {
	return s.budgetRepo.GetAllByUser(userID)
}

// UpdateBudget replaces a budget's category, ceiling and date window
func (s *BudgetService) UpdateBudget(userID uuid.UUID, id int32, input CreateBudgetInput) (*domain.Budget, error) {
	category := strings.TrimSpace(input.Category)
	if category == "" || input.StartDate.IsZero() || input.EndDate.IsZero() {
		return nil, domain.ErrMissingFields
	}
	if !input.BudgetAmount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if input.EndDate.Before(input.StartDate) {
		return nil, domain.ErrInvalidInput
	}

	return s.budgetRepo.Update(userID, id, &domain.UpdateBudgetData{
		Category:     category,
		BudgetAmount: input.BudgetAmount,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
	})
}

// DeleteBudget removes a budget
func (s *BudgetService) DeleteBudget(userID uuid.UUID, id int32) error {
	return s.budgetRepo.Delete(userID, id)
}
