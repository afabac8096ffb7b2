package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Budget caps spending for one category. AmountSpent is a running total
// maintained by the ledger as matching expense transactions come and go;
// matching is by (owner, category) label equality.
type Budget struct {
	ID           int32           `json:"id"`
	UserID       uuid.UUID       `json:"userId"`
	Category     string          `json:"category"`
	BudgetAmount decimal.Decimal `json:"budgetAmount"`
	AmountSpent  decimal.Decimal `json:"amountSpent"`
	StartDate    time.Time       `json:"startDate"`
	EndDate      time.Time       `json:"endDate"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// UpdateBudgetData holds the replacement fields for a budget update.
// AmountSpent is never set directly; only ledger operations move it.
type UpdateBudgetData struct {
	Category     string
	BudgetAmount decimal.Decimal
	StartDate    time.Time
	EndDate      time.Time
}

type BudgetRepository interface {
	Create(budget *Budget) (*Budget, error)
	GetByID(userID uuid.UUID, id int32) (*Budget, error)
	GetByCategory(userID uuid.UUID, category string) (*Budget, error)
	GetAllByUser(userID uuid.UUID) ([]*Budget, error)
	Update(userID uuid.UUID, id int32, data *UpdateBudgetData) (*Budget, error)
	Delete(userID uuid.UUID, id int32) error
}
