package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerUnit is the handle for one atomic group of ledger writes. A unit is
// obtained from LedgerRepository.Begin and must be finished with exactly one
// Commit or Rollback; until Commit, none of its writes are visible to other
// readers. Callers pass the handle explicitly through every sub-operation.
//
// Balance and spent-amount adjustments are server-side increments, so two
// concurrent units touching the same account or budget cannot lose updates.
type LedgerUnit interface {
	// CreateAccount inserts a new account owned by account.UserID.
	CreateAccount(ctx context.Context, account *Account) (*Account, error)

	// AdjustBalance applies balance += delta to the owner's account and
	// returns the new balance. Fails with ErrAccountNotFound if the account
	// does not exist or is not owned by userID.
	AdjustBalance(ctx context.Context, userID uuid.UUID, accountID int32, delta decimal.Decimal) (decimal.Decimal, error)

	// AdjustBudgetSpent applies amountSpent += delta to the budget matching
	// (userID, category). A missing budget is a no-op, not an error; budgets
	// are optional per category.
	AdjustBudgetSpent(ctx context.Context, userID uuid.UUID, category string, delta decimal.Decimal) error

	CreateTransaction(ctx context.Context, transaction *Transaction) (*Transaction, error)
	UpdateTransaction(ctx context.Context, userID uuid.UUID, id int32, data *UpdateTransactionData) (*Transaction, error)
	DeleteTransaction(ctx context.Context, userID uuid.UUID, id int32) error

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type LedgerRepository interface {
	Begin(ctx context.Context) (LedgerUnit, error)
}
