package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Valid reports whether t is one of the two transaction types.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Delta returns the signed balance effect of a transaction of this type:
// positive for income, negative for expense. The sign is decided here, once,
// so callers never branch on the type string themselves.
func (t TransactionType) Delta(amount decimal.Decimal) decimal.Decimal {
	if t == TransactionTypeIncome {
		return amount
	}
	return amount.Neg()
}

type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "Completed"
	TransactionStatusPending   TransactionStatus = "Pending"
	TransactionStatusFailed    TransactionStatus = "Failed"
)

// Valid reports whether s is a known transaction status.
func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionStatusCompleted, TransactionStatusPending, TransactionStatusFailed:
		return true
	}
	return false
}

type Transaction struct {
	ID             int32             `json:"id"`
	UserID         uuid.UUID         `json:"userId"`
	AccountID      int32             `json:"accountId"`
	Description    string            `json:"description"`
	Source         string            `json:"source"`
	Category       string            `json:"category,omitempty"`
	Amount         decimal.Decimal   `json:"amount"`
	Type           TransactionType   `json:"type"`
	Status         TransactionStatus `json:"status"`
	ReceiptURL     *string           `json:"receiptUrl,omitempty"`
	TransferPairID *uuid.UUID        `json:"transferPairId,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// UpdateTransactionData holds the replacement fields applied by an edit.
type UpdateTransactionData struct {
	AccountID   int32
	Description string
	Source      string
	Category    string
	Amount      decimal.Decimal
	Type        TransactionType
	Status      TransactionStatus
}

// TransactionFilters narrows a transaction search. Zero dates mean the
// default window (last seven days through now); an empty search matches all.
type TransactionFilters struct {
	StartDate time.Time
	EndDate   time.Time
	Search    string
}

// MonthlyTotal is one month's income/expense aggregate.
type MonthlyTotal struct {
	Month   int
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// TransferResult holds both legs of a completed transfer.
type TransferResult struct {
	FromTransaction *Transaction `json:"fromTransaction"`
	ToTransaction   *Transaction `json:"toTransaction"`
}

type TransactionRepository interface {
	GetByID(userID uuid.UUID, id int32) (*Transaction, error)
	Search(userID uuid.UUID, filters *TransactionFilters) ([]*Transaction, error)
	Recent(userID uuid.UUID, limit int32) ([]*Transaction, error)
	SumByType(userID uuid.UUID) (income, expense decimal.Decimal, err error)
	MonthlyTotals(userID uuid.UUID, year int) ([]*MonthlyTotal, error)
}
