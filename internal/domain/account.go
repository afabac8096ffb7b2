package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AccountType string
type AccountStatus string

const (
	AccountTypeBank       AccountType = "bank"
	AccountTypeCash       AccountType = "cash"
	AccountTypeCredit     AccountType = "credit"
	AccountTypeInvestment AccountType = "investment"
)

const (
	AccountStatusActive   AccountStatus = "active"
	AccountStatusInactive AccountStatus = "inactive"
)

// Valid reports whether t is one of the supported account types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeBank, AccountTypeCash, AccountTypeCredit, AccountTypeInvestment:
		return true
	}
	return false
}

type Account struct {
	ID            int32           `json:"id"`
	UserID        uuid.UUID       `json:"userId"`
	AccountNumber string          `json:"accountNumber"`
	Name          string          `json:"accountName"`
	Type          AccountType     `json:"accountType"`
	Balance       decimal.Decimal `json:"balance"`
	Status        AccountStatus   `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type AccountRepository interface {
	GetByID(userID uuid.UUID, id int32) (*Account, error)
	GetByNumber(userID uuid.UUID, accountNumber string) (*Account, error)
	GetAllByUser(userID uuid.UUID) ([]*Account, error)
	Recent(userID uuid.UUID, limit int32) ([]*Account, error)
}
