package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/finflow-app/finflow-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerService coordinates every mutation that touches an account balance,
// a budget's spent amount and a transaction record together. Each use case
// runs inside a single atomic unit: the unit handle is obtained once,
// passed through every sub-operation, and committed or rolled back on every
// exit path. If any sub-write fails, nothing persists.
type LedgerService struct {
	ledger          domain.LedgerRepository
	accountRepo     domain.AccountRepository
	transactionRepo domain.TransactionRepository
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(ledger domain.LedgerRepository, accountRepo domain.AccountRepository, transactionRepo domain.TransactionRepository) *LedgerService {
	return &LedgerService{
		ledger:          ledger,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
	}
}

// OpenAccountInput holds the input for creating an account
type OpenAccountInput struct {
	Name           string
	AccountNumber  string
	Type           domain.AccountType
	OpeningBalance decimal.Decimal
}

// OpenAccount creates an account and, when the opening balance is positive,
// records the opening deposit as an income transaction in the same unit.
func (s *LedgerService) OpenAccount(ctx context.Context, userID uuid.UUID, input OpenAccountInput) (*domain.Account, error) {
	name := strings.TrimSpace(input.Name)
	number := strings.TrimSpace(input.AccountNumber)
	if name == "" || number == "" {
		return nil, domain.ErrMissingFields
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrInvalidInput
	}
	if !input.Type.Valid() {
		return nil, domain.ErrInvalidAccountType
	}
	if input.OpeningBalance.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	if _, err := s.accountRepo.GetByNumber(userID, number); err == nil {
		return nil, domain.ErrDuplicateAccountNumber
	} else if err != domain.ErrAccountNotFound {
		return nil, err
	}

	unit, err := s.ledger.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer unit.Rollback(ctx)

	account, err := unit.CreateAccount(ctx, &domain.Account{
		UserID:        userID,
		AccountNumber: number,
		Name:          name,
		Type:          input.Type,
		Balance:       input.OpeningBalance,
		Status:        domain.AccountStatusActive,
	})
	if err != nil {
		return nil, err
	}

	if input.OpeningBalance.IsPositive() {
		_, err = unit.CreateTransaction(ctx, &domain.Transaction{
			UserID:      userID,
			AccountID:   account.ID,
			Description: name + " (Initial Deposit)",
			Source:      name,
			Amount:      input.OpeningBalance,
			Type:        domain.TransactionTypeIncome,
			Status:      domain.TransactionStatusCompleted,
		})
		if err != nil {
			return nil, err
		}
	}

	if err := unit.Commit(ctx); err != nil {
		return nil, err
	}
	return account, nil
}

// DepositResult holds the updated account and the deposit's transaction
type DepositResult struct {
	Account     *domain.Account
	Transaction *domain.Transaction
}

// Deposit adds money to an account and records the matching income
// transaction. Deposits are uncategorized, so no budget is touched.
func (s *LedgerService) Deposit(ctx context.Context, userID uuid.UUID, accountID int32, amount decimal.Decimal) (*DepositResult, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	account, err := s.accountRepo.GetByID(userID, accountID)
	if err != nil {
		return nil, err
	}

	unit, err := s.ledger.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer unit.Rollback(ctx)

	newBalance, err := unit.AdjustBalance(ctx, userID, accountID, amount)
	if err != nil {
		return nil, err
	}

	transaction, err := unit.CreateTransaction(ctx, &domain.Transaction{
		UserID:      userID,
		AccountID:   accountID,
		Description: account.Name + " (Deposit)",
		Source:      account.Name,
		Amount:      amount,
		Type:        domain.TransactionTypeIncome,
		Status:      domain.TransactionStatusCompleted,
	})
	if err != nil {
		return nil, err
	}

	if err := unit.Commit(ctx); err != nil {
		return nil, err
	}

	account.Balance = newBalance
	return &DepositResult{Account: account, Transaction: transaction}, nil
}

// ExpenseInput holds the input for recording an expense
type ExpenseInput struct {
	AccountID   int32
	Description string
	Source      string
	Category    string
	Amount      decimal.Decimal
}

// RecordExpense debits an account, records the expense transaction and
// bumps the matching budget's spent amount, all in one unit.
func (s *LedgerService) RecordExpense(ctx context.Context, userID uuid.UUID, input ExpenseInput) (*domain.Transaction, error) {
	description := strings.TrimSpace(input.Description)
	source := strings.TrimSpace(input.Source)
	category := strings.TrimSpace(input.Category)
	if description == "" || source == "" || category == "" {
		return nil, domain.ErrMissingFields
	}
	if len(description) > domain.MaxDescriptionLength || len(category) > domain.MaxCategoryLength {
		return nil, domain.ErrInvalidInput
	}
	if !input.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	account, err := s.accountRepo.GetByID(userID, input.AccountID)
	if err != nil {
		return nil, err
	}
	if account.Balance.LessThan(input.Amount) {
		return nil, domain.ErrInsufficientFunds
	}

	unit, err := s.ledger.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer unit.Rollback(ctx)

	if _, err := unit.AdjustBalance(ctx, userID, input.AccountID, domain.TransactionTypeExpense.Delta(input.Amount)); err != nil {
		return nil, err
	}

	transaction, err := unit.CreateTransaction(ctx, &domain.Transaction{
		UserID:      userID,
		AccountID:   input.AccountID,
		Description: description,
		Source:      source,
		Category:    category,
		Amount:      input.Amount,
		Type:        domain.TransactionTypeExpense,
		Status:      domain.TransactionStatusCompleted,
	})
	if err != nil {
		return nil, err
	}

	if err := unit.AdjustBudgetSpent(ctx, userID, category, input.Amount); err != nil {
		return nil, err
	}

	if err := unit.Commit(ctx); err != nil {
		return nil, err
	}
	return transaction, nil
}

// EditTransactionInput holds the replacement fields for editing a transaction
type EditTransactionInput struct {
	AccountID   int32
	Description string
	Source      string
	Category    string
	Amount      decimal.Decimal
	Type        domain.TransactionType
	Status      domain.TransactionStatus
}

// EditTransaction reverses the old transaction's effect, applies the new
// one, and updates the record, all in one unit. Old and new accounts may
// differ; both are adjusted.
func (s *LedgerService) EditTransaction(ctx context.Context, userID uuid.UUID, id int32, input EditTransactionInput) (*domain.Transaction, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, domain.ErrMissingFields
	}
	if !input.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if !input.Type.Valid() {
		return nil, domain.ErrInvalidTransactionType
	}
	if !input.Status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	old, err := s.transactionRepo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.accountRepo.GetByID(userID, input.AccountID); err != nil {
		return nil, err
	}

	unit, err := s.ledger.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer unit.Rollback(ctx)

	// Reverse the old effect before applying the new one.
	if err := s.reverse(ctx, unit, old); err != nil {
		return nil, err
	}

	if _, err := unit.AdjustBalance(ctx, userID, input.AccountID, input.Type.Delta(input.Amount)); err != nil {
		return nil, err
	}
	if input.Type == domain.TransactionTypeExpense {
		if err := unit.AdjustBudgetSpent(ctx, userID, strings.TrimSpace(input.Category), input.Amount); err != nil {
			return nil, err
		}
	}

	updated, err := unit.UpdateTransaction(ctx, userID, id, &domain.UpdateTransactionData{
		AccountID:   input.AccountID,
		Description: description,
		Source:      strings.TrimSpace(input.Source),
		Category:    strings.TrimSpace(input.Category),
		Amount:      input.Amount,
		Type:        input.Type,
		Status:      input.Status,
	})
	if err != nil {
		return nil, err
	}

	if err := unit.Commit(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteTransaction reverses a transaction's effect and removes the record
// in one unit.
func (s *LedgerService) DeleteTransaction(ctx context.Context, userID uuid.UUID, id int32) error {
	old, err := s.transactionRepo.GetByID(userID, id)
	if err != nil {
		return err
	}

	unit, err := s.ledger.Begin(ctx)
	if err != nil {
		return err
	}
	defer unit.Rollback(ctx)

	if err := s.reverse(ctx, unit, old); err != nil {
		return err
	}
	if err := unit.DeleteTransaction(ctx, userID, id); err != nil {
		return err
	}

	return unit.Commit(ctx)
}

// reverse undoes a transaction's balance effect and, for expenses, its
// budget effect, within the given unit.
func (s *LedgerService) reverse(ctx context.Context, unit domain.LedgerUnit, old *domain.Transaction) error {
	if _, err := unit.AdjustBalance(ctx, old.UserID, old.AccountID, old.Type.Delta(old.Amount).Neg()); err != nil {
		return err
	}
	if old.Type == domain.TransactionTypeExpense {
		return unit.AdjustBudgetSpent(ctx, old.UserID, old.Category, old.Amount.Neg())
	}
	return nil
}

// TransferInput holds the input for a transfer between two accounts
type TransferInput struct {
	FromAccountID int32
	ToAccountID   int32
	Amount        decimal.Decimal
}

// Transfer moves money between two of the caller's accounts, recording an
// expense leg on the source and an income leg on the destination, linked by
// a shared pair ID. Transfers carry no category, so budgets are untouched.
func (s *LedgerService) Transfer(ctx context.Context, userID uuid.UUID, input TransferInput) (*domain.TransferResult, error) {
	if input.FromAccountID == input.ToAccountID {
		return nil, domain.ErrSameAccountTransfer
	}
	if !input.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	from, err := s.accountRepo.GetByID(userID, input.FromAccountID)
	if err != nil {
		return nil, err
	}
	to, err := s.accountRepo.GetByID(userID, input.ToAccountID)
	if err != nil {
		return nil, err
	}
	if from.Balance.LessThan(input.Amount) {
		return nil, domain.ErrInsufficientFunds
	}

	unit, err := s.ledger.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer unit.Rollback(ctx)

	if _, err := unit.AdjustBalance(ctx, userID, from.ID, input.Amount.Neg()); err != nil {
		return nil, err
	}
	if _, err := unit.AdjustBalance(ctx, userID, to.ID, input.Amount); err != nil {
		return nil, err
	}

	pairID := uuid.New()

	fromTx, err := unit.CreateTransaction(ctx, &domain.Transaction{
		UserID:         userID,
		AccountID:      from.ID,
		Description:    fmt.Sprintf("Transfer to %s", to.Name),
		Source:         from.Name,
		Amount:         input.Amount,
		Type:           domain.TransactionTypeExpense,
		Status:         domain.TransactionStatusCompleted,
		TransferPairID: &pairID,
	})
	if err != nil {
		return nil, err
	}

	toTx, err := unit.CreateTransaction(ctx, &domain.Transaction{
		UserID:         userID,
		AccountID:      to.ID,
		Description:    fmt.Sprintf("Received from %s", from.Name),
		Source:         to.Name,
		Amount:         input.Amount,
		Type:           domain.TransactionTypeIncome,
		Status:         domain.TransactionStatusCompleted,
		TransferPairID: &pairID,
	})
	if err != nil {
		return nil, err
	}

	if err := unit.Commit(ctx); err != nil {
		return nil, err
	}

	return &domain.TransferResult{FromTransaction: fromTx, ToTransaction: toTx}, nil
}
