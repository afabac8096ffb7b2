package service

import (
	"github.com/finflow-app/finflow-backend/internal/domain"
	"github.com/google/uuid"
)

// AccountService handles account reads; all account mutations go through
// the LedgerService so they stay inside an atomic unit.
type AccountService struct {
	accountRepo domain.AccountRepository
}

// NewAccountService creates a new AccountService
func NewAccountService(accountRepo domain.AccountRepository) *AccountService {
	return &AccountService{accountRepo: accountRepo}
}

// GetAccounts retrieves all of a user's accounts, newest first
func (s *AccountService) GetAccounts(userID uuid.UUID) ([]*domain.Account, error) {
	return s.accountRepo.GetAllByUser(userID)
}

// GetAccountByID retrieves one account, scoped to its owner
func (s *AccountService) GetAccountByID(userID uuid.UUID, id int32) (*domain.Account, error) {
	return s.accountRepo.GetByID(userID, id)
}
