package service

import (
	"github.com/finflow-app/finflow-backend/internal/domain"
	"github.com/google/uuid"
)

// TransactionService handles transaction reads; mutations are the
// LedgerService's job.
type TransactionService struct {
	transactionRepo domain.TransactionRepository
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactionRepo domain.TransactionRepository) *TransactionService {
	return &TransactionService{transactionRepo: transactionRepo}
}

// SearchTransactions retrieves transactions matching the given filters.
// Missing dates default to the last seven days through now.
func (s *TransactionService) SearchTransactions(userID uuid.UUID, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	return s.transactionRepo.Search(userID, filters)
}

// GetTransactionByID retrieves one transaction, scoped to its owner
func (s *TransactionService) GetTransactionByID(userID uuid.UUID, id int32) (*domain.Transaction, error) {
	return s.transactionRepo.GetByID(userID, id)
}
