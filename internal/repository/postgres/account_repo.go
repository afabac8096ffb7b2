package postgres

import (
	"context"
	"errors"

	"github.com/finflow-app/finflow-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountColumns = `id, user_id, account_number, account_name, account_type, balance, status, created_at, updated_at`

// AccountRepository implements domain.AccountRepository using PostgreSQL
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// GetByID retrieves an account by its ID, scoped to its owner
func (r *AccountRepository) GetByID(userID uuid.UUID, id int32) (*domain.Account, error) {
	return r.getOne(`SELECT `+accountColumns+` FROM accounts WHERE id = $2 AND user_id = $1`, pgUUID(userID), id)
}

// GetByNumber retrieves an account by its number, scoped to its owner
func (r *AccountRepository) GetByNumber(userID uuid.UUID, accountNumber string) (*domain.Account, error) {
	return r.getOne(`SELECT `+accountColumns+` FROM accounts WHERE user_id = $1 AND account_number = $2`, pgUUID(userID), accountNumber)
}

// GetAllByUser retrieves all accounts for a user, newest first
func (r *AccountRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Account, error) {
	return r.getMany(`SELECT `+accountColumns+` FROM accounts WHERE user_id = $1 ORDER BY created_at DESC`, pgUUID(userID))
}

// Recent retrieves the most recently created accounts for a user
func (r *AccountRepository) Recent(userID uuid.UUID, limit int32) ([]*domain.Account, error) {
	return r.getMany(`SELECT `+accountColumns+` FROM accounts WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`, pgUUID(userID), limit)
}

func (r *AccountRepository) getOne(query string, args ...any) (*domain.Account, error) {
	account, err := scanAccount(r.pool.QueryRow(context.Background(), query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

func (r *AccountRepository) getMany(query string, args ...any) ([]*domain.Account, error) {
	rows, err := r.pool.Query(context.Background(), query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	var (
		a                    domain.Account
		userID               pgtype.UUID
		accountType, status  string
		balance              pgtype.Numeric
		createdAt, updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&a.ID, &userID, &a.AccountNumber, &a.Name, &accountType, &balance, &status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	a.UserID = uuid.UUID(userID.Bytes)
	a.Type = domain.AccountType(accountType)
	a.Balance = pgNumericToDecimal(balance)
	a.Status = domain.AccountStatus(status)
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time
	return &a, nil
}
