package postgres

import (
	"context"
	"errors"

	"github.com/finflow-app/finflow-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// LedgerRepository implements domain.LedgerRepository using PostgreSQL.
// Every unit it hands out is one pgx transaction; balance and spent-amount
// moves are server-side increments so concurrent units cannot lose updates.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// Begin starts a new atomic unit
func (r *LedgerRepository) Begin(ctx context.Context) (domain.LedgerUnit, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &ledgerUnit{tx: tx}, nil
}

type ledgerUnit struct {
	tx pgx.Tx
}

func (u *ledgerUnit) CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	balance, err := decimalToPgNumeric(account.Balance)
	if err != nil {
		return nil, err
	}
	created, err := scanAccount(u.tx.QueryRow(ctx, `
		INSERT INTO accounts (user_id, account_number, account_name, account_type, balance, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+accountColumns,
		pgUUID(account.UserID), account.AccountNumber, account.Name, string(account.Type), balance, string(account.Status)))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrDuplicateAccountNumber
		}
		return nil, err
	}
	return created, nil
}

func (u *ledgerUnit) AdjustBalance(ctx context.Context, userID uuid.UUID, accountID int32, delta decimal.Decimal) (decimal.Decimal, error) {
	amount, err := decimalToPgNumeric(delta)
	if err != nil {
		return decimal.Zero, err
	}

	var balance pgtype.Numeric
	err = u.tx.QueryRow(ctx, `
		UPDATE accounts SET balance = balance + $3, updated_at = NOW()
		WHERE id = $2 AND user_id = $1
		RETURNING balance`,
		pgUUID(userID), accountID, amount).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrAccountNotFound
		}
		return decimal.Zero, err
	}
	return pgNumericToDecimal(balance), nil
}

func (u *ledgerUnit) AdjustBudgetSpent(ctx context.Context, userID uuid.UUID, category string, delta decimal.Decimal) error {
	amount, err := decimalToPgNumeric(delta)
	if err != nil {
		return err
	}

	// Zero rows means no budget tracks this category; that is fine.
	_, err = u.tx.Exec(ctx, `
		UPDATE budgets SET amount_spent = amount_spent + $3, updated_at = NOW()
		WHERE user_id = $1 AND category = $2`,
		pgUUID(userID), category, amount)
	return err
}

func (u *ledgerUnit) CreateTransaction(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, err
	}

	var pairID pgtype.UUID
	if transaction.TransferPairID != nil {
		pairID = pgUUID(*transaction.TransferPairID)
	}

	return scanTransaction(u.tx.QueryRow(ctx, `
		INSERT INTO transactions (user_id, account_id, description, source, category, amount, type, status, receipt_url, transfer_pair_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+transactionColumns,
		pgUUID(transaction.UserID), transaction.AccountID, transaction.Description, transaction.Source,
		transaction.Category, amount, string(transaction.Type), string(transaction.Status),
		transaction.ReceiptURL, pairID))
}

func (u *ledgerUnit) UpdateTransaction(ctx context.Context, userID uuid.UUID, id int32, data *domain.UpdateTransactionData) (*domain.Transaction, error) {
	amount, err := decimalToPgNumeric(data.Amount)
	if err != nil {
		return nil, err
	}

	updated, err := scanTransaction(u.tx.QueryRow(ctx, `
		UPDATE transactions
		SET account_id = $3, description = $4, source = $5, category = $6, amount = $7, type = $8, status = $9, updated_at = NOW()
		WHERE id = $2 AND user_id = $1
		RETURNING `+transactionColumns,
		pgUUID(userID), id, data.AccountID, data.Description, data.Source, data.Category,
		amount, string(data.Type), string(data.Status)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (u *ledgerUnit) DeleteTransaction(ctx context.Context, userID uuid.UUID, id int32) error {
	cmd, err := u.tx.Exec(ctx, `DELETE FROM transactions WHERE id = $2 AND user_id = $1`, pgUUID(userID), id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func (u *ledgerUnit) Commit(ctx context.Context) error {
	return u.tx.Commit(ctx)
}

// Rollback aborts the unit. After a successful Commit it is a no-op, so
// callers can defer it unconditionally.
func (u *ledgerUnit) Rollback(ctx context.Context) error {
	err := u.tx.Rollback(ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}
	return nil
}
