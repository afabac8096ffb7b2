package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/finflow-app/finflow-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const transactionColumns = `id, user_id, account_id, description, source, category, amount, type, status, receipt_url, transfer_pair_id, created_at, updated_at`

// TransactionRepository implements domain.TransactionRepository using
// PostgreSQL. It is read-only: all transaction writes go through the
// LedgerRepository so they stay inside an atomic unit.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// GetByID retrieves a transaction by its ID, scoped to its owner
func (r *TransactionRepository) GetByID(userID uuid.UUID, id int32) (*domain.Transaction, error) {
	transaction, err := scanTransaction(r.pool.QueryRow(context.Background(),
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $2 AND user_id = $1`, pgUUID(userID), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return transaction, nil
}

// Search retrieves transactions within a date window whose description,
// status, source or category matches the search term. Zero dates fall back
// to the default window (last seven days through now).
func (r *TransactionRepository) Search(userID uuid.UUID, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	startDate, endDate, search := searchWindow(filters)

	return r.getMany(`
		SELECT `+transactionColumns+` FROM transactions
		WHERE user_id = $1
		  AND created_at >= $2 AND created_at <= $3
		  AND ($4 = '' OR description ILIKE '%' || $4 || '%' OR status ILIKE '%' || $4 || '%'
		       OR source ILIKE '%' || $4 || '%' OR category ILIKE '%' || $4 || '%')
		ORDER BY created_at DESC`,
		pgUUID(userID), startDate, endDate, search)
}

// Recent retrieves the most recent transactions for a user
func (r *TransactionRepository) Recent(userID uuid.UUID, limit int32) ([]*domain.Transaction, error) {
	return r.getMany(`SELECT `+transactionColumns+` FROM transactions WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
		pgUUID(userID), limit)
}

// SumByType returns the all-time income and expense totals for a user
func (r *TransactionRepository) SumByType(userID uuid.UUID) (decimal.Decimal, decimal.Decimal, error) {
	var income, expense pgtype.Numeric
	err := r.pool.QueryRow(context.Background(), `
		SELECT COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0),
		       COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0)
		FROM transactions WHERE user_id = $1`, pgUUID(userID)).Scan(&income, &expense)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return pgNumericToDecimal(income), pgNumericToDecimal(expense), nil
}

// MonthlyTotals returns per-month income/expense totals for one calendar year
func (r *TransactionRepository) MonthlyTotals(userID uuid.UUID, year int) ([]*domain.MonthlyTotal, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT EXTRACT(MONTH FROM created_at)::int AS month,
		       COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0),
		       COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0)
		FROM transactions
		WHERE user_id = $1 AND EXTRACT(YEAR FROM created_at) = $2
		GROUP BY month
		ORDER BY month`, pgUUID(userID), year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []*domain.MonthlyTotal
	for rows.Next() {
		var (
			t               domain.MonthlyTotal
			income, expense pgtype.Numeric
		)
		if err := rows.Scan(&t.Month, &income, &expense); err != nil {
			return nil, err
		}
		t.Income = pgNumericToDecimal(income)
		t.Expense = pgNumericToDecimal(expense)
		totals = append(totals, &t)
	}
	return totals, rows.Err()
}

func (r *TransactionRepository) getMany(query string, args ...any) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(context.Background(), query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}
	return transactions, rows.Err()
}

func searchWindow(filters *domain.TransactionFilters) (time.Time, time.Time, string) {
	now := time.Now().UTC()
	startDate := now.AddDate(0, 0, -7)
	endDate := now
	search := ""
	if filters != nil {
		if !filters.StartDate.IsZero() {
			startDate = filters.StartDate
		}
		if !filters.EndDate.IsZero() {
			endDate = filters.EndDate
		}
		search = filters.Search
	}
	return startDate, endDate, search
}

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var (
		t                    domain.Transaction
		userID               pgtype.UUID
		amount               pgtype.Numeric
		txType, status       string
		receiptURL           pgtype.Text
		pairID               pgtype.UUID
		createdAt, updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&t.ID, &userID, &t.AccountID, &t.Description, &t.Source, &t.Category,
		&amount, &txType, &status, &receiptURL, &pairID, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	t.UserID = uuid.UUID(userID.Bytes)
	t.Amount = pgNumericToDecimal(amount)
	t.Type = domain.TransactionType(txType)
	t.Status = domain.TransactionStatus(status)
	if receiptURL.Valid {
		t.ReceiptURL = &receiptURL.String
	}
	if pairID.Valid {
		id := uuid.UUID(pairID.Bytes)
		t.TransferPairID = &id
	}
	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time
	return &t, nil
}
