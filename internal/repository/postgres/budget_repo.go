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

const budgetColumns = `id, user_id, category, budget_amount, amount_spent, start_date, end_date, created_at, updated_at`

// BudgetRepository implements domain.BudgetRepository using PostgreSQL
type BudgetRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetRepository creates a new BudgetRepository
func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

// Create inserts a new budget with amount_spent starting at zero
func (r *BudgetRepository) Create(budget *domain.Budget) (*domain.Budget, error) {
	amount, err := decimalToPgNumeric(budget.BudgetAmount)
	if err != nil {
		return nil, err
	}
	return r.getOne(`
		INSERT INTO budgets (user_id, category, budget_amount, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+budgetColumns,
		pgUUID(budget.UserID), budget.Category, amount, budget.StartDate, budget.EndDate)
}

// GetByID retrieves a budget by its ID, scoped to its owner
func (r *BudgetRepository) GetByID(userID uuid.UUID, id int32) (*domain.Budget, error) {
	return r.getOne(`SELECT `+budgetColumns+` FROM budgets WHERE id = $2 AND user_id = $1`, pgUUID(userID), id)
}

// GetByCategory retrieves the budget matching (owner, category)
func (r *BudgetRepository) GetByCategory(userID uuid.UUID, category string) (*domain.Budget, error) {
	return r.getOne(`SELECT `+budgetColumns+` FROM budgets WHERE user_id = $1 AND category = $2`, pgUUID(userID), category)
}

// GetAllByUser retrieves all budgets for a user, newest window first
func (r *BudgetRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Budget, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+budgetColumns+` FROM budgets WHERE user_id = $1 ORDER BY start_date DESC`, pgUUID(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []*domain.Budget
	for rows.Next() {
		budget, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, budget)
	}
	return budgets, rows.Err()
}

// Update replaces a budget's category, ceiling and window
func (r *BudgetRepository) Update(userID uuid.UUID, id int32, data *domain.UpdateBudgetData) (*domain.Budget, error) {
	amount, err := decimalToPgNumeric(data.BudgetAmount)
	if err != nil {
		return nil, err
	}
	return r.getOne(`
		UPDATE budgets
		SET category = $3, budget_amount = $4, start_date = $5, end_date = $6, updated_at = NOW()
		WHERE id = $2 AND user_id = $1
		RETURNING `+budgetColumns,
		pgUUID(userID), id, data.Category, amount, data.StartDate, data.EndDate)
}

// Delete removes a budget
func (r *BudgetRepository) Delete(userID uuid.UUID, id int32) error {
	cmd, err := r.pool.Exec(context.Background(),
		`DELETE FROM budgets WHERE id = $2 AND user_id = $1`, pgUUID(userID), id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrBudgetNotFound
	}
	return nil
}

func (r *BudgetRepository) getOne(query string, args ...any) (*domain.Budget, error) {
	budget, err := scanBudget(r.pool.QueryRow(context.Background(), query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	return budget, nil
}

func scanBudget(row rowScanner) (*domain.Budget, error) {
	var (
		b                    domain.Budget
		userID               pgtype.UUID
		budgetAmount, spent  pgtype.Numeric
		startDate, endDate   pgtype.Date
		createdAt, updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&b.ID, &userID, &b.Category, &budgetAmount, &spent, &startDate, &endDate, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	b.UserID = uuid.UUID(userID.Bytes)
	b.BudgetAmount = pgNumericToDecimal(budgetAmount)
	b.AmountSpent = pgNumericToDecimal(spent)
	b.StartDate = startDate.Time
	b.EndDate = endDate.Time
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time
	return &b, nil
}
