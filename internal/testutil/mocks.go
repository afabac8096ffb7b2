package testutil

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/finflow-app/finflow-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrWriteFailed is returned by MockLedger when a forced failure triggers
var ErrWriteFailed = errors.New("write failed")

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	ByID     map[uuid.UUID]*domain.User
	ByEmail  map[string]*domain.User
	ByGoogle map[string]*domain.User
	CreateFn func(user *domain.User) (*domain.User, error)
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		ByID:     make(map[uuid.UUID]*domain.User),
		ByEmail:  make(map[string]*domain.User),
		ByGoogle: make(map[string]*domain.User),
	}
}

// Create creates a new user
func (m *MockUserRepository) Create(user *domain.User) (*domain.User, error) {
	if m.CreateFn != nil {
		return m.CreateFn(user)
	}
	if _, ok := m.ByEmail[user.Email]; ok {
		return nil, domain.ErrEmailTaken
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.AddUser(user)
	return user, nil
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByEmail retrieves a user by email
func (m *MockUserRepository) GetByEmail(email string) (*domain.User, error) {
	if user, ok := m.ByEmail[strings.ToLower(email)]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByGoogleID retrieves a user by Google ID
func (m *MockUserRepository) GetByGoogleID(googleID string) (*domain.User, error) {
	if user, ok := m.ByGoogle[googleID]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// LinkGoogleID attaches a Google identity to an existing user
func (m *MockUserRepository) LinkGoogleID(id uuid.UUID, googleID string) (*domain.User, error) {
	user, ok := m.ByID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	user.GoogleID = &googleID
	m.ByGoogle[googleID] = user
	return user, nil
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.ByID[user.ID] = user
	m.ByEmail[strings.ToLower(user.Email)] = user
	if user.GoogleID != nil {
		m.ByGoogle[*user.GoogleID] = user
	}
}

// MockAccountRepository is a mock implementation of domain.AccountRepository
type MockAccountRepository struct {
	Accounts map[int32]*domain.Account
	order    []int32
	NextID   int32
}

// NewMockAccountRepository creates a new MockAccountRepository
func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		Accounts: make(map[int32]*domain.Account),
		NextID:   1,
	}
}

// GetByID retrieves an account by ID, scoped to its owner
func (m *MockAccountRepository) GetByID(userID uuid.UUID, id int32) (*domain.Account, error) {
	if account, ok := m.Accounts[id]; ok && account.UserID == userID {
		copy := *account
		return &copy, nil
	}
	return nil, domain.ErrAccountNotFound
}

// GetByNumber retrieves an account by account number, scoped to its owner
func (m *MockAccountRepository) GetByNumber(userID uuid.UUID, accountNumber string) (*domain.Account, error) {
	for _, account := range m.Accounts {
		if account.UserID == userID && account.AccountNumber == accountNumber {
			copy := *account
			return &copy, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

// GetAllByUser retrieves all of a user's accounts, newest first
func (m *MockAccountRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Account, error) {
	var accounts []*domain.Account
	for i := len(m.order) - 1; i >= 0; i-- {
		if account, ok := m.Accounts[m.order[i]]; ok && account.UserID == userID {
			accounts = append(accounts, account)
		}
	}
	return accounts, nil
}

// Recent retrieves the user's newest accounts up to limit
func (m *MockAccountRepository) Recent(userID uuid.UUID, limit int32) ([]*domain.Account, error) {
	accounts, _ := m.GetAllByUser(userID)
	if int32(len(accounts)) > limit {
		accounts = accounts[:limit]
	}
	return accounts, nil
}

// AddAccount adds an account to the mock repository (helper for tests)
func (m *MockAccountRepository) AddAccount(account *domain.Account) *domain.Account {
	if account.ID == 0 {
		account.ID = m.NextID
	}
	if account.ID >= m.NextID {
		m.NextID = account.ID + 1
	}
	m.Accounts[account.ID] = account
	m.order = append(m.order, account.ID)
	return account
}

// Balance returns the stored balance for an account (helper for tests)
func (m *MockAccountRepository) Balance(id int32) decimal.Decimal {
	if account, ok := m.Accounts[id]; ok {
		return account.Balance
	}
	return decimal.Zero
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions map[int32]*domain.Transaction
	order        []int32
	NextID       int32
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[int32]*domain.Transaction),
		NextID:       1,
	}
}

// GetByID retrieves a transaction by ID, scoped to its owner
func (m *MockTransactionRepository) GetByID(userID uuid.UUID, id int32) (*domain.Transaction, error) {
	if t, ok := m.Transactions[id]; ok && t.UserID == userID {
		copy := *t
		return &copy, nil
	}
	return nil, domain.ErrTransactionNotFound
}

// Search retrieves transactions matching the filters, newest first
func (m *MockTransactionRepository) Search(userID uuid.UUID, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	start := filters.StartDate
	end := filters.EndDate
	if start.IsZero() {
		start = time.Now().AddDate(0, 0, -7)
	}
	if end.IsZero() {
		end = time.Now()
	}
	search := strings.ToLower(filters.Search)

	var result []*domain.Transaction
	for i := len(m.order) - 1; i >= 0; i-- {
		t, ok := m.Transactions[m.order[i]]
		if !ok || t.UserID != userID {
			continue
		}
		if t.CreatedAt.Before(start) || t.CreatedAt.After(end) {
			continue
		}
		if search != "" && !m.matches(t, search) {
			continue
		}
		result = append(result, t)
	}
	return result, nil
}

func (m *MockTransactionRepository) matches(t *domain.Transaction, search string) bool {
	for _, field := range []string{t.Description, string(t.Status), t.Source, t.Category} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

// Recent retrieves the user's newest transactions up to limit
func (m *MockTransactionRepository) Recent(userID uuid.UUID, limit int32) ([]*domain.Transaction, error) {
	var result []*domain.Transaction
	for i := len(m.order) - 1; i >= 0 && int32(len(result)) < limit; i-- {
		if t, ok := m.Transactions[m.order[i]]; ok && t.UserID == userID {
			result = append(result, t)
		}
	}
	return result, nil
}

// SumByType returns the user's all-time income and expense totals
func (m *MockTransactionRepository) SumByType(userID uuid.UUID) (decimal.Decimal, decimal.Decimal, error) {
	income, expense := decimal.Zero, decimal.Zero
	for _, t := range m.Transactions {
		if t.UserID != userID {
			continue
		}
		if t.Type == domain.TransactionTypeIncome {
			income = income.Add(t.Amount)
		} else {
			expense = expense.Add(t.Amount)
		}
	}
	return income, expense, nil
}

// MonthlyTotals returns per-month income/expense totals for a year
func (m *MockTransactionRepository) MonthlyTotals(userID uuid.UUID, year int) ([]*domain.MonthlyTotal, error) {
	byMonth := make(map[int]*domain.MonthlyTotal)
	for _, t := range m.Transactions {
		if t.UserID != userID || t.CreatedAt.Year() != year {
			continue
		}
		month := int(t.CreatedAt.Month())
		total, ok := byMonth[month]
		if !ok {
			total = &domain.MonthlyTotal{Month: month, Income: decimal.Zero, Expense: decimal.Zero}
			byMonth[month] = total
		}
		if t.Type == domain.TransactionTypeIncome {
			total.Income = total.Income.Add(t.Amount)
		} else {
			total.Expense = total.Expense.Add(t.Amount)
		}
	}
	var totals []*domain.MonthlyTotal
	for month := 1; month <= 12; month++ {
		if total, ok := byMonth[month]; ok {
			totals = append(totals, total)
		}
	}
	return totals, nil
}

// AddTransaction adds a transaction to the mock repository (helper for tests)
func (m *MockTransactionRepository) AddTransaction(t *domain.Transaction) *domain.Transaction {
	if t.ID == 0 {
		t.ID = m.NextID
	}
	if t.ID >= m.NextID {
		m.NextID = t.ID + 1
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
		t.UpdatedAt = t.CreatedAt
	}
	m.Transactions[t.ID] = t
	m.order = append(m.order, t.ID)
	return t
}

// MockBudgetRepository is a mock implementation of domain.BudgetRepository
type MockBudgetRepository struct {
	Budgets map[int32]*domain.Budget
	order   []int32
	NextID  int32
}

// NewMockBudgetRepository creates a new MockBudgetRepository
func NewMockBudgetRepository() *MockBudgetRepository {
	return &MockBudgetRepository{
		Budgets: make(map[int32]*domain.Budget),
		NextID:  1,
	}
}

// Create creates a new budget
func (m *MockBudgetRepository) Create(budget *domain.Budget) (*domain.Budget, error) {
	budget.ID = m.NextID
	m.NextID++
	budget.CreatedAt = time.Now()
	budget.UpdatedAt = budget.CreatedAt
	m.Budgets[budget.ID] = budget
	m.order = append(m.order, budget.ID)
	return budget, nil
}

// GetByID retrieves a budget by ID, scoped to its owner
func (m *MockBudgetRepository) GetByID(userID uuid.UUID, id int32) (*domain.Budget, error) {
	if budget, ok := m.Budgets[id]; ok && budget.UserID == userID {
		copy := *budget
		return &copy, nil
	}
	return nil, domain.ErrBudgetNotFound
}

// GetByCategory retrieves a budget by category, scoped to its owner
func (m *MockBudgetRepository) GetByCategory(userID uuid.UUID, category string) (*domain.Budget, error) {
	for _, budget := range m.Budgets {
		if budget.UserID == userID && budget.Category == category {
			copy := *budget
			return &copy, nil
		}
	}
	return nil, domain.ErrBudgetNotFound
}

// GetAllByUser retrieves all of a user's budgets
func (m *MockBudgetRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Budget, error) {
	var budgets []*domain.Budget
	for i := len(m.order) - 1; i >= 0; i-- {
		if budget, ok := m.Budgets[m.order[i]]; ok && budget.UserID == userID {
			budgets = append(budgets, budget)
		}
	}
	return budgets, nil
}

// Update replaces a budget's editable fields
func (m *MockBudgetRepository) Update(userID uuid.UUID, id int32, data *domain.UpdateBudgetData) (*domain.Budget, error) {
	budget, ok := m.Budgets[id]
	if !ok || budget.UserID != userID {
		return nil, domain.ErrBudgetNotFound
	}
	budget.Category = data.Category
	budget.BudgetAmount = data.BudgetAmount
	budget.StartDate = data.StartDate
	budget.EndDate = data.EndDate
	budget.UpdatedAt = time.Now()
	return budget, nil
}

// Delete removes a budget
func (m *MockBudgetRepository) Delete(userID uuid.UUID, id int32) error {
	budget, ok := m.Budgets[id]
	if !ok || budget.UserID != userID {
		return domain.ErrBudgetNotFound
	}
	delete(m.Budgets, id)
	return nil
}

// AddBudget adds a budget to the mock repository (helper for tests)
func (m *MockBudgetRepository) AddBudget(budget *domain.Budget) *domain.Budget {
	if budget.ID == 0 {
		budget.ID = m.NextID
	}
	if budget.ID >= m.NextID {
		m.NextID = budget.ID + 1
	}
	m.Budgets[budget.ID] = budget
	m.order = append(m.order, budget.ID)
	return budget
}

// Spent returns the stored spent amount for a category (helper for tests)
func (m *MockBudgetRepository) Spent(userID uuid.UUID, category string) decimal.Decimal {
	for _, budget := range m.Budgets {
		if budget.UserID == userID && budget.Category == category {
			return budget.AmountSpent
		}
	}
	return decimal.Zero
}

// MockLedger is a mock implementation of domain.LedgerRepository backed by
// the other mock repositories. Each unit buffers its writes and applies them
// to the underlying repositories only on Commit, so a rolled-back unit
// leaves nothing observable. FailOnWrite forces the Nth sub-write (counted
// across all units) to fail, for atomicity tests.
type MockLedger struct {
	Accounts     *MockAccountRepository
	Transactions *MockTransactionRepository
	Budgets      *MockBudgetRepository

	FailOnWrite int
	BeginErr    error
	CommitErr   error
	Committed   int
	RolledBack  int

	writeCount int
}

// NewMockLedger creates a MockLedger over the given mock repositories
func NewMockLedger(accounts *MockAccountRepository, transactions *MockTransactionRepository, budgets *MockBudgetRepository) *MockLedger {
	return &MockLedger{
		Accounts:     accounts,
		Transactions: transactions,
		Budgets:      budgets,
	}
}

// Begin starts a new buffered unit
func (m *MockLedger) Begin(ctx context.Context) (domain.LedgerUnit, error) {
	if m.BeginErr != nil {
		return nil, m.BeginErr
	}
	return &mockLedgerUnit{
		ledger:         m,
		balanceDeltas:  make(map[int32]decimal.Decimal),
		spentDeltas:    make(map[budgetKey]decimal.Decimal),
		updated:        make(map[int32]*domain.UpdateTransactionData),
		stagedAccounts: make(map[int32]*domain.Account),
	}, nil
}

func (m *MockLedger) nextWriteFails() bool {
	m.writeCount++
	return m.FailOnWrite != 0 && m.writeCount == m.FailOnWrite
}

type budgetKey struct {
	userID   uuid.UUID
	category string
}

type mockLedgerUnit struct {
	ledger         *MockLedger
	stagedAccounts map[int32]*domain.Account
	accountOrder   []int32
	balanceDeltas  map[int32]decimal.Decimal
	spentDeltas    map[budgetKey]decimal.Decimal
	created        []*domain.Transaction
	updated        map[int32]*domain.UpdateTransactionData
	deleted        []int32
	finished       bool
}

func (u *mockLedgerUnit) CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	if u.ledger.nextWriteFails() {
		return nil, ErrWriteFailed
	}
	account.ID = u.ledger.Accounts.NextID
	u.ledger.Accounts.NextID++
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	u.stagedAccounts[account.ID] = account
	u.accountOrder = append(u.accountOrder, account.ID)
	return account, nil
}

func (u *mockLedgerUnit) AdjustBalance(ctx context.Context, userID uuid.UUID, accountID int32, delta decimal.Decimal) (decimal.Decimal, error) {
	if u.ledger.nextWriteFails() {
		return decimal.Zero, ErrWriteFailed
	}
	account, ok := u.stagedAccounts[accountID]
	if !ok {
		account, ok = u.ledger.Accounts.Accounts[accountID]
	}
	if !ok || account.UserID != userID {
		return decimal.Zero, domain.ErrAccountNotFound
	}
	u.balanceDeltas[accountID] = u.balanceDeltas[accountID].Add(delta)
	return account.Balance.Add(u.balanceDeltas[accountID]), nil
}

func (u *mockLedgerUnit) AdjustBudgetSpent(ctx context.Context, userID uuid.UUID, category string, delta decimal.Decimal) error {
	if u.ledger.nextWriteFails() {
		return ErrWriteFailed
	}
	// Missing budgets are a silent no-op, matching the store behavior.
	if _, err := u.ledger.Budgets.GetByCategory(userID, category); err != nil {
		return nil
	}
	key := budgetKey{userID: userID, category: category}
	u.spentDeltas[key] = u.spentDeltas[key].Add(delta)
	return nil
}

func (u *mockLedgerUnit) CreateTransaction(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	if u.ledger.nextWriteFails() {
		return nil, ErrWriteFailed
	}
	transaction.ID = u.ledger.Transactions.NextID
	u.ledger.Transactions.NextID++
	transaction.CreatedAt = time.Now()
	transaction.UpdatedAt = transaction.CreatedAt
	u.created = append(u.created, transaction)
	return transaction, nil
}

func (u *mockLedgerUnit) UpdateTransaction(ctx context.Context, userID uuid.UUID, id int32, data *domain.UpdateTransactionData) (*domain.Transaction, error) {
	if u.ledger.nextWriteFails() {
		return nil, ErrWriteFailed
	}
	old, ok := u.ledger.Transactions.Transactions[id]
	if !ok || old.UserID != userID {
		return nil, domain.ErrTransactionNotFound
	}
	u.updated[id] = data

	updated := *old
	updated.AccountID = data.AccountID
	updated.Description = data.Description
	updated.Source = data.Source
	updated.Category = data.Category
	updated.Amount = data.Amount
	updated.Type = data.Type
	updated.Status = data.Status
	updated.UpdatedAt = time.Now()
	return &updated, nil
}

func (u *mockLedgerUnit) DeleteTransaction(ctx context.Context, userID uuid.UUID, id int32) error {
	if u.ledger.nextWriteFails() {
		return ErrWriteFailed
	}
	old, ok := u.ledger.Transactions.Transactions[id]
	if !ok || old.UserID != userID {
		return domain.ErrTransactionNotFound
	}
	u.deleted = append(u.deleted, id)
	return nil
}

// Commit applies all buffered writes to the underlying repositories
func (u *mockLedgerUnit) Commit(ctx context.Context) error {
	if u.finished {
		return errors.New("unit already finished")
	}
	if u.ledger.CommitErr != nil {
		return u.ledger.CommitErr
	}
	u.finished = true
	u.ledger.Committed++

	for _, id := range u.accountOrder {
		account := u.stagedAccounts[id]
		u.ledger.Accounts.Accounts[id] = account
		u.ledger.Accounts.order = append(u.ledger.Accounts.order, id)
	}
	for id, delta := range u.balanceDeltas {
		if account, ok := u.ledger.Accounts.Accounts[id]; ok {
			account.Balance = account.Balance.Add(delta)
		}
	}
	for key, delta := range u.spentDeltas {
		for _, budget := range u.ledger.Budgets.Budgets {
			if budget.UserID == key.userID && budget.Category == key.category {
				budget.AmountSpent = budget.AmountSpent.Add(delta)
			}
		}
	}
	for _, t := range u.created {
		u.ledger.Transactions.Transactions[t.ID] = t
		u.ledger.Transactions.order = append(u.ledger.Transactions.order, t.ID)
	}
	for id, data := range u.updated {
		t := u.ledger.Transactions.Transactions[id]
		t.AccountID = data.AccountID
		t.Description = data.Description
		t.Source = data.Source
		t.Category = data.Category
		t.Amount = data.Amount
		t.Type = data.Type
		t.Status = data.Status
		t.UpdatedAt = time.Now()
	}
	for _, id := range u.deleted {
		delete(u.ledger.Transactions.Transactions, id)
	}
	return nil
}

// Rollback discards all buffered writes. Calling it after Commit is a no-op
// so callers can defer it.
func (u *mockLedgerUnit) Rollback(ctx context.Context) error {
	if u.finished {
		return nil
	}
	u.finished = true
	u.ledger.RolledBack++
	return nil
}
