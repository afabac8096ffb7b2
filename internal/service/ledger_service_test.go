package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/finflow-app/finflow-backend/internal/domain"
	"github.com/finflow-app/finflow-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ledgerFixture struct {
	accounts     *testutil.MockAccountRepository
	transactions *testutil.MockTransactionRepository
	budgets      *testutil.MockBudgetRepository
	ledger       *testutil.MockLedger
	service      *LedgerService
	userID       uuid.UUID
}

func newLedgerFixture() *ledgerFixture {
	accounts := testutil.NewMockAccountRepository()
	transactions := testutil.NewMockTransactionRepository()
	budgets := testutil.NewMockBudgetRepository()
	ledger := testutil.NewMockLedger(accounts, transactions, budgets)
	return &ledgerFixture{
		accounts:     accounts,
		transactions: transactions,
		budgets:      budgets,
		ledger:       ledger,
		service:      NewLedgerService(ledger, accounts, transactions),
		userID:       uuid.New(),
	}
}

func (f *ledgerFixture) addAccount(balance string) *domain.Account {
	return f.accounts.AddAccount(&domain.Account{
		UserID:        f.userID,
		AccountNumber: uuid.New().String()[:10],
		Name:          "Checking",
		Type:          domain.AccountTypeBank,
		Balance:       decimal.RequireFromString(balance),
		Status:        domain.AccountStatusActive,
	})
}

func (f *ledgerFixture) addBudget(category, amount string) *domain.Budget {
	return f.budgets.AddBudget(&domain.Budget{
		UserID:       f.userID,
		Category:     category,
		BudgetAmount: decimal.RequireFromString(amount),
		AmountSpent:  decimal.Zero,
		StartDate:    time.Now().AddDate(0, -1, 0),
		EndDate:      time.Now().AddDate(0, 1, 0),
	})
}

func TestOpenAccount_Success(t *testing.T) {
	f := newLedgerFixture()

	account, err := f.service.OpenAccount(context.Background(), f.userID, OpenAccountInput{
		Name:           "Savings",
		AccountNumber:  "ACC-100",
		Type:           domain.AccountTypeBank,
		OpeningBalance: decimal.NewFromInt(500),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !account.Balance.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Expected balance 500, got %s", account.Balance)
	}
	if len(f.transactions.Transactions) != 1 {
		t.Fatalf("Expected 1 opening transaction, got %d", len(f.transactions.Transactions))
	}
	for _, tx := range f.transactions.Transactions {
		if tx.Type != domain.TransactionTypeIncome {
			t.Errorf("Expected opening transaction type income, got %s", tx.Type)
		}
		if tx.Description != "Savings (Initial Deposit)" {
			t.Errorf("Unexpected opening description %q", tx.Description)
		}
	}
	if f.ledger.Committed != 1 {
		t.Errorf("Expected 1 commit, got %d", f.ledger.Committed)
	}
}

func TestOpenAccount_ZeroBalanceSkipsTransaction(t *testing.T) {
	f := newLedgerFixture()

	_, err := f.service.OpenAccount(context.Background(), f.userID, OpenAccountInput{
		Name:          "Wallet",
		AccountNumber: "ACC-101",
		Type:          domain.AccountTypeCash,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(f.transactions.Transactions) != 0 {
		t.Errorf("Expected no opening transaction, got %d", len(f.transactions.Transactions))
	}
}

func TestOpenAccount_DuplicateNumber(t *testing.T) {
	f := newLedgerFixture()
	f.accounts.AddAccount(&domain.Account{
		UserID:        f.userID,
		AccountNumber: "ACC-1",
		Name:          "Existing",
		Type:          domain.AccountTypeBank,
		Balance:       decimal.Zero,
	})

	_, err := f.service.OpenAccount(context.Background(), f.userID, OpenAccountInput{
		Name:          "Duplicate",
		AccountNumber: "ACC-1",
		Type:          domain.AccountTypeBank,
	})
	if !errors.Is(err, domain.ErrDuplicateAccountNumber) {
		t.Fatalf("Expected ErrDuplicateAccountNumber, got %v", err)
	}
}

func TestDeposit_AdjustsBalanceAndRecordsTransaction(t *testing.T) {
	f := newLedgerFixture()
	account := f.addAccount("100")

	result, err := f.service.Deposit(context.Background(), f.userID, account.ID, decimal.NewFromInt(50))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !result.Account.Balance.Equal(decimal.NewFromInt(150)) {
		t.Errorf("Expected balance 150, got %s", result.Account.Balance)
	}
	if !f.accounts.Balance(account.ID).Equal(decimal.NewFromInt(150)) {
		t.Errorf("Expected stored balance 150, got %s", f.accounts.Balance(account.ID))
	}
	if result.Transaction.Type != domain.TransactionTypeIncome {
		t.Errorf("Expected income transaction, got %s", result.Transaction.Type)
	}
}

func TestDeposit_RejectsNonPositiveAmount(t *testing.T) {
	f := newLedgerFixture()
	account := f.addAccount("100")

	_, err := f.service.Deposit(context.Background(), f.userID, account.ID, decimal.Zero)
	if !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("Expected ErrInvalidAmount, got %v", err)
	}
	if !f.accounts.Balance(account.ID).Equal(decimal.NewFromInt(100)) {
		t.Errorf("Balance changed on rejected deposit: %s", f.accounts.Balance(account.ID))
	}
}

func TestRecordExpense_DebitsBalanceAndBumpsBudget(t *testing.T) {
	f := newLedgerFixture()
	account := f.addAccount("100")
	f.addBudget("Groceries", "200")

	tx, err := f.service.RecordExpense(context.Background(), f.userID, ExpenseInput{
		AccountID:   account.ID,
		Description: "Weekly shop",
		Source:      "Supermarket",
		Category:    "Groceries",
		Amount:      decimal.NewFromInt(30),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !f.accounts.Balance(account.ID).Equal(decimal.NewFromInt(70)) {
		t.Errorf("Expected balance 70, got %s", f.accounts.Balance(account.ID))
	}
	if !f.budgets.Spent(f.userID, "Groceries").Equal(decimal.NewFromInt(30)) {
		t.Errorf("Expected spent 30, got %s", f.budgets.Spent(f.userID, "Groceries"))
	}
	if tx.Status != domain.TransactionStatusCompleted {
		t.Errorf("Expected status Completed, got %s", tx.Status)
	}
}

func TestRecordExpense_NoBudgetIsNoop(t *testing.T) {
	f := newLedgerFixture()
	account := f.addAccount("100")

	_, err := f.service.RecordExpense(context.Background(), f.userID, ExpenseInput{
		AccountID:   account.ID,
		Description: "Coffee",
		Source:      "Cafe",
		Category:    "Uncategorized",
		Amount:      decimal.NewFromInt(5),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !f.accounts.Balance(account.ID).Equal(decimal.NewFromInt(95)) {
		t.Errorf("Expected balance 95, got %s", f.accounts.Balance(account.ID))
	}
}

func TestRecordExpense_InsufficientFundsLeavesStateUntouched(t *testing.T) {
	f := newLedgerFixture()
	account := f.addAccount("20")
	f.addBudget("Groceries", "200")

	_, err := f.service.RecordExpense(context.Background(), f.userID, ExpenseInput{
		AccountID:   account.ID,
		Description: "Weekly shop",
		Source:      "Supermarket",
		Category:    "Groceries",
		Amount:      decimal.NewFromInt(30),
	})
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("Expected ErrInsufficientFunds, got %v", err)
	}

	if !f.accounts.Balance(account.ID).Equal(decimal.NewFromInt(20)) {
		t.Errorf("Balance changed on rejected expense: %s", f.accounts.Balance(account.ID))
	}
	if !f.budgets.Spent(f.userID, "Groceries").IsZero() {
		t.Errorf("Spent changed on rejected expense: %s", f.budgets.Spent(f.userID, "Groceries"))
	}
	if len(f.transactions.Transactions) != 0 {
		t.Errorf("Expected no transactions, got %d", len(f.transactions.Transactions))
	}
}

func TestEditTransaction_WithOriginalFieldsIsNoop(t *testing.T) {
	f := newLedgerFixture()
	account := f.addAccount("100")
	f.addBudget("Groceries", "200")

	tx, err := f.service.RecordExpense(context.Background(), f.userID, ExpenseInput{
		AccountID:   account.ID,
		Description: "Weekly shop",
		Source:      "Supermarket",
		Category:    "Groceries",
		Amount:      decimal.NewFromInt(30),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	_, err = f.service.EditTransaction(context.Background(), f.userID, tx.ID, EditTransactionInput{
		AccountID:   tx.AccountID,
		Description: tx.Description,
		Source:      tx.Source,
		Category:    tx.Category,
		Amount:      tx.Amount,
		Type:        tx.Type,
		Status:      tx.Status,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !f.accounts.Balance(account.ID).Equal(decimal.NewFromInt(70)) {
		t.Errorf("Identity edit moved balance: %s", f.accounts.Balance(account.ID))
	}
	if !f.budgets.Spent(f.userID, "Groceries").Equal(decimal.NewFromInt(30)) {
		t.Errorf("Identity edit moved spent: %s", f.budgets.Spent(f.userID, "Groceries"))
	}
}

// The 100-balance account records a 30 expense (balance 70), the expense is
// edited to 50 (balance 50), then deleted (balance back to 100).
func TestExpenseEditDeleteScenario(t *testing.T) {
	f := newLedgerFixture()
	account := f.addAccount("100")
	f.addBudget("Groceries", "200")

	tx, err := f.service.RecordExpense(context.Background(), f.userID, ExpenseInput{
		AccountID:   account.ID,
		Description: "Weekly shop",
		Source:      "Supermarket",
		Category:    "Groceries",
		Amount:      decimal.NewFromInt(30),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !f.accounts.Balance(account.ID).Equal(decimal.NewFromInt(70)) {
		t.Fatalf("Expected balance 70 after expense, got %s", f.accounts.Balance(account.ID))
	}

	_, err = f.service.EditTransaction(context.Background(), f.userID, tx.ID, EditTransactionInput{
		AccountID:   account.ID,
		Description: "Weekly shop",
		Source:      "Supermarket",
		Category:    "Groceries",
		Amount:      decimal.NewFromInt(50),
		Type:        domain.TransactionTypeExpense,
		Status:      domain.TransactionStatusCompleted,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !f.accounts.Balance(account.ID).Equal(decimal.NewFromInt(50)) {
		t.Fatalf("Expected balance 50 after edit, got %s", f.accounts.Balance(account.ID))
	}
	if !f.budgets.Spent(f.userID, "Groceries").Equal(decimal.NewFromInt(50)) {
		t.Fatalf("Expected spent 50 after edit, got %s", f.budgets.Spent(f.userID, "Groceries"))
	}

	if err := f.service.DeleteTransaction(context.Background(), f.userID, tx.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !f.accounts.Balance(account.ID).Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected balance 100 after delete, got %s", f.accounts.Balance(account.ID))
	}
	if !f.budgets.Spent(f.userID, "Groceries").IsZero() {
		t.Errorf("Expected spent 0 after delete, got %s", f.budgets.Spent(f.userID, "Groceries"))
	}
	if len(f.transactions.Transactions) != 0 {
		t.Errorf("Expected transaction removed, got %d left", len(f.transactions.Transactions))
	}
}

func TestEditTransaction_MovesEffectBetweenAccounts(t *testing.T) {
	f := newLedgerFixture()
	first := f.addAccount("100")
	second := f.addAccount("100")

	tx, err := f.service.RecordExpense(context.Background(), f.userID, ExpenseInput{
		AccountID:   first.ID,
		Description: "Dinner",
		Source:      "Restaurant",
		Category:    "Dining",
		Amount:      decimal.NewFromInt(40),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	_, err = f.service.EditTransaction(context.Background(), f.userID, tx.ID, EditTransactionInput{
		AccountID:   second.ID,
		Description: "Dinner",
		Source:      "Restaurant",
		Category:    "Dining",
		Amount:      decimal.NewFromInt(40),
		Type:        domain.TransactionTypeExpense,
		Status:      domain.TransactionStatusCompleted,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !f.accounts.Balance(first.ID).Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected first account restored to 100, got %s", f.accounts.Balance(first.ID))
	}
	if !f.accounts.Balance(second.ID).Equal(decimal.NewFromInt(60)) {
		t.Errorf("Expected second account at 60, got %s", f.accounts.Balance(second.ID))
	}
}

func TestDeleteThenRecreateRestoresState(t *testing.T) {
	f := newLedgerFixture()
	account := f.addAccount("100")
	f.addBudget("Groceries", "200")

	input := ExpenseInput{
		AccountID:   account.ID,
		Description: "Weekly shop",
		Source:      "Supermarket",
		Category:    "Groceries",
		Amount:      decimal.NewFromInt(25),
	}

	tx, err := f.service.RecordExpense(context.Background(), f.userID, input)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	balanceAfter := f.accounts.Balance(account.ID)
	spentAfter := f.budgets.Spent(f.userID, "Groceries")

	if err := f.service.DeleteTransaction(context.Background(), f.userID, tx.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := f.service.RecordExpense(context.Background(), f.userID, input); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !f.accounts.Balance(account.ID).Equal(balanceAfter) {
		t.Errorf("Expected balance %s after re-create, got %s", balanceAfter, f.accounts.Balance(account.ID))
	}
	if !f.budgets.Spent(f.userID, "Groceries").Equal(spentAfter) {
		t.Errorf("Expected spent %s after re-create, got %s", spentAfter, f.budgets.Spent(f.userID, "Groceries"))
	}
}

// The 100/100 accounts transfer 20: source drops to 80, destination rises to
// 120, and exactly two transactions share a pair ID.
func TestTransfer_Scenario(t *testing.T) {
	f := newLedgerFixture()
	from := f.addAccount("100")
	to := f.addAccount("100")

	result, err := f.service.Transfer(context.Background(), f.userID, TransferInput{
		FromAccountID: from.ID,
		ToAccountID:   to.ID,
		Amount:        decimal.NewFromInt(20),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !f.accounts.Balance(from.ID).Equal(decimal.NewFromInt(80)) {
		t.Errorf("Expected source balance 80, got %s", f.accounts.Balance(from.ID))
	}
	if !f.accounts.Balance(to.ID).Equal(decimal.NewFromInt(120)) {
		t.Errorf("Expected destination balance 120, got %s", f.accounts.Balance(to.ID))
	}
	if len(f.transactions.Transactions) != 2 {
		t.Fatalf("Expected exactly 2 transactions, got %d", len(f.transactions.Transactions))
	}
	if result.FromTransaction.TransferPairID == nil || result.ToTransaction.TransferPairID == nil {
		t.Fatal("Expected both legs to carry a pair ID")
	}
	if *result.FromTransaction.TransferPairID != *result.ToTransaction.TransferPairID {
		t.Error("Expected both legs to share the same pair ID")
	}
	if result.FromTransaction.Type != domain.TransactionTypeExpense {
		t.Errorf("Expected expense leg on source, got %s", result.FromTransaction.Type)
	}
	if result.ToTransaction.Type != domain.TransactionTypeIncome {
		t.Errorf("Expected income leg on destination, got %s", result.ToTransaction.Type)
	}
}

func TestTransfer_InsufficientFunds(t *testing.T) {
	f := newLedgerFixture()
	from := f.addAccount("10")
	to := f.addAccount("100")

	_, err := f.service.Transfer(context.Background(), f.userID, TransferInput{
		FromAccountID: from.ID,
		ToAccountID:   to.ID,
		Amount:        decimal.NewFromInt(40),
	})
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("Expected ErrInsufficientFunds, got %v", err)
	}
	if !f.accounts.Balance(from.ID).Equal(decimal.NewFromInt(10)) {
		t.Errorf("Source balance changed on rejected transfer: %s", f.accounts.Balance(from.ID))
	}
	if !f.accounts.Balance(to.ID).Equal(decimal.NewFromInt(100)) {
		t.Errorf("Destination balance changed on rejected transfer: %s", f.accounts.Balance(to.ID))
	}
}

func TestTransfer_SameAccountRejected(t *testing.T) {
	f := newLedgerFixture()
	account := f.addAccount("100")

	_, err := f.service.Transfer(context.Background(), f.userID, TransferInput{
		FromAccountID: account.ID,
		ToAccountID:   account.ID,
		Amount:        decimal.NewFromInt(10),
	})
	if !errors.Is(err, domain.ErrSameAccountTransfer) {
		t.Fatalf("Expected ErrSameAccountTransfer, got %v", err)
	}
}

// Force each sub-write of an expense in turn to fail and verify nothing
// persists: not the balance, not the transaction, not the budget.
func TestRecordExpense_PartialFailureLeavesNothing(t *testing.T) {
	for failOn := 1; failOn <= 3; failOn++ {
		f := newLedgerFixture()
		account := f.addAccount("100")
		f.addBudget("Groceries", "200")
		f.ledger.FailOnWrite = failOn

		_, err := f.service.RecordExpense(context.Background(), f.userID, ExpenseInput{
			AccountID:   account.ID,
			Description: "Weekly shop",
			Source:      "Supermarket",
			Category:    "Groceries",
			Amount:      decimal.NewFromInt(30),
		})
		if !errors.Is(err, testutil.ErrWriteFailed) {
			t.Fatalf("failOn=%d: expected ErrWriteFailed, got %v", failOn, err)
		}

		if !f.accounts.Balance(account.ID).Equal(decimal.NewFromInt(100)) {
			t.Errorf("failOn=%d: balance leaked: %s", failOn, f.accounts.Balance(account.ID))
		}
		if !f.budgets.Spent(f.userID, "Groceries").IsZero() {
			t.Errorf("failOn=%d: spent leaked: %s", failOn, f.budgets.Spent(f.userID, "Groceries"))
		}
		if len(f.transactions.Transactions) != 0 {
			t.Errorf("failOn=%d: transaction leaked", failOn)
		}
		if f.ledger.Committed != 0 {
			t.Errorf("failOn=%d: unexpected commit", failOn)
		}
		if f.ledger.RolledBack != 1 {
			t.Errorf("failOn=%d: expected 1 rollback, got %d", failOn, f.ledger.RolledBack)
		}
	}
}

// Same discipline for transfers: four sub-writes, each failure leaves both
// balances untouched and no transactions behind.
func TestTransfer_PartialFailureLeavesNothing(t *testing.T) {
	for failOn := 1; failOn <= 4; failOn++ {
		f := newLedgerFixture()
		from := f.addAccount("100")
		to := f.addAccount("100")
		f.ledger.FailOnWrite = failOn

		_, err := f.service.Transfer(context.Background(), f.userID, TransferInput{
			FromAccountID: from.ID,
			ToAccountID:   to.ID,
			Amount:        decimal.NewFromInt(20),
		})
		if !errors.Is(err, testutil.ErrWriteFailed) {
			t.Fatalf("failOn=%d: expected ErrWriteFailed, got %v", failOn, err)
		}

		if !f.accounts.Balance(from.ID).Equal(decimal.NewFromInt(100)) {
			t.Errorf("failOn=%d: source balance leaked: %s", failOn, f.accounts.Balance(from.ID))
		}
		if !f.accounts.Balance(to.ID).Equal(decimal.NewFromInt(100)) {
			t.Errorf("failOn=%d: destination balance leaked: %s", failOn, f.accounts.Balance(to.ID))
		}
		if len(f.transactions.Transactions) != 0 {
			t.Errorf("failOn=%d: transaction leaked", failOn)
		}
	}
}

// Balance equals the sum of signed deltas across an arbitrary mix of
// operations.
func TestBalanceMatchesSignedDeltaSum(t *testing.T) {
	f := newLedgerFixture()
	account := f.addAccount("0")

	deposits := []int64{100, 250, 75}
	expenses := []int64{40, 10}

	expected := decimal.Zero
	for _, amount := range deposits {
		if _, err := f.service.Deposit(context.Background(), f.userID, account.ID, decimal.NewFromInt(amount)); err != nil {
			t.Fatalf("Deposit failed: %v", err)
		}
		expected = expected.Add(decimal.NewFromInt(amount))
	}
	for _, amount := range expenses {
		_, err := f.service.RecordExpense(context.Background(), f.userID, ExpenseInput{
			AccountID:   account.ID,
			Description: "Expense",
			Source:      "Shop",
			Category:    "Misc",
			Amount:      decimal.NewFromInt(amount),
		})
		if err != nil {
			t.Fatalf("RecordExpense failed: %v", err)
		}
		expected = expected.Sub(decimal.NewFromInt(amount))
	}

	if !f.accounts.Balance(account.ID).Equal(expected) {
		t.Errorf("Expected balance %s, got %s", expected, f.accounts.Balance(account.ID))
	}

	// Cross-check against the recorded transactions themselves.
	sum := decimal.Zero
	for _, tx := range f.transactions.Transactions {
		sum = sum.Add(tx.Type.Delta(tx.Amount))
	}
	if !sum.Equal(expected) {
		t.Errorf("Expected delta sum %s, got %s", expected, sum)
	}
}

func TestDeleteTransaction_NotFound(t *testing.T) {
	f := newLedgerFixture()

	err := f.service.DeleteTransaction(context.Background(), f.userID, 42)
	if !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Fatalf("Expected ErrTransactionNotFound, got %v", err)
	}
}

func TestEditTransaction_IncomeToExpense(t *testing.T) {
	f := newLedgerFixture()
	account := f.addAccount("0")
	f.addBudget("Dining", "100")

	result, err := f.service.Deposit(context.Background(), f.userID, account.ID, decimal.NewFromInt(60))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	_, err = f.service.EditTransaction(context.Background(), f.userID, result.Transaction.ID, EditTransactionInput{
		AccountID:   account.ID,
		Description: "Dinner out",
		Source:      "Restaurant",
		Category:    "Dining",
		Amount:      decimal.NewFromInt(60),
		Type:        domain.TransactionTypeExpense,
		Status:      domain.TransactionStatusCompleted,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// +60 reversed to 0, then -60 applied.
	if !f.accounts.Balance(account.ID).Equal(decimal.NewFromInt(-60)) {
		t.Errorf("Expected balance -60, got %s", f.accounts.Balance(account.ID))
	}
	if !f.budgets.Spent(f.userID, "Dining").Equal(decimal.NewFromInt(60)) {
		t.Errorf("Expected spent 60, got %s", f.budgets.Spent(f.userID, "Dining"))
	}
}
