package service

import (
	"errors"
	"testing"

	"github.com/finflow-app/finflow-backend/internal/domain"
	"github.com/finflow-app/finflow-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestGetAccounts_OwnerScoped(t *testing.T) {
	accountRepo := testutil.NewMockAccountRepository()
	accountService := NewAccountService(accountRepo)
	owner := uuid.New()
	stranger := uuid.New()

	accountRepo.AddAccount(&domain.Account{UserID: owner, Name: "Mine", Type: domain.AccountTypeBank, Balance: decimal.Zero})
	accountRepo.AddAccount(&domain.Account{UserID: stranger, Name: "Theirs", Type: domain.AccountTypeBank, Balance: decimal.Zero})

	accounts, err := accountService.GetAccounts(owner)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("Expected 1 account, got %d", len(accounts))
	}
	if accounts[0].Name != "Mine" {
		t.Errorf("Expected own account, got %s", accounts[0].Name)
	}
}

func TestGetAccounts_NewestFirst(t *testing.T) {
	accountRepo := testutil.NewMockAccountRepository()
	accountService := NewAccountService(accountRepo)
	owner := uuid.New()

	accountRepo.AddAccount(&domain.Account{UserID: owner, Name: "First", Type: domain.AccountTypeBank, Balance: decimal.Zero})
	accountRepo.AddAccount(&domain.Account{UserID: owner, Name: "Second", Type: domain.AccountTypeBank, Balance: decimal.Zero})

	accounts, err := accountService.GetAccounts(owner)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if accounts[0].Name != "Second" {
		t.Errorf("Expected newest account first, got %s", accounts[0].Name)
	}
}

func TestGetAccountByID_NotFoundForStranger(t *testing.T) {
	accountRepo := testutil.NewMockAccountRepository()
	accountService := NewAccountService(accountRepo)
	owner := uuid.New()

	account := accountRepo.AddAccount(&domain.Account{UserID: owner, Name: "Mine", Type: domain.AccountTypeBank, Balance: decimal.Zero})

	if _, err := accountService.GetAccountByID(owner, account.ID); err != nil {
		t.Fatalf("Expected no error for owner, got %v", err)
	}
	if _, err := accountService.GetAccountByID(uuid.New(), account.ID); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("Expected ErrAccountNotFound for stranger, got %v", err)
	}
}
