package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/finflow-app/finflow-backend/internal/domain"
	"github.com/finflow-app/finflow-backend/internal/middleware"
	"github.com/finflow-app/finflow-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// AccountHandler handles account-related HTTP requests
type AccountHandler struct {
	accountService *service.AccountService
	ledgerService  *service.LedgerService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService *service.AccountService, ledgerService *service.LedgerService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		ledgerService:  ledgerService,
	}
}

// CreateAccountRequest represents the create account request body
type CreateAccountRequest struct {
	Name          string `json:"name"`
	AccountNumber string `json:"accountNumber"`
	Type          string `json:"accountType"`
	Amount        string `json:"amount,omitempty"`
}

// AddMoneyRequest represents the add-money request body
type AddMoneyRequest struct {
	Amount string `json:"amount"`
}

// GetAccounts handles GET /api/v1/accounts
func (h *AccountHandler) GetAccounts(c echo.Context) error {
	userID := middleware.GetUserID(c)

	accounts, err := h.accountService.GetAccounts(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get accounts")
		return Failed(c, http.StatusInternalServerError, "Failed to get accounts")
	}

	return OK(c, "Accounts retrieved successfully", accounts)
}

// GetAccount handles GET /api/v1/accounts/:id
func (h *AccountHandler) GetAccount(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return Failed(c, http.StatusBadRequest, "Invalid account ID")
	}

	account, err := h.accountService.GetAccountByID(userID, int32(id))
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return Failed(c, http.StatusNotFound, "Account not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Int("account_id", id).Msg("Failed to get account")
		return Failed(c, http.StatusInternalServerError, "Failed to get account")
	}

	return OK(c, "Account retrieved successfully", account)
}

// CreateAccount handles POST /api/v1/accounts
func (h *AccountHandler) CreateAccount(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req CreateAccountRequest
	if err := c.Bind(&req); err != nil {
		return Failed(c, http.StatusBadRequest, "Invalid request body")
	}

	openingBalance := decimal.Zero
	if req.Amount != "" {
		var err error
		openingBalance, err = decimal.NewFromString(req.Amount)
		if err != nil {
			return Failed(c, http.StatusBadRequest, "Invalid amount")
		}
	}

	account, err := h.ledgerService.OpenAccount(c.Request().Context(), userID, service.OpenAccountInput{
		Name:           req.Name,
		AccountNumber:  req.AccountNumber,
		Type:           domain.AccountType(req.Type),
		OpeningBalance: openingBalance,
	})
	if err != nil {
		if errors.Is(err, domain.ErrMissingFields) {
			return Failed(c, http.StatusBadRequest, "Provide required fields")
		}
		if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrInvalidAmount) {
			return Failed(c, http.StatusBadRequest, "Invalid account details")
		}
		if errors.Is(err, domain.ErrInvalidAccountType) {
			return Failed(c, http.StatusBadRequest, "Account type must be one of: bank, cash, credit, investment")
		}
		if errors.Is(err, domain.ErrDuplicateAccountNumber) {
			return Failed(c, http.StatusConflict, "Account with this number already exists")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create account")
		return Failed(c, http.StatusInternalServerError, "Failed to create account")
	}

	log.Info().Str("user_id", userID.String()).Int32("account_id", account.ID).Str("name", account.Name).Msg("Account created")
	return Created(c, "Account created successfully", account)
}

// AddMoney handles PUT /api/v1/accounts/:id/add-money
func (h *AccountHandler) AddMoney(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return Failed(c, http.StatusBadRequest, "Invalid account ID")
	}

	var req AddMoneyRequest
	if err := c.Bind(&req); err != nil {
		return Failed(c, http.StatusBadRequest, "Invalid request body")
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return Failed(c, http.StatusBadRequest, "Invalid amount")
	}

	result, err := h.ledgerService.Deposit(c.Request().Context(), userID, int32(id), amount)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAmount) {
			return Failed(c, http.StatusBadRequest, "Amount must be greater than zero")
		}
		if errors.Is(err, domain.ErrAccountNotFound) {
			return Failed(c, http.StatusNotFound, "Account not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Int("account_id", id).Msg("Failed to add money")
		return Failed(c, http.StatusInternalServerError, "Failed to add money")
	}

	log.Info().Str("user_id", userID.String()).Int32("account_id", result.Account.ID).Msg("Money added to account")
	return OK(c, "Money added successfully", result.Account)
}
