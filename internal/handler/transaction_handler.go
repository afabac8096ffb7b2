package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/finflow-app/finflow-backend/internal/domain"
	"github.com/finflow-app/finflow-backend/internal/middleware"
	"github.com/finflow-app/finflow-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
	ledgerService      *service.LedgerService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService, ledgerService *service.LedgerService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		ledgerService:      ledgerService,
	}
}

// CreateExpenseRequest represents the create expense request body
type CreateExpenseRequest struct {
	AccountID   int32  `json:"accountId"`
	Description string `json:"description"`
	Source      string `json:"source"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
}

// UpdateTransactionRequest represents the edit transaction request body
type UpdateTransactionRequest struct {
	AccountID   int32  `json:"accountId"`
	Description string `json:"description"`
	Source      string `json:"source"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	Type        string `json:"type"`
	Status      string `json:"status"`
}

// TransferRequest represents the transfer request body
type TransferRequest struct {
	FromAccountID int32  `json:"fromAccount"`
	ToAccountID   int32  `json:"toAccount"`
	Amount        string `json:"amount"`
}

// GetTransactions handles GET /api/v1/transactions
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	userID := middleware.GetUserID(c)

	filters := &domain.TransactionFilters{Search: c.QueryParam("s")}
	if df := c.QueryParam("df"); df != "" {
		start, err := time.Parse("2006-01-02", df)
		if err != nil {
			return Failed(c, http.StatusBadRequest, "Invalid date filter")
		}
		filters.StartDate = start
	}
	if dt := c.QueryParam("dt"); dt != "" {
		end, err := time.Parse("2006-01-02", dt)
		if err != nil {
			return Failed(c, http.StatusBadRequest, "Invalid date filter")
		}
		filters.EndDate = end.Add(24*time.Hour - time.Nanosecond)
	}

	transactions, err := h.transactionService.SearchTransactions(userID, filters)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get transactions")
		return Failed(c, http.StatusInternalServerError, "Failed to get transactions")
	}

	return OK(c, "Transactions retrieved successfully", transactions)
}

// CreateTransaction handles POST /api/v1/transactions
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req CreateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return Failed(c, http.StatusBadRequest, "Invalid request body")
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return Failed(c, http.StatusBadRequest, "Invalid amount")
	}

	transaction, err := h.ledgerService.RecordExpense(c.Request().Context(), userID, service.ExpenseInput{
		AccountID:   req.AccountID,
		Description: req.Description,
		Source:      req.Source,
		Category:    req.Category,
		Amount:      amount,
	})
	if err != nil {
		if errors.Is(err, domain.ErrMissingFields) {
			return Failed(c, http.StatusBadRequest, "Provide required fields")
		}
		if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrInvalidAmount) {
			return Failed(c, http.StatusBadRequest, "Invalid transaction details")
		}
		if errors.Is(err, domain.ErrAccountNotFound) {
			return Failed(c, http.StatusNotFound, "Account not found")
		}
		if errors.Is(err, domain.ErrInsufficientFunds) {
			return Failed(c, http.StatusForbidden, "Insufficient account balance")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create transaction")
		return Failed(c, http.StatusInternalServerError, "Failed to create transaction")
	}

	log.Info().Str("user_id", userID.String()).Int32("transaction_id", transaction.ID).Msg("Transaction created")
	return Created(c, "Transaction created successfully", transaction)
}

// UpdateTransaction handles PUT /api/v1/transactions/:id
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return Failed(c, http.StatusBadRequest, "Invalid transaction ID")
	}

	var req UpdateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return Failed(c, http.StatusBadRequest, "Invalid request body")
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return Failed(c, http.StatusBadRequest, "Invalid amount")
	}

	transaction, err := h.ledgerService.EditTransaction(c.Request().Context(), userID, int32(id), service.EditTransactionInput{
		AccountID:   req.AccountID,
		Description: req.Description,
		Source:      req.Source,
		Category:    req.Category,
		Amount:      amount,
		Type:        domain.TransactionType(req.Type),
		Status:      domain.TransactionStatus(req.Status),
	})
	if err != nil {
		if errors.Is(err, domain.ErrMissingFields) {
			return Failed(c, http.StatusBadRequest, "Provide required fields")
		}
		if errors.Is(err, domain.ErrInvalidAmount) {
			return Failed(c, http.StatusBadRequest, "Amount must be greater than zero")
		}
		if errors.Is(err, domain.ErrInvalidTransactionType) {
			return Failed(c, http.StatusBadRequest, "Type must be income or expense")
		}
		if errors.Is(err, domain.ErrInvalidStatus) {
			return Failed(c, http.StatusBadRequest, "Status must be Completed, Pending or Failed")
		}
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return Failed(c, http.StatusNotFound, "Transaction not found")
		}
		if errors.Is(err, domain.ErrAccountNotFound) {
			return Failed(c, http.StatusNotFound, "Account not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Int("transaction_id", id).Msg("Failed to update transaction")
		return Failed(c, http.StatusInternalServerError, "Failed to update transaction")
	}

	log.Info().Str("user_id", userID.String()).Int32("transaction_id", transaction.ID).Msg("Transaction updated")
	return OK(c, "Transaction updated successfully", transaction)
}

// DeleteTransaction handles DELETE /api/v1/transactions/:id
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return Failed(c, http.StatusBadRequest, "Invalid transaction ID")
	}

	if err := h.ledgerService.DeleteTransaction(c.Request().Context(), userID, int32(id)); err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return Failed(c, http.StatusNotFound, "Transaction not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Int("transaction_id", id).Msg("Failed to delete transaction")
		return Failed(c, http.StatusInternalServerError, "Failed to delete transaction")
	}

	log.Info().Str("user_id", userID.String()).Int("transaction_id", id).Msg("Transaction deleted")
	return OK(c, "Transaction deleted successfully", nil)
}

// Transfer handles PUT /api/v1/transactions/transfer
func (h *TransactionHandler) Transfer(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req TransferRequest
	if err := c.Bind(&req); err != nil {
		return Failed(c, http.StatusBadRequest, "Invalid request body")
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return Failed(c, http.StatusBadRequest, "Invalid amount")
	}

	result, err := h.ledgerService.Transfer(c.Request().Context(), userID, service.TransferInput{
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        amount,
	})
	if err != nil {
		if errors.Is(err, domain.ErrSameAccountTransfer) {
			return Failed(c, http.StatusBadRequest, "Cannot transfer to the same account")
		}
		if errors.Is(err, domain.ErrInvalidAmount) {
			return Failed(c, http.StatusBadRequest, "Amount must be greater than zero")
		}
		if errors.Is(err, domain.ErrAccountNotFound) {
			return Failed(c, http.StatusNotFound, "Account not found")
		}
		if errors.Is(err, domain.ErrInsufficientFunds) {
			return Failed(c, http.StatusForbidden, "Insufficient account balance")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to transfer")
		return Failed(c, http.StatusInternalServerError, "Failed to transfer")
	}

	log.Info().Str("user_id", userID.String()).Int32("from_account", req.FromAccountID).Int32("to_account", req.ToAccountID).Msg("Transfer completed")
	return OK(c, "Transfer completed successfully", result)
}
