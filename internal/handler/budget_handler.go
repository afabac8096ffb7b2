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

// BudgetHandler handles budget-related HTTP requests
type BudgetHandler struct {
	budgetService *service.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// BudgetRequest represents the create/update budget request body
type BudgetRequest struct {
	Category     string `json:"category"`
	BudgetAmount string `json:"budgetAmount"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
}

func (r *BudgetRequest) toInput() (service.CreateBudgetInput, error) {
	amount, err := decimal.NewFromString(r.BudgetAmount)
	if err != nil {
		return service.CreateBudgetInput{}, err
	}
	start, err := time.Parse("2006-01-02", r.StartDate)
	if err != nil {
		return service.CreateBudgetInput{}, err
	}
	end, err := time.Parse("2006-01-02", r.EndDate)
	if err != nil {
		return service.CreateBudgetInput{}, err
	}
	return service.CreateBudgetInput{
		Category:     r.Category,
		BudgetAmount: amount,
		StartDate:    start,
		EndDate:      end,
	}, nil
}

// GetBudgets handles GET /api/v1/budgets
func (h *BudgetHandler) GetBudgets(c echo.Context) error {
	userID := middleware.GetUserID(c)

	budgets, err := h.budgetService.GetBudgets(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get budgets")
		return Failed(c, http.StatusInternalServerError, "Failed to get budgets")
	}

	return OK(c, "Budgets retrieved successfully", budgets)
}

// CreateBudget handles POST /api/v1/budgets
func (h *BudgetHandler) CreateBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req BudgetRequest
	if err := c.Bind(&req); err != nil {
		return Failed(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.Category == "" || req.BudgetAmount == "" || req.StartDate == "" || req.EndDate == "" {
		return Failed(c, http.StatusBadRequest, "Provide required fields")
	}
	input, err := req.toInput()
	if err != nil {
		return Failed(c, http.StatusBadRequest, "Invalid amount or date")
	}

	budget, err := h.budgetService.CreateBudget(userID, input)
	if err != nil {
		if errors.Is(err, domain.ErrMissingFields) {
			return Failed(c, http.StatusBadRequest, "Provide required fields")
		}
		if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrInvalidAmount) {
			return Failed(c, http.StatusBadRequest, "Invalid budget details")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create budget")
		return Failed(c, http.StatusInternalServerError, "Failed to create budget")
	}

	log.Info().Str("user_id", userID.String()).Int32("budget_id", budget.ID).Str("category", budget.Category).Msg("Budget created")
	return Created(c, "Budget created successfully", budget)
}

// UpdateBudget handles PUT /api/v1/budgets/:id
func (h *BudgetHandler) UpdateBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return Failed(c, http.StatusBadRequest, "Invalid budget ID")
	}

	var req BudgetRequest
	if err := c.Bind(&req); err != nil {
		return Failed(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.Category == "" || req.BudgetAmount == "" || req.StartDate == "" || req.EndDate == "" {
		return Failed(c, http.StatusBadRequest, "Provide required fields")
	}
	input, err := req.toInput()
	if err != nil {
		return Failed(c, http.StatusBadRequest, "Invalid amount or date")
	}

	budget, err := h.budgetService.UpdateBudget(userID, int32(id), input)
	if err != nil {
		if errors.Is(err, domain.ErrMissingFields) {
			return Failed(c, http.StatusBadRequest, "Provide required fields")
		}
		if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrInvalidAmount) {
			return Failed(c, http.StatusBadRequest, "Invalid budget details")
		}
		if errors.Is(err, domain.ErrBudgetNotFound) {
			return Failed(c, http.StatusNotFound, "Budget not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Int("budget_id", id).Msg("Failed to update budget")
		return Failed(c, http.StatusInternalServerError, "Failed to update budget")
	}

	log.Info().Str("user_id", userID.String()).Int32("budget_id", budget.ID).Msg("Budget updated")
	return OK(c, "Budget updated successfully", budget)
}

// DeleteBudget handles DELETE /api/v1/budgets/:id
func (h *BudgetHandler) DeleteBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return Failed(c, http.StatusBadRequest, "Invalid budget ID")
	}

	if err := h.budgetService.DeleteBudget(userID, int32(id)); err != nil {
		if errors.Is(err, domain.ErrBudgetNotFound) {
			return Failed(c, http.StatusNotFound, "Budget not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Int("budget_id", id).Msg("Failed to delete budget")
		return Failed(c, http.StatusInternalServerError, "Failed to delete budget")
	}

	log.Info().Str("user_id", userID.String()).Int("budget_id", id).Msg("Budget deleted")
	return OK(c, "Budget deleted successfully", nil)
}
