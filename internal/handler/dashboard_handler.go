package handler

import (
	"net/http"

	"github.com/finflow-app/finflow-backend/internal/middleware"
	"github.com/finflow-app/finflow-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// DashboardHandler handles dashboard HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetSummary handles GET /api/v1/dashboard/summary
func (h *DashboardHandler) GetSummary(c echo.Context) error {
	userID := middleware.GetUserID(c)

	summary, err := h.dashboardService.GetSummary(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get dashboard summary")
		return Failed(c, http.StatusInternalServerError, "Failed to get dashboard summary")
	}

	return OK(c, "Dashboard retrieved successfully", summary)
}
