package handler

import (
	"github.com/finflow-app/finflow-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, authHandler *AuthHandler, accountHandler *AccountHandler, transactionHandler *TransactionHandler, budgetHandler *BudgetHandler, dashboardHandler *DashboardHandler) {
	// API version 1
	api := e.Group("/api/v1")

	// Auth routes (public)
	auth := api.Group("/auth")
	auth.POST("/sign-up", authHandler.SignUp)
	auth.POST("/sign-in", authHandler.SignIn)
	auth.POST("/google", authHandler.GoogleSignIn)
	auth.GET("/logout", authHandler.Logout)

	// Account routes (protected)
	accounts := api.Group("/accounts")
	accounts.Use(authMiddleware.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))
	accounts.GET("", accountHandler.GetAccounts)
	accounts.GET("/:id", accountHandler.GetAccount)
	accounts.POST("", accountHandler.CreateAccount)
	accounts.PUT("/:id/add-money", accountHandler.AddMoney)

	// Transaction routes (protected)
	transactions := api.Group("/transactions")
	transactions.Use(authMiddleware.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.PUT("/transfer", transactionHandler.Transfer)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Budget routes (protected)
	budgets := api.Group("/budgets")
	budgets.Use(authMiddleware.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)

	// Dashboard routes (protected)
	dashboard := api.Group("/dashboard")
	dashboard.Use(authMiddleware.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))
	dashboard.GET("/summary", dashboardHandler.GetSummary)
}
