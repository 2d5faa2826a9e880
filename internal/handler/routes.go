package handler

import (
	"github.com/expensio/expensio-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, identity *middleware.IdentityMiddleware, limiter *middleware.RateLimiter, categoryHandler *CategoryHandler, expenseHandler *ExpenseHandler, receiptHandler *ReceiptHandler, wsHandler *WebSocketHandler) {
	// API version 1
	api := e.Group("/api/v1")
	api.Use(identity.Authenticate())
	api.Use(middleware.RateLimitMiddleware(limiter))

	// Category routes
	categories := api.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.GET("/:id", categoryHandler.GetCategory)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Expense routes. Static segments registered before :id so Echo routes
	// them correctly.
	expenses := api.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.GET("/top-categories", expenseHandler.GetTopCategories)
	expenses.GET("/categories/:categoryId", expenseHandler.GetExpensesByCategoryAndDateRange)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	// Receipt routes
	expenses.POST("/:id/receipt", receiptHandler.AttachReceipt)
	expenses.GET("/:id/receipt", receiptHandler.GetReceipt)
	expenses.DELETE("/:id/receipt", receiptHandler.RemoveReceipt)

	// Realtime feed
	api.GET("/ws", wsHandler.Connect)
}
