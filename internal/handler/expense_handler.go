package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/expensio/expensio-backend/internal/domain"
	"github.com/expensio/expensio-backend/internal/middleware"
	"github.com/expensio/expensio-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ExpenseHandler handles expense HTTP requests
type ExpenseHandler struct {
	expenseService *service.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// CreateExpenseRequest represents the create expense request body
type CreateExpenseRequest struct {
	CategoryID   string          `json:"categoryId"`
	Amount       decimal.Decimal `json:"amount"`
	DateProduced string          `json:"dateProduced"`
}

// UpdateExpenseRequest represents the update expense request body
type UpdateExpenseRequest struct {
	CategoryID   *string          `json:"categoryId"`
	Amount       *decimal.Decimal `json:"amount"`
	DateProduced *string          `json:"dateProduced"`
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID           string  `json:"id"`
	CompanyID    string  `json:"companyId"`
	CategoryID   string  `json:"categoryId"`
	UserID       string  `json:"userId"`
	Amount       string  `json:"amount"`
	DateProduced string  `json:"dateProduced"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
	DeletedAt    *string `json:"deletedAt,omitempty"`
}

// parseDate accepts RFC3339 timestamps or plain dates
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// CreateExpense handles POST /api/v1/expenses
func (h *ExpenseHandler) CreateExpense(c echo.Context) error {
	companyID := middleware.GetCompanyID(c)
	if companyID == uuid.Nil {
		return NewUnauthorizedError(c, "Company required")
	}
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User required")
	}

	var req CreateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "categoryId", Message: "Must be a valid UUID"},
		})
	}

	dateProduced, err := parseDate(req.DateProduced)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "dateProduced", Message: "Must be an RFC3339 timestamp or YYYY-MM-DD date"},
		})
	}

	expense, err := h.expenseService.CreateExpense(companyID, categoryID, userID, req.Amount, dateProduced)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAmount) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "amount", Message: "Amount must not be negative"},
			})
		}
		if errors.Is(err, domain.ErrInvalidDate) || errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, "Validation failed", nil)
		}
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return NewNotFoundError(c, "Category not found")
		}
		if errors.Is(err, domain.ErrCategoryLimitExceeded) {
			return NewUnprocessableError(c, CodeLimitExceeded, "Expense amount exceeds the category limit")
		}
		log.Error().Err(err).Str("company_id", companyID.String()).Msg("Failed to create expense")
		return NewInternalError(c, "Failed to create expense")
	}

	log.Info().Str("company_id", companyID.String()).Str("expense_id", expense.ID.String()).Msg("Expense created")
	return OK(c, http.StatusCreated, toExpenseResponse(expense))
}

// GetExpenses handles GET /api/v1/expenses
func (h *ExpenseHandler) GetExpenses(c echo.Context) error {
	companyID := middleware.GetCompanyID(c)
	if companyID == uuid.Nil {
		return NewUnauthorizedError(c, "Company required")
	}

	filters := &domain.ExpenseFilters{}
	if page := c.QueryParam("page"); page != "" {
		n, err := strconv.Atoi(page)
		if err != nil || n < 1 {
			return NewValidationError(c, "Invalid page parameter", nil)
		}
		filters.Page = n
	}
	if pageSize := c.QueryParam("pageSize"); pageSize != "" {
		n, err := strconv.Atoi(pageSize)
		if err != nil || n < 1 {
			return NewValidationError(c, "Invalid pageSize parameter", nil)
		}
		filters.PageSize = n
	}
	if categoryID := c.QueryParam("categoryId"); categoryID != "" {
		id, err := uuid.Parse(categoryID)
		if err != nil {
			return NewValidationError(c, "Invalid categoryId parameter", nil)
		}
		filters.CategoryID = &id
	}
	if startDate := c.QueryParam("startDate"); startDate != "" {
		t, err := parseDate(startDate)
		if err != nil {
			return NewValidationError(c, "Invalid startDate parameter", nil)
		}
		filters.StartDate = &t
	}
	if endDate := c.QueryParam("endDate"); endDate != "" {
		t, err := parseDate(endDate)
		if err != nil {
			return NewValidationError(c, "Invalid endDate parameter", nil)
		}
		filters.EndDate = &t
	}

	result, err := h.expenseService.GetExpenses(companyID, middleware.GetRole(c), filters)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidDateRange) {
			return NewValidationError(c, "startDate must not be after endDate", nil)
		}
		log.Error().Err(err).Str("company_id", companyID.String()).Msg("Failed to list expenses")
		return NewInternalError(c, "Failed to list expenses")
	}

	response := make([]ExpenseResponse, len(result.Expenses))
	for i, expense := range result.Expenses {
		response[i] = toExpenseResponse(expense)
	}
	return OKPaginated(c, response, result.Pagination)
}

// GetExpense handles GET /api/v1/expenses/:id
func (h *ExpenseHandler) GetExpense(c echo.Context) error {
	companyID := middleware.GetCompanyID(c)
	if companyID == uuid.Nil {
		return NewUnauthorizedError(c, "Company required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	expense, err := h.expenseService.GetExpenseByID(companyID, id)
	if err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		log.Error().Err(err).Str("company_id", companyID.String()).Str("expense_id", id.String()).Msg("Failed to get expense")
		return NewInternalError(c, "Failed to get expense")
	}

	return OK(c, http.StatusOK, toExpenseResponse(expense))
}

// UpdateExpense handles PUT /api/v1/expenses/:id
func (h *ExpenseHandler) UpdateExpense(c echo.Context) error {
	companyID := middleware.GetCompanyID(c)
	if companyID == uuid.Nil {
		return NewUnauthorizedError(c, "Company required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	var req UpdateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	data := &domain.UpdateExpenseData{Amount: req.Amount}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "categoryId", Message: "Must be a valid UUID"},
			})
		}
		data.CategoryID = &categoryID
	}
	if req.DateProduced != nil {
		dateProduced, err := parseDate(*req.DateProduced)
		if err != nil {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "dateProduced", Message: "Must be an RFC3339 timestamp or YYYY-MM-DD date"},
			})
		}
		data.DateProduced = &dateProduced
	}

	expense, err := h.expenseService.UpdateExpense(id, data)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyUpdate) {
			return NewValidationError(c, "At least one field must be provided", nil)
		}
		if errors.Is(err, domain.ErrInvalidAmount) || errors.Is(err, domain.ErrInvalidDate) {
			return NewValidationError(c, "Validation failed", nil)
		}
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return NewNotFoundError(c, "Category not found")
		}
		log.Error().Err(err).Str("expense_id", id.String()).Msg("Failed to update expense")
		return NewInternalError(c, "Failed to update expense")
	}

	log.Info().Str("expense_id", expense.ID.String()).Msg("Expense updated")
	return OK(c, http.StatusOK, toExpenseResponse(expense))
}

// DeleteExpense handles DELETE /api/v1/expenses/:id
func (h *ExpenseHandler) DeleteExpense(c echo.Context) error {
	companyID := middleware.GetCompanyID(c)
	if companyID == uuid.Nil {
		return NewUnauthorizedError(c, "Company required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	expense, err := h.expenseService.SoftDeleteExpense(companyID, id)
	if err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		if errors.Is(err, domain.ErrExpenseAlreadyDeleted) {
			return NewConflictError(c, CodeAlreadyDeleted, "Expense is already deleted")
		}
		log.Error().Err(err).Str("company_id", companyID.String()).Str("expense_id", id.String()).Msg("Failed to delete expense")
		return NewInternalError(c, "Failed to delete expense")
	}

	log.Info().Str("company_id", companyID.String()).Str("expense_id", id.String()).Msg("Expense deleted (soft)")
	return OK(c, http.StatusOK, toExpenseResponse(expense))
}

// GetTopCategories handles GET /api/v1/expenses/top-categories
func (h *ExpenseHandler) GetTopCategories(c echo.Context) error {
	companyID := middleware.GetCompanyID(c)
	if companyID == uuid.Nil {
		return NewUnauthorizedError(c, "Company required")
	}

	top, err := h.expenseService.GetTopExpenseCategories(companyID)
	if err != nil {
		log.Error().Err(err).Str("company_id", companyID.String()).Msg("Failed to get top categories")
		return NewInternalError(c, "Failed to get top categories")
	}

	return OK(c, http.StatusOK, top)
}

// GetExpensesByCategoryAndDateRange handles
// GET /api/v1/expenses/categories/:categoryId
func (h *ExpenseHandler) GetExpensesByCategoryAndDateRange(c echo.Context) error {
	companyID := middleware.GetCompanyID(c)
	if companyID == uuid.Nil {
		return NewUnauthorizedError(c, "Company required")
	}

	categoryID, err := uuid.Parse(c.Param("categoryId"))
	if err != nil {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	startParam := c.QueryParam("startDate")
	endParam := c.QueryParam("endDate")
	if startParam == "" || endParam == "" {
		return NewValidationError(c, "startDate and endDate are required", nil)
	}
	start, err := parseDate(startParam)
	if err != nil {
		return NewValidationError(c, "Invalid startDate parameter", nil)
	}
	end, err := parseDate(endParam)
	if err != nil {
		return NewValidationError(c, "Invalid endDate parameter", nil)
	}

	expenses, err := h.expenseService.GetExpensesByCategoryAndDateRange(companyID, categoryID, start, end)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidDateRange) {
			return NewValidationError(c, "startDate must not be after endDate", nil)
		}
		if errors.Is(err, domain.ErrInvalidDate) {
			return NewValidationError(c, "Invalid date parameters", nil)
		}
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return NewNotFoundError(c, "Category not found")
		}
		log.Error().Err(err).Str("company_id", companyID.String()).Str("category_id", categoryID.String()).Msg("Failed to get expenses by category")
		return NewInternalError(c, "Failed to get expenses")
	}

	response := make([]ExpenseResponse, len(expenses))
	for i, expense := range expenses {
		response[i] = toExpenseResponse(expense)
	}
	return OK(c, http.StatusOK, response)
}

// toExpenseResponse converts a domain.Expense to its API shape
func toExpenseResponse(expense *domain.Expense) ExpenseResponse {
	resp := ExpenseResponse{
		ID:           expense.ID.String(),
		CompanyID:    expense.CompanyID.String(),
		CategoryID:   expense.CategoryID.String(),
		UserID:       expense.UserID.String(),
		Amount:       expense.Amount.String(),
		DateProduced: expense.DateProduced.Format(time.RFC3339),
		CreatedAt:    expense.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    expense.UpdatedAt.Format(time.RFC3339),
	}
	if expense.DeletedAt != nil {
		deletedAt := expense.DeletedAt.Format(time.RFC3339)
		resp.DeletedAt = &deletedAt
	}
	return resp
}
