package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/expensio/expensio-backend/internal/domain"
	"github.com/expensio/expensio-backend/internal/middleware"
	"github.com/expensio/expensio-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// CategoryHandler handles expense category HTTP requests
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CreateCategoryRequest represents the create category request body
type CreateCategoryRequest struct {
	Name        string           `json:"name"`
	Description *string          `json:"description"`
	Limit       *decimal.Decimal `json:"limit"`
}

// UpdateCategoryRequest represents the update category request body
type UpdateCategoryRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Limit       *decimal.Decimal `json:"limit"`
}

// CategoryResponse represents an expense category in API responses
type CategoryResponse struct {
	ID          string  `json:"id"`
	CompanyID   string  `json:"companyId"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Limit       *string `json:"limit,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
	DeletedAt   *string `json:"deletedAt,omitempty"`
}

// CreateCategory handles POST /api/v1/categories
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	companyID := middleware.GetCompanyID(c)
	if companyID == uuid.Nil {
		return NewUnauthorizedError(c, "Company required")
	}

	var req CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	category, err := h.categoryService.CreateCategory(companyID, req.Name, req.Description, req.Limit)
	if err != nil {
		if errors.Is(err, domain.ErrNameRequired) {
			return NewValidationError(c, "Category name is required", []ValidationError{
				{Field: "name", Message: "Name cannot be empty"},
			})
		}
		if errors.Is(err, domain.ErrNameTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: fmt.Sprintf("Name must be %d characters or less", domain.MaxCategoryNameLength)},
			})
		}
		if errors.Is(err, domain.ErrInvalidLimit) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "limit", Message: "Limit must not be negative"},
			})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "description", Message: fmt.Sprintf("Description must be %d characters or less", domain.MaxCategoryDescriptionLength)},
			})
		}
		if errors.Is(err, domain.ErrCategoryAlreadyExists) {
			return NewConflictError(c, CodeConflict, "A category with this name already exists")
		}
		log.Error().Err(err).Str("company_id", companyID.String()).Msg("Failed to create category")
		return NewInternalError(c, "Failed to create category")
	}

	log.Info().Str("company_id", companyID.String()).Str("category_id", category.ID.String()).Str("name", category.Name).Msg("Category created")

	return OK(c, http.StatusCreated, toCategoryResponse(category))
}

// GetCategories handles GET /api/v1/categories
func (h *CategoryHandler) GetCategories(c echo.Context) error {
	companyID := middleware.GetCompanyID(c)
	if companyID == uuid.Nil {
		return NewUnauthorizedError(c, "Company required")
	}

	categories, err := h.categoryService.GetCategories(companyID)
	if err != nil {
		log.Error().Err(err).Str("company_id", companyID.String()).Msg("Failed to list categories")
		return NewInternalError(c, "Failed to list categories")
	}

	response := make([]CategoryResponse, len(categories))
	for i, category := range categories {
		response[i] = toCategoryResponse(category)
	}

	return OK(c, http.StatusOK, response)
}

// GetCategory handles GET /api/v1/categories/:id
func (h *CategoryHandler) GetCategory(c echo.Context) error {
	companyID := middleware.GetCompanyID(c)
	if companyID == uuid.Nil {
		return NewUnauthorizedError(c, "Company required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	category, err := h.categoryService.GetCategoryByID(companyID, id)
	if err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return NewNotFoundError(c, "Category not found")
		}
		log.Error().Err(err).Str("company_id", companyID.String()).Str("category_id", id.String()).Msg("Failed to get category")
		return NewInternalError(c, "Failed to get category")
	}

	return OK(c, http.StatusOK, toCategoryResponse(category))
}

// UpdateCategory handles PUT /api/v1/categories/:id
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	companyID := middleware.GetCompanyID(c)
	if companyID == uuid.Nil {
		return NewUnauthorizedError(c, "Company required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	var req UpdateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	category, err := h.categoryService.UpdateCategory(companyID, id, &domain.UpdateCategoryData{
		Name:        req.Name,
		Description: req.Description,
		Limit:       req.Limit,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmptyUpdate) {
			return NewValidationError(c, "At least one field must be provided", nil)
		}
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return NewNotFoundError(c, "Category not found")
		}
		if errors.Is(err, domain.ErrNameRequired) || errors.Is(err, domain.ErrNameTooLong) ||
			errors.Is(err, domain.ErrInvalidLimit) || errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, "Validation failed", nil)
		}
		if errors.Is(err, domain.ErrCategoryAlreadyExists) {
			return NewConflictError(c, CodeConflict, "A category with this name already exists")
		}
		log.Error().Err(err).Str("company_id", companyID.String()).Str("category_id", id.String()).Msg("Failed to update category")
		return NewInternalError(c, "Failed to update category")
	}

	log.Info().Str("company_id", companyID.String()).Str("category_id", category.ID.String()).Msg("Category updated")
	return OK(c, http.StatusOK, toCategoryResponse(category))
}

// DeleteCategory handles DELETE /api/v1/categories/:id
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	companyID := middleware.GetCompanyID(c)
	if companyID == uuid.Nil {
		return NewUnauthorizedError(c, "Company required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	category, err := h.categoryService.DeleteCategory(companyID, id)
	if err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return NewNotFoundError(c, "Category not found")
		}
		log.Error().Err(err).Str("company_id", companyID.String()).Str("category_id", id.String()).Msg("Failed to delete category")
		return NewInternalError(c, "Failed to delete category")
	}

	log.Info().Str("company_id", companyID.String()).Str("category_id", id.String()).Msg("Category deleted (soft)")
	return OK(c, http.StatusOK, toCategoryResponse(category))
}

// toCategoryResponse converts a domain.ExpenseCategory to its API shape
func toCategoryResponse(category *domain.ExpenseCategory) CategoryResponse {
	resp := CategoryResponse{
		ID:          category.ID.String(),
		CompanyID:   category.CompanyID.String(),
		Name:        category.Name,
		Description: category.Description,
		CreatedAt:   category.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   category.UpdatedAt.Format(time.RFC3339),
	}
	if category.Limit != nil {
		limit := category.Limit.String()
		resp.Limit = &limit
	}
	if category.DeletedAt != nil {
		deletedAt := category.DeletedAt.Format(time.RFC3339)
		resp.DeletedAt = &deletedAt
	}
	return resp
}
