package handler

import (
	"net/http"

	"github.com/expensio/expensio-backend/internal/domain"
	"github.com/labstack/echo/v4"
)

// Envelope is the uniform response wrapper
type Envelope struct {
	Success    bool            `json:"success"`
	Data       interface{}     `json:"data,omitempty"`
	Pagination *PaginationMeta `json:"pagination,omitempty"`
	Error      *ErrorBody      `json:"error,omitempty"`
}

// PaginationMeta carries paging information on list responses
type PaginationMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// ErrorBody is the error half of the envelope
type ErrorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  []ValidationError `json:"fields,omitempty"`
}

// ValidationError represents a single field-level validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error codes
const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeNotFound       = "NOT_FOUND"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeForbidden      = "FORBIDDEN"
	CodeConflict       = "CONFLICT"
	CodeLimitExceeded  = "CATEGORY_LIMIT_EXCEEDED"
	CodeAlreadyDeleted = "ALREADY_DELETED"
	CodeNotConfigured  = "NOT_CONFIGURED"
	CodeInternal       = "INTERNAL_ERROR"
)

// OK writes a success envelope
func OK(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, Envelope{Success: true, Data: data})
}

// OKPaginated writes a success envelope with pagination metadata
func OKPaginated(c echo.Context, data interface{}, p domain.Pagination) error {
	return c.JSON(http.StatusOK, Envelope{
		Success: true,
		Data:    data,
		Pagination: &PaginationMeta{
			Page:       p.Page,
			PageSize:   p.PageSize,
			Total:      p.Total,
			TotalPages: p.TotalPages,
		},
	})
}

func fail(c echo.Context, status int, code, message string, fields []ValidationError) error {
	return c.JSON(status, Envelope{
		Success: false,
		Error:   &ErrorBody{Code: code, Message: message, Fields: fields},
	})
}

// NewValidationError creates a 400 validation error response
func NewValidationError(c echo.Context, message string, fields []ValidationError) error {
	return fail(c, http.StatusBadRequest, CodeValidation, message, fields)
}

// NewNotFoundError creates a 404 response
func NewNotFoundError(c echo.Context, message string) error {
	return fail(c, http.StatusNotFound, CodeNotFound, message, nil)
}

// NewUnauthorizedError creates a 401 response
func NewUnauthorizedError(c echo.Context, message string) error {
	return fail(c, http.StatusUnauthorized, CodeUnauthorized, message, nil)
}

// NewForbiddenError creates a 403 response
func NewForbiddenError(c echo.Context, message string) error {
	return fail(c, http.StatusForbidden, CodeForbidden, message, nil)
}

// NewConflictError creates a 409 response
func NewConflictError(c echo.Context, code, message string) error {
	return fail(c, http.StatusConflict, code, message, nil)
}

// NewUnprocessableError creates a 422 response for business rule violations
func NewUnprocessableError(c echo.Context, code, message string) error {
	return fail(c, http.StatusUnprocessableEntity, code, message, nil)
}

// NewNotImplementedError creates a 501 response for disabled features
func NewNotImplementedError(c echo.Context, message string) error {
	return fail(c, http.StatusNotImplemented, CodeNotConfigured, message, nil)
}

// NewInternalError creates a 500 response
func NewInternalError(c echo.Context, message string) error {
	return fail(c, http.StatusInternalServerError, CodeInternal, message, nil)
}
