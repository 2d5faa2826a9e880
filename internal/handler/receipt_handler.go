package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/expensio/expensio-backend/internal/domain"
	"github.com/expensio/expensio-backend/internal/middleware"
	"github.com/expensio/expensio-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ReceiptHandler handles expense receipt uploads and deletions
type ReceiptHandler struct {
	receiptService *service.ReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler
func NewReceiptHandler(receiptService *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// AttachReceipt handles POST /api/v1/expenses/:id/receipt
func (h *ReceiptHandler) AttachReceipt(c echo.Context) error {
	companyID := middleware.GetCompanyID(c)
	if companyID == uuid.Nil {
		return NewUnauthorizedError(c, "Company required")
	}

	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	file, err := c.FormFile("receipt")
	if err != nil {
		return NewValidationError(c, "A receipt file is required", []ValidationError{
			{Field: "receipt", Message: "Multipart field 'receipt' is missing"},
		})
	}

	src, err := file.Open()
	if err != nil {
		return NewValidationError(c, "Unable to read receipt file", nil)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, service.MaxReceiptSize+1))
	if err != nil {
		return NewValidationError(c, "Unable to read receipt file", nil)
	}

	meta, err := h.receiptService.AttachReceipt(c.Request().Context(), companyID, expenseID, data, file.Filename)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReceiptStorageNotConfigured):
			return NewNotImplementedError(c, "Receipt storage is not configured")
		case errors.Is(err, domain.ErrExpenseNotFound):
			return NewNotFoundError(c, "Expense not found")
		case errors.Is(err, service.ErrReceiptTooLarge),
			errors.Is(err, service.ErrInvalidReceiptFormat),
			errors.Is(err, service.ErrReceiptTooSmall),
			errors.Is(err, service.ErrInvalidReceiptData):
			return NewValidationError(c, err.Error(), nil)
		}
		log.Error().Err(err).Str("expense_id", expenseID.String()).Msg("Failed to attach receipt")
		return NewInternalError(c, "Failed to attach receipt")
	}

	log.Info().Str("company_id", companyID.String()).Str("expense_id", expenseID.String()).Msg("Receipt attached")
	return OK(c, http.StatusCreated, meta)
}

// GetReceipt handles GET /api/v1/expenses/:id/receipt
func (h *ReceiptHandler) GetReceipt(c echo.Context) error {
	companyID := middleware.GetCompanyID(c)
	if companyID == uuid.Nil {
		return NewUnauthorizedError(c, "Company required")
	}

	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	meta, err := h.receiptService.GetReceipt(c.Request().Context(), companyID, expenseID)
	if err != nil {
		if errors.Is(err, service.ErrReceiptStorageNotConfigured) {
			return NewNotImplementedError(c, "Receipt storage is not configured")
		}
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		log.Error().Err(err).Str("expense_id", expenseID.String()).Msg("Failed to get receipt")
		return NewInternalError(c, "Failed to get receipt")
	}

	return OK(c, http.StatusOK, meta)
}

// RemoveReceipt handles DELETE /api/v1/expenses/:id/receipt
func (h *ReceiptHandler) RemoveReceipt(c echo.Context) error {
	companyID := middleware.GetCompanyID(c)
	if companyID == uuid.Nil {
		return NewUnauthorizedError(c, "Company required")
	}

	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	if err := h.receiptService.RemoveReceipt(c.Request().Context(), companyID, expenseID); err != nil {
		if errors.Is(err, service.ErrReceiptStorageNotConfigured) {
			return NewNotImplementedError(c, "Receipt storage is not configured")
		}
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		log.Error().Err(err).Str("expense_id", expenseID.String()).Msg("Failed to remove receipt")
		return NewInternalError(c, "Failed to remove receipt")
	}

	log.Info().Str("company_id", companyID.String()).Str("expense_id", expenseID.String()).Msg("Receipt removed")
	return c.NoContent(http.StatusNoContent)
}
