package handler

import (
	"context"

	"github.com/expensio/expensio-backend/internal/domain"
	"github.com/expensio/expensio-backend/internal/middleware"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// setupIdentityContext injects the company/user identity the middleware would
// normally populate
func setupIdentityContext(c echo.Context, companyID, userID uuid.UUID, role domain.Role) {
	ctx := c.Request().Context()
	if companyID != uuid.Nil {
		ctx = context.WithValue(ctx, middleware.CompanyIDKey, companyID)
	}
	if userID != uuid.Nil {
		ctx = context.WithValue(ctx, middleware.UserIDKey, userID)
	}
	if role != "" {
		ctx = context.WithValue(ctx, middleware.RoleKey, role)
	}
	c.SetRequest(c.Request().WithContext(ctx))
}
