package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/expensio/expensio-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// CompanyIDKey is the context key for the caller's company ID
	CompanyIDKey contextKey = "company_id"
	// UserIDKey is the context key for the caller's user ID
	UserIDKey contextKey = "user_id"
	// RoleKey is the context key for the caller's role
	RoleKey contextKey = "role"
)

// identityError mirrors the response envelope without importing the handler
// package
type identityError struct {
	Success bool              `json:"success"`
	Error   map[string]string `json:"error"`
}

func unauthorized(c echo.Context, message string) error {
	return c.JSON(http.StatusUnauthorized, identityError{
		Success: false,
		Error:   map[string]string{"code": "UNAUTHORIZED", "message": message},
	})
}

// IdentityMiddleware extracts the caller's identity from request headers.
// Token validation happens upstream at the gateway; this layer only requires
// the headers to be present and the company to exist.
type IdentityMiddleware struct {
	companyRepo domain.CompanyRepository
}

// NewIdentityMiddleware creates a new IdentityMiddleware
func NewIdentityMiddleware(companyRepo domain.CompanyRepository) *IdentityMiddleware {
	return &IdentityMiddleware{companyRepo: companyRepo}
}

// Authenticate returns an Echo middleware that enforces identity headers
func (m *IdentityMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return unauthorized(c, "Missing authorization header")
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
				return unauthorized(c, "Invalid authorization header format")
			}

			companyHeader := c.Request().Header.Get("X-Company-Id")
			if companyHeader == "" {
				return unauthorized(c, "Missing X-Company-Id header")
			}
			companyID, err := uuid.Parse(companyHeader)
			if err != nil {
				return unauthorized(c, "Invalid X-Company-Id header")
			}

			if m.companyRepo != nil {
				exists, err := m.companyRepo.Exists(companyID)
				if err != nil {
					log.Error().Err(err).Str("company_id", companyID.String()).Msg("Company lookup failed")
					return unauthorized(c, "Unknown company")
				}
				if !exists {
					return unauthorized(c, "Unknown company")
				}
			}

			ctx := context.WithValue(c.Request().Context(), CompanyIDKey, companyID)

			if userHeader := c.Request().Header.Get("X-User-Id"); userHeader != "" {
				if userID, err := uuid.Parse(userHeader); err == nil {
					ctx = context.WithValue(ctx, UserIDKey, userID)
				}
			}
			if role := c.Request().Header.Get("X-User-Role"); role != "" {
				ctx = context.WithValue(ctx, RoleKey, domain.Role(role))
			}

			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// GetCompanyID extracts the company ID from the context
func GetCompanyID(c echo.Context) uuid.UUID {
	if id, ok := c.Request().Context().Value(CompanyIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// GetUserID extracts the user ID from the context
func GetUserID(c echo.Context) uuid.UUID {
	if id, ok := c.Request().Context().Value(UserIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// GetRole extracts the caller's role from the context
func GetRole(c echo.Context) domain.Role {
	if role, ok := c.Request().Context().Value(RoleKey).(domain.Role); ok {
		return role
	}
	return ""
}
