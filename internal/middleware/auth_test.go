package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/expensio/expensio-backend/internal/domain"
	"github.com/expensio/expensio-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func runIdentity(t *testing.T, companyRepo domain.CompanyRepository, headers map[string]string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var captured echo.Context
	handler := NewIdentityMiddleware(companyRepo).Authenticate()(func(c echo.Context) error {
		captured = c
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	return rec, captured
}

func TestIdentity_MissingAuthorization(t *testing.T) {
	rec, _ := runIdentity(t, nil, map[string]string{
		"X-Company-Id": uuid.New().String(),
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
}

func TestIdentity_MalformedAuthorization(t *testing.T) {
	rec, _ := runIdentity(t, nil, map[string]string{
		"Authorization": "Basic abc",
		"X-Company-Id":  uuid.New().String(),
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
}

func TestIdentity_MissingCompany(t *testing.T) {
	rec, _ := runIdentity(t, nil, map[string]string{
		"Authorization": "Bearer token",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
}

func TestIdentity_InvalidCompanyID(t *testing.T) {
	rec, _ := runIdentity(t, nil, map[string]string{
		"Authorization": "Bearer token",
		"X-Company-Id":  "not-a-uuid",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
}

func TestIdentity_UnknownCompany(t *testing.T) {
	companies := testutil.NewMockCompanyRepository()

	rec, _ := runIdentity(t, companies, map[string]string{
		"Authorization": "Bearer token",
		"X-Company-Id":  uuid.New().String(),
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for unknown company, got %d", rec.Code)
	}
}

func TestIdentity_Success(t *testing.T) {
	companies := testutil.NewMockCompanyRepository()
	companyID := uuid.New()
	companies.AddCompany(companyID)
	userID := uuid.New()

	rec, c := runIdentity(t, companies, map[string]string{
		"Authorization": "Bearer token",
		"X-Company-Id":  companyID.String(),
		"X-User-Id":     userID.String(),
		"X-User-Role":   "superadmin",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	if got := GetCompanyID(c); got != companyID {
		t.Errorf("Expected company %s in context, got %s", companyID, got)
	}
	if got := GetUserID(c); got != userID {
		t.Errorf("Expected user %s in context, got %s", userID, got)
	}
	if got := GetRole(c); got != domain.RoleSuperadmin {
		t.Errorf("Expected superadmin role, got %q", got)
	}
}

func TestIdentity_OptionalHeadersAbsent(t *testing.T) {
	companies := testutil.NewMockCompanyRepository()
	companyID := uuid.New()
	companies.AddCompany(companyID)

	rec, c := runIdentity(t, companies, map[string]string{
		"Authorization": "Bearer token",
		"X-Company-Id":  companyID.String(),
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if GetUserID(c) != uuid.Nil {
		t.Error("Expected nil user id")
	}
	if GetRole(c) != "" {
		t.Error("Expected empty role")
	}
}
