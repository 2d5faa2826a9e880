package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func rateLimitedRequest(rl *RateLimiter, companyID uuid.UUID) int {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if companyID != uuid.Nil {
		req = req.WithContext(context.WithValue(req.Context(), CompanyIDKey, companyID))
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := RateLimitMiddleware(rl)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	_ = handler(c)
	return rec.Code
}

func TestRateLimit_AllowsWithinBurst(t *testing.T) {
	rl := NewRateLimiter(60)
	defer rl.Stop()

	companyID := uuid.New()
	for i := 0; i < DefaultBurstSize; i++ {
		if code := rateLimitedRequest(rl, companyID); code != http.StatusOK {
			t.Fatalf("Request %d: expected 200, got %d", i, code)
		}
	}
}

func TestRateLimit_RejectsBeyondBurst(t *testing.T) {
	rl := NewRateLimiter(60)
	defer rl.Stop()

	companyID := uuid.New()
	for i := 0; i < DefaultBurstSize; i++ {
		rateLimitedRequest(rl, companyID)
	}

	if code := rateLimitedRequest(rl, companyID); code != http.StatusTooManyRequests {
		t.Errorf("Expected 429 after burst exhausted, got %d", code)
	}
}

func TestRateLimit_PerCompanyIsolation(t *testing.T) {
	rl := NewRateLimiter(60)
	defer rl.Stop()

	first := uuid.New()
	for i := 0; i < DefaultBurstSize+1; i++ {
		rateLimitedRequest(rl, first)
	}

	// A different company is unaffected
	if code := rateLimitedRequest(rl, uuid.New()); code != http.StatusOK {
		t.Errorf("Expected 200 for another company, got %d", code)
	}
}

func TestRateLimit_SkipsWithoutCompany(t *testing.T) {
	rl := NewRateLimiter(60)
	defer rl.Stop()

	for i := 0; i < DefaultBurstSize+5; i++ {
		if code := rateLimitedRequest(rl, uuid.Nil); code != http.StatusOK {
			t.Fatalf("Expected 200 without company context, got %d", code)
		}
	}
}
