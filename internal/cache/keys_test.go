package cache

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestTopCategoriesKey(t *testing.T) {
	companyID := uuid.MustParse("a0650f50-bcaa-41f6-95db-e68301d4ccd5")

	key := TopCategoriesKey(companyID)
	if key != "top_expense_categories:a0650f50-bcaa-41f6-95db-e68301d4ccd5" {
		t.Errorf("Unexpected key %s", key)
	}
}

func TestExpensesByCategoryDateKey_DistinctPerRange(t *testing.T) {
	companyID := uuid.New()
	categoryID := uuid.New()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	a := ExpensesByCategoryDateKey(companyID, categoryID, start, start.AddDate(0, 1, 0))
	b := ExpensesByCategoryDateKey(companyID, categoryID, start, start.AddDate(0, 2, 0))
	if a == b {
		t.Error("Expected different ranges to produce different keys")
	}
}

func TestExpensesByCategoryDateKey_MatchesPattern(t *testing.T) {
	companyID := uuid.New()
	categoryID := uuid.New()
	start := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)

	key := ExpensesByCategoryDateKey(companyID, categoryID, start, end)
	pattern := ExpensesByCategoryDatePattern(companyID, categoryID)

	prefix := strings.TrimSuffix(pattern, "*")
	if !strings.HasPrefix(key, prefix) {
		t.Errorf("Key %s does not match pattern %s", key, pattern)
	}
}

func TestExpensesByCategoryDateKey_NormalizesToUTC(t *testing.T) {
	companyID := uuid.New()
	categoryID := uuid.New()
	loc := time.FixedZone("UTC+2", 2*60*60)
	start := time.Date(2025, 3, 10, 14, 0, 0, 0, loc)
	end := time.Date(2025, 3, 20, 14, 0, 0, 0, loc)

	local := ExpensesByCategoryDateKey(companyID, categoryID, start, end)
	utc := ExpensesByCategoryDateKey(companyID, categoryID, start.UTC(), end.UTC())
	if local != utc {
		t.Errorf("Expected identical keys for equal instants, got %s and %s", local, utc)
	}
}
