package cache

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TopCategoriesKey is the cache key for a company's top expense categories.
func TopCategoriesKey(companyID uuid.UUID) string {
	return fmt.Sprintf("top_expense_categories:%s", companyID)
}

// ExpensesByCategoryDateKey is the cache key for one exact category/date-range
// query. Different ranges are different cache entries; no range merging.
func ExpensesByCategoryDateKey(companyID, categoryID uuid.UUID, start, end time.Time) string {
	return fmt.Sprintf("expenses_by_category_date:%s:%s:%s:%s",
		companyID, categoryID,
		start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339))
}

// ExpensesByCategoryDatePattern matches every date-range entry of a category,
// for wildcard invalidation.
func ExpensesByCategoryDatePattern(companyID, categoryID uuid.UUID) string {
	return fmt.Sprintf("expenses_by_category_date:%s:%s:*", companyID, categoryID)
}
