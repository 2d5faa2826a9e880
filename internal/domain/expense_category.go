package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseCategory is a company-scoped spending category with an optional limit
type ExpenseCategory struct {
	ID          uuid.UUID        `json:"id"`
	CompanyID   uuid.UUID        `json:"companyId"`
	Name        string           `json:"name"`
	Description *string          `json:"description,omitempty"`
	Limit       *decimal.Decimal `json:"limit,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	DeletedAt   *time.Time       `json:"deletedAt,omitempty"`
}

// UpdateCategoryData holds the fields of a category update; nil means unchanged
type UpdateCategoryData struct {
	Name        *string
	Description *string
	Limit       *decimal.Decimal
}

// IsEmpty reports whether the patch carries no changes
func (d *UpdateCategoryData) IsEmpty() bool {
	return d == nil || (d.Name == nil && d.Description == nil && d.Limit == nil)
}

// CategoryTotal is an aggregate row: a category name with the sum of its active expenses
type CategoryTotal struct {
	CategoryID    uuid.UUID       `json:"-"`
	Name          string          `json:"name"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
}

type ExpenseCategoryRepository interface {
	Create(category *ExpenseCategory) (*ExpenseCategory, error)
	// GetByID returns the active category with the given id within a company
	GetByID(companyID, id uuid.UUID) (*ExpenseCategory, error)
	// GetByIDAnyCompany returns the active category with the given id regardless of company
	GetByIDAnyCompany(id uuid.UUID) (*ExpenseCategory, error)
	GetAllByCompany(companyID uuid.UUID) ([]*ExpenseCategory, error)
	Update(companyID, id uuid.UUID, data *UpdateCategoryData) (*ExpenseCategory, error)
	SoftDelete(companyID, id uuid.UUID) (*ExpenseCategory, error)
	// GetCategoryTotals returns every active category of the company with the
	// sum of its active expenses (zero when the category has none)
	GetCategoryTotals(companyID uuid.UUID) ([]*CategoryTotal, error)
}

// CompanyRepository validates tenant identifiers
type CompanyRepository interface {
	Exists(id uuid.UUID) (bool, error)
}
