package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Role identifies the caller's privilege level within a request
type Role string

// RoleSuperadmin may list expenses across all companies (read-only bypass)
const RoleSuperadmin Role = "superadmin"

// Expense is a single company-scoped expense recorded against a category
type Expense struct {
	ID           uuid.UUID       `json:"id"`
	CompanyID    uuid.UUID       `json:"companyId"`
	CategoryID   uuid.UUID       `json:"categoryId"`
	UserID       uuid.UUID       `json:"userId"`
	Amount       decimal.Decimal `json:"amount"`
	DateProduced time.Time       `json:"dateProduced"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
	DeletedAt    *time.Time      `json:"deletedAt,omitempty"`
}

// UpdateExpenseData holds the fields of an expense update; nil means unchanged
type UpdateExpenseData struct {
	Amount       *decimal.Decimal
	DateProduced *time.Time
	CategoryID   *uuid.UUID
}

// IsEmpty reports whether the patch carries no changes
func (d *UpdateExpenseData) IsEmpty() bool {
	return d == nil || (d.Amount == nil && d.DateProduced == nil && d.CategoryID == nil)
}

// ExpenseFilters narrows expense listings; date bounds are inclusive
type ExpenseFilters struct {
	CategoryID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	Page       int
	PageSize   int
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Pagination describes the window of a paginated listing
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// PaginatedExpenses is one page of expenses with its pagination metadata
type PaginatedExpenses struct {
	Expenses   []*Expense `json:"expenses"`
	Pagination Pagination `json:"pagination"`
}

type ExpenseRepository interface {
	Create(expense *Expense) (*Expense, error)
	// GetByID returns the expense with the given id regardless of company or
	// deletion state
	GetByID(id uuid.UUID) (*Expense, error)
	// GetByIDAndCompany returns the expense with the given id within a
	// company regardless of deletion state
	GetByIDAndCompany(companyID, id uuid.UUID) (*Expense, error)
	// List returns active expenses newest first; a nil companyID lists
	// across all companies
	List(companyID *uuid.UUID, filters *ExpenseFilters) (*PaginatedExpenses, error)
	// GetByCategoryAndDateRange returns active expenses of a category with
	// dateProduced within [start, end], newest first
	GetByCategoryAndDateRange(companyID, categoryID uuid.UUID, start, end time.Time) ([]*Expense, error)
	Update(companyID, id uuid.UUID, data *UpdateExpenseData) (*Expense, error)
	SoftDelete(companyID, id uuid.UUID) (*Expense, error)
}
