package domain

import "errors"

// Domain errors
var (
	ErrNotFound         = errors.New("resource not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInternalError    = errors.New("internal error")
	ErrCompanyNotFound  = errors.New("company not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrExpenseNotFound  = errors.New("expense not found")
	ErrUserNotFound     = errors.New("user not found")

	ErrCategoryAlreadyExists = errors.New("category with this name already exists for this company")
	ErrCategoryLimitExceeded = errors.New("expense amount exceeds category limit")
	ErrExpenseAlreadyDeleted = errors.New("expense already deleted")
	ErrEmptyUpdate           = errors.New("no valid fields provided for update")

	ErrNameRequired     = errors.New("name is required")
	ErrNameTooLong      = errors.New("name exceeds maximum length")
	ErrInvalidAmount    = errors.New("amount must be non-negative")
	ErrInvalidLimit     = errors.New("limit must be non-negative")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidDateRange = errors.New("start date must not exceed end date")
)

// Validation constants
const (
	MaxCategoryNameLength        = 100
	MaxCategoryDescriptionLength = 500
)
