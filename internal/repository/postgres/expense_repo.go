package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/expensio/expensio-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const expenseColumns = `id, company_id, category_id, user_id, amount, date_produced, created_at, updated_at, deleted_at`

// ExpenseRepository implements domain.ExpenseRepository using PostgreSQL
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

// Create inserts a new expense
func (r *ExpenseRepository) Create(expense *domain.Expense) (*domain.Expense, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(expense.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO expenses (company_id, category_id, user_id, amount, date_produced)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+expenseColumns,
		pgUUID(expense.CompanyID), pgUUID(expense.CategoryID), pgUUID(expense.UserID),
		amount, pgtype.Timestamptz{Time: expense.DateProduced, Valid: true},
	)

	created, err := scanExpense(row)
	if err != nil {
		if isPgErrCode(err, foreignKeyViolation) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("create expense: %w", err)
	}
	return created, nil
}

// GetByID retrieves an expense by id regardless of company or deletion state
func (r *ExpenseRepository) GetByID(id uuid.UUID) (*domain.Expense, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = $1`,
		pgUUID(id),
	)

	expense, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return expense, nil
}

// GetByIDAndCompany retrieves an expense by id within a company regardless of
// deletion state
func (r *ExpenseRepository) GetByIDAndCompany(companyID, id uuid.UUID) (*domain.Expense, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE company_id = $1 AND id = $2`,
		pgUUID(companyID), pgUUID(id),
	)

	expense, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return expense, nil
}

// List returns active expenses newest first with pagination. A nil companyID
// lists across all companies (privileged role).
func (r *ExpenseRepository) List(companyID *uuid.UUID, filters *domain.ExpenseFilters) (*domain.PaginatedExpenses, error) {
	ctx := context.Background()

	page := 1
	pageSize := domain.DefaultPageSize
	if filters != nil {
		if filters.Page > 0 {
			page = filters.Page
		}
		if filters.PageSize > 0 {
			pageSize = filters.PageSize
			if pageSize > domain.MaxPageSize {
				pageSize = domain.MaxPageSize
			}
		}
	}
	offset := (page - 1) * pageSize

	where := []string{"deleted_at IS NULL"}
	var args []any

	if companyID != nil {
		args = append(args, pgUUID(*companyID))
		where = append(where, fmt.Sprintf("company_id = $%d", len(args)))
	}
	if filters != nil {
		if filters.CategoryID != nil {
			args = append(args, pgUUID(*filters.CategoryID))
			where = append(where, fmt.Sprintf("category_id = $%d", len(args)))
		}
		if filters.StartDate != nil {
			args = append(args, pgtype.Timestamptz{Time: *filters.StartDate, Valid: true})
			where = append(where, fmt.Sprintf("date_produced >= $%d", len(args)))
		}
		if filters.EndDate != nil {
			args = append(args, pgtype.Timestamptz{Time: *filters.EndDate, Valid: true})
			where = append(where, fmt.Sprintf("date_produced <= $%d", len(args)))
		}
	}
	whereClause := strings.Join(where, " AND ")

	var total int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM expenses WHERE `+whereClause, args...,
	).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count expenses: %w", err)
	}

	args = append(args, pageSize, offset)
	query := fmt.Sprintf(
		`SELECT `+expenseColumns+`
		 FROM expenses
		 WHERE %s
		 ORDER BY date_produced DESC
		 LIMIT $%d OFFSET $%d`,
		whereClause, len(args)-1, len(args),
	)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := make([]*domain.Expense, 0)
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return &domain.PaginatedExpenses{
		Expenses: expenses,
		Pagination: domain.Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

// GetByCategoryAndDateRange returns active expenses of a category with
// date_produced within [start, end], newest first
func (r *ExpenseRepository) GetByCategoryAndDateRange(companyID, categoryID uuid.UUID, start, end time.Time) ([]*domain.Expense, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx,
		`SELECT `+expenseColumns+`
		 FROM expenses
		 WHERE company_id = $1 AND category_id = $2 AND deleted_at IS NULL
		   AND date_produced >= $3 AND date_produced <= $4
		 ORDER BY date_produced DESC`,
		pgUUID(companyID), pgUUID(categoryID),
		pgtype.Timestamptz{Time: start, Valid: true},
		pgtype.Timestamptz{Time: end, Valid: true},
	)
	if err != nil {
		return nil, fmt.Errorf("expenses by category and date range: %w", err)
	}
	defer rows.Close()

	expenses := make([]*domain.Expense, 0)
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

// Update patches an expense; nil fields are left unchanged
func (r *ExpenseRepository) Update(companyID, id uuid.UUID, data *domain.UpdateExpenseData) (*domain.Expense, error) {
	ctx := context.Background()

	var amount pgtype.Numeric
	if data.Amount != nil {
		var err error
		amount, err = decimalToPgNumeric(*data.Amount)
		if err != nil {
			return nil, fmt.Errorf("invalid amount: %w", err)
		}
	}

	var dateProduced pgtype.Timestamptz
	if data.DateProduced != nil {
		dateProduced = pgtype.Timestamptz{Time: *data.DateProduced, Valid: true}
	}

	var categoryID pgtype.UUID
	if data.CategoryID != nil {
		categoryID = pgUUID(*data.CategoryID)
	}

	row := r.pool.QueryRow(ctx,
		`UPDATE expenses
		 SET amount = COALESCE($3, amount),
		     date_produced = COALESCE($4, date_produced),
		     category_id = COALESCE($5, category_id),
		     updated_at = now()
		 WHERE company_id = $1 AND id = $2
		 RETURNING `+expenseColumns,
		pgUUID(companyID), pgUUID(id), amount, dateProduced, categoryID,
	)

	expense, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}
		if isPgErrCode(err, foreignKeyViolation) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("update expense: %w", err)
	}
	return expense, nil
}

// SoftDelete marks an expense as deleted and returns the final row
func (r *ExpenseRepository) SoftDelete(companyID, id uuid.UUID) (*domain.Expense, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx,
		`UPDATE expenses
		 SET deleted_at = now(), updated_at = now()
		 WHERE company_id = $1 AND id = $2 AND deleted_at IS NULL
		 RETURNING `+expenseColumns,
		pgUUID(companyID), pgUUID(id),
	)

	expense, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, fmt.Errorf("soft delete expense: %w", err)
	}
	return expense, nil
}

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var (
		id, companyID, categoryID, userID pgtype.UUID
		amount                            pgtype.Numeric
		dateProduced                      pgtype.Timestamptz
		createdAt, updatedAt, deletedAt   pgtype.Timestamptz
	)
	if err := row.Scan(&id, &companyID, &categoryID, &userID, &amount, &dateProduced, &createdAt, &updatedAt, &deletedAt); err != nil {
		return nil, err
	}

	expense := &domain.Expense{
		ID:           uuidFromPg(id),
		CompanyID:    uuidFromPg(companyID),
		CategoryID:   uuidFromPg(categoryID),
		UserID:       uuidFromPg(userID),
		Amount:       pgNumericToDecimal(amount),
		DateProduced: dateProduced.Time,
		CreatedAt:    createdAt.Time,
		UpdatedAt:    updatedAt.Time,
	}
	if deletedAt.Valid {
		expense.DeletedAt = &deletedAt.Time
	}
	return expense, nil
}

var _ domain.ExpenseRepository = (*ExpenseRepository)(nil)
