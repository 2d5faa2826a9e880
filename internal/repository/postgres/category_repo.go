package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/expensio/expensio-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const categoryColumns = `id, company_id, name, description, "limit", created_at, updated_at, deleted_at`

// CategoryRepository implements domain.ExpenseCategoryRepository using PostgreSQL
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// Create inserts a new category
func (r *CategoryRepository) Create(category *domain.ExpenseCategory) (*domain.ExpenseCategory, error) {
	ctx := context.Background()

	var limit pgtype.Numeric
	if category.Limit != nil {
		var err error
		limit, err = decimalToPgNumeric(*category.Limit)
		if err != nil {
			return nil, fmt.Errorf("invalid limit: %w", err)
		}
	}

	var description pgtype.Text
	if category.Description != nil {
		description = pgtype.Text{String: *category.Description, Valid: true}
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO expense_categories (company_id, name, description, "limit")
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+categoryColumns,
		pgUUID(category.CompanyID), category.Name, description, limit,
	)

	created, err := scanCategory(row)
	if err != nil {
		if isPgErrCode(err, uniqueViolation) {
			return nil, domain.ErrCategoryAlreadyExists
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	return created, nil
}

// GetByID retrieves an active category by id within a company
func (r *CategoryRepository) GetByID(companyID, id uuid.UUID) (*domain.ExpenseCategory, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx,
		`SELECT `+categoryColumns+`
		 FROM expense_categories
		 WHERE company_id = $1 AND id = $2 AND deleted_at IS NULL`,
		pgUUID(companyID), pgUUID(id),
	)

	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return category, nil
}

// GetByIDAnyCompany retrieves an active category by id regardless of company
func (r *CategoryRepository) GetByIDAnyCompany(id uuid.UUID) (*domain.ExpenseCategory, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx,
		`SELECT `+categoryColumns+`
		 FROM expense_categories
		 WHERE id = $1 AND deleted_at IS NULL`,
		pgUUID(id),
	)

	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return category, nil
}

// GetAllByCompany retrieves all active categories of a company, name ascending
func (r *CategoryRepository) GetAllByCompany(companyID uuid.UUID) ([]*domain.ExpenseCategory, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx,
		`SELECT `+categoryColumns+`
		 FROM expense_categories
		 WHERE company_id = $1 AND deleted_at IS NULL
		 ORDER BY name ASC`,
		pgUUID(companyID),
	)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []*domain.ExpenseCategory
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// Update patches an active category; nil fields are left unchanged
func (r *CategoryRepository) Update(companyID, id uuid.UUID, data *domain.UpdateCategoryData) (*domain.ExpenseCategory, error) {
	ctx := context.Background()

	var name, description pgtype.Text
	if data.Name != nil {
		name = pgtype.Text{String: *data.Name, Valid: true}
	}
	if data.Description != nil {
		description = pgtype.Text{String: *data.Description, Valid: true}
	}

	var limit pgtype.Numeric
	if data.Limit != nil {
		var err error
		limit, err = decimalToPgNumeric(*data.Limit)
		if err != nil {
			return nil, fmt.Errorf("invalid limit: %w", err)
		}
	}

	row := r.pool.QueryRow(ctx,
		`UPDATE expense_categories
		 SET name = COALESCE($3, name),
		     description = COALESCE($4, description),
		     "limit" = COALESCE($5, "limit"),
		     updated_at = now()
		 WHERE company_id = $1 AND id = $2 AND deleted_at IS NULL
		 RETURNING `+categoryColumns,
		pgUUID(companyID), pgUUID(id), name, description, limit,
	)

	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		if isPgErrCode(err, uniqueViolation) {
			return nil, domain.ErrCategoryAlreadyExists
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	return category, nil
}

// SoftDelete marks an active category as deleted and returns the final row
func (r *CategoryRepository) SoftDelete(companyID, id uuid.UUID) (*domain.ExpenseCategory, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx,
		`UPDATE expense_categories
		 SET deleted_at = now(), updated_at = now()
		 WHERE company_id = $1 AND id = $2 AND deleted_at IS NULL
		 RETURNING `+categoryColumns,
		pgUUID(companyID), pgUUID(id),
	)

	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("soft delete category: %w", err)
	}
	return category, nil
}

// GetCategoryTotals returns every active category of the company with the sum
// of its active expenses
func (r *CategoryRepository) GetCategoryTotals(companyID uuid.UUID) ([]*domain.CategoryTotal, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx,
		`SELECT c.id, c.name,
		        COALESCE(SUM(e.amount) FILTER (WHERE e.deleted_at IS NULL), 0) AS total
		 FROM expense_categories c
		 LEFT JOIN expenses e
		   ON e.category_id = c.id AND e.company_id = c.company_id
		 WHERE c.company_id = $1 AND c.deleted_at IS NULL
		 GROUP BY c.id, c.name`,
		pgUUID(companyID),
	)
	if err != nil {
		return nil, fmt.Errorf("category totals: %w", err)
	}
	defer rows.Close()

	var totals []*domain.CategoryTotal
	for rows.Next() {
		var id pgtype.UUID
		var name string
		var total pgtype.Numeric
		if err := rows.Scan(&id, &name, &total); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		totals = append(totals, &domain.CategoryTotal{
			CategoryID:    uuidFromPg(id),
			Name:          name,
			TotalExpenses: pgNumericToDecimal(total),
		})
	}
	return totals, rows.Err()
}

func scanCategory(row pgx.Row) (*domain.ExpenseCategory, error) {
	var (
		id, companyID          pgtype.UUID
		name                   string
		description            pgtype.Text
		limit                  pgtype.Numeric
		createdAt, updatedAt   pgtype.Timestamptz
		deletedAt              pgtype.Timestamptz
	)
	if err := row.Scan(&id, &companyID, &name, &description, &limit, &createdAt, &updatedAt, &deletedAt); err != nil {
		return nil, err
	}

	category := &domain.ExpenseCategory{
		ID:        uuidFromPg(id),
		CompanyID: uuidFromPg(companyID),
		Name:      name,
		CreatedAt: createdAt.Time,
		UpdatedAt: updatedAt.Time,
	}
	if description.Valid {
		category.Description = &description.String
	}
	if limit.Valid {
		d := pgNumericToDecimal(limit)
		category.Limit = &d
	}
	if deletedAt.Valid {
		category.DeletedAt = &deletedAt.Time
	}
	return category, nil
}

var _ domain.ExpenseCategoryRepository = (*CategoryRepository)(nil)
