package postgres

import (
	"context"

	"github.com/expensio/expensio-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CompanyRepository implements domain.CompanyRepository using PostgreSQL
type CompanyRepository struct {
	pool *pgxpool.Pool
}

// NewCompanyRepository creates a new CompanyRepository
func NewCompanyRepository(pool *pgxpool.Pool) *CompanyRepository {
	return &CompanyRepository{pool: pool}
}

// Exists reports whether a company with the given id is registered
func (r *CompanyRepository) Exists(id uuid.UUID) (bool, error) {
	ctx := context.Background()

	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM companies WHERE id = $1)`,
		pgUUID(id),
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

var _ domain.CompanyRepository = (*CompanyRepository)(nil)
