package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/job-portal/internal/domain"
)

// CompanyRepository defines persistence access for companies.
type CompanyRepository interface {
	Create(ctx context.Context, company *domain.Company) error
	Update(ctx context.Context, company *domain.Company) error
	GetByID(ctx context.Context, id string) (*domain.Company, error)
	GetByName(ctx context.Context, name string) (*domain.Company, error)
}

type companyRepository struct {
	pool *pgxpool.Pool
}

// NewCompanyRepository returns a Postgres-backed implementation.
func NewCompanyRepository(pool *pgxpool.Pool) CompanyRepository {
	return &companyRepository{pool: pool}
}

const companyColumns = `id, name, description, website, location, logo, user_id, created_at, updated_at`

func (r *companyRepository) Create(ctx context.Context, company *domain.Company) error {
	const query = `
        INSERT INTO companies (name, description, website, location, logo, user_id)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		company.Name,
		company.Description,
		company.Website,
		company.Location,
		company.Logo,
		company.UserID,
	).Scan(&company.ID, &company.CreatedAt, &company.UpdatedAt)
	return translate(err)
}

func (r *companyRepository) Update(ctx context.Context, company *domain.Company) error {
	if err := validID(company.ID); err != nil {
		return err
	}
	const query = `
        UPDATE companies
        SET name=$1, description=$2, website=$3, location=$4, logo=$5, updated_at=NOW()
        WHERE id=$6
        RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		company.Name,
		company.Description,
		company.Website,
		company.Location,
		company.Logo,
		company.ID,
	).Scan(&company.UpdatedAt)
	return translate(err)
}

func (r *companyRepository) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	return r.getOne(ctx, `SELECT `+companyColumns+` FROM companies WHERE id=$1`, id)
}

func (r *companyRepository) GetByName(ctx context.Context, name string) (*domain.Company, error) {
	return r.getOne(ctx, `SELECT `+companyColumns+` FROM companies WHERE name=$1`, name)
}

func (r *companyRepository) getOne(ctx context.Context, query string, arg any) (*domain.Company, error) {
	var c domain.Company
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.Website,
		&c.Location,
		&c.Logo,
		&c.UserID,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}
