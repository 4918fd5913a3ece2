package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/job-portal/internal/domain"
)

// Unique user fields accepted by ExistsBy.
const (
	UserFieldEmail     = "email"
	UserFieldAdharcard = "adharcard"
	UserFieldPancard   = "pancard"
)

// ErrUnknownField is returned by ExistsBy for a field that is not a unique key.
var ErrUnknownField = errors.New("unknown lookup field")

// UserRepository defines persistence access for account holders.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsBy(ctx context.Context, field, value string) (bool, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, fullname, email, phone_number, adharcard, pancard, password_hash, role, profile, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (fullname, email, phone_number, adharcard, pancard, password_hash, role, profile)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		user.Fullname,
		user.Email,
		user.PhoneNumber,
		user.Adharcard,
		user.Pancard,
		user.PasswordHash,
		user.Role.String(),
		user.Profile,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	return translate(err)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	if err := validID(user.ID); err != nil {
		return err
	}
	const query = `
        UPDATE users
        SET fullname=$1, email=$2, phone_number=$3, profile=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		user.Fullname,
		user.Email,
		user.PhoneNumber,
		user.Profile,
		user.ID,
	).Scan(&user.UpdatedAt)
	return translate(err)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1`, email)
}

func (r *userRepository) ExistsBy(ctx context.Context, field, value string) (bool, error) {
	var query string
	switch field {
	case UserFieldEmail:
		query = `SELECT EXISTS (SELECT 1 FROM users WHERE email=$1)`
	case UserFieldAdharcard:
		query = `SELECT EXISTS (SELECT 1 FROM users WHERE adharcard=$1)`
	case UserFieldPancard:
		query = `SELECT EXISTS (SELECT 1 FROM users WHERE pancard=$1)`
	default:
		return false, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	var exists bool
	if err := r.pool.QueryRow(ctx, query, value).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *userRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var (
		user domain.User
		role string
	)
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Fullname,
		&user.Email,
		&user.PhoneNumber,
		&user.Adharcard,
		&user.Pancard,
		&user.PasswordHash,
		&role,
		&user.Profile,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	parsed, err := domain.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", user.ID, err)
	}
	user.Role = parsed
	return &user, nil
}

// IsNotFound reports whether err means the row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
