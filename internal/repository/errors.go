package repository

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// ErrDuplicate matches any DuplicateError via errors.Is.
var ErrDuplicate = errors.New("duplicate record")

// DuplicateError reports a unique constraint violation on Field.
type DuplicateError struct {
	Field      string
	Constraint string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate %s", e.Field)
}

func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }

var constraintFields = map[string]string{
	"users_email_key":     "email",
	"users_adharcard_key": "adharcard",
	"users_pancard_key":   "pancard",
	"companies_name_key":  "name",
}

// translate turns unique violations into DuplicateError and leaves every other
// error untouched.
func translate(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	field, ok := constraintFields[pgErr.ConstraintName]
	if !ok {
		field = pgErr.ConstraintName
	}
	return &DuplicateError{Field: field, Constraint: pgErr.ConstraintName}
}

// validID rejects ids that could never match a UUID primary key, so lookups by
// a malformed id behave like a missing row instead of a query error.
func validID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return pgx.ErrNoRows
	}
	return nil
}
