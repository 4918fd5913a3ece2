package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestTranslateUniqueViolation(t *testing.T) {
	tests := []struct {
		constraint string
		field      string
	}{
		{"users_email_key", "email"},
		{"users_adharcard_key", "adharcard"},
		{"users_pancard_key", "pancard"},
		{"companies_name_key", "name"},
		{"other_key", "other_key"},
	}
	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			err := translate(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: tt.constraint}))
			var dup *DuplicateError
			if !errors.As(err, &dup) {
				t.Fatalf("translate() = %v, want DuplicateError", err)
			}
			if dup.Field != tt.field {
				t.Errorf("Field = %q, want %q", dup.Field, tt.field)
			}
			if !errors.Is(err, ErrDuplicate) {
				t.Error("errors.Is(err, ErrDuplicate) = false")
			}
		})
	}
}

func TestTranslatePassesOtherErrors(t *testing.T) {
	if err := translate(nil); err != nil {
		t.Fatalf("translate(nil) = %v", err)
	}
	fk := &pgconn.PgError{Code: "23503"}
	if err := translate(fk); err != fk {
		t.Fatalf("translate(fk) = %v, want original error", err)
	}
	if err := translate(pgx.ErrNoRows); !IsNotFound(err) {
		t.Fatalf("translate(ErrNoRows) = %v", err)
	}
}

func TestValidID(t *testing.T) {
	if err := validID("not-a-uuid"); !IsNotFound(err) {
		t.Fatalf("validID(bad) = %v, want ErrNoRows", err)
	}
	if err := validID("7c9e6679-7425-40de-944b-e07fc1f90ae7"); err != nil {
		t.Fatalf("validID(good) = %v", err)
	}
}
