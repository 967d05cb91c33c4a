package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	err := &pgconn.PgError{Code: "23505", ConstraintName: "uq_appointments_slot"}

	if !IsUniqueViolation(err, "") {
		t.Error("expected unique violation to be detected")
	}
	if !IsUniqueViolation(err, "appointments_slot") {
		t.Error("expected constraint name match")
	}
	if IsUniqueViolation(err, "idempotency_key") {
		t.Error("expected mismatch for unrelated constraint name")
	}
}

func TestIsUniqueViolation_Wrapped(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "uq_visits_idempotency_key"}
	wrapped := fmt.Errorf("insert visit: %w", pgErr)

	if !IsUniqueViolation(wrapped, "idempotency_key") {
		t.Error("expected wrapped unique violation to be detected")
	}
}

func TestIsUniqueViolation_OtherErrors(t *testing.T) {
	if IsUniqueViolation(errors.New("boom"), "") {
		t.Error("plain error must not classify as unique violation")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}, "") {
		t.Error("foreign key violation must not classify as unique violation")
	}
	if IsUniqueViolation(nil, "") {
		t.Error("nil must not classify as unique violation")
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	if !IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}) {
		t.Error("expected foreign key violation to be detected")
	}
	if IsForeignKeyViolation(&pgconn.PgError{Code: "23505"}) {
		t.Error("unique violation must not classify as foreign key violation")
	}
}
