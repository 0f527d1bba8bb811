// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a lookup or mutation matches no row.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write violates a unique constraint.
	ErrConflict = errors.New("conflict")

	// ErrInvalidReference is returned when a foreign key points nowhere.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrInvalidValue is returned when a check constraint rejects a value.
	ErrInvalidValue = errors.New("invalid value")

	// ErrCycle is returned when a category would become its own ancestor.
	ErrCycle = errors.New("category cannot be moved under itself or its descendants")
)

// PostgreSQL SQLSTATE codes mapped by classify.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// ConstraintError describes a database constraint violation. The raw
// constraint name and detail are kept so that admin callers can see
// exactly which rule was broken.
type ConstraintError struct {
	Kind       error
	Constraint string
	Detail     string
	Err        error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%v: %s (%s)", e.Kind, e.Detail, e.Constraint)
}

// Unwrap lets errors.Is match both the taxonomy sentinel and the driver error.
func (e *ConstraintError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// classify translates driver errors into the store error taxonomy.
// Errors it does not recognise are returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	detail := pgErr.Detail
	if detail == "" {
		detail = pgErr.Message
	}

	var kind error
	switch pgErr.Code {
	case pgUniqueViolation:
		kind = ErrConflict
	case pgForeignKeyViolation:
		kind = ErrInvalidReference
	case pgCheckViolation:
		if pgErr.ConstraintName == "categories_not_own_parent" {
			kind = ErrCycle
		} else {
			kind = ErrInvalidValue
		}
	default:
		return err
	}

	return &ConstraintError{
		Kind:       kind,
		Constraint: pgErr.ConstraintName,
		Detail:     detail,
		Err:        err,
	}
}

// expectAffected returns ErrNotFound when a write touched no rows.
func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// nullIfEmpty stores blank optional text as NULL.
func nullIfEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
