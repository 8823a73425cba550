// Confit - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/confit

package database

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors returned by Store methods. Handlers map these onto the
// API error taxonomy.
var (
	// ErrNotFound indicates the requested row does not exist or is
	// filtered out by its status.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate indicates a unique constraint was violated, e.g. a
	// username or email already taken at registration.
	ErrDuplicate = errors.New("duplicate value")
)

// DuplicateError is a unique violation that names the colliding column,
// recovered from the constraint name. It matches ErrDuplicate under
// errors.Is so callers that do not care about the field stay unchanged.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	if e.Field == "" {
		return "duplicate value"
	}
	return "duplicate " + e.Field
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint errors.
const uniqueViolation = "23505"

// mapError normalizes pgx errors into the package's sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return &DuplicateError{Field: duplicateField(pgErr.ConstraintName)}
	}
	return err
}

// duplicateField maps a unique constraint name onto its column. PostgreSQL
// names implicit unique constraints <table>_<column>_key.
func duplicateField(constraint string) string {
	for _, field := range []string{"username", "email"} {
		if strings.Contains(constraint, field) {
			return field
		}
	}
	return ""
}
