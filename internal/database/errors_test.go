// Confit - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/confit

package database

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestMapErrorNoRows(t *testing.T) {
	if got := mapError(pgx.ErrNoRows); !errors.Is(got, ErrNotFound) {
		t.Errorf("mapError(ErrNoRows) = %v, want ErrNotFound", got)
	}
}

func TestMapErrorUniqueViolation(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		wantField  string
	}{
		{"username key", "users_username_key", "username"},
		{"email key", "users_email_key", "email"},
		{"unrecognized constraint", "recipe_grades_evaluator_id_recipe_id_key", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapError(&pgconn.PgError{Code: uniqueViolation, ConstraintName: tt.constraint})
			if !errors.Is(err, ErrDuplicate) {
				t.Fatalf("mapError() = %v, want a duplicate", err)
			}
			var dup *DuplicateError
			if !errors.As(err, &dup) {
				t.Fatalf("mapError() = %T, want *DuplicateError", err)
			}
			if dup.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", dup.Field, tt.wantField)
			}
		})
	}
}

func TestMapErrorPassesThroughOtherErrors(t *testing.T) {
	other := errors.New("connection reset")
	if got := mapError(other); got != other {
		t.Errorf("mapError() = %v, want the original error", got)
	}
	if mapError(nil) != nil {
		t.Error("mapError(nil) should stay nil")
	}
}
