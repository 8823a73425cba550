// Confit - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/confit

package database

import (
	"context"
	"time"

	"github.com/tomtom215/confit/internal/models"
)

const userColumns = `id, username, email, password_hash, first_name, last_name,
	patronymic, avatar_path, active, date_joined, last_login`

// scanUser reads one user row. The row source is either pgx.Row or pgx.Rows;
// both satisfy the Scan signature.
func scanUser(row interface{ Scan(dest ...any) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName,
		&u.LastName, &u.Patronymic, &u.AvatarPath, &u.Active, &u.DateJoined, &u.LastLogin)
	if err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

// CreateUser inserts a new account and returns it with its assigned ID.
// Returns ErrDuplicate when the username or email is taken.
func (s *Store) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, first_name, last_name, patronymic)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+userColumns,
		u.Username, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Patronymic)
	return scanUser(row)
}

// GetUserByID fetches one active user.
func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1 AND active`, id)
	return scanUser(row)
}

// GetUserByLogin fetches an active user by username or email. Login accepts
// either, matching the account's natural keys.
func (s *Store) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE (username = $1 OR email = $1) AND active`, login)
	return scanUser(row)
}

// UpdateUser overwrites the profile fields of an account. The password and
// avatar are deliberately excluded; they change through their own flows.
func (s *Store) UpdateUser(ctx context.Context, u *models.User) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users
		SET username = $2, email = $3, first_name = $4, last_name = $5, patronymic = $6
		WHERE id = $1`,
		u.ID, u.Username, u.Email, u.FirstName, u.LastName, u.Patronymic)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePassword replaces the stored password hash.
func (s *Store) UpdatePassword(ctx context.Context, id int64, hash string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET password_hash = $2 WHERE id = $1`, id, hash)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchLastLogin records a successful login.
func (s *Store) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE users SET last_login = $2 WHERE id = $1`, id, at)
	return mapError(err)
}

// SetUserAvatar stores a new avatar reference and returns the previous one
// so the caller can remove the old file.
func (s *Store) SetUserAvatar(ctx context.Context, id int64, ref string) (previous string, err error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE users u SET avatar_path = $2
		FROM (SELECT avatar_path FROM users WHERE id = $1) old
		WHERE u.id = $1
		RETURNING old.avatar_path`, id, ref)
	if err := row.Scan(&previous); err != nil {
		return "", mapError(err)
	}
	return previous, nil
}

// ClearUserAvatar drops a stale avatar reference. Part of the image
// self-heal: called when the referenced file is found missing on read.
func (s *Store) ClearUserAvatar(ctx context.Context, id int64) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE users SET avatar_path = '' WHERE id = $1`, id)
	return mapError(err)
}
