// Confit - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/confit

package database

import (
	"context"

	"github.com/tomtom215/confit/internal/models"
)

const commentColumns = `id, creator_id, recipe_id, body, status, created_at`

func scanComment(row interface{ Scan(dest ...any) error }) (*models.Comment, error) {
	var c models.Comment
	err := row.Scan(&c.ID, &c.CreatorID, &c.RecipeID, &c.Body, &c.Status, &c.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

// CreateComment inserts a comment under a recipe and returns it with its
// assigned ID.
func (s *Store) CreateComment(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO comments (creator_id, recipe_id, body)
		VALUES ($1, $2, $3)
		RETURNING `+commentColumns,
		c.CreatorID, c.RecipeID, c.Body)
	return scanComment(row)
}

// GetComment fetches one comment regardless of status. Callers enforce the
// blocked-entity exclusion for public reads and the owner check for writes.
func (s *Store) GetComment(ctx context.Context, id int64) (*models.Comment, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE id = $1`, id)
	return scanComment(row)
}

// ListCommentsForRecipe returns the visible comments under a recipe, oldest
// first.
func (s *Store) ListCommentsForRecipe(ctx context.Context, recipeID int64) ([]models.Comment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+commentColumns+` FROM comments
		WHERE recipe_id = $1 AND status = 'visible'
		ORDER BY created_at, id`, recipeID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, *c)
	}
	return comments, mapError(rows.Err())
}

// DeleteComment removes a comment. Its grades go with it via ON DELETE CASCADE.
func (s *Store) DeleteComment(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
