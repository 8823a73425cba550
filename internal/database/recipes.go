// Confit - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/confit

package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/tomtom215/confit/internal/models"
)

const recipeColumns = `id, creator_id, title, body, portions, cook_time, weight,
	avatar_path, status, created_at`

func scanRecipe(row interface{ Scan(dest ...any) error }) (*models.Recipe, error) {
	var r models.Recipe
	err := row.Scan(&r.ID, &r.CreatorID, &r.Title, &r.Body, &r.Portions, &r.CookTime,
		&r.Weight, &r.AvatarPath, &r.Status, &r.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &r, nil
}

// RecipeFilter narrows a recipe listing. String filters are substring,
// case-insensitive matches; zero values are ignored. Listings only ever
// return visible recipes.
type RecipeFilter struct {
	Title     string
	Tag       string
	Author    string
	CreatorID int64
}

// CreateRecipe inserts a recipe and returns it with its assigned ID.
func (s *Store) CreateRecipe(ctx context.Context, r *models.Recipe) (*models.Recipe, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO recipes (creator_id, title, body, portions, cook_time, weight)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+recipeColumns,
		r.CreatorID, r.Title, r.Body, r.Portions, r.CookTime, r.Weight)
	return scanRecipe(row)
}

// GetRecipe fetches one recipe regardless of status. Callers enforce the
// blocked-entity exclusion for public reads and the owner check for writes.
func (s *Store) GetRecipe(ctx context.Context, id int64) (*models.Recipe, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE id = $1`, id)
	return scanRecipe(row)
}

// ListRecipes returns visible recipes matching the filter, newest first.
func (s *Store) ListRecipes(ctx context.Context, f RecipeFilter) ([]models.Recipe, error) {
	query := strings.Builder{}
	query.WriteString(`SELECT DISTINCT r.id, r.creator_id, r.title, r.body, r.portions,
		r.cook_time, r.weight, r.avatar_path, r.status, r.created_at
		FROM recipes r`)

	var (
		conds = []string{"r.status = 'visible'"}
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Tag != "" {
		query.WriteString(` JOIN tags t ON t.recipe_id = r.id`)
		conds = append(conds, `t.name ILIKE '%' || `+arg(f.Tag)+` || '%'`)
	}
	if f.Author != "" {
		query.WriteString(` JOIN users u ON u.id = r.creator_id`)
		conds = append(conds, `u.username ILIKE '%' || `+arg(f.Author)+` || '%'`)
	}
	if f.Title != "" {
		conds = append(conds, `r.title ILIKE '%' || `+arg(f.Title)+` || '%'`)
	}
	if f.CreatorID != 0 {
		conds = append(conds, `r.creator_id = `+arg(f.CreatorID))
	}

	query.WriteString(` WHERE ` + strings.Join(conds, " AND "))
	query.WriteString(` ORDER BY r.created_at DESC, r.id DESC`)

	rows, err := s.pool.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var recipes []models.Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, *r)
	}
	return recipes, mapError(rows.Err())
}

// UpdateRecipe overwrites a recipe's own fields. Children are reconciled
// separately; the avatar changes through its own flow.
func (s *Store) UpdateRecipe(ctx context.Context, r *models.Recipe) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE recipes
		SET title = $2, body = $3, portions = $4, cook_time = $5, weight = $6
		WHERE id = $1`,
		r.ID, r.Title, r.Body, r.Portions, r.CookTime, r.Weight)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteRecipe removes a recipe and returns the media references it held
// (its avatar and every stage picture) so the caller can purge the files.
// Child rows go with the recipe via ON DELETE CASCADE.
func (s *Store) DeleteRecipe(ctx context.Context, id int64) ([]string, error) {
	var refs []string

	rows, err := s.pool.Query(ctx, `
		SELECT avatar_path FROM recipes WHERE id = $1
		UNION ALL
		SELECT picture_path FROM cook_stages WHERE recipe_id = $1`, id)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, mapError(err)
		}
		if ref != "" {
			refs = append(refs, ref)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	tag, err := s.pool.Exec(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return nil, mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return refs, nil
}

// SetRecipeAvatar stores a new avatar reference and returns the previous one.
func (s *Store) SetRecipeAvatar(ctx context.Context, id int64, ref string) (previous string, err error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE recipes r SET avatar_path = $2
		FROM (SELECT avatar_path FROM recipes WHERE id = $1) old
		WHERE r.id = $1
		RETURNING old.avatar_path`, id, ref)
	if err := row.Scan(&previous); err != nil {
		return "", mapError(err)
	}
	return previous, nil
}

// ClearRecipeAvatar drops a stale avatar reference (image self-heal).
func (s *Store) ClearRecipeAvatar(ctx context.Context, id int64) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE recipes SET avatar_path = '' WHERE id = $1`, id)
	return mapError(err)
}
