// Confit - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/confit

package database

import (
	"context"

	"github.com/tomtom215/confit/internal/models"
	"github.com/tomtom215/confit/internal/reconcile"
)

// Child collections of a recipe. Rows are retrieved in id order, which is
// creation order: the order the last reconciliation produced.

// ListIngredients returns a recipe's ingredients in creation order.
func (s *Store) ListIngredients(ctx context.Context, recipeID int64) ([]models.Ingredient, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, recipe_id, name, measure FROM ingredients WHERE recipe_id = $1 ORDER BY id`,
		recipeID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var items []models.Ingredient
	for rows.Next() {
		var it models.Ingredient
		if err := rows.Scan(&it.ID, &it.RecipeID, &it.Name, &it.Measure); err != nil {
			return nil, mapError(err)
		}
		items = append(items, it)
	}
	return items, mapError(rows.Err())
}

// ListCookStages returns a recipe's cook stages in creation order.
func (s *Store) ListCookStages(ctx context.Context, recipeID int64) ([]models.CookStage, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, recipe_id, description, picture_path FROM cook_stages WHERE recipe_id = $1 ORDER BY id`,
		recipeID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var items []models.CookStage
	for rows.Next() {
		var st models.CookStage
		if err := rows.Scan(&st.ID, &st.RecipeID, &st.Description, &st.PicturePath); err != nil {
			return nil, mapError(err)
		}
		items = append(items, st)
	}
	return items, mapError(rows.Err())
}

// ListTags returns a recipe's tags in creation order.
func (s *Store) ListTags(ctx context.Context, recipeID int64) ([]models.Tag, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, recipe_id, name FROM tags WHERE recipe_id = $1 ORDER BY id`, recipeID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var items []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.RecipeID, &t.Name); err != nil {
			return nil, mapError(err)
		}
		items = append(items, t)
	}
	return items, mapError(rows.Err())
}

// CreateIngredients inserts payloads for a new recipe, capped at max.
// Payloads beyond the cap are dropped, mirroring the reconciler's policy.
func (s *Store) CreateIngredients(ctx context.Context, recipeID int64, in []models.IngredientInput, max int) error {
	for i, p := range in {
		if i >= max {
			break
		}
		if _, err := s.pool.Exec(ctx,
			`INSERT INTO ingredients (recipe_id, name, measure) VALUES ($1, $2, $3)`,
			recipeID, p.Name, p.Measure); err != nil {
			return mapError(err)
		}
	}
	return nil
}

// CreateCookStages inserts payloads for a new recipe, capped at max.
func (s *Store) CreateCookStages(ctx context.Context, recipeID int64, in []models.CookStageInput, max int) error {
	for i, p := range in {
		if i >= max {
			break
		}
		if _, err := s.pool.Exec(ctx,
			`INSERT INTO cook_stages (recipe_id, description) VALUES ($1, $2)`,
			recipeID, p.Description); err != nil {
			return mapError(err)
		}
	}
	return nil
}

// CreateTags inserts payloads for a new recipe, capped at max.
func (s *Store) CreateTags(ctx context.Context, recipeID int64, in []models.TagInput, max int) error {
	for i, p := range in {
		if i >= max {
			break
		}
		if _, err := s.pool.Exec(ctx,
			`INSERT INTO tags (recipe_id, name) VALUES ($1, $2)`,
			recipeID, p.Name); err != nil {
			return mapError(err)
		}
	}
	return nil
}

// ClearStagePicture drops a stale picture reference (image self-heal).
func (s *Store) ClearStagePicture(ctx context.Context, stageID int64) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE cook_stages SET picture_path = '' WHERE id = $1`, stageID)
	return mapError(err)
}

// ReconcileIngredients positionally merges incoming ingredient payloads
// against the recipe's existing rows. nil means no change; empty removes all.
func (s *Store) ReconcileIngredients(ctx context.Context, recipeID int64, incoming []models.IngredientInput, max int) error {
	existing, err := s.ListIngredients(ctx, recipeID)
	if err != nil {
		return err
	}
	return reconcile.Merge(ctx, existing, incoming, max, reconcile.Ops[models.Ingredient, models.IngredientInput]{
		Update: func(ctx context.Context, e models.Ingredient, p models.IngredientInput) error {
			_, err := s.pool.Exec(ctx,
				`UPDATE ingredients SET name = $2, measure = $3 WHERE id = $1`,
				e.ID, p.Name, p.Measure)
			return mapError(err)
		},
		Create: func(ctx context.Context, p models.IngredientInput) error {
			_, err := s.pool.Exec(ctx,
				`INSERT INTO ingredients (recipe_id, name, measure) VALUES ($1, $2, $3)`,
				recipeID, p.Name, p.Measure)
			return mapError(err)
		},
		Delete: func(ctx context.Context, e models.Ingredient) error {
			_, err := s.pool.Exec(ctx, `DELETE FROM ingredients WHERE id = $1`, e.ID)
			return mapError(err)
		},
		DeleteAll: func(ctx context.Context) error {
			_, err := s.pool.Exec(ctx, `DELETE FROM ingredients WHERE recipe_id = $1`, recipeID)
			return mapError(err)
		},
	})
}

// ReconcileCookStages positionally merges incoming cook-stage payloads.
// An overwritten stage keeps its picture reference; a deleted stage's
// picture file is removed by the caller via the returned orphan refs of
// DeleteRecipe, or stays until the recipe is deleted.
func (s *Store) ReconcileCookStages(ctx context.Context, recipeID int64, incoming []models.CookStageInput, max int) error {
	existing, err := s.ListCookStages(ctx, recipeID)
	if err != nil {
		return err
	}
	return reconcile.Merge(ctx, existing, incoming, max, reconcile.Ops[models.CookStage, models.CookStageInput]{
		Update: func(ctx context.Context, e models.CookStage, p models.CookStageInput) error {
			_, err := s.pool.Exec(ctx,
				`UPDATE cook_stages SET description = $2 WHERE id = $1`,
				e.ID, p.Description)
			return mapError(err)
		},
		Create: func(ctx context.Context, p models.CookStageInput) error {
			_, err := s.pool.Exec(ctx,
				`INSERT INTO cook_stages (recipe_id, description) VALUES ($1, $2)`,
				recipeID, p.Description)
			return mapError(err)
		},
		Delete: func(ctx context.Context, e models.CookStage) error {
			_, err := s.pool.Exec(ctx, `DELETE FROM cook_stages WHERE id = $1`, e.ID)
			return mapError(err)
		},
		DeleteAll: func(ctx context.Context) error {
			_, err := s.pool.Exec(ctx, `DELETE FROM cook_stages WHERE recipe_id = $1`, recipeID)
			return mapError(err)
		},
	})
}

// ReconcileTags positionally merges incoming tag payloads.
func (s *Store) ReconcileTags(ctx context.Context, recipeID int64, incoming []models.TagInput, max int) error {
	existing, err := s.ListTags(ctx, recipeID)
	if err != nil {
		return err
	}
	return reconcile.Merge(ctx, existing, incoming, max, reconcile.Ops[models.Tag, models.TagInput]{
		Update: func(ctx context.Context, e models.Tag, p models.TagInput) error {
			_, err := s.pool.Exec(ctx,
				`UPDATE tags SET name = $2 WHERE id = $1`, e.ID, p.Name)
			return mapError(err)
		},
		Create: func(ctx context.Context, p models.TagInput) error {
			_, err := s.pool.Exec(ctx,
				`INSERT INTO tags (recipe_id, name) VALUES ($1, $2)`, recipeID, p.Name)
			return mapError(err)
		},
		Delete: func(ctx context.Context, e models.Tag) error {
			_, err := s.pool.Exec(ctx, `DELETE FROM tags WHERE id = $1`, e.ID)
			return mapError(err)
		},
		DeleteAll: func(ctx context.Context) error {
			_, err := s.pool.Exec(ctx, `DELETE FROM tags WHERE recipe_id = $1`, recipeID)
			return mapError(err)
		},
	})
}
