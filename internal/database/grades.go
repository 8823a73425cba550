// Confit - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/confit

package database

import (
	"context"

	"github.com/tomtom215/confit/internal/models"
)

// Grades live in two tables of identical shape, one per target kind. The
// UNIQUE (evaluator_id, target) constraint makes the submit path an upsert:
// concurrent duplicate votes collapse onto one row instead of racing.

// UpsertRecipeGrade records a vote on a recipe. A repeat submission
// overwrites the direction and revives a cancelled grade.
func (s *Store) UpsertRecipeGrade(ctx context.Context, evaluatorID, recipeID int64, up bool) (*models.Grade, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO recipe_grades (evaluator_id, recipe_id, grade)
		VALUES ($1, $2, $3)
		ON CONFLICT (evaluator_id, recipe_id)
		DO UPDATE SET grade = EXCLUDED.grade, status = 'visible'
		RETURNING id, evaluator_id, recipe_id, grade, status`,
		evaluatorID, recipeID, up)
	return scanGrade(row)
}

// GetRecipeGrade fetches the evaluator's grade on a recipe, whatever its
// status. Returns ErrNotFound if the evaluator never voted.
func (s *Store) GetRecipeGrade(ctx context.Context, evaluatorID, recipeID int64) (*models.Grade, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, evaluator_id, recipe_id, grade, status
		FROM recipe_grades WHERE evaluator_id = $1 AND recipe_id = $2`,
		evaluatorID, recipeID)
	return scanGrade(row)
}

// CancelRecipeGrade retracts an active vote by flipping its status. Returns
// ErrNotFound when there is no active vote to retract.
func (s *Store) CancelRecipeGrade(ctx context.Context, evaluatorID, recipeID int64) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE recipe_grades SET status = 'blocked'
		WHERE evaluator_id = $1 AND recipe_id = $2 AND status = 'visible'`,
		evaluatorID, recipeID)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListRecipeGrades returns every grade row on a recipe, blocked ones
// included. Rating aggregation decides what counts.
func (s *Store) ListRecipeGrades(ctx context.Context, recipeID int64) ([]models.Grade, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, evaluator_id, recipe_id, grade, status
		FROM recipe_grades WHERE recipe_id = $1 ORDER BY id`, recipeID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	return collectGrades(rows)
}

// UpsertCommentGrade records a vote on a comment.
func (s *Store) UpsertCommentGrade(ctx context.Context, evaluatorID, commentID int64, up bool) (*models.Grade, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO comment_grades (evaluator_id, comment_id, grade)
		VALUES ($1, $2, $3)
		ON CONFLICT (evaluator_id, comment_id)
		DO UPDATE SET grade = EXCLUDED.grade, status = 'visible'
		RETURNING id, evaluator_id, comment_id, grade, status`,
		evaluatorID, commentID, up)
	return scanGrade(row)
}

// GetCommentGrade fetches the evaluator's grade on a comment.
func (s *Store) GetCommentGrade(ctx context.Context, evaluatorID, commentID int64) (*models.Grade, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, evaluator_id, comment_id, grade, status
		FROM comment_grades WHERE evaluator_id = $1 AND comment_id = $2`,
		evaluatorID, commentID)
	return scanGrade(row)
}

// CancelCommentGrade retracts an active vote on a comment.
func (s *Store) CancelCommentGrade(ctx context.Context, evaluatorID, commentID int64) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE comment_grades SET status = 'blocked'
		WHERE evaluator_id = $1 AND comment_id = $2 AND status = 'visible'`,
		evaluatorID, commentID)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListCommentGrades returns every grade row on a comment.
func (s *Store) ListCommentGrades(ctx context.Context, commentID int64) ([]models.Grade, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, evaluator_id, comment_id, grade, status
		FROM comment_grades WHERE comment_id = $1 ORDER BY id`, commentID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	return collectGrades(rows)
}

func scanGrade(row interface{ Scan(dest ...any) error }) (*models.Grade, error) {
	var g models.Grade
	err := row.Scan(&g.ID, &g.EvaluatorID, &g.TargetID, &g.Up, &g.Status)
	if err != nil {
		return nil, mapError(err)
	}
	return &g, nil
}

func collectGrades(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]models.Grade, error) {
	var grades []models.Grade
	for rows.Next() {
		g, err := scanGrade(rows)
		if err != nil {
			return nil, err
		}
		grades = append(grades, *g)
	}
	return grades, mapError(rows.Err())
}
