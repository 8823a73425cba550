// Confit - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/confit

package database

import (
	"context"
	"fmt"
)

// migrations are applied in order at startup. Statements are idempotent so
// a restart against an existing database is a no-op.
//
// Constraint notes:
//   - recipes.creator_id and comments.creator_id are SET NULL on user
//     delete: rows survive account removal as orphans.
//   - ingredients/cook_stages/tags/comments/grades cascade with their
//     parent; children never outlive the recipe.
//   - the UNIQUE (evaluator_id, target) pairs on the grade tables make
//     concurrent duplicate votes resolve deterministically at the storage
//     layer; the application upserts instead of locking.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		username      VARCHAR(80) NOT NULL UNIQUE,
		email         VARCHAR(254) UNIQUE,
		password_hash TEXT NOT NULL,
		first_name    VARCHAR(80) NOT NULL DEFAULT '',
		last_name     VARCHAR(80) NOT NULL DEFAULT '',
		patronymic    VARCHAR(80) NOT NULL DEFAULT '',
		avatar_path   TEXT NOT NULL DEFAULT '',
		active        BOOLEAN NOT NULL DEFAULT TRUE,
		date_joined   TIMESTAMPTZ NOT NULL DEFAULT now(),
		last_login    TIMESTAMPTZ
	)`,

	`CREATE TABLE IF NOT EXISTS recipes (
		id          BIGSERIAL PRIMARY KEY,
		creator_id  BIGINT REFERENCES users(id) ON DELETE SET NULL,
		title       VARCHAR(100) NOT NULL DEFAULT '',
		body        TEXT NOT NULL DEFAULT '',
		portions    INTEGER,
		cook_time   INTEGER,
		weight      INTEGER,
		avatar_path TEXT NOT NULL DEFAULT '',
		status      VARCHAR(10) NOT NULL DEFAULT 'visible',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_recipes_creator ON recipes(creator_id)`,
	`CREATE INDEX IF NOT EXISTS idx_recipes_status ON recipes(status)`,

	`CREATE TABLE IF NOT EXISTS ingredients (
		id        BIGSERIAL PRIMARY KEY,
		recipe_id BIGINT NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
		name      VARCHAR(100) NOT NULL,
		measure   VARCHAR(100) NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_ingredients_recipe ON ingredients(recipe_id)`,

	`CREATE TABLE IF NOT EXISTS cook_stages (
		id           BIGSERIAL PRIMARY KEY,
		recipe_id    BIGINT NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
		description  TEXT NOT NULL DEFAULT '',
		picture_path TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_cook_stages_recipe ON cook_stages(recipe_id)`,

	`CREATE TABLE IF NOT EXISTS tags (
		id        BIGSERIAL PRIMARY KEY,
		recipe_id BIGINT NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
		name      VARCHAR(30) NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tags_recipe ON tags(recipe_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tags_name ON tags(name)`,

	`CREATE TABLE IF NOT EXISTS comments (
		id         BIGSERIAL PRIMARY KEY,
		creator_id BIGINT REFERENCES users(id) ON DELETE SET NULL,
		recipe_id  BIGINT NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
		body       TEXT NOT NULL DEFAULT '',
		status     VARCHAR(10) NOT NULL DEFAULT 'visible',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_recipe ON comments(recipe_id)`,

	`CREATE TABLE IF NOT EXISTS recipe_grades (
		id           BIGSERIAL PRIMARY KEY,
		evaluator_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		recipe_id    BIGINT NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
		grade        BOOLEAN NOT NULL DEFAULT TRUE,
		status       VARCHAR(10) NOT NULL DEFAULT 'visible',
		UNIQUE (evaluator_id, recipe_id)
	)`,

	`CREATE TABLE IF NOT EXISTS comment_grades (
		id           BIGSERIAL PRIMARY KEY,
		evaluator_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		comment_id   BIGINT NOT NULL REFERENCES comments(id) ON DELETE CASCADE,
		grade        BOOLEAN NOT NULL DEFAULT TRUE,
		status       VARCHAR(10) NOT NULL DEFAULT 'visible',
		UNIQUE (evaluator_id, comment_id)
	)`,
}

// migrate applies the schema statements in order.
func (s *Store) migrate(ctx context.Context) error {
	for i, stmt := range migrations {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	return nil
}
