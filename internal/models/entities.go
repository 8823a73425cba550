// Confit - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/confit

// Package models defines the persisted entities of the recipe catalog and
// the wire-level envelope types shared by all API responses.
//
// Entities map one-to-one onto PostgreSQL tables (see internal/database).
// Foreign keys are explicit fields; there is no ORM layer. Nullable columns
// use pointer types so "absent" and "zero" stay distinguishable.
package models

import "time"

// Status is the soft-moderation flag carried by recipes, comments and grades.
// A blocked entity is excluded from every public read path without being
// deleted.
type Status string

const (
	// StatusVisible marks an entity as publicly readable.
	StatusVisible Status = "visible"

	// StatusBlocked excludes an entity from all public reads. For grades
	// this doubles as the cancelled state: cancellation is a status flip,
	// never a delete.
	StatusBlocked Status = "blocked"
)

// User is a registered account. Users are never hard-deleted by any exposed
// flow; recipes and comments keep a nullable creator reference so rows
// survive account removal as orphans.
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Email        *string    `json:"email,omitempty"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"first_name,omitempty"`
	LastName     string     `json:"last_name,omitempty"`
	Patronymic   string     `json:"patronymic,omitempty"`
	AvatarPath   string     `json:"-"`
	Active       bool       `json:"-"`
	DateJoined   time.Time  `json:"date_joined"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// Recipe is the root aggregate. Ingredients, cook stages and tags belong to
// exactly one recipe and never outlive it.
type Recipe struct {
	ID         int64     `json:"id"`
	CreatorID  *int64    `json:"creator_id,omitempty"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	Portions   *int      `json:"portions,omitempty"`
	CookTime   *int      `json:"cook_time,omitempty"`
	Weight     *int      `json:"weight,omitempty"`
	AvatarPath string    `json:"-"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// Ingredient is one line of a recipe's ingredient list.
type Ingredient struct {
	ID       int64  `json:"id"`
	RecipeID int64  `json:"-"`
	Name     string `json:"name"`
	Measure  string `json:"measure"`
}

// CookStage is one step of a recipe's preparation. Stages carry no explicit
// position column; retrieval order is id order, which is whatever the last
// reconciliation produced.
type CookStage struct {
	ID          int64  `json:"id"`
	RecipeID    int64  `json:"-"`
	Description string `json:"description"`
	PicturePath string `json:"-"`
}

// Tag is a short searchable label attached to a recipe.
type Tag struct {
	ID       int64  `json:"id"`
	RecipeID int64  `json:"-"`
	Name     string `json:"name"`
}

// Comment is a user remark under a recipe. The creator reference is nullable
// so comments survive account removal.
type Comment struct {
	ID        int64     `json:"id"`
	CreatorID *int64    `json:"creator_id,omitempty"`
	RecipeID  int64     `json:"recipe_id"`
	Body      string    `json:"body"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Grade is one boolean up/down vote against a recipe or a comment. At most
// one grade exists per (evaluator, target) pair; the storage layer enforces
// this with a unique constraint so concurrent duplicate votes resolve
// deterministically. Cancellation flips Status to blocked.
type Grade struct {
	ID          int64  `json:"id"`
	EvaluatorID int64  `json:"evaluator_id"`
	TargetID    int64  `json:"target_id"`
	Up          bool   `json:"grade"`
	Status      Status `json:"status"`
}
