// Confit - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/confit

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/confit/internal/models"
)

// Request payloads. Validation tags mirror the account and recipe field
// rules; decodeJSON plus validation.ValidateStruct is the standard intake
// path for every JSON endpoint.

// RegisterRequest creates an account.
type RegisterRequest struct {
	Username   string `json:"username" validate:"required,username"`
	Email      string `json:"email" validate:"omitempty,email,max=254"`
	Password   string `json:"password" validate:"required,min=8,max=128"`
	FirstName  string `json:"first_name" validate:"omitempty,personname"`
	LastName   string `json:"last_name" validate:"omitempty,personname"`
	Patronymic string `json:"patronymic" validate:"omitempty,personname"`
}

// LoginRequest exchanges credentials for a session token. Login accepts a
// username or an email address.
type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest edits the caller's profile fields.
type UpdateUserRequest struct {
	Username   string `json:"username" validate:"required,username"`
	Email      string `json:"email" validate:"omitempty,email,max=254"`
	FirstName  string `json:"first_name" validate:"omitempty,personname"`
	LastName   string `json:"last_name" validate:"omitempty,personname"`
	Patronymic string `json:"patronymic" validate:"omitempty,personname"`
}

// ChangePasswordRequest replaces the caller's password. The current password
// is verified before anything changes.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
}

// RecipeRequest creates or edits a recipe. The child collections are
// pointers so an edit can distinguish "field absent, leave the collection
// alone" (nil) from "empty list, remove everything" (non-nil, empty).
type RecipeRequest struct {
	Title    string `json:"title" validate:"required,min=1,max=100"`
	Body     string `json:"body" validate:"required,min=1"`
	Portions *int   `json:"portions" validate:"omitempty,gt=0"`
	CookTime *int   `json:"cook_time" validate:"omitempty,gt=0"`
	Weight   *int   `json:"weight" validate:"omitempty,gt=0"`

	Ingredients *[]models.IngredientInput `json:"ingredients" validate:"omitempty,dive"`
	CookStages  *[]models.CookStageInput  `json:"cook_stages" validate:"omitempty,dive"`
	Tags        *[]models.TagInput        `json:"tags" validate:"omitempty,dive"`
}

// CommentRequest posts a comment under a recipe.
type CommentRequest struct {
	Body string `json:"body" validate:"required,min=1,max=2000"`
}

// GradeRequest submits an up or down vote. The pointer makes a missing
// grade field a validation failure instead of a silent downvote.
type GradeRequest struct {
	Up *bool `json:"grade" validate:"required"`
}

// decodeJSON decodes a request body into dst. Unknown fields are tolerated;
// malformed JSON is not.
func decodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
