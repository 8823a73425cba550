// Confit - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/confit

package models

// Input payloads for a recipe's nested child collections. These are what the
// reconciler walks against existing rows: a nil slice in an edit request
// means "no change", an empty slice means "remove all".

// IngredientInput carries the writable fields of one ingredient.
type IngredientInput struct {
	Name    string `json:"name" validate:"required,min=1,max=100"`
	Measure string `json:"measure" validate:"max=100"`
}

// CookStageInput carries the writable fields of one cook stage. Pictures are
// uploaded separately and keep their stored reference across reconciles.
type CookStageInput struct {
	Description string `json:"description" validate:"required,min=1"`
}

// TagInput carries the writable fields of one tag.
type TagInput struct {
	Name string `json:"name" validate:"required,tagname"`
}
