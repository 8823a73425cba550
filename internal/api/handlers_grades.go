// Confit - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/confit

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/confit/internal/auth"
	"github.com/tomtom215/confit/internal/database"
	"github.com/tomtom215/confit/internal/metrics"
	"github.com/tomtom215/confit/internal/models"
	"github.com/tomtom215/confit/internal/validation"
)

// Grade endpoints for both target kinds share one shape: POST submits or
// re-submits a vote, GET checks the caller's vote, PUT cancels it. A vote
// identical to the stored active one, or a cancel with nothing to cancel,
// is a no-op submission.

// HandleSubmitRecipeGrade records the caller's vote on a recipe.
// POST /api/v1/recipes/{id}/grade
func (h *Handler) HandleSubmitRecipeGrade(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	recipe, ok := h.visibleRecipe(rw, r)
	if !ok {
		return
	}
	up, ok := h.gradePayload(rw, r)
	if !ok {
		return
	}

	evaluatorID := auth.UserIDFromContext(r.Context())
	existing, err := h.store.GetRecipeGrade(r.Context(), evaluatorID, recipe.ID)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		respondStoreError(rw, err)
		return
	}
	if existing != nil && existing.Status == models.StatusVisible && existing.Up == up {
		rw.NoOp("This grade is already recorded")
		return
	}

	if _, err := h.store.UpsertRecipeGrade(r.Context(), evaluatorID, recipe.ID, up); err != nil {
		respondStoreError(rw, err)
		return
	}
	metrics.RecordGrade("recipe", up)
	rw.NoContent()
}

// HandleCheckRecipeGrade returns the caller's vote on a recipe.
// GET /api/v1/recipes/{id}/grade
func (h *Handler) HandleCheckRecipeGrade(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	recipe, ok := h.visibleRecipe(rw, r)
	if !ok {
		return
	}
	grade, err := h.store.GetRecipeGrade(r.Context(), auth.UserIDFromContext(r.Context()), recipe.ID)
	if err != nil {
		respondStoreError(rw, err)
		return
	}
	rw.Success(newGradeView(grade))
}

// HandleCancelRecipeGrade retracts the caller's active vote on a recipe.
// PUT /api/v1/recipes/{id}/grade
func (h *Handler) HandleCancelRecipeGrade(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	recipe, ok := h.visibleRecipe(rw, r)
	if !ok {
		return
	}
	err := h.store.CancelRecipeGrade(r.Context(), auth.UserIDFromContext(r.Context()), recipe.ID)
	if errors.Is(err, database.ErrNotFound) {
		rw.NoOp("No active grade to cancel")
		return
	}
	if err != nil {
		respondStoreError(rw, err)
		return
	}
	rw.NoContent()
}

// HandleSubmitCommentGrade records the caller's vote on a comment.
// POST /api/v1/comments/{id}/grade
func (h *Handler) HandleSubmitCommentGrade(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	comment, ok := h.visibleComment(rw, r)
	if !ok {
		return
	}
	up, ok := h.gradePayload(rw, r)
	if !ok {
		return
	}

	evaluatorID := auth.UserIDFromContext(r.Context())
	existing, err := h.store.GetCommentGrade(r.Context(), evaluatorID, comment.ID)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		respondStoreError(rw, err)
		return
	}
	if existing != nil && existing.Status == models.StatusVisible && existing.Up == up {
		rw.NoOp("This grade is already recorded")
		return
	}

	if _, err := h.store.UpsertCommentGrade(r.Context(), evaluatorID, comment.ID, up); err != nil {
		respondStoreError(rw, err)
		return
	}
	metrics.RecordGrade("comment", up)
	rw.NoContent()
}

// HandleCheckCommentGrade returns the caller's vote on a comment.
// GET /api/v1/comments/{id}/grade
func (h *Handler) HandleCheckCommentGrade(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	comment, ok := h.visibleComment(rw, r)
	if !ok {
		return
	}
	grade, err := h.store.GetCommentGrade(r.Context(), auth.UserIDFromContext(r.Context()), comment.ID)
	if err != nil {
		respondStoreError(rw, err)
		return
	}
	rw.Success(newGradeView(grade))
}

// HandleCancelCommentGrade retracts the caller's active vote on a comment.
// PUT /api/v1/comments/{id}/grade
func (h *Handler) HandleCancelCommentGrade(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	comment, ok := h.visibleComment(rw, r)
	if !ok {
		return
	}
	err := h.store.CancelCommentGrade(r.Context(), auth.UserIDFromContext(r.Context()), comment.ID)
	if errors.Is(err, database.ErrNotFound) {
		rw.NoOp("No active grade to cancel")
		return
	}
	if err != nil {
		respondStoreError(rw, err)
		return
	}
	rw.NoContent()
}

// gradePayload decodes and validates a grade submission body.
func (h *Handler) gradePayload(rw *ResponseWriter, r *http.Request) (up bool, ok bool) {
	var req GradeRequest
	if err := decodeJSON(r, &req); err != nil {
		rw.BadRequest("Invalid JSON body")
		return false, false
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.ValidationError("Validation failed", verr.FieldErrors())
		return false, false
	}
	return *req.Up, true
}

// visibleComment loads the comment named in the URL for a public-facing
// operation. Blocked and missing comments both answer 404.
func (h *Handler) visibleComment(rw *ResponseWriter, r *http.Request) (*models.Comment, bool) {
	id, ok := idParam(r, "id")
	if !ok {
		rw.NotFound("Comment not found")
		return nil, false
	}
	comment, err := h.store.GetComment(r.Context(), id)
	if err != nil {
		respondStoreError(rw, err)
		return nil, false
	}
	if comment.Status != models.StatusVisible {
		rw.NotFound("Comment not found")
		return nil, false
	}
	return comment, true
}
