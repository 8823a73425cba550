// Confit - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/confit

package api

import (
	"net/http"

	"github.com/tomtom215/confit/internal/auth"
	"github.com/tomtom215/confit/internal/logging"
	"github.com/tomtom215/confit/internal/models"
	"github.com/tomtom215/confit/internal/validation"
)

// HandleCreateComment posts a comment under a visible recipe.
// POST /api/v1/recipes/{id}/comments
func (h *Handler) HandleCreateComment(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	recipe, ok := h.visibleRecipe(rw, r)
	if !ok {
		return
	}

	var req CommentRequest
	if err := decodeJSON(r, &req); err != nil {
		rw.BadRequest("Invalid JSON body")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.ValidationError("Validation failed", verr.FieldErrors())
		return
	}

	creatorID := auth.UserIDFromContext(r.Context())
	comment, err := h.store.CreateComment(r.Context(), &models.Comment{
		CreatorID: &creatorID,
		RecipeID:  recipe.ID,
		Body:      req.Body,
	})
	if err != nil {
		respondStoreError(rw, err)
		return
	}

	logging.Ctx(r.Context()).Info().Int64("comment_id", comment.ID).Int64("recipe_id", recipe.ID).Msg("Comment posted")
	rw.Created(h.commentView(r.Context(), comment))
}

// HandleDeleteComment removes the caller's own comment.
// DELETE /api/v1/comments/{id}
func (h *Handler) HandleDeleteComment(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, ok := idParam(r, "id")
	if !ok {
		rw.NotFound("Comment not found")
		return
	}
	comment, err := h.store.GetComment(r.Context(), id)
	if err != nil {
		respondStoreError(rw, err)
		return
	}

	// A non-author gets the same 404 as a missing comment.
	userID := auth.UserIDFromContext(r.Context())
	if comment.CreatorID == nil || *comment.CreatorID != userID {
		rw.NotFound("Comment not found")
		return
	}

	if err := h.store.DeleteComment(r.Context(), id); err != nil {
		respondStoreError(rw, err)
		return
	}
	rw.Accepted(nil)
}
