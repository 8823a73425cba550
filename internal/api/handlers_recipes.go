// Confit - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/confit

package api

import (
	"net/http"

	"github.com/tomtom215/confit/internal/auth"
	"github.com/tomtom215/confit/internal/database"
	"github.com/tomtom215/confit/internal/logging"
	"github.com/tomtom215/confit/internal/media"
	"github.com/tomtom215/confit/internal/metrics"
	"github.com/tomtom215/confit/internal/models"
	"github.com/tomtom215/confit/internal/validation"
)

// HandleListRecipes lists visible recipes, newest first, optionally
// filtered by title, tag or author substring.
// GET /api/v1/recipes?title=&tag=&author=
func (h *Handler) HandleListRecipes(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	q := r.URL.Query()
	recipes, err := h.store.ListRecipes(r.Context(), database.RecipeFilter{
		Title:  q.Get("title"),
		Tag:    q.Get("tag"),
		Author: q.Get("author"),
	})
	if err != nil {
		respondStoreError(rw, err)
		return
	}
	if len(recipes) == 0 {
		rw.NotFound("No recipes found")
		return
	}

	cards := make([]RecipeCardView, 0, len(recipes))
	for i := range recipes {
		cards = append(cards, h.recipeCard(r.Context(), &recipes[i]))
	}
	rw.SuccessWithCount(cards, len(cards))
}

// HandleGetRecipe returns one recipe in full. Blocked recipes are absent
// from the public surface, indistinguishable from missing ones.
// GET /api/v1/recipes/{id}
func (h *Handler) HandleGetRecipe(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	recipe, ok := h.visibleRecipe(rw, r)
	if !ok {
		return
	}
	detail, err := h.recipeDetail(r.Context(), recipe)
	if err != nil {
		respondStoreError(rw, err)
		return
	}
	rw.Success(detail)
}

// HandleCreateRecipe creates a recipe with its child collections. Child
// payloads beyond a collection's cap are silently dropped.
// POST /api/v1/recipes
func (h *Handler) HandleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req RecipeRequest
	if err := decodeJSON(r, &req); err != nil {
		rw.BadRequest("Invalid JSON body")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.ValidationError("Validation failed", verr.FieldErrors())
		return
	}

	creatorID := auth.UserIDFromContext(r.Context())
	recipe, err := h.store.CreateRecipe(r.Context(), &models.Recipe{
		CreatorID: &creatorID,
		Title:     req.Title,
		Body:      req.Body,
		Portions:  req.Portions,
		CookTime:  req.CookTime,
		Weight:    req.Weight,
	})
	if err != nil {
		respondStoreError(rw, err)
		return
	}

	limits := h.cfg.Limits
	if req.Ingredients != nil {
		if err := h.store.CreateIngredients(r.Context(), recipe.ID, *req.Ingredients, limits.MaxIngredients); err != nil {
			respondStoreError(rw, err)
			return
		}
	}
	if req.CookStages != nil {
		if err := h.store.CreateCookStages(r.Context(), recipe.ID, *req.CookStages, limits.MaxCookStages); err != nil {
			respondStoreError(rw, err)
			return
		}
	}
	if req.Tags != nil {
		if err := h.store.CreateTags(r.Context(), recipe.ID, *req.Tags, limits.MaxTags); err != nil {
			respondStoreError(rw, err)
			return
		}
	}

	logging.Ctx(r.Context()).Info().Int64("recipe_id", recipe.ID).Int64("creator_id", creatorID).Msg("Recipe created")

	detail, err := h.recipeDetail(r.Context(), recipe)
	if err != nil {
		respondStoreError(rw, err)
		return
	}
	rw.Created(detail)
}

// HandleUpdateRecipe edits a recipe's own fields and reconciles any child
// collection present in the payload. A nil collection leaves the stored
// rows alone; an empty one removes them all. A payload identical to the
// stored state with no collections supplied is rejected as a no-op.
// PUT /api/v1/recipes/{id}
func (h *Handler) HandleUpdateRecipe(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	recipe, ok := h.ownedRecipe(rw, r)
	if !ok {
		return
	}

	var req RecipeRequest
	if err := decodeJSON(r, &req); err != nil {
		rw.BadRequest("Invalid JSON body")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.ValidationError("Validation failed", verr.FieldErrors())
		return
	}

	ownFieldsSame := recipe.Title == req.Title && recipe.Body == req.Body &&
		intPtrEqual(recipe.Portions, req.Portions) &&
		intPtrEqual(recipe.CookTime, req.CookTime) &&
		intPtrEqual(recipe.Weight, req.Weight)
	if ownFieldsSame && req.Ingredients == nil && req.CookStages == nil && req.Tags == nil {
		rw.NoOp("Recipe is already in the submitted state")
		return
	}

	if !ownFieldsSame {
		recipe.Title = req.Title
		recipe.Body = req.Body
		recipe.Portions = req.Portions
		recipe.CookTime = req.CookTime
		recipe.Weight = req.Weight
		if err := h.store.UpdateRecipe(r.Context(), recipe); err != nil {
			respondStoreError(rw, err)
			return
		}
	}

	limits := h.cfg.Limits
	if req.Ingredients != nil {
		if err := h.store.ReconcileIngredients(r.Context(), recipe.ID, *req.Ingredients, limits.MaxIngredients); err != nil {
			respondStoreError(rw, err)
			return
		}
	}
	if req.CookStages != nil {
		if err := h.store.ReconcileCookStages(r.Context(), recipe.ID, *req.CookStages, limits.MaxCookStages); err != nil {
			respondStoreError(rw, err)
			return
		}
	}
	if req.Tags != nil {
		if err := h.store.ReconcileTags(r.Context(), recipe.ID, *req.Tags, limits.MaxTags); err != nil {
			respondStoreError(rw, err)
			return
		}
	}

	detail, err := h.recipeDetail(r.Context(), recipe)
	if err != nil {
		respondStoreError(rw, err)
		return
	}
	rw.Accepted(detail)
}

// HandleDeleteRecipe removes a recipe, its children, and every media file
// they referenced.
// DELETE /api/v1/recipes/{id}
func (h *Handler) HandleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	recipe, ok := h.ownedRecipe(rw, r)
	if !ok {
		return
	}

	refs, err := h.store.DeleteRecipe(r.Context(), recipe.ID)
	if err != nil {
		respondStoreError(rw, err)
		return
	}
	h.media.Purge(refs...)

	logging.Ctx(r.Context()).Info().Int64("recipe_id", recipe.ID).Msg("Recipe deleted")
	rw.Accepted(nil)
}

// HandleUploadRecipeAvatar stores a new recipe avatar, replacing the
// previous file.
// POST /api/v1/recipes/{id}/avatar
func (h *Handler) HandleUploadRecipeAvatar(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	recipe, ok := h.ownedRecipe(rw, r)
	if !ok {
		return
	}

	header, ok := h.uploadedImage(rw, r)
	if !ok {
		return
	}

	ref, err := h.media.Save(media.KindRecipeAvatar, recipe.AvatarPath, header)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if _, err := h.store.SetRecipeAvatar(r.Context(), recipe.ID, ref); err != nil {
		respondStoreError(rw, err)
		return
	}

	metrics.RecordMediaUpload(string(media.KindRecipeAvatar))
	rw.Accepted(map[string]string{"avatar": media.URL(ref)})
}

// visibleRecipe loads the recipe named in the URL for a public read.
// Blocked and missing recipes both answer 404.
func (h *Handler) visibleRecipe(rw *ResponseWriter, r *http.Request) (*models.Recipe, bool) {
	id, ok := idParam(r, "id")
	if !ok {
		rw.NotFound("Recipe not found")
		return nil, false
	}
	recipe, err := h.store.GetRecipe(r.Context(), id)
	if err != nil {
		respondStoreError(rw, err)
		return nil, false
	}
	if recipe.Status != models.StatusVisible {
		rw.NotFound("Recipe not found")
		return nil, false
	}
	return recipe, true
}

// ownedRecipe loads the recipe named in the URL for a write by its owner.
// A non-owner gets the same 404 as a missing recipe, so the write surface
// leaks nothing about recipes the caller does not own. Orphaned recipes
// accept no owner writes.
func (h *Handler) ownedRecipe(rw *ResponseWriter, r *http.Request) (*models.Recipe, bool) {
	id, ok := idParam(r, "id")
	if !ok {
		rw.NotFound("Recipe not found")
		return nil, false
	}
	recipe, err := h.store.GetRecipe(r.Context(), id)
	if err != nil {
		respondStoreError(rw, err)
		return nil, false
	}
	userID := auth.UserIDFromContext(r.Context())
	if recipe.CreatorID == nil || *recipe.CreatorID != userID {
		rw.NotFound("Recipe not found")
		return nil, false
	}
	return recipe, true
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
