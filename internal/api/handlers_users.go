// Confit - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/confit

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/confit/internal/auth"
	"github.com/tomtom215/confit/internal/database"
	"github.com/tomtom215/confit/internal/logging"
	"github.com/tomtom215/confit/internal/media"
	"github.com/tomtom215/confit/internal/metrics"
	"github.com/tomtom215/confit/internal/models"
	"github.com/tomtom215/confit/internal/validation"
)

// HandleRegister creates an account.
// POST /api/v1/users
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		rw.BadRequest("Invalid JSON body")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.ValidationError("Validation failed", verr.FieldErrors())
		return
	}

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to hash password")
		rw.InternalError("Failed to create account")
		return
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Patronymic:   req.Patronymic,
	}
	if req.Email != "" {
		user.Email = &req.Email
	}

	created, err := h.store.CreateUser(r.Context(), user)
	if err != nil {
		// A taken username or email is a field error, not a conflict.
		if respondDuplicate(rw, err) {
			return
		}
		respondStoreError(rw, err)
		return
	}

	logging.Ctx(r.Context()).Info().Int64("user_id", created.ID).Str("username", created.Username).Msg("Account registered")
	rw.Created(h.userSelf(r.Context(), created))
}

// HandleLogin exchanges credentials for a session token. The login field
// accepts a username or an email address.
// POST /api/v1/auth/login
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		rw.BadRequest("Invalid JSON body")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.ValidationError("Validation failed", verr.FieldErrors())
		return
	}

	user, err := h.store.GetUserByLogin(r.Context(), req.Login)
	if err != nil || !h.hasher.Verify(user.PasswordHash, req.Password) {
		// Same answer for unknown account and wrong password.
		rw.Unauthorized("Invalid credentials")
		return
	}

	token, err := h.jwt.GenerateToken(user.ID, user.Username)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to issue token")
		rw.InternalError("Failed to issue token")
		return
	}

	if err := h.store.TouchLastLogin(r.Context(), user.ID, time.Now()); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Int64("user_id", user.ID).Msg("Failed to record login time")
	}

	rw.Success(map[string]interface{}{
		"token": token,
		"user":  h.userSelf(r.Context(), user),
	})
}

// HandleGetMe returns the caller's own account.
// GET /api/v1/users/me
func (h *Handler) HandleGetMe(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	user, err := h.store.GetUserByID(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		respondStoreError(rw, err)
		return
	}
	rw.Success(h.userSelf(r.Context(), user))
}

// HandleGetUser returns a public account view.
// GET /api/v1/users/{id}
func (h *Handler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, ok := idParam(r, "id")
	if !ok {
		rw.NotFound("User not found")
		return
	}
	user, err := h.store.GetUserByID(r.Context(), id)
	if err != nil {
		respondStoreError(rw, err)
		return
	}
	rw.Success(h.userPublic(r.Context(), user))
}

// HandleUpdateMe edits the caller's profile fields. A submission identical
// to the stored state is rejected as a no-op.
// PUT /api/v1/users/me
func (h *Handler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req UpdateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		rw.BadRequest("Invalid JSON body")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.ValidationError("Validation failed", verr.FieldErrors())
		return
	}

	user, err := h.store.GetUserByID(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		respondStoreError(rw, err)
		return
	}

	email := ""
	if user.Email != nil {
		email = *user.Email
	}
	if user.Username == req.Username && email == req.Email &&
		user.FirstName == req.FirstName && user.LastName == req.LastName &&
		user.Patronymic == req.Patronymic {
		rw.NoOp("Profile is already in the submitted state")
		return
	}

	user.Username = req.Username
	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Patronymic = req.Patronymic
	user.Email = nil
	if req.Email != "" {
		user.Email = &req.Email
	}

	if err := h.store.UpdateUser(r.Context(), user); err != nil {
		if respondDuplicate(rw, err) {
			return
		}
		respondStoreError(rw, err)
		return
	}
	rw.Accepted(h.userSelf(r.Context(), user))
}

// HandleChangePassword replaces the caller's password after verifying the
// current one.
// PUT /api/v1/users/me/password
func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req ChangePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		rw.BadRequest("Invalid JSON body")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.ValidationError("Validation failed", verr.FieldErrors())
		return
	}

	user, err := h.store.GetUserByID(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		respondStoreError(rw, err)
		return
	}
	if !h.hasher.Verify(user.PasswordHash, req.CurrentPassword) {
		rw.ValidationError("Validation failed", map[string]string{
			"current_password": "current_password does not match",
		})
		return
	}

	hash, err := h.hasher.Hash(req.NewPassword)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to hash password")
		rw.InternalError("Failed to change password")
		return
	}
	if err := h.store.UpdatePassword(r.Context(), user.ID, hash); err != nil {
		respondStoreError(rw, err)
		return
	}

	logging.Ctx(r.Context()).Info().Int64("user_id", user.ID).Msg("Password changed")
	rw.Accepted(nil)
}

// HandleUploadMyAvatar stores a new avatar for the caller, replacing the
// previous file.
// POST /api/v1/users/me/avatar
func (h *Handler) HandleUploadMyAvatar(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	user, err := h.store.GetUserByID(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		respondStoreError(rw, err)
		return
	}

	header, ok := h.uploadedImage(rw, r)
	if !ok {
		return
	}

	ref, err := h.media.Save(media.KindUserAvatar, user.AvatarPath, header)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if _, err := h.store.SetUserAvatar(r.Context(), user.ID, ref); err != nil {
		respondStoreError(rw, err)
		return
	}

	metrics.RecordMediaUpload(string(media.KindUserAvatar))
	rw.Accepted(map[string]string{"avatar": media.URL(ref)})
}

// HandleUserRecipes lists a user's visible recipes. The owner, identified by
// an optional bearer token, gets owner cards without the creator block.
// GET /api/v1/users/{id}/recipes
func (h *Handler) HandleUserRecipes(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, ok := idParam(r, "id")
	if !ok {
		rw.NotFound("User not found")
		return
	}
	if _, err := h.store.GetUserByID(r.Context(), id); err != nil {
		respondStoreError(rw, err)
		return
	}

	recipes, err := h.store.ListRecipes(r.Context(), database.RecipeFilter{CreatorID: id})
	if err != nil {
		respondStoreError(rw, err)
		return
	}
	if len(recipes) == 0 {
		rw.NotFound("No recipes found")
		return
	}

	if h.bearerUserID(r) == id {
		cards := make([]RecipeOwnerCardView, 0, len(recipes))
		for i := range recipes {
			cards = append(cards, h.recipeOwnerCard(r.Context(), &recipes[i]))
		}
		rw.SuccessWithCount(cards, len(cards))
		return
	}

	cards := make([]RecipeCardView, 0, len(recipes))
	for i := range recipes {
		cards = append(cards, h.recipeCard(r.Context(), &recipes[i]))
	}
	rw.SuccessWithCount(cards, len(cards))
}

// bearerUserID extracts the account ID from an optional bearer token on a
// public route. Returns 0 when the request carries no valid token.
func (h *Handler) bearerUserID(r *http.Request) int64 {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return 0
	}
	claims, err := h.jwt.ValidateToken(strings.TrimPrefix(header, prefix))
	if err != nil {
		return 0
	}
	return claims.UserID
}

