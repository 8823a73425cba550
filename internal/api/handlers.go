// Confit - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/confit

package api

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/confit/internal/auth"
	"github.com/tomtom215/confit/internal/config"
	"github.com/tomtom215/confit/internal/database"
	"github.com/tomtom215/confit/internal/media"
	"github.com/tomtom215/confit/internal/models"
)

// Store is the persistence surface the handlers depend on. *database.Store
// is the production implementation; tests substitute an in-memory one.
type Store interface {
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, u *models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
	SetUserAvatar(ctx context.Context, id int64, ref string) (string, error)
	ClearUserAvatar(ctx context.Context, id int64) error

	CreateRecipe(ctx context.Context, r *models.Recipe) (*models.Recipe, error)
	GetRecipe(ctx context.Context, id int64) (*models.Recipe, error)
	ListRecipes(ctx context.Context, f database.RecipeFilter) ([]models.Recipe, error)
	UpdateRecipe(ctx context.Context, r *models.Recipe) error
	DeleteRecipe(ctx context.Context, id int64) ([]string, error)
	SetRecipeAvatar(ctx context.Context, id int64, ref string) (string, error)
	ClearRecipeAvatar(ctx context.Context, id int64) error

	ListIngredients(ctx context.Context, recipeID int64) ([]models.Ingredient, error)
	ListCookStages(ctx context.Context, recipeID int64) ([]models.CookStage, error)
	ListTags(ctx context.Context, recipeID int64) ([]models.Tag, error)
	CreateIngredients(ctx context.Context, recipeID int64, in []models.IngredientInput, max int) error
	CreateCookStages(ctx context.Context, recipeID int64, in []models.CookStageInput, max int) error
	CreateTags(ctx context.Context, recipeID int64, in []models.TagInput, max int) error
	ReconcileIngredients(ctx context.Context, recipeID int64, incoming []models.IngredientInput, max int) error
	ReconcileCookStages(ctx context.Context, recipeID int64, incoming []models.CookStageInput, max int) error
	ReconcileTags(ctx context.Context, recipeID int64, incoming []models.TagInput, max int) error
	ClearStagePicture(ctx context.Context, stageID int64) error

	CreateComment(ctx context.Context, c *models.Comment) (*models.Comment, error)
	GetComment(ctx context.Context, id int64) (*models.Comment, error)
	ListCommentsForRecipe(ctx context.Context, recipeID int64) ([]models.Comment, error)
	DeleteComment(ctx context.Context, id int64) error

	UpsertRecipeGrade(ctx context.Context, evaluatorID, recipeID int64, up bool) (*models.Grade, error)
	GetRecipeGrade(ctx context.Context, evaluatorID, recipeID int64) (*models.Grade, error)
	CancelRecipeGrade(ctx context.Context, evaluatorID, recipeID int64) error
	ListRecipeGrades(ctx context.Context, recipeID int64) ([]models.Grade, error)
	UpsertCommentGrade(ctx context.Context, evaluatorID, commentID int64, up bool) (*models.Grade, error)
	GetCommentGrade(ctx context.Context, evaluatorID, commentID int64) (*models.Grade, error)
	CancelCommentGrade(ctx context.Context, evaluatorID, commentID int64) error
	ListCommentGrades(ctx context.Context, commentID int64) ([]models.Grade, error)
}

var _ Store = (*database.Store)(nil)

// Handler carries the dependencies shared by every endpoint. Handlers stay
// thin: authorize, look up, delegate to the store and view builders, respond.
type Handler struct {
	store  Store
	media  *media.Store
	jwt    *auth.JWTManager
	hasher *auth.Hasher
	cfg    *config.Config
}

// NewHandler creates the API handler set.
func NewHandler(store Store, mediaStore *media.Store, jwtManager *auth.JWTManager, hasher *auth.Hasher, cfg *config.Config) *Handler {
	return &Handler{
		store:  store,
		media:  mediaStore,
		jwt:    jwtManager,
		hasher: hasher,
		cfg:    cfg,
	}
}

// idParam extracts a positive integer URL parameter. The second return is
// false when the parameter is missing or malformed; callers respond 404
// since the path cannot name an existing entity.
func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// uploadedImage parses a multipart body and returns the image file header.
// The file may arrive under any of the accepted field names.
func (h *Handler) uploadedImage(rw *ResponseWriter, r *http.Request) (*multipart.FileHeader, bool) {
	if err := r.ParseMultipartForm(h.cfg.Media.MaxUploadBytes); err != nil {
		rw.BadRequest("Invalid multipart body")
		return nil, false
	}
	if r.MultipartForm != nil {
		for _, field := range []string{"image", "avatar", "picture"} {
			if files := r.MultipartForm.File[field]; len(files) > 0 {
				return files[0], true
			}
		}
	}
	rw.BadRequest("Missing image file field")
	return nil, false
}

// respondDuplicate answers a unique violation on a user-supplied natural key
// as a 400 validation failure naming the colliding field. Returns false when
// err is not a duplicate, leaving the response to respondStoreError.
func respondDuplicate(rw *ResponseWriter, err error) bool {
	var dup *database.DuplicateError
	if !errors.As(err, &dup) {
		return false
	}
	field := dup.Field
	if field == "" {
		field = "username"
	}
	rw.ValidationError("Validation failed", map[string]string{field: field + " is already taken"})
	return true
}

// respondStoreError maps storage sentinels onto the error taxonomy.
func respondStoreError(rw *ResponseWriter, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		rw.NotFound("Resource not found")
	case errors.Is(err, database.ErrDuplicate):
		rw.Conflict("A resource with these unique fields already exists")
	default:
		rw.DatabaseError(err)
	}
}
