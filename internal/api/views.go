// Confit - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/confit

package api

import (
	"context"
	"time"

	"github.com/tomtom215/confit/internal/logging"
	"github.com/tomtom215/confit/internal/media"
	"github.com/tomtom215/confit/internal/metrics"
	"github.com/tomtom215/confit/internal/models"
	"github.com/tomtom215/confit/internal/rating"
)

// View shapes. Larger views embed smaller ones so a detail is a strict
// superset of a card, and the self view a subset of the public one.

// UserCardView is the minimal user projection embedded in recipes and
// comments.
type UserCardView struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// UserSelfView is what an authenticated account sees of itself.
type UserSelfView struct {
	UserCardView
	Email      string    `json:"email,omitempty"`
	FirstName  string    `json:"first_name,omitempty"`
	LastName   string    `json:"last_name,omitempty"`
	Patronymic string    `json:"patronymic,omitempty"`
	DateJoined time.Time `json:"date_joined"`
}

// UserPublicView extends the self view with the account's moderation status
// and visible activity.
type UserPublicView struct {
	UserSelfView
	Status    models.Status `json:"status"`
	LastLogin *time.Time    `json:"last_login,omitempty"`
}

// RecipeOwnerCardView is the card an owner sees in their own recipe list.
// No creator block: the viewer is the creator.
type RecipeOwnerCardView struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Avatar string `json:"avatar"`
	Rating int    `json:"rating"`
}

// RecipeCardView is the general listing card.
type RecipeCardView struct {
	RecipeOwnerCardView
	Creator  *UserCardView `json:"creator,omitempty"`
	Portions *int          `json:"portions,omitempty"`
	CookTime *int          `json:"cook_time,omitempty"`
}

// RecipeDetailView is the full recipe projection.
type RecipeDetailView struct {
	RecipeCardView
	Body        string           `json:"body"`
	Weight      *int             `json:"weight,omitempty"`
	Ingredients []IngredientView `json:"ingredients"`
	CookStages  []CookStageView  `json:"cook_stages"`
	Tags        []string         `json:"tags"`
	Comments    []CommentView    `json:"comments"`
	CreatedAt   time.Time        `json:"created_at"`
}

// IngredientView is one ingredient line.
type IngredientView struct {
	Name    string `json:"name"`
	Measure string `json:"measure,omitempty"`
}

// CookStageView is one preparation step.
type CookStageView struct {
	Description string `json:"description"`
	Picture     string `json:"picture"`
}

// CommentView is one comment with its net score.
type CommentView struct {
	ID        int64         `json:"id"`
	Creator   *UserCardView `json:"creator,omitempty"`
	Body      string        `json:"body"`
	Rating    int           `json:"rating"`
	CreatedAt time.Time     `json:"created_at"`
}

// resolveImage turns a stored reference into a served URL, substituting the
// kind's default for empty or dangling references. A stale reference is
// cleared in storage through clear, the self-heal side effect of every read.
func (h *Handler) resolveImage(ctx context.Context, kind media.Kind, stored string, clear func(context.Context) error) string {
	ref, stale := h.media.Resolve(kind, stored)
	if stale && clear != nil {
		if err := clear(ctx); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("ref", stored).Msg("Failed to clear stale image reference")
		} else {
			metrics.RecordMediaSelfHeal(string(kind))
		}
	}
	return media.URL(ref)
}

func (h *Handler) userCard(ctx context.Context, u *models.User) UserCardView {
	avatar := h.resolveImage(ctx, media.KindUserAvatar, u.AvatarPath, func(ctx context.Context) error {
		return h.store.ClearUserAvatar(ctx, u.ID)
	})
	return UserCardView{
		ID:       u.ID,
		Username: u.Username,
		Avatar:   avatar,
	}
}

func (h *Handler) userSelf(ctx context.Context, u *models.User) UserSelfView {
	v := UserSelfView{
		UserCardView: h.userCard(ctx, u),
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Patronymic:   u.Patronymic,
		DateJoined:   u.DateJoined,
	}
	if u.Email != nil {
		v.Email = *u.Email
	}
	return v
}

func (h *Handler) userPublic(ctx context.Context, u *models.User) UserPublicView {
	status := models.StatusBlocked
	if u.Active {
		status = models.StatusVisible
	}
	return UserPublicView{
		UserSelfView: h.userSelf(ctx, u),
		Status:       status,
		LastLogin:    u.LastLogin,
	}
}

// creatorCard resolves the nullable creator reference of a recipe or
// comment. Orphaned entities render without a creator block.
func (h *Handler) creatorCard(ctx context.Context, creatorID *int64) *UserCardView {
	if creatorID == nil {
		return nil
	}
	u, err := h.store.GetUserByID(ctx, *creatorID)
	if err != nil {
		return nil
	}
	card := h.userCard(ctx, u)
	return &card
}

func (h *Handler) recipeRating(ctx context.Context, recipeID int64) int {
	grades, err := h.store.ListRecipeGrades(ctx, recipeID)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Int64("recipe_id", recipeID).Msg("Failed to load recipe grades")
		return 0
	}
	return rating.Score(grades)
}

func (h *Handler) commentRating(ctx context.Context, commentID int64) int {
	grades, err := h.store.ListCommentGrades(ctx, commentID)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Int64("comment_id", commentID).Msg("Failed to load comment grades")
		return 0
	}
	return rating.Score(grades)
}

func (h *Handler) recipeOwnerCard(ctx context.Context, r *models.Recipe) RecipeOwnerCardView {
	avatar := h.resolveImage(ctx, media.KindRecipeAvatar, r.AvatarPath, func(ctx context.Context) error {
		return h.store.ClearRecipeAvatar(ctx, r.ID)
	})
	return RecipeOwnerCardView{
		ID:     r.ID,
		Title:  r.Title,
		Avatar: avatar,
		Rating: h.recipeRating(ctx, r.ID),
	}
}

func (h *Handler) recipeCard(ctx context.Context, r *models.Recipe) RecipeCardView {
	return RecipeCardView{
		RecipeOwnerCardView: h.recipeOwnerCard(ctx, r),
		Creator:             h.creatorCard(ctx, r.CreatorID),
		Portions:            r.Portions,
		CookTime:            r.CookTime,
	}
}

func (h *Handler) recipeDetail(ctx context.Context, r *models.Recipe) (*RecipeDetailView, error) {
	ingredients, err := h.store.ListIngredients(ctx, r.ID)
	if err != nil {
		return nil, err
	}
	stages, err := h.store.ListCookStages(ctx, r.ID)
	if err != nil {
		return nil, err
	}
	tags, err := h.store.ListTags(ctx, r.ID)
	if err != nil {
		return nil, err
	}
	comments, err := h.store.ListCommentsForRecipe(ctx, r.ID)
	if err != nil {
		return nil, err
	}

	view := &RecipeDetailView{
		RecipeCardView: h.recipeCard(ctx, r),
		Body:           r.Body,
		Weight:         r.Weight,
		Ingredients:    make([]IngredientView, 0, len(ingredients)),
		CookStages:     make([]CookStageView, 0, len(stages)),
		Tags:           make([]string, 0, len(tags)),
		Comments:       make([]CommentView, 0, len(comments)),
		CreatedAt:      r.CreatedAt,
	}

	for _, it := range ingredients {
		view.Ingredients = append(view.Ingredients, IngredientView{Name: it.Name, Measure: it.Measure})
	}
	for _, st := range stages {
		stageID := st.ID
		picture := h.resolveImage(ctx, media.KindStagePicture, st.PicturePath, func(ctx context.Context) error {
			return h.store.ClearStagePicture(ctx, stageID)
		})
		view.CookStages = append(view.CookStages, CookStageView{Description: st.Description, Picture: picture})
	}
	for _, t := range tags {
		view.Tags = append(view.Tags, t.Name)
	}
	for i := range comments {
		view.Comments = append(view.Comments, h.commentView(ctx, &comments[i]))
	}
	return view, nil
}

func (h *Handler) commentView(ctx context.Context, c *models.Comment) CommentView {
	return CommentView{
		ID:        c.ID,
		Creator:   h.creatorCard(ctx, c.CreatorID),
		Body:      c.Body,
		Rating:    h.commentRating(ctx, c.ID),
		CreatedAt: c.CreatedAt,
	}
}

// gradeView is the payload of a grade check.
type gradeView struct {
	Up     bool `json:"grade"`
	Active bool `json:"active"`
}

func newGradeView(g *models.Grade) gradeView {
	return gradeView{
		Up:     g.Up,
		Active: g.Status == models.StatusVisible,
	}
}
