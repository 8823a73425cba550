// Confit - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/confit

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/confit/internal/auth"
	"github.com/tomtom215/confit/internal/config"
	"github.com/tomtom215/confit/internal/database"
	"github.com/tomtom215/confit/internal/media"
	"github.com/tomtom215/confit/internal/models"
)

// fakeStore is an in-memory Store covering the paths the handler tests
// exercise. Unknown IDs answer ErrNotFound; untracked collections answer
// empty.
type fakeStore struct {
	users    map[int64]*models.User
	recipes  map[int64]*models.Recipe
	comments map[int64]*models.Comment
	nextID   int64

	createUserErr error
	updateUserErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[int64]*models.User),
		recipes:  make(map[int64]*models.Recipe),
		comments: make(map[int64]*models.Comment),
		nextID:   100,
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) Ping(ctx context.Context) error { return nil }

func (f *fakeStore) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createUserErr != nil {
		return nil, f.createUserErr
	}
	u.ID = f.id()
	u.Active = true
	u.DateJoined = time.Now()
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok || !u.Active {
		return nil, database.ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	for _, u := range f.users {
		if !u.Active {
			continue
		}
		if u.Username == login || (u.Email != nil && *u.Email == login) {
			return u, nil
		}
	}
	return nil, database.ErrNotFound
}

func (f *fakeStore) UpdateUser(ctx context.Context, u *models.User) error {
	if f.updateUserErr != nil {
		return f.updateUserErr
	}
	if _, ok := f.users[u.ID]; !ok {
		return database.ErrNotFound
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeStore) UpdatePassword(ctx context.Context, id int64, hash string) error {
	u, ok := f.users[id]
	if !ok {
		return database.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeStore) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	if u, ok := f.users[id]; ok {
		u.LastLogin = &at
	}
	return nil
}

func (f *fakeStore) SetUserAvatar(ctx context.Context, id int64, ref string) (string, error) {
	u, ok := f.users[id]
	if !ok {
		return "", database.ErrNotFound
	}
	previous := u.AvatarPath
	u.AvatarPath = ref
	return previous, nil
}

func (f *fakeStore) ClearUserAvatar(ctx context.Context, id int64) error {
	if u, ok := f.users[id]; ok {
		u.AvatarPath = ""
	}
	return nil
}

func (f *fakeStore) CreateRecipe(ctx context.Context, r *models.Recipe) (*models.Recipe, error) {
	r.ID = f.id()
	r.Status = models.StatusVisible
	r.CreatedAt = time.Now()
	f.recipes[r.ID] = r
	return r, nil
}

func (f *fakeStore) GetRecipe(ctx context.Context, id int64) (*models.Recipe, error) {
	r, ok := f.recipes[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return r, nil
}

func (f *fakeStore) ListRecipes(ctx context.Context, filter database.RecipeFilter) ([]models.Recipe, error) {
	var out []models.Recipe
	for _, r := range f.recipes {
		if r.Status != models.StatusVisible {
			continue
		}
		if filter.CreatorID != 0 && (r.CreatorID == nil || *r.CreatorID != filter.CreatorID) {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeStore) UpdateRecipe(ctx context.Context, r *models.Recipe) error {
	if _, ok := f.recipes[r.ID]; !ok {
		return database.ErrNotFound
	}
	f.recipes[r.ID] = r
	return nil
}

func (f *fakeStore) DeleteRecipe(ctx context.Context, id int64) ([]string, error) {
	if _, ok := f.recipes[id]; !ok {
		return nil, database.ErrNotFound
	}
	delete(f.recipes, id)
	return nil, nil
}

func (f *fakeStore) SetRecipeAvatar(ctx context.Context, id int64, ref string) (string, error) {
	r, ok := f.recipes[id]
	if !ok {
		return "", database.ErrNotFound
	}
	previous := r.AvatarPath
	r.AvatarPath = ref
	return previous, nil
}

func (f *fakeStore) ClearRecipeAvatar(ctx context.Context, id int64) error {
	if r, ok := f.recipes[id]; ok {
		r.AvatarPath = ""
	}
	return nil
}

func (f *fakeStore) ListIngredients(ctx context.Context, recipeID int64) ([]models.Ingredient, error) {
	return nil, nil
}

func (f *fakeStore) ListCookStages(ctx context.Context, recipeID int64) ([]models.CookStage, error) {
	return nil, nil
}

func (f *fakeStore) ListTags(ctx context.Context, recipeID int64) ([]models.Tag, error) {
	return nil, nil
}

func (f *fakeStore) CreateIngredients(ctx context.Context, recipeID int64, in []models.IngredientInput, max int) error {
	return nil
}

func (f *fakeStore) CreateCookStages(ctx context.Context, recipeID int64, in []models.CookStageInput, max int) error {
	return nil
}

func (f *fakeStore) CreateTags(ctx context.Context, recipeID int64, in []models.TagInput, max int) error {
	return nil
}

func (f *fakeStore) ReconcileIngredients(ctx context.Context, recipeID int64, incoming []models.IngredientInput, max int) error {
	return nil
}

func (f *fakeStore) ReconcileCookStages(ctx context.Context, recipeID int64, incoming []models.CookStageInput, max int) error {
	return nil
}

func (f *fakeStore) ReconcileTags(ctx context.Context, recipeID int64, incoming []models.TagInput, max int) error {
	return nil
}

func (f *fakeStore) ClearStagePicture(ctx context.Context, stageID int64) error { return nil }

func (f *fakeStore) CreateComment(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	c.ID = f.id()
	c.Status = models.StatusVisible
	c.CreatedAt = time.Now()
	f.comments[c.ID] = c
	return c, nil
}

func (f *fakeStore) GetComment(ctx context.Context, id int64) (*models.Comment, error) {
	c, ok := f.comments[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return c, nil
}

func (f *fakeStore) ListCommentsForRecipe(ctx context.Context, recipeID int64) ([]models.Comment, error) {
	return nil, nil
}

func (f *fakeStore) DeleteComment(ctx context.Context, id int64) error {
	if _, ok := f.comments[id]; !ok {
		return database.ErrNotFound
	}
	delete(f.comments, id)
	return nil
}

func (f *fakeStore) UpsertRecipeGrade(ctx context.Context, evaluatorID, recipeID int64, up bool) (*models.Grade, error) {
	return &models.Grade{EvaluatorID: evaluatorID, TargetID: recipeID, Up: up, Status: models.StatusVisible}, nil
}

func (f *fakeStore) GetRecipeGrade(ctx context.Context, evaluatorID, recipeID int64) (*models.Grade, error) {
	return nil, database.ErrNotFound
}

func (f *fakeStore) CancelRecipeGrade(ctx context.Context, evaluatorID, recipeID int64) error {
	return database.ErrNotFound
}

func (f *fakeStore) ListRecipeGrades(ctx context.Context, recipeID int64) ([]models.Grade, error) {
	return nil, nil
}

func (f *fakeStore) UpsertCommentGrade(ctx context.Context, evaluatorID, commentID int64, up bool) (*models.Grade, error) {
	return &models.Grade{EvaluatorID: evaluatorID, TargetID: commentID, Up: up, Status: models.StatusVisible}, nil
}

func (f *fakeStore) GetCommentGrade(ctx context.Context, evaluatorID, commentID int64) (*models.Grade, error) {
	return nil, database.ErrNotFound
}

func (f *fakeStore) CancelCommentGrade(ctx context.Context, evaluatorID, commentID int64) error {
	return database.ErrNotFound
}

func (f *fakeStore) ListCommentGrades(ctx context.Context, commentID int64) ([]models.Grade, error) {
	return nil, nil
}

var _ Store = (*fakeStore)(nil)

func newTestRouter(t *testing.T, store *fakeStore) (http.Handler, *Handler) {
	t.Helper()

	cfg := &config.Config{
		Security: config.SecurityConfig{
			JWTSecret:       "0123456789abcdef0123456789abcdef",
			SessionTimeout:  time.Hour,
			BcryptCost:      bcrypt.MinCost,
			RateLimitReqs:   1000,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Media:  config.MediaConfig{MaxUploadBytes: 1 << 20},
		Limits: config.LimitsConfig{MaxIngredients: 20, MaxCookStages: 30, MaxTags: 5},
	}

	mediaStore, err := media.NewStore(t.TempDir(), cfg.Media.MaxUploadBytes)
	if err != nil {
		t.Fatalf("failed to create media store: %v", err)
	}
	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		t.Fatalf("failed to create jwt manager: %v", err)
	}

	h := NewHandler(store, mediaStore, jwtManager, auth.NewHasher(bcrypt.MinCost), cfg)
	return h.NewRouter(), h
}

func bearer(t *testing.T, h *Handler, userID int64, username string) string {
	t.Helper()
	token, err := h.jwt.GenerateToken(userID, username)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return "Bearer " + token
}

func doJSON(t *testing.T, rtr http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rec := httptest.NewRecorder()
	rtr.ServeHTTP(rec, req)
	return rec
}

func activeUser(id int64, username string) *models.User {
	return &models.User{ID: id, Username: username, Active: true, DateJoined: time.Now()}
}

func TestGetRecipeHidesBlocked(t *testing.T) {
	store := newFakeStore()
	creatorID := int64(1)
	store.users[1] = activeUser(1, "alice")
	store.recipes[5] = &models.Recipe{
		ID: 5, CreatorID: &creatorID, Title: "Aspic", Body: "Chill overnight.",
		Status: models.StatusBlocked,
	}
	rtr, _ := newTestRouter(t, store)

	rec := doJSON(t, rtr, http.MethodGet, "/api/v1/recipes/5", "", "")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	resp := decodeEnvelope(t, rec)
	if resp.Error == nil || resp.Error.Code != ErrCodeNotFound {
		t.Errorf("error = %+v, want code %s", resp.Error, ErrCodeNotFound)
	}
}

func TestRecipeWriteByNonOwnerLooksMissing(t *testing.T) {
	store := newFakeStore()
	ownerID := int64(1)
	store.users[1] = activeUser(1, "alice")
	store.users[2] = activeUser(2, "bob")
	store.recipes[5] = &models.Recipe{
		ID: 5, CreatorID: &ownerID, Title: "Borscht", Body: "Beets first.",
		Status: models.StatusVisible,
	}
	rtr, h := newTestRouter(t, store)
	token := bearer(t, h, 2, "bob")

	tests := []struct {
		name   string
		method string
		body   string
	}{
		{"edit", http.MethodPut, `{"title":"Hijacked","body":"Mine now."}`},
		{"delete", http.MethodDelete, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, rtr, tt.method, "/api/v1/recipes/5", token, tt.body)

			if rec.Code != http.StatusNotFound {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
			}
			resp := decodeEnvelope(t, rec)
			if resp.Error == nil || resp.Error.Code != ErrCodeNotFound {
				t.Errorf("error = %+v, want code %s", resp.Error, ErrCodeNotFound)
			}
		})
	}
	if store.recipes[5].Title != "Borscht" {
		t.Error("recipe was modified by a non-owner")
	}
}

func TestDeleteCommentByNonAuthorLooksMissing(t *testing.T) {
	store := newFakeStore()
	authorID := int64(1)
	store.users[1] = activeUser(1, "alice")
	store.users[2] = activeUser(2, "bob")
	store.comments[9] = &models.Comment{
		ID: 9, CreatorID: &authorID, RecipeID: 5, Body: "Needs more dill.",
		Status: models.StatusVisible,
	}
	rtr, h := newTestRouter(t, store)

	rec := doJSON(t, rtr, http.MethodDelete, "/api/v1/comments/9", bearer(t, h, 2, "bob"), "")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if _, ok := store.comments[9]; !ok {
		t.Error("comment was deleted by a non-author")
	}
}

func TestUpdateRecipeRejectsNoOp(t *testing.T) {
	store := newFakeStore()
	ownerID := int64(1)
	store.users[1] = activeUser(1, "alice")
	store.recipes[5] = &models.Recipe{
		ID: 5, CreatorID: &ownerID, Title: "Borscht", Body: "Beets first.",
		Status: models.StatusVisible,
	}
	rtr, h := newTestRouter(t, store)
	token := bearer(t, h, 1, "alice")

	rec := doJSON(t, rtr, http.MethodPut, "/api/v1/recipes/5", token,
		`{"title":"Borscht","body":"Beets first."}`)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
	resp := decodeEnvelope(t, rec)
	if resp.Error == nil || resp.Error.Code != ErrCodeNoOpSubmission {
		t.Errorf("error = %+v, want code %s", resp.Error, ErrCodeNoOpSubmission)
	}
}

func TestUpdateRecipeAcceptsChangedFields(t *testing.T) {
	store := newFakeStore()
	ownerID := int64(1)
	store.users[1] = activeUser(1, "alice")
	store.recipes[5] = &models.Recipe{
		ID: 5, CreatorID: &ownerID, Title: "Borscht", Body: "Beets first.",
		Status: models.StatusVisible,
	}
	rtr, h := newTestRouter(t, store)
	token := bearer(t, h, 1, "alice")

	rec := doJSON(t, rtr, http.MethodPut, "/api/v1/recipes/5", token,
		`{"title":"Green borscht","body":"Beets first."}`)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusAccepted)
	}
	if store.recipes[5].Title != "Green borscht" {
		t.Errorf("stored title = %q, want %q", store.recipes[5].Title, "Green borscht")
	}
}

func TestRegisterDuplicateUsernameIsFieldError(t *testing.T) {
	store := newFakeStore()
	store.createUserErr = &database.DuplicateError{Field: "username"}
	rtr, _ := newTestRouter(t, store)

	rec := doJSON(t, rtr, http.MethodPost, "/api/v1/users", "",
		`{"username":"alice","password":"correcthorse"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	resp := decodeEnvelope(t, rec)
	if resp.Error == nil || resp.Error.Code != ErrCodeValidationFailed {
		t.Fatalf("error = %+v, want code %s", resp.Error, ErrCodeValidationFailed)
	}
	details, ok := resp.Error.Details.(map[string]interface{})
	if !ok {
		t.Fatalf("details = %T, want field map", resp.Error.Details)
	}
	if _, ok := details["username"]; !ok {
		t.Errorf("details = %v, want a username entry", details)
	}
}

func TestUpdateProfileDuplicateUsernameIsFieldError(t *testing.T) {
	store := newFakeStore()
	store.users[1] = activeUser(1, "alice")
	store.updateUserErr = &database.DuplicateError{Field: "username"}
	rtr, h := newTestRouter(t, store)

	rec := doJSON(t, rtr, http.MethodPut, "/api/v1/users/me", bearer(t, h, 1, "alice"),
		`{"username":"bob"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	resp := decodeEnvelope(t, rec)
	if resp.Error == nil || resp.Error.Code != ErrCodeValidationFailed {
		t.Errorf("error = %+v, want code %s", resp.Error, ErrCodeValidationFailed)
	}
}

func TestPublicUserViewCarriesStatus(t *testing.T) {
	store := newFakeStore()
	store.users[1] = activeUser(1, "alice")
	rtr, _ := newTestRouter(t, store)

	rec := doJSON(t, rtr, http.MethodGet, "/api/v1/users/1", "", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	resp := decodeEnvelope(t, rec)
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data = %T, want object", resp.Data)
	}
	if got := data["status"]; got != string(models.StatusVisible) {
		t.Errorf("status = %v, want %q", got, models.StatusVisible)
	}
	if got := data["username"]; got != "alice" {
		t.Errorf("username = %v, want %q", got, "alice")
	}
}
