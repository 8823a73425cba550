// Confit - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/confit

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tomtom215/confit/internal/models"
	"github.com/tomtom215/confit/internal/validation"
)

func TestDecodeRecipeRequestNilVersusEmptyCollections(t *testing.T) {
	t.Run("absent collections decode as nil", func(t *testing.T) {
		body := `{"title":"Pie","body":"Bake it"}`
		req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))

		var rr RecipeRequest
		if err := decodeJSON(req, &rr); err != nil {
			t.Fatalf("decodeJSON() error = %v", err)
		}
		if rr.Ingredients != nil || rr.CookStages != nil || rr.Tags != nil {
			t.Error("absent collections should decode as nil pointers")
		}
	})

	t.Run("empty collections decode as non-nil empty", func(t *testing.T) {
		body := `{"title":"Pie","body":"Bake it","ingredients":[],"tags":[]}`
		req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))

		var rr RecipeRequest
		if err := decodeJSON(req, &rr); err != nil {
			t.Fatalf("decodeJSON() error = %v", err)
		}
		if rr.Ingredients == nil || len(*rr.Ingredients) != 0 {
			t.Error("empty ingredients should decode as non-nil empty slice")
		}
		if rr.Tags == nil || len(*rr.Tags) != 0 {
			t.Error("empty tags should decode as non-nil empty slice")
		}
		if rr.CookStages != nil {
			t.Error("absent cook_stages should stay nil")
		}
	})
}

func TestRecipeRequestValidation(t *testing.T) {
	valid := func() RecipeRequest {
		return RecipeRequest{Title: "Pie", Body: "Bake it"}
	}

	t.Run("minimal recipe passes", func(t *testing.T) {
		req := valid()
		if verr := validation.ValidateStruct(&req); verr != nil {
			t.Errorf("unexpected validation error: %v", verr)
		}
	})

	t.Run("missing title fails", func(t *testing.T) {
		req := valid()
		req.Title = ""
		if verr := validation.ValidateStruct(&req); verr == nil {
			t.Error("expected validation error for missing title")
		}
	})

	t.Run("nested tag names are validated", func(t *testing.T) {
		req := valid()
		req.Tags = &[]models.TagInput{{Name: "not a tag!"}}
		if verr := validation.ValidateStruct(&req); verr == nil {
			t.Error("expected validation error for bad tag name")
		}
	})

	t.Run("nested ingredient name required", func(t *testing.T) {
		req := valid()
		req.Ingredients = &[]models.IngredientInput{{Name: "", Measure: "1 cup"}}
		if verr := validation.ValidateStruct(&req); verr == nil {
			t.Error("expected validation error for empty ingredient name")
		}
	})

	t.Run("non-positive portions fail", func(t *testing.T) {
		req := valid()
		zero := 0
		req.Portions = &zero
		if verr := validation.ValidateStruct(&req); verr == nil {
			t.Error("expected validation error for zero portions")
		}
	})
}

func TestGradeRequestRequiresGradeField(t *testing.T) {
	var req GradeRequest
	if verr := validation.ValidateStruct(&req); verr == nil {
		t.Error("expected validation error for missing grade")
	}

	down := false
	req.Up = &down
	if verr := validation.ValidateStruct(&req); verr != nil {
		t.Errorf("explicit false grade should validate, got %v", verr)
	}
}

func TestRegisterRequestValidation(t *testing.T) {
	valid := func() RegisterRequest {
		return RegisterRequest{Username: "alice", Password: "longenough"}
	}

	t.Run("minimal registration passes", func(t *testing.T) {
		req := valid()
		if verr := validation.ValidateStruct(&req); verr != nil {
			t.Errorf("unexpected validation error: %v", verr)
		}
	})

	t.Run("short password fails", func(t *testing.T) {
		req := valid()
		req.Password = "short"
		if verr := validation.ValidateStruct(&req); verr == nil {
			t.Error("expected validation error for short password")
		}
	})

	t.Run("bad email fails", func(t *testing.T) {
		req := valid()
		req.Email = "not-an-email"
		if verr := validation.ValidateStruct(&req); verr == nil {
			t.Error("expected validation error for bad email")
		}
	})

	t.Run("cyrillic names pass", func(t *testing.T) {
		req := valid()
		req.FirstName = "Алиса"
		if verr := validation.ValidateStruct(&req); verr != nil {
			t.Errorf("unexpected validation error: %v", verr)
		}
	})
}

func TestDecodeJSONRejectsMalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json"))
	var rr RecipeRequest
	if err := decodeJSON(req, &rr); err == nil {
		t.Error("expected error for malformed JSON")
	}
}
