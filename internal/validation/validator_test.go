// Confit - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/confit

package validation

import (
	"strings"
	"testing"
)

func TestUsernameValidator(t *testing.T) {
	type subject struct {
		Username string `validate:"required,username"`
	}

	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"simple", "alice", false},
		{"with allowed symbols", "a.b@c+d-e_f", false},
		{"minimum length", "abc", false},
		{"maximum length", strings.Repeat("a", 80), false},
		{"too short", "ab", true},
		{"too long", strings.Repeat("a", 81), true},
		{"space rejected", "a b c", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&subject{Username: tt.username})
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStruct(username=%q) error = %v, wantErr %v", tt.username, err, tt.wantErr)
			}
		})
	}
}

func TestPersonNameValidator(t *testing.T) {
	type subject struct {
		FirstName string `validate:"omitempty,personname"`
	}

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"latin", "Alice", false},
		{"cyrillic", "Алиса", false},
		{"hyphenated", "Anna-Maria", false},
		{"empty allowed via omitempty", "", false},
		{"digits rejected", "Alice2", true},
		{"space rejected", "Anna Maria", true},
		{"too long", strings.Repeat("a", 81), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&subject{FirstName: tt.value})
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStruct(name=%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestTagNameValidator(t *testing.T) {
	type subject struct {
		Name string `validate:"required,tagname"`
	}

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"word", "dessert", false},
		{"digits and underscore", "low_carb_2", false},
		{"maximum length", strings.Repeat("x", 30), false},
		{"too long", strings.Repeat("x", 31), true},
		{"hyphen rejected", "low-carb", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&subject{Name: tt.value})
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStruct(tag=%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestFieldErrors(t *testing.T) {
	type subject struct {
		Username string `validate:"required,username"`
		Email    string `validate:"omitempty,email"`
	}

	verr := ValidateStruct(&subject{Username: "", Email: "not-an-email"})
	if verr == nil {
		t.Fatal("expected validation errors")
	}

	fields := verr.FieldErrors()
	if len(fields) != 2 {
		t.Fatalf("expected 2 field errors, got %d: %v", len(fields), fields)
	}
	if _, ok := fields["Username"]; !ok {
		t.Error("missing Username field error")
	}
	if _, ok := fields["Email"]; !ok {
		t.Error("missing Email field error")
	}
}

func TestFieldErrorsKeepFirstMessage(t *testing.T) {
	type subject struct {
		Username string `validate:"required,username"`
	}

	verr := ValidateStruct(&subject{})
	if verr == nil {
		t.Fatal("expected validation errors")
	}
	if msg := verr.FieldErrors()["Username"]; !strings.Contains(msg, "required") {
		t.Errorf("expected required message first, got %q", msg)
	}
}

func TestValidationErrorAccessors(t *testing.T) {
	type subject struct {
		Title string `validate:"required,max=100"`
	}

	verr := ValidateStruct(&subject{Title: strings.Repeat("x", 101)})
	if verr == nil {
		t.Fatal("expected validation errors")
	}
	errs := verr.Errors()
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
	e := &errs[0]
	if e.Field() != "Title" {
		t.Errorf("Field() = %q, want %q", e.Field(), "Title")
	}
	if e.Tag() != "max" {
		t.Errorf("Tag() = %q, want %q", e.Tag(), "max")
	}
	if e.Param() != "100" {
		t.Errorf("Param() = %q, want %q", e.Param(), "100")
	}
}

func TestValidStructPassesClean(t *testing.T) {
	type subject struct {
		Username string `validate:"required,username"`
		Email    string `validate:"omitempty,email"`
		Tag      string `validate:"omitempty,tagname"`
	}

	if verr := ValidateStruct(&subject{Username: "alice", Email: "alice@example.com", Tag: "pie"}); verr != nil {
		t.Errorf("unexpected validation error: %v", verr)
	}
}
