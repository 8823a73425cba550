// Confit - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/confit

// Package media manages uploaded images: user avatars, recipe avatars and
// cook-stage pictures.
//
// Files live on the local filesystem under a configured root, one
// subdirectory per kind. Stored references are paths relative to the root
// and are served under the /media/ URL prefix.
//
// Every read of an image reference goes through EffectiveRef, which
// substitutes the kind's default image when the stored reference is empty or
// its file has gone missing. Resolve additionally reports a stale reference
// so callers can clear it in storage (the self-heal side effect).
package media

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/tomtom215/confit/internal/logging"
)

// Kind identifies a category of uploaded image. The value doubles as the
// storage subdirectory name.
type Kind string

const (
	KindUserAvatar   Kind = "client_avatars"
	KindRecipeAvatar Kind = "recipe_avatars"
	KindStagePicture Kind = "stage_pictures"
)

// defaultRefs maps each kind to its packaged fallback image, relative to
// the media root.
var defaultRefs = map[Kind]string{
	KindUserAvatar:   "defaults/client_default.jpg",
	KindRecipeAvatar: "defaults/recipe_default.jpg",
	KindStagePicture: "defaults/picture_default.jpg",
}

// allowedExtensions lists the accepted upload file extensions.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// URLPrefix is where the HTTP layer serves media files from.
const URLPrefix = "/media/"

// Store saves, resolves and removes uploaded images under a root directory.
type Store struct {
	root     string
	maxBytes int64
}

// NewStore creates a media store rooted at root, creating the per-kind
// subdirectories if needed.
func NewStore(root string, maxBytes int64) (*Store, error) {
	for _, kind := range []Kind{KindUserAvatar, KindRecipeAvatar, KindStagePicture} {
		if err := os.MkdirAll(filepath.Join(root, string(kind)), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create media directory for %s: %w", kind, err)
		}
	}
	if err := os.MkdirAll(filepath.Join(root, "defaults"), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create defaults directory: %w", err)
	}
	return &Store{root: root, maxBytes: maxBytes}, nil
}

// Root returns the media root directory.
func (s *Store) Root() string {
	return s.root
}

// DefaultRef returns the fallback reference for a kind.
func DefaultRef(kind Kind) string {
	return defaultRefs[kind]
}

// EffectiveRef is the pure substitution rule: given a stored reference and a
// file-existence predicate, it returns the reference to serve. Empty or
// dangling references resolve to the kind's default.
func EffectiveRef(kind Kind, stored string, exists func(string) bool) string {
	if stored == "" || !exists(stored) {
		return defaultRefs[kind]
	}
	return stored
}

// Resolve applies EffectiveRef against the filesystem and reports whether
// the stored reference was stale (non-empty but pointing at a missing
// file). A stale result is the caller's cue to clear the stored reference.
func (s *Store) Resolve(kind Kind, stored string) (ref string, stale bool) {
	ref = EffectiveRef(kind, stored, s.fileExists)
	stale = stored != "" && ref != stored
	return ref, stale
}

// URL converts a media reference into its public URL path.
func URL(ref string) string {
	return URLPrefix + ref
}

// Save stores an uploaded image for the given kind and returns its
// reference. The previous reference, if any, is removed first so an upload
// replaces rather than accumulates.
func (s *Store) Save(kind Kind, previous string, header *multipart.FileHeader) (string, error) {
	if header.Size > s.maxBytes {
		return "", fmt.Errorf("upload of %d bytes exceeds limit of %d", header.Size, s.maxBytes)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("unsupported image extension %q", ext)
	}

	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	ref := filepath.Join(string(kind), uuid.New().String()+ext)
	dst, err := os.Create(filepath.Join(s.root, ref))
	if err != nil {
		return "", fmt.Errorf("failed to create media file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(src, s.maxBytes)); err != nil {
		return "", fmt.Errorf("failed to write media file: %w", err)
	}

	s.Remove(previous)
	return ref, nil
}

// Remove deletes the file behind a reference. Defaults and empty references
// are left alone. Removal failures are logged, not returned: a dangling file
// is healed on next access anyway.
func (s *Store) Remove(ref string) {
	if ref == "" || strings.HasPrefix(ref, "defaults/") {
		return
	}
	if err := os.Remove(filepath.Join(s.root, ref)); err != nil && !os.IsNotExist(err) {
		logging.Warn().Err(err).Str("ref", ref).Msg("Failed to remove media file")
	}
}

// Purge removes every given reference. Used when a recipe is deleted to
// drop its avatar and stage pictures in one pass.
func (s *Store) Purge(refs ...string) {
	for _, ref := range refs {
		s.Remove(ref)
	}
}

// fileExists reports whether a reference's file is present under the root.
func (s *Store) fileExists(ref string) bool {
	info, err := os.Stat(filepath.Join(s.root, ref))
	return err == nil && !info.IsDir()
}
