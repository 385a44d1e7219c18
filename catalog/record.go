// Package catalog defines the file record type shared by the storage backend,
// the core engine and the HTTP handlers, along with the common sentinel errors.
package catalog

import (
	"errors"
	"path/filepath"
	"strings"
	"time"
)

// Common catalog errors
var (
	ErrNotFound      = errors.New("file not found")
	ErrAlreadyExists = errors.New("file already exists")
	ErrForbidden     = errors.New("access forbidden")
)

// FileRecord describes a single file as observed on the live filesystem.
// Records are computed on demand and never cached.
type FileRecord struct {
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"last_edited_at"`
	Size       int64     `json:"size"`
	Location   string    `json:"location"`
	Type       string    `json:"type"` // lowercase extension with leading dot, or ""
}

// NormalizeExtension maps a user-supplied file type ("txt", ".TXT") to the
// canonical form used in FileRecord.Type: lowercase with a leading dot.
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// ExtensionOf returns the canonical extension of a path.
func ExtensionOf(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
