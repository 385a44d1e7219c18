// Package pathutil provides secure path resolution for the file gateway.
// Every caller-supplied path is normalized and containment-checked here before
// any filesystem operation sees it.
package pathutil

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ebogdum/filegate/catalog"
)

// Clean sanitizes a relative path to prevent directory traversal attacks.
// It performs the following security checks:
// 1. Rejects absolute paths that could escape the root
// 2. Cleans path traversal sequences like "../"
// 3. Ensures the cleaned path doesn't escape the root boundary
// 4. Normalizes the path for consistent handling
func Clean(path string) (string, error) {
	if path == "" {
		return "/", nil
	}

	// Reject absolute paths that might escape root
	if filepath.IsAbs(path) && path != "/" {
		return "", catalog.ErrForbidden
	}

	// Prepare the path for cleaning by ensuring it starts with /
	pathToClean := "/" + strings.TrimPrefix(path, "/")

	// Clean the path to resolve any ".." or "." components
	cleaned := filepath.Clean(pathToClean)

	// Ensure the cleaned path is still within bounds
	if !strings.HasPrefix(cleaned, "/") {
		return "", catalog.ErrForbidden
	}

	if cleaned == "/" {
		return cleaned, nil
	}

	// Walk the original segments and reject any sequence that would climb
	// above the root, even temporarily.
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	depth := 0

	for _, part := range parts {
		switch part {
		case "", ".":
			continue
		case "..":
			depth--
			if depth < 0 {
				return "", catalog.ErrForbidden
			}
		default:
			depth++
		}
	}

	return cleaned, nil
}

// SafeJoin safely joins a root path with a relative path, ensuring
// the result stays within the root directory boundary.
// Returns catalog.ErrForbidden if the path would escape the root.
func SafeJoin(root, rel string) (string, error) {
	cleanRoot := filepath.Clean(root)

	cleanRel, err := Clean(rel)
	if err != nil {
		return "", err
	}

	joined := filepath.Join(cleanRoot, strings.TrimPrefix(cleanRel, "/"))

	// Resolve symlinks where possible so a planted link cannot smuggle the
	// result outside the root. The target itself may not exist yet, so fall
	// back to a lexical check on the joined path.
	resolved, err := filepath.EvalSymlinks(joined)
	if err != nil {
		relPath, relErr := filepath.Rel(cleanRoot, joined)
		if relErr != nil || strings.HasPrefix(relPath, "..") {
			return "", catalog.ErrForbidden
		}
	} else {
		relPath, relErr := filepath.Rel(cleanRoot, resolved)
		if relErr != nil || strings.HasPrefix(relPath, "..") {
			return "", catalog.ErrForbidden
		}
	}

	return joined, nil
}

// ValidatePath rejects paths carrying null bytes or control characters before
// they reach Clean.
func ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	if err := validBytes(path); err != nil {
		return err
	}

	_, err := Clean(path)
	return err
}

func validBytes(path string) error {
	if strings.Contains(path, "\x00") {
		return catalog.ErrForbidden
	}

	for _, char := range path {
		if char < 32 && char != '\t' {
			return catalog.ErrForbidden
		}
	}

	return nil
}

// Partition returns the tenant partition directory for a principal id.
func Partition(root, tenantID string) string {
	return filepath.Join(filepath.Clean(root), tenantID)
}

// Resolve maps an optional caller-supplied query path to an absolute location.
// Without a query path the result is the caller's partition. Admins address
// any subtree relative to the storage root; users are anchored to their own
// partition. The result is guaranteed to stay inside the respective anchor.
func Resolve(root, tenantID string, admin bool, queryPath string) (string, error) {
	if queryPath == "" {
		return Partition(root, tenantID), nil
	}
	if err := ValidatePath(queryPath); err != nil {
		return "", err
	}

	anchor := Partition(root, tenantID)
	if admin {
		anchor = filepath.Clean(root)
	}

	return SafeJoin(anchor, queryPath)
}

// ResolveTarget maps a download/delete target identifier to an absolute
// location. With useUserDir the identifier is anchored inside the caller's
// partition; otherwise it is taken relative to the storage root. Targets that
// redundantly repeat the storage root prefix are accepted as-is, matching how
// listing responses report locations.
func ResolveTarget(root, tenantID string, file string, useUserDir bool) (string, error) {
	if err := validBytes(file); err != nil {
		return "", err
	}
	if useUserDir {
		return SafeJoin(Partition(root, tenantID), file)
	}

	cleanRoot := filepath.Clean(root)
	rel := strings.TrimPrefix(file, cleanRoot+string(filepath.Separator))
	if filepath.IsAbs(rel) {
		// Absolute targets must already point inside the root.
		relPath, err := filepath.Rel(cleanRoot, filepath.Clean(rel))
		if err != nil || strings.HasPrefix(relPath, "..") {
			return "", catalog.ErrForbidden
		}
		rel = relPath
	}

	return SafeJoin(cleanRoot, rel)
}

// ContainsSegment reports whether path carries id as a full path segment.
// This is the ownership predicate: a location belongs to a tenant iff its
// partition directory appears on the path.
func ContainsSegment(path, id string) bool {
	if id == "" {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(filepath.Clean(path)), "/") {
		if part == id {
			return true
		}
	}
	return false
}
