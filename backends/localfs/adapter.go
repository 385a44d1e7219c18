// Package localfs implements the backends.Storage interface on top of a
// single local filesystem root.
package localfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ebogdum/filegate/catalog"
)

// Adapter implements backends.Storage for the local filesystem.
type Adapter struct {
	rootPath string
}

// NewAdapter creates a local filesystem adapter. The storage root must exist
// before any operation is accepted.
func NewAdapter(rootPath string) (*Adapter, error) {
	info, err := os.Stat(rootPath)
	if err != nil {
		return nil, fmt.Errorf("storage root %s is not accessible: %w", rootPath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage root %s is not a directory", rootPath)
	}

	abs, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage root %s: %w", rootPath, err)
	}

	return &Adapter{rootPath: abs}, nil
}

// RootPath returns the absolute storage root.
func (a *Adapter) RootPath() string {
	return a.rootPath
}

// contained verifies a resolved location still lies under the storage root.
func (a *Adapter) contained(location string) error {
	rel, err := filepath.Rel(a.rootPath, filepath.Clean(location))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return catalog.ErrForbidden
	}
	return nil
}

// Open opens a file for reading
func (a *Adapter) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	if err := a.contained(location); err != nil {
		return nil, err
	}

	file, err := os.Open(location)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("failed to open file %s: %w", location, err)
	}

	return file, nil
}

// Create creates a new file with content from the reader. Existing files are
// never overwritten; the exclusive create flag makes the conflict check and
// the creation one atomic syscall.
func (a *Adapter) Create(ctx context.Context, location string, reader io.Reader) (*catalog.FileRecord, error) {
	if err := a.contained(location); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(location, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return nil, catalog.ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to create file %s: %w", location, err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		// Clean up partially created file
		os.Remove(location)
		return nil, fmt.Errorf("failed to write file content: %w", err)
	}

	return a.Stat(ctx, location)
}

// Delete removes a single file
func (a *Adapter) Delete(ctx context.Context, location string) error {
	if err := a.contained(location); err != nil {
		return err
	}

	if err := os.Remove(location); err != nil {
		if os.IsNotExist(err) {
			return catalog.ErrNotFound
		}
		return fmt.Errorf("failed to delete %s: %w", location, err)
	}

	return nil
}

// Stat returns the record for a regular file
func (a *Adapter) Stat(ctx context.Context, location string) (*catalog.FileRecord, error) {
	if err := a.contained(location); err != nil {
		return nil, err
	}

	info, err := os.Stat(location)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("failed to stat %s: %w", location, err)
	}
	if info.IsDir() {
		return nil, catalog.ErrNotFound
	}

	return recordFromInfo(location, info), nil
}

// DirExists reports whether the location exists as a directory
func (a *Adapter) DirExists(ctx context.Context, location string) (bool, error) {
	if err := a.contained(location); err != nil {
		return false, err
	}

	info, err := os.Stat(location)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", location, err)
	}

	return info.IsDir(), nil
}

// ListDirectory returns records for direct-child files plus subdirectory
// locations, in directory traversal order.
func (a *Adapter) ListDirectory(ctx context.Context, location string) ([]*catalog.FileRecord, []string, error) {
	if err := a.contained(location); err != nil {
		return nil, nil, err
	}

	entries, err := os.ReadDir(location)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, catalog.ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to read directory %s: %w", location, err)
	}

	var files []*catalog.FileRecord
	var subdirs []string
	for _, entry := range entries {
		childPath := filepath.Join(location, entry.Name())
		if entry.IsDir() {
			subdirs = append(subdirs, childPath)
			continue
		}

		info, err := entry.Info()
		if err != nil {
			// Entry vanished between ReadDir and Info, skip it
			continue
		}
		files = append(files, recordFromInfo(childPath, info))
	}

	return files, subdirs, nil
}

// EnsureDirectory creates a directory if missing. MkdirAll reports no error
// when the directory already exists, so concurrent first uploads by the same
// tenant cannot fail here.
func (a *Adapter) EnsureDirectory(ctx context.Context, location string) error {
	if err := a.contained(location); err != nil {
		return err
	}

	if info, err := os.Stat(location); err == nil {
		if !info.IsDir() {
			return fmt.Errorf("path %s exists as file, not directory", location)
		}
		return nil
	}

	if err := os.MkdirAll(location, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", location, err)
	}

	return nil
}

// Close closes any resources used by the storage backend
func (a *Adapter) Close() error {
	// No resources to close for local filesystem
	return nil
}

// recordFromInfo builds a catalog record from live filesystem metadata.
func recordFromInfo(location string, info os.FileInfo) *catalog.FileRecord {
	created, modified := extractFileTimes(info)

	return &catalog.FileRecord{
		Name:       info.Name(),
		CreatedAt:  created,
		ModifiedAt: modified,
		Size:       info.Size(),
		Location:   location,
		Type:       catalog.ExtensionOf(location),
	}
}
