// Package backends provides the storage adapter interface for the file
// gateway. The only shipped implementation is the local filesystem adapter;
// the catalog is the filesystem itself, there is no separate metadata store.
package backends

import (
	"context"
	"io"

	"github.com/ebogdum/filegate/catalog"
)

// Storage defines the low-level file operations the core engine builds on.
// Locations are absolute paths already resolved and containment-checked by
// the path resolver; adapters re-verify containment against their root.
type Storage interface {
	// Open opens a file for reading and returns a ReadCloser
	Open(ctx context.Context, location string) (io.ReadCloser, error)

	// Create creates a new file with content from the reader. It fails with
	// catalog.ErrAlreadyExists when the location is already occupied.
	Create(ctx context.Context, location string, reader io.Reader) (*catalog.FileRecord, error)

	// Delete removes a single file
	Delete(ctx context.Context, location string) error

	// Stat returns the record for a regular file, catalog.ErrNotFound when the
	// location is absent or is a directory
	Stat(ctx context.Context, location string) (*catalog.FileRecord, error)

	// DirExists reports whether the location exists as a directory
	DirExists(ctx context.Context, location string) (bool, error)

	// ListDirectory returns records for the direct-child files of a directory
	// plus the locations of its direct subdirectories, in traversal order
	ListDirectory(ctx context.Context, location string) (files []*catalog.FileRecord, subdirs []string, err error)

	// EnsureDirectory creates a directory if it does not exist yet. It is
	// idempotent and safe to race.
	EnsureDirectory(ctx context.Context, location string) error

	// Close closes any resources used by the storage backend
	Close() error
}
