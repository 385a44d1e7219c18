package core

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/ebogdum/filegate/catalog"
)

// ListDirectory enumerates the files under path. A missing directory yields an
// empty set, not an error; callers that need a 404 check existence separately
// via DirectoryExists. Non-recursive mode skips subdirectories; recursive mode
// flattens every file into one sequence in traversal order.
func (e *Engine) ListDirectory(ctx context.Context, path string, recursive bool) ([]*catalog.FileRecord, error) {
	exists, err := e.storage.DirExists(ctx, path)
	if err != nil {
		return nil, err
	}
	if !exists {
		return []*catalog.FileRecord{}, nil
	}

	return e.collect(ctx, path, recursive)
}

func (e *Engine) collect(ctx context.Context, path string, recursive bool) ([]*catalog.FileRecord, error) {
	files, subdirs, err := e.storage.ListDirectory(ctx, path)
	if err != nil {
		if err == catalog.ErrNotFound {
			return []*catalog.FileRecord{}, nil
		}
		return nil, fmt.Errorf("failed to list directory: %w", err)
	}

	records := make([]*catalog.FileRecord, 0, len(files))
	records = append(records, files...)

	if recursive {
		for _, subdir := range subdirs {
			children, err := e.collect(ctx, subdir, true)
			if err != nil {
				e.logger.Warn("Failed to descend into subdirectory",
					zap.String("path", subdir),
					zap.Error(err))
				continue
			}
			records = append(records, children...)
		}
	}

	return records, nil
}

// DirectoryExists reports whether path exists as a directory.
func (e *Engine) DirectoryExists(ctx context.Context, path string) (bool, error) {
	return e.storage.DirExists(ctx, path)
}

// FileInfo returns the record for a single file, catalog.ErrNotFound when it
// is absent.
func (e *Engine) FileInfo(ctx context.Context, path string) (*catalog.FileRecord, error) {
	return e.storage.Stat(ctx, path)
}

// OpenFile opens a file for streaming to the client.
func (e *Engine) OpenFile(ctx context.Context, path string) (io.ReadCloser, error) {
	return e.storage.Open(ctx, path)
}

// SearchResult carries the per-stage outcome of a search so callers can
// distinguish an empty partition, a name filter with no matches, and a name
// match eliminated by the type filter.
type SearchResult struct {
	Available   int
	NameMatched int
	Records     []*catalog.FileRecord
}

// Search collects the full recursive catalog under base, filters by a
// case-insensitive substring match on the name, then optionally restricts to
// an exact extension match. fileType may omit the leading dot and is matched
// case-insensitively.
func (e *Engine) Search(ctx context.Context, base, query, fileType string) (*SearchResult, error) {
	all, err := e.ListDirectory(ctx, base, true)
	if err != nil {
		return nil, err
	}

	result := &SearchResult{Available: len(all)}

	needle := strings.ToLower(query)
	var nameMatched []*catalog.FileRecord
	for _, record := range all {
		if strings.Contains(strings.ToLower(record.Name), needle) {
			nameMatched = append(nameMatched, record)
		}
	}
	result.NameMatched = len(nameMatched)

	ext := catalog.NormalizeExtension(fileType)
	if ext == "" {
		result.Records = nameMatched
		return result, nil
	}

	for _, record := range nameMatched {
		if record.Type == ext {
			result.Records = append(result.Records, record)
		}
	}

	return result, nil
}
