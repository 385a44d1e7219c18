package core

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ebogdum/filegate/catalog"
	"github.com/ebogdum/filegate/internal/pathutil"
)

// Upload is one incoming file destined for a tenant partition.
type Upload struct {
	Name    string
	Content io.Reader
}

// UploadResult reports which files of a batch were newly stored and which
// were skipped because their target path was already occupied.
type UploadResult struct {
	Accepted []*catalog.FileRecord
	Skipped  []string
}

// SaveUploads places incoming files into the tenant partition, creating the
// partition on first upload. Conflicting names are skipped, never overwritten.
func (e *Engine) SaveUploads(ctx context.Context, tenantID string, uploads []Upload) (*UploadResult, error) {
	partition := pathutil.Partition(e.rootPath, tenantID)
	if err := e.storage.EnsureDirectory(ctx, partition); err != nil {
		return nil, fmt.Errorf("failed to prepare tenant partition: %w", err)
	}

	result := &UploadResult{}
	for _, upload := range uploads {
		name := filepath.Base(upload.Name)
		if name == "." || name == string(filepath.Separator) || name == "" {
			result.Skipped = append(result.Skipped, upload.Name)
			continue
		}

		location, err := pathutil.SafeJoin(partition, name)
		if err != nil {
			result.Skipped = append(result.Skipped, name)
			continue
		}

		record, err := e.storage.Create(ctx, location, upload.Content)
		if err != nil {
			if err == catalog.ErrAlreadyExists {
				e.logger.Debug("Upload skipped, target exists",
					zap.String("name", name))
				result.Skipped = append(result.Skipped, name)
				continue
			}
			return nil, fmt.Errorf("failed to store %s: %w", name, err)
		}

		result.Accepted = append(result.Accepted, record)
	}

	return result, nil
}

// Delete removes a single file and returns its record, snapshotted before
// removal.
func (e *Engine) Delete(ctx context.Context, location string) (*catalog.FileRecord, error) {
	record, err := e.storage.Stat(ctx, location)
	if err != nil {
		return nil, err
	}

	if err := e.storage.Delete(ctx, location); err != nil {
		return nil, err
	}

	return record, nil
}

// DeleteTarget pairs the identifier a caller supplied with the location it
// resolved to, so batch reporting can echo the original identifier back.
type DeleteTarget struct {
	Identifier string
	Location   string
}

// BatchDeleteResult reports the outcome of a batch deletion.
type BatchDeleteResult struct {
	Success []*catalog.FileRecord `json:"success"`
	Failed  []string              `json:"failed"`
}

// DeleteBatch partitions targets into found and absent, removes every found
// file and reports both sets. A target that vanishes mid-batch lands in
// Failed rather than aborting the batch.
func (e *Engine) DeleteBatch(ctx context.Context, targets []DeleteTarget) (*BatchDeleteResult, error) {
	result := &BatchDeleteResult{
		Success: []*catalog.FileRecord{},
		Failed:  []string{},
	}

	for _, target := range targets {
		record, err := e.Delete(ctx, target.Location)
		if err != nil {
			if err == catalog.ErrNotFound {
				result.Failed = append(result.Failed, target.Identifier)
				continue
			}
			return nil, fmt.Errorf("failed to delete %s: %w", target.Identifier, err)
		}
		result.Success = append(result.Success, record)
	}

	return result, nil
}
