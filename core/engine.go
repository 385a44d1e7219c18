// Package core implements the file catalog and mutation operations of the
// gateway on top of a storage backend. All records are computed from the live
// filesystem at request time; nothing is cached.
package core

import (
	"go.uber.org/zap"

	"github.com/ebogdum/filegate/backends"
)

// Engine orchestrates catalog and mutation operations over tenant partitions.
type Engine struct {
	storage  backends.Storage
	rootPath string
	logger   *zap.Logger
}

// NewEngine creates a new core engine instance
func NewEngine(storage backends.Storage, rootPath string, logger *zap.Logger) *Engine {
	return &Engine{
		storage:  storage,
		rootPath: rootPath,
		logger:   logger,
	}
}

// RootPath returns the storage root bounding every tenant partition.
func (e *Engine) RootPath() string {
	return e.rootPath
}
