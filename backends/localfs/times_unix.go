//go:build !windows

package localfs

import (
	"os"
	"syscall"
	"time"
)

// extractFileTimes derives creation and modification times from the
// underlying syscall.Stat_t where available, falling back to mtime.
func extractFileTimes(info os.FileInfo) (created, modified time.Time) {
	modified = info.ModTime()
	created = modified

	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		created = extractCreationTime(stat)
	}

	return
}
