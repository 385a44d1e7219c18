//go:build windows

package localfs

import (
	"os"
	"time"
)

// extractFileTimes on Windows falls back to the modification time for both
// values; os.FileInfo.Sys carries no portable creation timestamp here.
func extractFileTimes(info os.FileInfo) (created, modified time.Time) {
	modified = info.ModTime()
	created = modified
	return
}
