//go:build openbsd

package localfs

import (
	"syscall"
	"time"
)

// extractCreationTime returns the inode change time on OpenBSD, which has no
// birth time in syscall.Stat_t.
func extractCreationTime(stat *syscall.Stat_t) time.Time {
	return time.Unix(int64(stat.Ctim.Sec), int64(stat.Ctim.Nsec))
}
