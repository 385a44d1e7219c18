//go:build linux

package localfs

import (
	"syscall"
	"time"
)

// extractCreationTime returns the inode change time on Linux, the closest
// approximation of a creation timestamp available through syscall.Stat_t.
func extractCreationTime(stat *syscall.Stat_t) time.Time {
	return time.Unix(stat.Ctim.Sec, stat.Ctim.Nsec)
}
