//go:build darwin

package localfs

import (
	"syscall"
	"time"
)

// extractCreationTime returns the file birth time on Darwin (macOS)
func extractCreationTime(stat *syscall.Stat_t) time.Time {
	return time.Unix(stat.Birthtimespec.Sec, stat.Birthtimespec.Nsec)
}
