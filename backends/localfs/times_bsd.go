//go:build freebsd || netbsd

package localfs

import (
	"syscall"
	"time"
)

// extractCreationTime returns the file birth time on FreeBSD/NetBSD
func extractCreationTime(stat *syscall.Stat_t) time.Time {
	return time.Unix(int64(stat.Birthtimespec.Sec), int64(stat.Birthtimespec.Nsec))
}
