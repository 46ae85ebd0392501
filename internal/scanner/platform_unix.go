//go:build !windows

package scanner

import (
	"io/fs"
	"os"
	"syscall"
)

// allocatedSize returns the bytes allocated on disk (handles sparse files).
// Blocks is in 512-byte units.
func allocatedSize(info fs.FileInfo) int64 {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.Size()
	}
	return int64(stat.Blocks) * 512
}

// deviceOf returns the device id of a file, for mount point detection
func deviceOf(info fs.FileInfo) (uint64, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, false
	}
	return uint64(stat.Dev), true
}

// rootDevice returns the device id of path
func rootDevice(path string) (uint64, bool) {
	info, err := os.Lstat(path)
	if err != nil {
		return 0, false
	}
	return deviceOf(info)
}
