//go:build darwin

package model

import (
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/sys/unix"
)

// probeCapacity reads capacity counters with statfs. The free block count
// from statfs leaves out purgeable space the higher-level APIs count as
// available, so it is the preferred basis for "used".
func probeCapacity(path string) (Capacity, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return Capacity{}, err
	}
	bsize := uint64(st.Bsize)
	return Capacity{
		Total:     st.Blocks * bsize,
		Available: st.Bavail * bsize,
		Free:      st.Bfree * bsize,
		Precise:   true,
	}, nil
}

func mountPath(mountpoint string) string {
	return mountpoint
}

// skipPartition drops network and pseudo filesystems, and the APFS system
// volumes that share a container with the boot volume
func skipPartition(fsType, path string) bool {
	filtered := []string{
		"smbfs", "nfs", "afpfs", "webdav", "cifs",
		"devfs", "autofs", "mtmfs", "nullfs",
	}
	if slices.Contains(filtered, fsType) {
		return true
	}
	return strings.HasPrefix(path, "/System/Volumes/") || strings.HasPrefix(path, "/private/")
}

func volumeName(_, mountPoint string) string {
	if mountPoint == "/" {
		return "Macintosh HD"
	}
	return filepath.Base(mountPoint)
}
