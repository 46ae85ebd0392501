//go:build linux

package model

import (
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// skippedFilesystems are device-backed but never hold user data worth
// scanning: snap images, container layers and desktop portals
var skippedFilesystems = map[string]bool{
	"squashfs": true, "overlay": true, "fuse.portal": true, "fuse.gvfsd-fuse": true,
}

// probeCapacity reads capacity counters with statfs.
// Linux reports reserved blocks in Bfree, so the portable rule applies.
func probeCapacity(path string) (Capacity, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return Capacity{}, err
	}
	bsize := uint64(st.Frsize)
	if bsize == 0 {
		bsize = uint64(st.Bsize)
	}
	return Capacity{
		Total:     st.Blocks * bsize,
		Available: st.Bavail * bsize,
		Free:      st.Bfree * bsize,
	}, nil
}

func mountPath(mountpoint string) string {
	return mountpoint
}

func skipPartition(fsType, _ string) bool {
	return skippedFilesystems[fsType]
}

func volumeName(device, mountPoint string) string {
	if strings.HasPrefix(device, "/dev/") {
		return filepath.Base(device)
	}
	if device == "" || device == "none" {
		return mountPoint
	}
	return device
}
