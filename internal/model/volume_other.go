//go:build !linux && !darwin && !windows

package model

import (
	"errors"
	"path/filepath"
	"strings"
)

var errNoProbe = errors.New("no capacity probe on this platform")

// probeCapacity always fails here, so the portable counters are used
func probeCapacity(string) (Capacity, error) {
	return Capacity{}, errNoProbe
}

func mountPath(mountpoint string) string {
	return mountpoint
}

func skipPartition(fsType, _ string) bool {
	switch fsType {
	case "devfs", "fdescfs", "procfs", "linprocfs", "tmpfs", "nullfs":
		return true
	}
	return false
}

func volumeName(device, mountPoint string) string {
	if strings.HasPrefix(device, "/dev/") {
		return filepath.Base(device)
	}
	return mountPoint
}
