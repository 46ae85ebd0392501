//go:build windows

package model

import (
	"fmt"
	"strings"

	"golang.org/x/sys/windows"
)

// probeCapacity reads capacity counters with GetDiskFreeSpaceEx
func probeCapacity(path string) (Capacity, error) {
	pathPtr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return Capacity{}, err
	}
	var freeAvailable, total, totalFree uint64
	if err := windows.GetDiskFreeSpaceEx(pathPtr, &freeAvailable, &total, &totalFree); err != nil {
		return Capacity{}, err
	}
	return Capacity{
		Total:     total,
		Available: freeAvailable,
		Free:      totalFree,
	}, nil
}

// mountPath turns a drive ("C:") into its root directory ("C:\")
func mountPath(mountpoint string) string {
	if mountpoint == "" || strings.HasSuffix(mountpoint, `\`) {
		return mountpoint
	}
	return mountpoint + `\`
}

func skipPartition(_, _ string) bool {
	return false
}

func volumeName(_, path string) string {
	if name := volumeLabel(path); name != "" {
		return name
	}
	return fmt.Sprintf("Local Disk (%s)", strings.TrimSuffix(path, `\`))
}

func volumeLabel(path string) string {
	pathPtr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return ""
	}
	buf := make([]uint16, windows.MAX_PATH+1)
	if err := windows.GetVolumeInformation(pathPtr, &buf[0], uint32(len(buf)), nil, nil, nil, nil, 0); err != nil {
		return ""
	}
	return windows.UTF16ToString(buf)
}
