package model

import (
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v4/disk"

	"github.com/lumipallolabs/sizescope/internal/logging"
)

// Volume is a mounted storage device as reported by the OS at query time
type Volume struct {
	Name         string  `json:"name"`
	Path         string  `json:"path"`
	TotalBytes   uint64  `json:"totalBytes"`
	UsedBytes    uint64  `json:"usedBytes"`
	FreeBytes    uint64  `json:"freeBytes"`
	UsagePercent float32 `json:"usagePercentage"`
	TotalSpace   string  `json:"totalSpace"`
	UsedSpace    string  `json:"usedSpace"`
	FreeSpace    string  `json:"freeSpace"`
}

// Capacity holds the raw counters a platform probe reports for one volume
type Capacity struct {
	Total     uint64
	Available uint64 // available to the calling user
	Free      uint64 // free blocks including reserved ones
	// Precise is set when Free comes from a filesystem statistics call whose
	// free count excludes reclaimable space the OS still reports as used.
	Precise bool
}

// Used returns the bytes in use. Precise counters use total-free,
// everything else the portable total-available rule.
func (c Capacity) Used() uint64 {
	free := c.Available
	if c.Precise {
		free = c.Free
	}
	if free > c.Total {
		return 0
	}
	return c.Total - free
}

// NewVolume derives a Volume from capacity counters
func NewVolume(name, path string, c Capacity) Volume {
	used := c.Used()
	var pct float32
	if c.Total > 0 {
		pct = float32(float64(used) / float64(c.Total) * 100)
	}
	if name == "" {
		name = path
	}
	return Volume{
		Name:         name,
		Path:         path,
		TotalBytes:   c.Total,
		UsedBytes:    used,
		FreeBytes:    c.Available,
		UsagePercent: pct,
		TotalSpace:   FormatBytes(c.Total),
		UsedSpace:    FormatBytes(used),
		FreeSpace:    FormatBytes(c.Available),
	}
}

// GetVolumes returns all mounted volumes on the system.
// Capacities are recomputed on every call.
func GetVolumes() ([]Volume, error) {
	partitions, err := disk.Partitions(false)
	if err != nil {
		if len(partitions) == 0 {
			return nil, fmt.Errorf("list partitions: %w", err)
		}
		// Partial results come with an error for the mounts that failed
		logging.Debug.Printf("listing partitions: %v", err)
	}

	var volumes []Volume
	seenDevices := make(map[string]bool)
	for _, p := range partitions {
		path := mountPath(p.Mountpoint)
		if path == "" || skipPartition(p.Fstype, path) {
			continue
		}
		// Bind mounts and btrfs subvolumes show the same device many times
		if strings.HasPrefix(p.Device, "/dev/") {
			if seenDevices[p.Device] {
				continue
			}
			seenDevices[p.Device] = true
		}

		c, err := capacityOf(path)
		if err != nil || c.Total == 0 {
			continue
		}
		volumes = append(volumes, NewVolume(volumeName(p.Device, path), path, c))
	}
	return volumes, nil
}

// capacityOf prefers the platform probe and falls back to the portable
// counters, where used is total minus available.
func capacityOf(path string) (Capacity, error) {
	if c, err := probeCapacity(path); err == nil {
		return c, nil
	}
	u, err := disk.Usage(path)
	if err != nil {
		return Capacity{}, err
	}
	return Capacity{Total: u.Total, Available: u.Free, Free: u.Free}, nil
}
