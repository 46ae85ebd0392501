//go:build linux

package model

import "testing"

func TestVolumeName(t *testing.T) {
	if got := volumeName("/dev/nvme0n1p2", "/"); got != "nvme0n1p2" {
		t.Errorf("expected device name, got %q", got)
	}
	if got := volumeName("none", "/mnt/x"); got != "/mnt/x" {
		t.Errorf("expected mount point, got %q", got)
	}
	if got := volumeName("server:/export", "/mnt/nfs"); got != "server:/export" {
		t.Errorf("expected source, got %q", got)
	}
}

func TestSkipPartition(t *testing.T) {
	for _, fs := range []string{"squashfs", "overlay"} {
		if !skipPartition(fs, "/snap/core/1") {
			t.Errorf("%s should be skipped", fs)
		}
	}
	for _, fs := range []string{"ext4", "btrfs", "xfs", "vfat"} {
		if skipPartition(fs, "/mnt/data") {
			t.Errorf("%s should be listed", fs)
		}
	}
}

func TestCapacityOfMatchesProbe(t *testing.T) {
	c, err := capacityOf("/")
	if err != nil {
		t.Fatalf("capacityOf(/) failed: %v", err)
	}
	if c.Total == 0 || c.Available > c.Total {
		t.Errorf("unexpected capacity %+v", c)
	}
	if c.Precise {
		t.Error("linux capacities use the portable rule")
	}
}
