package model

import (
	"runtime"
	"testing"
)

func TestCapacityUsed(t *testing.T) {
	portable := Capacity{Total: 1000, Available: 300, Free: 400}
	if got := portable.Used(); got != 700 {
		t.Errorf("portable: expected 700, got %d", got)
	}

	precise := Capacity{Total: 1000, Available: 300, Free: 400, Precise: true}
	if got := precise.Used(); got != 600 {
		t.Errorf("precise: expected 600, got %d", got)
	}

	broken := Capacity{Total: 100, Available: 300}
	if got := broken.Used(); got != 0 {
		t.Errorf("available above total: expected 0, got %d", got)
	}
}

func TestNewVolume(t *testing.T) {
	v := NewVolume("", "/mnt/data", Capacity{Total: 4 * GB, Available: GB})

	if v.Name != "/mnt/data" {
		t.Errorf("expected mount path as fallback name, got %q", v.Name)
	}
	if v.UsedBytes != 3*GB {
		t.Errorf("expected 3 GB used, got %d", v.UsedBytes)
	}
	if v.UsagePercent != 75 {
		t.Errorf("expected 75%%, got %.1f%%", v.UsagePercent)
	}
	if v.TotalSpace != "4.00 GB" || v.FreeSpace != "1.00 GB" || v.UsedSpace != "3.00 GB" {
		t.Errorf("unexpected formatted sizes: %+v", v)
	}
}

func TestNewVolumeZeroTotal(t *testing.T) {
	v := NewVolume("empty", "/x", Capacity{})
	if v.UsagePercent != 0 {
		t.Errorf("expected 0%%, got %.1f%%", v.UsagePercent)
	}
}

func TestGetVolumes(t *testing.T) {
	if runtime.GOOS != "linux" && runtime.GOOS != "darwin" {
		t.Skip("mount enumeration is only exercised on linux and darwin")
	}

	volumes, err := GetVolumes()
	if err != nil {
		t.Fatalf("GetVolumes failed: %v", err)
	}
	for _, v := range volumes {
		if v.Path == "" {
			t.Error("volume without mount path")
		}
		if v.UsagePercent < 0 || v.UsagePercent > 100 {
			t.Errorf("%s: usage %.1f out of range", v.Path, v.UsagePercent)
		}
		if v.UsedBytes > v.TotalBytes {
			t.Errorf("%s: used %d above total %d", v.Path, v.UsedBytes, v.TotalBytes)
		}
	}
}
