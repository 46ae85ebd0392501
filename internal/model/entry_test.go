package model

import (
	"testing"
	"time"
)

func TestCategory(t *testing.T) {
	tests := []struct {
		name  string
		isDir bool
		want  string
	}{
		{"photos", true, "directory"},
		{"photos.d", true, "directory"},
		{"README", false, "file"},
		{"movie.MKV", false, "mkv"},
		{"archive.tar.gz", false, "gz"},
		{".bashrc", false, "file"},
		{".config.json", false, "json"},
		{"trailing.", false, "file"},
	}
	for _, tt := range tests {
		if got := Category(tt.name, tt.isDir); got != tt.want {
			t.Errorf("Category(%q, %v) = %q, want %q", tt.name, tt.isDir, got, tt.want)
		}
	}
}

func TestNewEntry(t *testing.T) {
	e := NewEntry("/data/b.TXT", false, 2048)

	if e.ID != "/data/b.TXT" || e.Path != e.ID {
		t.Errorf("expected path as id, got id=%q path=%q", e.ID, e.Path)
	}
	if e.Name != "b.TXT" {
		t.Errorf("expected name b.TXT, got %q", e.Name)
	}
	if e.Size != "2.00 KB" {
		t.Errorf("expected 2.00 KB, got %q", e.Size)
	}
	if e.Type != "txt" {
		t.Errorf("expected type txt, got %q", e.Type)
	}
	if e.LastModified != nil {
		t.Error("expected no modification time")
	}
}

func TestSetModTime(t *testing.T) {
	var e Entry
	ts := time.Date(2024, 3, 9, 14, 5, 6, 0, time.Local)
	e.SetModTime(ts)
	if e.LastModified == nil || *e.LastModified != "2024-03-09 14:05:06" {
		t.Errorf("unexpected modification time %v", e.LastModified)
	}

	e.SetModTime(time.Time{})
	if e.LastModified != nil {
		t.Error("zero time should clear the field")
	}
}

func TestResultTotalBytes(t *testing.T) {
	r := Result{
		NewEntry("/a", false, 100),
		NewEntry("/b", true, 900),
	}
	if got := r.TotalBytes(); got != 1000 {
		t.Errorf("expected 1000, got %d", got)
	}
}
