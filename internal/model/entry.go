package model

import (
	"path/filepath"
	"strings"
	"time"
)

// CategoryDirectory and CategoryFile are the two fixed entry categories.
// Every other category is a lowercased file extension.
const (
	CategoryDirectory = "directory"
	CategoryFile      = "file"
)

// TimeLayout is the format of Entry.LastModified.
const TimeLayout = "2006-01-02 15:04:05"

// Entry is one file or directory discovered by a scan or listing
type Entry struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Size         string  `json:"size"`
	SizeBytes    uint64  `json:"size_bytes"`
	Type         string  `json:"type"`
	Path         string  `json:"path"`
	LastModified *string `json:"last_modified,omitempty"`
	Children     []Entry `json:"children,omitempty"`
}

// Result is an ordered set of entries
type Result []Entry

// NewEntry builds an entry for path. The path is used as the ID.
func NewEntry(path string, isDir bool, size uint64) Entry {
	name := filepath.Base(path)
	return Entry{
		ID:        path,
		Name:      name,
		Size:      FormatBytes(size),
		SizeBytes: size,
		Type:      Category(name, isDir),
		Path:      path,
	}
}

// IsDir reports whether the entry is a directory
func (e Entry) IsDir() bool {
	return e.Type == CategoryDirectory
}

// SetModTime stamps the entry with a formatted modification time
func (e *Entry) SetModTime(t time.Time) {
	if t.IsZero() {
		e.LastModified = nil
		return
	}
	s := t.Local().Format(TimeLayout)
	e.LastModified = &s
}

// TotalBytes sums SizeBytes over the result
func (r Result) TotalBytes() uint64 {
	var total uint64
	for _, e := range r {
		total += e.SizeBytes
	}
	return total
}

// Category returns "directory" for directories, otherwise the lowercased
// extension of name without the dot, or "file" when there is none.
// A name that only starts with a dot (".bashrc") has no extension.
func Category(name string, isDir bool) string {
	if isDir {
		return CategoryDirectory
	}
	idx := strings.LastIndexByte(name, '.')
	if idx <= 0 || idx == len(name)-1 {
		return CategoryFile
	}
	return strings.ToLower(name[idx+1:])
}
