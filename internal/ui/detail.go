package ui

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/lumipallolabs/sizescope/internal/model"
)

// fileType detects the content type of a file from its magic numbers
func fileType(path string) string {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return ""
	}
	if ext := mtype.Extension(); ext != "" {
		return strings.ToUpper(strings.TrimPrefix(ext, ".")) + " · " + mtype.String()
	}
	return mtype.String()
}

// describe renders the status line for the selected entry. total is the
// size of the listing the entry belongs to, kind the detected content type.
func describe(e model.Entry, total uint64, kind string) string {
	parts := []string{e.Path, e.Size}
	if total > 0 {
		parts = append(parts, fmt.Sprintf("%.1f%%", float64(e.SizeBytes)/float64(total)*100))
	}
	if e.IsDir() {
		parts = append(parts, "directory")
	} else if kind != "" {
		parts = append(parts, kind)
	} else {
		parts = append(parts, e.Type)
	}
	if e.LastModified != nil {
		parts = append(parts, "modified "+*e.LastModified)
	}
	return strings.Join(parts, "  ·  ")
}
