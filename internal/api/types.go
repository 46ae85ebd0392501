package api

import (
	"encoding/json"
	"fmt"

	"github.com/dustin/go-humanize"
)

// ScanRequest is the body of POST /api/scans
type ScanRequest struct {
	Path       string `json:"path"`
	Mode       string `json:"mode"`
	MinSize    Size   `json:"min_size"`
	ShowHidden bool   `json:"show_hidden"`
}

// TrashRequest is the body of POST /api/trash
type TrashRequest struct {
	Path string `json:"path"`
}

// RemovalResponse reports a deleted or trashed entry
type RemovalResponse struct {
	Path         string `json:"path"`
	Bytes        uint64 `json:"bytes"`
	Size         string `json:"size"`
	Trashed      bool   `json:"trashed"`
	SessionFreed uint64 `json:"session_freed"`
	TotalFreed   uint64 `json:"total_freed"`
}

// ScanStatus describes a scan for GET /api/scans/:id
type ScanStatus struct {
	ID           string   `json:"id"`
	Root         string   `json:"root"`
	Mode         string   `json:"mode"`
	State        string   `json:"state"`
	FilesScanned uint64   `json:"files_scanned"`
	Results      int      `json:"results"`
	Skipped      []string `json:"skipped,omitempty"`
	Dropped      int      `json:"skipped_dropped,omitempty"`
	ElapsedMs    int64    `json:"elapsed_ms"`
	Error        string   `json:"error,omitempty"`
}

// Size is a byte count that decodes from a JSON number or a
// human-readable string such as "500MiB"
type Size uint64

func (s *Size) UnmarshalJSON(data []byte) error {
	var n uint64
	if err := json.Unmarshal(data, &n); err == nil {
		*s = Size(n)
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("size must be a number or a string: %w", err)
	}
	if str == "" {
		*s = 0
		return nil
	}
	n, err := humanize.ParseBytes(str)
	if err != nil {
		return fmt.Errorf("invalid size %q: %w", str, err)
	}
	*s = Size(n)
	return nil
}
