package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"
)

// ErrNotDir is returned when a scan or listing root is not a directory
var ErrNotDir = errors.New("not a directory")

// PreconditionError reports a request that cannot start: the root is
// missing, unreadable, or not a directory. It is the only error a scan
// surfaces to its caller.
type PreconditionError struct {
	Op   string
	Path string
	Err  error
}

func (e *PreconditionError) Error() string {
	switch {
	case errors.Is(e.Err, fs.ErrNotExist):
		return fmt.Sprintf("%s %s: directory does not exist", e.Op, e.Path)
	case errors.Is(e.Err, fs.ErrPermission):
		return fmt.Sprintf("%s %s: permission denied", e.Op, e.Path)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PreconditionError) Unwrap() error {
	return e.Err
}

// maxSkipped bounds the diagnostics kept per scan
const maxSkipped = 100

// Skip records an entry left out of a result because it could not be read
type Skip struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// skipLog keeps the first maxSkipped skips of one scan and counts the rest.
// Only the error path touches it.
type skipLog struct {
	mu      sync.Mutex
	items   []Skip
	dropped int
}

func (l *skipLog) add(path string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.items) >= maxSkipped {
		l.dropped++
		return
	}
	l.items = append(l.items, Skip{Path: path, Reason: err.Error()})
}

func (l *skipLog) snapshot() ([]Skip, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Skip, len(l.items))
	copy(out, l.items)
	return out, l.dropped
}
