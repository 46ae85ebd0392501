package scanner

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/lumipallolabs/sizescope/internal/model"
)

// writeFile creates a file of size bytes below root, creating parents
func writeFile(t *testing.T, root, rel string, size int) string {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, make([]byte, size), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// dataTree builds the reference layout:
//
//	a       100 bytes
//	b       2048 bytes
//	c/d     1 MiB
func dataTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "a", 100)
	writeFile(t, root, "b", 2048)
	writeFile(t, root, filepath.Join("c", "d"), 1048576)
	return root
}

func skipIfPermissionsIgnored(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("running as root, permission bits are not enforced")
	}
}

// recordingSink keeps every event it receives
type recordingSink struct {
	mu        sync.Mutex
	progress  []ProgressEvent
	results   []model.Result
	completes int
}

func (s *recordingSink) OnProgress(ev ProgressEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = append(s.progress, ev)
}

func (s *recordingSink) OnComplete(result model.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, result)
	s.completes++
}

func (s *recordingSink) events() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.progress) + s.completes
}

func names(entries []model.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func equalNames(got []string, want ...string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
