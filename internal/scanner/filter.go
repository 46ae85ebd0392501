package scanner

import (
	"path/filepath"
	"strings"
)

// Filter decides which entries a traversal ignores
type Filter struct {
	ShowHidden bool

	names map[string]bool
	paths map[string]bool
}

// NewFilter builds a filter from the platform's protected locations plus
// extra. Entries containing a path separator are matched as absolute
// paths, anything else as a bare name.
func NewFilter(showHidden bool, extra ...string) Filter {
	f := Filter{
		ShowHidden: showHidden,
		names:      make(map[string]bool),
		paths:      make(map[string]bool),
	}
	for _, p := range append(protectedLocations(), extra...) {
		if strings.ContainsRune(p, filepath.Separator) || strings.ContainsRune(p, '/') {
			f.paths[filepath.Clean(p)] = true
		} else {
			f.names[p] = true
		}
	}
	return f
}

// Hidden reports whether name is hidden and hidden entries are excluded
func (f Filter) Hidden(name string) bool {
	return !f.ShowHidden && strings.HasPrefix(name, ".")
}

// Protected reports whether a directory is on the denylist
func (f Filter) Protected(path, name string) bool {
	return f.names[name] || f.paths[path]
}
