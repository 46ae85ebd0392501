package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
)

// Aggregator computes the size of directory subtrees down to a depth bound.
// It only reads the filesystem and never reports errors: an unreadable
// directory contributes 0 bytes and its siblings are unaffected.
type Aggregator struct {
	filter Filter
	mode   SizeMode
}

// NewAggregator creates an aggregator that prunes the filter's protected
// directories and measures files according to mode. Hidden entries are
// always counted.
func NewAggregator(filter Filter, mode SizeMode) *Aggregator {
	return &Aggregator{filter: filter, mode: mode}
}

var defaultAggregator = NewAggregator(NewFilter(true), SizeApparent)

// Aggregate returns the total size of the files below path, reading
// directories down to maxDepth levels (0 = direct children only).
func Aggregate(path string, maxDepth int) uint64 {
	return defaultAggregator.Aggregate(path, maxDepth)
}

type pendingDir struct {
	path  string
	depth int
}

// Aggregate returns the total size of the files below path. Directories
// deeper than maxDepth are not read and contribute nothing, so the result
// is a lower bound for deep trees. Symbolic links count as their own size
// and are never followed.
func (a *Aggregator) Aggregate(path string, maxDepth int) uint64 {
	if maxDepth < 0 {
		return 0
	}

	var total uint64
	stack := []pendingDir{{path: path, depth: 0}}

	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := readDirUnsorted(dir.path)
		if err != nil && len(entries) == 0 {
			continue
		}

		for _, d := range entries {
			childPath := filepath.Join(dir.path, d.Name())
			if d.IsDir() {
				if dir.depth+1 > maxDepth || a.filter.Protected(childPath, d.Name()) {
					continue
				}
				stack = append(stack, pendingDir{path: childPath, depth: dir.depth + 1})
				continue
			}

			info, err := d.Info()
			if err != nil {
				// Vanished or unreadable entry
				continue
			}
			total += a.sizeOf(info)
		}
	}

	return total
}

// sizeOf returns the size a single non-directory entry contributes
func (a *Aggregator) sizeOf(info fs.FileInfo) uint64 {
	var size int64
	if a.mode == SizeAllocated {
		size = allocatedSize(info)
	} else {
		size = info.Size()
	}
	if size < 0 {
		return 0
	}
	return uint64(size)
}

// readDirUnsorted reads a directory without the sort os.ReadDir performs.
// Entries read before an error are still returned.
func readDirUnsorted(path string) ([]fs.DirEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.ReadDir(-1)
}
