package scanner

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/charlievieth/fastwalk"

	"github.com/lumipallolabs/sizescope/internal/logging"
)

// VisitFunc receives one entry below the walk root. It is called from
// several goroutines at once. Returning fastwalk.SkipDir on a directory
// prunes it; any other error stops the walk.
type VisitFunc func(path string, d fs.DirEntry) error

// ErrorHandler receives per-entry errors. The walk continues after it returns.
type ErrorHandler func(path string, err error)

// WalkOptions configures a Walker
type WalkOptions struct {
	Workers int
	Filter  Filter
	// OneFileSystem skips directories that live on another device than the root
	OneFileSystem bool
	// OnError is called for every entry that could not be read (nil = ignore)
	OnError ErrorHandler
}

// Walker performs a full, depth-unbounded parallel traversal of a subtree
type Walker struct {
	opts WalkOptions
}

// NewWalker creates a new parallel filesystem walker
func NewWalker(opts WalkOptions) *Walker {
	if opts.Workers < 1 {
		opts.Workers = DefaultOptions().Workers
	}
	return &Walker{opts: opts}
}

// Walk visits every entry below root, excluding root itself. Hidden
// entries are skipped unless the filter shows them, protected directories
// are never entered, and symbolic links are not followed. Visit order is
// not defined.
func (w *Walker) Walk(ctx context.Context, root string, visit VisitFunc) error {
	root = filepath.Clean(root)

	var rootDev uint64
	checkDev := false
	if w.opts.OneFileSystem {
		rootDev, checkDev = rootDevice(root)
	}

	conf := &fastwalk.Config{
		Follow:     false, // Don't follow symlinks
		NumWorkers: w.opts.Workers,
	}

	err := fastwalk.Walk(conf, root, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			w.handleError(path, err)
			return nil
		}

		if path == root {
			return nil
		}

		name := d.Name()
		if w.opts.Filter.Hidden(name) {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if w.opts.Filter.Protected(path, name) {
				return fastwalk.SkipDir
			}
			if checkDev && w.crossesDevice(path, d, rootDev) {
				return fastwalk.SkipDir
			}
		}

		return visit(path, d)
	})

	if err != nil && !errors.Is(err, fastwalk.SkipDir) {
		return err
	}
	return nil
}

func (w *Walker) crossesDevice(path string, d fs.DirEntry, rootDev uint64) bool {
	info, err := d.Info()
	if err != nil {
		w.handleError(path, err)
		return true
	}
	dev, ok := deviceOf(info)
	return ok && dev != rootDev
}

func (w *Walker) handleError(path string, err error) {
	if w.opts.OnError != nil {
		w.opts.OnError(path, err)
		return
	}
	logging.Scanner.Printf("skip %s: %v", path, err)
}
