package scanner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/lumipallolabs/sizescope/internal/model"
)

// ListOptions configures a directory listing
type ListOptions struct {
	Order model.Order
	// Depth bounds aggregation of child directories (negative = default)
	Depth      int
	ShowHidden bool
	Workers    int
	SizeMode   SizeMode
	Protected  []string
}

// DefaultListOptions returns the options of an interactive browse listing
func DefaultListOptions() ListOptions {
	return ListOptions{
		Order: model.OrderSize,
		Depth: DefaultListDepth,
	}
}

// List returns the immediate children of path with sizes and
// modification times. Directory sizes are aggregated in parallel down to
// opts.Depth levels. A missing, unreadable or non-directory path fails
// with a *PreconditionError; children that cannot be read are left out.
func List(ctx context.Context, path string, opts ListOptions) (model.Result, error) {
	abs, err := validateDir("list", path)
	if err != nil {
		return nil, err
	}

	children, err := readDirUnsorted(abs)
	if err != nil && len(children) == 0 {
		return nil, &PreconditionError{Op: "list", Path: abs, Err: err}
	}

	filter := NewFilter(opts.ShowHidden, opts.Protected...)
	agg := NewAggregator(NewFilter(true, opts.Protected...), opts.SizeMode)
	depth := opts.Depth
	if depth < 0 {
		depth = DefaultListDepth
	}

	visible := children[:0]
	for _, c := range children {
		if !filter.Hidden(c.Name()) {
			visible = append(visible, c)
		}
	}

	slots := make([]*model.Entry, len(visible))
	workers := Options{Workers: opts.Workers}.workers()
	forEach(ctx, len(visible), workers, func(i int) {
		slots[i] = listEntry(agg, abs, visible[i], depth)
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := make(model.Result, 0, len(slots))
	for _, e := range slots {
		if e != nil {
			result = append(result, *e)
		}
	}
	opts.Order.Sort(result)
	return result, nil
}

func listEntry(agg *Aggregator, dir string, d fs.DirEntry, depth int) *model.Entry {
	path := filepath.Join(dir, d.Name())
	info, err := d.Info()
	if err != nil {
		return nil
	}

	var entry model.Entry
	if info.IsDir() {
		entry = model.NewEntry(path, true, agg.Aggregate(path, depth))
	} else {
		entry = model.NewEntry(path, false, agg.sizeOf(info))
	}
	entry.SetModTime(info.ModTime())
	return &entry
}

// Tree lists path and attaches the children of every directory down to
// depth levels (1 = immediate children only). Every level is measured with
// the listing rules; the root's size is the sum of its children.
func Tree(ctx context.Context, path string, depth int, opts ListOptions) (model.Entry, error) {
	abs, err := validateDir("tree", path)
	if err != nil {
		return model.Entry{}, err
	}
	if depth < 1 {
		depth = 1
	}

	children, err := treeChildren(ctx, abs, depth, opts)
	if err != nil {
		return model.Entry{}, err
	}

	root := model.NewEntry(abs, true, model.Result(children).TotalBytes())
	if info, err := os.Stat(abs); err == nil {
		root.SetModTime(info.ModTime())
	}
	root.Children = children
	return root, nil
}

func treeChildren(ctx context.Context, dir string, depth int, opts ListOptions) ([]model.Entry, error) {
	result, err := List(ctx, dir, opts)
	if err != nil {
		return nil, err
	}
	if depth == 1 {
		return result, nil
	}

	for i := range result {
		if !result[i].IsDir() {
			continue
		}
		children, err := treeChildren(ctx, result[i].Path, depth-1, opts)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			// Unreadable subdirectory: keep it as a leaf
			continue
		}
		result[i].Children = children
	}
	return result, nil
}

// validateDir resolves path and checks that it is a readable directory
func validateDir(op, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", &PreconditionError{Op: op, Path: path, Err: err}
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", &PreconditionError{Op: op, Path: abs, Err: err}
	}
	if !info.IsDir() {
		return "", &PreconditionError{Op: op, Path: abs, Err: ErrNotDir}
	}
	return abs, nil
}
