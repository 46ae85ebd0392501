package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/lumipallolabs/sizescope/internal/logging"
	"github.com/lumipallolabs/sizescope/internal/model"
)

// State is the lifecycle state of a scan
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateFailed
)

// String returns a human-readable state name
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Scan is the handle of one background scan. Every scan owns its counter,
// results and events; concurrent scans share nothing.
type Scan struct {
	ID        string
	Root      string
	Mode      Mode
	StartedAt time.Time

	state   atomic.Int32
	files   atomic.Uint64
	skipped skipLog
	done    chan struct{}
	err     error
}

func newScan(root string, mode Mode) *Scan {
	return &Scan{
		ID:        uuid.NewString(),
		Root:      root,
		Mode:      mode,
		StartedAt: time.Now(),
		done:      make(chan struct{}),
	}
}

// State returns the current state
func (s *Scan) State() State {
	return State(s.state.Load())
}

// FilesScanned returns the number of entries processed so far
func (s *Scan) FilesScanned() uint64 {
	return s.files.Load()
}

// Done is closed when the scan has completed or failed
func (s *Scan) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the scan ends and returns its error, if any
func (s *Scan) Wait() error {
	<-s.done
	return s.err
}

// Skipped returns the entries left out because they could not be read,
// bounded to the first maxSkipped, and how many more were dropped.
func (s *Scan) Skipped() ([]Skip, int) {
	return s.skipped.snapshot()
}

func (s *Scan) skip(path string, err error) {
	s.skipped.add(path, err)
}

func (s *Scan) finish(err error) {
	s.err = err
	if err != nil {
		s.state.Store(int32(StateFailed))
	} else {
		s.state.Store(int32(StateCompleted))
	}
	close(s.done)
}

// Coordinator runs scans in the background and reports to a Sink
type Coordinator struct {
	opts   Options
	filter Filter
	agg    *Aggregator
}

// NewCoordinator creates a coordinator for the given options
func NewCoordinator(opts Options) *Coordinator {
	if opts.ScanDepth < 0 {
		opts.ScanDepth = DefaultScanDepth
	}
	filter := opts.filter()
	return &Coordinator{
		opts:   opts,
		filter: filter,
		// Aggregation counts hidden files below a visible directory
		agg: NewAggregator(NewFilter(true, opts.Protected...), opts.SizeMode),
	}
}

// Options returns the effective options
func (c *Coordinator) Options() Options {
	return c.opts
}

// Start validates root and starts scanning it in the background. A root
// that is missing, unreadable or not a directory fails here with a
// *PreconditionError and no event is ever sent to sink. Otherwise the
// returned scan is running and all further reporting goes through sink.
func (c *Coordinator) Start(ctx context.Context, root string, sink Sink) (*Scan, error) {
	abs, err := validateDir("scan", root)
	if err != nil {
		return nil, err
	}

	var children []fs.DirEntry
	if c.opts.Mode == ModeTopLevel {
		children, err = readDirUnsorted(abs)
		if err != nil {
			return nil, &PreconditionError{Op: "scan", Path: abs, Err: err}
		}
	} else {
		f, err := os.Open(abs)
		if err != nil {
			return nil, &PreconditionError{Op: "scan", Path: abs, Err: err}
		}
		f.Close()
	}

	scan := newScan(abs, c.opts.Mode)
	scan.state.Store(int32(StateRunning))

	go c.run(ctx, scan, children, newDispatcher(sink))

	return scan, nil
}

func (c *Coordinator) run(ctx context.Context, scan *Scan, children []fs.DirEntry, d *dispatcher) {
	logging.Scanner.Printf("scan %s: start %s (%s)", scan.ID, scan.Root, scan.Mode)

	var (
		entries []model.Entry
		err     error
	)
	if scan.Mode == ModeDeep {
		entries, err = c.runDeep(ctx, scan, d)
	} else {
		entries = c.runTopLevel(ctx, scan, children, d)
		err = ctx.Err()
	}

	if err != nil {
		d.close()
		logging.Scanner.Printf("scan %s: stopped after %d entries: %v", scan.ID, scan.FilesScanned(), err)
		scan.finish(err)
		return
	}

	result := c.shape(entries)
	d.finish(result, ProgressEvent{
		CurrentPath:  "Complete",
		FilesScanned: scan.FilesScanned(),
		Progress:     100,
	})
	d.close()

	skipped, dropped := scan.Skipped()
	logging.Scanner.Printf("scan %s: complete, %d entries processed, %d results, %d skipped in %v",
		scan.ID, scan.FilesScanned(), len(result), len(skipped)+dropped, time.Since(scan.StartedAt).Truncate(time.Millisecond))
	scan.finish(nil)
}

// shape applies the min-size filter and sorts by size
func (c *Coordinator) shape(entries []model.Entry) model.Result {
	result := make(model.Result, 0, len(entries))
	for _, e := range entries {
		if e.SizeBytes >= c.opts.MinSize {
			result = append(result, e)
		}
	}
	model.SortBySize(result)
	return result
}

// runTopLevel measures every visible child of the root on the worker pool.
// Each worker writes only its own slot of the result buffer.
func (c *Coordinator) runTopLevel(ctx context.Context, scan *Scan, children []fs.DirEntry, d *dispatcher) []model.Entry {
	jobs := make([]fs.DirEntry, 0, len(children))
	for _, child := range children {
		path := filepath.Join(scan.Root, child.Name())
		if c.filter.Hidden(child.Name()) {
			continue
		}
		if child.IsDir() && c.filter.Protected(path, child.Name()) {
			continue
		}
		jobs = append(jobs, child)
	}

	total := uint64(len(jobs))
	interval := c.opts.interval()
	slots := make([]*model.Entry, len(jobs))

	forEach(ctx, len(jobs), c.opts.workers(), func(i int) {
		child := jobs[i]
		path := filepath.Join(scan.Root, child.Name())

		n := scan.files.Add(1)
		if n%interval == 0 {
			d.progress(ProgressEvent{
				CurrentPath:  path,
				FilesScanned: n,
				Progress:     float32(float64(n) / float64(total) * 100),
			})
		}

		info, err := child.Info()
		if err != nil {
			scan.skip(path, err)
			return
		}

		var entry model.Entry
		if info.IsDir() {
			entry = model.NewEntry(path, true, c.agg.Aggregate(path, c.opts.ScanDepth))
		} else {
			entry = model.NewEntry(path, false, c.agg.sizeOf(info))
		}
		slots[i] = &entry
	})

	entries := make([]model.Entry, 0, len(slots))
	for _, e := range slots {
		if e != nil {
			entries = append(entries, *e)
		}
	}
	return entries
}

// runDeep walks the whole subtree and turns regular files into entries.
// Entries travel over a channel to a single collector.
func (c *Coordinator) runDeep(ctx context.Context, scan *Scan, d *dispatcher) ([]model.Entry, error) {
	entryCh := make(chan model.Entry, 1024)
	var entries []model.Entry
	var collectWg sync.WaitGroup

	collectWg.Add(1)
	go func() {
		defer collectWg.Done()
		for e := range entryCh {
			entries = append(entries, e)
		}
	}()

	walker := NewWalker(WalkOptions{
		Workers:       c.opts.workers(),
		Filter:        c.filter,
		OneFileSystem: c.opts.OneFileSystem,
		OnError:       scan.skip,
	})

	interval := c.opts.interval()
	walkErr := walker.Walk(ctx, scan.Root, func(path string, de fs.DirEntry) error {
		n := scan.files.Add(1)
		if n%interval == 0 {
			d.progress(ProgressEvent{
				CurrentPath:  path,
				FilesScanned: n,
				Progress:     estimateProgress(n),
			})
		}

		if de.IsDir() || !de.Type().IsRegular() {
			return nil
		}

		info, err := de.Info()
		if err != nil {
			scan.skip(path, err)
			return nil
		}

		size := c.agg.sizeOf(info)
		if size < c.opts.MinSize {
			return nil
		}
		entryCh <- model.NewEntry(path, false, size)
		return nil
	})

	close(entryCh)
	collectWg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if walkErr != nil {
		return nil, fmt.Errorf("walk %s: %w", scan.Root, walkErr)
	}
	return entries, nil
}

// estimateProgress maps an entry count onto [0, 99) when the total is
// unknown: fast at first, flattening out as the count grows.
func estimateProgress(n uint64) float32 {
	const halfway = 10000
	p := 100 * float64(n) / float64(n+halfway)
	if p > 99 {
		p = 99
	}
	return float32(p)
}
