package scanner

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/lumipallolabs/sizescope/internal/model"
)

// ProgressEvent reports scanning progress. Events are transient.
type ProgressEvent struct {
	CurrentPath  string  `json:"current_path"`
	FilesScanned uint64  `json:"files_scanned"`
	Progress     float32 `json:"progress"`
}

// Sink observes a running scan. Calls arrive from a single goroutine per
// scan, in order; OnComplete is called at most once, after every result
// has been collected and sorted.
type Sink interface {
	OnProgress(ev ProgressEvent)
	OnComplete(result model.Result)
}

// SinkFuncs adapts plain functions to a Sink. Nil fields are ignored.
type SinkFuncs struct {
	Progress func(ProgressEvent)
	Complete func(model.Result)
}

func (s SinkFuncs) OnProgress(ev ProgressEvent) {
	if s.Progress != nil {
		s.Progress(ev)
	}
}

func (s SinkFuncs) OnComplete(result model.Result) {
	if s.Complete != nil {
		s.Complete(result)
	}
}

// Mode selects what a scan measures
type Mode int

const (
	// ModeTopLevel measures the immediate children of the root, each
	// directory aggregated down to Options.ScanDepth levels.
	ModeTopLevel Mode = iota
	// ModeDeep walks the whole subtree and reports individual files.
	ModeDeep
)

// String returns the wire name of the mode
func (m Mode) String() string {
	if m == ModeDeep {
		return "deep"
	}
	return "top"
}

// ParseMode parses the wire name of a mode. Empty means ModeTopLevel.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", "top", "toplevel", "top-level":
		return ModeTopLevel, nil
	case "deep", "full":
		return ModeDeep, nil
	default:
		return ModeTopLevel, fmt.Errorf("unknown scan mode %q: must be top or deep", s)
	}
}

// SizeMode selects how file sizes are measured
type SizeMode int

const (
	// SizeApparent uses the logical file length
	SizeApparent SizeMode = iota
	// SizeAllocated uses the blocks allocated on disk where the platform reports them
	SizeAllocated
)

const (
	// DefaultScanDepth bounds directory aggregation in top-level scans
	DefaultScanDepth = 5
	// DefaultListDepth bounds directory aggregation in listings
	DefaultListDepth = 3
	// LargeItemThreshold is the min-size preset of the "largest items" view
	LargeItemThreshold = 500 * model.MB

	topLevelInterval = 5
	deepInterval     = 100
)

// Options configures a scan
type Options struct {
	Mode Mode
	// Workers bounds the worker pool (0 = number of CPUs)
	Workers int
	// ScanDepth bounds aggregation of top-level directories. 0 counts only
	// their direct children (negative = default).
	ScanDepth int
	// ProgressInterval is the number of processed entries between
	// progress events (0 = mode default)
	ProgressInterval uint64
	// MinSize drops entries smaller than this many bytes (0 = keep all)
	MinSize uint64
	// ShowHidden includes entries whose name starts with a dot
	ShowHidden bool
	SizeMode   SizeMode
	// OneFileSystem keeps deep scans from crossing into other mounts
	OneFileSystem bool
	// Protected adds names or absolute paths that are never descended into
	Protected []string
}

// DefaultOptions returns the options of a top-level scan
func DefaultOptions() Options {
	return Options{
		Mode:      ModeTopLevel,
		Workers:   runtime.NumCPU(),
		ScanDepth: DefaultScanDepth,
	}
}

func (o Options) workers() int {
	if o.Workers < 1 {
		return runtime.NumCPU()
	}
	return o.Workers
}

func (o Options) interval() uint64 {
	if o.ProgressInterval > 0 {
		return o.ProgressInterval
	}
	if o.Mode == ModeDeep {
		return deepInterval
	}
	return topLevelInterval
}

func (o Options) filter() Filter {
	return NewFilter(o.ShowHidden, o.Protected...)
}
