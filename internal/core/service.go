// Package core is the request surface shared by the CLI, the HTTP API and
// the terminal UI. It owns the registry of running scans and the
// freed-space accounting; everything else is delegated to the scanner and
// trash packages.
package core

import (
	"context"
	"os"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/lumipallolabs/sizescope/internal/logging"
	"github.com/lumipallolabs/sizescope/internal/model"
	"github.com/lumipallolabs/sizescope/internal/scanner"
	"github.com/lumipallolabs/sizescope/internal/stats"
	"github.com/lumipallolabs/sizescope/internal/trash"
)

// MinSignificantSize is the minimum size for a removal to count in freed stats
const MinSignificantSize = 200 * 1024 // 200 KB

// ScanStartedMessage acknowledges an accepted scan request
const ScanStartedMessage = "Scan started"

const (
	// maxFinishedScans bounds how many ended scans stay queryable
	maxFinishedScans = 32
	// measureDepth bounds the size measurement taken before a removal
	measureDepth = 64
)

// Config configures a Service
type Config struct {
	Scan scanner.Options
	List scanner.ListOptions
	// Stats persists freed space and the default volume (nil = in memory only)
	Stats *stats.Manager
}

// DefaultConfig returns the configuration used by the shells
func DefaultConfig() Config {
	return Config{
		Scan: scanner.DefaultOptions(),
		List: scanner.DefaultListOptions(),
	}
}

// Ack is the synchronous answer to a scan request
type Ack struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Removal describes a deleted or trashed entry
type Removal struct {
	Path    string `json:"path"`
	Bytes   uint64 `json:"bytes"`
	Trashed bool   `json:"trashed"`
}

// ScanOption adjusts the options of a single scan
type ScanOption func(*scanner.Options)

// WithMinSize drops result entries smaller than n bytes
func WithMinSize(n uint64) ScanOption {
	return func(o *scanner.Options) { o.MinSize = n }
}

// WithShowHidden includes dot entries
func WithShowHidden(show bool) ScanOption {
	return func(o *scanner.Options) { o.ShowHidden = show }
}

// WithWorkers bounds the scan's worker pool
func WithWorkers(n int) ScanOption {
	return func(o *scanner.Options) { o.Workers = n }
}

type scanRecord struct {
	scan    *scanner.Scan
	cancel  context.CancelFunc
	results int
	ended   time.Time
}

// Service manages scans and removals without UI dependencies
type Service struct {
	mu     sync.RWMutex
	cfg    Config
	scans  map[string]*scanRecord
	freed  FreedState
	tracer trace.Tracer
}

// NewService creates a service. Stats, when configured, are loaded here.
func NewService(cfg Config) *Service {
	s := &Service{
		cfg:    cfg,
		scans:  make(map[string]*scanRecord),
		tracer: otel.Tracer("sizescope/core"),
	}
	if cfg.Stats != nil {
		if err := cfg.Stats.Load(); err != nil {
			logging.Debug.Printf("Failed to load stats: %v", err)
		}
		s.freed.Lifetime = cfg.Stats.FreedLifetime()
	}
	return s
}

// Volumes returns the mounted volumes with their capacity
func (s *Service) Volumes() ([]model.Volume, error) {
	return model.GetVolumes()
}

// DefaultVolume returns the saved default volume path, if any
func (s *Service) DefaultVolume() string {
	if s.cfg.Stats == nil {
		return ""
	}
	return s.cfg.Stats.DefaultVolume()
}

// SetDefaultVolume saves the volume to offer first next time
func (s *Service) SetDefaultVolume(path string) {
	if s.cfg.Stats != nil {
		s.cfg.Stats.SetDefaultVolume(path)
	}
}

// Freed returns the freed space counters
func (s *Service) Freed() FreedState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.freed
}

// StartScan validates root and starts scanning it in the background.
// Invalid roots fail here and sink receives nothing. The scan is bound to
// ctx: cancelling it, or calling CancelScan, stops the scan. Sinks that
// implement EndNotifier are told when the scan has ended.
func (s *Service) StartScan(ctx context.Context, root string, mode scanner.Mode, sink scanner.Sink, opts ...ScanOption) (Ack, error) {
	ctx, span := s.tracer.Start(ctx, "StartScan", trace.WithAttributes(
		attribute.String("root", root),
		attribute.String("mode", mode.String()),
	))
	defer span.End()

	scanOpts := s.cfg.Scan
	scanOpts.Mode = mode
	for _, opt := range opts {
		opt(&scanOpts)
	}
	span.SetAttributes(attribute.Int64("min_size", int64(scanOpts.MinSize)))

	rec := &scanRecord{}
	var results int
	counting := scanner.SinkFuncs{
		Progress: func(ev scanner.ProgressEvent) {
			if sink != nil {
				sink.OnProgress(ev)
			}
		},
		Complete: func(result model.Result) {
			results = len(result)
			if sink != nil {
				sink.OnComplete(result)
			}
		},
	}

	scanCtx, cancel := context.WithCancel(ctx)
	_, scanSpan := s.tracer.Start(scanCtx, "scan")
	scan, err := scanner.NewCoordinator(scanOpts).Start(scanCtx, root, counting)
	if err != nil {
		cancel()
		scanSpan.End()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Ack{}, err
	}
	rec.scan = scan
	rec.cancel = cancel
	span.SetAttributes(attribute.String("scan_id", scan.ID))

	s.mu.Lock()
	s.scans[scan.ID] = rec
	s.mu.Unlock()

	go func() {
		err := scan.Wait()
		cancel()

		skipped, dropped := scan.Skipped()
		scanSpan.SetAttributes(
			attribute.String("scan_id", scan.ID),
			attribute.Int64("files_scanned", int64(scan.FilesScanned())),
			attribute.Int("results", results),
			attribute.Int("skipped", len(skipped)+dropped),
		)
		if err != nil {
			scanSpan.RecordError(err)
			scanSpan.SetStatus(codes.Error, err.Error())
		}
		scanSpan.End()

		s.mu.Lock()
		rec.results = results
		rec.ended = time.Now()
		s.pruneLocked()
		s.mu.Unlock()

		if n, ok := sink.(EndNotifier); ok {
			n.ScanEnded(err)
		}
	}()

	return Ack{ID: scan.ID, Message: ScanStartedMessage}, nil
}

// pruneLocked forgets the oldest ended scans beyond maxFinishedScans
func (s *Service) pruneLocked() {
	var ended []*scanRecord
	for _, rec := range s.scans {
		if !rec.ended.IsZero() {
			ended = append(ended, rec)
		}
	}
	if len(ended) <= maxFinishedScans {
		return
	}
	sort.Slice(ended, func(i, j int) bool { return ended[i].ended.Before(ended[j].ended) })
	for _, rec := range ended[:len(ended)-maxFinishedScans] {
		delete(s.scans, rec.scan.ID)
	}
}

// Scan returns a snapshot of the scan with the given ID
func (s *Service) Scan(id string) (ScanState, bool) {
	s.mu.RLock()
	rec, ok := s.scans[id]
	var results int
	var ended time.Time
	if ok {
		results, ended = rec.results, rec.ended
	}
	s.mu.RUnlock()
	if !ok {
		return ScanState{}, false
	}

	scan := rec.scan
	skipped, dropped := scan.Skipped()
	state := ScanState{
		ID:           scan.ID,
		Root:         scan.Root,
		Mode:         scan.Mode,
		Phase:        phaseOf(scan.State()),
		StartTime:    scan.StartedAt,
		FilesScanned: scan.FilesScanned(),
		Results:      results,
		Skipped:      len(skipped) + dropped,
	}
	if !ended.IsZero() {
		state.EndTime = ended
		state.Err = scan.Wait()
	}
	return state, true
}

// Skipped returns the bounded skip log of a scan
func (s *Service) Skipped(id string) ([]scanner.Skip, int, bool) {
	s.mu.RLock()
	rec, ok := s.scans[id]
	s.mu.RUnlock()
	if !ok {
		return nil, 0, false
	}
	skipped, dropped := rec.scan.Skipped()
	return skipped, dropped, true
}

// CancelScan stops a running scan. It reports whether the scan was known.
func (s *Service) CancelScan(id string) bool {
	s.mu.RLock()
	rec, ok := s.scans[id]
	s.mu.RUnlock()
	if ok {
		rec.cancel()
	}
	return ok
}

// ListDirectory lists the immediate children of path
func (s *Service) ListDirectory(ctx context.Context, path string, order model.Order) (model.Result, error) {
	ctx, span := s.tracer.Start(ctx, "ListDirectory", trace.WithAttributes(
		attribute.String("path", path),
		attribute.String("order", order.String()),
	))
	defer span.End()

	opts := s.cfg.List
	opts.Order = order
	result, err := scanner.List(ctx, path, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("entries", len(result)))
	return result, nil
}

// Tree lists path with children attached down to depth levels
func (s *Service) Tree(ctx context.Context, path string, depth int) (model.Entry, error) {
	ctx, span := s.tracer.Start(ctx, "Tree", trace.WithAttributes(
		attribute.String("path", path),
		attribute.Int("depth", depth),
	))
	defer span.End()

	tree, err := scanner.Tree(ctx, path, depth, s.cfg.List)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return model.Entry{}, err
	}
	return tree, nil
}

// Delete permanently removes path
func (s *Service) Delete(ctx context.Context, path string) (Removal, error) {
	return s.remove(ctx, "Delete", path, false)
}

// Trash moves path to the user's trash
func (s *Service) Trash(ctx context.Context, path string) (Removal, error) {
	return s.remove(ctx, "Trash", path, true)
}

func (s *Service) remove(ctx context.Context, op, path string, toTrash bool) (Removal, error) {
	_, span := s.tracer.Start(ctx, op, trace.WithAttributes(attribute.String("path", path)))
	defer span.End()

	size := s.measure(path)

	var err error
	if toTrash {
		err = trash.Trash(path)
	} else {
		err = trash.Delete(path)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Removal{}, err
	}

	r := Removal{Path: path, Bytes: size, Trashed: toTrash}
	span.SetAttributes(attribute.Int64("bytes", int64(size)))

	if size >= MinSignificantSize {
		s.mu.Lock()
		s.freed.Session += size
		s.freed.Lifetime += size
		freed := s.freed
		s.mu.Unlock()

		if s.cfg.Stats != nil {
			s.cfg.Stats.AddFreed(size)
		}
		logging.Debug.Printf("%s %s: freed %d bytes (session: %d, lifetime: %d)",
			op, path, size, freed.Session, freed.Lifetime)
	}
	return r, nil
}

// measure returns the bytes a removal of path is expected to free
func (s *Service) measure(path string) uint64 {
	info, err := os.Lstat(path)
	if err != nil {
		return 0
	}
	if !info.IsDir() {
		return uint64(max(info.Size(), 0))
	}
	agg := scanner.NewAggregator(scanner.NewFilter(true), s.cfg.Scan.SizeMode)
	return agg.Aggregate(path, measureDepth)
}

// Close cancels running scans and writes pending stats
func (s *Service) Close() error {
	s.mu.Lock()
	for _, rec := range s.scans {
		rec.cancel()
	}
	s.mu.Unlock()

	if s.cfg.Stats != nil {
		return s.cfg.Stats.Close()
	}
	return nil
}
