package core

import (
	"sync"

	"github.com/lumipallolabs/sizescope/internal/model"
	"github.com/lumipallolabs/sizescope/internal/scanner"
)

// Event represents something that happened to a scan
type Event interface {
	isEvent()
}

// ScanProgressEvent is emitted during scanning
type ScanProgressEvent struct {
	scanner.ProgressEvent
}

func (ScanProgressEvent) isEvent() {}

// ScanCompletedEvent is emitted when a scan finishes. Err is set when
// the scan failed and Result is empty.
type ScanCompletedEvent struct {
	Result model.Result
	Err    error
}

func (ScanCompletedEvent) isEvent() {}

// EntryRemovedEvent is emitted after an entry was deleted or trashed
type EntryRemovedEvent struct {
	Removal
	SessionFreed uint64
	TotalFreed   uint64
}

func (EntryRemovedEvent) isEvent() {}

// ErrorEvent is emitted when an operation fails
type ErrorEvent struct {
	Err error
}

func (ErrorEvent) isEvent() {}

// EndNotifier is implemented by sinks that want to know when a scan has
// ended, after the last sink call. err is nil for a completed scan.
type EndNotifier interface {
	ScanEnded(err error)
}

// ChannelSink turns scan callbacks into events on a channel. Progress
// events are dropped when the reader falls behind; completion is always
// delivered. The channel is closed when the scan ends.
type ChannelSink struct {
	ch   chan Event
	once sync.Once
}

// NewChannelSink creates a sink with room for buffer pending events
func NewChannelSink(buffer int) *ChannelSink {
	return &ChannelSink{ch: make(chan Event, buffer)}
}

// Events returns the event channel
func (s *ChannelSink) Events() <-chan Event {
	return s.ch
}

func (s *ChannelSink) OnProgress(ev scanner.ProgressEvent) {
	select {
	case s.ch <- ScanProgressEvent{ProgressEvent: ev}:
	default:
		// Channel full, drop event
	}
}

func (s *ChannelSink) OnComplete(result model.Result) {
	s.ch <- ScanCompletedEvent{Result: result}
}

// ScanEnded reports a failure as a completion event and closes the channel
func (s *ChannelSink) ScanEnded(err error) {
	s.once.Do(func() {
		if err != nil {
			s.ch <- ScanCompletedEvent{Err: err}
		}
		close(s.ch)
	})
}
