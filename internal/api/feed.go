package api

import (
	"sync"
	"time"

	"github.com/lumipallolabs/sizescope/internal/model"
	"github.com/lumipallolabs/sizescope/internal/scanner"
)

// SSE event names
const (
	eventProgress = "progress"
	eventComplete = "complete"
	eventError    = "error"
)

type feedEvent struct {
	seq  uint64
	name string
	data any
}

type errorPayload struct {
	Message string `json:"message"`
}

// scanFeed buffers the events of one scan for any number of SSE readers.
// Consecutive progress events are coalesced, so a late reader sees the
// latest progress rather than the whole history.
type scanFeed struct {
	mu      sync.Mutex
	events  []feedEvent
	seq     uint64
	ended   time.Time
	changed chan struct{}
}

func newScanFeed() *scanFeed {
	return &scanFeed{changed: make(chan struct{})}
}

func (f *scanFeed) publishLocked(name string, data any) {
	f.seq++
	ev := feedEvent{seq: f.seq, name: name, data: data}
	if n := len(f.events); n > 0 && name == eventProgress && f.events[n-1].name == eventProgress {
		f.events[n-1] = ev
	} else {
		f.events = append(f.events, ev)
	}
	close(f.changed)
	f.changed = make(chan struct{})
}

func (f *scanFeed) OnProgress(ev scanner.ProgressEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.publishLocked(eventProgress, ev)
}

func (f *scanFeed) OnComplete(result model.Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if result == nil {
		result = model.Result{}
	}
	f.publishLocked(eventComplete, result)
}

// ScanEnded marks the feed finished; a failure becomes an error event
func (f *scanFeed) ScanEnded(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.publishLocked(eventError, errorPayload{Message: err.Error()})
	} else {
		close(f.changed)
		f.changed = make(chan struct{})
	}
	f.ended = time.Now()
}

// since returns the events newer than seq, whether the feed has ended, and
// a channel that is closed on the next change
func (f *scanFeed) since(seq uint64) ([]feedEvent, bool, <-chan struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []feedEvent
	for _, ev := range f.events {
		if ev.seq > seq {
			out = append(out, ev)
		}
	}
	return out, !f.ended.IsZero(), f.changed
}

func (f *scanFeed) endedAt() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ended
}
