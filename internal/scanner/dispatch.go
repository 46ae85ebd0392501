package scanner

import "github.com/lumipallolabs/sizescope/internal/model"

// dispatchBuffer is how many progress events may queue up before new
// ones are dropped
const dispatchBuffer = 64

type dispatchMsg struct {
	progress ProgressEvent
	result   model.Result
	complete bool
}

// dispatcher delivers one scan's events to its sink from a single
// goroutine, so a slow sink never blocks the workers
type dispatcher struct {
	sink Sink
	ch   chan dispatchMsg
	done chan struct{}
}

func newDispatcher(sink Sink) *dispatcher {
	if sink == nil {
		sink = SinkFuncs{}
	}
	d := &dispatcher{
		sink: sink,
		ch:   make(chan dispatchMsg, dispatchBuffer),
		done: make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *dispatcher) run() {
	defer close(d.done)

	var last uint64
	for msg := range d.ch {
		if msg.complete {
			d.sink.OnComplete(msg.result)
			continue
		}
		// Workers race on the counter; never let a lower count follow a higher one
		if msg.progress.FilesScanned < last {
			continue
		}
		last = msg.progress.FilesScanned
		d.sink.OnProgress(msg.progress)
	}
}

// progress queues a progress event, dropping it when the queue is full
func (d *dispatcher) progress(ev ProgressEvent) {
	select {
	case d.ch <- dispatchMsg{progress: ev}:
	default:
	}
}

// finish delivers the sorted result and the final progress event
func (d *dispatcher) finish(result model.Result, final ProgressEvent) {
	d.ch <- dispatchMsg{complete: true, result: result}
	d.ch <- dispatchMsg{progress: final}
}

// close waits until every queued event has reached the sink
func (d *dispatcher) close() {
	close(d.ch)
	<-d.done
}
