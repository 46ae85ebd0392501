package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumipallolabs/sizescope/internal/model"
	"github.com/lumipallolabs/sizescope/internal/scanner"
)

func TestChannelSinkDropsProgressWhenFull(t *testing.T) {
	sink := NewChannelSink(2)

	for i := range 5 {
		sink.OnProgress(scanner.ProgressEvent{FilesScanned: uint64(i)})
	}
	assert.Len(t, sink.Events(), 2)
}

func TestChannelSinkCompletionAndClose(t *testing.T) {
	sink := NewChannelSink(4)
	result := model.Result{model.NewEntry("/x/a", false, 1)}

	sink.OnComplete(result)
	sink.ScanEnded(nil)
	sink.ScanEnded(nil)

	var events []Event
	for ev := range sink.Events() {
		events = append(events, ev)
	}
	require.Len(t, events, 1)
	assert.Equal(t, ScanCompletedEvent{Result: result}, events[0])
}

func TestChannelSinkFailure(t *testing.T) {
	sink := NewChannelSink(4)
	boom := errors.New("boom")

	sink.ScanEnded(boom)

	ev := <-sink.Events()
	assert.Equal(t, ScanCompletedEvent{Err: boom}, ev)
	_, open := <-sink.Events()
	assert.False(t, open)
}

func TestPhaseStrings(t *testing.T) {
	assert.Equal(t, "Scanning files", PhaseScanning.String())
	assert.Equal(t, "Complete", PhaseComplete.String())
	assert.Equal(t, "Failed", PhaseFailed.String())
	assert.Equal(t, "", PhaseIdle.String())
}
