package api

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumipallolabs/sizescope/internal/model"
	"github.com/lumipallolabs/sizescope/internal/scanner"
)

func TestScanFeedCoalescesProgress(t *testing.T) {
	f := newScanFeed()
	f.OnProgress(scanner.ProgressEvent{FilesScanned: 5})
	f.OnProgress(scanner.ProgressEvent{FilesScanned: 10})
	f.OnComplete(nil)
	f.OnProgress(scanner.ProgressEvent{CurrentPath: "Complete", FilesScanned: 12, Progress: 100})
	f.ScanEnded(nil)

	events, ended, _ := f.since(0)
	assert.True(t, ended)
	require.Len(t, events, 3)
	assert.Equal(t, eventProgress, events[0].name)
	assert.Equal(t, uint64(10), events[0].data.(scanner.ProgressEvent).FilesScanned)
	assert.Equal(t, eventComplete, events[1].name)
	assert.Equal(t, model.Result{}, events[1].data)
	assert.Equal(t, eventProgress, events[2].name)

	later, _, _ := f.since(events[1].seq)
	assert.Len(t, later, 1)
}

func TestScanFeedWakesReaders(t *testing.T) {
	f := newScanFeed()
	_, ended, changed := f.since(0)
	assert.False(t, ended)

	f.ScanEnded(errors.New("walk failed"))

	select {
	case <-changed:
	default:
		t.Fatal("reader was not woken")
	}
	events, ended, _ := f.since(0)
	assert.True(t, ended)
	require.Len(t, events, 1)
	assert.Equal(t, eventError, events[0].name)
	assert.Equal(t, errorPayload{Message: "walk failed"}, events[0].data)
}
