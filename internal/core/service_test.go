package core

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumipallolabs/sizescope/internal/model"
	"github.com/lumipallolabs/sizescope/internal/scanner"
	"github.com/lumipallolabs/sizescope/internal/stats"
)

func writeFile(t *testing.T, root, rel string, size int) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0644))
	return path
}

func dataTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "a", 100)
	writeFile(t, root, "b", 2048)
	writeFile(t, root, filepath.Join("c", "d"), 1048576)
	return root
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Stats = stats.NewManagerAt(filepath.Join(t.TempDir(), "stats.json"))
	svc := NewService(cfg)
	t.Cleanup(func() { svc.Close() })
	return svc
}

// drain collects events until the sink's channel is closed
func drain(t *testing.T, sink *ChannelSink) []Event {
	t.Helper()
	var events []Event
	timeout := time.After(10 * time.Second)
	for {
		select {
		case ev, ok := <-sink.Events():
			if !ok {
				return events
			}
			events = append(events, ev)
		case <-timeout:
			t.Fatal("scan did not end")
		}
	}
}

func completion(t *testing.T, events []Event) ScanCompletedEvent {
	t.Helper()
	for _, ev := range events {
		if done, ok := ev.(ScanCompletedEvent); ok {
			return done
		}
	}
	t.Fatal("no completion event")
	return ScanCompletedEvent{}
}

func entryNames(result model.Result) []string {
	names := make([]string, len(result))
	for i, e := range result {
		names[i] = e.Name
	}
	return names
}

func TestStartScan(t *testing.T) {
	svc := newTestService(t)
	root := dataTree(t)
	sink := NewChannelSink(64)

	ack, err := svc.StartScan(context.Background(), root, scanner.ModeTopLevel, sink)
	require.NoError(t, err)
	assert.Equal(t, "Scan started", ack.Message)
	assert.NotEmpty(t, ack.ID)

	events := drain(t, sink)
	done := completion(t, events)
	require.NoError(t, done.Err)
	assert.Equal(t, []string{"c", "b", "a"}, entryNames(done.Result))

	last, ok := events[len(events)-1].(ScanProgressEvent)
	require.True(t, ok, "final event should be progress")
	assert.Equal(t, "Complete", last.CurrentPath)
	assert.Equal(t, float32(100), last.Progress)

	state, ok := svc.Scan(ack.ID)
	require.True(t, ok)
	assert.Equal(t, PhaseComplete, state.Phase)
	assert.Equal(t, 3, state.Results)
	assert.Equal(t, uint64(3), state.FilesScanned)
	assert.False(t, state.IsScanning())
	assert.NoError(t, state.Err)
}

func TestStartScanWithMinSize(t *testing.T) {
	svc := newTestService(t)
	sink := NewChannelSink(64)

	_, err := svc.StartScan(context.Background(), dataTree(t), scanner.ModeDeep, sink, WithMinSize(scanner.LargeItemThreshold))
	require.NoError(t, err)

	done := completion(t, drain(t, sink))
	assert.Empty(t, done.Result)
}

func TestStartScanMissingRoot(t *testing.T) {
	svc := newTestService(t)
	sink := NewChannelSink(64)

	ack, err := svc.StartScan(context.Background(), filepath.Join(t.TempDir(), "nope"), scanner.ModeTopLevel, sink)

	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	var pe *scanner.PreconditionError
	assert.ErrorAs(t, err, &pe)
	assert.Empty(t, ack.ID)
	assert.Len(t, sink.Events(), 0)
}

func TestStartScanCancelled(t *testing.T) {
	svc := newTestService(t)
	sink := NewChannelSink(64)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ack, err := svc.StartScan(ctx, dataTree(t), scanner.ModeTopLevel, sink)
	require.NoError(t, err)

	done := completion(t, drain(t, sink))
	assert.ErrorIs(t, done.Err, context.Canceled)
	assert.Empty(t, done.Result)

	state, ok := svc.Scan(ack.ID)
	require.True(t, ok)
	assert.Equal(t, PhaseFailed, state.Phase)
	assert.ErrorIs(t, state.Err, context.Canceled)
}

func TestScanUnknownID(t *testing.T) {
	svc := newTestService(t)

	_, ok := svc.Scan("missing")
	assert.False(t, ok)
	assert.False(t, svc.CancelScan("missing"))
}

func TestListDirectory(t *testing.T) {
	svc := newTestService(t)
	root := dataTree(t)

	result, err := svc.ListDirectory(context.Background(), root, model.OrderDirsFirst)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, entryNames(result))
	assert.Equal(t, "1.00 MB", result[0].Size)
	assert.Equal(t, "100 bytes", result[1].Size)
	assert.Equal(t, "2.00 KB", result[2].Size)
	for _, e := range result {
		assert.NotNil(t, e.LastModified)
	}

	_, err = svc.ListDirectory(context.Background(), filepath.Join(root, "a"), model.OrderSize)
	assert.ErrorIs(t, err, scanner.ErrNotDir)
}

func TestTree(t *testing.T) {
	svc := newTestService(t)

	tree, err := svc.Tree(context.Background(), dataTree(t), 2)
	require.NoError(t, err)
	require.Len(t, tree.Children, 3)
	assert.Equal(t, "c", tree.Children[0].Name)
	assert.Len(t, tree.Children[0].Children, 1)
}

func TestDeleteCountsSignificantRemovals(t *testing.T) {
	svc := newTestService(t)
	root := t.TempDir()
	big := writeFile(t, root, filepath.Join("cache", "blob"), 300*1024)
	small := writeFile(t, root, "tiny", 10)

	r, err := svc.Delete(context.Background(), filepath.Dir(big))
	require.NoError(t, err)
	assert.Equal(t, uint64(300*1024), r.Bytes)
	assert.False(t, r.Trashed)
	assert.NoDirExists(t, filepath.Dir(big))

	r, err = svc.Delete(context.Background(), small)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), r.Bytes)

	freed := svc.Freed()
	assert.Equal(t, uint64(300*1024), freed.Session)
	assert.Equal(t, uint64(300*1024), freed.Lifetime)
}

func TestDeletePersistsFreedStats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")
	cfg := DefaultConfig()
	cfg.Stats = stats.NewManagerAt(path)
	svc := NewService(cfg)

	victim := writeFile(t, t.TempDir(), "big", 250*1024)
	_, err := svc.Delete(context.Background(), victim)
	require.NoError(t, err)
	require.NoError(t, svc.Close())

	reloaded := stats.NewManagerAt(path)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, uint64(250*1024), reloaded.FreedLifetime())

	again := NewService(Config{Stats: stats.NewManagerAt(path)})
	assert.Equal(t, uint64(250*1024), again.Freed().Lifetime)
	assert.Zero(t, again.Freed().Session)
}

func TestDeleteMissing(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Delete(context.Background(), filepath.Join(t.TempDir(), "gone"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Zero(t, svc.Freed().Session)
}

func TestTrash(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("the home trash is redirected through HOME and XDG_DATA_HOME on linux only")
	}
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, ".local", "share"))

	svc := newTestService(t)
	victim := writeFile(t, t.TempDir(), "old.iso", 400*1024)

	r, err := svc.Trash(context.Background(), victim)
	require.NoError(t, err)
	assert.True(t, r.Trashed)
	assert.NoFileExists(t, victim)
	assert.Equal(t, uint64(400*1024), svc.Freed().Session)
}

func TestDefaultVolume(t *testing.T) {
	svc := newTestService(t)
	assert.Empty(t, svc.DefaultVolume())

	svc.SetDefaultVolume("/mnt/data")
	assert.Equal(t, "/mnt/data", svc.DefaultVolume())

	memOnly := NewService(DefaultConfig())
	memOnly.SetDefaultVolume("/x")
	assert.Empty(t, memOnly.DefaultVolume())
}
