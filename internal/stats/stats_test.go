package stats

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	m := NewManagerAt(filepath.Join(t.TempDir(), "none", "stats.json"))

	require.NoError(t, m.Load())
	assert.Equal(t, Stats{}, m.Snapshot())
}

func TestAddFreedPersistsOnClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sizescope", "stats.json")
	m := NewManagerAt(path)
	require.NoError(t, m.Load())

	m.AddFreed(1000)
	m.AddFreed(24)
	m.SetDefaultVolume("/data")
	require.NoError(t, m.Close())

	reloaded := NewManagerAt(path)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, Stats{FreedLifetime: 1024, Deletions: 2, DefaultVolume: "/data"}, reloaded.Snapshot())
}

func TestCloseWithoutChangesWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")
	m := NewManagerAt(path)
	require.NoError(t, m.Load())

	require.NoError(t, m.Close())
	assert.NoFileExists(t, path)
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	assert.Error(t, NewManagerAt(path).Load())
}

func TestDefaultPathUsesConfigHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	assert.Equal(t, filepath.Join(home, "sizescope", "stats.json"), DefaultPath())
}
