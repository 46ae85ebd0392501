// Package stats persists freed-space totals and the preferred volume
// between runs. It never stores scan results.
package stats

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
)

const saveDelay = 2 * time.Second

// Stats holds persistent statistics
type Stats struct {
	FreedLifetime uint64 `json:"freed_lifetime"`
	Deletions     uint64 `json:"deletions"`
	DefaultVolume string `json:"default_volume,omitempty"` // Path of the volume offered first
}

// Manager loads stats and saves changes with a debounce
type Manager struct {
	path         string
	stats        Stats
	mu           sync.RWMutex
	dirty        bool
	saveTimer    *time.Timer
	saveDuration time.Duration
}

// NewManager creates a manager for the default stats file
func NewManager() *Manager {
	return NewManagerAt(DefaultPath())
}

// NewManagerAt creates a manager for the stats file at path
func NewManagerAt(path string) *Manager {
	return &Manager{
		path:         path,
		saveDuration: saveDelay,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/sizescope/stats.json
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "sizescope", "stats.json")
}

// Path returns the file the manager reads and writes
func (m *Manager) Path() string {
	return m.path
}

// Load reads stats from disk. A missing file is a fresh start.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			m.stats = Stats{}
			return nil
		}
		return err
	}

	return json.Unmarshal(data, &m.stats)
}

// Save writes stats to disk immediately
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.saveLocked()
}

// saveLocked writes stats; the caller holds the lock
func (m *Manager) saveLocked() error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(m.stats, "", "  ")
	if err != nil {
		return err
	}

	m.dirty = false
	return os.WriteFile(m.path, data, 0644)
}

// Snapshot returns a copy of the current stats
func (m *Manager) Snapshot() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats
}

// FreedLifetime returns the bytes freed over all runs
func (m *Manager) FreedLifetime() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats.FreedLifetime
}

// DefaultVolume returns the path of the preferred volume
func (m *Manager) DefaultVolume() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats.DefaultVolume
}

// SetDefaultVolume records the preferred volume
func (m *Manager) SetDefaultVolume(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stats.DefaultVolume == path {
		return
	}
	m.stats.DefaultVolume = path
	m.scheduleSaveLocked()
}

// AddFreed records one deletion of bytes
func (m *Manager) AddFreed(bytes uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.FreedLifetime += bytes
	m.stats.Deletions++
	m.scheduleSaveLocked()
}

// scheduleSaveLocked marks stats dirty and restarts the debounce timer
func (m *Manager) scheduleSaveLocked() {
	m.dirty = true

	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	m.saveTimer = time.AfterFunc(m.saveDuration, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.dirty {
			_ = m.saveLocked() // Ignore errors for background save
		}
	})
}

// Close writes any pending changes
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveTimer != nil {
		m.saveTimer.Stop()
		m.saveTimer = nil
	}

	if m.dirty {
		return m.saveLocked()
	}
	return nil
}
