package core

import (
	"time"

	"github.com/lumipallolabs/sizescope/internal/scanner"
)

// ScanPhase represents the lifecycle phase of a scan
type ScanPhase int

const (
	PhaseIdle ScanPhase = iota
	PhaseScanning
	PhaseComplete
	PhaseFailed
)

// String returns a human-readable phase name
func (p ScanPhase) String() string {
	switch p {
	case PhaseScanning:
		return "Scanning files"
	case PhaseComplete:
		return "Complete"
	case PhaseFailed:
		return "Failed"
	default:
		return ""
	}
}

func phaseOf(s scanner.State) ScanPhase {
	switch s {
	case scanner.StateRunning:
		return PhaseScanning
	case scanner.StateCompleted:
		return PhaseComplete
	case scanner.StateFailed:
		return PhaseFailed
	default:
		return PhaseIdle
	}
}

// ScanState is a read-only snapshot of one scan
type ScanState struct {
	ID           string
	Root         string
	Mode         scanner.Mode
	Phase        ScanPhase
	StartTime    time.Time
	EndTime      time.Time
	FilesScanned uint64
	Results      int
	Skipped      int
	Err          error
}

// IsScanning returns true while the scan is running
func (s ScanState) IsScanning() bool {
	return s.Phase == PhaseScanning
}

// Elapsed returns time since the scan started, or its duration once ended
func (s ScanState) Elapsed() time.Duration {
	if s.StartTime.IsZero() {
		return 0
	}
	end := s.EndTime
	if end.IsZero() {
		end = time.Now()
	}
	return end.Sub(s.StartTime).Truncate(time.Second)
}

// FreedState tracks space recovered from deletions
type FreedState struct {
	Session  uint64 // Bytes freed this session
	Lifetime uint64 // Bytes freed all time
}
