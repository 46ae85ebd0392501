package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lumipallolabs/sizescope/internal/model"
)

const headerProgressBarWidth = 20 // Width of disk usage progress bar

// Header displays volume tabs, freed space and usage of the selected volume
type Header struct {
	volumes      []model.Volume
	selected     int
	width        int
	scanning     bool
	freedSession uint64
	freedTotal   uint64
}

// NewHeader creates a new header component
func NewHeader(volumes []model.Volume) Header {
	return Header{volumes: volumes, selected: -1}
}

// SetVolumes updates the available volumes
func (h *Header) SetVolumes(volumes []model.Volume) {
	h.volumes = volumes
	if h.selected >= len(volumes) {
		h.selected = -1
	}
}

// SetSelected sets the selected volume index (-1 for none)
func (h *Header) SetSelected(idx int) {
	if idx >= -1 && idx < len(h.volumes) {
		h.selected = idx
	}
}

// Selected returns the currently selected volume
func (h Header) Selected() *model.Volume {
	if h.selected < 0 || h.selected >= len(h.volumes) {
		return nil
	}
	return &h.volumes[h.selected]
}

// SetScanning hides the usage stats while a scan runs
func (h *Header) SetScanning(scanning bool) {
	h.scanning = scanning
}

// SetFreedStats sets the freed space statistics
func (h *Header) SetFreedStats(session, total uint64) {
	h.freedSession = session
	h.freedTotal = total
}

// SetWidth sets the header width
func (h *Header) SetWidth(w int) {
	h.width = w
}

// View renders the header
func (h Header) View() string {
	appName := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#C084FC")).
		Bold(true).
		Render("SIZESCOPE")

	var tabs []string
	for i, v := range h.volumes {
		label := tabLabel(v)
		if i == h.selected {
			tabs = append(tabs, VolumeTabActive.Render(label))
		} else {
			tabs = append(tabs, VolumeTabInactive.Render(label))
		}
	}
	volumeTabs := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	var freedStats string
	if h.freedSession > 0 || h.freedTotal > 0 {
		muted := lipgloss.NewStyle().Foreground(ColorMuted)
		freedStats = muted.Render("Freed: ") +
			lipgloss.NewStyle().Foreground(ColorSuccess).Render(model.FormatBytes(h.freedSession)+" session") +
			muted.Render(" | ") +
			muted.Render(model.FormatBytes(h.freedTotal)+" total")
	}

	// Scan status is shown in the center panel
	var stats, statsCompact string
	if !h.scanning {
		if v := h.Selected(); v != nil {
			pct := float64(v.UsagePercent)
			filled := int(pct / 100 * headerProgressBarWidth)
			filled = min(max(filled, 0), headerProgressBarWidth)
			bar := strings.Repeat("█", filled) + strings.Repeat("░", headerProgressBarWidth-filled)

			stats = StatsStyle.Render(fmt.Sprintf("Used: %s / %s  [%s] %.0f%%",
				v.UsedSpace, v.TotalSpace, bar, pct))
			statsCompact = StatsStyle.Render(fmt.Sprintf("Used: %s / %s", v.UsedSpace, v.TotalSpace))
		}
	}

	appNameWidth := lipgloss.Width(appName)
	tabsWidth := lipgloss.Width(volumeTabs)
	freedWidth := lipgloss.Width(freedStats)
	statsWidth := lipgloss.Width(stats)

	sep := lipgloss.NewStyle().Foreground(ColorBorder).Render(" │ ")
	sepWidth := lipgloss.Width(sep)

	totalContent := appNameWidth + sepWidth + tabsWidth + freedWidth + statsWidth + 4

	// Narrow terminals drop elements in order: usage bar, freed stats, usage
	if h.width < totalContent && statsCompact != "" {
		stats = statsCompact
		statsWidth = lipgloss.Width(stats)
		totalContent = appNameWidth + sepWidth + tabsWidth + freedWidth + statsWidth + 4
	}
	if h.width < totalContent && freedWidth > 0 {
		freedStats = ""
		freedWidth = 0
		totalContent = appNameWidth + sepWidth + tabsWidth + statsWidth + 2
	}
	if h.width < totalContent && statsWidth > 0 {
		stats = ""
		totalContent = appNameWidth + sepWidth + tabsWidth
	}

	remaining := max(h.width-totalContent, 2)
	leftGap := max(remaining/2, 1)
	rightGap := max(remaining-leftGap, 1)

	line := appName + sep + volumeTabs + strings.Repeat(" ", leftGap) + freedStats + strings.Repeat(" ", rightGap) + stats

	return HeaderStyle.MaxHeight(1).Render(line)
}

// tabLabel shortens a volume to its last path element, or the path itself
// for roots
func tabLabel(v model.Volume) string {
	p := strings.TrimRight(v.Path, `/\`)
	if i := strings.LastIndexAny(p, `/\`); i >= 0 && i < len(p)-1 {
		return p[i+1:]
	}
	if p == "" {
		return v.Path
	}
	return p
}
