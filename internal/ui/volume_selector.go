package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lumipallolabs/sizescope/internal/model"
)

// VolumeSelector displays the mounted volumes for selection
type VolumeSelector struct {
	volumes  []model.Volume
	selected int
	current  string // path of the default volume, marked in the list
	visible  bool
	width    int
	height   int
}

// NewVolumeSelector creates a new volume selector component
func NewVolumeSelector(volumes []model.Volume) VolumeSelector {
	return VolumeSelector{volumes: volumes}
}

// SetVolumes updates the available volumes
func (d *VolumeSelector) SetVolumes(volumes []model.Volume) {
	d.volumes = volumes
	if d.selected >= len(volumes) {
		d.selected = 0
	}
}

// SetCurrent marks the volume at path and moves the highlight to it
func (d *VolumeSelector) SetCurrent(path string) {
	d.current = path
	if i := d.indexOf(path); i >= 0 {
		d.selected = i
	}
}

func (d VolumeSelector) indexOf(path string) int {
	for i, v := range d.volumes {
		if v.Path == path {
			return i
		}
	}
	return -1
}

// Selected returns the index of the highlighted volume
func (d VolumeSelector) Selected() int {
	return d.selected
}

// SelectedVolume returns the highlighted volume
func (d VolumeSelector) SelectedVolume() *model.Volume {
	if d.selected >= 0 && d.selected < len(d.volumes) {
		return &d.volumes[d.selected]
	}
	return nil
}

// SetVisible sets visibility of the selector
func (d *VolumeSelector) SetVisible(visible bool) {
	d.visible = visible
}

// IsVisible returns whether the selector is visible
func (d VolumeSelector) IsVisible() bool {
	return d.visible
}

// SetSize sets the dimensions for centering
func (d *VolumeSelector) SetSize(w, h int) {
	d.width = w
	d.height = h
}

// MoveUp moves selection up
func (d *VolumeSelector) MoveUp() {
	if d.selected > 0 {
		d.selected--
	}
}

// MoveDown moves selection down
func (d *VolumeSelector) MoveDown() {
	if d.selected < len(d.volumes)-1 {
		d.selected++
	}
}

// View renders the volume selector overlay
func (d VolumeSelector) View() string {
	if !d.visible {
		return ""
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2).
		Background(ColorBackground)

	titleStyle := lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true).
		MarginBottom(1)

	normalStyle := lipgloss.NewStyle().
		Foreground(ColorText).
		PaddingLeft(1).
		PaddingRight(1)

	selectedStyle := normalStyle.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(ColorPrimary).
		Bold(true)

	hintStyle := lipgloss.NewStyle().
		Foreground(ColorMuted).
		MarginTop(1)

	var content strings.Builder

	content.WriteString(titleStyle.Render("Select Volume"))
	content.WriteString("\n")

	if len(d.volumes) == 0 {
		content.WriteString(normalStyle.Render("No volumes found"))
		content.WriteString("\n")
	}

	for i, v := range d.volumes {
		mark := " "
		if v.Path == d.current {
			mark = "*"
		}
		line := fmt.Sprintf("%s %s  %s free / %s (%.0f%% used)",
			mark, v.Name, v.FreeSpace, v.TotalSpace, v.UsagePercent)
		if v.Name != v.Path {
			line += "  " + v.Path
		}

		if i == d.selected {
			content.WriteString(selectedStyle.Render(line))
		} else {
			content.WriteString(normalStyle.Render(line))
		}
		content.WriteString("\n")
	}

	content.WriteString(hintStyle.Render("↑/↓ select  Enter confirm  Esc cancel"))

	box := boxStyle.Render(strings.TrimSuffix(content.String(), "\n"))

	return lipgloss.Place(d.width, d.height, lipgloss.Center, lipgloss.Center, box)
}
