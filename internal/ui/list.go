package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lumipallolabs/sizescope/internal/model"
)

const listSizeBarWidth = 4 // Width of size proportion bar [████]

// ListPanel displays the entries of the directory being browsed
type ListPanel struct {
	base     string // directory the entries belong to
	relative bool   // label entries by path relative to base
	entries  model.Result
	total    uint64
	cursor   int
	offset   int // scroll offset
	width    int
	height   int
	focused  bool
}

// NewListPanel creates a new list panel
func NewListPanel() ListPanel {
	return ListPanel{}
}

// SetEntries replaces the listed entries. relative labels entries by their
// path below base, for results that span several directories.
func (l *ListPanel) SetEntries(base string, entries model.Result, relative bool) {
	l.base = base
	l.relative = relative
	l.entries = entries
	l.total = entries.TotalBytes()
	l.cursor = 0
	l.offset = 0
}

// Entries returns the listed entries in display order
func (l ListPanel) Entries() model.Result {
	return l.entries
}

// Total returns the summed size of the listed entries
func (l ListPanel) Total() uint64 {
	return l.total
}

// SetSize sets the panel dimensions
func (l *ListPanel) SetSize(w, h int) {
	l.width = w
	l.height = h
	l.ensureVisible()
}

// SetFocused sets focus state
func (l *ListPanel) SetFocused(focused bool) {
	l.focused = focused
}

// Cursor returns the index of the selected entry
func (l ListPanel) Cursor() int {
	return l.cursor
}

// SetCursor moves the selection to index i
func (l *ListPanel) SetCursor(i int) {
	if i < 0 || i >= len(l.entries) {
		return
	}
	l.cursor = i
	l.ensureVisible()
}

// Selected returns the currently selected entry
func (l ListPanel) Selected() *model.Entry {
	if l.cursor >= 0 && l.cursor < len(l.entries) {
		return &l.entries[l.cursor]
	}
	return nil
}

// SelectPath moves the selection to the entry at path, if listed
func (l *ListPanel) SelectPath(path string) bool {
	for i := range l.entries {
		if l.entries[i].Path == path {
			l.SetCursor(i)
			return true
		}
	}
	return false
}

// Remove drops the entry at path and keeps the cursor on a neighbour
func (l *ListPanel) Remove(path string) bool {
	for i := range l.entries {
		if l.entries[i].Path != path {
			continue
		}
		l.total -= min(l.total, l.entries[i].SizeBytes)
		l.entries = append(l.entries[:i:i], l.entries[i+1:]...)
		if l.cursor >= len(l.entries) {
			l.cursor = max(len(l.entries)-1, 0)
		}
		l.ensureVisible()
		return true
	}
	return false
}

// Sort reorders the entries and keeps the selected entry selected
func (l *ListPanel) Sort(order model.Order) {
	var path string
	if sel := l.Selected(); sel != nil {
		path = sel.Path
	}
	order.Sort(l.entries)
	if path != "" {
		l.SelectPath(path)
	}
}

// MoveUp moves cursor up
func (l *ListPanel) MoveUp() {
	if l.cursor > 0 {
		l.cursor--
		l.ensureVisible()
	}
}

// MoveDown moves cursor down
func (l *ListPanel) MoveDown() {
	if l.cursor < len(l.entries)-1 {
		l.cursor++
		l.ensureVisible()
	}
}

func (l ListPanel) pageSize() int {
	return max((l.height-4)/2, 1)
}

// PageUp moves cursor up by half a page
func (l *ListPanel) PageUp() {
	l.cursor = max(l.cursor-l.pageSize(), 0)
	l.ensureVisible()
}

// PageDown moves cursor down by half a page
func (l *ListPanel) PageDown() {
	l.cursor = max(min(l.cursor+l.pageSize(), len(l.entries)-1), 0)
	l.ensureVisible()
}

// GoToTop moves to the first entry
func (l *ListPanel) GoToTop() {
	l.cursor = 0
	l.ensureVisible()
}

// GoToBottom moves to the last entry
func (l *ListPanel) GoToBottom() {
	l.cursor = max(len(l.entries)-1, 0)
	l.ensureVisible()
}

func (l ListPanel) visibleRows() int {
	return max(l.height-2, 1)
}

// ensureVisible scrolls so the cursor is inside the viewport
func (l *ListPanel) ensureVisible() {
	rows := l.visibleRows()
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+rows {
		l.offset = l.cursor - rows + 1
	}
	if l.offset < 0 {
		l.offset = 0
	}
}

func (l ListPanel) label(e model.Entry) string {
	if l.relative && l.base != "" {
		if rel, err := filepath.Rel(l.base, e.Path); err == nil {
			return rel
		}
	}
	return e.Name
}

// sizeBar renders the share of the listing an entry takes
func (l ListPanel) sizeBar(e model.Entry) string {
	if l.total == 0 {
		return "[" + strings.Repeat("░", listSizeBarWidth) + "]"
	}
	filledFloat := float64(e.SizeBytes) / float64(l.total) * listSizeBarWidth
	filled := int(filledFloat)
	var bar strings.Builder
	for j := 0; j < listSizeBarWidth; j++ {
		switch {
		case j < filled:
			bar.WriteRune('█')
		case float64(j) < filledFloat+0.5 && filled < listSizeBarWidth:
			bar.WriteRune('▓')
		default:
			bar.WriteRune('░')
		}
	}
	return "[" + bar.String() + "]"
}

func (l ListPanel) buildLine(e model.Entry) string {
	prefix := "  "
	if e.IsDir() {
		prefix = "▶ " // right triangle
	}
	return fmt.Sprintf("%s%s %s %s", prefix, l.label(e), l.sizeBar(e), e.Size)
}

// RequiredWidth calculates the width needed to display the widest line
func (l ListPanel) RequiredWidth() int {
	if len(l.entries) == 0 {
		return 30
	}
	maxWidth := 0
	for _, e := range l.entries {
		maxWidth = max(maxWidth, lipgloss.Width(l.buildLine(e)))
	}
	// border and padding
	return maxWidth + 4
}

// View renders the list
func (l ListPanel) View() string {
	style := ListPanelStyle.Width(l.width - 2).Height(l.height - 2)
	if l.focused {
		style = style.BorderForeground(ColorPrimary)
	}
	if len(l.entries) == 0 {
		return style.Render(lipgloss.NewStyle().Foreground(ColorMuted).Render("Nothing here"))
	}

	maxW := max(l.width-4, 1)
	var lines []string
	for i := l.offset; i < len(l.entries) && len(lines) < l.visibleRows(); i++ {
		e := l.entries[i]

		var itemStyle lipgloss.Style
		switch {
		case i == l.cursor && l.focused:
			itemStyle = ListItemSelected.Width(maxW)
		case i == l.cursor:
			// dimmer selection when unfocused
			itemStyle = lipgloss.NewStyle().Foreground(ColorSecondary).Bold(true)
		case e.IsDir():
			itemStyle = lipgloss.NewStyle().Foreground(ColorDir)
		default:
			itemStyle = lipgloss.NewStyle().Foreground(ColorFile)
		}
		lines = append(lines, itemStyle.MaxWidth(maxW).Render(l.buildLine(e)))
	}

	return style.Render(strings.Join(lines, "\n"))
}
