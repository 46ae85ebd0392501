package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/lumipallolabs/sizescope/internal/model"
)

// removeAction is what a confirmed dialog does with its entry
type removeAction int

const (
	actionDelete removeAction = iota
	actionTrash
)

func (a removeAction) String() string {
	if a == actionTrash {
		return "trash"
	}
	return "delete"
}

// ConfirmDialog asks before an entry is deleted or trashed
type ConfirmDialog struct {
	entry   model.Entry
	action  removeAction
	visible bool
	width   int
	height  int
}

// Ask shows the dialog for entry
func (c *ConfirmDialog) Ask(entry model.Entry, action removeAction) {
	c.entry = entry
	c.action = action
	c.visible = true
}

// Dismiss hides the dialog
func (c *ConfirmDialog) Dismiss() {
	c.visible = false
}

// IsVisible returns whether the dialog is visible
func (c ConfirmDialog) IsVisible() bool {
	return c.visible
}

// Pending returns the entry and action awaiting confirmation
func (c ConfirmDialog) Pending() (model.Entry, removeAction) {
	return c.entry, c.action
}

// SetSize sets the dimensions for centering
func (c *ConfirmDialog) SetSize(w, h int) {
	c.width = w
	c.height = h
}

// View renders the dialog
func (c ConfirmDialog) View() string {
	if !c.visible {
		return ""
	}

	accent := ColorWarning
	title := "Move to trash?"
	if c.action == actionDelete {
		accent = ColorDanger
		title = "Delete permanently?"
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(1, 2).
		Background(ColorBackground)

	titleStyle := lipgloss.NewStyle().Foreground(accent).Bold(true)
	textStyle := lipgloss.NewStyle().Foreground(ColorText)
	hintStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	kind := "file"
	if c.entry.IsDir() {
		kind = "directory"
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(title),
		"",
		textStyle.Render(c.entry.Path),
		textStyle.Render(fmt.Sprintf("%s, %s", kind, c.entry.Size)),
		"",
		hintStyle.Render("y confirm  any other key cancels"),
	)

	return lipgloss.Place(c.width, c.height, lipgloss.Center, lipgloss.Center, boxStyle.Render(body))
}
