package ui

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/lumipallolabs/sizescope/internal/model"
)

func sampleEntries() model.Result {
	return model.Result{
		model.NewEntry("/data/c", true, 3000),
		model.NewEntry("/data/b.txt", false, 2000),
		model.NewEntry("/data/a.txt", false, 1000),
	}
}

func TestListPanelNavigation(t *testing.T) {
	l := NewListPanel()
	l.SetSize(40, 10)
	l.SetEntries("/data", sampleEntries(), false)

	if l.Total() != 6000 {
		t.Errorf("Total() = %d, want 6000", l.Total())
	}
	l.MoveUp()
	if l.Cursor() != 0 {
		t.Errorf("MoveUp at the top moved to %d", l.Cursor())
	}
	l.GoToBottom()
	if got := l.Selected().Name; got != "a.txt" {
		t.Errorf("GoToBottom selected %q", got)
	}
	l.MoveDown()
	if l.Cursor() != 2 {
		t.Errorf("MoveDown at the bottom moved to %d", l.Cursor())
	}
	l.PageUp()
	if l.Cursor() != 0 {
		t.Errorf("PageUp moved to %d, want 0", l.Cursor())
	}
	if !l.SelectPath("/data/b.txt") || l.Cursor() != 1 {
		t.Errorf("SelectPath did not select b.txt, cursor %d", l.Cursor())
	}
	if l.SelectPath("/data/missing") {
		t.Error("SelectPath found a missing entry")
	}
}

func TestListPanelRemove(t *testing.T) {
	entries := sampleEntries()
	l := NewListPanel()
	l.SetSize(40, 10)
	l.SetEntries("/data", entries, false)
	l.GoToBottom()

	if !l.Remove("/data/a.txt") {
		t.Fatal("Remove did not find a.txt")
	}
	if len(l.Entries()) != 2 || l.Total() != 5000 {
		t.Errorf("after Remove: %d entries, total %d", len(l.Entries()), l.Total())
	}
	if l.Cursor() != 1 {
		t.Errorf("cursor = %d, want 1", l.Cursor())
	}
	// The caller's slice is left alone
	if entries[2].Name != "a.txt" {
		t.Errorf("Remove modified the original slice: %v", entries[2].Name)
	}
	if l.Remove("/data/a.txt") {
		t.Error("second Remove succeeded")
	}
}

func TestListPanelSortKeepsSelection(t *testing.T) {
	l := NewListPanel()
	l.SetSize(40, 10)
	l.SetEntries("/data", sampleEntries(), false)
	l.SelectPath("/data/b.txt")

	l.Sort(model.OrderDirsFirst)

	var names []string
	for _, e := range l.Entries() {
		names = append(names, e.Name)
	}
	if got := strings.Join(names, ","); got != "c,a.txt,b.txt" {
		t.Errorf("order = %s", got)
	}
	if got := l.Selected().Name; got != "b.txt" {
		t.Errorf("selection moved to %q", got)
	}
}

func TestListPanelView(t *testing.T) {
	l := NewListPanel()
	l.SetSize(60, 10)
	l.SetFocused(true)
	l.SetEntries("/data", sampleEntries(), false)

	out := l.View()
	for _, want := range []string{"c", "b.txt", "a.txt", "2.93 KB", "[██"} {
		if !strings.Contains(out, want) {
			t.Errorf("view is missing %q:\n%s", want, out)
		}
	}

	empty := NewListPanel()
	empty.SetSize(30, 5)
	if !strings.Contains(empty.View(), "Nothing here") {
		t.Error("empty view is missing its placeholder")
	}
}

func TestListPanelRelativeLabels(t *testing.T) {
	deep := filepath.Join("/data", "c", "d", "big.iso")
	l := NewListPanel()
	l.SetSize(60, 10)
	l.SetEntries("/data", model.Result{model.NewEntry(deep, false, 10)}, true)

	if got, want := l.label(l.Entries()[0]), filepath.Join("c", "d", "big.iso"); got != want {
		t.Errorf("label = %q, want %q", got, want)
	}
}

func TestListPanelScrollsToCursor(t *testing.T) {
	var entries model.Result
	for i := 0; i < 50; i++ {
		entries = append(entries, model.NewEntry(filepath.Join("/data", strings.Repeat("x", i+1)), false, uint64(50-i)))
	}
	l := NewListPanel()
	l.SetSize(60, 12)
	l.SetEntries("/data", entries, false)

	l.GoToBottom()
	if l.offset+l.visibleRows() != 50 {
		t.Errorf("offset %d does not show the last row", l.offset)
	}
	l.GoToTop()
	if l.offset != 0 {
		t.Errorf("offset = %d after GoToTop", l.offset)
	}
}
