package ui

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jeffwilliams/squarify"

	"github.com/lumipallolabs/sizescope/internal/model"
)

// Block represents a rectangle in the treemap
type Block struct {
	Index         int // position in the entry list, -1 for the grouped block
	X, Y          int
	Width, Height int
	IsGrouped     bool
	GroupCount    int
	GroupSize     uint64
}

// TreemapPanel displays the listed entries as a squarified treemap
type TreemapPanel struct {
	entries  model.Result
	selected int
	blocks   []Block
	width    int
	height   int
	focused  bool
}

// NewTreemapPanel creates a new treemap panel
func NewTreemapPanel() TreemapPanel {
	return TreemapPanel{selected: -1}
}

// SetEntries sets the entries to lay out
func (t *TreemapPanel) SetEntries(entries model.Result) {
	t.entries = entries
	t.selected = -1
	if len(entries) > 0 {
		t.selected = 0
	}
	t.layout()
}

// SetSize sets the panel dimensions
func (t *TreemapPanel) SetSize(w, h int) {
	if t.width != w || t.height != h {
		t.width = w
		t.height = h
		t.layout()
	}
}

// SetFocused sets focus state
func (t *TreemapPanel) SetFocused(focused bool) {
	t.focused = focused
}

// SetSelected sets the selected entry index (for sync from the list)
func (t *TreemapPanel) SetSelected(i int) {
	if i >= -1 && i < len(t.entries) {
		t.selected = i
	}
}

// Selected returns the selected entry index, or -1
func (t TreemapPanel) Selected() int {
	return t.selected
}

// Blocks returns the current layout
func (t TreemapPanel) Blocks() []Block {
	return t.blocks
}

// SelectFirst selects the first laid out entry
func (t *TreemapPanel) SelectFirst() {
	for _, b := range t.blocks {
		if !b.IsGrouped {
			t.selected = b.Index
			return
		}
	}
}

// MoveToBlock moves selection to the nearest block in direction (dx, dy)
func (t *TreemapPanel) MoveToBlock(dx, dy int) {
	if len(t.blocks) == 0 {
		return
	}

	var current *Block
	for i := range t.blocks {
		if !t.blocks[i].IsGrouped && t.blocks[i].Index == t.selected {
			current = &t.blocks[i]
			break
		}
	}
	if current == nil {
		t.SelectFirst()
		return
	}

	cx := current.X + current.Width/2
	cy := current.Y + current.Height/2

	var best *Block
	bestDist := -1
	for i := range t.blocks {
		b := &t.blocks[i]
		if b == current || b.IsGrouped {
			continue
		}
		bx := b.X + b.Width/2
		by := b.Y + b.Height/2

		if dx > 0 && bx <= cx || dx < 0 && bx >= cx || dy > 0 && by <= cy || dy < 0 && by >= cy {
			continue
		}

		dist := abs(bx-cx) + abs(by-cy)
		if bestDist < 0 || dist < bestDist {
			bestDist = dist
			best = b
		}
	}

	if best != nil {
		t.selected = best.Index
	}
}

// treemapItem wraps an entry for the squarify algorithm
type treemapItem struct {
	index int
	size  float64
	// Children for TreeSizer interface
	children []*treemapItem
}

// Size implements squarify.TreeSizer
func (t *treemapItem) Size() float64 {
	return t.size
}

// NumChildren implements squarify.TreeSizer
func (t *treemapItem) NumChildren() int {
	return len(t.children)
}

// Child implements squarify.TreeSizer
func (t *treemapItem) Child(i int) squarify.TreeSizer {
	return t.children[i]
}

const (
	minBlockWidth   = 8  // minimum width for any block (fits short label)
	minBlockHeight  = 3  // minimum height for any block (border + 1 line text)
	maxVisibleItems = 15 // max items before grouping remainder into "N more"

	treemapBorderH = 2 // margin for rightmost block borders
)

// contentSize returns the area available to blocks
func (t TreemapPanel) contentSize() (int, int) {
	return max(t.width-treemapBorderH, 1), max(t.height, 1)
}

// layout calculates block positions using the squarify library
func (t *TreemapPanel) layout() {
	t.blocks = nil

	if len(t.entries) == 0 || t.width <= 2 || t.height <= 2 {
		return
	}

	contentW, contentH := t.contentSize()

	items := make([]*treemapItem, 0, len(t.entries))
	for i, e := range t.entries {
		// zero sizes still get a sliver so they stay selectable
		size := math.Max(float64(e.SizeBytes), 1)
		items = append(items, &treemapItem{index: i, size: size})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].size > items[j].size
	})

	rect := squarify.Rect{W: float64(contentW), H: float64(contentH)}

	var (
		blocks       []squarify.Block
		metas        []squarify.Meta
		groupedBlock *Block
	)

	// Fit as many items as possible at the minimum block size, grouping
	// the rest into a bottom strip
	maxVisible := min(len(items), maxVisibleItems)
	for ; maxVisible >= 2; maxVisible-- {
		mainRect := rect
		numVisible := maxVisible
		// never show a "1 more" block
		hasGrouped := len(items)-numVisible >= 2
		if hasGrouped {
			mainRect.H = float64(contentH - minBlockHeight)
			numVisible = maxVisible - 1
		}

		blocks, metas = squarify.Squarify(rootItem(items[:numVisible]), mainRect, squarify.Options{
			MaxDepth: 1,
			Sort:     true,
		})

		if !allFit(blocks, metas) {
			continue
		}
		if hasGrouped {
			groupedBlock = groupBlock(items[numVisible:], contentW, contentH)
		}
		break
	}

	// Only the largest item fits
	if maxVisible < 2 && len(items) > 0 {
		mainRect := rect
		if len(items) > 2 {
			mainRect.H = float64(contentH - minBlockHeight)
			groupedBlock = groupBlock(items[1:], contentW, contentH)
		}
		blocks, metas = squarify.Squarify(rootItem(items[:1]), mainRect, squarify.Options{
			MaxDepth: 1,
			Sort:     true,
		})
	}

	// Track where main blocks end so the grouped strip has no gap
	maxMainEndY := 0
	for i, block := range blocks {
		item, ok := block.TreeSizer.(*treemapItem)
		if !ok || i >= len(metas) || metas[i].Depth != 0 {
			continue
		}

		// Round both edges so neighbours share boundaries
		x := int(math.Round(block.X))
		y := int(math.Round(block.Y))
		endX := min(int(math.Round(block.X+block.W)), contentW)
		endY := min(int(math.Round(block.Y+block.H)), contentH)
		x, y = max(x, 0), max(y, 0)
		w, h := endX-x, endY-y

		if w < 1 || h < 1 || x >= contentW || y >= contentH {
			continue
		}
		maxMainEndY = max(maxMainEndY, y+h)

		t.blocks = append(t.blocks, Block{
			Index:  item.index,
			X:      x,
			Y:      y,
			Width:  w,
			Height: h,
		})
	}

	if groupedBlock != nil {
		groupedBlock.Y = maxMainEndY
		groupedBlock.Height = max(contentH-maxMainEndY, 1)
		t.blocks = append(t.blocks, *groupedBlock)
	}
}

func rootItem(children []*treemapItem) *treemapItem {
	root := &treemapItem{index: -1, children: children}
	for _, c := range children {
		root.size += c.size
	}
	return root
}

func allFit(blocks []squarify.Block, metas []squarify.Meta) bool {
	for i, b := range blocks {
		if i >= len(metas) || metas[i].Depth != 0 {
			continue
		}
		w := int(math.Round(b.X+b.W)) - int(math.Round(b.X))
		h := int(math.Round(b.Y+b.H)) - int(math.Round(b.Y))
		if w < minBlockWidth || h < minBlockHeight {
			return false
		}
	}
	return true
}

func groupBlock(rest []*treemapItem, contentW, contentH int) *Block {
	var size uint64
	for _, it := range rest {
		size += uint64(it.size)
	}
	return &Block{
		Index:      -1,
		Y:          contentH - minBlockHeight,
		Width:      contentW,
		Height:     minBlockHeight,
		IsGrouped:  true,
		GroupCount: len(rest),
		GroupSize:  size,
	}
}

// View renders the treemap
func (t TreemapPanel) View() string {
	if len(t.entries) == 0 {
		return TreemapPanelStyle.Width(t.width).Height(t.height).Render("No data")
	}

	_, contentH := t.contentSize()

	type renderedBlock struct {
		block Block
		lines []string
	}
	var rendered []renderedBlock
	for _, block := range t.blocks {
		if block.Width < 1 || block.Height < 1 {
			continue
		}
		rendered = append(rendered, renderedBlock{block, strings.Split(t.renderBlock(block), "\n")})
	}

	// Composite rendered blocks line by line
	type segment struct {
		x, width int
		line     string
	}
	outputLines := make([]string, 0, contentH)
	for y := 0; y < contentH; y++ {
		var segments []segment
		for _, rb := range rendered {
			idx := y - rb.block.Y
			if idx >= 0 && idx < len(rb.lines) && idx < rb.block.Height {
				segments = append(segments, segment{rb.block.X, rb.block.Width, rb.lines[idx]})
			}
		}
		sort.Slice(segments, func(i, j int) bool { return segments[i].x < segments[j].x })

		var line strings.Builder
		currentX := 0
		for _, seg := range segments {
			if seg.x > currentX {
				line.WriteString(strings.Repeat(" ", seg.x-currentX))
			}
			line.WriteString(seg.line)
			currentX = seg.x + seg.width
		}
		outputLines = append(outputLines, line.String())
	}

	return lipgloss.NewStyle().Height(t.height).MaxHeight(t.height).Render(strings.Join(outputLines, "\n"))
}

// renderBlock renders a complete block with its border
func (t TreemapPanel) renderBlock(block Block) string {
	var fgColor, borderColor lipgloss.Color
	var label, sizeStr string

	switch {
	case block.IsGrouped:
		fgColor = ColorMuted
		borderColor = lipgloss.Color("#4B5563")
		label = fmt.Sprintf("%d more", block.GroupCount)
		sizeStr = model.FormatBytes(block.GroupSize)
	case t.entries[block.Index].IsDir():
		fgColor = ColorDir
		borderColor = ColorDir
	default:
		fgColor = ColorFile
		borderColor = ColorMuted
	}
	if !block.IsGrouped {
		e := t.entries[block.Index]
		label = e.Name
		sizeStr = e.Size
	}

	isSelected := !block.IsGrouped && block.Index == t.selected
	if isSelected && t.focused {
		fgColor = lipgloss.Color("#FFFFFF")
		borderColor = ColorPrimary
	} else if isSelected {
		fgColor = lipgloss.Color("#E0E0E0")
		borderColor = ColorSecondary
	}

	innerW := max(block.Width-2, 0)
	innerH := max(block.Height-2, 0)

	text := label
	if innerH > 1 && sizeStr != "" {
		text = label + "\n" + sizeStr
	}

	style := lipgloss.NewStyle().
		Width(innerW).
		Height(innerH).
		MaxHeight(block.Height).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Foreground(fgColor).
		Bold(isSelected)

	return style.Render(truncateLines(text, innerW))
}

// truncateLines cuts every line of s to at most w cells
func truncateLines(s string, w int) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if lipgloss.Width(l) > w {
			r := []rune(l)
			if w > 0 && len(r) > w {
				lines[i] = string(r[:w])
			} else {
				lines[i] = ""
			}
		}
	}
	return strings.Join(lines, "\n")
}

// abs returns the absolute value of x
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
