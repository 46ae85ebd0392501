// Package ui is the interactive terminal browser built on Bubble Tea.
package ui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/lumipallolabs/sizescope/internal/core"
	"github.com/lumipallolabs/sizescope/internal/logging"
	"github.com/lumipallolabs/sizescope/internal/model"
	"github.com/lumipallolabs/sizescope/internal/scanner"
)

// Panel identifies which panel is active
type Panel int

const (
	PanelList Panel = iota
	PanelTreemap
)

// volumesMsg carries the mounted volumes
type volumesMsg struct {
	volumes []model.Volume
	err     error
}

// scanRequest describes a scan the user asked for
type scanRequest struct {
	path string
	mode scanner.Mode
	// push keeps the current view in the back history on success
	push bool
	// selectPath is selected in the new listing when present
	selectPath string
}

// scanStartedMsg is sent once the service accepted (or refused) a scan
type scanStartedMsg struct {
	req    scanRequest
	ack    core.Ack
	events <-chan core.Event
	err    error
}

// scanEventMsg carries one event of a running scan. closed is set once
// the scan's event channel is drained.
type scanEventMsg struct {
	id     string
	events <-chan core.Event
	event  core.Event
	closed bool
}

// removedMsg is sent after a delete or trash finished
type removedMsg struct {
	event core.Event
}

// detailDebounceMsg triggers content type detection for a settled selection
type detailDebounceMsg struct {
	version int
	path    string
}

// fileTypeMsg carries the detected content type of a file
type fileTypeMsg struct {
	path string
	kind string
}

// spinnerTickMsg triggers spinner animation
type spinnerTickMsg struct{}

// Spinner frames - cyberpunk style
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Timing constants
const (
	spinnerTickInterval   = 80 * time.Millisecond
	borderRotationSpeed   = 50  // milliseconds per frame
	dotAnimationSpeed     = 400 // milliseconds per frame
	detailDebounceTimeout = 250 * time.Millisecond
)

const (
	scanEventBuffer = 64
	scanBoxWidth    = 60
	scanBoxLines    = 4
)

// view is one level of the drill-down history
type view struct {
	dir      string
	mode     scanner.Mode
	entries  model.Result
	selected string // path of the selected entry
}

// App is the main application model
type App struct {
	ctx context.Context
	svc *core.Service

	// Components
	header      Header
	list        ListPanel
	treemap     TreemapPanel
	help        HelpOverlay
	volumes     VolumeSelector
	confirm     ConfirmDialog
	helpBar     help.Model
	progressBar progress.Model
	keys        KeyMap

	// Data
	volumeList []model.Volume
	current    view
	loaded     bool
	history    []view
	order      model.Order

	// Scan state
	scanning    bool
	scanID      string
	scanReq     scanRequest
	scanStarted time.Time
	progress    scanner.ProgressEvent

	// UI state
	activePanel   Panel
	detailVersion int
	kindPath      string
	kind          string
	status        string
	err           error

	// Dimensions
	width  int
	height int
}

// NewApp creates the application for svc. path is browsed first; when it
// is empty the default volume is used, and without one the volume
// selector opens.
func NewApp(ctx context.Context, svc *core.Service, path string) App {
	if path == "" {
		path = svc.DefaultVolume()
	}

	bar := progress.New(progress.WithScaledGradient("#00FFFF", "#FF79C6"), progress.WithoutPercentage())
	bar.Width = scanBoxWidth - 10

	app := App{
		ctx:         ctx,
		svc:         svc,
		header:      NewHeader(nil),
		list:        NewListPanel(),
		treemap:     NewTreemapPanel(),
		help:        NewHelpOverlay(),
		volumes:     NewVolumeSelector(nil),
		helpBar:     help.New(),
		progressBar: bar,
		keys:        DefaultKeyMap(),
		order:       model.OrderSize,
		activePanel: PanelList,
		scanReq:     scanRequest{path: path, mode: scanner.ModeTopLevel},
		scanning:    path != "",
		scanStarted: time.Now(),
	}

	app.list.SetFocused(true)
	app.header.SetScanning(app.scanning)
	freed := svc.Freed()
	app.header.SetFreedStats(freed.Session, freed.Lifetime)

	return app
}

// Init implements tea.Model
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.SetWindowTitle("sizescope"), a.loadVolumes()}
	if a.scanning {
		cmds = append(cmds, a.startScan(a.scanReq), tick())
	}
	return tea.Batch(cmds...)
}

func tick() tea.Cmd {
	return tea.Tick(spinnerTickInterval, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

func (a App) loadVolumes() tea.Cmd {
	svc := a.svc
	return func() tea.Msg {
		vols, err := svc.Volumes()
		return volumesMsg{volumes: vols, err: err}
	}
}

// startScan asks the service for a scan and returns its event channel
func (a App) startScan(req scanRequest) tea.Cmd {
	ctx, svc := a.ctx, a.svc
	return func() tea.Msg {
		var opts []core.ScanOption
		if req.mode == scanner.ModeDeep {
			opts = append(opts, core.WithMinSize(scanner.LargeItemThreshold))
		}
		sink := core.NewChannelSink(scanEventBuffer)
		logging.Debug.Printf("[UI] Starting %s scan of %s", req.mode, req.path)
		ack, err := svc.StartScan(ctx, req.path, req.mode, sink, opts...)
		if err != nil {
			return scanStartedMsg{req: req, err: err}
		}
		return scanStartedMsg{req: req, ack: ack, events: sink.Events()}
	}
}

// waitForEvent returns a command that waits for the next scan event
func waitForEvent(id string, events <-chan core.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		return scanEventMsg{id: id, events: events, event: ev, closed: !ok}
	}
}

// beginScan switches the UI into the scanning state for req
func (a *App) beginScan(req scanRequest) tea.Cmd {
	if a.scanning {
		return nil
	}
	a.scanning = true
	a.scanReq = req
	a.scanID = ""
	a.progress = scanner.ProgressEvent{}
	a.scanStarted = time.Now()
	a.status = ""
	a.err = nil
	a.header.SetScanning(true)
	return tea.Batch(a.startScan(req), tick())
}

// Update implements tea.Model
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateLayout()
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case volumesMsg:
		if msg.err != nil {
			logging.Debug.Printf("[UI] Listing volumes failed: %v", msg.err)
		}
		a.volumeList = msg.volumes
		a.header.SetVolumes(msg.volumes)
		a.volumes.SetVolumes(msg.volumes)
		a.syncVolume()
		if !a.scanning && !a.loaded {
			a.volumes.SetVisible(true)
		}
		return a, nil

	case scanStartedMsg:
		if msg.err != nil {
			a.scanning = false
			a.header.SetScanning(false)
			a.err = msg.err
			if !a.loaded {
				a.volumes.SetVisible(true)
			}
			return a, nil
		}
		a.scanID = msg.ack.ID
		return a, waitForEvent(msg.ack.ID, msg.events)

	case scanEventMsg:
		if msg.closed {
			return a, nil
		}
		// Keep draining abandoned scans so their completion is delivered
		if msg.id == a.scanID {
			a.handleScanEvent(msg.event)
		}
		return a, waitForEvent(msg.id, msg.events)

	case removedMsg:
		cmd := a.handleRemoved(msg.event)
		return a, cmd

	case detailDebounceMsg:
		// Only detect if this is still the latest selection
		if msg.version != a.detailVersion {
			return a, nil
		}
		path := msg.path
		return a, func() tea.Msg {
			return fileTypeMsg{path: path, kind: fileType(path)}
		}

	case fileTypeMsg:
		a.kindPath = msg.path
		a.kind = msg.kind
		return a, nil

	case spinnerTickMsg:
		// Keep ticking while scanning to force UI redraws
		if a.scanning {
			return a, tick()
		}
		return a, nil
	}

	return a, nil
}

// handleScanEvent applies one event of the current scan
func (a *App) handleScanEvent(ev core.Event) {
	switch ev := ev.(type) {
	case core.ScanProgressEvent:
		a.progress = ev.ProgressEvent

	case core.ScanCompletedEvent:
		a.scanning = false
		a.header.SetScanning(false)
		if ev.Err != nil {
			if errors.Is(ev.Err, context.Canceled) {
				a.status = "Scan cancelled"
			} else {
				a.err = ev.Err
			}
			logging.Debug.Printf("[UI] Scan of %s ended: %v", a.scanReq.path, ev.Err)
			if !a.loaded {
				a.volumes.SetVisible(true)
			}
			return
		}

		req := a.scanReq
		if req.push && a.loaded {
			a.current.selected = ""
			if e := a.list.Selected(); e != nil {
				a.current.selected = e.Path
			}
			a.history = append(a.history, a.current)
		}
		a.current = view{dir: req.path, mode: req.mode, entries: ev.Result}
		a.loaded = true
		a.showCurrent()
		if req.selectPath != "" {
			a.list.SelectPath(req.selectPath)
		}
		a.status = fmt.Sprintf("%s entries · %s · %s",
			humanize.Comma(int64(a.progress.FilesScanned)),
			model.FormatBytes(ev.Result.TotalBytes()),
			time.Since(a.scanStarted).Round(time.Millisecond))
		a.syncVolume()
		a.updateLayout()
	}
}

// showCurrent loads the current view into the panels
func (a *App) showCurrent() {
	entries := a.current.entries
	if a.current.mode == scanner.ModeTopLevel {
		a.order.Sort(entries)
	}
	a.list.SetEntries(a.current.dir, entries, a.current.mode == scanner.ModeDeep)
	a.list.SelectPath(a.current.selected)
	a.treemap.SetEntries(a.list.Entries())
	a.treemap.SetSelected(a.list.Cursor())
}

// syncVolume highlights the volume holding the browsed directory
func (a *App) syncVolume() {
	dir := a.current.dir
	if dir == "" {
		dir = a.scanReq.path
	}
	best, bestLen := -1, -1
	for i, v := range a.volumeList {
		if within(dir, v.Path) && len(v.Path) > bestLen {
			best, bestLen = i, len(v.Path)
		}
	}
	a.header.SetSelected(best)
	if best >= 0 {
		a.volumes.SetCurrent(a.volumeList[best].Path)
	}
}

// within reports whether path is root or below it
func within(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// handleKey handles keyboard input
func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cmd := a.keyCmd(msg)
	return a, cmd
}

// keyCmd applies a key press and returns the command it triggers
func (a *App) keyCmd(msg tea.KeyMsg) tea.Cmd {
	// Confirmation takes precedence: y confirms, anything else cancels
	if a.confirm.IsVisible() {
		a.confirm.Dismiss()
		if key.Matches(msg, a.keys.Confirm) {
			entry, action := a.confirm.Pending()
			return a.remove(entry, action)
		}
		a.status = "Cancelled"
		return nil
	}

	if a.help.IsVisible() {
		if key.Matches(msg, a.keys.Help) || key.Matches(msg, a.keys.Back) {
			a.help.SetVisible(false)
		}
		return nil
	}

	if a.volumes.IsVisible() {
		switch {
		case key.Matches(msg, a.keys.Quit):
			return tea.Quit
		case key.Matches(msg, a.keys.Back):
			if a.loaded || a.scanning {
				a.volumes.SetVisible(false)
			}
		case key.Matches(msg, a.keys.Up):
			a.volumes.MoveUp()
		case key.Matches(msg, a.keys.Down):
			a.volumes.MoveDown()
		case key.Matches(msg, a.keys.Enter):
			return a.selectVolume()
		}
		return nil
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.help.Toggle()
		return nil

	case key.Matches(msg, a.keys.SelectVolume):
		a.volumes.SetVisible(true)
		return nil
	}

	if a.scanning {
		if key.Matches(msg, a.keys.Back) && a.scanID != "" {
			a.svc.CancelScan(a.scanID)
		}
		return nil
	}

	switch {
	case key.Matches(msg, a.keys.Tab):
		if a.activePanel == PanelList {
			a.activePanel = PanelTreemap
			a.list.SetFocused(false)
			a.treemap.SetFocused(true)
			if a.treemap.Selected() < 0 {
				a.treemap.SelectFirst()
			}
			return a.syncFromTreemap()
		}
		a.activePanel = PanelList
		a.list.SetFocused(true)
		a.treemap.SetFocused(false)
		return a.syncFromList()

	case key.Matches(msg, a.keys.Up):
		return a.move(func() { a.list.MoveUp() }, 0, -1)

	case key.Matches(msg, a.keys.Down):
		return a.move(func() { a.list.MoveDown() }, 0, 1)

	case key.Matches(msg, a.keys.Left):
		if a.activePanel == PanelTreemap {
			return a.move(nil, -1, 0)
		}
		return a.back()

	case key.Matches(msg, a.keys.Right):
		if a.activePanel == PanelTreemap {
			return a.move(nil, 1, 0)
		}
		return a.open()

	case key.Matches(msg, a.keys.Top):
		return a.move(func() { a.list.GoToTop() }, 0, 0)

	case key.Matches(msg, a.keys.Bottom):
		return a.move(func() { a.list.GoToBottom() }, 0, 0)

	case key.Matches(msg, a.keys.PageUp):
		return a.move(func() { a.list.PageUp() }, 0, 0)

	case key.Matches(msg, a.keys.PageDown):
		return a.move(func() { a.list.PageDown() }, 0, 0)

	case key.Matches(msg, a.keys.Enter):
		return a.open()

	case key.Matches(msg, a.keys.Back):
		return a.back()

	case key.Matches(msg, a.keys.Rescan):
		if a.loaded {
			req := scanRequest{path: a.current.dir, mode: a.current.mode}
			if e := a.selected(); e != nil {
				req.selectPath = e.Path
			}
			return a.beginScan(req)
		}
		return nil

	case key.Matches(msg, a.keys.Largest):
		if a.loaded {
			return a.beginScan(scanRequest{path: a.current.dir, mode: scanner.ModeDeep, push: true})
		}
		return nil

	case key.Matches(msg, a.keys.CycleSort):
		if a.order == model.OrderSize {
			a.order = model.OrderDirsFirst
		} else {
			a.order = model.OrderSize
		}
		a.list.Sort(a.order)
		a.current.entries = a.list.Entries()
		a.treemap.SetEntries(a.list.Entries())
		a.treemap.SetSelected(a.list.Cursor())
		a.status = "Sorted by " + a.order.String()
		return nil

	case key.Matches(msg, a.keys.Delete):
		if e := a.selected(); e != nil {
			a.confirm.Ask(*e, actionDelete)
		}
		return nil

	case key.Matches(msg, a.keys.Trash):
		if e := a.selected(); e != nil {
			a.confirm.Ask(*e, actionTrash)
		}
		return nil

	case key.Matches(msg, a.keys.OpenExplorer):
		return a.openInExplorer()
	}

	return nil
}

// selected returns the entry selected in the active panel
func (a *App) selected() *model.Entry {
	return a.list.Selected()
}

// move moves the selection, in the list with listMove or in the treemap by
// (dx, dy), and keeps both panels in sync
func (a *App) move(listMove func(), dx, dy int) tea.Cmd {
	if a.activePanel == PanelTreemap {
		if dx != 0 || dy != 0 {
			a.treemap.MoveToBlock(dx, dy)
		}
		return a.syncFromTreemap()
	}
	if listMove != nil {
		listMove()
	}
	return a.syncFromList()
}

func (a *App) syncFromList() tea.Cmd {
	a.treemap.SetSelected(a.list.Cursor())
	return a.scheduleDetail()
}

func (a *App) syncFromTreemap() tea.Cmd {
	a.list.SetCursor(a.treemap.Selected())
	return a.scheduleDetail()
}

// scheduleDetail schedules content type detection for the selected file
func (a *App) scheduleDetail() tea.Cmd {
	a.status = ""
	a.detailVersion++
	e := a.selected()
	if e == nil || e.IsDir() || e.Path == a.kindPath {
		return nil
	}
	version, path := a.detailVersion, e.Path
	return tea.Tick(detailDebounceTimeout, func(time.Time) tea.Msg {
		return detailDebounceMsg{version: version, path: path}
	})
}

// open drills into the selected directory
func (a *App) open() tea.Cmd {
	e := a.selected()
	if e == nil || !e.IsDir() {
		return nil
	}
	return a.beginScan(scanRequest{path: e.Path, mode: scanner.ModeTopLevel, push: true})
}

// back returns to the previous view, or to the parent directory at the
// top of the history
func (a *App) back() tea.Cmd {
	if n := len(a.history); n > 0 {
		a.current = a.history[n-1]
		a.history = a.history[:n-1]
		a.showCurrent()
		a.syncVolume()
		a.updateLayout()
		return a.scheduleDetail()
	}
	if !a.loaded {
		return nil
	}
	parent := filepath.Dir(a.current.dir)
	if parent == a.current.dir {
		return nil
	}
	return a.beginScan(scanRequest{path: parent, mode: scanner.ModeTopLevel, selectPath: a.current.dir})
}

// selectVolume scans the highlighted volume and remembers it as default
func (a *App) selectVolume() tea.Cmd {
	v := a.volumes.SelectedVolume()
	if v == nil || a.scanning {
		return nil
	}
	a.volumes.SetVisible(false)
	a.svc.SetDefaultVolume(v.Path)
	a.volumes.SetCurrent(v.Path)
	a.history = nil
	a.loaded = false
	return a.beginScan(scanRequest{path: v.Path, mode: scanner.ModeTopLevel})
}

// remove deletes or trashes entry through the service
func (a *App) remove(entry model.Entry, action removeAction) tea.Cmd {
	ctx, svc := a.ctx, a.svc
	return func() tea.Msg {
		var (
			r   core.Removal
			err error
		)
		if action == actionTrash {
			r, err = svc.Trash(ctx, entry.Path)
		} else {
			r, err = svc.Delete(ctx, entry.Path)
		}
		if err != nil {
			return removedMsg{event: core.ErrorEvent{Err: err}}
		}
		freed := svc.Freed()
		return removedMsg{event: core.EntryRemovedEvent{
			Removal:      r,
			SessionFreed: freed.Session,
			TotalFreed:   freed.Lifetime,
		}}
	}
}

// handleRemoved drops a removed entry from every view that shows it
func (a *App) handleRemoved(ev core.Event) tea.Cmd {
	switch ev := ev.(type) {
	case core.ErrorEvent:
		a.err = ev.Err
		return nil

	case core.EntryRemovedEvent:
		a.err = nil
		a.list.Remove(ev.Path)
		a.current.entries = a.list.Entries()
		a.treemap.SetEntries(a.list.Entries())
		a.treemap.SetSelected(a.list.Cursor())
		for i := range a.history {
			shrinkAncestors(a.history[i].entries, ev.Path, ev.Bytes)
		}
		a.header.SetFreedStats(ev.SessionFreed, ev.TotalFreed)
		a.updateLayout()
		cmd := a.scheduleDetail()

		verb := "Deleted"
		if ev.Trashed {
			verb = "Trashed"
		}
		a.status = fmt.Sprintf("%s %s (%s)", verb, filepath.Base(ev.Path), model.FormatBytes(ev.Bytes))
		return cmd
	}
	return nil
}

// shrinkAncestors subtracts n bytes from the entries that contain path
func shrinkAncestors(entries model.Result, path string, n uint64) {
	for i := range entries {
		e := &entries[i]
		if !e.IsDir() || !within(path, e.Path) || path == e.Path {
			continue
		}
		e.SizeBytes -= min(e.SizeBytes, n)
		e.Size = model.FormatBytes(e.SizeBytes)
	}
}

// openInExplorer opens the selection, or the browsed directory, in the
// system file manager
func (a *App) openInExplorer() tea.Cmd {
	path := a.current.dir
	if e := a.selected(); e != nil {
		path = e.Path
	}
	if path == "" {
		return nil
	}
	logging.Debug.Printf("[UI] Opening %s in file manager", path)
	if err := openInFileManager(path); err != nil {
		a.err = fmt.Errorf("open %s: %w", path, err)
	}
	return nil
}

// updateLayout calculates component sizes based on window dimensions
func (a *App) updateLayout() {
	// header, status line and help bar
	panelHeight := max(a.height-3, 3)

	// List takes only what it needs, max 50% of screen
	listWidth := min(a.list.RequiredWidth(), a.width/2)
	listWidth = max(listWidth, 20)

	a.header.SetWidth(a.width)
	a.list.SetSize(listWidth, panelHeight)
	a.treemap.SetSize(max(a.width-listWidth, 1), panelHeight)
	a.help.SetSize(a.width, a.height)
	a.volumes.SetSize(a.width, a.height)
	a.confirm.SetSize(a.width, a.height)
	a.helpBar.Width = a.width
}

// View implements tea.Model
func (a App) View() string {
	if a.width == 0 || a.height == 0 {
		if a.scanning {
			return "Scanning..."
		}
		return "Loading..."
	}

	// Overlays replace the screen
	switch {
	case a.confirm.IsVisible():
		return a.confirm.View()
	case a.help.IsVisible():
		return a.help.View()
	case a.volumes.IsVisible():
		return a.volumes.View()
	}

	sections := []string{a.header.View()}
	panelHeight := max(a.height-3, 3)

	if a.scanning || !a.loaded {
		sections = append(sections, lipgloss.Place(a.width, panelHeight,
			lipgloss.Center, lipgloss.Center, a.scanView(time.Now())))
	} else {
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, a.list.View(), a.treemap.View()))
	}

	if a.err != nil {
		sections = append(sections, ErrorStyle.MaxWidth(a.width).Render(fmt.Sprintf("Error: %v", a.err)))
	} else {
		sections = append(sections, StatusStyle.MaxWidth(a.width).Render(a.statusLine()))
	}
	sections = append(sections, HelpStyle.Render(a.helpBar.ShortHelpView(a.keys.ShortHelp())))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// statusLine describes the selection, or the last action
func (a App) statusLine() string {
	if a.scanning {
		return "esc cancels the scan"
	}
	if a.status != "" {
		return a.status
	}
	e := a.list.Selected()
	if e == nil {
		return a.current.dir
	}
	kind := ""
	if a.kindPath == e.Path {
		kind = a.kind
	}
	return describe(*e, a.list.Total(), kind)
}

// scanView renders the scanning box with its boot-style log
func (a App) scanView(now time.Time) string {
	activeStyle := lipgloss.NewStyle().Foreground(ColorCyan).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	if !a.scanning {
		return renderSpinningBorder(lipgloss.NewStyle().Padding(1, 3).Width(scanBoxWidth-2).
			Render(mutedStyle.Render("Nothing scanned yet. Press space to pick a volume.")), scanBoxWidth, 5, now)
	}

	spinner := spinnerFrames[int(now.UnixMilli()/spinnerTickInterval.Milliseconds())%len(spinnerFrames)]
	dots := strings.Repeat(".", int(now.UnixMilli()/dotAnimationSpeed)%3+1)

	title := core.PhaseScanning.String()
	if a.scanReq.mode == scanner.ModeDeep {
		title = "Searching for large files"
	}

	current := a.progress.CurrentPath
	if current == "" {
		current = a.scanReq.path
	}
	inner := scanBoxWidth - 8
	if w := lipgloss.Width(current); w > inner {
		r := []rune(current)
		current = "…" + string(r[max(len(r)-inner+1, 0):])
	}

	lines := []string{
		activeStyle.Render(fmt.Sprintf("%s %s%s", spinner, title, dots)),
		a.progressBar.ViewAs(float64(a.progress.Progress) / 100),
		mutedStyle.Render(fmt.Sprintf("%s entries · %s",
			humanize.Comma(int64(a.progress.FilesScanned)),
			now.Sub(a.scanStarted).Round(time.Second))),
		mutedStyle.Render(current),
	}

	content := lipgloss.NewStyle().
		Padding(1, 3).
		Width(scanBoxWidth - 2).
		Height(scanBoxLines).
		Render(strings.Join(lines, "\n"))

	return renderSpinningBorder(content, scanBoxWidth, scanBoxLines+4, now)
}

// renderSpinningBorder draws a box with a gradient border that spins over time
func renderSpinningBorder(content string, width, height int, t time.Time) string {
	shades := []string{
		"#00FFFF", "#30EBE0", "#5EEAD4", "#70E0D8", "#85D5E0", "#9AC5E8", "#A8B0F0", "#B89AF8",
		"#C084FC", "#C880F0", "#D080E8", "#D87CDE", "#E07CD4", "#F079CC", "#FF79C6", "#F079CC",
		"#E07CD4", "#D87CDE", "#D080E8", "#C880F0", "#C084FC", "#B89AF8", "#A8B0F0", "#9AC5E8",
		"#85D5E0", "#70E0D8", "#5EEAD4", "#30EBE0",
	}

	innerW := width - 2
	innerH := height - 2
	perimeter := 2*innerW + 2*innerH + 4

	offset := int(t.UnixMilli()/borderRotationSpeed) % perimeter

	colorAt := func(pos int) lipgloss.Style {
		adjusted := (pos - offset + perimeter) % perimeter
		return lipgloss.NewStyle().Foreground(lipgloss.Color(shades[adjusted*len(shades)/perimeter%len(shades)]))
	}

	var b strings.Builder
	pos := 0

	b.WriteString(colorAt(pos).Render("╭"))
	pos++
	for i := 0; i < innerW; i++ {
		b.WriteString(colorAt(pos).Render("─"))
		pos++
	}
	b.WriteString(colorAt(pos).Render("╮"))
	pos++
	b.WriteString("\n")

	lines := strings.Split(content, "\n")
	for i := 0; i < innerH; i++ {
		b.WriteString(colorAt(perimeter - 1 - i).Render("│"))
		line := ""
		if i < len(lines) {
			line = lines[i]
		}
		if w := lipgloss.Width(line); w < innerW {
			line += strings.Repeat(" ", innerW-w)
		}
		b.WriteString(line)
		b.WriteString(colorAt(pos).Render("│"))
		pos++
		b.WriteString("\n")
	}

	bottomStart := pos
	b.WriteString(colorAt(perimeter - innerH - 1).Render("╰"))
	for i := 0; i < innerW; i++ {
		b.WriteString(colorAt(bottomStart + innerW - i).Render("─"))
	}
	b.WriteString(colorAt(bottomStart).Render("╯"))

	return b.String()
}
