package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/lumipallolabs/sizescope/internal/scanner"
)

// progressLine rewrites a single status line on a terminal
type progressLine struct {
	w       io.Writer
	enabled bool
}

// newProgressLine enables in-place updates only when w is a terminal
func newProgressLine(w io.Writer, enabled bool) *progressLine {
	if f, ok := w.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		enabled = false
	}
	p := &progressLine{w: w, enabled: enabled}
	if enabled {
		// Hide cursor for in-place updates
		fmt.Fprint(w, "\033[?25l")
	}
	return p
}

func (p *progressLine) update(ev scanner.ProgressEvent) {
	if !p.enabled {
		return
	}
	msg := fmt.Sprintf("Scanning… %s entries (%.0f%%) %s",
		humanize.Comma(int64(ev.FilesScanned)), ev.Progress, ev.CurrentPath)
	fmt.Fprintf(p.w, "\r\033[2K%s\r", msg)
}

// clear removes the status line and restores the cursor
func (p *progressLine) clear() {
	if !p.enabled {
		return
	}
	fmt.Fprint(p.w, "\r\033[2K\r\033[?25h")
}
