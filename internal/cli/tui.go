package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/lumipallolabs/sizescope/internal/logging"
	"github.com/lumipallolabs/sizescope/internal/ui"
)

const debugLogFile = "sizescope-debug.log"

func (c *CLI) tuiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui [path]",
		Short: "Browse disk usage interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTUI(cmd.Context(), firstArg(args, ""))
		},
	}
}

// runTUI opens the interactive browser. An empty path scans the
// default volume.
func (c *CLI) runTUI(ctx context.Context, path string) error {
	if fd := os.Stdout.Fd(); !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return errors.New("the interactive browser needs a terminal, try `sizescope scan` instead")
	}

	// stderr belongs to the alternate screen while the program runs
	if c.opts.Debug {
		f, err := tea.LogToFile(debugLogFile, "debug")
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		defer f.Close()
		logging.SetOutput(f)
	}

	svc := c.service()
	defer svc.Close()

	p := tea.NewProgram(
		ui.NewApp(ctx, svc, path),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
