package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/lumipallolabs/sizescope/internal/core"
	"github.com/lumipallolabs/sizescope/internal/model"
	"github.com/lumipallolabs/sizescope/internal/scanner"
)

func (c *CLI) volumesCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "volumes",
		Aliases: []string{"drives", "df"},
		Short:   "List mounted volumes with their capacity",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := c.service()
			defer svc.Close()

			volumes, err := svc.Volumes()
			if err != nil {
				return fmt.Errorf("listing volumes: %w", err)
			}
			if c.jsonOutput() {
				return PrintJSON(volumes, c.stdout)
			}
			return PrintVolumes(volumes, svc.DefaultVolume(), c.stdout)
		},
	}
}

func (c *CLI) lsCommand() *cobra.Command {
	var (
		order string
		depth int
		tree  int
	)
	cmd := &cobra.Command{
		Use:   "ls [path]",
		Short: "List a directory with the size of every child",
		Long: heredoc.Doc(`
			List the immediate children of a directory. Directory sizes are
			aggregated a few levels deep (see --depth), so very deep trees are
			under-reported rather than slow.
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := model.ParseOrder(order)
			if err != nil {
				return err
			}
			svc := c.service(func(cfg *core.Config) {
				cfg.List.Depth = depth
			})
			defer svc.Close()

			path := firstArg(args, ".")
			if tree > 0 {
				root, err := svc.Tree(cmd.Context(), path, tree)
				if err != nil {
					return err
				}
				if c.jsonOutput() {
					return PrintJSON(root, c.stdout)
				}
				return PrintTree(root, c.stdout)
			}

			result, err := svc.ListDirectory(cmd.Context(), path, o)
			if err != nil {
				return err
			}
			if c.jsonOutput() {
				return PrintJSON(result, c.stdout)
			}
			return PrintEntries(result, c.stdout)
		},
	}
	cmd.Flags().StringVar(&order, "order", "size", "Sort order: size or dirs")
	cmd.Flags().IntVarP(&depth, "depth", "d", scanner.DefaultListDepth, "Levels aggregated below each child directory")
	cmd.Flags().IntVar(&tree, "tree", 0, "Attach children down to this many levels (0 = flat listing)")
	return cmd
}

func (c *CLI) scanCommand() *cobra.Command {
	var (
		deep          bool
		depth         int
		oneFileSystem bool
		top           int
		minSize       sizeFlag
	)
	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Measure the top-level entries of a directory, or its largest files",
		Long: heredoc.Doc(`
			Scan a directory in the background with a bounded worker pool.

			By default every immediate child is measured, directories down to
			--depth levels. With --deep the whole tree is walked and individual
			files are reported; --min-size then defaults to 500MiB.
		`),
		Example: heredoc.Doc(`
			sizescope scan /var
			sizescope scan --deep --min-size 1GiB ~
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := scanner.ModeTopLevel
			if deep {
				mode = scanner.ModeDeep
				if !cmd.Flags().Changed("min-size") {
					minSize.value = scanner.LargeItemThreshold
				}
			}

			svc := c.service(func(cfg *core.Config) {
				cfg.Scan.ScanDepth = depth
				cfg.Scan.OneFileSystem = oneFileSystem
			})
			defer svc.Close()

			sink := core.NewChannelSink(64)
			ack, err := svc.StartScan(cmd.Context(), firstArg(args, "."), mode, sink, core.WithMinSize(minSize.value))
			if err != nil {
				return err
			}

			progress := newProgressLine(c.stderr, !c.jsonOutput() && !c.opts.Debug)
			var (
				result  model.Result
				scanErr error
			)
			for ev := range sink.Events() {
				switch ev := ev.(type) {
				case core.ScanProgressEvent:
					progress.update(ev.ProgressEvent)
				case core.ScanCompletedEvent:
					result, scanErr = ev.Result, ev.Err
				}
			}
			progress.clear()
			if scanErr != nil {
				return fmt.Errorf("scan %s: %w", ack.ID, scanErr)
			}

			if top > 0 && len(result) > top {
				result = result[:top]
			}
			if c.jsonOutput() {
				return PrintJSON(result, c.stdout)
			}
			if err := PrintEntries(result, c.stdout); err != nil {
				return err
			}
			if state, ok := svc.Scan(ack.ID); ok {
				fmt.Fprintf(c.stdout, "Scanned %d entries in %v", state.FilesScanned, state.Elapsed())
				if state.Skipped > 0 {
					fmt.Fprintf(c.stdout, ", %d skipped", state.Skipped)
				}
				fmt.Fprintln(c.stdout)
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.BoolVar(&deep, "deep", false, "Walk the whole tree and report individual files")
	flags.Var(&minSize, "min-size", "Drop entries smaller than this (e.g. 100MB, 1GiB)")
	flags.IntVarP(&depth, "depth", "d", scanner.DefaultScanDepth, "Levels aggregated below each top-level directory")
	flags.BoolVarP(&oneFileSystem, "one-file-system", "x", false, "Do not cross into other mounts in deep scans")
	flags.IntVarP(&top, "top", "t", 0, "Show only the N largest entries (0 = all)")
	return cmd
}

func (c *CLI) removeCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "rm path...",
		Aliases: []string{"delete"},
		Short:   "Permanently delete files or directories",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := c.service()
			defer svc.Close()

			if !yes {
				if err := c.confirm(fmt.Sprintf("Permanently delete %s?", strings.Join(args, ", "))); err != nil {
					return err
				}
			}

			var removed []core.Removal
			for _, path := range args {
				r, err := svc.Delete(cmd.Context(), path)
				if err != nil {
					return err
				}
				removed = append(removed, r)
			}
			return c.printRemovals(removed, svc.Freed())
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func (c *CLI) trashCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "trash path...",
		Short: "Move files or directories to the trash",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := c.service()
			defer svc.Close()

			var removed []core.Removal
			for _, path := range args {
				r, err := svc.Trash(cmd.Context(), path)
				if err != nil {
					return err
				}
				removed = append(removed, r)
			}
			return c.printRemovals(removed, svc.Freed())
		},
	}
}

func (c *CLI) printRemovals(removed []core.Removal, freed core.FreedState) error {
	if c.jsonOutput() {
		return PrintJSON(struct {
			Removed      []core.Removal `json:"removed"`
			SessionFreed uint64         `json:"session_freed"`
			TotalFreed   uint64         `json:"total_freed"`
		}{removed, freed.Session, freed.Lifetime}, c.stdout)
	}
	for _, r := range removed {
		verb := "Deleted"
		if r.Trashed {
			verb = "Trashed"
		}
		fmt.Fprintf(c.stdout, "%s %s (%s)\n", verb, r.Path, model.FormatBytes(r.Bytes))
	}
	fmt.Fprintf(c.stdout, "Freed %s in total\n", model.FormatBytes(freed.Lifetime))
	return nil
}

var errNotConfirmed = errors.New("not confirmed")

// confirm asks a yes/no question on the terminal. Without a terminal
// there is nobody to ask, so it refuses.
func (c *CLI) confirm(question string) error {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return errors.New("refusing to delete without a terminal; pass --yes")
	}
	fmt.Fprintf(c.stderr, "%s [y/N] ", question)
	answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return nil
	}
	return errNotConfirmed
}
