// Package cli implements the sizescope command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/lumipallolabs/sizescope/internal/core"
	"github.com/lumipallolabs/sizescope/internal/logging"
	"github.com/lumipallolabs/sizescope/internal/scanner"
	"github.com/lumipallolabs/sizescope/internal/stats"
)

var allowedOutputs = []string{"table", "json"}

// Options holds the flags shared by every command
type Options struct {
	Output     string
	Debug      bool
	ShowHidden bool
	Workers    int
	Allocated  bool
	NoStats    bool
}

// CLI represents the command-line interface
type CLI struct {
	version string
	opts    Options
	stdout  io.Writer
	stderr  io.Writer
}

// New creates a new CLI instance with the given version
func New(version string) *CLI {
	return &CLI{version: version, stdout: os.Stdout, stderr: os.Stderr}
}

// Execute runs the command line with os.Args
func (c *CLI) Execute(ctx context.Context) error {
	return c.Command().ExecuteContext(ctx)
}

// Command builds the root command
func (c *CLI) Command() *cobra.Command {
	root := &cobra.Command{
		Use:   "sizescope",
		Short: "Find out what is using your disk space",
		Long: heredoc.Doc(`
			sizescope measures directory sizes concurrently and shows where the
			space on a volume went.

			Run without a command to open the interactive browser.
		`),
		Version:       c.version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !slices.Contains(allowedOutputs, c.opts.Output) {
				return fmt.Errorf("invalid output format %q: must be one of %v", c.opts.Output, allowedOutputs)
			}
			if c.opts.Debug {
				logging.SetOutput(c.stderr)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTUI(cmd.Context(), firstArg(args, ""))
		},
		Args: cobra.MaximumNArgs(1),
	}
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)

	flags := root.PersistentFlags()
	flags.SortFlags = false
	flags.StringVarP(&c.opts.Output, "output", "o", "table", "Output format: table or json")
	flags.BoolVarP(&c.opts.ShowHidden, "hidden", "a", false, "Include entries whose name starts with a dot")
	flags.IntVarP(&c.opts.Workers, "workers", "j", 0, "Size of the worker pool (0 = number of CPUs)")
	flags.BoolVar(&c.opts.Allocated, "allocated", false, "Measure blocks allocated on disk instead of file length")
	flags.BoolVar(&c.opts.NoStats, "no-stats", false, "Do not read or write the freed-space statistics file")
	flags.BoolVar(&c.opts.Debug, "debug", false, "Write debug logs to stderr")

	root.AddCommand(
		c.volumesCommand(),
		c.lsCommand(),
		c.scanCommand(),
		c.removeCommand(),
		c.trashCommand(),
		c.serveCommand(),
		c.tuiCommand(),
	)
	return root
}

// service builds the core service from the shared flags. adjust runs
// last, for command-specific settings.
func (c *CLI) service(adjust ...func(*core.Config)) *core.Service {
	cfg := core.DefaultConfig()
	cfg.Scan.ShowHidden = c.opts.ShowHidden
	cfg.List.ShowHidden = c.opts.ShowHidden
	if c.opts.Workers > 0 {
		cfg.Scan.Workers = c.opts.Workers
		cfg.List.Workers = c.opts.Workers
	}
	if c.opts.Allocated {
		cfg.Scan.SizeMode = scanner.SizeAllocated
		cfg.List.SizeMode = scanner.SizeAllocated
	}
	if !c.opts.NoStats {
		cfg.Stats = stats.NewManager()
	}
	for _, fn := range adjust {
		fn(&cfg)
	}
	return core.NewService(cfg)
}

func (c *CLI) jsonOutput() bool {
	return c.opts.Output == "json"
}

// sizeFlag registers a human-readable size flag and returns its parsed value
type sizeFlag struct {
	value uint64
}

func (s *sizeFlag) String() string {
	return humanize.IBytes(s.value)
}

func (s *sizeFlag) Set(v string) error {
	n, err := humanize.ParseBytes(v)
	if err != nil {
		return fmt.Errorf("invalid size %q: %w", v, err)
	}
	s.value = n
	return nil
}

func (s *sizeFlag) Type() string {
	return "size"
}

var _ pflag.Value = (*sizeFlag)(nil)

func firstArg(args []string, def string) string {
	if len(args) == 0 {
		return def
	}
	return args[0]
}
