// filmstrip is a terminal timeline viewer. Events are laid out as
// year-grouped cards on a scrollable rail, above which a density minimap
// shows where events cluster over the whole time span and which slice of
// the rail is on screen.
//
// Usage:
//
//	filmstrip --in events.json
//	filmstrip view --demo 300 --curve
//	cat events.jsonl | filmstrip
//	filmstrip bins --in events.csv --width 600 --bin-count 10
package main

import (
	"errors"
	"io"
	"os"

	tui "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var version = "dev"

var errNoInput = errors.New("no input: pass --in FILE, pipe events on stdin, or use --demo N")

func main() {
	root, closeLog := newRootCmd(&config)
	err := root.Execute()
	if cerr := closeLog(); err == nil {
		err = cerr
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. The returned func closes the log file
// opened while running and must be called once Execute returns, whether or
// not it failed.
func newRootCmd(cfg *Config) (*cobra.Command, func() error) {
	var (
		configPath string
		logFile    io.Closer
	)
	closeLog := func() error {
		if logFile == nil {
			return nil
		}
		f := logFile
		logFile = nil
		return f.Close()
	}

	root := &cobra.Command{
		Use:   "filmstrip",
		Short: "Browse a timeline of events with a density minimap",
		Long: `filmstrip lays out time-stamped events as year-grouped cards on a
horizontally scrollable rail. A heatmap of event density across the whole
timeline sits above the rail; click or drag its viewport to navigate.

Events are read from --in, generated with --demo N, or read from stdin
when it is not a terminal. Supported formats: JSON array, JSON lines, YAML
and CSV (header with at least a "date" column).`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				if err := applyConfigFile(cmd.Flags(), configPath, cfg); err != nil {
					return err
				}
			}
			if err := validateAndNormalizeConfig(cfg); err != nil {
				return err
			}
			closer, err := setupLogging(cfg.LogFile)
			if err != nil {
				return err
			}
			logFile = closer
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cfg)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&configPath, "config", "", "YAML config file; explicitly set flags take precedence")
	f.StringVar(&cfg.InputPath, "in", cfg.InputPath, "Read events from this file instead of stdin")
	f.StringVar(&cfg.Format, "format", cfg.Format, "Input format: auto, json, jsonl, yaml, csv")
	f.IntVar(&cfg.Demo, "demo", cfg.Demo, "Generate this many sample events instead of reading stdin")
	f.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Seed for demo events and card patterns")
	f.IntVar(&cfg.BinCount, "bin-count", cfg.BinCount, "Density bins (0 = derive from minimap width)")
	f.Float64Var(&cfg.Heatmap.AlphaFloor, "alpha-floor", cfg.Heatmap.AlphaFloor, "Heatmap opacity of empty bins")
	f.Float64Var(&cfg.Heatmap.AlphaRange, "alpha-range", cfg.Heatmap.AlphaRange, "Heatmap opacity added at the densest bin")
	f.Float64Var(&cfg.Heatmap.AlphaGamma, "alpha-gamma", cfg.Heatmap.AlphaGamma, "Heatmap opacity curve exponent")
	f.StringVar(&cfg.Neon, "neon", cfg.Neon, "Accent color (hex)")
	f.StringVar(&cfg.Background, "background", cfg.Background, "Background color the heatmap blends from (hex)")
	f.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Write JSON logs to this file")
	f.IntVar(&cfg.TopTags, "top-tags", cfg.TopTags, "Number of tags listed as top and trending")
	f.IntVar(&cfg.TrendWindowYears, "trend-window", cfg.TrendWindowYears, "Trending tags look at this many most recent years")

	addViewFlags(root.Flags(), cfg)

	root.AddCommand(newViewCmd(cfg), newBinsCmd(cfg), newGroupsCmd(cfg), newTagsCmd(cfg))
	return root, closeLog
}

// addViewFlags registers the TUI-only flags. The root command and view share
// them.
func addViewFlags(f *pflag.FlagSet, cfg *Config) {
	f.IntVar(&cfg.MinimapHeight, "minimap-height", cfg.MinimapHeight, "Minimap heatmap height in pixels")
	f.Float64Var(&cfg.MinViewportWidth, "min-viewport-width", cfg.MinViewportWidth, "Smallest viewport indicator width in pixels")
	f.IntVar(&cfg.RailHeight, "rail-height", cfg.RailHeight, "Rail height in pixels (0 = derive from card size)")
	f.IntVar(&cfg.CellPx, "cell-px", cfg.CellPx, "Pixels per terminal column; rows are twice as tall")
	f.Float64Var(&cfg.Zoom, "zoom", cfg.Zoom, "Initial card zoom [0.6,1.6]")
	f.BoolVar(&cfg.Smooth, "smooth", cfg.Smooth, "Animate scrolling")
	f.BoolVar(&cfg.Curve, "curve", cfg.Curve, "Draw the density curve above the heatmap")
	f.BoolVar(&cfg.Stats, "stats", cfg.Stats, "Show widget stats")
	f.BoolVar(&cfg.AltScreen, "alt-screen", cfg.AltScreen, "Use the terminal alternate screen buffer")
}

func newViewCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Open the timeline viewer (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cfg)
		},
	}
	addViewFlags(cmd.Flags(), cfg)
	return cmd
}

// applyConfigFile loads path under the flags the user set explicitly.
func applyConfigFile(flags *pflag.FlagSet, path string, cfg *Config) error {
	explicit := make(map[string]string)
	flags.Visit(func(f *pflag.Flag) {
		explicit[f.Name] = f.Value.String()
	})
	if err := loadConfigFile(path, cfg); err != nil {
		return err
	}
	for name, value := range explicit {
		if err := flags.Set(name, value); err != nil {
			return err
		}
	}
	return nil
}

func newBinsCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bins",
		Short: "Print the density histogram",
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := loadInput(cfg)
			if err != nil {
				return err
			}
			d := ComputeDensity(SortEvents(events), float64(cfg.Width), cfg.BinCount, cfg.Heatmap)
			printBins(cmd.OutOrStdout(), d, cfg.Heatmap)
			return nil
		},
	}
	cmd.Flags().IntVar(&cfg.Width, "width", cfg.Width, "Minimap width in pixels used to derive the bin count")
	return cmd
}

func newGroupsCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "groups",
		Short: "Print events grouped by year",
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := loadInput(cfg)
			if err != nil {
				return err
			}
			printGroups(cmd.OutOrStdout(), GroupByYear(SortEvents(events)))
			return nil
		},
	}
}

func newTagsCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "Print top and trending tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := loadInput(cfg)
			if err != nil {
				return err
			}
			insights := ComputeTagInsights(SortEvents(events), cfg.TopTags, cfg.TrendWindowYears)
			printTags(cmd.OutOrStdout(), insights, cfg.TrendWindowYears)
			return nil
		},
	}
}

// inputSource picks where events come from: --in, then --demo, then piped stdin.
func inputSource(cfg *Config) (func() ([]TimelineEvent, error), error) {
	switch {
	case cfg.InputPath != "":
		path, format := cfg.InputPath, cfg.Format
		return func() ([]TimelineEvent, error) { return LoadEventsFile(path, format) }, nil
	case cfg.Demo > 0:
		n, seed := cfg.Demo, cfg.Seed
		return func() ([]TimelineEvent, error) { return DemoEvents(n, seed), nil }, nil
	case !term.IsTerminal(os.Stdin.Fd()):
		format := cfg.Format
		return func() ([]TimelineEvent, error) { return LoadEvents(os.Stdin, format) }, nil
	}
	return nil, errNoInput
}

func loadInput(cfg *Config) ([]TimelineEvent, error) {
	source, err := inputSource(cfg)
	if err != nil {
		return nil, err
	}
	return source()
}

func runView(cfg *Config) error {
	source, err := inputSource(cfg)
	if err != nil {
		return err
	}
	m := newTimeline(*cfg, source)
	opts := []tui.ProgramOption{tui.WithInputTTY(), tui.WithMouseCellMotion()}
	if cfg.AltScreen {
		opts = append(opts, tui.WithAltScreen())
	}
	_, err = tui.NewProgram(m, opts...).Run()
	return err
}
