package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/cansight/cansight"
	"github.com/cansight/cansight/internal/cliconfig"
	"github.com/cansight/cansight/internal/export"
	"github.com/cansight/cansight/internal/workspace"
	"github.com/cansight/cansight/pkg/log"
	"github.com/cansight/cansight/plugins/reloadwatch"
)

const helpDescription = `
Decode CAN bus log signals against a DBC database from the command line.

Highlights:
  - Lists messages and signals, marking those present in the loaded log.
  - Exports selected signals as CSV (interpolated) or partial JSON (raw).
  - Computes cursor statistics: count, mean, min, max, standard deviation.
  - Restores saved workspaces; configure via file, env, or flags.
`

var exampleUsage = strings.TrimSpace(`
  cansight signals --log drive.log --dbc vehicle.dbc
  cansight export csv --log drive.log --dbc vehicle.dbc --signals Engine.Speed,Engine.Temp --out drive.csv
  cansight stats --workspace session.workspace --from 1.5 --to 4.0
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// cli carries the assembled configuration and flag bookkeeping shared by
// the subcommands.
type cli struct {
	cfg     cliconfig.Config
	cfgPath string
	logger  log.Logger

	signals string
	from    float64
	to      float64
}

func main() {
	app := &cli{cfg: cliconfig.DefaultConfig(), logger: cliconfig.Logger()}

	root := &cobra.Command{
		Use:     "cansight",
		Short:   "Decode CAN bus log signals against a DBC database",
		Long:    strings.TrimSpace(helpDescription),
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.loadConfig(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&app.cfgPath, "config", "", "path to config file (default: $HOME/.cansight/config.toml)")
	pf.StringVar(&app.cfg.LogPath, "log", app.cfg.LogPath, "CAN log file (candump text format)")
	pf.StringVar(&app.cfg.DatabasePath, "dbc", app.cfg.DatabasePath, "DBC database file")
	pf.StringVar(&app.cfg.WorkspacePath, "workspace", app.cfg.WorkspacePath, "workspace file to restore before running")
	pf.IntVar(&app.cfg.MaxGraphs, "max-graphs", app.cfg.MaxGraphs, "maximum number of selected signals (1-10)")
	pf.BoolVar(&app.cfg.DarkTheme, "dark-theme", app.cfg.DarkTheme, "record the dark theme flag in saved workspaces")
	pf.BoolVar(&app.cfg.Watch, "watch", app.cfg.Watch, "reload sources when the files change (long-running commands)")
	pf.BoolVar(&app.cfg.Verbose, "verbose", app.cfg.Verbose, "enable debug logging")

	root.AddCommand(
		app.signalsCmd(),
		app.infoCmd(),
		app.statsCmd(),
		app.exportCmd(),
		app.workspaceCmd(),
		app.watchCmd(),
	)

	if err := root.Execute(); err != nil {
		app.logger.Error("cansight", log.Err(err))
		os.Exit(1)
	}
}

// loadConfig layers config file and environment under explicitly-set flags.
func (a *cli) loadConfig(cmd *cobra.Command) error {
	cfgFile := a.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })
	cmd.Root().PersistentFlags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&a.cfg, fc, changed); err != nil {
			return err
		}
	}

	cliconfig.ApplyEnvConfig(&a.cfg, changed)

	if err := a.cfg.Validate(); err != nil {
		return err
	}

	level := zerolog.InfoLevel
	if a.cfg.Verbose {
		level = zerolog.DebugLevel
	}
	a.logger = log.NewZerologAdapterWithLogger(log.NewZerologAdapter().Logger().Level(level))
	return nil
}

// openSession builds a session from the assembled configuration, restoring
// the workspace or opening the log/database files directly.
func (a *cli) openSession(extra ...cansight.Option) (*cansight.Session, error) {
	opts := append([]cansight.Option{cansight.WithLogger(a.logger)}, extra...)
	sess, err := cansight.New(
		cansight.Config{MaxGraphs: a.cfg.MaxGraphs, DarkTheme: a.cfg.DarkTheme},
		opts...,
	)
	if err != nil {
		return nil, err
	}

	if a.cfg.WorkspacePath != "" {
		if err := sess.LoadWorkspace(a.cfg.WorkspacePath); err != nil {
			return nil, fmt.Errorf("restore workspace: %w", err)
		}
	}
	if a.cfg.LogPath != "" {
		if err := sess.OpenLog(a.cfg.LogPath); err != nil {
			return nil, err
		}
	}
	if a.cfg.DatabasePath != "" {
		if err := sess.OpenDatabase(a.cfg.DatabasePath); err != nil {
			return nil, err
		}
	}

	if a.signals != "" {
		sess.ClearSelection()
		keys, err := parseKeys(a.signals)
		if err != nil {
			return nil, err
		}
		for _, key := range keys {
			if err := sess.Select(key); err != nil {
				return nil, err
			}
		}
	}

	if a.cursorsSet() {
		sess.SetCursors(a.from, a.to)
	}
	return sess, nil
}

func (a *cli) cursorsSet() bool {
	return !math.IsNaN(a.from) && !math.IsNaN(a.to)
}

func (a *cli) interval() *cansight.Interval {
	if !a.cursorsSet() {
		return nil
	}
	lo, hi := a.from, a.to
	if hi < lo {
		lo, hi = hi, lo
	}
	return &cansight.Interval{Start: lo, End: hi}
}

// addRangeFlags registers the --from/--to cursor flags on cmd.
func (a *cli) addRangeFlags(cmd *cobra.Command) {
	a.from = math.NaN()
	a.to = math.NaN()
	cmd.Flags().Float64Var(&a.from, "from", a.from, "first cursor position in seconds")
	cmd.Flags().Float64Var(&a.to, "to", a.to, "second cursor position in seconds")
}

func (a *cli) signalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signals",
		Short: "List database messages and signals, marking log availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.openSession()
			if err != nil {
				return err
			}

			messages := sess.Messages()
			if len(messages) == 0 {
				return fmt.Errorf("no database loaded (use --dbc)")
			}
			available := make(map[uint32]bool)
			for _, def := range sess.Available() {
				available[def.ID] = true
			}

			for _, msg := range messages {
				marker := " "
				if available[msg.ID] {
					marker = "*"
				}
				fmt.Printf("%s %s (0x%03X, %d bytes)\n", marker, msg.Name, msg.ID, msg.Length)
				for _, sig := range sess.SignalsOf(msg.Name) {
					unit := sig.Unit
					if unit == "" {
						unit = "-"
					}
					fmt.Printf("    %-30s bits %3d+%-2d  scale %g offset %g  unit %s\n",
						sig.Name, sig.Start, sig.Length, sig.Scale, sig.Offset, unit)
				}
			}
			if len(available) > 0 {
				fmt.Println("\n* message present in the loaded log")
			}
			return nil
		},
	}
}

func (a *cli) infoCmd() *cobra.Command {
	var raw int
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show loaded file information",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.openSession()
			if err != nil {
				return err
			}

			info := sess.Info()
			if info.LogPath != "" {
				fmt.Printf("Log:      %s\n", info.LogPath)
				fmt.Printf("  frames:   %d\n", info.FrameCount)
				fmt.Printf("  duration: %.3fs\n", info.Duration)
				fmt.Printf("  ids:      %d\n", info.UniqueIDs)
			}
			if info.DatabasePath != "" {
				fmt.Printf("Database: %s\n", info.DatabasePath)
				fmt.Printf("  messages: %d\n", info.MessageCount)
				fmt.Printf("  signals:  %d\n", info.SignalCount)
			}
			if info.LogPath != "" && info.DatabasePath != "" {
				fmt.Printf("Matched:  %d messages\n", info.MatchedCount)
			}

			if raw > 0 {
				frames, err := sess.RawFrames(raw)
				if err != nil {
					return err
				}
				fmt.Println()
				for _, f := range frames {
					fmt.Printf("%12.6f  %s  [%d]  %s\n", f.Timestamp, f.IDHex(), f.DLC(), f.DataHex())
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&raw, "raw", 0, "also dump the first N raw frames")
	return cmd
}

func (a *cli) statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Compute cursor statistics for the selected signals",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.openSession()
			if err != nil {
				return err
			}

			all, err := sess.StatsAll()
			if err != nil {
				return err
			}
			if len(all) == 0 {
				fmt.Println("no data in cursor range")
				return nil
			}

			keys := sess.Selected()
			for _, key := range keys {
				stats, ok := all[key]
				if !ok {
					fmt.Printf("%s: no data in range\n", key)
					continue
				}
				fmt.Printf("%s  [%.3fs .. %.3fs]\n", key, stats.Interval.Start, stats.Interval.End)
				fmt.Printf("  count: %d\n", stats.Count)
				fmt.Printf("  mean:  %.3f\n", stats.Mean)
				fmt.Printf("  min:   %.3f\n", stats.Min)
				fmt.Printf("  max:   %.3f\n", stats.Max)
				fmt.Printf("  std:   %.3f\n", stats.StdDev)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&a.signals, "signals", "", "comma-separated Message.Signal keys")
	a.addRangeFlags(cmd)
	return cmd
}

func (a *cli) exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export selected signals",
	}

	var out string

	csvCmd := &cobra.Command{
		Use:   "csv",
		Short: "Export as CSV with a unified, interpolated time base",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.openSession()
			if err != nil {
				return err
			}
			if err := sess.ExportCSV(out, a.interval()); err != nil {
				return err
			}
			a.logger.Info("csv written", log.String("path", out))
			return nil
		},
	}
	csvCmd.Flags().StringVar(&out, "out", "", "output file path")
	csvCmd.Flags().StringVar(&a.signals, "signals", "", "comma-separated Message.Signal keys")
	a.addRangeFlags(csvCmd)
	_ = csvCmd.MarkFlagRequired("out")

	rangeCmd := &cobra.Command{
		Use:   "range",
		Short: "Export the two-cursor range as partial JSON (raw samples)",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.openSession()
			if err != nil {
				return err
			}
			if a.cursorsSet() {
				sess.SetCursors(a.from, a.to)
			}
			if err := sess.ExportRange(out); err != nil {
				return err
			}
			a.logger.Info("partial export written", log.String("path", out))
			return nil
		},
	}
	rangeCmd.Flags().StringVar(&out, "out", "", "output file path")
	rangeCmd.Flags().StringVar(&a.signals, "signals", "", "comma-separated Message.Signal keys")
	a.addRangeFlags(rangeCmd)
	_ = rangeCmd.MarkFlagRequired("out")

	showCmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Summarize a partial export file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := export.ReadSummary(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Exported:  %s (%s %s)\n",
				summary.Metadata.ExportDate, summary.Metadata.AppName, summary.Metadata.AppVersion)
			if summary.Metadata.LogPath != "" {
				fmt.Printf("Log:       %s\n", summary.Metadata.LogPath)
			}
			if summary.Metadata.DatabasePath != "" {
				fmt.Printf("Database:  %s\n", summary.Metadata.DatabasePath)
			}
			fmt.Printf("Range:     %.3fs .. %.3fs (%.3fs)\n",
				summary.TimeRange.Start, summary.TimeRange.End, summary.TimeRange.Duration)
			fmt.Printf("Signals:   %d\n", summary.SignalCount)
			for _, name := range summary.SignalNames {
				fmt.Printf("  %s\n", name)
			}
			return nil
		},
	}

	cmd.AddCommand(csvCmd, rangeCmd, showCmd)
	return cmd
}

func (a *cli) workspaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workspace",
		Short: "Inspect and update workspace files",
	}

	showCmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Print the contents of a workspace file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := workspace.Load(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Log:       %s\n", doc.LogPath)
			fmt.Printf("Database:  %s\n", doc.DatabasePath)
			fmt.Printf("Graphs:    %d\n", doc.GraphCount)
			fmt.Printf("Dark:      %v\n", doc.DarkTheme)
			if len(doc.Cursors) > 0 {
				fmt.Printf("Cursors:   %v\n", doc.Cursors)
			}
			if doc.View != nil {
				fmt.Printf("View:      [%.3f .. %.3f]\n", doc.View.XMin, doc.View.XMax)
			}
			fmt.Printf("Selected:  %d\n", len(doc.Selected))
			for _, key := range doc.Selected {
				fmt.Printf("  %s\n", key)
			}
			return nil
		},
	}

	saveCmd := &cobra.Command{
		Use:   "save <file>",
		Short: "Save the assembled session state as a workspace file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.openSession()
			if err != nil {
				return err
			}
			if err := sess.SaveWorkspace(args[0]); err != nil {
				return err
			}
			a.logger.Info("workspace saved", log.String("path", args[0]))
			return nil
		},
	}
	saveCmd.Flags().StringVar(&a.signals, "signals", "", "comma-separated Message.Signal keys")
	a.addRangeFlags(saveCmd)

	cmd.AddCommand(showCmd, saveCmd)
	return cmd
}

func (a *cli) watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the loaded sources, reloading them on change",
		Long: strings.TrimSpace(`
Runs until interrupted. The log and database files are watched for
changes; on every change the files are re-read and all cached series
are invalidated, so later commands against the same workspace see
fresh data.`),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.openSession(reloadwatch.WithReloadWatcher(reloadwatch.DefaultConfig()))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := sess.Start(ctx); err != nil {
				return err
			}
			defer sess.Stop()

			info := sess.Info()
			a.logger.Info("watching sources",
				log.String("log", info.LogPath),
				log.String("dbc", info.DatabasePath),
				log.Int("frames", info.FrameCount))

			<-ctx.Done()
			a.logger.Info("shutting down")
			return nil
		},
	}
	cmd.Flags().StringVar(&a.signals, "signals", "", "comma-separated Message.Signal keys")
	a.addRangeFlags(cmd)
	return cmd
}

// parseKeys parses a comma-separated list of Message.Signal keys.
func parseKeys(s string) ([]cansight.SignalKey, error) {
	var keys []cansight.SignalKey
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		dot := strings.Index(part, ".")
		if dot <= 0 || dot == len(part)-1 {
			return nil, fmt.Errorf("bad signal key %q, expected Message.Signal", part)
		}
		keys = append(keys, cansight.SignalKey{
			Message: part[:dot],
			Signal:  part[dot+1:],
		})
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("no signal keys given")
	}
	return keys, nil
}
