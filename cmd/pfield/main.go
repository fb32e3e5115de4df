package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/pfield/internal/browser"
	"github.com/san-kum/pfield/internal/config"
	"github.com/san-kum/pfield/internal/gui"
	"github.com/san-kum/pfield/internal/logging"
	"github.com/san-kum/pfield/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	verbose    bool
	logFile    string
	logger     = zap.NewNop()

	count   int
	width   int
	height  int
	seed    int64
	band    string
	clamp   bool
	fps     int
	trail   bool
	burst   bool
	shapes  bool
	gifPath string
	watch   bool

	ticks       int
	sampleEvery int
	orbit       bool
	realtime    bool
	seeds       int
	outPath     string
)

// interactive commands own the terminal, so they only log to a file.
var interactive = map[string]bool{"pfield": true, "live": true}

func main() {
	rootCmd := &cobra.Command{
		Use:   "pfield",
		Short: "particle field simulator",
		Long: `pfield animates a field of drifting particles that link to their
neighbours and lean toward the pointer.

Run without arguments to pick a preset in the terminal.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path := logFile
			if path == "" && interactive[cmd.Name()] {
				return nil
			}
			l, err := logging.New(verbose, path)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			w, err := watcher(cmd)
			if err != nil {
				return err
			}
			if w != nil {
				defer w.Close()
			}
			return viz.RunMenu(viz.Options{Config: cfg, Logger: logger, GIFPath: gifPath, Watcher: w})
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".pfield", "data directory")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.StringVar(&logFile, "log-file", "", "write logs to this file")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the field in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			w, err := watcher(cmd)
			if err != nil {
				return err
			}
			if w != nil {
				defer w.Close()
			}
			return viz.Run(viz.Options{Config: cfg, Preset: preset, Logger: logger, GIFPath: gifPath, Watcher: w})
		},
	}
	fieldFlags(liveCmd)
	liveCmd.Flags().StringVar(&gifPath, "gif", "pfield.gif", "where G saves recordings")
	liveCmd.Flags().BoolVar(&watch, "watch", false, "restart the field when --config changes")
	rootCmd.Flags().AddFlagSet(liveCmd.Flags())

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run the field in a raylib window",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			return gui.Run(cfg, logger)
		},
	}
	fieldFlags(guiCmd)

	windowCmd := &cobra.Command{
		Use:   "window",
		Short: "run the field in an ebitengine window",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			return browser.Run(cfg, logger)
		},
	}
	fieldFlags(windowCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless session and save it",
		RunE:  runSession,
	}
	fieldFlags(runCmd)
	sessionFlags(runCmd)

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "run sessions for several seeds in parallel",
		RunE:  benchSessions,
	}
	fieldFlags(benchCmd)
	sessionFlags(benchCmd)
	benchCmd.Flags().IntVar(&seeds, "seeds", 8, "number of seeds")

	svgCmd := &cobra.Command{
		Use:   "svg",
		Short: "render the last frame of a headless session as svg",
		RunE:  renderSVG,
	}
	fieldFlags(svgCmd)
	sessionFlags(svgCmd)
	svgCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot mean speed and links of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write a run's frames as csv to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "write a run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		RunE:  listPresets,
	}

	rootCmd.AddCommand(liveCmd, guiCmd, windowCmd, runCmd, benchCmd, svgCmd,
		listCmd, plotCmd, exportCSVCmd, exportJSONCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func fieldFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "start from a preset")
	f.IntVarP(&count, "count", "n", config.DefaultCount, "number of particles")
	f.IntVar(&width, "width", config.DefaultWidth, "surface width")
	f.IntVar(&height, "height", config.DefaultHeight, "surface height")
	f.Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	f.StringVar(&band, "band", "ocean", "palette band")
	f.BoolVar(&clamp, "clamp", false, "clamp particles into the surface on resize")
	f.IntVar(&fps, "fps", config.DefaultFPS, "ticks per second for interactive hosts")
	f.BoolVar(&trail, "trail", false, "pointer trail")
	f.BoolVar(&burst, "burst", false, "burst on click")
	f.BoolVar(&shapes, "shapes", false, "floating shapes")
}

func sessionFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&ticks, "ticks", 600, "ticks to simulate")
	f.IntVar(&sampleEvery, "sample", 10, "snapshot every n ticks")
	f.BoolVar(&orbit, "orbit", true, "circle a scripted pointer around the centre")
	f.BoolVar(&realtime, "realtime", false, "pace ticks at --fps instead of running flat out")
}

// resolveConfig applies preset, then config file, then explicitly set flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := baseConfig()
	if err != nil {
		return nil, err
	}

	if configFile != "" {
		if cfg, err = config.Merge(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("config resolved",
		zap.String("preset", preset),
		zap.String("config", configFile),
		zap.Int("count", cfg.Field.Count),
		zap.Int64("seed", cfg.Field.Seed),
	)
	return cfg, nil
}

func baseConfig() (*config.Config, error) {
	if preset == "" {
		return config.DefaultConfig(), nil
	}
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}
	return cfg, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("count") {
		cfg.Field.Count = count
	}
	if f.Changed("width") {
		cfg.Field.Width = width
	}
	if f.Changed("height") {
		cfg.Field.Height = height
	}
	if f.Changed("seed") {
		cfg.Field.Seed = seed
	}
	if f.Changed("band") {
		cfg.Palette.Band = band
		cfg.Palette.Custom = nil
	}
	if f.Changed("clamp") {
		cfg.Field.ClampOnResize = clamp
	}
	if f.Changed("fps") {
		cfg.Host.FPS = fps
	}
	if f.Changed("trail") {
		cfg.Effects.Trail.Enabled = trail
	}
	if f.Changed("burst") {
		cfg.Effects.Burst.Enabled = burst
	}
	if f.Changed("shapes") {
		cfg.Effects.Shapes.Enabled = shapes
	}
}

// watcher reloads --config for the live view when --watch is set.
func watcher(cmd *cobra.Command) (*config.Watcher, error) {
	if !watch {
		return nil, nil
	}
	if configFile == "" {
		return nil, fmt.Errorf("--watch needs --config")
	}
	base, err := baseConfig()
	if err != nil {
		return nil, err
	}
	w, err := config.NewWatcher(configFile, base, logger)
	if err != nil {
		return nil, err
	}
	w.Overrides = func(c *config.Config) { applyFlags(cmd, c) }
	return w, nil
}
