package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/gravtrail/internal/analysis"
	"github.com/san-kum/gravtrail/internal/config"
	"github.com/san-kum/gravtrail/internal/export"
	"github.com/san-kum/gravtrail/internal/gui"
	"github.com/san-kum/gravtrail/internal/metrics"
	"github.com/san-kum/gravtrail/internal/sim"
	"github.com/san-kum/gravtrail/internal/storage"
	"github.com/san-kum/gravtrail/internal/viz"
)

var (
	dataDir string
	verbose bool
	logFile string
	// Scene selection
	presetName string
	configFile string
	seed       int64
	ticks      int
	sweepTicks int
	benchTicks int
	shotTicks  int
	chaosTicks int
	trailCap   int
	gravity    float64
	// Recording
	every  int
	noSave bool
	// Live view
	frameRate int
	theme     string
	speed     int
	gifPath   string
	// Output
	outFile string
	svgSize int
	// Analysis
	bodyName     string
	perturbation float64
	numRuns      int
	force        bool
	sweepPreset  string
	// Tuning
	tuneMetric    string
	tuneTicks     int
	tuneGravity   []float64
	tuneSoftening []float64
	tuneFriction  []float64
	trials        int
	mcTicks       int
	mcJitter      float64

	logger *log.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gravtrail",
		Short: "2D gravitational n-body simulator with trails",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = newLogger(os.Stderr)
		},
		RunE: runPicker,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gravtrail", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs of terminal views to this file")
	rootCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")
	rootCmd.Flags().StringVar(&theme, "theme", "cosmos", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	rootCmd.Flags().Int64Var(&seed, "seed", config.DefaultSeed, "random seed for presets")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a scene headless and save the recording",
		RunE:  runSimulation,
	}
	sceneFlags(runCmd)
	runCmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "ticks to simulate")
	runCmd.Flags().IntVar(&every, "every", 1, "record every n ticks")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().StringVarP(&outFile, "svg", "o", "", "write final trails as svg")
	runCmd.Flags().IntVar(&svgSize, "size", 700, "svg size in pixels")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "watch a scene in the terminal",
		RunE:  runLive,
	}
	sceneFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")
	liveCmd.Flags().StringVar(&theme, "theme", "cosmos", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	liveCmd.Flags().IntVar(&speed, "speed", 1, "ticks per frame")
	liveCmd.Flags().StringVar(&gifPath, "gif", "gravtrail.gif", "where g saves the recording")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "open a scene in a window",
		RunE:  runGUI,
	}
	sceneFlags(guiCmd)

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "render a scene after some ticks",
		RunE:  snapshot,
	}
	sceneFlags(snapshotCmd)
	snapshotCmd.Flags().IntVar(&shotTicks, "ticks", 300, "ticks to simulate before drawing")
	snapshotCmd.Flags().StringVar(&theme, "theme", "cosmos", "color theme")
	snapshotCmd.Flags().StringVarP(&outFile, "output", "o", "", "write svg instead of printing")

	chaosCmd := &cobra.Command{
		Use:   "chaos",
		Short: "estimate the largest lyapunov exponent of one body",
		RunE:  chaos,
	}
	sceneFlags(chaosCmd)
	chaosCmd.Flags().IntVar(&chaosTicks, "ticks", 1000, "ticks to integrate")
	chaosCmd.Flags().StringVar(&bodyName, "body", "", "body to perturb (default: first movable)")
	chaosCmd.Flags().Float64Var(&perturbation, "perturbation", 1e-6, "initial separation")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run a preset under consecutive seeds in parallel",
		RunE:  sweep,
	}
	sweepCmd.Flags().StringVar(&sweepPreset, "preset", "scatter", "preset name")
	sweepCmd.Flags().Int64Var(&seed, "seed", config.DefaultSeed, "first seed")
	sweepCmd.Flags().IntVar(&numRuns, "runs", 8, "number of seeds")
	sweepCmd.Flags().IntVar(&sweepTicks, "ticks", config.DefaultTicks, "ticks per run")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure ticks per second against body count",
		RunE:  bench,
	}
	benchCmd.Flags().IntVar(&benchTicks, "ticks", 1000, "ticks per measurement")
	benchCmd.Flags().Int64Var(&seed, "seed", config.DefaultSeed, "random seed")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search constants for the smallest metric",
		RunE:  tune,
	}
	sceneFlags(tuneCmd)
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "boundary_contacts", "metric to minimize")
	tuneCmd.Flags().IntVar(&tuneTicks, "ticks", 500, "ticks per grid point")
	tuneCmd.Flags().Float64SliceVar(&tuneGravity, "gravities", nil, "gravity values")
	tuneCmd.Flags().Float64SliceVar(&tuneSoftening, "softening", []float64{0.1, 0.3, 0.5}, "softening values")
	tuneCmd.Flags().Float64SliceVar(&tuneFriction, "friction", []float64{0, 0.001, 0.01}, "friction values")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run the steps of a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	montecarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "jitter start positions and count runs that reach the wall",
		RunE:  monteCarlo,
	}
	sceneFlags(montecarloCmd)
	montecarloCmd.Flags().IntVar(&trials, "trials", 50, "number of trials")
	montecarloCmd.Flags().IntVar(&mcTicks, "ticks", 1000, "ticks per trial")
	montecarloCmd.Flags().Float64Var(&mcJitter, "jitter", 0.01, "maximum jitter per axis")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenes",
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "scene configuration files",
	}
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a preset as a yaml scene",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}
	initCmd.Flags().StringVar(&presetName, "preset", "default", "preset to write")
	initCmd.Flags().Int64Var(&seed, "seed", config.DefaultSeed, "random seed")
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	configCmd.AddCommand(initCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot body coordinates over time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "orbit period and frequency analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&bodyName, "body", "", "body to analyze (default: first movable)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write recorded positions as csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "write a run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw recorded paths as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default: <run_id>.svg)")
	exportSVGCmd.Flags().IntVar(&svgSize, "size", 700, "size in pixels")

	rootCmd.AddCommand(runCmd, liveCmd, guiCmd, snapshotCmd, chaosCmd, sweepCmd, benchCmd,
		tuneCmd, scenarioCmd, montecarloCmd, presetsCmd, configCmd, listCmd, plotCmd, analyzeCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func sceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&presetName, "preset", "default", "preset name")
	cmd.Flags().StringVar(&configFile, "config", "", "scene file (yaml), overrides --preset")
	cmd.Flags().Int64Var(&seed, "seed", config.DefaultSeed, "random seed")
	cmd.Flags().IntVar(&trailCap, "trail", config.DefaultConstants().TrailCapacity, "trail length in samples")
	cmd.Flags().Float64Var(&gravity, "gravity", config.DefaultConstants().Gravity, "gravitational constant")
}

func newLogger(w io.Writer) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "gravtrail",
	})
	if verbose {
		l.SetLevel(log.DebugLevel)
	}
	return l
}

// viewLogger returns the logger for full-screen terminal views, which
// would be garbled by writes to stderr.
func viewLogger() (*log.Logger, func(), error) {
	if logFile == "" {
		return log.New(io.Discard), func() {}, nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	return newLogger(f), func() { f.Close() }, nil
}

// loadConfig resolves the scene from --config or --preset and applies the
// flags the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = c
		if cmd.Flags().Changed("seed") {
			cfg.Seed = seed
		}
	} else {
		cfg = config.GetPreset(presetName, seed)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q (available: %s)", presetName, strings.Join(config.ListPresets(), ", "))
		}
	}

	if cmd.Flags().Changed("ticks") {
		n, err := cmd.Flags().GetInt("ticks")
		if err != nil {
			return nil, err
		}
		cfg.Ticks = n
	}
	if cmd.Flags().Changed("trail") {
		cfg.Constants.TrailCapacity = trailCap
	}
	if cmd.Flags().Changed("gravity") {
		cfg.Constants.Gravity = gravity
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("scene loaded", "name", cfg.Name, "bodies", len(cfg.Bodies), "seed", cfg.Seed, "ticks", cfg.Ticks)
	return cfg, nil
}

func runPicker(cmd *cobra.Command, args []string) error {
	lg, closeLog, err := viewLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	names := config.ListPresets()
	presets := make([]viz.PresetInfo, len(names))
	for i, name := range names {
		presets[i] = viz.PresetInfo{Name: name, Description: config.Descriptions[name]}
	}

	builder := func(name string) viz.Builder {
		return func() (*sim.Simulator, error) {
			cfg := config.GetPreset(name, seed)
			if cfg == nil {
				return nil, fmt.Errorf("unknown preset %q", name)
			}
			return cfg.Build()
		}
	}

	picker := viz.NewPicker(presets, builder, viz.Options{FPS: frameRate, Theme: theme, Logger: lg})
	_, err = tea.NewProgram(picker, tea.WithAltScreen()).Run()
	return err
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if every <= 0 {
		return fmt.Errorf("--every must be positive, got %d", every)
	}

	s, err := cfg.Build()
	if err != nil {
		return err
	}
	s.SetLogger(logger)
	for _, m := range metrics.Default() {
		s.AddMetric(m)
	}
	rec := storage.NewRecorder(s.Registry(), every)
	s.AddObserver(rec)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	result, err := s.Run(ctx, cfg.Ticks)
	if err != nil {
		if !errors.Is(err, context.Canceled) || result == nil {
			return err
		}
		logger.Warn("interrupted, keeping partial run", "ticks", result.Ticks)
	}
	logger.Info("simulation complete",
		"ticks", result.Ticks,
		"elapsed", time.Since(start).Round(time.Millisecond),
		"clamped", result.Clamped,
		"degenerate", result.Degenerate)

	if outFile != "" {
		svg := export.TrailsToSVG(export.RegistryTracks(s.Registry()), svgSize)
		if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
			return err
		}
		logger.Info("wrote trails", "path", outFile)
	}

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		meta := storage.Describe(cfg.Name, cfg.Seed, s.Registry(), s.Constants())
		meta.Ticks = result.Ticks
		meta.Metrics = result.Metrics
		id, err := st.Save(meta, rec.Recording())
		if err != nil {
			return err
		}
		fmt.Printf("run: %s\n", id)
	}

	return printMetrics(result.Metrics)
}

func printMetrics(values map[string]float64) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%.6g\n", name, values[name])
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	lg, closeLog, err := viewLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	m, err := viz.NewModel(cfg.Build, viz.Options{
		Title:         cfg.Name,
		FPS:           frameRate,
		Theme:         theme,
		TicksPerFrame: speed,
		GIFPath:       gifPath,
		Logger:        lg,
	})
	if err != nil {
		return err
	}

	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return gui.Run(cfg.Build, logger)
}

func snapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := cfg.Build()
	if err != nil {
		return err
	}
	if shotTicks > 0 {
		if _, err := s.Run(context.Background(), shotTicks); err != nil {
			return err
		}
	}

	canvas := viz.NewCanvas(60, 30)
	canvas.DrawRegistry(s.Registry())

	if outFile == "" {
		fmt.Println(viz.RenderCanvas(canvas, viz.GetTheme(theme)))
		return nil
	}
	if err := os.WriteFile(outFile, []byte(export.CanvasToSVG(canvas, 6)), 0644); err != nil {
		return err
	}
	logger.Info("wrote snapshot", "path", outFile, "tick", s.Tick())
	return nil
}

func chaos(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	body := -1
	for i, b := range cfg.Bodies {
		if (bodyName == "" && !b.Fixed) || (bodyName != "" && b.Name == bodyName) {
			body = i
			break
		}
	}
	if body < 0 {
		if bodyName == "" {
			return fmt.Errorf("scene %q has no movable body", cfg.Name)
		}
		return fmt.Errorf("no body named %q", bodyName)
	}

	lambda, err := analysis.LyapunovExponent(cfg.Build, body, perturbation, chaosTicks)
	if err != nil {
		return err
	}

	fmt.Printf("scene: %s\n", cfg.Name)
	fmt.Printf("body: %s\n", cfg.Bodies[body].Name)
	fmt.Printf("ticks: %d\n", chaosTicks)
	fmt.Printf("lyapunov exponent: %.6f per tick\n", lambda)
	if lambda > 0 {
		fmt.Printf("separation e-folds every %.1f ticks\n", 1/lambda)
	}
	return nil
}

func sweep(cmd *cobra.Command, args []string) error {
	if config.GetPreset(sweepPreset, seed) == nil {
		return fmt.Errorf("unknown preset %q", sweepPreset)
	}

	build := func(s int64) (*sim.Simulator, error) {
		sm, err := config.GetPreset(sweepPreset, s).Build()
		if err != nil {
			return nil, err
		}
		for _, m := range metrics.Default() {
			sm.AddMetric(m)
		}
		return sm, nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	runs, err := sim.NewEnsemble(build, numRuns, seed).Run(ctx, sweepTicks)
	if err != nil {
		return err
	}
	logger.Info("sweep complete", "preset", sweepPreset, "runs", len(runs), "elapsed", time.Since(start).Round(time.Millisecond))

	var names []string
	for name := range runs[0].Result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "SEED\tCLAMPED\t%s\n", strings.ToUpper(strings.Join(names, "\t")))
	for _, run := range runs {
		fmt.Fprintf(w, "%d\t%d", run.Seed, run.Result.Clamped)
		for _, name := range names {
			fmt.Fprintf(w, "\t%.4g", run.Result.Metrics[name])
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

func bench(cmd *cobra.Command, args []string) error {
	counts := []int{5, 10, 25, 50, 100}

	fmt.Printf("benchmarking %d ticks\n\n", benchTicks)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODIES\tTICKS\tTIME\tTICKS/SEC\tPAIRS/SEC")

	for _, n := range counts {
		s, err := config.Scatter(seed, n-1).Build()
		if err != nil {
			return err
		}

		start := time.Now()
		result, err := s.Run(context.Background(), benchTicks)
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		perSec := float64(result.Ticks) / elapsed.Seconds()
		pairs := float64(n * (n - 1))
		fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\t%.3g\n", n, result.Ticks, elapsed.Round(time.Microsecond), perSec, perSec*pairs)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBODIES\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name, config.DefaultSeed)
		fmt.Fprintf(w, "%s\t%d\t%s\n", name, len(cfg.Bodies), config.Descriptions[name])
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := "gravtrail.yaml"
	if len(args) == 1 {
		path = args[0]
	}

	cfg := config.GetPreset(presetName, seed)
	if cfg == nil {
		return fmt.Errorf("unknown preset %q", presetName)
	}

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force)", path)
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d bodies)\n", path, len(cfg.Bodies))
	return nil
}
