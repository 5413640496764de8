package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/genviz/internal/analysis"
	"github.com/san-kum/genviz/internal/catalog"
	"github.com/san-kum/genviz/internal/config"
	"github.com/san-kum/genviz/internal/dynamo"
	"github.com/san-kum/genviz/internal/export"
	"github.com/san-kum/genviz/internal/flowfield"
	"github.com/san-kum/genviz/internal/gui"
	"github.com/san-kum/genviz/internal/metrics"
	"github.com/san-kum/genviz/internal/resources"
	"github.com/san-kum/genviz/internal/scene"
	"github.com/san-kum/genviz/internal/sim"
	"github.com/san-kum/genviz/internal/storage"
	"github.com/san-kum/genviz/internal/viz"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	width      float64
	height     float64
	pixelRatio float64
	frameRate  int
	seed       int64
	paused     bool
	assetBase  string
	// capture / bench / svg
	captureFrames int
	benchFrames   int
	svgFrames     int
	every         int
	pauseAt       int
	parallel      int
	outPath       string
	svgScale      float64
	noGIF         bool

	log = logrus.New()
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "genviz",
		Short:         "generative backdrops: fractals, automata, flow fields, starfields, embers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(cmd, nil)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".genviz", "capture directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "scene preset")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.Float64Var(&width, "width", config.DefaultWidth, "surface width in logical pixels")
	pf.Float64Var(&height, "height", config.DefaultHeight, "surface height in logical pixels")
	pf.Float64Var(&pixelRatio, "scale", config.DefaultPixelRatio, "device pixel ratio")
	pf.IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	pf.Int64Var(&seed, "seed", 1, "random seed")
	pf.BoolVar(&paused, "paused", false, "start with motion disabled")
	pf.StringVar(&assetBase, "asset-base", "", "base URL or directory for assets")

	guiCmd := &cobra.Command{
		Use:   "gui [scene]",
		Short: "open scenes in a window",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGUI,
	}

	tuiCmd := &cobra.Command{
		Use:   "tui [scene]",
		Short: "preview scenes in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTUI,
	}

	captureCmd := &cobra.Command{
		Use:   "capture [scene...]",
		Short: "render scenes headlessly and store stills and animations",
		RunE:  runCapture,
	}
	captureCmd.Flags().IntVar(&captureFrames, "frames", 120, "frames to render per scene")
	captureCmd.Flags().IntVar(&every, "every", 4, "keep every n-th frame for the animation (0 = still only)")
	captureCmd.Flags().IntVar(&pauseAt, "pause-at", 0, "disable motion before this frame (0 = never)")
	captureCmd.Flags().IntVar(&parallel, "parallel", 0, "scenes rendered at once (0 = all)")
	captureCmd.Flags().BoolVar(&noGIF, "no-gif", false, "store only the final still")

	benchCmd := &cobra.Command{
		Use:   "bench [scene]",
		Short: "measure frame times",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runBench,
	}
	benchCmd.Flags().IntVar(&benchFrames, "frames", 300, "frames to render")

	svgCmd := &cobra.Command{
		Use:   "svg [scene]",
		Short: "export a vector rendering (flowfield streamlines, or a braille dot map)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSVG,
	}
	svgCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	svgCmd.Flags().IntVar(&svgFrames, "frames", 60, "frames to render before exporting")
	svgCmd.Flags().Float64Var(&svgScale, "dot", 4, "dot spacing for braille exports")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list scenes",
		RunE:  listScenes,
	}

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list stored captures",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [capture_id]",
		Short: "show capture metadata and plot its frame times",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [scene]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := catalog.Order
			if len(args) > 0 {
				names = args
			}
			for _, name := range names {
				presets := config.ListPresets(name)
				if len(presets) == 0 {
					fmt.Printf("no presets for scene: %s\n", name)
					continue
				}
				fmt.Printf("presets for %s:\n", name)
				for _, p := range presets {
					fmt.Printf("  %s\n", p)
				}
			}
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration as yaml",
		RunE:  dumpConfig,
	}
	configCmd.Flags().StringVarP(&outPath, "out", "o", "", "write to a file instead of stdout")

	rootCmd.AddCommand(guiCmd, tuiCmd, captureCmd, benchCmd, svgCmd, listCmd, runsCmd, showCmd, presetsCmd, configCmd)
	rootCmd.AddCommand(studyCommands()...)

	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Error("command failed")
		os.Exit(1)
	}
}

func setupLogging(cmd *cobra.Command) error {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.TimeOnly})

	level := logLevel
	if !cmd.Flags().Changed("log-level") {
		if v := os.Getenv("GENVIZ_LOG_LEVEL"); v != "" {
			level = v
		}
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)
	return nil
}

// loadConfig layers defaults, the config file, the environment, a preset and
// finally any flags given on the command line.
func loadConfig(cmd *cobra.Command, scene string) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if scene != "" {
		cfg.Scene = scene
	}
	if preset != "" {
		if !config.ApplyPreset(cfg, cfg.Scene, preset) {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Scene))
		}
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("scale") {
		cfg.PixelRatio = pixelRatio
	}
	if flags.Changed("fps") {
		cfg.FPS = frameRate
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("paused") {
		cfg.Running = !paused
	}
	if flags.Changed("asset-base") {
		cfg.AssetBaseURL = assetBase
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil && !flags.Changed("log-level") {
		log.SetLevel(lvl)
	}
	return cfg, nil
}

func resourcesFor(cfg *config.Config) *resources.Registry {
	reg := resources.Default()
	reg.SetAssetBase(cfg.AssetBaseURL)
	return reg
}

func sceneArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, sceneArg(args))
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()
	return gui.Run(ctx, cfg, catalog.NewRegistry(), resourcesFor(cfg), st, log.WithField("host", "gui"))
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, sceneArg(args))
	if err != nil {
		return err
	}
	viz.SetTheme(cfg.Theme)

	// the terminal belongs to bubbletea while it runs
	logPath := filepath.Join(dataDir, "tui.log")
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	log.SetOutput(f)
	defer log.SetOutput(os.Stderr)

	deps := viz.Deps{
		Catalog:   catalog.NewRegistry(),
		Config:    cfg,
		Resources: resourcesFor(cfg),
		Store:     st,
		Log:       log.WithField("host", "tui"),
	}
	if len(args) == 0 {
		return viz.RunInteractive(deps)
	}
	return viz.Run(deps, cfg.Scene)
}

func captureJobs(cmd *cobra.Command, names []string) ([]sim.Job, []*config.Config, error) {
	cat := catalog.NewRegistry()
	jobs := make([]sim.Job, 0, len(names))
	cfgs := make([]*config.Config, 0, len(names))
	for _, name := range names {
		cfg, err := loadConfig(cmd, name)
		if err != nil {
			return nil, nil, err
		}
		if cat.Describe(name) == "" {
			return nil, nil, fmt.Errorf("%q: %w", name, dynamo.ErrUnknownScene)
		}
		reg := resourcesFor(cfg)
		entry := log.WithField("capture", name)
		jobs = append(jobs, sim.Job{
			Name:  name,
			Build: func() (scene.Scene, error) { return cat.New(name, cfg, reg, entry) },
			Metrics: func() []metrics.Metric {
				return []metrics.Metric{metrics.NewFrameTime(), metrics.NewBudget(cfg.FPS), metrics.NewLuminance()}
			},
		})
		cfgs = append(cfgs, cfg)
	}
	return jobs, cfgs, nil
}

func runCapture(cmd *cobra.Command, args []string) error {
	names := args
	if len(names) == 0 {
		names = catalog.Order
	}
	jobs, cfgs, err := captureJobs(cmd, names)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	stride := every
	if noGIF {
		stride = 0
	}

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	results, err := sim.NewBatch(jobs, parallel).Run(ctx, sim.Config{
		Viewport: cfgs[0].Viewport(),
		Frames:   captureFrames,
		Every:    stride,
		PauseAt:  pauseAt,
	})
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"scenes": len(results), "elapsed": time.Since(start).Round(time.Millisecond)}).Info("rendered")

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENE\tID\tFRAMES\tMEAN MS\tDIR")
	for i, res := range results {
		cfg := cfgs[i]
		id, err := st.Save(&storage.Capture{
			Meta: storage.CaptureMetadata{
				Scene:      res.Scene,
				Seed:       cfg.Seed,
				Width:      cfg.Width,
				Height:     cfg.Height,
				PixelRatio: cfg.PixelRatio,
				FPS:        cfg.FPS,
				Preset:     preset,
				Metrics:    res.Metrics,
			},
			Frames:  res.Snapshots,
			Timings: res.Timings,
		})
		if err != nil {
			return fmt.Errorf("save %s: %w", res.Scene, err)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%.3f\t%s\n", res.Scene, id, res.StepsTaken, res.Metrics["frame_ms"], st.Dir(id))
	}
	return w.Flush()
}

func runBench(cmd *cobra.Command, args []string) error {
	names := args
	if len(names) == 0 {
		names = catalog.Order
	}
	jobs, cfgs, err := captureJobs(cmd, names)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENE\tFRAMES\tMEAN\tP95\tMAX\tON BUDGET\tFPS\tPULSE")

	plots := make([]string, 0, len(jobs))
	for i, job := range jobs {
		s, err := job.Build()
		if err != nil {
			return err
		}
		ft := metrics.NewFrameTime()
		budget := metrics.NewBudget(cfgs[i].FPS)
		runner := sim.New(s)
		runner.AddMetric(ft)
		runner.AddMetric(budget)
		trace := analysis.NewTrace(0)
		runner.AddObserver(trace)

		if _, err := runner.Run(ctx, sim.Config{Viewport: cfgs[i].Viewport(), Frames: benchFrames}); err != nil {
			return err
		}

		mean := ft.Mean()
		fps := 0.0
		if mean > 0 {
			fps = float64(time.Second) / float64(mean)
		}
		pulse := "-"
		if r, ok := analysis.Pulse(trace.Samples(), cfgs[i].FPS); ok && r.Strength > 0.2 {
			pulse = fmt.Sprintf("%.1ff (%.2f Hz)", r.PeriodFrames, r.Hz)
		}
		fmt.Fprintf(w, "%s\t%d\t%v\t%v\t%v\t%.0f%%\t%.0f\t%s\n",
			job.Name, benchFrames, mean.Round(time.Microsecond), ft.Percentile(95).Round(time.Microsecond),
			ft.Max().Round(time.Microsecond), budget.Value()*100, fps, pulse)

		plots = append(plots, asciigraph.Plot(ft.Samples(),
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption(job.Name+" frame ms"),
		))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	for _, p := range plots {
		fmt.Println()
		fmt.Println(p)
	}
	return nil
}

func runSVG(cmd *cobra.Command, args []string) error {
	name := sceneArg(args)
	if name == "" {
		name = flowfield.Name
	}
	cfg, err := loadConfig(cmd, name)
	if err != nil {
		return err
	}

	s, err := catalog.NewRegistry().New(name, cfg, resourcesFor(cfg), log.WithField("svg", name))
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	var doc string
	err = sim.New(s).RunWithCallback(ctx, cfg.Viewport(), func(s scene.Scene, frame int) bool {
		if frame+1 < svgFrames {
			return true
		}
		if sw, ok := s.(*flowfield.Swarm); ok {
			doc = export.StreamlinesToSVG(sw.Streamlines(), cfg.Width, cfg.Height, "#000000", flowfield.DefaultOptions().StreamAlpha)
			return false
		}
		img := s.Surface().Image()
		if img == nil {
			return false
		}
		cols := max(int(cfg.Width/svgScale/2), 1)
		rows := max(int(cfg.Height/svgScale/4), 1)
		canvas := viz.NewCanvas(cols, rows)
		canvas.FromSurface(img)
		doc = export.CanvasToSVG(canvas, svgScale, "#ffffff", "#111111")
		return false
	})
	s.Release()
	if err != nil {
		return err
	}
	if doc == "" {
		return fmt.Errorf("%s produced no frame: %w", name, dynamo.ErrSurfaceUnavailable)
	}

	if outPath == "" {
		_, err = fmt.Println(doc)
		return err
	}
	if err := os.WriteFile(outPath, []byte(doc), 0644); err != nil {
		return err
	}
	log.WithField("path", outPath).Info("svg written")
	return nil
}

func listScenes(cmd *cobra.Command, args []string) error {
	cat := catalog.NewRegistry()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENE\tPRESETS\tDESCRIPTION")
	for _, name := range catalog.Order {
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, strings.Join(config.ListPresets(name), ","), cat.Describe(name))
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no captures found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tSIZE\tFRAMES\tSEED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0fx%.0f@%g\t%d\t%d\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Width, run.Height, run.PixelRatio,
			run.Frames,
			run.Seed,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	id := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(id)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return err
	}

	timings, err := st.LoadTimings(id)
	if err != nil || len(timings) == 0 {
		return nil
	}
	fmt.Println()
	fmt.Println(asciigraph.Plot(timings,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("frame ms"),
	))
	return nil
}

func dumpConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, "")
	if err != nil {
		return err
	}
	if outPath != "" {
		return config.Save(outPath, cfg)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
