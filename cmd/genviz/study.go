package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/genviz/internal/automation"
	"github.com/san-kum/genviz/internal/catalog"
	"github.com/san-kum/genviz/internal/config"
	"github.com/san-kum/genviz/internal/dynamo"
	"github.com/san-kum/genviz/internal/metrics"
	"github.com/san-kum/genviz/internal/optim"
	"github.com/san-kum/genviz/internal/sim"
	"github.com/san-kum/genviz/internal/storage"
	"github.com/spf13/cobra"
)

var (
	tuneParams  []string
	tuneMetric  string
	tuneMax     bool
	tuneFrames  int
	sweepParam  string
	sweepMin    float64
	sweepMax    float64
	sweepSteps  int
	sweepFrames int
	seedTrials  int
	seedFrames  int
)

func studyCommands() []*cobra.Command {
	tuneCmd := &cobra.Command{
		Use:   "tune <scene>",
		Short: "grid search scene parameters for the best metric value",
		Example: "  genviz tune fractal --param fractal.workers=1:8:8 --param fractal.max_iter=80,140,200\n" +
			"  genviz tune aura --param aura.count=10:200:5 --metric luminance --maximize",
		Args: cobra.ExactArgs(1),
		RunE: runTune,
	}
	tuneCmd.Flags().StringArrayVar(&tuneParams, "param", nil, "name=lo:hi:n or name=v1,v2,... (repeatable)")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "frame_ms", "metric to optimize (frame_ms, on_budget, luminance)")
	tuneCmd.Flags().BoolVar(&tuneMax, "maximize", false, "maximize instead of minimize")
	tuneCmd.Flags().IntVar(&tuneFrames, "frames", 60, "frames per trial")
	_ = tuneCmd.MarkFlagRequired("param")

	playCmd := &cobra.Command{
		Use:   "play <scenario.yaml>",
		Short: "run a scripted scenario and store the steps marked save",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlay,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep <scene>",
		Short: "vary one parameter and plot its effect",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "", "parameter to vary (see genviz params)")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 8, "number of values")
	sweepCmd.Flags().IntVar(&sweepFrames, "frames", 60, "frames per value")
	_ = sweepCmd.MarkFlagRequired("param")

	seedsCmd := &cobra.Command{
		Use:   "seeds <scene>",
		Short: "render a scene under random seeds and report how much its brightness varies",
		Args:  cobra.ExactArgs(1),
		RunE:  runSeeds,
	}
	seedsCmd.Flags().IntVar(&seedTrials, "trials", 16, "number of seeds")
	seedsCmd.Flags().IntVar(&seedFrames, "frames", 60, "frames per seed")

	paramsCmd := &cobra.Command{
		Use:   "params",
		Short: "list tunable parameters",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListTunables() {
				fmt.Println(name)
			}
			return nil
		},
	}

	return []*cobra.Command{tuneCmd, playCmd, sweepCmd, seedsCmd, paramsCmd}
}

func runTune(cmd *cobra.Command, args []string) error {
	name := args[0]
	base, err := loadConfig(cmd, name)
	if err != nil {
		return err
	}
	cat := catalog.NewRegistry()
	if cat.Describe(name) == "" {
		return fmt.Errorf("%q: %w", name, dynamo.ErrUnknownScene)
	}

	names := make([]string, 0, len(tuneParams))
	ranges := make([][]float64, 0, len(tuneParams))
	for _, p := range tuneParams {
		n, values, err := optim.ParseAxis(p)
		if err != nil {
			return err
		}
		names = append(names, n)
		ranges = append(ranges, values)
	}

	reg := resourcesFor(base)
	entry := log.WithField("tune", name)
	build := func(params map[string]float64) (*sim.Simulator, error) {
		cfg := *base
		if err := cfg.SetParams(params); err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		s, err := cat.New(name, &cfg, reg, entry)
		if err != nil {
			return nil, err
		}
		runner := sim.New(s)
		runner.AddMetric(metrics.NewFrameTime())
		runner.AddMetric(metrics.NewBudget(cfg.FPS))
		runner.AddMetric(metrics.NewLuminance())
		return runner, nil
	}

	ctx, cancel := signalContext()
	defer cancel()

	g := optim.NewGridSearch(names, ranges)
	g.Maximize = tuneMax
	best, value, trials, err := g.Search(ctx, build, sim.Config{Viewport: base.Viewport(), Frames: tuneFrames}, tuneMetric)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(strings.Join(names, "\t")), strings.ToUpper(tuneMetric))
	for _, tr := range trials {
		cols := make([]string, len(names))
		for i, n := range names {
			cols[i] = strconv.FormatFloat(tr.Params[n], 'g', 6, 64)
		}
		result := fmt.Sprintf("%.4f", tr.Value)
		if tr.Err != nil {
			result = "error: " + tr.Err.Error()
		}
		fmt.Fprintf(w, "%s\t%s\n", strings.Join(cols, "\t"), result)
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	if err != nil {
		return err
	}

	fmt.Printf("\nbest %s = %.4f with", tuneMetric, value)
	for _, n := range names {
		fmt.Printf(" %s=%g", n, best[n])
	}
	fmt.Println()
	return nil
}

func newRunner(cmd *cobra.Command, scene string) (*automation.Runner, error) {
	cfg, err := loadConfig(cmd, scene)
	if err != nil {
		return nil, err
	}
	return &automation.Runner{
		Catalog:   catalog.NewRegistry(),
		Base:      cfg,
		Resources: resourcesFor(cfg),
		Log:       log.WithField("cmd", cmd.Name()),
	}, nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	r, err := newRunner(cmd, "")
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	r.Store = st

	ctx, cancel := signalContext()
	defer cancel()

	log.WithField("scenario", scenario.Name).Info(scenario.Description)
	results, err := r.RunScenario(ctx, scenario)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tSCENE\tFRAMES\tMEAN MS\tLUMINANCE\tCAPTURE")
	for i, sr := range results {
		capture := sr.Capture
		if capture == "" {
			capture = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%.3f\t%.3f\t%s\n", i+1, sr.Result.Scene, sr.Result.StepsTaken,
			sr.Result.Metrics["frame_ms"], sr.Result.Metrics["luminance"], capture)
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	r, err := newRunner(cmd, args[0])
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	results, err := r.RunSweep(ctx, &automation.ParameterSweep{
		Scene:  args[0],
		Param:  sweepParam,
		Min:    sweepMin,
		Max:    sweepMax,
		Steps:  sweepSteps,
		Frames: sweepFrames,
	})
	if err != nil {
		return err
	}

	keys := make([]string, 0)
	for k := range results[0].Metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(sweepParam), strings.ToUpper(strings.Join(keys, "\t")))
	ms := make([]float64, len(results))
	for i, res := range results {
		fmt.Fprintf(w, "%g", res.ParamValue)
		for _, k := range keys {
			fmt.Fprintf(w, "\t%.4f", res.Metrics[k])
		}
		fmt.Fprintln(w)
		ms[i] = res.Metrics["frame_ms"]
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if len(ms) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(ms, asciigraph.Height(8), asciigraph.Caption("frame ms by "+sweepParam)))
	}
	return nil
}

func runSeeds(cmd *cobra.Command, args []string) error {
	r, err := newRunner(cmd, args[0])
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	results, err := r.RunSeeds(ctx, &automation.SeedStudy{
		Scene:  args[0],
		Trials: seedTrials,
		Frames: seedFrames,
		Seed:   seed,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tLUMINANCE\tMEAN MS")
	for _, res := range results {
		fmt.Fprintf(w, "%d\t%.4f\t%.3f\n", res.Seed, res.Luminance, res.FrameMS)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	mean, sd, err := automation.SeedStats(results)
	if err != nil {
		return err
	}
	fmt.Printf("\nluminance %.4f ± %.4f over %d seeds\n", mean, sd, len(results))
	return nil
}
