package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/nbodysim/internal/config"
	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/experiment"
	"github.com/san-kum/nbodysim/internal/export"
	"github.com/san-kum/nbodysim/internal/particles"
	"github.com/san-kum/nbodysim/internal/physics"
	"github.com/san-kum/nbodysim/internal/storage"
	"github.com/san-kum/nbodysim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir     string
	roomSize    float64
	maxIter     int64
	dt          float64
	clock       string
	seed        int64
	workers     int
	selfPair    string
	validate    bool
	sampleEvery int64
	configFile  string
	preset      string
	save        bool
	quiet       bool
	// plot, snapshot
	metricName  string
	svgOut      string
	snapshotOut string
	svgSize     int
	// ensemble
	ensembleRuns int
	// bench
	benchTicks   int
	benchWorkers int
)

// main registers the nbodysim commands and exits with status 1 if one fails.
func main() {
	rootCmd := &cobra.Command{
		Use:          "nbodysim",
		Short:        "brute-force 2D n-body simulator",
		SilenceUsage: true,
		RunE:         runSimulation,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".nbodysim", "data directory")
	addRunFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run simulation with live visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addRunFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show run metadata and final metrics",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot sampled metrics of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&metricName, "metric", "", "plot only this metric")
	plotCmd.Flags().StringVar(&svgOut, "svg", "", "also write the plotted metric to this SVG file")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [run_id]",
		Short: "render the final particle positions of a run to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  snapshotRun,
	}
	snapshotCmd.Flags().StringVarP(&snapshotOut, "out", "o", "snapshot.svg", "output file")
	snapshotCmd.Flags().IntVar(&svgSize, "size", 600, "image size in pixels")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run the same configuration under consecutive seeds",
		Args:  cobra.NoArgs,
		RunE:  runEnsemble,
	}
	addRunFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&ensembleRuns, "runs", 8, "number of runs")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "compare serial and parallel force passes",
		Args:  cobra.NoArgs,
		RunE:  benchForces,
	}
	config.RoomSizeVarP(benchCmd.Flags(), &roomSize, "room_size", "r", "room size")
	benchCmd.Flags().IntVar(&benchTicks, "ticks", 50, "ticks per measurement")
	benchCmd.Flags().IntVar(&benchWorkers, "workers", 0, "parallel workers (0 = all CPUs)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tROOM\tMAX_ITER\tDT\tCLOCK\tSELF_PAIR\tG")
			for _, name := range config.ListPresets() {
				p := config.Presets[name]
				fmt.Fprintf(w, "%s\t%g\t%d\t%g\t%s\t%s\t%g\n",
					name, p.RoomSize, p.MaxIter, p.Dt, p.Clock, p.SelfPair, p.G)
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, ensembleCmd, listCmd, showCmd, plotCmd, snapshotCmd, exportCmd, benchCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	config.RoomSizeVarP(fs, &roomSize, "room_size", "r", "room size; the room spans ±room_size/2 on each axis")
	config.MaxIterVarP(fs, &maxIter, "max_iter", "m", "number of ticks to run")
	fs.Float64Var(&dt, "dt", config.DefaultDt, "timestep for the fixed clock")
	fs.StringVar(&clock, "clock", config.DefaultClock, "time source: fixed or wall")
	fs.Int64Var(&seed, "seed", 0, "random seed (0 = random)")
	fs.IntVar(&workers, "workers", config.DefaultWorkers, "force pass workers (0 = all CPUs)")
	fs.StringVar(&selfPair, "self-pair", config.DefaultSelfPair, "self pair handling: skip or literal")
	fs.BoolVar(&validate, "validate", false, "stop when a position or velocity stops being finite")
	fs.Int64Var(&sampleEvery, "sample-every", config.DefaultSampleEvery, "ticks between metric samples")
	fs.StringVar(&configFile, "config", "", "config file path (yaml)")
	fs.StringVar(&preset, "preset", "", "use preset configuration")
	fs.BoolVar(&save, "save", false, "save the run to the data directory")
	fs.BoolVar(&quiet, "quiet", false, "do not print dt every tick")
}

// buildConfig layers defaults, preset, config file and explicitly set
// flags, in that order.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		if err := config.LoadInto(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("room_size") {
		cfg.RoomSize = roomSize
	}
	if flags.Changed("max_iter") {
		cfg.MaxIter = maxIter
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("clock") {
		cfg.Clock = clock
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("self-pair") {
		cfg.SelfPair = selfPair
	}
	if flags.Changed("validate") {
		cfg.ValidateState = validate
	}
	if flags.Changed("sample-every") {
		cfg.SampleEvery = sampleEvery
	}
	if quiet {
		cfg.PrintDt = false
	}

	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	exp, err := experiment.New(cfg, os.Stdout)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, runErr := exp.Run(ctx)
	if runErr != nil && !errors.Is(runErr, dynamo.ErrCanceled) {
		return runErr
	}

	var runID string
	if save {
		st := storage.New(dataDir)
		runID, err = exp.Save(st, result)
		if err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
	}

	if !quiet || save {
		fmt.Print(viz.Summary(viz.SummaryInfo{
			RunID:     runID,
			Seed:      exp.Seed(),
			Particles: exp.Store().Len(),
			Result:    result,
			Elapsed:   exp.Elapsed(),
		}))
	}
	if runErr != nil {
		fmt.Printf("interrupted at tick %d\n", result.Ticks)
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	cfg.PrintDt = false

	exp, err := experiment.New(cfg, nil)
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewModel(exp.Loop(), exp.Room(), cfg.MaxIter), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tROOM\tPARTICLES\tTICKS\tSIM_TIME\tCLOCK")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%g\t%d\t%d\t%.2fs\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.RoomSize,
			run.Particles,
			run.Ticks,
			run.SimTime,
			run.Clock,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "id:\t%s\n", meta.ID)
	fmt.Fprintf(w, "time:\t%s\n", meta.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(w, "seed:\t%d\n", meta.Seed)
	fmt.Fprintf(w, "room size:\t%g\n", meta.RoomSize)
	fmt.Fprintf(w, "particles:\t%d\n", meta.Particles)
	fmt.Fprintf(w, "ticks:\t%d / %d\n", meta.Ticks, meta.MaxIter)
	fmt.Fprintf(w, "sim time:\t%.4fs\n", meta.SimTime)
	fmt.Fprintf(w, "clock:\t%s (dt %g)\n", meta.Clock, meta.Dt)
	fmt.Fprintf(w, "self pair:\t%s\n", meta.SelfPair)
	fmt.Fprintf(w, "workers:\t%d\n", meta.Workers)
	fmt.Fprintf(w, "elapsed:\t%.3fs\n", meta.Elapsed)
	if err := w.Flush(); err != nil {
		return err
	}

	if len(meta.Metrics) > 0 {
		fmt.Println("\nmetrics:")
		for name, val := range meta.Metrics {
			fmt.Printf("  %s: %.6g\n", name, val)
		}
	}
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("particles: %d, ticks: %d\n\n", meta.Particles, meta.Ticks)

	plotted := 0
	for _, s := range series {
		if metricName != "" && s.Name != metricName {
			continue
		}
		if len(s.Samples) == 0 {
			continue
		}
		data := make([]float64, len(s.Samples))
		for i, sample := range s.Samples {
			data[i] = sample.Value
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s vs time", s.Name)),
		)
		fmt.Println(graph)
		fmt.Println()
		plotted++
	}

	if plotted == 0 {
		return fmt.Errorf("no data to plot")
	}

	if svgOut != "" {
		if metricName == "" {
			return fmt.Errorf("--svg needs --metric")
		}
		for _, s := range series {
			if s.Name != metricName {
				continue
			}
			if err := os.WriteFile(svgOut, []byte(export.SeriesToSVG(s.Samples, 800, 300, "#00ccff")), 0644); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", svgOut)
		}
	}
	return nil
}

func snapshotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	final, err := st.LoadFinal(runID)
	if err != nil {
		return err
	}

	room := particles.RoomFromSize(meta.RoomSize)
	half := max(room.HalfX, room.HalfY, 1) * 1.25
	svg := export.ParticlesToSVG(final, room, half, svgSize)
	if err := os.WriteFile(snapshotOut, []byte(svg), 0644); err != nil {
		return err
	}

	fmt.Printf("wrote %s (%d particles)\n", snapshotOut, final.Len())
	return nil
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	seedStart := cfg.Seed
	if seedStart == 0 {
		seedStart = time.Now().UnixNano()
	}

	fmt.Printf("running %d simulations from seed %d...\n", ensembleRuns, seedStart)
	start := time.Now()

	results, err := experiment.NewEnsemble(cfg, ensembleRuns, seedStart).Run(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n\n", time.Since(start).Round(time.Millisecond))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tMEAN\tSTD\tMIN\tMAX")
	for _, st := range experiment.Summarize(results) {
		fmt.Fprintf(w, "%s\t%.6g\t%.3g\t%.6g\t%.6g\n", st.Name, st.Mean, st.Std, st.Min, st.Max)
	}
	return w.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	return st.Export(os.Stdout, args[0])
}

func benchForces(cmd *cobra.Command, args []string) error {
	room := particles.RoomFromSize(roomSize)
	initial := particles.Populate(room, rand.New(rand.NewSource(1)))
	n := dynamo.Workers(benchWorkers)

	fmt.Printf("particles: %d, ticks: %d\n\n", initial.Len(), benchTicks)

	var serial *particles.Store
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WORKERS\tTOTAL\tPER TICK\tTICKS/SEC\tMATCHES SERIAL")

	for _, count := range []int{1, n} {
		s := initial.Clone()
		g := physics.NewGravity()
		g.Workers = count

		start := time.Now()
		for i := 0; i < benchTicks; i++ {
			g.Step(s, config.DefaultDt)
		}
		elapsed := time.Since(start)

		if serial == nil {
			serial = s
		}
		perTick := elapsed / time.Duration(max(benchTicks, 1))
		fmt.Fprintf(w, "%d\t%v\t%v\t%.1f\t%v\n",
			count, elapsed.Round(time.Microsecond), perTick, float64(benchTicks)/elapsed.Seconds(), s.Equal(serial))

		if n == 1 {
			break
		}
	}

	return w.Flush()
}
