package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"

	"github.com/san-kum/riverlab/internal/automation"
	"github.com/san-kum/riverlab/internal/config"
	"github.com/san-kum/riverlab/internal/erosion"
	"github.com/san-kum/riverlab/internal/lab"
	"github.com/san-kum/riverlab/internal/metrics"
	"github.com/san-kum/riverlab/internal/storage"
)

var (
	benchTicks   int
	sweepTicks   int
	sweepMin     float64
	sweepMax     float64
	sweepSteps   int
	saveScenario bool
)

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		fmt.Fprintf(w, "%s\t%s\n", name, config.Presets[name].Description)
	}
	return w.Flush()
}

func benchStep(cmd *cobra.Command, args []string) error {
	if benchTicks <= 0 {
		return fmt.Errorf("ticks must be positive, got %d", benchTicks)
	}
	sizes := []int{32, 80, 160, 256}

	fmt.Printf("benchmarking %d ticks per size\n\n", benchTicks)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SIZE\tCELLS\tTICKS\tTIME\tTICKS/SEC\tNS/CELL")

	for _, n := range sizes {
		p := erosion.DefaultParams()
		p.Size = n
		stepper, err := erosion.NewStepper(p)
		if err != nil {
			return err
		}
		t0, err := erosion.NewTerrain(p, erosion.NewSource(42))
		if err != nil {
			return err
		}

		start := time.Now()
		result, err := lab.NewRunner(stepper).Run(context.Background(), t0, lab.RunConfig{Ticks: benchTicks, Rain: lab.DefaultRain})
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		cells := n * n
		perSec := float64(result.TicksTaken) / elapsed.Seconds()
		nsPerCell := float64(elapsed.Nanoseconds()) / float64(result.TicksTaken*cells)
		fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%.0f\t%.1f\n", n, cells, result.TicksTaken, elapsed.Round(time.Microsecond), perSec, nsPerCell)
	}

	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	series := metrics.NewSeries(0)
	standard := metrics.Standard()
	observers := []lab.Observer{series}
	for _, m := range standard {
		m.Reset()
		observers = append(observers, lab.ObserverFunc(m.Observe))
	}

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Printf("%s\n", sc.Description)
	}
	fmt.Println()

	outcome, err := automation.RunScenario(ctx, sc, observers...)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tTICKS\tRAIN\tERODED\tDEPOSITED\tWATER\tSEDIMENT")
	var totals erosion.StepStats
	for i, s := range outcome.Steps {
		label := s.Label
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
		}
		fmt.Fprintf(w, "%s\t%d\t%.3f\t%.4f\t%.4f\t%.3f\t%.4f\n",
			label, s.Ticks, s.Rain, s.Totals.Eroded, s.Totals.Deposited, s.After.Water, s.After.Sediment)
		totals.Rain += s.Totals.Rain
		totals.Infiltrated += s.Totals.Infiltrated
		totals.Outflow += s.Totals.Outflow
		totals.Eroded += s.Totals.Eroded
		totals.Deposited += s.Totals.Deposited
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if !saveScenario {
		return nil
	}
	cfg, err := sc.Config()
	if err != nil {
		return err
	}
	result := &lab.Result{
		Final:      outcome.Final,
		TicksTaken: outcome.Ticks,
		Totals:     totals,
		Metrics:    make(map[string]float64, len(standard)),
	}
	for _, m := range standard {
		result.Metrics[m.Name()] = m.Value()
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.Run{
		Name:   sc.Name,
		Preset: cfg.Preset,
		Seed:   cfg.Seed,
		Rain:   cfg.Rain,
		Params: cfg.Params,
		Result: result,
		Series: series,
	})
	if err != nil {
		return err
	}
	fmt.Printf("\nrun id: %s\n", runID)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	sweep := &automation.ParameterSweep{
		Preset:    preset,
		ParamName: args[0],
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
		Ticks:     sweepTicks,
		Seed:      seed,
	}
	if !cmd.Flags().Changed("seed") {
		sweep.Seed = config.DefaultSeed
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	uiprogress.Start()
	bar := uiprogress.AddBar(sweepSteps).AppendCompleted().PrependElapsed()
	bar.PrependFunc(func(b *uiprogress.Bar) string {
		return fmt.Sprintf("%s %d/%d", args[0], b.Current(), sweepSteps)
	})
	results, err := automation.RunSweep(ctx, sweep, func(i, n int) { bar.Set(i) })
	uiprogress.Stop()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tERODED\tDEPOSITED\tWATER\tVARIANCE\n", args[0])
	for _, r := range results {
		fmt.Fprintf(w, "%.4g\t%.4f\t%.4f\t%.3f\t%.5f\n", r.ParamValue, r.Eroded, r.Deposited, r.FinalWater, r.HeightVariance)
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if preset != "" {
		p, err := config.GetPreset(preset)
		if err != nil {
			return err
		}
		cfg = p
	}
	if _, err := os.Stat(args[0]); err == nil {
		return fmt.Errorf("%s already exists", args[0])
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s (preset %s)\n", args[0], cfg.Preset)
	return nil
}
