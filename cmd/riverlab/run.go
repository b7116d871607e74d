package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"

	"github.com/san-kum/riverlab/internal/config"
	"github.com/san-kum/riverlab/internal/erosion"
	"github.com/san-kum/riverlab/internal/gui"
	"github.com/san-kum/riverlab/internal/lab"
	"github.com/san-kum/riverlab/internal/metrics"
	"github.com/san-kum/riverlab/internal/storage"
	"github.com/san-kum/riverlab/internal/terrain"
	"github.com/san-kum/riverlab/internal/viz"
)

// loadConfig resolves settings with increasing precedence: defaults, preset
// (argument or --preset), config file, then explicit flags.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	name := preset
	if len(args) > 0 {
		if name != "" && name != args[0] {
			return nil, fmt.Errorf("preset given twice: %q and %q", args[0], name)
		}
		name = args[0]
	}

	cfg := config.DefaultConfig()
	if name != "" {
		p, err := config.GetPreset(name)
		if err != nil {
			return nil, err
		}
		cfg = p
	}

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if name != "" && fileCfg.Preset != name {
			slog.Warn("config file preset overrides flag", "file", fileCfg.Preset, "flag", name)
		}
		cfg = fileCfg
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("rain") {
		cfg.Rain = rain
	}
	if flags.Changed("size") {
		cfg.Params.Size = size
	}
	if flags.Changed("ticks") {
		cfg.Ticks = runTicks
	}
	for _, kv := range overrides {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("--set %q: expected name=value", kv)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("--set %s: %w", k, err)
		}
		if err := cfg.Params.SetParam(strings.TrimSpace(k), f); err != nil {
			return nil, err
		}
	}
	return cfg, cfg.Validate()
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func runSimulation(cmd *cobra.Command, args []string) error {
	log := newLogger()
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	if cfg.Ticks <= 0 {
		return fmt.Errorf("ticks must be positive, got %d", cfg.Ticks)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	stepper, err := erosion.NewStepper(cfg.Params)
	if err != nil {
		return err
	}
	t0, err := erosion.NewTerrain(cfg.Params, erosion.NewSource(cfg.Seed))
	if err != nil {
		return err
	}

	runner := lab.NewRunner(stepper)
	for _, m := range metrics.Standard() {
		runner.AddMetric(m)
	}
	series := metrics.NewSeries(0)
	runner.AddObserver(series)

	uiprogress.Start()
	bar := uiprogress.AddBar(cfg.Ticks).AppendCompleted().PrependElapsed()
	bar.PrependFunc(func(b *uiprogress.Bar) string {
		return fmt.Sprintf("tick %d/%d", b.Current(), cfg.Ticks)
	})
	runner.AddObserver(lab.ObserverFunc(func(tick int, t *terrain.Terrain, stats erosion.StepStats) {
		if tick > 0 {
			bar.Incr()
		}
		log.Debug("tick", "n", tick, "outflow", stats.Outflow, "eroded", stats.Eroded, "deposited", stats.Deposited)
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Info("running", "preset", cfg.Preset, "size", cfg.Params.Size, "ticks", cfg.Ticks, "rain", cfg.Rain, "seed", cfg.Seed)
	start := time.Now()
	result, err := runner.Run(ctx, t0, lab.RunConfig{Ticks: cfg.Ticks, Rain: cfg.Rain, ValidateEvery: validate})
	uiprogress.Stop()
	elapsed := time.Since(start)

	switch {
	case errors.Is(err, context.Canceled):
		log.Warn("interrupted, saving partial run", "ticks", result.TicksTaken)
	case err != nil:
		return err
	}

	name := runName
	if name == "" {
		name = cfg.Preset
	}
	runID, err := st.Save(storage.Run{
		Name:   name,
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

	log.Info("completed", "elapsed", elapsed, "run", runID)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ticks: %d\n", result.TicksTaken)
	fmt.Printf("eroded: %.4f  deposited: %.4f  infiltrated: %.4f\n",
		result.Totals.Eroded, result.Totals.Deposited, result.Totals.Infiltrated)
	fmt.Println("\nmetrics:")
	for _, m := range metrics.Standard() {
		fmt.Printf("  %s: %.6f\n", m.Name(), result.Metrics[m.Name()])
	}
	return nil
}

// interactive reports whether nothing selects a configuration, in which case
// the front ends open their preset picker.
func interactive(cmd *cobra.Command, args []string) bool {
	return len(args) == 0 && preset == "" && configFile == "" && !cmd.Flags().Changed("set")
}

func newSession(cmd *cobra.Command, args []string) (*lab.Session, *config.Config, error) {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return nil, nil, err
	}
	session, err := lab.NewSession(cfg.Params, cfg.Seed, cfg.Rain)
	if err != nil {
		return nil, nil, err
	}
	return session, cfg, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	if theme != "" {
		viz.SetTheme(theme)
	}
	if interactive(cmd, args) {
		return viz.RunInteractive(seed)
	}
	session, cfg, err := newSession(cmd, args)
	if err != nil {
		return err
	}
	if theme == "" {
		viz.SetTheme(cfg.Theme)
	}
	return viz.Run(session, cfg.Preset, cfg.TickInterval)
}

func runGUI(cmd *cobra.Command, args []string) error {
	if interactive(cmd, args) {
		return gui.RunInteractive(seed)
	}
	session, cfg, err := newSession(cmd, args)
	if err != nil {
		return err
	}
	return gui.Run(session, cfg.Preset, cfg.TickInterval)
}
