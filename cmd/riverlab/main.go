package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/riverlab/internal/gui"
)

var (
	dataDir    string
	configFile string
	preset     string
	seed       int64
	rain       float64
	runTicks   int
	size       int
	runName    string
	overrides  []string
	verbose    bool
	validate   int
	theme      string
	outFile    string
	cellSize   int
	column     string
)

// main registers the commands and opens the window when no subcommand is
// given.
func main() {
	rootCmd := &cobra.Command{
		Use:   "riverlab",
		Short: "river erosion lab",
		RunE: func(cmd *cobra.Command, args []string) error {
			return gui.RunInteractive(seed)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".riverlab", "data directory")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a headless simulation and save it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addSessionFlags(runCmd)
	runCmd.Flags().IntVar(&runTicks, "ticks", 0, "ticks to run (0 uses the config value)")
	runCmd.Flags().StringVar(&runName, "name", "", "run name (defaults to the preset)")
	runCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	runCmd.Flags().IntVar(&validate, "validate-every", 50, "check the terrain every n ticks (0 disables)")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run the lab in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSessionFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", "", "color theme")

	guiCmd := &cobra.Command{
		Use:   "gui [preset]",
		Short: "run the lab in a window",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGUI,
	}
	addSessionFlags(guiCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run series to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and series to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the final terrain as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().IntVar(&cellSize, "cell", 8, "pixels per cell")

	exportPNGCmd := &cobra.Command{
		Use:   "export-png [run_id]",
		Short: "export the final terrain as PNG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportPNG,
	}
	exportPNGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file")
	exportPNGCmd.Flags().IntVar(&cellSize, "cell", 8, "pixels per cell")
	_ = exportPNGCmd.MarkFlagRequired("out")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a run series",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&column, "column", "water", "series column")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the step function",
		RunE:  benchStep,
	}
	benchCmd.Flags().IntVar(&benchTicks, "ticks", 100, "ticks per grid size")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&saveScenario, "save", false, "save the run")

	sweepCmd := &cobra.Command{
		Use:   "sweep [param]",
		Short: "sweep one parameter and compare outcomes",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&preset, "preset", "", "base preset")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().IntVar(&sweepTicks, "ticks", 200, "ticks per value")

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a config file for a preset",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}
	initCmd.Flags().StringVar(&preset, "preset", "", "preset to start from")

	rootCmd.AddCommand(runCmd, liveCmd, guiCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd,
		exportSVGCmd, exportPNGCmd, analyzeCmd, presetsCmd, benchCmd, scenarioCmd, sweepCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSessionFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64Var(&rain, "rain", 0, "rain per cell per tick")
	cmd.Flags().IntVar(&size, "size", 0, "grid size")
	cmd.Flags().StringArrayVar(&overrides, "set", nil, "override a parameter, name=value")
}
