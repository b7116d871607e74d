package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/riverlab/internal/analysis"
	"github.com/san-kum/riverlab/internal/export"
	"github.com/san-kum/riverlab/internal/storage"
)

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
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tSIZE\tTICKS\tRAIN\tSEED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.3f\t%d\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Size,
			run.Ticks,
			run.Rain,
			run.Seed,
		)
	}

	return w.Flush()
}

var plotColumns = []struct {
	name, caption string
}{
	{"water", "total water"},
	{"sediment", "suspended sediment"},
	{"height", "total ground height"},
	{"eroded", "eroded per tick"},
	{"deposited", "deposited per tick"},
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
	if series.Len() < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("samples: %d\n\n", series.Len())

	for _, c := range plotColumns {
		data, err := series.Column(c.name)
		if err != nil {
			return err
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(c.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportCSV(os.Stdout, args[0])
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
}

func exportSVG(cmd *cobra.Command, args []string) error {
	t, err := storage.New(dataDir).LoadSnapshot(args[0])
	if err != nil {
		return err
	}
	svg := export.TerrainToSVG(t, float64(cellSize))
	if outFile == "" {
		_, err = io.WriteString(os.Stdout, svg)
		return err
	}
	return os.WriteFile(outFile, []byte(svg), 0644)
}

func exportPNG(cmd *cobra.Command, args []string) error {
	t, err := storage.New(dataDir).LoadSnapshot(args[0])
	if err != nil {
		return err
	}
	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	if err := export.TerrainToPNG(f, t, cellSize); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func analyzeRun(cmd *cobra.Command, args []string) error {
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
	data, err := series.Column(column)
	if err != nil {
		return err
	}
	if len(data) < 4 {
		return fmt.Errorf("not enough samples: %d", len(data))
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("column: %s\n\n", column)

	ps := analysis.PowerSpectrum(data)
	plotData := ps[1:]
	if len(plotData) > 4 {
		plotData = plotData[:len(plotData)/2]
	}
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum ("+column+")"),
	)
	fmt.Println(graph)
	fmt.Println()

	s := analysis.Summarize(data)
	fmt.Printf("mean %.4f  min %.4f  max %.4f  final %.4f  trend %+.3g/tick\n", s.Mean, s.Min, s.Max, s.Final, s.Trend)

	if period, power := analysis.DominantPeriod(data); period > 0 {
		fmt.Printf("dominant period: %.1f ticks (power %.3g)\n", period, power)
	} else {
		fmt.Println("no periodic component")
	}

	if at := analysis.SteadyState(data, 1e-3, 20); at >= 0 {
		fmt.Printf("steady from tick %d\n", at)
	} else {
		fmt.Println("not steady")
	}
	return nil
}
