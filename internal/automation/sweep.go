package automation

import (
	"context"
	"fmt"

	"github.com/san-kum/riverlab/internal/config"
	"github.com/san-kum/riverlab/internal/erosion"
	"github.com/san-kum/riverlab/internal/lab"
	"github.com/san-kum/riverlab/internal/metrics"
)

// ParameterSweep runs the same preset across a range of one parameter.
type ParameterSweep struct {
	Preset    string
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Ticks     int
	Seed      int64
}

// SweepResult holds the final state of one sweep point.
type SweepResult struct {
	ParamValue     float64
	Eroded         float64
	Deposited      float64
	FinalWater     float64
	HeightVariance float64
}

// RunSweep executes a parameter sweep. Every point starts from the same seed
// so only the swept parameter differs.
func RunSweep(ctx context.Context, sweep *ParameterSweep, progress func(i, n int)) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sweep.NumSteps)
	}
	base := config.DefaultConfig()
	if sweep.Preset != "" {
		var err error
		if base, err = config.GetPreset(sweep.Preset); err != nil {
			return nil, err
		}
	}
	if _, ok := base.Params.GetParams()[sweep.ParamName]; !ok {
		return nil, fmt.Errorf("%w: %s", erosion.ErrUnknownParam, sweep.ParamName)
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep
		p := base.Params
		if err := p.SetParam(sweep.ParamName, paramVal); err != nil {
			return results, err
		}

		stepper, err := erosion.NewStepper(p)
		if err != nil {
			return results, err
		}
		t0, err := erosion.NewTerrain(p, erosion.NewSource(sweep.Seed))
		if err != nil {
			return results, err
		}

		runner := lab.NewRunner(stepper)
		water, variance := metrics.NewTotalWater(), metrics.NewHeightVariance()
		runner.AddMetric(water)
		runner.AddMetric(variance)

		res, err := runner.Run(ctx, t0, lab.RunConfig{Ticks: sweep.Ticks, Rain: base.Rain})
		if err != nil {
			return results, err
		}

		results = append(results, SweepResult{
			ParamValue:     paramVal,
			Eroded:         res.Totals.Eroded,
			Deposited:      res.Totals.Deposited,
			FinalWater:     water.Value(),
			HeightVariance: variance.Value(),
		})
		if progress != nil {
			progress(i+1, sweep.NumSteps)
		}
	}

	return results, nil
}
