package lab

import (
	"context"
	"fmt"

	"github.com/san-kum/riverlab/internal/erosion"
	"github.com/san-kum/riverlab/internal/terrain"
)

// RunConfig describes a headless run.
type RunConfig struct {
	Ticks int
	Rain  float64
	// ValidateEvery checks every cell for NaN or negative values each n ticks;
	// zero disables the check.
	ValidateEvery int
}

// Result is the outcome of a headless run.
type Result struct {
	Final      *terrain.Terrain
	TicksTaken int
	Totals     erosion.StepStats
	Metrics    map[string]float64
}

// Runner drives a Stepper for a fixed number of ticks without a clock.
type Runner struct {
	stepper   *erosion.Stepper
	metrics   []Metric
	observers []Observer
}

func NewRunner(stepper *erosion.Stepper) *Runner {
	return &Runner{stepper: stepper}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Run steps t0 cfg.Ticks times. On cancellation the partial result is
// returned together with ctx.Err().
func (r *Runner) Run(ctx context.Context, t0 *terrain.Terrain, cfg RunConfig) (*Result, error) {
	if cfg.Ticks <= 0 {
		return nil, fmt.Errorf("ticks must be positive, got %d", cfg.Ticks)
	}
	if err := checkRain(cfg.Rain); err != nil {
		return nil, err
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	result := &Result{Final: t0, Metrics: make(map[string]float64)}
	r.emit(0, t0, erosion.StepStats{})

	t := t0
	for i := 1; i <= cfg.Ticks; i++ {
		select {
		case <-ctx.Done():
			r.collect(result)
			return result, ctx.Err()
		default:
		}

		next, stats, err := r.stepper.StepWithStats(t, cfg.Rain)
		if err != nil {
			return result, fmt.Errorf("tick %d: %w", i, err)
		}
		if cfg.ValidateEvery > 0 && i%cfg.ValidateEvery == 0 {
			if err := next.Validate(); err != nil {
				return result, fmt.Errorf("tick %d: %w", i, err)
			}
		}

		t = next
		result.Final = t
		result.TicksTaken = i
		accumulate(&result.Totals, stats)
		r.emit(i, t, stats)
	}

	r.collect(result)
	return result, nil
}

func (r *Runner) emit(tick int, t *terrain.Terrain, stats erosion.StepStats) {
	for _, m := range r.metrics {
		m.Observe(tick, t, stats)
	}
	for _, o := range r.observers {
		o.OnTick(tick, t, stats)
	}
}

func (r *Runner) collect(result *Result) {
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func accumulate(dst *erosion.StepStats, s erosion.StepStats) {
	dst.Rain += s.Rain
	dst.Infiltrated += s.Infiltrated
	dst.Outflow += s.Outflow
	dst.Eroded += s.Eroded
	dst.Deposited += s.Deposited
}
