package erosion

import (
	"math"

	"github.com/san-kum/riverlab/internal/terrain"
)

// parallelRows is the minimum number of rows per worker in the gather phases.
const parallelRows = 64

// StepStats summarizes the mass moved during one tick.
type StepStats struct {
	Rain        float64 `json:"rain"`        // water added by rainfall
	Infiltrated float64 `json:"infiltrated"` // water actually removed by infiltration
	Outflow     float64 `json:"outflow"`     // water routed between cells
	Eroded      float64 `json:"eroded"`      // ground converted to sediment
	Deposited   float64 `json:"deposited"`   // material added back to ground
}

// Stepper advances terrains with a fixed set of parameters.
type Stepper struct {
	params Params
	pool   *scratchPool
}

// NewStepper validates p and returns a Stepper.
func NewStepper(p Params) (*Stepper, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Stepper{params: p, pool: newScratchPool()}, nil
}

// Params returns a copy of the stepper's parameters.
func (s *Stepper) Params() Params { return s.params }

var defaultStepper, _ = NewStepper(DefaultParams())

// Step advances t by one tick with the default parameters.
func Step(t *terrain.Terrain, rain float64) (*terrain.Terrain, error) {
	return defaultStepper.Step(t, rain)
}

// Step advances t by one tick. The input is never modified.
func (s *Stepper) Step(t *terrain.Terrain, rain float64) (*terrain.Terrain, error) {
	next, _, err := s.StepWithStats(t, rain)
	return next, err
}

// StepWithStats advances t by one tick and reports the mass moved.
func (s *Stepper) StepWithStats(t *terrain.Terrain, rain float64) (*terrain.Terrain, StepStats, error) {
	var stats StepStats
	if t == nil {
		return nil, stats, ErrNilTerrain
	}
	if err := checkRain(rain); err != nil {
		return nil, stats, err
	}

	b := t.Edit()
	cells := b.Cells()
	n := b.Size()

	sc := s.pool.Get(len(cells))
	defer s.pool.Put(sc)

	for i := range cells {
		cells[i].Water += rain
	}
	stats.Rain = rain * float64(len(cells))

	s.route(n, cells, sc)
	stats.Infiltrated, stats.Outflow = s.applyTransfers(cells, sc)
	slopes(n, cells, sc.slope)
	stats.Eroded, stats.Deposited = s.erode(cells, sc)
	smoothHeights(n, cells, sc.heights, s.params.SmoothAmount)

	return b.Build(), stats, nil
}

func checkRain(rain float64) error {
	if math.IsNaN(rain) || math.IsInf(rain, 0) || rain < 0 {
		return &ParamError{Name: "rain", Value: rain, Wrapped: ErrInvalidRain}
	}
	return nil
}

// route accumulates transfers against the post-rain snapshot; cells are not
// modified here so every decision sees pre-transfer neighbor heads.
func (s *Stepper) route(n int, cells []terrain.Cell, sc *scratch) {
	ff := s.params.FlowFactor
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			i := y*n + x
			src := cells[i]
			if src.Water <= 0 {
				continue
			}
			head := src.Head()
			remaining := src.Water

			for _, d := range terrain.Directions {
				if remaining <= 0 {
					break
				}
				nx, ny := x+d.X, y+d.Y
				if nx < 0 || ny < 0 || nx >= n || ny >= n {
					continue
				}
				j := ny*n + nx
				diff := head - cells[j].Head()
				if diff <= 0 {
					continue
				}
				amount := math.Min(remaining, diff*ff)
				sed := src.Sediment * (amount / src.Water)
				remaining -= amount

				sc.waterOut[i] += amount
				sc.waterIn[j] += amount
				sc.sedOut[i] += sed
				sc.sedIn[j] += sed
			}
		}
	}
}

func (s *Stepper) applyTransfers(cells []terrain.Cell, sc *scratch) (infiltrated, outflow float64) {
	loss := s.params.Infiltration
	for i := range cells {
		w := math.Max(0, cells[i].Water+sc.waterIn[i]-sc.waterOut[i])
		after := math.Max(0, w-loss)
		infiltrated += w - after
		outflow += sc.waterOut[i]

		cells[i].Water = after
		cells[i].Sediment = math.Max(0, cells[i].Sediment-sc.sedOut[i]+sc.sedIn[i])
	}
	return infiltrated, outflow
}

// slopes writes the mean downhill drop over in-bounds neighbors of each cell.
func slopes(n int, cells []terrain.Cell, out []float64) {
	terrain.ParallelFor(n, parallelRows, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < n; x++ {
				i := y*n + x
				h := cells[i].Height
				sum, count := 0.0, 0
				for _, d := range terrain.Directions {
					nx, ny := x+d.X, y+d.Y
					if nx < 0 || ny < 0 || nx >= n || ny >= n {
						continue
					}
					count++
					if nh := cells[ny*n+nx].Height; nh < h {
						sum += h - nh
					}
				}
				out[i] = 0
				if count > 0 {
					out[i] = sum / float64(count)
				}
			}
		}
	})
}

func (s *Stepper) erode(cells []terrain.Cell, sc *scratch) (eroded, deposited float64) {
	p := s.params
	for i := range cells {
		c := &cells[i]
		slope := sc.slope[i]

		erosion := sc.waterOut[i] * (p.ErosionRate + slope*p.SlopeFactor)
		removed := math.Max(0, math.Min(erosion, c.Height))
		c.Height -= removed
		c.Sediment += removed
		eroded += removed

		// bedload carried in by the inflow settles regardless of sediment load
		if sc.waterIn[i] > 0 {
			bed := sc.waterIn[i] * p.DepositionRate
			c.Height += bed
			deposited += bed
		}

		settle := c.Sediment * p.DepositionRate * math.Max(0, 1-slope)
		c.Sediment -= settle
		c.Height += settle
		deposited += settle
	}
	return eroded, deposited
}
