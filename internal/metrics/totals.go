// Package metrics provides per-tick observers over the terrain: scalar
// metrics for run summaries and a Series recorder for storage and plotting.
package metrics

import (
	"math"

	"github.com/san-kum/riverlab/internal/erosion"
	"github.com/san-kum/riverlab/internal/lab"
	"github.com/san-kum/riverlab/internal/terrain"
)

// Standard returns the metrics recorded for every saved run.
func Standard() []lab.Metric {
	return []lab.Metric{
		NewTotalWater(),
		NewTotalSediment(),
		NewMeanHeight(),
		NewHeightVariance(),
		NewWetFraction(0.01),
		NewMassBalance(),
	}
}

// TotalWater reports the summed water of the latest snapshot.
type TotalWater struct{ value float64 }

func NewTotalWater() *TotalWater { return &TotalWater{} }

func (m *TotalWater) Name() string { return "total_water" }
func (m *TotalWater) Observe(_ int, t *terrain.Terrain, _ erosion.StepStats) {
	m.value = t.Totals().Water
}
func (m *TotalWater) Value() float64 { return m.value }
func (m *TotalWater) Reset()         { m.value = 0 }

// TotalSediment reports the summed suspended sediment of the latest snapshot.
type TotalSediment struct{ value float64 }

func NewTotalSediment() *TotalSediment { return &TotalSediment{} }

func (m *TotalSediment) Name() string { return "total_sediment" }
func (m *TotalSediment) Observe(_ int, t *terrain.Terrain, _ erosion.StepStats) {
	m.value = t.Totals().Sediment
}
func (m *TotalSediment) Value() float64 { return m.value }
func (m *TotalSediment) Reset()         { m.value = 0 }

// MeanHeight reports the average ground height of the latest snapshot.
type MeanHeight struct{ value float64 }

func NewMeanHeight() *MeanHeight { return &MeanHeight{} }

func (m *MeanHeight) Name() string { return "mean_height" }
func (m *MeanHeight) Observe(_ int, t *terrain.Terrain, _ erosion.StepStats) {
	m.value = t.Totals().Height / float64(t.Len())
}
func (m *MeanHeight) Value() float64 { return m.value }
func (m *MeanHeight) Reset()         { m.value = 0 }

// HeightVariance reports the population variance of ground height.
type HeightVariance struct{ value float64 }

func NewHeightVariance() *HeightVariance { return &HeightVariance{} }

func (m *HeightVariance) Name() string { return "height_variance" }
func (m *HeightVariance) Observe(_ int, t *terrain.Terrain, _ erosion.StepStats) {
	m.value = Variance(t)
}
func (m *HeightVariance) Value() float64 { return m.value }
func (m *HeightVariance) Reset()         { m.value = 0 }

// Variance returns the population variance of the height field.
func Variance(t *terrain.Terrain) float64 {
	n := float64(t.Len())
	mean := t.Totals().Height / n
	sum := 0.0
	t.Each(func(_, _ int, c terrain.Cell) {
		d := c.Height - mean
		sum += d * d
	})
	return sum / n
}

// WetFraction reports the share of cells holding more than threshold water.
type WetFraction struct {
	threshold float64
	value     float64
}

func NewWetFraction(threshold float64) *WetFraction {
	return &WetFraction{threshold: threshold}
}

func (m *WetFraction) Name() string { return "wet_fraction" }
func (m *WetFraction) Observe(_ int, t *terrain.Terrain, _ erosion.StepStats) {
	wet := 0
	t.Each(func(_, _ int, c terrain.Cell) {
		if c.Water > m.threshold {
			wet++
		}
	})
	m.value = float64(wet) / float64(t.Len())
}
func (m *WetFraction) Value() float64 { return m.value }
func (m *WetFraction) Reset()         { m.value = 0 }

// MassBalance tracks the largest amount by which total water ever exceeded
// the previous total plus rainfall. A correct engine keeps it at zero.
type MassBalance struct {
	prev      float64
	samples   int
	violation float64
}

func NewMassBalance() *MassBalance { return &MassBalance{} }

func (m *MassBalance) Name() string { return "mass_violation" }

func (m *MassBalance) Observe(_ int, t *terrain.Terrain, stats erosion.StepStats) {
	water := t.Totals().Water
	if m.samples > 0 {
		m.violation = math.Max(m.violation, water-(m.prev+stats.Rain))
	}
	m.prev = water
	m.samples++
}

func (m *MassBalance) Value() float64 { return m.violation }

func (m *MassBalance) Reset() {
	m.prev = 0
	m.samples = 0
	m.violation = 0
}
