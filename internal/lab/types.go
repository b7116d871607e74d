package lab

import (
	"github.com/san-kum/riverlab/internal/erosion"
	"github.com/san-kum/riverlab/internal/terrain"
)

// Observer is notified after every tick with the new snapshot. Reset notifies
// observers with tick 0 and zero stats.
type Observer interface {
	OnTick(tick int, t *terrain.Terrain, stats erosion.StepStats)
}

// Metric accumulates a scalar over a run.
type Metric interface {
	Name() string
	Observe(tick int, t *terrain.Terrain, stats erosion.StepStats)
	Value() float64
	Reset()
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(tick int, t *terrain.Terrain, stats erosion.StepStats)

func (f ObserverFunc) OnTick(tick int, t *terrain.Terrain, stats erosion.StepStats) {
	f(tick, t, stats)
}
