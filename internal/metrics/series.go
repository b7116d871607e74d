package metrics

import (
	"fmt"
	"sync"

	"github.com/san-kum/riverlab/internal/erosion"
	"github.com/san-kum/riverlab/internal/terrain"
)

// Columns names the recorded quantities in storage order.
var Columns = []string{"tick", "water", "sediment", "height", "outflow", "eroded", "deposited", "infiltrated"}

// Sample is one row of a Series.
type Sample struct {
	Tick        int     `json:"tick"`
	Water       float64 `json:"water"`
	Sediment    float64 `json:"sediment"`
	Height      float64 `json:"height"`
	Outflow     float64 `json:"outflow"`
	Eroded      float64 `json:"eroded"`
	Deposited   float64 `json:"deposited"`
	Infiltrated float64 `json:"infiltrated"`
}

// Values returns the sample in Columns order, tick excluded.
func (s Sample) Values() []float64 {
	return []float64{s.Water, s.Sediment, s.Height, s.Outflow, s.Eroded, s.Deposited, s.Infiltrated}
}

// Series records one Sample per tick. It implements lab.Observer and may be
// shared with a renderer goroutine.
type Series struct {
	mu      sync.RWMutex
	samples []Sample
	limit   int
}

// NewSeries keeps at most limit samples; zero keeps all.
func NewSeries(limit int) *Series {
	return &Series{limit: limit}
}

func (s *Series) OnTick(tick int, t *terrain.Terrain, stats erosion.StepStats) {
	tot := t.Totals()
	sample := Sample{
		Tick:        tick,
		Water:       tot.Water,
		Sediment:    tot.Sediment,
		Height:      tot.Height,
		Outflow:     stats.Outflow,
		Eroded:      stats.Eroded,
		Deposited:   stats.Deposited,
		Infiltrated: stats.Infiltrated,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// a reset starts a fresh series
	if tick == 0 {
		s.samples = s.samples[:0]
	}
	s.samples = append(s.samples, sample)
	if s.limit > 0 && len(s.samples) > s.limit {
		s.samples = s.samples[len(s.samples)-s.limit:]
	}
}

// Append adds a sample read back from storage.
func (s *Series) Append(sample Sample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples = append(s.samples, sample)
}

func (s *Series) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.samples)
}

// Samples returns a copy of the recorded rows.
func (s *Series) Samples() []Sample {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Sample, len(s.samples))
	copy(out, s.samples)
	return out
}

// Column returns one named quantity across all samples.
func (s *Series) Column(name string) ([]float64, error) {
	idx := -1
	for i, c := range Columns {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("unknown column %q", name)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]float64, len(s.samples))
	for i, sm := range s.samples {
		if idx == 0 {
			out[i] = float64(sm.Tick)
			continue
		}
		out[i] = sm.Values()[idx-1]
	}
	return out, nil
}
