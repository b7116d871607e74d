package erosion

import "sync"

// scratch holds the per-cell accumulators of one step.
type scratch struct {
	waterOut []float64
	waterIn  []float64
	sedOut   []float64
	sedIn    []float64
	slope    []float64
	heights  []float64
}

func (s *scratch) reset(n int) {
	for _, buf := range []*[]float64{&s.waterOut, &s.waterIn, &s.sedOut, &s.sedIn, &s.slope, &s.heights} {
		if cap(*buf) < n {
			*buf = make([]float64, n)
			continue
		}
		*buf = (*buf)[:n]
		clear(*buf)
	}
}

// scratchPool recycles accumulators between ticks so a running lab does not
// allocate six grids per step.
type scratchPool struct {
	pool sync.Pool
}

func newScratchPool() *scratchPool {
	return &scratchPool{
		pool: sync.Pool{
			New: func() interface{} {
				return &scratch{}
			},
		},
	}
}

func (p *scratchPool) Get(n int) *scratch {
	s := p.pool.Get().(*scratch)
	s.reset(n)
	return s
}

func (p *scratchPool) Put(s *scratch) {
	p.pool.Put(s)
}
