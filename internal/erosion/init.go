package erosion

import (
	"math"
	"math/rand/v2"

	"github.com/ojrac/opensimplex-go"
	"github.com/san-kum/riverlab/internal/terrain"
)

// simplexScale converts grid coordinates to noise space.
const simplexScale = 0.15

// NewTerrain builds the starting landscape. Randomness is drawn only from rng;
// a nil rng falls back to an unseeded generator.
func NewTerrain(p Params, rng *rand.Rand) (*terrain.Terrain, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	b, err := terrain.NewBuilder(p.Size)
	if err != nil {
		return nil, err
	}

	jitter := uniformJitter(rng, p.JitterMax)
	if p.Jitter == JitterSimplex {
		jitter = simplexJitter(rng, p.JitterMax)
	}

	n := float64(p.Size)
	cells := b.Cells()
	for y := 0; y < p.Size; y++ {
		fy := float64(y) / n
		base := 1 - p.SlopeDrop*fy
		center := n/2 + p.Amplitude*n*math.Sin(2*math.Pi*fy*p.Frequency)

		for x := 0; x < p.Size; x++ {
			c := terrain.Cell{Height: base}
			if p.Layout == LayoutRiver {
				dist := math.Abs(float64(x) - center)
				if dist < p.RiverWidth {
					c.Height -= p.ChannelDepth
				}
				if dist < p.RiverWidth/2 {
					c.Water = p.RiverFill
				}
			}
			c.Height += jitter(x, y)
			cells[y*p.Size+x] = c
		}
	}
	return b.Build(), nil
}

func uniformJitter(rng *rand.Rand, max float64) func(x, y int) float64 {
	return func(int, int) float64 {
		return rng.Float64() * max
	}
}

func simplexJitter(rng *rand.Rand, max float64) func(x, y int) float64 {
	noise := opensimplex.NewNormalized(rng.Int64())
	return func(x, y int) float64 {
		v := noise.Eval2(float64(x)*simplexScale, float64(y)*simplexScale)
		return math.Min(math.Max(v, 0), math.Nextafter(1, 0)) * max
	}
}
