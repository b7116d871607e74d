package erosion

import (
	"math"

	"github.com/san-kum/riverlab/internal/terrain"
)

// Smooth blends each height toward the mean of itself and its in-bounds
// neighbors. Water and sediment are copied unchanged.
func Smooth(t *terrain.Terrain, amount float64) (*terrain.Terrain, error) {
	if t == nil {
		return nil, ErrNilTerrain
	}
	if math.IsNaN(amount) || amount < 0 || amount > 1 {
		return nil, &ParamError{Name: "smooth_amount", Value: amount, Wrapped: ErrInvalidParam}
	}
	b := t.Edit()
	smoothHeights(b.Size(), b.Cells(), make([]float64, t.Len()), amount)
	return b.Build(), nil
}

func smoothHeights(n int, cells []terrain.Cell, out []float64, amount float64) {
	terrain.ParallelFor(n, parallelRows, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < n; x++ {
				i := y*n + x
				h := cells[i].Height
				sum, count := h, 1.0
				for _, d := range terrain.Directions {
					nx, ny := x+d.X, y+d.Y
					if nx < 0 || ny < 0 || nx >= n || ny >= n {
						continue
					}
					sum += cells[ny*n+nx].Height
					count++
				}
				out[i] = h*(1-amount) + (sum/count)*amount
			}
		}
	})
	for i := range cells {
		cells[i].Height = out[i]
	}
}
