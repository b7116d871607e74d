package erosion

import (
	"math"

	"github.com/san-kum/riverlab/internal/terrain"
)

// RaiseGround lifts the cell at (x, y) with the default raise amount and cap.
func RaiseGround(t *terrain.Terrain, x, y int) (*terrain.Terrain, error) {
	return defaultStepper.Raise(t, x, y)
}

// Raise returns a copy of t with the height at (x, y) increased by
// RaiseAmount and capped at MaxHeight. Out-of-range coordinates return a
// *CellError wrapping ErrOutOfBounds and no terrain.
func (s *Stepper) Raise(t *terrain.Terrain, x, y int) (*terrain.Terrain, error) {
	if t == nil {
		return nil, ErrNilTerrain
	}
	c, ok := t.At(x, y)
	if !ok {
		return nil, &CellError{X: x, Y: y, Size: t.Size(), Wrapped: ErrOutOfBounds}
	}
	c.Height = math.Min(s.params.MaxHeight, c.Height+s.params.RaiseAmount)
	return t.With(x, y, c)
}

// CellAt maps a pointer position in pixels to grid coordinates for a renderer
// drawing cellSize pixels per cell. The result may be out of range.
func CellAt(px, py float64, cellSize int) (int, int) {
	if cellSize <= 0 {
		cellSize = 1
	}
	return int(math.Floor(px / float64(cellSize))), int(math.Floor(py / float64(cellSize)))
}
