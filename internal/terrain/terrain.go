package terrain

import (
	"errors"
	"fmt"
	"image"
	"math"
)

// DefaultSize is the side length of the lab grid.
const DefaultSize = 80

var (
	// ErrInvalidSize indicates a non-positive grid dimension or a cell slice
	// whose length does not match size*size.
	ErrInvalidSize = errors.New("terrain: invalid grid size")

	// ErrInvalidCell indicates a negative or non-finite cell field.
	ErrInvalidCell = errors.New("terrain: invalid cell value (negative, NaN or Inf)")
)

// Cell is the atomic unit of the grid.
type Cell struct {
	Height   float64 `json:"height"`
	Water    float64 `json:"water"`
	Sediment float64 `json:"sediment"`
}

// Head is the hydraulic head of the cell: ground plus water.
func (c Cell) Head() float64 { return c.Height + c.Water }

// Clamp returns the cell with every field floored at zero.
func (c Cell) Clamp() Cell {
	return Cell{
		Height:   math.Max(0, c.Height),
		Water:    math.Max(0, c.Water),
		Sediment: math.Max(0, c.Sediment),
	}
}

// IsValid reports whether all fields are finite and non-negative.
func (c Cell) IsValid() bool {
	for _, v := range [3]float64{c.Height, c.Water, c.Sediment} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return false
		}
	}
	return true
}

// Directions lists the 4-connected neighbor offsets in visiting order.
var Directions = [4]image.Point{
	{X: 0, Y: -1}, // up
	{X: 0, Y: 1},  // down
	{X: -1, Y: 0}, // left
	{X: 1, Y: 0},  // right
}

// Terrain is an immutable square grid snapshot.
type Terrain struct {
	size  int
	cells []Cell
}

// New returns a size×size terrain with every cell zeroed.
func New(size int) (*Terrain, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	return &Terrain{size: size, cells: make([]Cell, size*size)}, nil
}

// FromCells copies cells (row-major) into a new terrain.
func FromCells(size int, cells []Cell) (*Terrain, error) {
	if size <= 0 || len(cells) != size*size {
		return nil, fmt.Errorf("%w: size %d with %d cells", ErrInvalidSize, size, len(cells))
	}
	c := make([]Cell, len(cells))
	copy(c, cells)
	return &Terrain{size: size, cells: c}, nil
}

// Size returns the side length N.
func (t *Terrain) Size() int { return t.size }

// Len returns the number of cells, N*N.
func (t *Terrain) Len() int { return len(t.cells) }

// InBounds reports whether (x, y) addresses a cell.
func (t *Terrain) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < t.size && y < t.size
}

// Index returns the row-major index for (x, y). Callers must check InBounds.
func (t *Terrain) Index(x, y int) int { return y*t.size + x }

// At returns the cell at (x, y) and false when the coordinate is outside the grid.
func (t *Terrain) At(x, y int) (Cell, bool) {
	if !t.InBounds(x, y) {
		return Cell{}, false
	}
	return t.cells[t.Index(x, y)], true
}

// Cells returns a copy of the backing cells.
func (t *Terrain) Cells() []Cell {
	c := make([]Cell, len(t.cells))
	copy(c, t.cells)
	return c
}

// Each calls fn for every cell in row-major order.
func (t *Terrain) Each(fn func(x, y int, c Cell)) {
	for y := 0; y < t.size; y++ {
		row := t.cells[y*t.size : (y+1)*t.size]
		for x, c := range row {
			fn(x, y, c)
		}
	}
}

// Neighbor returns the coordinate of (x, y) moved one step in direction d and
// whether it lies inside the grid.
func (t *Terrain) Neighbor(x, y, d int) (int, int, bool) {
	nx, ny := x+Directions[d].X, y+Directions[d].Y
	return nx, ny, t.InBounds(nx, ny)
}

// With returns a copy of the terrain with the cell at (x, y) replaced.
func (t *Terrain) With(x, y int, c Cell) (*Terrain, error) {
	if !t.InBounds(x, y) {
		return nil, fmt.Errorf("%w: (%d,%d) outside %dx%d", ErrInvalidSize, x, y, t.size, t.size)
	}
	next := &Terrain{size: t.size, cells: t.Cells()}
	next.cells[t.Index(x, y)] = c
	return next, nil
}

// Validate returns ErrInvalidCell for the first negative or non-finite cell.
func (t *Terrain) Validate() error {
	for i, c := range t.cells {
		if !c.IsValid() {
			return fmt.Errorf("%w at (%d,%d): %+v", ErrInvalidCell, i%t.size, i/t.size, c)
		}
	}
	return nil
}

// Equal reports whether both snapshots hold bit-identical cells.
func (t *Terrain) Equal(o *Terrain) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.size != o.size {
		return false
	}
	for i := range t.cells {
		if t.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// Totals sums each field over the grid.
type Totals struct {
	Height   float64 `json:"height"`
	Water    float64 `json:"water"`
	Sediment float64 `json:"sediment"`
}

// Totals returns the grid-wide sums of height, water and sediment.
func (t *Terrain) Totals() Totals {
	var s Totals
	for _, c := range t.cells {
		s.Height += c.Height
		s.Water += c.Water
		s.Sediment += c.Sediment
	}
	return s
}
