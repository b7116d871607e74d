package terrain

import "fmt"

// Builder assembles the next snapshot. Its cells may be written freely until
// Build hands them over to an immutable Terrain.
type Builder struct {
	size  int
	cells []Cell
}

// NewBuilder returns a zeroed size×size builder.
func NewBuilder(size int) (*Builder, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	return &Builder{size: size, cells: make([]Cell, size*size)}, nil
}

// Edit returns a builder seeded with a copy of t.
func (t *Terrain) Edit() *Builder {
	return &Builder{size: t.size, cells: t.Cells()}
}

// Size returns the side length N.
func (b *Builder) Size() int { return b.size }

// Cells exposes the backing slice for direct row-major writes.
func (b *Builder) Cells() []Cell { return b.cells }

// Set stores c at (x, y); out-of-range coordinates are ignored.
func (b *Builder) Set(x, y int, c Cell) {
	if x < 0 || y < 0 || x >= b.size || y >= b.size {
		return
	}
	b.cells[y*b.size+x] = c
}

// Build clamps every cell and returns the snapshot. The builder must not be
// used afterwards.
func (b *Builder) Build() *Terrain {
	for i := range b.cells {
		b.cells[i] = b.cells[i].Clamp()
	}
	t := &Terrain{size: b.size, cells: b.cells}
	b.cells = nil
	return t
}
