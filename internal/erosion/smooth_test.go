package erosion

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/riverlab/internal/terrain"
)

func TestSmoothEdgeAverages(t *testing.T) {
	cells := make([]terrain.Cell, 9)
	cells[0] = terrain.Cell{Height: 3, Water: 0.4, Sediment: 0.2}
	tr, _ := terrain.FromCells(3, cells)

	next, err := Smooth(tr, 1)
	if err != nil {
		t.Fatalf("smooth failed: %v", err)
	}

	tests := []struct {
		x, y int
		want float64
	}{
		{0, 0, 1},    // corner: (3+0+0)/3
		{1, 0, 0.75}, // edge: (0+3+0+0)/4
		{0, 1, 0.75},
		{1, 1, 0}, // center does not touch the corner
		{2, 2, 0},
	}
	for _, tt := range tests {
		c, _ := next.At(tt.x, tt.y)
		if math.Abs(c.Height-tt.want) > 1e-12 {
			t.Errorf("(%d,%d): expected %f, got %f", tt.x, tt.y, tt.want, c.Height)
		}
	}

	corner, _ := next.At(0, 0)
	if corner.Water != 0.4 || corner.Sediment != 0.2 {
		t.Errorf("smoothing changed water/sediment: %+v", corner)
	}
}

func TestSmoothBlend(t *testing.T) {
	cells := make([]terrain.Cell, 9)
	cells[4].Height = 5
	tr, _ := terrain.FromCells(3, cells)

	next, _ := Smooth(tr, 0.1)
	c, _ := next.At(1, 1)
	if want := 5*0.9 + 1*0.1; math.Abs(c.Height-want) > 1e-12 {
		t.Errorf("expected %f, got %f", want, c.Height)
	}
}

func TestSmoothZeroIsIdentity(t *testing.T) {
	p := DefaultParams()
	p.Size = 10
	tr, _ := NewTerrain(p, NewSource(2))
	next, _ := Smooth(tr, 0)
	if !next.Equal(tr) {
		t.Error("amount 0 should not change heights")
	}
}

func TestSmoothInvalidAmount(t *testing.T) {
	tr, _ := terrain.New(3)
	for _, a := range []float64{-0.1, 1.01, math.NaN()} {
		if _, err := Smooth(tr, a); !errors.Is(err, ErrInvalidParam) {
			t.Errorf("amount %v: expected ErrInvalidParam, got %v", a, err)
		}
	}
}
