package erosion

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/riverlab/internal/terrain"
)

func flatTerrain(t *testing.T, size int, height float64) *terrain.Terrain {
	t.Helper()
	cells := make([]terrain.Cell, size*size)
	for i := range cells {
		cells[i].Height = height
	}
	tr, err := terrain.FromCells(size, cells)
	if err != nil {
		t.Fatalf("FromCells failed: %v", err)
	}
	return tr
}

func TestStepFlatRain(t *testing.T) {
	tr := flatTerrain(t, 5, 1)

	next, err := Step(tr, 0.01)
	if err != nil {
		t.Fatalf("step failed: %v", err)
	}

	next.Each(func(x, y int, c terrain.Cell) {
		if math.Abs(c.Water-0.0095) > 1e-12 {
			t.Errorf("(%d,%d): expected water 0.0095, got %.10f", x, y, c.Water)
		}
		if math.Abs(c.Height-1) > 1e-12 {
			t.Errorf("(%d,%d): height changed to %f", x, y, c.Height)
		}
		if c.Sediment != 0 {
			t.Errorf("(%d,%d): sediment changed to %f", x, y, c.Sediment)
		}
	})
}

func TestStepInfiltrationClampsAtZero(t *testing.T) {
	tr := flatTerrain(t, 3, 1)
	next, err := Step(tr, 0)
	if err != nil {
		t.Fatalf("step failed: %v", err)
	}
	if w := next.Totals().Water; w != 0 {
		t.Errorf("expected dry grid, got total water %f", w)
	}
}

// raisedSource builds a 3x3 grid with a single wet source cell in the middle.
func raisedSource(t *testing.T, water, sediment float64) *terrain.Terrain {
	t.Helper()
	cells := make([]terrain.Cell, 9)
	cells[4] = terrain.Cell{Height: 1, Water: water, Sediment: sediment}
	tr, err := terrain.FromCells(3, cells)
	if err != nil {
		t.Fatalf("FromCells failed: %v", err)
	}
	return tr
}

func TestStepFlowVisitOrder(t *testing.T) {
	p := DefaultParams()
	p.Infiltration = 0
	s, err := NewStepper(p)
	if err != nil {
		t.Fatalf("NewStepper failed: %v", err)
	}

	// head drop 11 * 0.4 = 4.4 per neighbor: up and down are filled first,
	// left gets the remaining 1.2 and right gets nothing.
	next, err := s.Step(raisedSource(t, 10, 1), 0)
	if err != nil {
		t.Fatalf("step failed: %v", err)
	}

	tests := []struct {
		name  string
		x, y  int
		water float64
	}{
		{"up", 1, 0, 4.4},
		{"down", 1, 2, 4.4},
		{"left", 0, 1, 1.2},
		{"right", 2, 1, 0},
		{"source", 1, 1, 0},
	}
	for _, tt := range tests {
		c, _ := next.At(tt.x, tt.y)
		if math.Abs(c.Water-tt.water) > 1e-9 {
			t.Errorf("%s: expected water %.4f, got %.6f", tt.name, tt.water, c.Water)
		}
	}

	up, _ := next.At(1, 0)
	if want := 0.44 * (1 - p.DepositionRate); math.Abs(up.Sediment-want) > 1e-9 {
		t.Errorf("up: expected sediment %.6f, got %.6f", want, up.Sediment)
	}
}

func TestStepFlowExhaustsOnFirstNeighbor(t *testing.T) {
	p := DefaultParams()
	p.Infiltration = 0
	s, _ := NewStepper(p)

	next, err := s.Step(raisedSource(t, 0.5, 0), 0)
	if err != nil {
		t.Fatalf("step failed: %v", err)
	}
	up, _ := next.At(1, 0)
	if math.Abs(up.Water-0.5) > 1e-12 {
		t.Errorf("up should receive all water, got %f", up.Water)
	}
	for _, pt := range [][2]int{{1, 2}, {0, 1}, {2, 1}} {
		c, _ := next.At(pt[0], pt[1])
		if c.Water != 0 {
			t.Errorf("(%d,%d) should stay dry, got %f", pt[0], pt[1], c.Water)
		}
	}
}

func TestStepDoesNotMutateInput(t *testing.T) {
	tr := raisedSource(t, 2, 0.5)
	before := tr.Cells()
	if _, err := Step(tr, 0.02); err != nil {
		t.Fatalf("step failed: %v", err)
	}
	after := tr.Cells()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("cell %d mutated: %+v -> %+v", i, before[i], after[i])
		}
	}
}

func TestStepDeterministic(t *testing.T) {
	p := DefaultParams()
	tr, _ := NewTerrain(p, NewSource(11))
	a, b := tr, tr
	for i := 0; i < 20; i++ {
		a, _ = Step(a, 0.02)
		b, _ = Step(b, 0.02)
	}
	if !a.Equal(b) {
		t.Error("identical inputs produced different outputs")
	}
}

func TestStepRejectsInvalidRain(t *testing.T) {
	tr := flatTerrain(t, 3, 1)
	for _, rain := range []float64{-0.01, math.NaN(), math.Inf(1)} {
		next, err := Step(tr, rain)
		if !errors.Is(err, ErrInvalidRain) {
			t.Errorf("rain %v: expected ErrInvalidRain, got %v", rain, err)
		}
		if next != nil {
			t.Errorf("rain %v: expected no terrain on error", rain)
		}
	}
	if _, err := Step(nil, 0); !errors.Is(err, ErrNilTerrain) {
		t.Errorf("expected ErrNilTerrain, got %v", err)
	}
}

func TestStepStatsBalance(t *testing.T) {
	p := DefaultParams()
	p.Size = 24
	tr, _ := NewTerrain(p, NewSource(5))
	s, _ := NewStepper(p)

	prev := tr.Totals().Water
	next, stats, err := s.StepWithStats(tr, 0.01)
	if err != nil {
		t.Fatalf("step failed: %v", err)
	}
	if want := 0.01 * 24 * 24; math.Abs(stats.Rain-want) > 1e-12 {
		t.Errorf("rain stat %f, want %f", stats.Rain, want)
	}
	got := next.Totals().Water
	want := prev + stats.Rain - stats.Infiltrated
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("water total %f, expected %f", got, want)
	}
	if stats.Outflow <= 0 || stats.Eroded <= 0 {
		t.Errorf("expected river to flow and erode, got %+v", stats)
	}
}
