package terrain

import (
	"errors"
	"math"
	"sync/atomic"
	"testing"
)

func TestNewInvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		if _, err := New(size); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("New(%d): expected ErrInvalidSize, got %v", size, err)
		}
	}
}

func TestFromCellsCopies(t *testing.T) {
	cells := make([]Cell, 4)
	cells[0].Height = 1
	tr, err := FromCells(2, cells)
	if err != nil {
		t.Fatalf("FromCells failed: %v", err)
	}
	cells[0].Height = 5
	if c, _ := tr.At(0, 0); c.Height != 1 {
		t.Errorf("terrain aliased input slice: height %f", c.Height)
	}

	if _, err := FromCells(3, cells); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("expected size mismatch error, got %v", err)
	}
}

func TestAtBounds(t *testing.T) {
	tr, _ := New(3)
	tests := []struct {
		x, y int
		ok   bool
	}{
		{0, 0, true},
		{2, 2, true},
		{-1, 0, false},
		{0, -1, false},
		{3, 0, false},
		{0, 3, false},
	}
	for _, tt := range tests {
		if _, ok := tr.At(tt.x, tt.y); ok != tt.ok {
			t.Errorf("At(%d,%d) ok=%v, want %v", tt.x, tt.y, ok, tt.ok)
		}
	}
}

func TestNeighborOrder(t *testing.T) {
	tr, _ := New(3)
	want := [4][2]int{{1, 0}, {1, 2}, {0, 1}, {2, 1}}
	for d := range Directions {
		x, y, ok := tr.Neighbor(1, 1, d)
		if !ok || x != want[d][0] || y != want[d][1] {
			t.Errorf("direction %d: got (%d,%d,%v), want %v", d, x, y, ok, want[d])
		}
	}

	valid := 0
	for d := range Directions {
		if _, _, ok := tr.Neighbor(0, 0, d); ok {
			valid++
		}
	}
	if valid != 2 {
		t.Errorf("corner should have 2 neighbors, got %d", valid)
	}
}

func TestWithDoesNotMutate(t *testing.T) {
	tr, _ := New(2)
	next, err := tr.With(1, 1, Cell{Height: 1})
	if err != nil {
		t.Fatalf("With failed: %v", err)
	}
	if c, _ := tr.At(1, 1); c.Height != 0 {
		t.Error("With mutated the source terrain")
	}
	if c, _ := next.At(1, 1); c.Height != 1 {
		t.Error("With did not set the cell")
	}
	if _, err := tr.With(2, 0, Cell{}); err == nil {
		t.Error("expected error for out-of-range With")
	}
}

func TestBuilderClamps(t *testing.T) {
	b, _ := NewBuilder(2)
	b.Set(0, 0, Cell{Height: -1, Water: -0.5, Sediment: 0.2})
	b.Set(5, 5, Cell{Height: 9})
	tr := b.Build()

	c, _ := tr.At(0, 0)
	if c.Height != 0 || c.Water != 0 || c.Sediment != 0.2 {
		t.Errorf("expected clamped cell, got %+v", c)
	}
	if err := tr.Validate(); err != nil {
		t.Errorf("built terrain invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		cell  Cell
		valid bool
	}{
		{"zero", Cell{}, true},
		{"normal", Cell{1, 0.3, 0.01}, true},
		{"negative water", Cell{1, -0.1, 0}, false},
		{"NaN height", Cell{math.NaN(), 0, 0}, false},
		{"Inf sediment", Cell{0, 0, math.Inf(1)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, _ := FromCells(1, []Cell{tt.cell})
			err := tr.Validate()
			if tt.valid && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidCell) {
				t.Errorf("expected ErrInvalidCell, got %v", err)
			}
		})
	}
}

func TestTotalsAndEqual(t *testing.T) {
	a, _ := FromCells(2, []Cell{{1, 0.5, 0.1}, {1, 0.5, 0.1}, {1, 0, 0}, {1, 0, 0}})
	got := a.Totals()
	if got.Height != 4 || got.Water != 1 || math.Abs(got.Sediment-0.2) > 1e-12 {
		t.Errorf("unexpected totals %+v", got)
	}

	b, _ := FromCells(2, a.Cells())
	if !a.Equal(b) {
		t.Error("copies should be equal")
	}
	c, _ := b.With(0, 0, Cell{})
	if a.Equal(c) {
		t.Error("modified copy should differ")
	}
}

func TestParallelForCoversRange(t *testing.T) {
	for _, n := range []int{0, 1, 7, 80, 513} {
		var hits []int32
		hits = make([]int32, n)
		ParallelFor(n, 16, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
		})
		for i, h := range hits {
			if h != 1 {
				t.Fatalf("n=%d index %d visited %d times", n, i, h)
			}
		}
	}
}
