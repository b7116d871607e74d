package widget

import (
	"math"
	"testing"
)

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 20, H: 10}
	tests := []struct {
		x, y float64
		want bool
	}{
		{10, 10, true},
		{29.9, 19.9, true},
		{30, 15, false},
		{15, 20, false},
		{9.9, 15, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("Contains(%v,%v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestSliderValue(t *testing.T) {
	s := Slider{Track: Rect{X: 100, W: 100}, Min: 0, Max: 0.05, Step: 0.005}
	tests := []struct {
		px   float64
		want float64
	}{
		{50, 0},
		{100, 0},
		{150, 0.025},
		{152, 0.025},
		{200, 0.05},
		{400, 0.05},
	}
	for _, tt := range tests {
		if got := s.Value(tt.px); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Value(%v) = %v, want %v", tt.px, got, tt.want)
		}
	}
}

func TestSliderPosition(t *testing.T) {
	s := Slider{Track: Rect{X: 100, W: 100}, Min: 0, Max: 0.05, Step: 0.005}
	if got := s.Position(0.01); math.Abs(got-120) > 1e-9 {
		t.Errorf("Position(0.01) = %v, want 120", got)
	}
	if got := s.Position(1); got != 200 {
		t.Errorf("Position should clamp to track end, got %v", got)
	}
	if got := s.Value(s.Position(0.035)); math.Abs(got-0.035) > 1e-12 {
		t.Errorf("round trip gave %v", got)
	}
}

func TestLayoutCell(t *testing.T) {
	l := NewLayout(80, 8, 0, 0.05, 0.005)
	if l.Grid.W != 640 || l.Grid.H != 640 {
		t.Fatalf("unexpected grid %+v", l.Grid)
	}

	x, y, ok := l.Cell(l.Grid.X+17, l.Grid.Y+9)
	if !ok || x != 2 || y != 1 {
		t.Errorf("Cell = (%d,%d,%v), want (2,1,true)", x, y, ok)
	}
	if _, _, ok := l.Cell(l.Grid.X-1, l.Grid.Y); ok {
		t.Error("point left of grid should miss")
	}
	if _, _, ok := l.Cell(l.Grid.X+l.Grid.W, l.Grid.Y); ok {
		t.Error("point on right edge should miss")
	}

	r := l.CellRect(2, 1)
	if !r.Contains(l.Grid.X+17, l.Grid.Y+9) {
		t.Errorf("CellRect(2,1) = %+v does not contain the point", r)
	}
}

func TestLayoutControlsDisjoint(t *testing.T) {
	l := NewLayout(16, 8, 0, 0.05, 0.005)
	rects := map[string]Rect{
		"grid":  l.Grid,
		"run":   l.Run,
		"reset": l.Reset,
		"raise": l.Raise,
		"rain":  l.Rain.Track,
	}
	for a, ra := range rects {
		for b, rb := range rects {
			if a >= b {
				continue
			}
			if overlaps(ra, rb) {
				t.Errorf("%s %+v overlaps %s %+v", a, ra, b, rb)
			}
		}
	}
	if l.Width <= int(l.Panel.X) || float64(l.Height) < l.Grid.H {
		t.Errorf("window %dx%d too small", l.Width, l.Height)
	}
}

func overlaps(a, b Rect) bool {
	return a.X < b.X+b.W && b.X < a.X+a.W && a.Y < b.Y+b.H && b.Y < a.Y+a.H
}
