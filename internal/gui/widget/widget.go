// Package widget holds the window geometry: where the grid and the control
// panel sit, and how pointer positions map onto them.
package widget

import (
	"math"

	"github.com/san-kum/riverlab/internal/erosion"
)

// Rect is an axis-aligned screen rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether (px, py) lies inside r. The right and bottom
// edges are exclusive.
func (r Rect) Contains(px, py float64) bool {
	return px >= r.X && py >= r.Y && px < r.X+r.W && py < r.Y+r.H
}

// Slider maps a horizontal track onto [Min, Max] in increments of Step.
type Slider struct {
	Track    Rect
	Min, Max float64
	Step     float64
}

// Value returns the snapped value under horizontal position px.
func (s Slider) Value(px float64) float64 {
	if s.Track.W <= 0 {
		return s.Min
	}
	frac := math.Max(0, math.Min(1, (px-s.Track.X)/s.Track.W))
	v := s.Min + frac*(s.Max-s.Min)
	if s.Step > 0 {
		v = s.Min + math.Round((v-s.Min)/s.Step)*s.Step
	}
	return math.Max(s.Min, math.Min(s.Max, v))
}

// Position returns the horizontal knob position for v.
func (s Slider) Position(v float64) float64 {
	if s.Max <= s.Min {
		return s.Track.X
	}
	frac := math.Max(0, math.Min(1, (v-s.Min)/(s.Max-s.Min)))
	return s.Track.X + frac*s.Track.W
}

const (
	margin      = 16.0
	panelWidth  = 220.0
	rowHeight   = 28.0
	buttonWidth = 90.0
	checkSize   = 18.0
	minHeight   = 420.0
)

// Layout places the grid on the left and the controls in a column on its
// right.
type Layout struct {
	CellSize int
	Size     int

	Grid   Rect
	Panel  Rect
	Rain   Slider
	Run    Rect
	Reset  Rect
	Raise  Rect
	Graph  Rect
	Width  int
	Height int
}

// NewLayout computes the window for a size×size grid of cellSize pixels.
func NewLayout(size, cellSize int, rainMin, rainMax, rainStep float64) Layout {
	side := float64(size * cellSize)
	l := Layout{
		CellSize: cellSize,
		Size:     size,
		Grid:     Rect{X: margin, Y: margin, W: side, H: side},
	}

	px := margin*2 + side
	l.Panel = Rect{X: px, Y: margin, W: panelWidth, H: math.Max(side, minHeight-2*margin)}

	y := l.Panel.Y + rowHeight*2
	l.Rain = Slider{
		Track: Rect{X: px, Y: y + rowHeight*0.6, W: panelWidth - margin, H: 8},
		Min:   rainMin,
		Max:   rainMax,
		Step:  rainStep,
	}
	y += rowHeight * 2
	l.Run = Rect{X: px, Y: y, W: buttonWidth, H: rowHeight}
	l.Reset = Rect{X: px + buttonWidth + margin/2, Y: y, W: buttonWidth, H: rowHeight}
	y += rowHeight * 1.5
	l.Raise = Rect{X: px, Y: y, W: checkSize, H: checkSize}
	y += rowHeight * 2
	l.Graph = Rect{X: px, Y: y, W: panelWidth - margin, H: rowHeight * 3}

	l.Width = int(px + panelWidth + margin)
	l.Height = int(math.Max(side+2*margin, minHeight))
	return l
}

// Cell maps a pointer position to grid coordinates. ok is false outside the
// grid.
func (l Layout) Cell(px, py float64) (x, y int, ok bool) {
	if !l.Grid.Contains(px, py) {
		return 0, 0, false
	}
	x, y = erosion.CellAt(px-l.Grid.X, py-l.Grid.Y, l.CellSize)
	if x < 0 || y < 0 || x >= l.Size || y >= l.Size {
		return 0, 0, false
	}
	return x, y, true
}

// CellRect is the screen rectangle of grid cell (x, y).
func (l Layout) CellRect(x, y int) Rect {
	cs := float64(l.CellSize)
	return Rect{X: l.Grid.X + float64(x)*cs, Y: l.Grid.Y + float64(y)*cs, W: cs, H: cs}
}
