// Package render maps terrain cells to colors shared by the window, the
// terminal view and the SVG exporter.
package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/san-kum/riverlab/internal/terrain"
)

// Water is the overlay color blended on top of ground.
var Water = color.RGBA{R: 40, G: 110, B: 220, A: 255}

// GridLine darkens cell borders.
var GridLine = color.RGBA{A: 255}

// gridAlpha keeps the grid faint enough to read the terrain underneath.
const gridAlpha = 0.15

// fullHeight is the height rendered at full brightness.
const fullHeight = 2.0

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// GroundColor shades ground by height, brightening where sediment is carried.
func GroundColor(c terrain.Cell) color.RGBA {
	shade := 0.3 + 0.6*clamp01(c.Height/fullHeight) + math.Min(0.1, c.Sediment)
	return color.RGBA{
		R: uint8(235 * shade),
		G: uint8(200 * shade),
		B: uint8(140 * shade),
		A: 255,
	}
}

// WaterAlpha is the opacity of the water overlay: min(1, water).
func WaterAlpha(c terrain.Cell) float64 {
	return clamp01(c.Water)
}

// Blend mixes top over bottom with opacity alpha in [0, 1].
func Blend(bottom, top color.RGBA, alpha float64) color.RGBA {
	a := clamp01(alpha)
	mix := func(b, t uint8) uint8 {
		return uint8(math.Round(float64(b)*(1-a) + float64(t)*a))
	}
	return color.RGBA{R: mix(bottom.R, top.R), G: mix(bottom.G, top.G), B: mix(bottom.B, top.B), A: 255}
}

// CellColor is ground with the water overlay applied.
func CellColor(c terrain.Cell) color.RGBA {
	return Blend(GroundColor(c), Water, WaterAlpha(c))
}

// Edge is the grid line color drawn over a cell of color fill.
func Edge(fill color.RGBA) color.RGBA {
	return Blend(fill, GridLine, gridAlpha)
}

// Hex formats c as #rrggbb.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
