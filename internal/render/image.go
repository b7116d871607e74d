package render

import (
	"image"

	"github.com/san-kum/riverlab/internal/terrain"
)

// Image rasterizes t with cellSize pixels per cell. Cells of four pixels or
// more get a faint grid on their top and left edges.
func Image(t *terrain.Terrain, cellSize int) *image.RGBA {
	if cellSize <= 0 {
		cellSize = 1
	}
	n := t.Size()
	img := image.NewRGBA(image.Rect(0, 0, n*cellSize, n*cellSize))
	grid := cellSize >= 4

	t.Each(func(x, y int, c terrain.Cell) {
		fill := CellColor(c)
		edge := Edge(fill)
		x0, y0 := x*cellSize, y*cellSize
		for py := 0; py < cellSize; py++ {
			for px := 0; px < cellSize; px++ {
				col := fill
				if grid && (px == 0 || py == 0) {
					col = edge
				}
				img.SetRGBA(x0+px, y0+py, col)
			}
		}
	})
	return img
}
