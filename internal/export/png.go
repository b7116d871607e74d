package export

import (
	"image/png"
	"io"

	"github.com/san-kum/riverlab/internal/render"
	"github.com/san-kum/riverlab/internal/terrain"
)

// TerrainToPNG encodes the rasterized terrain with cellSize pixels per cell.
func TerrainToPNG(w io.Writer, t *terrain.Terrain, cellSize int) error {
	return png.Encode(w, render.Image(t, cellSize))
}
