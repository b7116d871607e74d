package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/riverlab/internal/render"
	"github.com/san-kum/riverlab/internal/terrain"
)

// halfBlock draws two vertically stacked cells per character: the upper
// cell as foreground, the lower as background.
const halfBlock = "▀"

// Cursor marks a cell for highlighting; a negative X hides it.
type Cursor struct {
	X, Y int
}

// RenderGrid draws t with two rows per terminal line.
func RenderGrid(t *terrain.Terrain, cur Cursor, accent lipgloss.Color) string {
	n := t.Size()
	var b strings.Builder
	cellColor := func(x, y int) lipgloss.Color {
		if cur.X >= 0 && x == cur.X && y == cur.Y {
			return accent
		}
		c, _ := t.At(x, y)
		return lipgloss.Color(render.Hex(render.CellColor(c)))
	}

	for y := 0; y < n; y += 2 {
		for x := 0; x < n; x++ {
			style := lipgloss.NewStyle().Foreground(cellColor(x, y))
			if y+1 < n {
				style = style.Background(cellColor(x, y+1))
			}
			b.WriteString(style.Render(halfBlock))
		}
		if y+2 < n {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
