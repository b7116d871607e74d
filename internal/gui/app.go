// Package gui is the raylib window: the terrain grid on the left and a
// control column with the rain slider, run and reset buttons and the
// raise-ground checkbox.
package gui

import (
	"errors"
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/riverlab/internal/config"
	"github.com/san-kum/riverlab/internal/gui/widget"
	"github.com/san-kum/riverlab/internal/lab"
	"github.com/san-kum/riverlab/internal/metrics"
	"github.com/san-kum/riverlab/internal/render"
	"github.com/san-kum/riverlab/internal/terrain"
)

// CellSize is the on-screen width of one grid cell in pixels.
const CellSize = 8

// maxCatchUp bounds the ticks run in one frame after a stall.
const maxCatchUp = 4

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(40, 110, 220, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(170, 170, 170, 255)
	ColTextDim = rl.NewColor(80, 80, 80, 255)
	ColPanel   = rl.NewColor(24, 24, 24, 255)
)

type App struct {
	Session  *lab.Session
	Series   *metrics.Series
	Layout   widget.Layout
	Name     string
	Interval time.Duration
	Font     rl.Font

	InMenu   bool
	Presets  []string
	Selected int
	Seed     int64

	elapsed  time.Duration
	dragging bool
	status   string
	quit     bool
}

func initWindow(w, h int) {
	rl.InitWindow(int32(w), int32(h), "riverlab")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	if font.Texture.ID == 0 {
		return rl.GetFontDefault()
	}
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

func newApp(seed int64) *App {
	return &App{
		Font:    loadFont(),
		Presets: config.ListPresets(),
		Seed:    seed,
	}
}

// Run opens the window on an existing session and blocks until it closes.
func Run(session *lab.Session, name string, interval time.Duration) error {
	size := session.Snapshot().Size()
	layout := widget.NewLayout(size, CellSize, lab.RainMin, lab.RainMax, lab.RainStep)
	initWindow(layout.Width, layout.Height)
	defer rl.CloseWindow()

	app := newApp(session.Seed())
	app.attach(session, name, interval)
	app.RunLoop()
	return nil
}

// RunInteractive opens the window on the preset picker.
func RunInteractive(seed int64) error {
	initWindow(900, 560)
	defer rl.CloseWindow()

	app := newApp(seed)
	app.InMenu = true
	app.RunLoop()
	return nil
}

func (a *App) attach(session *lab.Session, name string, interval time.Duration) {
	if interval <= 0 {
		interval = lab.DefaultInterval
	}
	a.Series = metrics.NewSeries(lab.HistoryCapacity)
	session.AddObserver(a.Series)
	a.Session = session
	a.Name = name
	a.Interval = interval
	a.Layout = widget.NewLayout(session.Snapshot().Size(), CellSize, lab.RainMin, lab.RainMax, lab.RainStep)
	a.InMenu = false
	a.elapsed = 0
	a.status = ""
}

func (a *App) loadPreset(name string) error {
	cfg, err := config.GetPreset(name)
	if err != nil {
		return err
	}
	session, err := lab.NewSession(cfg.Params, a.Seed, cfg.Rain)
	if err != nil {
		return err
	}
	a.attach(session, name, cfg.TickInterval)
	rl.SetWindowSize(a.Layout.Width, a.Layout.Height)
	rl.SetWindowTitle("riverlab :: " + name)
	return nil
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && !a.quit {
		a.Update()
		a.Draw()
	}
}

func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeyQ) {
		a.quit = true
		return
	}

	if a.InMenu {
		a.updateMenu()
		return
	}

	if rl.IsKeyPressed(rl.KeyEscape) {
		a.InMenu = true
		return
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Session.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.reset(a.Session.Seed())
	}
	if rl.IsKeyPressed(rl.KeyN) {
		a.reset(a.Session.Seed() + 1)
	}
	if rl.IsKeyPressed(rl.KeyG) {
		a.Session.SetRaiseMode(!a.Session.RaiseMode())
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		a.Session.AdjustRain(1)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		a.Session.AdjustRain(-1)
	}

	a.updateMouse()
	a.advance(time.Duration(float64(rl.GetFrameTime()) * float64(time.Second)))
}

func (a *App) updateMenu() {
	if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ) {
		a.Selected++
	}
	if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK) {
		a.Selected--
	}
	if a.Selected >= len(a.Presets) {
		a.Selected = 0
	}
	if a.Selected < 0 {
		a.Selected = len(a.Presets) - 1
	}

	if rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeySpace) {
		if err := a.loadPreset(a.Presets[a.Selected]); err != nil {
			a.status = err.Error()
		}
	}
}

func (a *App) updateMouse() {
	m := rl.GetMousePosition()
	mx, my := float64(m.X), float64(m.Y)
	l := a.Layout

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		switch {
		case l.Run.Contains(mx, my):
			a.Session.Toggle()
		case l.Reset.Contains(mx, my):
			a.reset(a.Session.Seed())
		case l.Raise.Contains(mx, my):
			a.Session.SetRaiseMode(!a.Session.RaiseMode())
		case l.Rain.Track.Contains(mx, my) || knob(l.Rain, a.Session.Rain()).Contains(mx, my):
			a.dragging = true
		default:
			if x, y, ok := l.Cell(mx, my); ok {
				a.raise(x, y)
			}
		}
	}
	if !rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		a.dragging = false
	}
	if a.dragging {
		if err := a.Session.SetRain(l.Rain.Value(mx)); err != nil {
			a.status = err.Error()
		}
	}
}

func (a *App) raise(x, y int) {
	err := a.Session.Raise(x, y)
	switch {
	case err == nil:
		a.status = fmt.Sprintf("raised (%d,%d)", x, y)
	case errors.Is(err, lab.ErrRaiseDisabled):
	default:
		a.status = err.Error()
	}
}

func (a *App) reset(seed int64) {
	if err := a.Session.Reset(seed); err != nil {
		a.status = err.Error()
		return
	}
	a.elapsed = 0
	a.status = fmt.Sprintf("reset seed %d", seed)
}

// advance runs the ticks owed for dt of wall time while the session runs.
func (a *App) advance(dt time.Duration) {
	if !a.Session.Running() {
		a.elapsed = 0
		return
	}
	a.elapsed += dt
	for i := 0; a.elapsed >= a.Interval; i++ {
		if i == maxCatchUp {
			a.elapsed = 0
			break
		}
		a.elapsed -= a.Interval
		if _, err := a.Session.Tick(); err != nil {
			a.status = err.Error()
			a.Session.SetRunning(false)
			return
		}
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	if a.InMenu {
		a.drawMenu()
	} else {
		a.drawGrid(a.Session.Snapshot())
		a.DrawHUD()
	}

	rl.EndDrawing()
}

func (a *App) drawGrid(t *terrain.Terrain) {
	grid := a.Layout.CellSize >= 4
	t.Each(func(x, y int, c terrain.Cell) {
		r := a.Layout.CellRect(x, y)
		fill := render.CellColor(c)
		rl.DrawRectangleRec(rect(r), fill)
		if grid {
			edge := render.Edge(fill)
			rl.DrawLine(int32(r.X), int32(r.Y), int32(r.X+r.W), int32(r.Y), edge)
			rl.DrawLine(int32(r.X), int32(r.Y), int32(r.X), int32(r.Y+r.H), edge)
		}
	})

	if a.Session.RaiseMode() {
		m := rl.GetMousePosition()
		if x, y, ok := a.Layout.Cell(float64(m.X), float64(m.Y)); ok {
			rl.DrawRectangleLinesEx(rect(a.Layout.CellRect(x, y)), 1, ColSelect)
		}
	}
}

func (a *App) DrawHUD() {
	l := a.Layout
	p := l.Panel
	rl.DrawRectangleRec(rect(p), ColPanel)

	x := int(p.X) + 8
	a.drawText("riverlab", x, int(p.Y)+4, 20, ColSelect)
	a.drawText(fmt.Sprintf(":: %s", a.Name), x, int(p.Y)+28, 14, ColText)

	rain := a.Session.Rain()
	a.drawText(fmt.Sprintf("rain %.3f", rain), x, int(l.Rain.Track.Y)-18, 14, ColText)
	track := l.Rain.Track
	rl.DrawRectangleRec(rect(track), ColTextDim)
	filled := track
	filled.W = l.Rain.Position(rain) - track.X
	rl.DrawRectangleRec(rect(filled), ColAccent)
	rl.DrawRectangleRec(rect(knob(l.Rain, rain)), ColSelect)

	label := "pause"
	if !a.Session.Running() {
		label = "run"
	}
	a.drawButton(l.Run, label)
	a.drawButton(l.Reset, "reset")

	rl.DrawRectangleLinesEx(rect(l.Raise), 1, ColText)
	if a.Session.RaiseMode() {
		inner := l.Raise
		inner.X, inner.Y, inner.W, inner.H = inner.X+4, inner.Y+4, inner.W-8, inner.H-8
		rl.DrawRectangleRec(rect(inner), ColAccent)
	}
	a.drawText("raise ground", int(l.Raise.X+l.Raise.W)+8, int(l.Raise.Y)+2, 14, ColText)

	a.DrawTelemetry()

	y := int(l.Graph.Y+l.Graph.H) + 24
	totals := a.Session.Snapshot().Totals()
	a.drawText(fmt.Sprintf("tick %d", a.Session.Ticks()), x, y, 14, ColText)
	a.drawText(fmt.Sprintf("water %.2f", totals.Water), x, y+18, 14, ColText)
	a.drawText(fmt.Sprintf("sediment %.3f", totals.Sediment), x, y+36, 14, ColText)

	status := "RUNNING"
	col := ColSelect
	if !a.Session.Running() {
		status = "PAUSED"
		col = ColTextDim
	}
	a.drawText(status, x, y+62, 14, col)
	if a.status != "" {
		a.drawText(a.status, x, y+80, 12, ColTextDim)
	}

	a.drawText("[SPACE] RUN  [R] RESET  [G] RAISE  [+/-] RAIN  [ESC] MENU", 16, l.Height-18, 12, ColTextDim)
}

// DrawTelemetry plots total water over the recorded ticks.
func (a *App) DrawTelemetry() {
	g := a.Layout.Graph
	rl.DrawRectangleLinesEx(rect(g), 1, ColTextDim)

	water, err := a.Series.Column("water")
	if err != nil || len(water) < 2 {
		return
	}

	minVal, maxVal := water[0], water[0]
	for _, v := range water {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(water))
	for i, v := range water {
		px := g.X + float64(i)/float64(len(water)-1)*g.W
		py := g.Y + g.H - (v-minVal)/(maxVal-minVal)*g.H
		points[i] = rl.NewVector2(float32(px), float32(py))
	}
	rl.DrawLineStrip(points, ColAccent)
}

func (a *App) drawButton(r widget.Rect, label string) {
	m := rl.GetMousePosition()
	col := ColTextDim
	if r.Contains(float64(m.X), float64(m.Y)) {
		col = ColText
	}
	rl.DrawRectangleLinesEx(rect(r), 1, col)
	a.drawText(label, int(r.X)+10, int(r.Y)+7, 14, ColSelect)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

func (a *App) drawMenu() {
	a.drawText("riverlab", 50, 50, 40, ColSelect)
	a.drawText("Select Preset", 50, 100, 16, ColTextDim)

	y := 160
	for i, name := range a.Presets {
		desc := config.Presets[name].Description
		if i == a.Selected {
			a.drawText(fmt.Sprintf("> %-10s %s", name, desc), 50, y, 20, ColSelect)
		} else {
			a.drawText(fmt.Sprintf("  %-10s %s", name, desc), 50, y, 20, ColText)
		}
		y += 28
	}
	if a.status != "" {
		a.drawText(a.status, 50, y+20, 14, rl.Red)
	}

	a.drawText("ARROWS: NAVIGATE  ENTER: SELECT  Q: QUIT", 50, 520, 14, ColTextDim)
}

func rect(r widget.Rect) rl.Rectangle {
	return rl.NewRectangle(float32(r.X), float32(r.Y), float32(r.W), float32(r.H))
}

func knob(s widget.Slider, v float64) widget.Rect {
	cx := s.Position(v)
	return widget.Rect{X: cx - 5, Y: s.Track.Y - 5, W: 10, H: s.Track.H + 10}
}
