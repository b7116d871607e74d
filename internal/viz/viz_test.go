package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/riverlab/internal/erosion"
	"github.com/san-kum/riverlab/internal/lab"
	"github.com/san-kum/riverlab/internal/terrain"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	p := erosion.DefaultParams()
	p.Size = 10
	s, err := lab.NewSession(p, 1, lab.DefaultRain)
	if err != nil {
		t.Fatal(err)
	}
	return NewModel(s, "test", 0)
}

func press(m Model, key string) Model {
	var msg tea.KeyMsg
	switch key {
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func tick(m Model) Model {
	next, _ := m.Update(TickMsg{})
	return next.(Model)
}

func TestRenderGridLines(t *testing.T) {
	for _, size := range []int{1, 4, 5} {
		tr, _ := terrain.New(size)
		out := RenderGrid(tr, Cursor{X: -1}, "#ffffff")
		lines := strings.Split(out, "\n")
		if want := (size + 1) / 2; len(lines) != want {
			t.Errorf("size %d: expected %d lines, got %d", size, want, len(lines))
		}
		if got := strings.Count(out, halfBlock); got != size*((size+1)/2) {
			t.Errorf("size %d: expected %d blocks, got %d", size, size*((size+1)/2), got)
		}
	}
}

func TestModelTicks(t *testing.T) {
	m := newTestModel(t)
	m = tick(tick(m))
	if m.session.Ticks() != 2 {
		t.Errorf("expected 2 ticks, got %d", m.session.Ticks())
	}
	if m.series.Len() != 2 {
		t.Errorf("expected 2 series samples, got %d", m.series.Len())
	}

	m = press(m, " ")
	m = tick(m)
	if m.session.Ticks() != 2 {
		t.Error("paused model should not tick")
	}
}

func TestModelRainKeys(t *testing.T) {
	m := newTestModel(t)
	m = press(m, "+")
	m = press(m, "+")
	if r := m.session.Rain(); r < 0.0199 || r > 0.0201 {
		t.Errorf("expected rain 0.02, got %f", r)
	}
	for i := 0; i < 10; i++ {
		m = press(m, "-")
	}
	if m.session.Rain() != lab.RainMin {
		t.Errorf("rain should clamp at minimum, got %f", m.session.Rain())
	}
}

func TestModelRaiseAtCursor(t *testing.T) {
	m := newTestModel(t)
	m = press(m, "enter")
	if !strings.Contains(m.status, "raise mode is off") {
		t.Errorf("raise should be gated, status %q", m.status)
	}

	m = press(m, "g")
	m = press(m, "h")
	before, _ := m.session.Snapshot().At(m.cursor.X, m.cursor.Y)
	m = press(m, "enter")
	after, _ := m.session.Snapshot().At(m.cursor.X, m.cursor.Y)
	if after.Height <= before.Height && before.Height < 2 {
		t.Errorf("expected height to rise: %f -> %f", before.Height, after.Height)
	}
	if m.cursor.X != 4 {
		t.Errorf("cursor should have moved left to 4, got %d", m.cursor.X)
	}
}

func TestModelCursorClamp(t *testing.T) {
	m := newTestModel(t)
	for i := 0; i < 20; i++ {
		m = press(m, "l")
		m = press(m, "k")
	}
	if m.cursor.X != 9 || m.cursor.Y != 0 {
		t.Errorf("cursor should clamp at (9,0), got (%d,%d)", m.cursor.X, m.cursor.Y)
	}
}

func TestModelScrub(t *testing.T) {
	m := newTestModel(t)
	for i := 0; i < 5; i++ {
		m = tick(m)
	}
	m = press(m, "[")
	if m.playHead != 3 || m.session.Running() {
		t.Fatalf("scrub should pause at history index 3, got %d", m.playHead)
	}
	if _, tk := m.currentTick(); tk != 4 {
		t.Errorf("expected replay of tick 4, got %d", tk)
	}
	m = press(m, "]")
	m = press(m, "]")
	if m.playHead != -1 {
		t.Errorf("scrubbing past the end should return to live, got %d", m.playHead)
	}
}

func TestModelReset(t *testing.T) {
	m := newTestModel(t)
	initial := m.session.Snapshot()
	m = tick(tick(m))
	m = press(m, "r")
	if !m.session.Snapshot().Equal(initial) || m.session.Ticks() != 0 {
		t.Error("reset should restore the initial terrain")
	}
	m = press(m, "n")
	if m.session.Seed() != 2 {
		t.Errorf("expected next seed 2, got %d", m.session.Seed())
	}
}

func TestModelView(t *testing.T) {
	m := newTestModel(t)
	m = tick(tick(m))
	out := m.View()
	for _, want := range []string{"TEST", "RUNNING", "Tick", "Rain"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestThemes(t *testing.T) {
	defer SetTheme(ThemeOcean.Name)
	SetTheme("retro")
	if CurrentTheme.Name != "retro" {
		t.Fatalf("expected retro, got %s", CurrentTheme.Name)
	}
	NextTheme()
	if CurrentTheme.Name != "minimal" {
		t.Errorf("expected minimal after retro, got %s", CurrentTheme.Name)
	}
	if GetTheme("nope").Name != "ocean" {
		t.Error("unknown theme should fall back to ocean")
	}
}

func TestFrame(t *testing.T) {
	tr, _ := terrain.New(3)
	f := Frame(tr)
	if b := f.Bounds(); b.Dx() != 3*frameCellSize {
		t.Errorf("unexpected frame width %d", b.Dx())
	}
}
