package viz

import (
	"fmt"
	"image"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/riverlab/internal/lab"
	"github.com/san-kum/riverlab/internal/metrics"
	"github.com/san-kum/riverlab/internal/terrain"
)

type TickMsg time.Time

// Model is the live terminal view of a lab session.
type Model struct {
	session  *lab.Session
	series   *metrics.Series
	interval time.Duration
	name     string

	cursor    Cursor
	playHead  int // -1 follows the live terrain
	status    string
	showHelp  bool
	recording bool
	frames    []*image.Paletted
}

// NewModel wraps session. The series observer is attached here so the water
// graph covers the same ticks as the replay history.
func NewModel(session *lab.Session, name string, interval time.Duration) Model {
	if interval <= 0 {
		interval = lab.DefaultInterval
	}
	series := metrics.NewSeries(lab.HistoryCapacity)
	session.AddObserver(series)
	n := session.Snapshot().Size()
	return Model{
		session:  session,
		series:   series,
		interval: interval,
		name:     name,
		cursor:   Cursor{X: n / 2, Y: n / 2},
		playHead: -1,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the session.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case TickMsg:
		m.advance()
		if m.recording {
			m.captureFrame(m.current())
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := m.session.Snapshot().Size()
	switch msg.String() {
	case "q", "ctrl+c":
		if m.recording {
			m.stopRecording()
		}
		return m, tea.Quit
	case " ":
		m.session.Toggle()
	case "r":
		m.reset(m.session.Seed())
	case "n":
		m.reset(m.session.Seed() + 1)
	case "+", "=":
		m.status = fmt.Sprintf("rain %.3f", m.session.AdjustRain(1))
	case "-", "_":
		m.status = fmt.Sprintf("rain %.3f", m.session.AdjustRain(-1))
	case "g":
		m.session.SetRaiseMode(!m.session.RaiseMode())
	case "up", "k":
		m.cursor.Y = max(0, m.cursor.Y-1)
	case "down", "j":
		m.cursor.Y = min(n-1, m.cursor.Y+1)
	case "left", "h":
		m.cursor.X = max(0, m.cursor.X-1)
	case "right", "l":
		m.cursor.X = min(n-1, m.cursor.X+1)
	case "enter", "x":
		m.raise()
	case "[":
		m.scrub(-1)
	case "]":
		m.scrub(1)
	case "t":
		NextTheme()
	case "v":
		if m.recording {
			m.stopRecording()
		} else {
			m.recording = true
			m.frames = make([]*image.Paletted, 0)
			m.status = "recording"
		}
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

// advance runs one tick live, or moves the replay head while replaying.
func (m *Model) advance() {
	if !m.session.Running() {
		return
	}
	if m.playHead != -1 {
		m.playHead++
		if m.playHead >= len(m.session.History()) {
			m.playHead = -1
		}
		return
	}
	if _, err := m.session.Tick(); err != nil {
		m.status = err.Error()
	}
}

func (m *Model) raise() {
	if m.playHead != -1 {
		m.status = "raise disabled during replay"
		return
	}
	if err := m.session.Raise(m.cursor.X, m.cursor.Y); err != nil {
		m.status = err.Error()
		return
	}
	m.status = fmt.Sprintf("raised (%d,%d)", m.cursor.X, m.cursor.Y)
}

// scrub changes the playback position in history.
func (m *Model) scrub(dir int) {
	hist := len(m.session.History())
	if m.playHead == -1 {
		if hist == 0 {
			return
		}
		m.playHead = hist - 1
		m.session.SetRunning(false)
	}
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= hist {
		m.playHead = -1
	}
}

func (m *Model) reset(seed int64) {
	if err := m.session.Reset(seed); err != nil {
		m.status = err.Error()
		return
	}
	m.playHead = -1
	m.status = fmt.Sprintf("reset seed %d", seed)
}

// current returns the terrain on screen and its tick.
func (m Model) current() *terrain.Terrain {
	t, _ := m.currentTick()
	return t
}

func (m Model) currentTick() (*terrain.Terrain, int) {
	if m.playHead != -1 {
		hist := m.session.History()
		if m.playHead < len(hist) {
			return hist[m.playHead].Terrain, hist[m.playHead].Tick
		}
	}
	return m.session.Snapshot(), m.session.Ticks()
}

func (m Model) statusLine() string {
	switch {
	case m.playHead != -1 && m.session.Running():
		return fmt.Sprintf("REPLAYING (%d)", m.playHead-len(m.session.History())+1)
	case m.playHead != -1:
		return fmt.Sprintf("REPLAY PAUSED (%d)", m.playHead-len(m.session.History())+1)
	case m.session.Running():
		return "RUNNING"
	default:
		return "PAUSED"
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	theme := CurrentTheme
	st := theme.styles()
	t, tick := m.currentTick()

	cur := m.cursor
	if !m.session.RaiseMode() {
		cur.X = -1
	}
	gridView := lipgloss.NewStyle().Padding(1, 2).Render(RenderGrid(t, cur, theme.Accent))

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.name)) + "\n")
	s.WriteString(m.statusLine() + "\n\n")

	if water, _ := m.series.Column("water"); len(water) > 1 {
		chart := asciigraph.Plot(water, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Water"))
		s.WriteString(st.graph.Render(chart) + "\n\n")
	}

	tot := t.Totals()
	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Tick", fmt.Sprintf("%d", tick))
	row("Rain", fmt.Sprintf("%.3f", m.session.Rain()))
	row("Water", fmt.Sprintf("%.2f", tot.Water))
	row("Sediment", fmt.Sprintf("%.3f", tot.Sediment))
	row("Mean height", fmt.Sprintf("%.4f", tot.Height/float64(t.Len())))

	raise := "off"
	if m.session.RaiseMode() {
		raise = st.accent.Render("on")
	}
	row("Raise", raise)
	if c, ok := t.At(m.cursor.X, m.cursor.Y); ok {
		row("Cursor", fmt.Sprintf("(%d,%d) h=%.2f w=%.2f", m.cursor.X, m.cursor.Y, c.Height, c.Water))
	}
	if m.recording {
		row("Recording", fmt.Sprintf("%d frames", len(m.frames)))
	}
	if m.status != "" {
		s.WriteString("\n" + st.alert.Render(m.status) + "\n")
	}

	s.WriteString(st.help.Render("─────────────────────\nSP:Pause R:Reset N:New seed\n+/-:Rain G:Raise ↵:Raise here\nT:Theme V:Record ?:Help Q:Quit"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, gridView, st.panel.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Reset with same seed     ║
║  N        - Reset with next seed     ║
║  +/-      - Rain up/down by 0.005    ║
║  G        - Toggle raise mode        ║
║  Arrows   - Move cursor (hjkl)       ║
║  Enter/X  - Raise ground at cursor   ║
║  [ ]      - Rewind / forward         ║
║  T        - Cycle themes             ║
║  V        - Toggle GIF recording     ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

// Run starts the live view on the alternate screen.
func Run(session *lab.Session, name string, interval time.Duration) error {
	_, err := tea.NewProgram(NewModel(session, name, interval), tea.WithAltScreen()).Run()
	return err
}
