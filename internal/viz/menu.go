package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/riverlab/internal/config"
	"github.com/san-kum/riverlab/internal/lab"
)

const (
	stateMenu = iota
	stateSim
)

// menu lets the user pick a preset before the live view starts.
type menu struct {
	state     int
	cursor    int
	presets   []string
	seed      int64
	err       error
	liveModel Model
}

func newMenu(seed int64) menu {
	return menu{state: stateMenu, presets: config.ListPresets(), seed: seed}
}

func (m menu) Init() tea.Cmd { return nil }

func (m menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateSim {
		newLive, cmd := m.liveModel.Update(msg)
		m.liveModel = newLive.(Model)
		return m, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		return m.start()
	}
	return m, nil
}

func (m menu) start() (tea.Model, tea.Cmd) {
	name := m.presets[m.cursor]
	cfg, err := config.GetPreset(name)
	if err != nil {
		m.err = err
		return m, nil
	}
	session, err := lab.NewSession(cfg.Params, m.seed, cfg.Rain)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.liveModel = NewModel(session, name, cfg.TickInterval)
	m.state = stateSim
	return m, m.liveModel.Init()
}

func (m menu) View() string {
	if m.state == stateSim {
		return m.liveModel.View()
	}

	theme := CurrentTheme
	h := lipgloss.NewStyle().Foreground(theme.Header).Bold(true)
	sub := lipgloss.NewStyle().Foreground(theme.Muted)
	sel := lipgloss.NewStyle().Foreground(theme.Value).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.Accent)
	key := lipgloss.NewStyle().Foreground(theme.Label).Bold(true)

	var b strings.Builder
	b.WriteString("\n\n    " + h.Render("RIVERLAB") + "\n    " + sub.Render("river erosion lab") + "\n    " + sub.Render("─────────────────────────") + "\n\n")
	for i, name := range m.presets {
		d := config.Presets[name].Description
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", h.Render("▸"), sel.Render(fmt.Sprintf("%-10s", name)), desc.Render(d)))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", sub.Render(fmt.Sprintf("%-10s", name)), sub.Render(d)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + lipgloss.NewStyle().Foreground(theme.Alert).Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + key.Render("j/k") + sub.Render(" navigate  ") + key.Render("enter") + sub.Render(" start  ") + key.Render("q") + sub.Render(" quit") + "\n")
	return b.String()
}

// RunInteractive shows the preset menu, then the live view.
func RunInteractive(seed int64) error {
	_, err := tea.NewProgram(newMenu(seed), tea.WithAltScreen()).Run()
	return err
}
