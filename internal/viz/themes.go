package viz

import "github.com/charmbracelet/lipgloss"

// Theme colors the panels around the terrain. Terrain cells always use the
// render package palette so every view shows the same landscape.
type Theme struct {
	Name   string
	Header lipgloss.Color
	Label  lipgloss.Color
	Value  lipgloss.Color
	Accent lipgloss.Color
	Border lipgloss.Color
	Graph  lipgloss.Color
	Muted  lipgloss.Color
	Alert  lipgloss.Color
}

// Available themes
var (
	ThemeOcean = Theme{
		Name:   "ocean",
		Header: lipgloss.Color("#00a8cc"),
		Label:  lipgloss.Color("#4488aa"),
		Value:  lipgloss.Color("#e0f0ff"),
		Accent: lipgloss.Color("#ffd700"),
		Border: lipgloss.Color("#0077be"),
		Graph:  lipgloss.Color("#00ff88"),
		Muted:  lipgloss.Color("#335566"),
		Alert:  lipgloss.Color("#ff4444"),
	}

	ThemeCyberpunk = Theme{
		Name:   "cyberpunk",
		Header: lipgloss.Color("#ff00ff"),
		Label:  lipgloss.Color("#00ffff"),
		Value:  lipgloss.Color("#ffffff"),
		Accent: lipgloss.Color("#ffff00"),
		Border: lipgloss.Color("#ff00ff"),
		Graph:  lipgloss.Color("#00ffff"),
		Muted:  lipgloss.Color("#666666"),
		Alert:  lipgloss.Color("#ff0000"),
	}

	ThemeRetroGreen = Theme{
		Name:   "retro",
		Header: lipgloss.Color("#00ff00"), // green phosphor
		Label:  lipgloss.Color("#00cc00"),
		Value:  lipgloss.Color("#88ff88"),
		Accent: lipgloss.Color("#ffff00"),
		Border: lipgloss.Color("#005500"),
		Graph:  lipgloss.Color("#00ff00"),
		Muted:  lipgloss.Color("#005500"),
		Alert:  lipgloss.Color("#ff0000"),
	}

	ThemeMinimal = Theme{
		Name:   "minimal",
		Header: lipgloss.Color("#ffffff"),
		Label:  lipgloss.Color("#888888"),
		Value:  lipgloss.Color("#cccccc"),
		Accent: lipgloss.Color("#0088ff"),
		Border: lipgloss.Color("#444444"),
		Graph:  lipgloss.Color("#cccccc"),
		Muted:  lipgloss.Color("#555555"),
		Alert:  lipgloss.Color("#ff0000"),
	}

	ThemeSunset = Theme{
		Name:   "sunset",
		Header: lipgloss.Color("#ff6b6b"), // coral
		Label:  lipgloss.Color("#8b6b8c"),
		Value:  lipgloss.Color("#fff5f5"),
		Accent: lipgloss.Color("#feca57"),
		Border: lipgloss.Color("#ff9ff3"),
		Graph:  lipgloss.Color("#feca57"),
		Muted:  lipgloss.Color("#5a4a5b"),
		Alert:  lipgloss.Color("#ff4757"),
	}

	// Default theme
	CurrentTheme = ThemeOcean

	// All available themes
	Themes = []Theme{
		ThemeOcean,
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeMinimal,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to ocean.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeOcean
}

// SetTheme changes the current theme
func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	names := ThemeNames()
	for i, name := range names {
		if name == CurrentTheme.Name {
			SetTheme(names[(i+1)%len(names)])
			return
		}
	}
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

type styles struct {
	header, label, value, accent, graph, help, alert, panel lipgloss.Style
}

func (t Theme) styles() styles {
	return styles{
		header: lipgloss.NewStyle().Foreground(t.Header).Bold(true).MarginBottom(1),
		label:  lipgloss.NewStyle().Foreground(t.Label).Width(12),
		value:  lipgloss.NewStyle().Foreground(t.Value),
		accent: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		graph:  lipgloss.NewStyle().Foreground(t.Graph).Padding(1, 0),
		help:   lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1),
		alert:  lipgloss.NewStyle().Foreground(t.Alert),
		panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Border).
			Padding(1, 2).
			Width(44),
	}
}
