package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the colour scheme of the terminal preview.
type Theme struct {
	Name      string
	Canvas    lipgloss.Color
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
}

var (
	ThemePaper = Theme{
		Name:      "paper",
		Canvas:    lipgloss.Color("#2b2b2b"), // ink
		Primary:   lipgloss.Color("#0a0a0a"),
		Secondary: lipgloss.Color("#5a5a5a"),
		Accent:    lipgloss.Color("#c2410c"),
		Text:      lipgloss.Color("#1a1a1a"),
		Muted:     lipgloss.Color("#8a8a8a"),
		Success:   lipgloss.Color("#15803d"),
		Warning:   lipgloss.Color("#b45309"),
		Error:     lipgloss.Color("#b91c1c"),
	}

	ThemeNight = Theme{
		Name:      "night",
		Canvas:    lipgloss.Color("#c7d2fe"), // starlight
		Primary:   lipgloss.Color("#a5b4fc"),
		Secondary: lipgloss.Color("#67e8f9"),
		Accent:    lipgloss.Color("#f0abfc"),
		Text:      lipgloss.Color("#e5e7eb"),
		Muted:     lipgloss.Color("#6b7280"),
		Success:   lipgloss.Color("#34d399"),
		Warning:   lipgloss.Color("#fbbf24"),
		Error:     lipgloss.Color("#f87171"),
	}

	ThemeEmber = Theme{
		Name:      "ember",
		Canvas:    lipgloss.Color("#fdba74"),
		Primary:   lipgloss.Color("#fb923c"),
		Secondary: lipgloss.Color("#facc15"),
		Accent:    lipgloss.Color("#f472b6"),
		Text:      lipgloss.Color("#fff7ed"),
		Muted:     lipgloss.Color("#9a7b66"),
		Success:   lipgloss.Color("#a3e635"),
		Warning:   lipgloss.Color("#fbbf24"),
		Error:     lipgloss.Color("#ef4444"),
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Canvas:    lipgloss.Color("#00ff00"), // green phosphor
		Primary:   lipgloss.Color("#00ff00"),
		Secondary: lipgloss.Color("#00cc00"),
		Accent:    lipgloss.Color("#88ff88"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#005500"),
		Success:   lipgloss.Color("#88ff88"),
		Warning:   lipgloss.Color("#ffff00"),
		Error:     lipgloss.Color("#ff0000"),
	}

	ThemeMinimal = Theme{
		Name:      "minimal",
		Canvas:    lipgloss.Color("#ffffff"),
		Primary:   lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#cccccc"),
		Accent:    lipgloss.Color("#0088ff"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#888888"),
		Success:   lipgloss.Color("#00ff00"),
		Warning:   lipgloss.Color("#ffaa00"),
		Error:     lipgloss.Color("#ff0000"),
	}

	CurrentTheme = ThemePaper

	Themes = []Theme{
		ThemePaper,
		ThemeNight,
		ThemeEmber,
		ThemeRetroGreen,
		ThemeMinimal,
	}
)

// GetTheme returns a theme by name, falling back to paper.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemePaper
}

// SetTheme changes the current theme
func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme cycles to the theme after the current one.
func NextTheme() {
	names := ThemeNames()
	for i, name := range names {
		if name == CurrentTheme.Name {
			SetTheme(names[(i+1)%len(names)])
			return
		}
	}
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
