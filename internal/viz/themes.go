package viz

import "github.com/charmbracelet/lipgloss"

// Theme pairs the TUI chrome colours with the colour map the field is
// painted with.
type Theme struct {
	Name    string
	Palette string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Muted   lipgloss.Color
	Warning lipgloss.Color
}

var (
	ThemeEmber = Theme{
		Name:    "ember",
		Palette: "inferno",
		Primary: lipgloss.Color("#fcffa4"),
		Accent:  lipgloss.Color("#f98e09"),
		Muted:   lipgloss.Color("#6b4c5c"),
		Warning: lipgloss.Color("#ff4444"),
	}

	ThemeMocha = Theme{
		Name:    "mocha",
		Palette: "catppuccin",
		Primary: lipgloss.Color("#cdd6f4"),
		Accent:  lipgloss.Color("#f5c2e7"),
		Muted:   lipgloss.Color("#6c7086"),
		Warning: lipgloss.Color("#f38ba8"),
	}

	ThemeBars = Theme{
		Name:    "bars",
		Palette: "bars",
		Primary: lipgloss.Color("#b4befe"),
		Accent:  lipgloss.Color("#89dceb"),
		Muted:   lipgloss.Color("#585b70"),
		Warning: lipgloss.Color("#fab387"),
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Palette: "viridis",
		Primary: lipgloss.Color("#e0f0ff"),
		Accent:  lipgloss.Color("#35b779"),
		Muted:   lipgloss.Color("#4488aa"),
		Warning: lipgloss.Color("#ffcc00"),
	}

	ThemeForge = Theme{
		Name:    "forge",
		Palette: "heat",
		Primary: lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#ff6b00"),
		Muted:   lipgloss.Color("#888888"),
		Warning: lipgloss.Color("#ff0000"),
	}

	Themes = []Theme{
		ThemeEmber,
		ThemeMocha,
		ThemeBars,
		ThemeOcean,
		ThemeForge,
	}
)

// GetTheme returns a theme by name, falling back to the first theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

// ThemeForPalette returns the first theme painting with the given colour map.
func ThemeForPalette(name string) Theme {
	for _, t := range Themes {
		if t.Palette == name {
			return t
		}
	}
	return Themes[0]
}

// NextTheme returns the theme after t in Themes, wrapping around.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
