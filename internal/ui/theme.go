package ui

import "github.com/charmbracelet/lipgloss"

// Theme is a named colour palette for the grid.
type Theme struct {
	Name string

	Background string // grid rows
	Surface    string // header, column titles and status line
	SurfaceAlt string // zebra rows
	FocusBg    string // row under the cursor

	SelectionBg   string // cell under the cursor
	SelectionText string
	BorderFocus   string // help and dialog frames

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string
}

// Styles contains pre-built Lipgloss styles for a theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style

	ColumnTitle lipgloss.Style
	Row         lipgloss.Style
	RowAlt      lipgloss.Style
	RowFocus    lipgloss.Style
	Selected    lipgloss.Style

	badgeText string
	badgeBg   map[string]string
}

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

func cell(bg, text string) lipgloss.Style {
	return fg(text).Background(lipgloss.Color(bg))
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		SuccessText: fg(t.Success).Bold(true),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),

		ColumnTitle: cell(t.Surface, t.Accent).Bold(true),
		Row:         cell(t.Background, t.Text),
		RowAlt:      cell(t.SurfaceAlt, t.Text),
		RowFocus:    cell(t.FocusBg, t.Text),
		Selected:    cell(t.SelectionBg, t.SelectionText),

		badgeText: t.Background,
		badgeBg: map[string]string{
			badgeModified: t.Warning,
			badgeSearch:   t.Info,
		},
	}
}

const (
	badgeModified = "MODIFIED"
	badgeSearch   = "SEARCH"
)

// Badge returns the style of a header badge such as MODIFIED or SEARCH.
func (s Styles) Badge(kind string) lipgloss.Style {
	bg, ok := s.badgeBg[kind]
	if !ok {
		bg = s.badgeBg[badgeSearch]
	}
	return cell(bg, s.badgeText).Bold(true).Padding(0, 1)
}

// themes in cycle order; the first is the default.
var themes = []Theme{
	{
		// https://github.com/EdenEast/nightfox.nvim
		Name:       "Nightfox",
		Background: "#131a24", Surface: "#192330", SurfaceAlt: "#172029", FocusBg: "#212e3f",
		SelectionBg: "#2b3b51", SelectionText: "#cdcecf", BorderFocus: "#719cd6",
		Text: "#cdcecf", Muted: "#738091", Faint: "#71839b", Accent: "#719cd6",
		Success: "#81b29a", Warning: "#dbc074", Danger: "#c94f6d", Info: "#63cdcf",
	},
	{
		// https://github.com/rebelot/kanagawa.nvim
		Name:       "Kanagawa",
		Background: "#16161D", Surface: "#1F1F28", SurfaceAlt: "#1A1A22", FocusBg: "#2A2A37",
		SelectionBg: "#2D4F67", SelectionText: "#DCD7BA", BorderFocus: "#7E9CD8",
		Text: "#DCD7BA", Muted: "#C8C093", Faint: "#727169", Accent: "#7E9CD8",
		Success: "#98BB6C", Warning: "#E6C384", Danger: "#E46876", Info: "#7FB4CA",
	},
	{
		// Light theme for bright terminals; Solarized light base tones.
		Name:       "Ledger",
		Background: "#fdf6e3", Surface: "#eee8d5", SurfaceAlt: "#f5efdc", FocusBg: "#e4ddc8",
		SelectionBg: "#268bd2", SelectionText: "#fdf6e3", BorderFocus: "#268bd2",
		Text: "#073642", Muted: "#586e75", Faint: "#93a1a1", Accent: "#268bd2",
		Success: "#859900", Warning: "#b58900", Danger: "#dc322f", Info: "#2aa198",
	},
}

// GetTheme returns a theme by name, or the default theme.
func GetTheme(name string) Theme {
	for _, t := range themes {
		if t.Name == name {
			return t
		}
	}
	return themes[0]
}

// NextTheme returns the theme name after current in the cycle.
func NextTheme(current string) string {
	for i, t := range themes {
		if t.Name == current {
			return themes[(i+1)%len(themes)].Name
		}
	}
	return themes[0].Name
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
