package views

import (
	"github.com/charmbracelet/lipgloss"

	"playhead/api"
)

// Palette holds the colors for one theme
type Palette struct {
	Accent lipgloss.Color
	Text   lipgloss.Color
	Dim    lipgloss.Color
	Border lipgloss.Color
}

// PaletteFor maps a theme to its colors
func PaletteFor(theme api.Theme) Palette {
	if theme == api.ThemeLight {
		return Palette{
			Accent: lipgloss.Color("162"),
			Text:   lipgloss.Color("235"),
			Dim:    lipgloss.Color("245"),
			Border: lipgloss.Color("103"),
		}
	}
	return Palette{
		Accent: lipgloss.Color("212"),
		Text:   lipgloss.Color("252"),
		Dim:    lipgloss.Color("240"),
		Border: lipgloss.Color("62"),
	}
}

func panelStyle(pal Palette, width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(pal.Border).
		Padding(0, 1).
		Width(width)
}
