package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"playhead/internal/state"
)

const volumeCells = 10

var spectrumGlyphs = []rune(" ▁▂▃▄▅▆▇█")

// PlayerView renders the now-playing panel: track info, spectrum,
// progress bar, and transport status line.
type PlayerView struct {
	Width int
}

// Render draws the panel from a state snapshot and the current
// spectrum bars (may be nil when nothing is playing)
func (v PlayerView) Render(snap state.State, bars []float64) string {
	pal := PaletteFor(snap.Theme)
	titleStyle := lipgloss.NewStyle().Foreground(pal.Accent).Bold(true)
	textStyle := lipgloss.NewStyle().Foreground(pal.Text)
	dimStyle := lipgloss.NewStyle().Foreground(pal.Dim)

	inner := v.Width - 4
	if inner < 10 {
		inner = 10
	}

	title := snap.Title
	if title == "" {
		title = "Nothing playing"
	}
	artist := snap.Artist
	if artist == "" {
		artist = "Unknown artist"
	}

	lines := []string{
		titleStyle.Render(truncate(title, inner)),
		dimStyle.Render(truncate(artist, inner)),
		"",
		textStyle.Render(spectrumLine(bars)),
		progressLine(snap, inner, pal),
		statusLine(snap, pal),
	}

	return panelStyle(pal, v.Width-2).Render(strings.Join(lines, "\n"))
}

// spectrumLine maps normalized bar levels to block glyphs
func spectrumLine(bars []float64) string {
	var b strings.Builder
	for _, level := range bars {
		if level < 0 {
			level = 0
		}
		if level > 1 {
			level = 1
		}
		idx := int(level * float64(len(spectrumGlyphs)-1))
		b.WriteRune(spectrumGlyphs[idx])
		b.WriteRune(' ')
	}
	return b.String()
}

// progressLine renders elapsed/total time around a bar of filled and
// empty cells
func progressLine(snap state.State, width int, pal Palette) string {
	elapsed := formatDuration(snap.Position)
	total := formatDuration(snap.Duration)

	barWidth := width - len(elapsed) - len(total) - 2
	if barWidth < 4 {
		barWidth = 4
	}

	filled := 0
	if snap.Duration > 0 {
		filled = int(float64(barWidth) * float64(snap.Position) / float64(snap.Duration))
		if filled > barWidth {
			filled = barWidth
		}
	}

	bar := lipgloss.NewStyle().Foreground(pal.Accent).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(pal.Dim).Render(strings.Repeat("░", barWidth-filled))

	return fmt.Sprintf("%s %s %s", elapsed, bar, total)
}

// statusLine shows the transport icon, rate, volume, and modes
func statusLine(snap state.State, pal Palette) string {
	icon := "⏹"
	switch {
	case snap.Buffering:
		icon = "⋯"
	case snap.Playing:
		icon = "▶"
	case snap.Source != "":
		icon = "⏸"
	}

	vol := volumeBar(snap.Volume)
	if snap.Muted {
		vol = "muted"
	}

	modes := []string{fmt.Sprintf("%.2gx", snap.Rate)}
	if snap.Shuffle {
		modes = append(modes, "shuffle")
	}
	modes = append(modes, "repeat: "+snap.Repeat.String())

	left := lipgloss.NewStyle().Foreground(pal.Accent).Render(icon)
	right := lipgloss.NewStyle().Foreground(pal.Dim).Render(strings.Join(modes, "  "))
	return fmt.Sprintf("%s  %s  %s", left, vol, right)
}

// volumeBar renders level as filled and hollow dots
func volumeBar(level float64) string {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	filled := int(level*volumeCells + 0.5)
	return strings.Repeat("●", filled) + strings.Repeat("○", volumeCells-filled)
}

// formatDuration renders a duration as MM:SS
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}
