package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"playhead/internal/state"
)

// PlaylistView renders the track list with a movable cursor. The
// cursor is view state only; the selected track lives in the store.
type PlaylistView struct {
	Width  int
	Height int
	Cursor int
}

// Render draws the playlist panel from a state snapshot
func (v PlaylistView) Render(snap state.State) string {
	pal := PaletteFor(snap.Theme)
	dimStyle := lipgloss.NewStyle().Foreground(pal.Dim)
	textStyle := lipgloss.NewStyle().Foreground(pal.Text)
	cursorStyle := lipgloss.NewStyle().Foreground(pal.Accent).Bold(true)

	inner := v.Width - 4
	if inner < 10 {
		inner = 10
	}

	lines := []string{
		dimStyle.Render(fmt.Sprintf("Playlist (%d tracks)", len(snap.Playlist))),
	}

	visible := v.Height - 3
	if visible < 1 {
		visible = 1
	}
	start := windowStart(v.Cursor, len(snap.Playlist), visible)

	for i := start; i < len(snap.Playlist) && i < start+visible; i++ {
		track := snap.Playlist[i]
		marker := "  "
		if i == snap.CurrentIndex {
			marker = "▶ "
		}

		label := track.Title
		if track.Artist != "" {
			label = track.Artist + " - " + label
		}
		line := truncate(fmt.Sprintf("%s%2d. %s", marker, i+1, label), inner)

		if i == v.Cursor {
			lines = append(lines, cursorStyle.Render(line))
		} else {
			lines = append(lines, textStyle.Render(line))
		}
	}

	if len(snap.Playlist) == 0 {
		lines = append(lines, dimStyle.Render("  No tracks. Configure media directories to scan."))
	}

	return panelStyle(pal, v.Width-2).Render(strings.Join(lines, "\n"))
}

// windowStart picks the first visible row so the cursor stays on
// screen
func windowStart(cursor, total, visible int) int {
	if total <= visible {
		return 0
	}
	start := cursor - visible/2
	if start < 0 {
		start = 0
	}
	if start > total-visible {
		start = total - visible
	}
	return start
}
