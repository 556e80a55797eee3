package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"playhead/api"
	"playhead/internal/audio"
	"playhead/internal/config"
	"playhead/internal/player"
	"playhead/internal/spectrum"
	"playhead/internal/state"
	"playhead/internal/ui/views"
)

const (
	tickInterval   = 100 * time.Millisecond
	spectrumWindow = 1024
	volumeStep     = 0.05
	seekStep       = 5 * time.Second
)

// tickMsg drives the periodic snapshot refresh
type tickMsg time.Time

// Model is the bubbletea model. It owns no player state: every frame
// is rendered from a store snapshot, and every key press is forwarded
// to the controller or store.
type Model struct {
	cfg      *config.Config
	store    *state.Store
	ctrl     *player.Controller
	tap      *audio.Tap
	analyzer *spectrum.Analyzer

	snap   state.State
	bars   []float64
	cursor int
	width  int
	height int
}

// NewModel creates the UI model. tap may be nil when no audio engine
// is running; the spectrum stays flat in that case.
func NewModel(cfg *config.Config, store *state.Store, ctrl *player.Controller, tap *audio.Tap) Model {
	bars := cfg.SpectrumBars
	if bars <= 0 {
		bars = 16
	}
	return Model{
		cfg:      cfg,
		store:    store,
		ctrl:     ctrl,
		tap:      tap,
		analyzer: spectrum.NewAnalyzer(bars, spectrumWindow),
		snap:     store.Snapshot(),
		width:    80,
		height:   24,
	}
}

// Run starts the UI and blocks until the user quits
func Run(cfg *config.Config, store *state.Store, ctrl *player.Controller, tap *audio.Tap) error {
	program := tea.NewProgram(NewModel(cfg, store, ctrl, tap), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.snap = m.store.Snapshot()
		if m.cursor >= len(m.snap.Playlist) {
			m.cursor = len(m.snap.Playlist) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		if m.snap.Playing && m.tap != nil {
			m.bars = m.analyzer.Bars(m.tap.Samples())
		} else {
			m.bars = m.analyzer.Bars(nil)
		}
		return m, tickCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	kb := m.cfg.KeyBindings

	switch key {
	case "ctrl+c", kb.Quit:
		return m, tea.Quit

	case kb.PlayPause:
		m.ctrl.PlayPause()
	case kb.Stop:
		m.ctrl.Stop()
	case kb.Next:
		m.ctrl.Next()
	case kb.Previous:
		m.ctrl.Previous()

	case kb.VolumeUp:
		m.store.SetVolume(m.snap.Volume + volumeStep)
	case kb.VolumeDown:
		m.store.SetVolume(m.snap.Volume - volumeStep)
	case kb.Mute:
		m.store.SetMuted(!m.snap.Muted)

	case kb.SeekForward:
		m.ctrl.Seek(m.snap.Position + seekStep)
	case kb.SeekBack:
		m.ctrl.Seek(m.snap.Position - seekStep)

	case kb.Shuffle:
		m.store.ToggleShuffle()
	case kb.Repeat:
		m.store.CycleRepeatMode()
	case kb.Speed:
		m.store.SetPlaybackRate(nextRate(m.snap.Rate))

	case kb.Theme:
		if m.snap.Theme == api.ThemeDark {
			m.store.SetTheme(api.ThemeLight)
		} else {
			m.store.SetTheme(api.ThemeDark)
		}
	case kb.Sidebar:
		m.store.SetSidebarOpen(!m.snap.SidebarOpen)

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.snap.Playlist)-1 {
			m.cursor++
		}
	case "enter":
		m.ctrl.Select(m.cursor)
	case "d", "delete":
		m.store.RemoveTrack(m.cursor)
	}

	return m, nil
}

// nextRate cycles to the next supported playback rate, wrapping at
// the fastest
func nextRate(current float64) float64 {
	for i, rate := range api.PlaybackRates {
		if rate == current {
			return api.PlaybackRates[(i+1)%len(api.PlaybackRates)]
		}
	}
	return 1
}

func (m Model) View() string {
	pal := views.PaletteFor(m.snap.Theme)

	mainWidth := m.width
	if m.snap.SidebarOpen {
		mainWidth = m.width - sidebarWidth
	}

	header := lipgloss.NewStyle().
		Foreground(pal.Accent).
		Bold(true).
		Padding(0, 1).
		Render("playhead")

	playerView := views.PlayerView{Width: mainWidth}
	playlistView := views.PlaylistView{
		Width:  mainWidth,
		Height: m.height - 12,
		Cursor: m.cursor,
	}

	main := lipgloss.JoinVertical(lipgloss.Left,
		header,
		playerView.Render(m.snap, m.bars),
		playlistView.Render(m.snap),
	)

	if m.snap.SidebarOpen {
		return lipgloss.JoinHorizontal(lipgloss.Top, main, m.sidebar(pal))
	}
	return main
}

const sidebarWidth = 28

// sidebar lists the active keybindings
func (m Model) sidebar(pal views.Palette) string {
	kb := m.cfg.KeyBindings
	dim := lipgloss.NewStyle().Foreground(pal.Dim)

	name := func(key string) string {
		if key == " " {
			return "space"
		}
		return key
	}

	rows := [][2]string{
		{name(kb.PlayPause), "play/pause"},
		{name(kb.Stop), "stop"},
		{name(kb.Next), "next"},
		{name(kb.Previous), "previous"},
		{name(kb.SeekForward), "seek +5s"},
		{name(kb.SeekBack), "seek -5s"},
		{name(kb.VolumeUp), "volume up"},
		{name(kb.VolumeDown), "volume down"},
		{name(kb.Mute), "mute"},
		{name(kb.Shuffle), "shuffle"},
		{name(kb.Repeat), "repeat"},
		{name(kb.Speed), "speed"},
		{name(kb.Theme), "theme"},
		{name(kb.Sidebar), "sidebar"},
		{name(kb.Quit), "quit"},
	}

	var b strings.Builder
	b.WriteString("Keys\n")
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("%-7s %s\n", row[0], row[1]))
	}

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(pal.Border).
		Padding(0, 1).
		Width(sidebarWidth - 2)
	return panel.Render(dim.Render(strings.TrimRight(b.String(), "\n")))
}
