package state

import (
	"time"

	"playhead/api"
)

// State is the single record of player, playlist, and UI state. One
// instance lives inside a Store for the life of the process; consumers
// only ever see copies.
type State struct {
	// Playback
	Playing   bool          `json:"isPlaying"`
	Buffering bool          `json:"isBuffering"`
	Position  time.Duration `json:"currentTime"`
	Duration  time.Duration `json:"duration"`
	Rate      float64       `json:"playbackRate"`

	// Volume
	Volume float64 `json:"volume"`
	Muted  bool    `json:"isMuted"`

	// Media
	MediaType api.MediaType `json:"mediaType"`
	Source    string        `json:"currentSrc"`
	Title     string        `json:"title"`
	Artist    string        `json:"artist"`
	Cover     string        `json:"cover"`

	// Playlist
	Playlist     []api.Track    `json:"playlist"`
	CurrentIndex int            `json:"currentTrackIndex"`
	Shuffle      bool           `json:"shuffleEnabled"`
	ShuffleOrder []int          `json:"shuffledOrder"`
	Repeat       api.RepeatMode `json:"repeatMode"`

	// UI
	Theme            api.Theme `json:"theme"`
	Fullscreen       bool      `json:"isFullscreen"`
	PictureInPicture bool      `json:"isPiP"`
	ControlsVisible  bool      `json:"controlsVisible"`
	SidebarOpen      bool      `json:"sidebarOpen"`

	// Subtitles
	SubtitlesEnabled bool   `json:"subtitlesEnabled"`
	SubtitleSource   string `json:"subtitleSource"`
}

// defaultState returns the startup record before any persisted
// overlay is applied
func defaultState() State {
	return State{
		Rate:            1,
		Volume:          1,
		MediaType:       api.MediaUnknown,
		CurrentIndex:    -1,
		Repeat:          api.RepeatOff,
		Theme:           api.ThemeDark,
		ControlsVisible: true,
	}
}

// clone returns a copy with its own playlist and shuffle-order
// backing arrays, so holders cannot mutate store internals
func (s State) clone() State {
	out := s
	if s.Playlist != nil {
		out.Playlist = make([]api.Track, len(s.Playlist))
		copy(out.Playlist, s.Playlist)
	}
	if s.ShuffleOrder != nil {
		out.ShuffleOrder = make([]int, len(s.ShuffleOrder))
		copy(out.ShuffleOrder, s.ShuffleOrder)
	}
	return out
}

// Change is the payload of a generic state-change event
type Change struct {
	Previous State
	Current  State
	Changed  []string
}

// diffFields lists the names of fields that differ between two
// snapshots, in declaration order
func diffFields(prev, cur State) []string {
	var changed []string
	add := func(name string, differs bool) {
		if differs {
			changed = append(changed, name)
		}
	}

	add("Playing", prev.Playing != cur.Playing)
	add("Buffering", prev.Buffering != cur.Buffering)
	add("Position", prev.Position != cur.Position)
	add("Duration", prev.Duration != cur.Duration)
	add("Rate", prev.Rate != cur.Rate)
	add("Volume", prev.Volume != cur.Volume)
	add("Muted", prev.Muted != cur.Muted)
	add("MediaType", prev.MediaType != cur.MediaType)
	add("Source", prev.Source != cur.Source)
	add("Title", prev.Title != cur.Title)
	add("Artist", prev.Artist != cur.Artist)
	add("Cover", prev.Cover != cur.Cover)
	add("Playlist", !sameTracks(prev.Playlist, cur.Playlist))
	add("CurrentIndex", prev.CurrentIndex != cur.CurrentIndex)
	add("Shuffle", prev.Shuffle != cur.Shuffle)
	add("ShuffleOrder", !sameInts(prev.ShuffleOrder, cur.ShuffleOrder))
	add("Repeat", prev.Repeat != cur.Repeat)
	add("Theme", prev.Theme != cur.Theme)
	add("Fullscreen", prev.Fullscreen != cur.Fullscreen)
	add("PictureInPicture", prev.PictureInPicture != cur.PictureInPicture)
	add("ControlsVisible", prev.ControlsVisible != cur.ControlsVisible)
	add("SidebarOpen", prev.SidebarOpen != cur.SidebarOpen)
	add("SubtitlesEnabled", prev.SubtitlesEnabled != cur.SubtitlesEnabled)
	add("SubtitleSource", prev.SubtitleSource != cur.SubtitleSource)

	return changed
}

func sameTracks(a, b []api.Track) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

func sameInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
