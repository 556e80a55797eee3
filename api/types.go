package api

import "time"

// MediaType classifies a track by its container kind
type MediaType string

const (
	MediaVideo   MediaType = "video"
	MediaAudio   MediaType = "audio"
	MediaUnknown MediaType = "unknown"
)

// RepeatMode governs end-of-track and end-of-playlist behavior
type RepeatMode int

const (
	RepeatOff RepeatMode = iota
	RepeatAll
	RepeatOne
)

// String returns the human-readable name of the repeat mode
func (m RepeatMode) String() string {
	switch m {
	case RepeatAll:
		return "all"
	case RepeatOne:
		return "one"
	default:
		return "off"
	}
}

// Theme identifies a UI color theme
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// PlaybackRates lists the legal playback speed multipliers
var PlaybackRates = []float64{0.25, 0.5, 0.75, 1, 1.25, 1.5, 1.75, 2}

// ValidRate reports whether rate is one of the legal playback speeds
func ValidRate(rate float64) bool {
	for _, r := range PlaybackRates {
		if r == rate {
			return true
		}
	}
	return false
}

// ResourceHandle is an opaque reference to an underlying media byte
// source. The playlist owns the handle of every track it holds and
// releases it exactly once when the track leaves the playlist.
type ResourceHandle interface {
	Release() error
}

// Track is one playable media entry
type Track struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Artist   string         `json:"artist"`
	Album    string         `json:"album"`
	Filename string         `json:"filename"`
	Path     string         `json:"path"`
	URL      string         `json:"url,omitempty"`
	Type     MediaType      `json:"type"`
	Size     int64          `json:"size"`
	Cover    string         `json:"cover,omitempty"`
	Duration time.Duration  `json:"duration,omitempty"`
	Handle   ResourceHandle `json:"-"`
}
