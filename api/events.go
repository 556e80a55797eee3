package api

import "time"

// Topic names one event stream on the bus
type Topic string

// Playback topics
const (
	TopicPlay           Topic = "playback.play"
	TopicPause          Topic = "playback.pause"
	TopicStop           Topic = "playback.stop"
	TopicSeek           Topic = "playback.seek"
	TopicTimeUpdate     Topic = "playback.time"
	TopicDurationChange Topic = "playback.duration"
	TopicTrackEnded     Topic = "playback.ended"
	TopicRateChange     Topic = "playback.rate"
	TopicBuffering      Topic = "playback.buffering"
)

// Volume topics
const (
	TopicVolumeChange Topic = "volume.change"
	TopicMuteToggle   Topic = "volume.mute"
)

// Media topics
const (
	TopicMediaLoad       Topic = "media.load"
	TopicMediaError      Topic = "media.error"
	TopicMediaTypeChange Topic = "media.type"
)

// Playlist topics
const (
	TopicPlaylistUpdate Topic = "playlist.update"
	TopicTrackChange    Topic = "playlist.track"
	TopicShuffleToggle  Topic = "playlist.shuffle"
	TopicRepeatChange   Topic = "playlist.repeat"
)

// UI topics
const (
	TopicThemeChange      Topic = "ui.theme"
	TopicFullscreenChange Topic = "ui.fullscreen"
	TopicPiPChange        Topic = "ui.pip"
	TopicControlsChange   Topic = "ui.controls"
	TopicSidebarChange    Topic = "ui.sidebar"
)

// Subtitle topics
const (
	TopicSubtitleLoad   Topic = "subtitle.load"
	TopicSubtitleToggle Topic = "subtitle.toggle"
)

// TopicStateChange carries the generic before/after snapshot published
// by untargeted state mutations.
const TopicStateChange Topic = "state.change"

// Event is a single bus delivery. Payload holds the fixed struct
// documented for the topic; handlers type-assert on it.
type Event struct {
	Topic   Topic
	Payload any
}

// TrackChange is published when a new track becomes current
type TrackChange struct {
	Track Track
	Index int
}

// PlaylistUpdate is published after any playlist mutation
type PlaylistUpdate struct {
	Tracks []Track
	Index  int
}

// ShuffleToggle is published when shuffle is enabled or disabled
type ShuffleToggle struct {
	Enabled bool
	Order   []int
}

// RepeatChange is published when the repeat mode rotates
type RepeatChange struct {
	Mode RepeatMode
}

// TimeUpdate carries playback position progress
type TimeUpdate struct {
	Position time.Duration
	Duration time.Duration
}

// VolumeChange carries the effective volume after a change
type VolumeChange struct {
	Volume float64
	Muted  bool
}

// RateChange carries the playback speed after a change
type RateChange struct {
	Rate float64
}

// TrackEnded is published by the transport when a track plays to
// completion. Auto-advance listens for this topic and nothing else.
type TrackEnded struct {
	Track Track
	Index int
}

// PlaybackChange carries the play/pause/buffering flags after a
// transport state flip
type PlaybackChange struct {
	Playing   bool
	Buffering bool
}

// MediaLoad is published when a new source becomes current
type MediaLoad struct {
	Source string
	Type   MediaType
	Title  string
	Artist string
}

// MediaError reports a transport or decode failure
type MediaError struct {
	Track Track
	Err   error
}

// SubtitleChange carries the subtitle state after a load or toggle
type SubtitleChange struct {
	Enabled bool
	Source  string
}

// UIChange carries a single UI flag flip (fullscreen, pip, controls,
// sidebar); the topic identifies which flag.
type UIChange struct {
	On bool
}

// ThemeChange carries the theme after a switch
type ThemeChange struct {
	Theme Theme
}
