package state

import (
	"log/slog"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"playhead/api"
	"playhead/internal/settings"
	"playhead/pkg/events"
)

// Settings is the durable key-value storage the store persists its
// volume, theme, and playback-rate fields to
type Settings interface {
	Get(key string) (string, bool)
	Put(key, value string) error
}

// Store is the single source of truth for player state. All mutation
// goes through its methods; every method is safe for use from event
// handlers, including re-entrantly (events are published after the
// state lock is dropped).
type Store struct {
	mu       sync.RWMutex
	state    State
	bus      *events.Bus
	settings Settings
	logger   *slog.Logger
	rng      *rand.Rand
}

// Option configures a Store
type Option func(*Store)

// WithSettings attaches durable storage for the persisted fields
func WithSettings(s Settings) Option {
	return func(st *Store) { st.settings = s }
}

// WithLogger sets the store's logger
func WithLogger(l *slog.Logger) Option {
	return func(st *Store) { st.logger = l }
}

// WithRand sets the random source used for shuffle orders. Tests use
// a seeded source to get deterministic permutations.
func WithRand(r *rand.Rand) Option {
	return func(st *Store) { st.rng = r }
}

// New creates a store with defaults overlaid by any persisted
// volume, theme, and playback-rate values
func New(bus *events.Bus, opts ...Option) *Store {
	s := &Store{
		state:  defaultState(),
		bus:    bus,
		logger: slog.Default(),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.loadPersisted()
	return s
}

// loadPersisted overlays persisted values onto the defaults.
// Unparseable or out-of-range values are logged and skipped.
func (s *Store) loadPersisted() {
	if s.settings == nil {
		return
	}

	if v, ok := s.settings.Get(settings.KeyVolume); ok {
		vol, err := strconv.ParseFloat(v, 64)
		if err != nil || vol < 0 || vol > 1 {
			s.logger.Warn("ignoring persisted volume", "value", v, "err", err)
		} else {
			s.state.Volume = vol
		}
	}

	if v, ok := s.settings.Get(settings.KeyRate); ok {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil || !api.ValidRate(rate) {
			s.logger.Warn("ignoring persisted playback rate", "value", v, "err", err)
		} else {
			s.state.Rate = rate
		}
	}

	if v, ok := s.settings.Get(settings.KeyTheme); ok {
		switch theme := api.Theme(v); theme {
		case api.ThemeDark, api.ThemeLight:
			s.state.Theme = theme
		default:
			s.logger.Warn("ignoring persisted theme", "value", v)
		}
	}
}

// persistChanged writes any changed persisted field to durable
// storage. Failures are logged; the session continues in memory.
func (s *Store) persistChanged(prev, cur State) {
	if s.settings == nil {
		return
	}

	put := func(key, value string) {
		if err := s.settings.Put(key, value); err != nil {
			s.logger.Warn("persist setting failed", "key", key, "err", err)
		}
	}

	if prev.Volume != cur.Volume {
		put(settings.KeyVolume, strconv.FormatFloat(cur.Volume, 'f', -1, 64))
	}
	if prev.Rate != cur.Rate {
		put(settings.KeyRate, strconv.FormatFloat(cur.Rate, 'f', -1, 64))
	}
	if prev.Theme != cur.Theme {
		put(settings.KeyTheme, string(cur.Theme))
	}
}

// Snapshot returns a copy of the full state
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// apply runs a mutation under the lock and returns before/after
// snapshots. Persistence happens before the method returns; events
// are the caller's business, published after the lock is dropped.
func (s *Store) apply(mutate func(*State)) Change {
	s.mu.Lock()
	prev := s.state.clone()
	mutate(&s.state)
	cur := s.state.clone()
	s.mu.Unlock()

	s.persistChanged(prev, cur)
	return Change{Previous: prev, Current: cur, Changed: diffFields(prev, cur)}
}

// Apply merges an arbitrary mutation into the state and, when it
// changed anything, publishes the before/after snapshots on the
// generic state-change topic
func (s *Store) Apply(mutate func(*State)) Change {
	ch := s.apply(mutate)
	if len(ch.Changed) > 0 {
		s.bus.Publish(api.TopicStateChange, ch)
	}
	return ch
}

// SetPlaying flips the playing flag and announces the transition
func (s *Store) SetPlaying(playing bool) {
	ch := s.apply(func(st *State) { st.Playing = playing })
	if len(ch.Changed) == 0 {
		return
	}
	topic := api.TopicPause
	if playing {
		topic = api.TopicPlay
	}
	s.bus.Publish(topic, api.PlaybackChange{Playing: ch.Current.Playing, Buffering: ch.Current.Buffering})
}

// SetBuffering flips the buffering flag
func (s *Store) SetBuffering(buffering bool) {
	ch := s.apply(func(st *State) { st.Buffering = buffering })
	if len(ch.Changed) == 0 {
		return
	}
	s.bus.Publish(api.TopicBuffering, api.PlaybackChange{Playing: ch.Current.Playing, Buffering: buffering})
}

// SetPosition records playback progress
func (s *Store) SetPosition(pos time.Duration) {
	if pos < 0 {
		pos = 0
	}
	ch := s.apply(func(st *State) { st.Position = pos })
	if len(ch.Changed) == 0 {
		return
	}
	s.bus.Publish(api.TopicTimeUpdate, api.TimeUpdate{Position: pos, Duration: ch.Current.Duration})
}

// SetDuration records the duration of the loaded media
func (s *Store) SetDuration(d time.Duration) {
	if d < 0 {
		d = 0
	}
	ch := s.apply(func(st *State) { st.Duration = d })
	if len(ch.Changed) == 0 {
		return
	}
	s.bus.Publish(api.TopicDurationChange, api.TimeUpdate{Position: ch.Current.Position, Duration: d})
}

// SetVolume sets the volume, clamped to [0,1], and persists it
func (s *Store) SetVolume(volume float64) {
	if volume < 0 {
		volume = 0
	} else if volume > 1 {
		volume = 1
	}
	ch := s.apply(func(st *State) { st.Volume = volume })
	if len(ch.Changed) == 0 {
		return
	}
	s.bus.Publish(api.TopicVolumeChange, api.VolumeChange{Volume: volume, Muted: ch.Current.Muted})
}

// SetMuted flips the mute flag
func (s *Store) SetMuted(muted bool) {
	ch := s.apply(func(st *State) { st.Muted = muted })
	if len(ch.Changed) == 0 {
		return
	}
	s.bus.Publish(api.TopicMuteToggle, api.VolumeChange{Volume: ch.Current.Volume, Muted: muted})
}

// SetPlaybackRate sets the playback speed and persists it. Rates
// outside the legal set are ignored.
func (s *Store) SetPlaybackRate(rate float64) {
	if !api.ValidRate(rate) {
		s.logger.Debug("ignoring invalid playback rate", "rate", rate)
		return
	}
	ch := s.apply(func(st *State) { st.Rate = rate })
	if len(ch.Changed) == 0 {
		return
	}
	s.bus.Publish(api.TopicRateChange, api.RateChange{Rate: rate})
}

// SetTheme switches the UI theme and persists it. Unknown themes are
// ignored.
func (s *Store) SetTheme(theme api.Theme) {
	switch theme {
	case api.ThemeDark, api.ThemeLight:
	default:
		s.logger.Debug("ignoring unknown theme", "theme", string(theme))
		return
	}
	ch := s.apply(func(st *State) { st.Theme = theme })
	if len(ch.Changed) == 0 {
		return
	}
	s.bus.Publish(api.TopicThemeChange, api.ThemeChange{Theme: theme})
}

// SetSource records the current media source and its metadata
func (s *Store) SetSource(source string, mediaType api.MediaType, title, artist string) {
	ch := s.apply(func(st *State) {
		st.Source = source
		st.MediaType = mediaType
		st.Title = title
		st.Artist = artist
	})
	if len(ch.Changed) == 0 {
		return
	}
	load := api.MediaLoad{Source: source, Type: mediaType, Title: title, Artist: artist}
	s.bus.Publish(api.TopicMediaLoad, load)
	if ch.Previous.MediaType != mediaType {
		s.bus.Publish(api.TopicMediaTypeChange, load)
	}
}

// SetFullscreen flips the fullscreen flag
func (s *Store) SetFullscreen(on bool) {
	s.setUIFlag(api.TopicFullscreenChange, on, func(st *State) { st.Fullscreen = on })
}

// SetPictureInPicture flips the picture-in-picture flag
func (s *Store) SetPictureInPicture(on bool) {
	s.setUIFlag(api.TopicPiPChange, on, func(st *State) { st.PictureInPicture = on })
}

// SetControlsVisible flips the controls-visible flag
func (s *Store) SetControlsVisible(on bool) {
	s.setUIFlag(api.TopicControlsChange, on, func(st *State) { st.ControlsVisible = on })
}

// SetSidebarOpen flips the sidebar flag
func (s *Store) SetSidebarOpen(on bool) {
	s.setUIFlag(api.TopicSidebarChange, on, func(st *State) { st.SidebarOpen = on })
}

func (s *Store) setUIFlag(topic api.Topic, on bool, mutate func(*State)) {
	ch := s.apply(mutate)
	if len(ch.Changed) == 0 {
		return
	}
	s.bus.Publish(topic, api.UIChange{On: on})
}

// SetSubtitles sets the subtitle flag and source together
func (s *Store) SetSubtitles(enabled bool, source string) {
	ch := s.apply(func(st *State) {
		st.SubtitlesEnabled = enabled
		st.SubtitleSource = source
	})
	if len(ch.Changed) == 0 {
		return
	}
	change := api.SubtitleChange{Enabled: enabled, Source: source}
	if ch.Previous.SubtitleSource != source {
		s.bus.Publish(api.TopicSubtitleLoad, change)
	}
	if ch.Previous.SubtitlesEnabled != enabled {
		s.bus.Publish(api.TopicSubtitleToggle, change)
	}
}
