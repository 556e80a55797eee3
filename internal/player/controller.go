package player

import (
	"log/slog"
	"time"

	"playhead/api"
	"playhead/internal/state"
	"playhead/pkg/events"
)

// Transport is the playback backend the controller drives. The audio
// engine implements it; tests substitute a fake.
type Transport interface {
	Play(track api.Track, index int)
	Pause()
	Resume()
	Stop()
	Seek(pos time.Duration)
	SetVolume(level float64) error
	SetMuted(muted bool)
	SetRate(rate float64) error
}

// Controller owns the transitions between the state core and the
// transport. Auto-advance is a named transition here, subscribed to
// the terminal track-ended topic only, never to generic state
// changes, which keeps publish cycles bounded.
type Controller struct {
	store     *state.Store
	bus       *events.Bus
	transport Transport
	logger    *slog.Logger
	cancels   []func()
}

// NewController creates a controller over a store, bus, and transport
func NewController(store *state.Store, bus *events.Bus, transport Transport, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		store:     store,
		bus:       bus,
		transport: transport,
		logger:    logger,
	}
}

// Start wires the controller's subscriptions
func (c *Controller) Start() {
	c.cancels = append(c.cancels,
		c.bus.Subscribe(api.TopicTrackChange, c.onTrackChange),
		c.bus.Subscribe(api.TopicTrackEnded, c.onTrackEnded),
		c.bus.Subscribe(api.TopicVolumeChange, c.onVolumeChange),
		c.bus.Subscribe(api.TopicMuteToggle, c.onMuteToggle),
		c.bus.Subscribe(api.TopicRateChange, c.onRateChange),
	)
}

// Close removes the controller's subscriptions
func (c *Controller) Close() {
	for _, cancel := range c.cancels {
		cancel()
	}
	c.cancels = nil
}

// onTrackChange starts the transport for the newly selected track
func (c *Controller) onTrackChange(ev api.Event) {
	change, ok := ev.Payload.(api.TrackChange)
	if !ok {
		return
	}
	c.transport.Play(change.Track, change.Index)
}

// onTrackEnded advances to the next track, or stops at the end of the
// playlist. Repeat-one resolves to the same index and restarts it.
func (c *Controller) onTrackEnded(ev api.Event) {
	next := c.store.NextTrackIndex()
	if next < 0 {
		c.store.SetPlaying(false)
		c.store.SetPosition(0)
		return
	}
	c.store.SetCurrentTrack(next)
}

func (c *Controller) onVolumeChange(ev api.Event) {
	if change, ok := ev.Payload.(api.VolumeChange); ok {
		if err := c.transport.SetVolume(change.Volume); err != nil {
			c.logger.Warn("apply volume", "err", err)
		}
	}
}

func (c *Controller) onMuteToggle(ev api.Event) {
	if change, ok := ev.Payload.(api.VolumeChange); ok {
		c.transport.SetMuted(change.Muted)
	}
}

func (c *Controller) onRateChange(ev api.Event) {
	if change, ok := ev.Payload.(api.RateChange); ok {
		if err := c.transport.SetRate(change.Rate); err != nil {
			c.logger.Warn("apply rate", "err", err)
		}
	}
}

// PlayPause toggles between playing and paused. With a selection but
// no loaded media it starts the selected track.
func (c *Controller) PlayPause() {
	snap := c.store.Snapshot()
	switch {
	case snap.Playing:
		c.transport.Pause()
	case snap.Source != "":
		c.transport.Resume()
	case snap.CurrentIndex >= 0:
		c.store.SetCurrentTrack(snap.CurrentIndex)
	}
}

// Next skips forward; no-op at the end of the playlist
func (c *Controller) Next() {
	if next := c.store.NextTrackIndex(); next >= 0 {
		c.store.SetCurrentTrack(next)
	}
}

// Previous skips backward; no-op at the start
func (c *Controller) Previous() {
	if prev := c.store.PreviousTrackIndex(); prev >= 0 {
		c.store.SetCurrentTrack(prev)
	}
}

// Stop halts the transport and rewinds
func (c *Controller) Stop() {
	c.transport.Stop()
}

// Seek moves the transport to pos
func (c *Controller) Seek(pos time.Duration) {
	c.transport.Seek(pos)
}

// Select jumps to a playlist entry by index
func (c *Controller) Select(index int) {
	c.store.SetCurrentTrack(index)
}
