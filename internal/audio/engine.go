package audio

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"

	"playhead/api"
	"playhead/internal/state"
	playerrors "playhead/pkg/errors"
	"playhead/pkg/events"
)

type commandType int

const (
	cmdPlay commandType = iota
	cmdPause
	cmdResume
	cmdStop
	cmdSeek
	cmdVolume
	cmdMute
	cmdRate
)

type command struct {
	typ      commandType
	track    api.Track
	index    int
	position time.Duration
	volume   float64
	muted    bool
	rate     float64
}

// Engine is the playback transport. It runs a command loop in its own
// goroutine, reflects transport state into the store, and publishes
// terminal conditions (track ended, media error) on the bus. It never
// decides what plays next; that is the controller's transition.
type Engine struct {
	store  *state.Store
	bus    *events.Bus
	logger *slog.Logger

	commands chan command
	tap      *Tap

	mu         sync.Mutex
	streamer   beep.StreamSeekCloser
	resampler  *beep.Resampler
	ctrl       *beep.Ctrl
	volume     *effects.Volume
	sampleRate beep.SampleRate
}

// NewEngine creates a transport bound to a store and bus
func NewEngine(store *state.Store, bus *events.Bus, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:    store,
		bus:      bus,
		logger:   logger,
		commands: make(chan command, 10),
		tap:      NewTap(2048),
	}
}

// Tap exposes the sample window for the spectrum analyzer
func (e *Engine) Tap() *Tap {
	return e.tap
}

// Start begins the command and position goroutines
func (e *Engine) Start(ctx context.Context) {
	go e.run(ctx)
	go e.trackPosition(ctx)
}

// run is the main command processing loop
func (e *Engine) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			e.stopPlayback()
			return

		case cmd := <-e.commands:
			switch cmd.typ {
			case cmdPlay:
				if err := e.playTrack(cmd.track, cmd.index); err != nil {
					e.logger.Error("play failed", "track", cmd.track.ID, "err", err)
					e.store.SetPlaying(false)
					e.bus.Publish(api.TopicMediaError, api.MediaError{Track: cmd.track, Err: err})
				}

			case cmdPause:
				e.mu.Lock()
				if e.ctrl != nil {
					speaker.Lock()
					e.ctrl.Paused = true
					speaker.Unlock()
				}
				e.mu.Unlock()
				e.store.SetPlaying(false)

			case cmdResume:
				e.mu.Lock()
				resumed := e.ctrl != nil
				if resumed {
					speaker.Lock()
					e.ctrl.Paused = false
					speaker.Unlock()
				}
				e.mu.Unlock()
				if resumed {
					e.store.SetPlaying(true)
				}

			case cmdStop:
				e.stopPlayback()
				e.store.SetPlaying(false)
				e.store.SetPosition(0)

			case cmdSeek:
				e.seekTo(cmd.position)

			case cmdVolume:
				e.mu.Lock()
				if e.volume != nil {
					speaker.Lock()
					e.volume.Volume = cmd.volume*2 - 1
					speaker.Unlock()
				}
				e.mu.Unlock()

			case cmdMute:
				e.mu.Lock()
				if e.volume != nil {
					speaker.Lock()
					e.volume.Silent = cmd.muted
					speaker.Unlock()
				}
				e.mu.Unlock()

			case cmdRate:
				e.mu.Lock()
				if e.resampler != nil {
					speaker.Lock()
					e.resampler.SetRatio(cmd.rate)
					speaker.Unlock()
				}
				e.mu.Unlock()
			}
		}
	}
}

// trackPosition reflects playback progress into the store
func (e *Engine) trackPosition(ctx context.Context) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.mu.Lock()
			var pos time.Duration
			ok := e.streamer != nil && e.ctrl != nil && !e.ctrl.Paused
			if ok {
				speaker.Lock()
				pos = e.sampleRate.D(e.streamer.Position())
				speaker.Unlock()
			}
			e.mu.Unlock()

			if ok {
				e.store.SetPosition(pos)
			}
		}
	}
}

// playTrack loads and starts playing a track
func (e *Engine) playTrack(track api.Track, index int) error {
	e.stopPlayback()

	if !IsSupported(track.Path) {
		return playerrors.NewPlayerError("decode", track.ID, playerrors.ErrInvalidFormat)
	}

	file, err := os.Open(track.Path)
	if err != nil {
		return playerrors.NewPlayerError("open", track.ID, err)
	}

	streamer, format, err := Decode(file, track.Path)
	if err != nil {
		file.Close()
		return playerrors.NewPlayerError("decode", track.ID, err)
	}

	snap := e.store.Snapshot()

	e.mu.Lock()
	e.streamer = streamer
	e.sampleRate = format.SampleRate
	e.resampler = beep.ResampleRatio(4, snap.Rate, streamer)
	e.ctrl = &beep.Ctrl{Streamer: e.resampler}
	e.volume = &effects.Volume{
		Streamer: e.ctrl,
		Base:     2,
		Volume:   snap.Volume*2 - 1,
		Silent:   snap.Muted,
	}
	e.mu.Unlock()

	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		return playerrors.NewPlayerError("speaker_init", track.ID, err)
	}

	e.tap.Reset()
	speaker.Play(beep.Seq(e.tap.Wrap(e.volume), beep.Callback(func() {
		e.bus.Publish(api.TopicTrackEnded, api.TrackEnded{Track: track, Index: index})
	})))

	e.store.SetSource(track.Path, track.Type, track.Title, track.Artist)
	e.store.SetDuration(format.SampleRate.D(streamer.Len()))
	e.store.SetPosition(0)
	e.store.SetPlaying(true)
	return nil
}

// stopPlayback tears down the current stream
func (e *Engine) stopPlayback() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.streamer == nil {
		return
	}
	speaker.Clear()
	if err := e.streamer.Close(); err != nil {
		e.logger.Warn("close streamer", "err", err)
	}
	e.streamer = nil
	e.resampler = nil
	e.ctrl = nil
	e.volume = nil
}

// seekTo seeks the active stream
func (e *Engine) seekTo(pos time.Duration) {
	e.mu.Lock()
	if e.streamer == nil {
		e.mu.Unlock()
		return
	}
	speaker.Lock()
	err := e.streamer.Seek(e.sampleRate.N(pos))
	speaker.Unlock()
	e.mu.Unlock()

	if err != nil {
		e.logger.Warn("seek failed", "pos", pos, "err", err)
		return
	}
	e.store.SetPosition(pos)
}

// Play starts playing the given playlist entry
func (e *Engine) Play(track api.Track, index int) {
	e.commands <- command{typ: cmdPlay, track: track, index: index}
}

// Pause pauses playback
func (e *Engine) Pause() {
	e.commands <- command{typ: cmdPause}
}

// Resume resumes paused playback
func (e *Engine) Resume() {
	e.commands <- command{typ: cmdResume}
}

// Stop stops playback and rewinds
func (e *Engine) Stop() {
	e.commands <- command{typ: cmdStop}
}

// Seek seeks to the given position
func (e *Engine) Seek(pos time.Duration) {
	if pos < 0 {
		pos = 0
	}
	e.commands <- command{typ: cmdSeek, position: pos}
}

// SetVolume applies a volume level in [0,1]
func (e *Engine) SetVolume(level float64) error {
	if level < 0 || level > 1 {
		return playerrors.ErrInvalidVolume
	}
	e.commands <- command{typ: cmdVolume, volume: level}
	return nil
}

// SetMuted silences or restores output
func (e *Engine) SetMuted(muted bool) {
	e.commands <- command{typ: cmdMute, muted: muted}
}

// SetRate applies a playback speed multiplier
func (e *Engine) SetRate(rate float64) error {
	if !api.ValidRate(rate) {
		return playerrors.ErrInvalidRate
	}
	e.commands <- command{typ: cmdRate, rate: rate}
	return nil
}
