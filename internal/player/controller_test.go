package player

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"playhead/api"
	"playhead/internal/state"
	"playhead/pkg/events"
)

// fakeTransport records calls instead of playing audio
type fakeTransport struct {
	played  []int
	paused  int
	resumed int
	stopped int
	volumes []float64
	muted   []bool
	rates   []float64
	seeks   []time.Duration
}

func (f *fakeTransport) Play(track api.Track, index int) { f.played = append(f.played, index) }
func (f *fakeTransport) Pause()                          { f.paused++ }
func (f *fakeTransport) Resume()                         { f.resumed++ }
func (f *fakeTransport) Stop()                           { f.stopped++ }
func (f *fakeTransport) Seek(pos time.Duration)          { f.seeks = append(f.seeks, pos) }
func (f *fakeTransport) SetMuted(m bool)                 { f.muted = append(f.muted, m) }

func (f *fakeTransport) SetVolume(v float64) error {
	f.volumes = append(f.volumes, v)
	return nil
}

func (f *fakeTransport) SetRate(r float64) error {
	f.rates = append(f.rates, r)
	return nil
}

func setup(t *testing.T, tracks int) (*Controller, *state.Store, *events.Bus, *fakeTransport) {
	t.Helper()

	bus := events.NewBus(nil)
	store := state.New(bus, state.WithRand(rand.New(rand.NewSource(1))))
	transport := &fakeTransport{}
	ctrl := NewController(store, bus, transport, nil)
	ctrl.Start()
	t.Cleanup(ctrl.Close)

	list := make([]api.Track, tracks)
	for i := range list {
		list[i] = api.Track{ID: fmt.Sprintf("t%d", i), Type: api.MediaAudio}
	}
	store.SetPlaylist(list)

	return ctrl, store, bus, transport
}

func TestSelectStartsTransport(t *testing.T) {
	ctrl, _, _, transport := setup(t, 3)

	ctrl.Select(1)

	if len(transport.played) != 1 || transport.played[0] != 1 {
		t.Errorf("expected transport to play index 1, got %v", transport.played)
	}
}

func TestAutoAdvanceOnEnded(t *testing.T) {
	_, store, bus, transport := setup(t, 3)
	store.SetCurrentTrack(0)
	transport.played = nil

	bus.Publish(api.TopicTrackEnded, api.TrackEnded{Index: 0})

	if got := store.CurrentIndex(); got != 1 {
		t.Errorf("expected advance to index 1, got %d", got)
	}
	if len(transport.played) != 1 || transport.played[0] != 1 {
		t.Errorf("expected transport to play index 1, got %v", transport.played)
	}
}

func TestAutoAdvanceStopsAtEnd(t *testing.T) {
	_, store, bus, transport := setup(t, 3)
	store.SetCurrentTrack(2)
	transport.played = nil

	bus.Publish(api.TopicTrackEnded, api.TrackEnded{Index: 2})

	if len(transport.played) != 0 {
		t.Errorf("expected no further playback, got %v", transport.played)
	}
	snap := store.Snapshot()
	if snap.Playing {
		t.Error("expected playing=false at end of playlist")
	}
	if snap.CurrentIndex != 2 {
		t.Errorf("selection should stay at 2, got %d", snap.CurrentIndex)
	}
}

func TestAutoAdvanceWrapsOnRepeatAll(t *testing.T) {
	_, store, bus, transport := setup(t, 3)
	store.CycleRepeatMode() // off -> all
	store.SetCurrentTrack(2)
	transport.played = nil

	bus.Publish(api.TopicTrackEnded, api.TrackEnded{Index: 2})

	if got := store.CurrentIndex(); got != 0 {
		t.Errorf("expected wrap to 0, got %d", got)
	}
}

func TestAutoAdvanceRepeatOneRestarts(t *testing.T) {
	_, store, bus, transport := setup(t, 3)
	store.CycleRepeatMode() // all
	store.CycleRepeatMode() // one
	store.SetCurrentTrack(1)
	transport.played = nil

	bus.Publish(api.TopicTrackEnded, api.TrackEnded{Index: 1})

	if got := store.CurrentIndex(); got != 1 {
		t.Errorf("expected index pinned at 1, got %d", got)
	}
	if len(transport.played) != 1 || transport.played[0] != 1 {
		t.Errorf("expected restart of index 1, got %v", transport.played)
	}
}

func TestPlayPause(t *testing.T) {
	ctrl, store, _, transport := setup(t, 2)

	// Selection exists but nothing loaded: starts the selected track
	ctrl.PlayPause()
	if len(transport.played) == 0 {
		t.Fatal("expected transport start")
	}

	store.SetSource("t0.mp3", api.MediaAudio, "T0", "")
	store.SetPlaying(true)
	ctrl.PlayPause()
	if transport.paused != 1 {
		t.Errorf("expected pause, got %d", transport.paused)
	}

	store.SetPlaying(false)
	ctrl.PlayPause()
	if transport.resumed != 1 {
		t.Errorf("expected resume, got %d", transport.resumed)
	}
}

func TestNextPreviousRespectBounds(t *testing.T) {
	ctrl, store, _, transport := setup(t, 2)
	store.SetCurrentTrack(0)
	transport.played = nil

	ctrl.Previous() // at start, repeat off: no-op
	if len(transport.played) != 0 {
		t.Errorf("expected no playback, got %v", transport.played)
	}

	ctrl.Next()
	if got := store.CurrentIndex(); got != 1 {
		t.Errorf("expected index 1, got %d", got)
	}

	transport.played = nil
	ctrl.Next() // at end, repeat off: no-op
	if len(transport.played) != 0 {
		t.Errorf("expected no playback, got %v", transport.played)
	}
}

func TestVolumeAndRateForwardedToTransport(t *testing.T) {
	_, store, _, transport := setup(t, 1)

	store.SetVolume(0.3)
	store.SetMuted(true)
	store.SetPlaybackRate(1.5)

	if len(transport.volumes) != 1 || transport.volumes[0] != 0.3 {
		t.Errorf("expected volume 0.3 forwarded, got %v", transport.volumes)
	}
	if len(transport.muted) != 1 || !transport.muted[0] {
		t.Errorf("expected mute forwarded, got %v", transport.muted)
	}
	if len(transport.rates) != 1 || transport.rates[0] != 1.5 {
		t.Errorf("expected rate 1.5 forwarded, got %v", transport.rates)
	}
}

func TestSeekForwarded(t *testing.T) {
	ctrl, _, _, transport := setup(t, 1)

	ctrl.Seek(42 * time.Second)

	if len(transport.seeks) != 1 || transport.seeks[0] != 42*time.Second {
		t.Errorf("expected seek to 42s, got %v", transport.seeks)
	}
}
