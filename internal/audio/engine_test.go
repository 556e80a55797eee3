package audio

import (
	"testing"

	"github.com/faiface/beep"

	"playhead/internal/state"
	"playhead/pkg/events"
)

func newTestEngine() *Engine {
	bus := events.NewBus(nil)
	store := state.New(bus)
	return NewEngine(store, bus, nil)
}

func TestNewEngine(t *testing.T) {
	engine := newTestEngine()

	if engine == nil {
		t.Fatal("NewEngine returned nil")
	}
	if engine.commands == nil {
		t.Error("commands channel is nil")
	}
	if engine.Tap() == nil {
		t.Error("sample tap is nil")
	}
}

func TestSetVolumeValidation(t *testing.T) {
	engine := newTestEngine()

	tests := []struct {
		name    string
		volume  float64
		wantErr bool
	}{
		{"zero volume", 0.0, false},
		{"half volume", 0.5, false},
		{"full volume", 1.0, false},
		{"below zero", -0.1, true},
		{"above one", 1.1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := engine.SetVolume(tt.volume)
			if (err != nil) != tt.wantErr {
				t.Errorf("SetVolume(%f) error = %v, wantErr %v", tt.volume, err, tt.wantErr)
			}
		})
	}
}

func TestSetRateValidation(t *testing.T) {
	engine := newTestEngine()

	if err := engine.SetRate(1.25); err != nil {
		t.Errorf("SetRate(1.25) should be accepted: %v", err)
	}
	if err := engine.SetRate(3.0); err == nil {
		t.Error("SetRate(3.0) should be rejected")
	}
}

func TestIsSupported(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"/music/song.mp3", true},
		{"/music/song.MP3", true},
		{"/music/song.wav", true},
		{"/music/song.flac", true},
		{"/music/song.ogg", false},
		{"/music/song.txt", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := IsSupported(tt.path); got != tt.expected {
				t.Errorf("IsSupported(%s) = %v, want %v", tt.path, got, tt.expected)
			}
		})
	}
}

func TestTapWindow(t *testing.T) {
	tap := NewTap(4)

	if tap.Samples() != nil {
		t.Error("tap should report nil before a full window")
	}

	// Source emitting a rising ramp on both channels
	n := 0
	src := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			v := float64(n)
			samples[i][0], samples[i][1] = v, v
			n++
		}
		return len(samples), true
	})

	wrapped := tap.Wrap(src)
	buf := make([][2]float64, 6)
	wrapped.Stream(buf)

	got := tap.Samples()
	if len(got) != 4 {
		t.Fatalf("expected window of 4, got %d", len(got))
	}
	// Last four samples of the ramp, oldest first
	want := []float64{2, 3, 4, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %f, want %f", i, got[i], want[i])
		}
	}

	tap.Reset()
	if tap.Samples() != nil {
		t.Error("tap should be empty after Reset")
	}
}
