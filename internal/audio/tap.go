package audio

import (
	"sync"

	"github.com/faiface/beep"
)

// Tap is a pass-through streamer keeping a window of the most recent
// samples for the spectrum analyzer. Samples are mixed down to mono.
type Tap struct {
	mu      sync.Mutex
	window  []float64
	pos     int
	wrapped bool
}

// NewTap creates a tap holding the last size samples
func NewTap(size int) *Tap {
	if size <= 0 {
		size = 2048
	}
	return &Tap{window: make([]float64, size)}
}

// Wrap returns a streamer that copies samples through the tap
func (t *Tap) Wrap(s beep.Streamer) beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		n, ok := s.Stream(samples)

		t.mu.Lock()
		for i := 0; i < n; i++ {
			t.window[t.pos] = (samples[i][0] + samples[i][1]) / 2
			t.pos++
			if t.pos == len(t.window) {
				t.pos = 0
				t.wrapped = true
			}
		}
		t.mu.Unlock()

		return n, ok
	})
}

// Samples returns the tapped window in arrival order. It returns nil
// until a full window has been seen.
func (t *Tap) Samples() []float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.wrapped {
		return nil
	}
	out := make([]float64, len(t.window))
	n := copy(out, t.window[t.pos:])
	copy(out[n:], t.window[:t.pos])
	return out
}

// Reset clears the window, e.g. when a new track starts
func (t *Tap) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.window {
		t.window[i] = 0
	}
	t.pos = 0
	t.wrapped = false
}
