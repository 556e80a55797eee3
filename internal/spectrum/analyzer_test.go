package spectrum

import (
	"math"
	"testing"
)

func sine(n int, cyclesPerWindow float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * cyclesPerWindow * float64(i) / float64(n))
	}
	return out
}

func argmax(xs []float64) int {
	best := 0
	for i, x := range xs {
		if x > xs[best] {
			best = i
		}
	}
	return best
}

func TestSilenceProducesZeroBars(t *testing.T) {
	a := NewAnalyzer(16, 512)

	bars := a.Bars(make([]float64, a.Window()))
	for i, b := range bars {
		if b != 0 {
			t.Errorf("bar %d = %f for silence, want 0", i, b)
		}
	}
}

func TestBarsWithinRange(t *testing.T) {
	a := NewAnalyzer(16, 512)

	// Heavily clipped input must still normalize into [0,1]
	loud := make([]float64, a.Window())
	for i := range loud {
		loud[i] = 4 * math.Sin(2*math.Pi*32*float64(i)/float64(a.Window()))
	}

	for i, b := range a.Bars(loud) {
		if b < 0 || b > 1 {
			t.Errorf("bar %d = %f, want within [0,1]", i, b)
		}
	}
}

func TestToneLightsUpOneRegion(t *testing.T) {
	a := NewAnalyzer(16, 512)

	bars := a.Bars(sine(a.Window(), 64))
	peak := argmax(bars)

	if bars[peak] < 0.3 {
		t.Errorf("dominant bar magnitude %f, expected a clear peak", bars[peak])
	}

	// Most of the energy should sit in the dominant bar
	var rest float64
	for i, b := range bars {
		if i != peak && b > rest {
			rest = b
		}
	}
	if rest > bars[peak]*0.8 {
		t.Errorf("sidelobe %f too close to peak %f", rest, bars[peak])
	}
}

func TestHigherToneMovesPeakRight(t *testing.T) {
	a := NewAnalyzer(16, 512)

	low := argmax(a.Bars(sine(a.Window(), 4)))
	high := argmax(a.Bars(sine(a.Window(), 128)))

	if low >= high {
		t.Errorf("expected low-frequency peak (%d) left of high-frequency peak (%d)", low, high)
	}
}

func TestShortInputZeroPadded(t *testing.T) {
	a := NewAnalyzer(8, 256)

	bars := a.Bars(sine(64, 8))
	if len(bars) != 8 {
		t.Fatalf("expected 8 bars, got %d", len(bars))
	}
	for i, b := range bars {
		if b < 0 || b > 1 {
			t.Errorf("bar %d = %f out of range", i, b)
		}
	}
}

func TestWindowRoundsDownToPowerOfTwo(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{512, 512},
		{600, 512},
		{1024, 1024},
		{100, 64},
		{10, 64},
	}

	for _, tt := range tests {
		if got := NewAnalyzer(8, tt.in).Window(); got != tt.want {
			t.Errorf("NewAnalyzer(8, %d).Window() = %d, want %d", tt.in, got, tt.want)
		}
	}
}
