package spectrum

import (
	"math"

	"github.com/mjibson/go-dsp/fft"
)

// Analyzer turns a window of PCM samples into normalized frequency
// bar magnitudes for the visualizer surface
type Analyzer struct {
	bars   int
	window int
	hann   []float64
}

// NewAnalyzer creates an analyzer producing bars magnitudes from
// windows of the given size. The window must be a power of two; other
// sizes are rounded down.
func NewAnalyzer(bars, window int) *Analyzer {
	if bars <= 0 {
		bars = 16
	}
	if window < 64 {
		window = 64
	}
	window = 1 << uint(math.Floor(math.Log2(float64(window))))

	hann := make([]float64, window)
	for i := range hann {
		hann[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(window-1)))
	}
	return &Analyzer{bars: bars, window: window, hann: hann}
}

// Window returns the number of samples the analyzer consumes
func (a *Analyzer) Window() int {
	return a.window
}

// Bars computes bar magnitudes in [0,1] for one window of samples.
// Shorter inputs are zero-padded; longer ones use the tail. Bins are
// grouped logarithmically so low frequencies get more resolution.
func (a *Analyzer) Bars(samples []float64) []float64 {
	in := make([]float64, a.window)
	if len(samples) >= a.window {
		copy(in, samples[len(samples)-a.window:])
	} else {
		copy(in, samples)
	}
	for i := range in {
		in[i] *= a.hann[i]
	}

	coeffs := fft.FFTReal(in)
	bins := a.window / 2

	mags := make([]float64, bins)
	for i := 0; i < bins; i++ {
		re, im := real(coeffs[i]), imag(coeffs[i])
		mags[i] = math.Sqrt(re*re + im*im)
	}

	bars := make([]float64, a.bars)
	for b := 0; b < a.bars; b++ {
		lo := binEdge(b, a.bars, bins)
		hi := binEdge(b+1, a.bars, bins)
		if hi <= lo {
			hi = lo + 1
		}
		peak := 0.0
		for i := lo; i < hi && i < bins; i++ {
			if mags[i] > peak {
				peak = mags[i]
			}
		}
		bars[b] = peak
	}

	// Normalize against the full-scale magnitude of the window
	scale := float64(a.window) / 4
	for b := range bars {
		bars[b] = math.Min(bars[b]/scale, 1)
	}
	return bars
}

// binEdge maps bar boundary b of n onto [1,bins) logarithmically
func binEdge(b, n, bins int) int {
	if b <= 0 {
		return 1
	}
	frac := float64(b) / float64(n)
	edge := math.Pow(float64(bins), frac)
	idx := int(edge)
	if idx < 1 {
		idx = 1
	}
	if idx > bins {
		idx = bins
	}
	return idx
}
