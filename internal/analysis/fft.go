package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// PowerSpectrum returns the magnitude of bins 0..n/2 of the mean-removed,
// Hann-windowed input. Any length is accepted.
func PowerSpectrum(data []float64) []float64 {
	n := len(data)
	if n < 2 {
		return nil
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(n)

	x := make([]float64, n)
	for i, v := range data {
		x[i] = v - mean
	}
	window.Apply(x, window.Hann)

	bins := fft.FFTReal(x)
	ps := make([]float64, n/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(bins[i])
	}
	return ps
}

// DominantPeriod returns the period in samples of the strongest non-DC bin
// and that bin's share of the total spectral power. ok is false for flat or
// too-short input.
func DominantPeriod(data []float64) (period, strength float64, ok bool) {
	ps := PowerSpectrum(data)
	if len(ps) < 2 {
		return 0, 0, false
	}

	best, total := 0, 0.0
	for k := 1; k < len(ps); k++ {
		total += ps[k]
		if ps[k] > ps[best] || best == 0 {
			best = k
		}
	}
	if total < 1e-9 {
		return 0, 0, false
	}
	return float64(len(data)) / float64(best), ps[best] / total, true
}

// Rhythm describes the strongest brightness cycle of a trace.
type Rhythm struct {
	PeriodFrames float64
	Hz           float64
	Strength     float64
}

// Pulse is DominantPeriod expressed at a frame rate.
func Pulse(samples []float64, fps int) (Rhythm, bool) {
	period, strength, ok := DominantPeriod(samples)
	if !ok {
		return Rhythm{}, false
	}
	r := Rhythm{PeriodFrames: period, Strength: strength}
	if fps > 0 {
		r.Hz = float64(fps) / period
	}
	return r, true
}
