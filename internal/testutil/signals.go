// Package testutil holds signal generators and comparison helpers shared by
// the package tests.
package testutil

import (
	"math"
	"math/rand/v2"
)

// DeterministicSine returns length samples of a sine starting at phase 0.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise returns uniform noise in [-amplitude, amplitude) drawn
// from a PCG stream keyed by seed.
func DeterministicNoise(seed uint64, amplitude float64, length int) []float64 {
	rng := rand.New(rand.NewPCG(seed, 0x9e3779b97f4a7c15))
	out := make([]float64, length)
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse returns a unit impulse at pos; a pos outside the signal yields
// silence.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// Ones returns n ones.
func Ones(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1
	}
	return out
}

// NaiveConvolve is the textbook O(N*M) full linear convolution, used as the
// reference for faster paths.
func NaiveConvolve(x, h []float64) []float64 {
	if len(x) == 0 || len(h) == 0 {
		return nil
	}
	out := make([]float64, len(x)+len(h)-1)
	for i, a := range x {
		for j, b := range h {
			out[i+j] += a * b
		}
	}
	return out
}

// ExponentialDecay returns n energy bins of binWidth seconds that are silent
// before delay and then fall by 60 dB every rt60 seconds from peak.
func ExponentialDecay(n int, binWidth, rt60, delay, peak float64) []float64 {
	out := make([]float64, n)
	rate := 6 * math.Ln10 / rt60
	start := int(delay / binWidth)
	for i := start; i < n; i++ {
		out[i] = peak * math.Exp(-rate*float64(i-start)*binWidth)
	}
	return out
}
