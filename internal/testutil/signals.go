package testutil

import (
	"math"
	"math/rand/v2"
)

// Sine returns n samples of a sine starting at phase zero.
func Sine(freqHz, sampleRate, amplitude float64, n int) []float64 {
	out := make([]float64, n)
	w := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(w*float64(i))
	}
	return out
}

// Noise returns n samples of uniform white noise in [-amplitude, amplitude).
// Equal seeds give equal output.
func Noise(seed uint64, amplitude float64, n int) []float64 {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]float64, n)
	for i := range out {
		out[i] = amplitude * (2*rng.Float64() - 1)
	}
	return out
}

// Impulse returns n samples that are zero except for a 1 at pos. A pos
// outside the slice gives silence.
func Impulse(n, pos int) []float64 {
	out := make([]float64, n)
	if pos >= 0 && pos < n {
		out[pos] = 1
	}
	return out
}

// Const returns n samples of value.
func Const(value float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = value
	}
	return out
}

// Ones returns n samples of 1.
func Ones(n int) []float64 {
	return Const(1, n)
}

// Bus returns a stereo pair of independent slices preloaded with value, as
// an output bus that already carries signal before a mix.
func Bus(value float64, n int) (left, right []float64) {
	return Const(value, n), Const(value, n)
}
