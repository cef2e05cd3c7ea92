package ir

import (
	"fmt"
	"math"

	algofft "github.com/cwbudde/algo-fft"
	vecmath "github.com/cwbudde/algo-vecmath"
)

// StereoCorrelation returns the normalized lag-0 correlation of left and
// right in [-1,1]. Silent channels correlate at 0.
func StereoCorrelation(left, right []float64) (float64, error) {
	if len(left) == 0 {
		return 0, ErrEmptyIR
	}
	if len(left) != len(right) {
		return 0, ErrLengthMismatch
	}

	ll := vecmath.DotProduct(left, left)
	rr := vecmath.DotProduct(right, right)
	if ll <= 0 || rr <= 0 {
		return 0, nil
	}
	c := vecmath.DotProduct(left, right) / math.Sqrt(ll*rr)
	return max(-1, min(1, c)), nil
}

// Brightness returns the power-weighted spectral centroid of x in Hz. A
// darker reverb tail has a lower centroid.
func Brightness(x []float64, sampleRate float64) (float64, error) {
	if len(x) == 0 {
		return 0, ErrEmptyIR
	}
	if !(sampleRate > 0) {
		return 0, ErrInvalidSampleRate
	}

	fftSize := nextPowerOf2(len(x))
	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return 0, fmt.Errorf("ir: failed to create FFT plan: %w", err)
	}

	in := make([]complex128, fftSize)
	for i, v := range x {
		in[i] = complex(v, 0)
	}
	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return 0, fmt.Errorf("ir: forward FFT failed: %w", err)
	}

	binHz := sampleRate / float64(fftSize)
	var weighted, total float64
	for k := 0; k <= fftSize/2; k++ {
		re, im := real(out[k]), imag(out[k])
		p := re*re + im*im
		weighted += float64(k) * binHz * p
		total += p
	}
	if total <= 0 {
		return 0, nil
	}
	return weighted / total, nil
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
