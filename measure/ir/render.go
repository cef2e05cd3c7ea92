package ir

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-reverb/dsp/core"
	"github.com/cwbudde/algo-reverb/dsp/effects/reverb"
	"github.com/cwbudde/algo-reverb/dsp/signal"
)

// Response is a rendered stereo impulse response.
type Response struct {
	Left       []float64
	Right      []float64
	SampleRate float64
}

// Render resets e and captures its response to a unit impulse over the
// given number of seconds.
func Render(e *reverb.Engine, seconds float64) (Response, error) {
	if e == nil || e.State() != reverb.StateReady {
		return Response{}, fmt.Errorf("ir: render: %w", reverb.ErrNotReady)
	}
	if !(seconds > 0) || math.IsInf(seconds, 0) {
		return Response{}, ErrInvalidTime
	}

	in, err := signal.NewGenerator(0, core.WithSampleRate(e.SampleRate())).Impulse(seconds)
	if err != nil {
		return Response{}, fmt.Errorf("ir: render: %w", err)
	}

	resp := Response{
		Left:       make([]float64, len(in)),
		Right:      make([]float64, len(in)),
		SampleRate: e.SampleRate(),
	}
	e.Reset()
	e.ProcessReplace(in, resp.Left, resp.Right)
	return resp, nil
}

// StereoMetrics summarizes both channels of a Response.
type StereoMetrics struct {
	Left, Right     Metrics
	Correlation     float64 // normalized cross-correlation at lag 0
	BrightnessLeft  float64 // spectral centroid in Hz
	BrightnessRight float64
}

// AnalyzeStereo computes per-channel metrics, the inter-channel
// correlation and the spectral brightness of r.
func AnalyzeStereo(r Response) (StereoMetrics, error) {
	a := NewAnalyzer(r.SampleRate)

	var (
		m   StereoMetrics
		err error
	)
	if m.Left, err = a.Analyze(r.Left); err != nil {
		return StereoMetrics{}, fmt.Errorf("ir: left channel: %w", err)
	}
	if m.Right, err = a.Analyze(r.Right); err != nil {
		return StereoMetrics{}, fmt.Errorf("ir: right channel: %w", err)
	}
	if m.Correlation, err = StereoCorrelation(r.Left, r.Right); err != nil {
		return StereoMetrics{}, err
	}
	if m.BrightnessLeft, err = Brightness(r.Left, r.SampleRate); err != nil {
		return StereoMetrics{}, err
	}
	if m.BrightnessRight, err = Brightness(r.Right, r.SampleRate); err != nil {
		return StereoMetrics{}, err
	}
	return m, nil
}
