package reverb

import (
	"fmt"

	"github.com/cwbudde/algo-reverb/dsp/delay"
)

const (
	freeverbCombs     = 8
	freeverbAllpasses = 4

	// dcOffset keeps the feedback paths away from denormals. Buffers
	// converge to it instead of zero and it is removed from the output.
	freeverbDCOffset     = 1e-8
	freeverbFixedGain    = 0.015
	freeverbScaleWet     = 3.0
	freeverbScaleRoom    = 0.28
	freeverbOffsetRoom   = 0.7
	freeverbStereoSpread = 23
	freeverbAllpassGain  = 0.5

	freeverbReferenceRate = 44100.0
)

// Left channel tunings at 44.1 kHz; the right channel adds freeverbStereoSpread.
var (
	freeverbCombTuning    = [freeverbCombs]int{1116, 1188, 1277, 1356, 1422, 1491, 1557, 1617}
	freeverbAllpassTuning = [freeverbAllpasses]int{556, 441, 341, 225}
)

// Freeverb is the parallel comb/allpass network of Jezar's Freeverb.
type Freeverb struct {
	sampleRate float64
	params     Params

	combL [freeverbCombs]delay.Comb[float32]
	combR [freeverbCombs]delay.Comb[float32]
	apL   [freeverbAllpasses]delay.Allpass[float32]
	apR   [freeverbAllpasses]delay.Allpass[float32]

	wet1, wet2 float64
}

// NewFreeverb creates a Freeverb sized for sampleRate with default parameters.
func NewFreeverb(sampleRate float64) (*Freeverb, error) {
	if err := validSampleRate(sampleRate); err != nil {
		return nil, err
	}

	f := &Freeverb{sampleRate: sampleRate}
	if err := f.allocate(sampleRate); err != nil {
		return nil, err
	}
	for i := range freeverbAllpasses {
		f.apL[i].SetMode(delay.ModeFreeverb)
		f.apR[i].SetMode(delay.ModeFreeverb)
		f.apL[i].SetFeedback(freeverbAllpassGain)
		f.apR[i].SetFeedback(freeverbAllpassGain)
	}
	f.SetParams(DefaultParams())
	f.Reset()
	return f, nil
}

func (f *Freeverb) allocate(sampleRate float64) error {
	factor := float32(sampleRate / freeverbReferenceRate)
	for i, tuning := range freeverbCombTuning {
		if err := f.combL[i].SetCapacity(bufferLength(float64(float32(tuning) * factor))); err != nil {
			return fmt.Errorf("reverb: freeverb comb %d: %w: %w", i, ErrAllocation, err)
		}
		if err := f.combR[i].SetCapacity(bufferLength(float64(float32(tuning+freeverbStereoSpread) * factor))); err != nil {
			return fmt.Errorf("reverb: freeverb comb %d: %w: %w", i, ErrAllocation, err)
		}
	}
	for i, tuning := range freeverbAllpassTuning {
		if err := f.apL[i].SetCapacity(bufferLength(float64(float32(tuning) * factor))); err != nil {
			return fmt.Errorf("reverb: freeverb allpass %d: %w: %w", i, ErrAllocation, err)
		}
		if err := f.apR[i].SetCapacity(bufferLength(float64(float32(tuning+freeverbStereoSpread) * factor))); err != nil {
			return fmt.Errorf("reverb: freeverb allpass %d: %w: %w", i, ErrAllocation, err)
		}
	}
	return nil
}

// SampleRate returns the rate the buffers are sized for.
func (f *Freeverb) SampleRate() float64 { return f.sampleRate }

// Params returns the current parameters.
func (f *Freeverb) Params() Params { return f.params }

// SetParams clamps and applies p. Delay history is kept.
func (f *Freeverb) SetParams(p Params) {
	p = p.Clamped()
	f.params = p
	f.wet1, f.wet2 = wetGains(p.Level, p.Width, freeverbScaleWet)

	feedback := float32(p.RoomSize*freeverbScaleRoom + freeverbOffsetRoom)
	damp := float32(p.Damping)
	for i := range freeverbCombs {
		f.combL[i].SetFeedback(feedback)
		f.combR[i].SetFeedback(feedback)
		f.combL[i].SetDamp(damp)
		f.combR[i].SetDamp(damp)
	}
}

// Reset refills every buffer with the DC offset and rewinds the cursors.
func (f *Freeverb) Reset() {
	for i := range freeverbCombs {
		f.combL[i].Reset()
		f.combR[i].Reset()
		f.combL[i].Fill(freeverbDCOffset)
		f.combR[i].Fill(freeverbDCOffset)
	}
	for i := range freeverbAllpasses {
		f.apL[i].Reset()
		f.apR[i].Reset()
		f.apL[i].Fill(freeverbDCOffset)
		f.apR[i].Fill(freeverbDCOffset)
	}
}

// SampleRateChange resizes every buffer for rate. New buffers are built
// first; on failure the current state is kept.
func (f *Freeverb) SampleRateChange(rate float64) error {
	next, err := NewFreeverb(rate)
	if err != nil {
		return err
	}
	next.SetParams(f.params)
	*f = *next
	return nil
}

// Process renders len(in) samples into left and right, overwriting them.
// left and right must be at least as long as in.
func (f *Freeverb) Process(in, left, right []float64) {
	for k, x := range in {
		input := (2*float32(x) + freeverbDCOffset) * freeverbFixedGain

		var outL, outR float32
		for i := range freeverbCombs {
			outL += f.combL[i].Process(input)
			outR += f.combR[i].Process(input)
		}
		for i := range freeverbAllpasses {
			outL = f.apL[i].Process(outL)
			outR = f.apR[i].Process(outR)
		}

		outL -= freeverbDCOffset
		outR -= freeverbDCOffset

		left[k] = float64(outL)*f.wet1 + float64(outR)*f.wet2
		right[k] = float64(outR)*f.wet1 + float64(outL)*f.wet2
	}
}

func (f *Freeverb) lengths() []int {
	out := make([]int, 0, 2*(freeverbCombs+freeverbAllpasses))
	for i := range freeverbCombs {
		out = append(out, f.combL[i].Cap(), f.combR[i].Cap())
	}
	for i := range freeverbAllpasses {
		out = append(out, f.apL[i].Cap(), f.apR[i].Cap())
	}
	return out
}
