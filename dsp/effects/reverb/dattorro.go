package reverb

import (
	"fmt"

	"github.com/cwbudde/algo-reverb/dsp/delay"
)

const (
	dattorroTrim = 0.6

	dattorroInputDiffusion1 = 0.75
	dattorroInputDiffusion2 = 0.625
	dattorroDecayDiffusion1 = 0.7
	dattorroDecayDiffusion2 = 0.5

	dattorroBandwidth  = 0.9999
	dattorroPredelayS  = 0.004
	dattorroScaleWet   = 1.0
	dattorroDesignRate = 29761.0
)

// Delay lengths of the published plate at its design rate.
var (
	dattorroInputLengths = [4]int{142, 107, 379, 277}
	// left tank: allpass, delay, allpass, delay; then the right tank
	dattorroTankAllpassLengths = [4]int{672, 1800, 908, 2656}
	dattorroTankDelayLengths   = [4]int{4453, 3720, 4217, 3163}
)

// dattorroSource identifies the buffer an output tap reads.
type dattorroSource int

const (
	srcDelay0 dattorroSource = iota
	srcDelay1
	srcDelay2
	srcDelay3
	srcAllpass1
	srcAllpass3
)

type dattorroTap struct {
	src    dattorroSource
	offset int // at the design rate
	sign   float32
}

// Output taps, seven per channel, at the design rate.
var (
	dattorroLeftTaps = [7]dattorroTap{
		{srcDelay2, 266, 1},
		{srcDelay2, 2974, 1},
		{srcAllpass3, 1913, -1},
		{srcDelay3, 1996, 1},
		{srcDelay0, 1990, -1},
		{srcAllpass1, 187, -1},
		{srcDelay1, 1066, -1},
	}
	dattorroRightTaps = [7]dattorroTap{
		{srcDelay0, 353, 1},
		{srcDelay0, 3627, 1},
		{srcAllpass1, 1228, -1},
		{srcDelay1, 2673, 1},
		{srcDelay2, 2111, -1},
		{srcAllpass3, 335, -1},
		{srcDelay3, 121, -1},
	}
)

// dattorroSamples converts seconds to samples, rounding half up, minimum one.
func dattorroSamples(seconds, rate float64) int {
	return max(bufferLength(float64(float32(seconds*rate)+0.5)), 1)
}

func dattorroDesignSamples(n int, rate float64) int {
	return dattorroSamples(float64(n)/dattorroDesignRate, rate)
}

// Dattorro is the plate reverb from Jon Dattorro's "Effect Design, Part 1".
// The tank delays 0 and 2 carry the damping low-pass, the predelay carries
// the input bandwidth low-pass.
type Dattorro struct {
	sampleRate float64
	params     Params

	predelay  delay.Line[float32]
	inputAP   [4]delay.Allpass[float32]
	tankAP    [4]delay.Allpass[float32]
	tankDelay [4]delay.Line[float32]

	leftTaps  [7]int
	rightTaps [7]int

	decay      float32
	wet1, wet2 float64
}

// NewDattorro creates a plate reverb sized for sampleRate with default parameters.
func NewDattorro(sampleRate float64) (*Dattorro, error) {
	if err := validSampleRate(sampleRate); err != nil {
		return nil, err
	}

	d := &Dattorro{sampleRate: sampleRate}

	if err := d.predelay.SetCapacity(dattorroSamples(dattorroPredelayS, sampleRate)); err != nil {
		return nil, fmt.Errorf("reverb: dattorro predelay: %w: %w", ErrAllocation, err)
	}

	inputFeedback := [4]float32{
		dattorroInputDiffusion1, dattorroInputDiffusion1,
		dattorroInputDiffusion2, dattorroInputDiffusion2,
	}
	tankFeedback := [4]float32{
		dattorroDecayDiffusion1, dattorroDecayDiffusion2,
		dattorroDecayDiffusion1, dattorroDecayDiffusion2,
	}
	for i := range 4 {
		if err := d.inputAP[i].SetCapacity(dattorroDesignSamples(dattorroInputLengths[i], sampleRate)); err != nil {
			return nil, fmt.Errorf("reverb: dattorro input diffuser %d: %w: %w", i, ErrAllocation, err)
		}
		d.inputAP[i].SetMode(delay.ModeSchroeder)
		d.inputAP[i].SetFeedback(inputFeedback[i])

		if err := d.tankAP[i].SetCapacity(dattorroDesignSamples(dattorroTankAllpassLengths[i], sampleRate)); err != nil {
			return nil, fmt.Errorf("reverb: dattorro tank allpass %d: %w: %w", i, ErrAllocation, err)
		}
		d.tankAP[i].SetMode(delay.ModeSchroeder)
		d.tankAP[i].SetFeedback(tankFeedback[i])

		if err := d.tankDelay[i].SetCapacity(dattorroDesignSamples(dattorroTankDelayLengths[i], sampleRate)); err != nil {
			return nil, fmt.Errorf("reverb: dattorro tank delay %d: %w: %w", i, ErrAllocation, err)
		}
	}

	for i := range 7 {
		d.leftTaps[i] = dattorroDesignSamples(dattorroLeftTaps[i].offset, sampleRate)
		d.rightTaps[i] = dattorroDesignSamples(dattorroRightTaps[i].offset, sampleRate)
	}

	d.SetParams(DefaultParams())
	d.Reset()
	return d, nil
}

// SampleRate returns the rate the buffers are sized for.
func (d *Dattorro) SampleRate() float64 { return d.sampleRate }

// Params returns the current parameters.
func (d *Dattorro) Params() Params { return d.params }

// SetParams clamps and applies p. Delay history is kept.
func (d *Dattorro) SetParams(p Params) {
	p = p.Clamped()
	d.params = p
	d.wet1, d.wet2 = wetGains(p.Level, p.Width, dattorroScaleWet)
	d.decay = float32(0.2 + p.RoomSize*0.78)

	d.predelay.Damping.SetB0(dattorroBandwidth)
	d.tankDelay[0].Damping.SetB0(float32(1 - p.Damping))
	d.tankDelay[2].Damping.SetB0(float32(1 - p.Damping))
}

// Reset zeroes every buffer and the bandwidth and damping filters.
func (d *Dattorro) Reset() {
	d.predelay.Reset()
	for i := range 4 {
		d.inputAP[i].Reset()
		d.tankAP[i].Reset()
		d.tankDelay[i].Reset()
	}
}

// SampleRateChange rebuilds the plate for rate. New buffers are built
// first; on failure the current state is kept.
func (d *Dattorro) SampleRateChange(rate float64) error {
	next, err := NewDattorro(rate)
	if err != nil {
		return err
	}
	next.SetParams(d.params)
	*d = *next
	return nil
}

func (d *Dattorro) tap(src dattorroSource, offset int) float32 {
	switch src {
	case srcDelay0:
		return d.tankDelay[0].ReadTap(offset)
	case srcDelay1:
		return d.tankDelay[1].ReadTap(offset)
	case srcDelay2:
		return d.tankDelay[2].ReadTap(offset)
	case srcDelay3:
		return d.tankDelay[3].ReadTap(offset)
	case srcAllpass1:
		return d.tankAP[1].ReadTap(offset)
	default:
		return d.tankAP[3].ReadTap(offset)
	}
}

func (d *Dattorro) tapSum(taps *[7]dattorroTap, offsets *[7]int) float32 {
	var sum float32
	for i := range taps {
		sum += taps[i].sign * d.tap(taps[i].src, offsets[i])
	}
	return sum
}

// Process renders len(in) samples into left and right, overwriting them.
func (d *Dattorro) Process(in, left, right []float64) {
	bandwidth := &d.predelay.Damping
	dampLeft := &d.tankDelay[0].Damping
	dampRight := &d.tankDelay[2].Damping
	decay := d.decay

	for k, x := range in {
		input := float32(x) * dattorroTrim
		pre := d.predelay.Process(input)

		split := bandwidth.Process(pre)
		for i := range d.inputAP {
			split = d.inputAP[i].Process(split)
		}

		l := split + decay*d.tankDelay[3].LastOutput()
		l = d.tankAP[0].Process(l)
		l = d.tankDelay[0].Process(l)
		l = dampLeft.ProcessDelta(l)
		l = d.tankAP[1].Process(decay * l)
		d.tankDelay[1].Process(l)

		r := split + decay*d.tankDelay[1].LastOutput()
		r = d.tankAP[2].Process(r)
		r = d.tankDelay[2].Process(r)
		r = dampRight.ProcessDelta(r)
		r = d.tankAP[3].Process(decay * r)
		d.tankDelay[3].Process(r)

		outL := d.tapSum(&dattorroLeftTaps, &d.leftTaps)
		outR := d.tapSum(&dattorroRightTaps, &d.rightTaps)

		left[k] = float64(outL)*d.wet1 + float64(outR)*d.wet2
		right[k] = float64(outR)*d.wet1 + float64(outL)*d.wet2
	}

	bandwidth.Flush()
	dampLeft.Flush()
	dampRight.Flush()
}

func (d *Dattorro) lengths() []int {
	out := []int{d.predelay.Cap()}
	for i := range 4 {
		out = append(out, d.inputAP[i].Cap(), d.tankAP[i].Cap(), d.tankDelay[i].Cap())
	}
	return out
}
