package reverb

import (
	"fmt"

	"github.com/cwbudde/algo-reverb/dsp/curve"
	"github.com/cwbudde/algo-reverb/dsp/delay"
)

const (
	lexTrim     = 0.7
	lexSections = 10
)

type lexSection struct {
	ms   float32
	coef float32
}

// Allpass sections 0-4 form the left chain, 5-9 the right chain.
var lexAllpasses = [lexSections]lexSection{
	{50.00, 0.750},
	{44.50, 0.720},
	{37.37, 0.691},
	{24.85, 0.649},
	{19.31, 0.662},
	{49.60, 0.750},
	{45.13, 0.720},
	{35.25, 0.691},
	{28.17, 0.649},
	{15.59, 0.646},
}

// Cross-feed delays: 0 carries left into right, 1 carries right into left.
var lexDelays = [2]lexSection{
	{8.71, 0.646},
	{12.05, 0.666},
}

func lexSamples(ms float32, rate float64) int {
	return bufferLength(float64(ms * float32(rate) * (1 / 1000.0)))
}

// Lexverb is a Lexicon-style network: two chains of five allpasses, each
// fed after its second stage by the weighted, delayed output of the other
// chain.
//
// The right-into-left delay may shrink with roomsize through a response
// curve, see WithRoomCurve. The buffers are sized once; the topology does
// not support sample-rate changes.
type Lexverb struct {
	sampleRate float64
	params     Params
	roomCurve  curve.Func

	ap     [lexSections]delay.Allpass[float32]
	dl     [2]delay.Line[float32]
	dlCoef [2]float32

	// output blend against the previous output sample
	dampL, dampR delay.Damping[float32]

	wet1, wet2 float64
}

// NewLexverb creates the network sized for sampleRate with default
// parameters. roomCurve may be nil.
func NewLexverb(sampleRate float64, roomCurve curve.Func) (*Lexverb, error) {
	if err := validSampleRate(sampleRate); err != nil {
		return nil, err
	}

	l := &Lexverb{sampleRate: sampleRate, roomCurve: roomCurve}
	for i, s := range lexAllpasses {
		if err := l.ap[i].SetCapacity(lexSamples(s.ms, sampleRate)); err != nil {
			return nil, fmt.Errorf("reverb: lexverb allpass %d: %w: %w", i, ErrAllocation, err)
		}
		l.ap[i].SetMode(delay.ModeSchroeder)
		l.ap[i].SetFeedback(s.coef)
	}
	for i, s := range lexDelays {
		if err := l.dl[i].SetCapacity(lexSamples(s.ms, sampleRate)); err != nil {
			return nil, fmt.Errorf("reverb: lexverb delay %d: %w: %w", i, ErrAllocation, err)
		}
		l.dlCoef[i] = s.coef
	}

	l.SetParams(DefaultParams())
	l.Reset()
	return l, nil
}

// SampleRate returns the rate the buffers are sized for.
func (l *Lexverb) SampleRate() float64 { return l.sampleRate }

// Params returns the current parameters.
func (l *Lexverb) Params() Params { return l.params }

// SetParams clamps and applies p. Delay history is kept.
func (l *Lexverb) SetParams(p Params) {
	p = p.Clamped()
	l.params = p
	l.wet1, l.wet2 = wetGains(p.Level, p.Width, 0.5+0.5*p.RoomSize)

	damp := float32(p.Damping)
	l.dampL.SetB0(1 - damp)
	l.dampR.SetB0(1 - damp)
	l.applyRoomCurve()
}

// applyRoomCurve sets the right-into-left delay to cap*(0.5+0.5*f(roomsize)).
func (l *Lexverb) applyRoomCurve() {
	n := l.dl[1].Cap()
	if l.roomCurve == nil {
		l.dl[1].SetDelay(n)
		return
	}
	scale := 0.5 + 0.5*l.roomCurve(l.params.RoomSize)
	l.dl[1].SetDelay(int(float64(n) * scale))
}

// Reset zeroes every buffer and the output blend state.
func (l *Lexverb) Reset() {
	for i := range l.ap {
		l.ap[i].Reset()
	}
	for i := range l.dl {
		l.dl[i].Reset()
	}
	l.dampL.Reset()
	l.dampR.Reset()
	l.applyRoomCurve()
}

// SampleRateChange always fails: the buffers of this topology are fixed at
// construction. Build a new instance to change the rate.
func (l *Lexverb) SampleRateChange(rate float64) error {
	return fmt.Errorf("reverb: lexverb sample rate change to %f: %w", rate, ErrUnsupported)
}

// Process renders len(in) samples into left and right, overwriting them.
func (l *Lexverb) Process(in, left, right []float64) {
	for k, x := range in {
		input := float32(x) * lexTrim

		v := l.ap[0].Process(input)
		v = l.ap[1].Process(v)
		v += l.dl[1].Shift(l.ap[9].LastOutput()) * l.dlCoef[1]
		v = l.ap[2].Process(v)
		v = l.ap[3].Process(v)
		outL := l.ap[4].Process(v)

		w := l.ap[5].Process(input)
		w = l.ap[6].Process(w)
		w += l.dl[0].Shift(l.ap[4].LastOutput()) * l.dlCoef[0]
		w = l.ap[7].Process(w)
		w = l.ap[8].Process(w)
		outR := l.ap[9].Process(w)

		outL = l.dampL.Process(outL)
		outR = l.dampR.Process(outR)

		left[k] = float64(outL)*l.wet1 + float64(outR)*l.wet2
		right[k] = float64(outR)*l.wet1 + float64(outL)*l.wet2
	}

	l.dampL.Flush()
	l.dampR.Flush()
}

func (l *Lexverb) lengths() []int {
	out := make([]int, 0, lexSections+2)
	for i := range l.ap {
		out = append(out, l.ap[i].Cap())
	}
	for i := range l.dl {
		out = append(out, l.dl[i].Cap())
	}
	return out
}
