package reverb

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-reverb/dsp/core"
	"github.com/cwbudde/algo-reverb/dsp/delay"
)

const (
	fdnMaxLines = 12

	fdnFixedGain = 0.1
	fdnScaleWet  = 5.0

	// Modulation at 44.1 kHz: depth and update interval in samples.
	fdnModDepth = 4
	fdnModRate  = 50
	fdnModFreq  = 1.0 // Hz

	// Reverb time range of the linear roomsize response, in seconds.
	fdnMinDCRevTime = 0.7
	fdnMaxDCRevTime = 12.5

	fdnReferenceRate = 44100.0
)

// Nominal line lengths at 44.1 kHz, mutually prime.
var (
	fdnLengths8  = [...]int{601, 691, 773, 839, 919, 997, 1061, 1129}
	fdnLengths12 = [...]int{601, 691, 773, 839, 919, 997, 1061, 1093, 1129, 1151, 1171, 1187}
)

// RoomsizeResponse selects how roomsize maps to the FDN reverb time.
type RoomsizeResponse int

const (
	// ResponseFreeverb matches the decay of Freeverb: the longest line gets
	// the feedback gain roomsize*0.28+0.7.
	ResponseFreeverb RoomsizeResponse = iota
	// ResponseLinear maps roomsize linearly onto a 0.7 s to 12.5 s reverb time.
	ResponseLinear
)

func (r RoomsizeResponse) String() string {
	switch r {
	case ResponseFreeverb:
		return "freeverb"
	case ResponseLinear:
		return "linear"
	default:
		return fmt.Sprintf("RoomsizeResponse(%d)", int(r))
	}
}

// fdnLine is one modulated delay line: the delay with its absorbent
// low-pass, a sinusoidal modulator moving the read position around a
// center that advances with the write cursor, and a first-order allpass
// interpolator for the fractional part of the position.
type fdnLine struct {
	line delay.Line[float32]
	gain float32 // DC feedback gain

	// sinusoidal oscillator y[n] = a1*y[n-1] - y[n-2]
	a1, sin1, sin2, resetSin2 float64

	center    float64
	depth     int
	modRate   int
	indexRate int
	phase     float64 // degrees

	frac float32
	prev float32
}

func (m *fdnLine) setModulator(freq, rate float64) {
	w := 2 * math.Pi * freq / rate
	a := m.phase * math.Pi / 180
	m.a1 = 2 * math.Cos(w)
	m.sin2 = math.Sin(a - w)
	m.sin1 = math.Sin(a)
	m.resetSin2 = math.Sin(math.Pi/2 - w)
}

func (m *fdnLine) nextSin() float64 {
	out := m.a1*m.sin1 - m.sin2
	m.sin2 = m.sin1
	switch {
	case out >= 1:
		out = 1
		m.sin2 = m.resetSin2
	case out <= -1:
		out = -1
		m.sin2 = -m.resetSin2
	}
	m.sin1 = out
	return out
}

// rewind clears history and puts the read center depth+1 samples ahead of
// the write cursor, so the mean delay is Cap()-depth-1.
func (m *fdnLine) rewind() {
	m.line.Reset()
	m.center = float64(m.depth + 1)
	m.indexRate = m.modRate
	m.frac = 0
	m.prev = 0
}

func (m *fdnLine) read() float32 {
	if m.indexRate++; m.indexRate >= m.modRate {
		m.indexRate = 0

		pos := m.center + m.nextSin()*float64(m.depth)
		whole := math.Floor(pos)
		m.frac = float32(pos - whole)

		in, _ := m.line.Positions()
		m.line.SetPositions(in, int(whole))

		size := float64(m.line.Cap())
		if m.center += float64(m.modRate); m.center >= size {
			m.center -= size
		}
	}

	y := m.line.Read()
	m.line.Advance()
	y += m.frac * (m.line.Read() - m.prev)
	m.prev = y
	return y
}

// FDN is a feedback delay network of 8 or 12 modulated lines. Line outputs
// are mixed by a Householder reflection followed by a circular permutation,
// which is orthogonal, so the per-line gains alone set the decay.
type FDN struct {
	sampleRate    float64
	maxSampleRate float64
	response      RoomsizeResponse
	params        Params

	nominal   []int
	lines     []fdnLine
	leftGain  []float32
	rightGain []float32
	taps      [fdnMaxLines]float32

	matrixFactor float32

	// tone corrector y = x*b1 - b2*x[n-1], one history per channel
	toneB1, toneB2 float32
	toneL, toneR   float32

	wet1, wet2 float64
}

// NewFDN creates an FDN with the given number of lines (8 or 12). Buffers
// are sized for maxSampleRate so later rate changes up to it never allocate.
func NewFDN(maxSampleRate, sampleRate float64, lines int, response RoomsizeResponse) (*FDN, error) {
	if err := validSampleRate(sampleRate); err != nil {
		return nil, err
	}
	if maxSampleRate < sampleRate || math.IsNaN(maxSampleRate) {
		maxSampleRate = sampleRate
	}
	if math.IsInf(maxSampleRate, 0) {
		return nil, fmt.Errorf("reverb: fdn max sample rate must be finite: %w", ErrInvalidArgument)
	}

	r := &FDN{
		sampleRate:    sampleRate,
		maxSampleRate: maxSampleRate,
		response:      response,
	}
	switch lines {
	case len(fdnLengths8):
		r.nominal = fdnLengths8[:]
	case len(fdnLengths12):
		r.nominal = fdnLengths12[:]
	default:
		return nil, fmt.Errorf("reverb: fdn line count must be 8 or 12: %d: %w", lines, ErrInvalidArgument)
	}
	if response != ResponseFreeverb && response != ResponseLinear {
		return nil, fmt.Errorf("reverb: fdn roomsize response %v: %w", response, ErrInvalidArgument)
	}

	n := len(r.nominal)
	r.lines = make([]fdnLine, n)
	r.leftGain = make([]float32, n)
	r.rightGain = make([]float32, n)
	r.matrixFactor = -2 / float32(n)

	for i := range n {
		r.lines[i].phase = 360 / float64(n) * float64(i)

		r.leftGain[i] = 1
		if i%2 == 1 {
			r.leftGain[i] = -1
		}
		r.rightGain[i] = r.leftGain[i]
		if (i-1)%4 == 0 || (i-2)%4 == 0 {
			r.rightGain[i] = -r.leftGain[i]
		}
	}

	maxFactor := fdnLengthFactor(maxSampleRate)
	for i, nominal := range r.nominal {
		if err := r.lines[i].line.SetCapacity(fdnLineCapacity(nominal, maxFactor)); err != nil {
			return nil, fmt.Errorf("reverb: fdn line %d: %w: %w", i, ErrAllocation, err)
		}
	}

	if err := r.configure(sampleRate); err != nil {
		return nil, err
	}
	r.SetParams(DefaultParams())
	r.Reset()
	return r, nil
}

// fdnLengthFactor scales lengths, depth and rate above the reference rate only.
func fdnLengthFactor(rate float64) float64 {
	if rate > fdnReferenceRate {
		return rate / fdnReferenceRate
	}
	return 1
}

func fdnLineCapacity(nominal int, factor float64) int {
	return bufferLength(float64(nominal)*factor) + bufferLength(fdnModDepth*factor) + 1
}

// configure re-partitions the pre-sized buffers for rate.
func (r *FDN) configure(rate float64) error {
	factor := fdnLengthFactor(rate)
	depth := int(fdnModDepth * factor)
	modRate := max(int(fdnModRate*factor), 1)

	for i, nominal := range r.nominal {
		m := &r.lines[i]
		if err := m.line.SetCapacity(fdnLineCapacity(nominal, factor)); err != nil {
			return fmt.Errorf("reverb: fdn line %d: %w: %w", i, ErrAllocation, err)
		}
		m.depth = depth
		m.modRate = modRate
		m.setModulator(fdnModFreq*float64(modRate), rate)
		m.rewind()
	}
	r.sampleRate = rate
	return nil
}

// Lines returns the number of delay lines.
func (r *FDN) Lines() int { return len(r.lines) }

// Response returns the roomsize response in use.
func (r *FDN) Response() RoomsizeResponse { return r.response }

// SampleRate returns the current processing rate.
func (r *FDN) SampleRate() float64 { return r.sampleRate }

// MaxSampleRate returns the rate the buffers were sized for.
func (r *FDN) MaxSampleRate() float64 { return r.maxSampleRate }

// Params returns the current parameters.
func (r *FDN) Params() Params { return r.params }

// SetParams clamps and applies p. Delay history is kept.
func (r *FDN) SetParams(p Params) {
	p = p.Clamped()
	r.params = p
	r.wet1, r.wet2 = wetGains(p.Level, p.Width, fdnScaleWet)
	r.updateDecay()
}

// updateDecay derives per-line gains and absorbent filters from roomsize
// and damping (Jot's frequency dependent reverb time) and the matching
// tone corrector.
func (r *FDN) updateDecay() {
	period := 1 / r.sampleRate
	factor := fdnLengthFactor(r.sampleRate)
	last := float64(int(float64(r.nominal[len(r.nominal)-1]) * factor))

	var dcRevTime float64
	switch r.response {
	case ResponseLinear:
		dcRevTime = fdnMinDCRevTime + (fdnMaxDCRevTime-fdnMinDCRevTime)*r.params.RoomSize
	default:
		gi := r.params.RoomSize*freeverbScaleRoom + freeverbOffsetRoom
		dcRevTime = -3 * math.Ln10 * last * period / math.Log(gi)
	}

	// alpha2 is the squared ratio of Nyquist to DC reverb time, chosen so the
	// longest line's pole equals damping.
	lnLast := -3 * math.Ln10 * last * period / dcRevTime
	alpha2 := 1 / (1 - r.params.Damping/(0.25*lnLast))

	for i, nominal := range r.nominal {
		length := float64(int(float64(nominal) * factor))
		gi := math.Pow(10, -3*length*period/dcRevTime)
		ai := 0.25 * math.Log(gi) * (1 - 1/alpha2)

		m := &r.lines[i]
		m.gain = float32(gi)
		m.line.Damping.SetB0(float32(1 - ai))
	}

	alpha := math.Sqrt(alpha2)
	beta := (1 - alpha) / (1 + alpha)
	b1 := 1 / (1 - beta)
	r.toneB1 = float32(b1)
	r.toneB2 = float32(beta * b1)
}

// Reset clears every line, filter and modulator.
func (r *FDN) Reset() {
	for i := range r.lines {
		m := &r.lines[i]
		m.setModulator(fdnModFreq*float64(m.modRate), r.sampleRate)
		m.rewind()
	}
	r.toneL, r.toneR = 0, 0
}

// SampleRateChange re-partitions the buffers for rate without allocating.
// Rates above MaxSampleRate are rejected and leave the state untouched.
func (r *FDN) SampleRateChange(rate float64) error {
	if err := validSampleRate(rate); err != nil {
		return err
	}
	if rate > r.maxSampleRate {
		return fmt.Errorf("reverb: fdn sample rate %f exceeds max %f: %w", rate, r.maxSampleRate, ErrInvalidArgument)
	}
	if err := r.configure(rate); err != nil {
		return err
	}
	r.SetParams(r.params)
	r.Reset()
	return nil
}

// Process renders len(in) samples into left and right, overwriting them.
func (r *FDN) Process(in, left, right []float64) {
	n := len(r.lines)
	for k, x := range in {
		xn := float32(x) * fdnFixedGain

		var sum, outL, outR float32
		for i := range n {
			m := &r.lines[i]
			y := m.line.Damping.Process(m.read()) * m.gain
			r.taps[i] = y
			sum += y
			outL += r.leftGain[i] * y
			outR += r.rightGain[i] * y
		}

		mix := sum*r.matrixFactor + xn
		for i := 1; i < n; i++ {
			r.lines[i-1].line.Push(r.taps[i] + mix)
		}
		r.lines[n-1].line.Push(r.taps[0] + mix)

		toneL := outL*r.toneB1 - r.toneB2*r.toneL
		r.toneL = outL
		toneR := outR*r.toneB1 - r.toneB2*r.toneR
		r.toneR = outR

		left[k] = float64(toneL)*r.wet1 + float64(toneR)*r.wet2
		right[k] = float64(toneR)*r.wet1 + float64(toneL)*r.wet2
	}

	for i := range r.lines {
		r.lines[i].line.Damping.Flush()
		r.lines[i].prev = core.FlushDenormals(r.lines[i].prev)
	}
}

func (r *FDN) lengths() []int {
	out := make([]int, len(r.lines))
	for i := range r.lines {
		out[i] = r.lines[i].line.Cap()
	}
	return out
}
