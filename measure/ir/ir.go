package ir

import (
	"errors"
	"math"
)

// Errors returned by IR analysis functions.
var (
	ErrEmptyIR           = errors.New("ir: impulse response is empty")
	ErrInvalidSampleRate = errors.New("ir: sample rate must be positive")
	ErrInvalidTime       = errors.New("ir: time must be positive")
	ErrNoDecay           = errors.New("ir: insufficient decay for RT calculation")
	ErrLengthMismatch    = errors.New("ir: channel lengths differ")
)

// floorDB is reported for Schroeder points with no remaining energy.
const floorDB = -200.0

// Metrics holds the decay and energy-ratio metrics of one reverb channel.
type Metrics struct {
	RT60       float64 // seconds, from T30 or else T20
	EDT        float64 // seconds, 0 to -10 dB slope
	T20        float64 // seconds, -5 to -25 dB slope
	T30        float64 // seconds, -5 to -35 dB slope
	C50        float64 // dB
	C80        float64 // dB
	D50        float64 // ratio in [0,1]
	D80        float64 // ratio in [0,1]
	CenterTime float64 // seconds
	PeakIndex  int     // sample index of the absolute maximum
	Onset      int     // first sample within 20 dB of the peak
}

// Analyzer computes IR metrics at a fixed sample rate.
type Analyzer struct {
	SampleRate float64
}

// NewAnalyzer creates an IR analyzer with the given sample rate.
func NewAnalyzer(sampleRate float64) *Analyzer {
	return &Analyzer{SampleRate: sampleRate}
}

func (a *Analyzer) check(ir []float64) error {
	if len(ir) == 0 {
		return ErrEmptyIR
	}
	if !(a.SampleRate > 0) {
		return ErrInvalidSampleRate
	}
	return nil
}

// Analyze computes every metric of ir. Reverb tails usually build up after
// a predelay, so the energy ratios are measured from the onset and the
// decay slopes from the peak.
func (a *Analyzer) Analyze(ir []float64) (Metrics, error) {
	if err := a.check(ir); err != nil {
		return Metrics{}, err
	}

	peak := peakIndex(ir)
	onset := onsetIndex(ir, 0.1)
	early := newEnergyProfile(ir[onset:])
	decay := schroeder(ir[peak:])

	m := Metrics{
		PeakIndex:  peak,
		Onset:      onset,
		EDT:        a.decayTime(decay, 0, -10),
		T20:        a.decayTime(decay, -5, -25),
		T30:        a.decayTime(decay, -5, -35),
		C50:        early.clarity(a.boundary(50)),
		C80:        early.clarity(a.boundary(80)),
		D50:        early.definition(a.boundary(50)),
		D80:        early.definition(a.boundary(80)),
		CenterTime: a.centerTime(ir[onset:]),
	}
	m.RT60 = m.T30
	if m.RT60 <= 0 {
		m.RT60 = m.T20
	}
	return m, nil
}

// SchroederIntegral returns the backward-integrated energy decay of ir in
// dB relative to its total energy.
func (a *Analyzer) SchroederIntegral(ir []float64) ([]float64, error) {
	if len(ir) == 0 {
		return nil, ErrEmptyIR
	}
	return schroeder(ir), nil
}

// RT60 returns the T30 estimate of ir, or T20 when the decay does not reach
// -35 dB.
func (a *Analyzer) RT60(ir []float64) (float64, error) {
	if err := a.check(ir); err != nil {
		return 0, err
	}

	decay := schroeder(ir[peakIndex(ir):])
	if rt := a.decayTime(decay, -5, -35); rt > 0 {
		return rt, nil
	}
	if rt := a.decayTime(decay, -5, -25); rt > 0 {
		return rt, nil
	}
	return 0, ErrNoDecay
}

// Definition returns the share of the energy arriving before timeMs.
func (a *Analyzer) Definition(ir []float64, timeMs float64) (float64, error) {
	if err := a.check(ir); err != nil {
		return 0, err
	}
	if !(timeMs > 0) {
		return 0, ErrInvalidTime
	}
	return newEnergyProfile(ir).definition(a.boundary(timeMs)), nil
}

// Clarity returns the early-to-late energy ratio at timeMs in dB.
func (a *Analyzer) Clarity(ir []float64, timeMs float64) (float64, error) {
	if err := a.check(ir); err != nil {
		return 0, err
	}
	if !(timeMs > 0) {
		return 0, ErrInvalidTime
	}
	return newEnergyProfile(ir).clarity(a.boundary(timeMs)), nil
}

// CenterTime returns the energy centroid of ir in seconds.
func (a *Analyzer) CenterTime(ir []float64) (float64, error) {
	if err := a.check(ir); err != nil {
		return 0, err
	}
	return a.centerTime(ir), nil
}

// FindImpulseStart returns the first sample within 20 dB of the peak.
func (a *Analyzer) FindImpulseStart(ir []float64) (int, error) {
	if len(ir) == 0 {
		return 0, ErrEmptyIR
	}
	return onsetIndex(ir, 0.1), nil
}

func (a *Analyzer) boundary(timeMs float64) int {
	return int(math.Round(timeMs * 0.001 * a.SampleRate))
}

func (a *Analyzer) centerTime(ir []float64) float64 {
	var weighted, total float64
	for i, v := range ir {
		e := v * v
		weighted += float64(i) * e
		total += e
	}
	if total <= 0 {
		return 0
	}
	return weighted / total / a.SampleRate
}

// decayTime fits a line to the Schroeder curve between startDB and endDB
// and extrapolates it to -60 dB. It returns 0 when the curve never spans
// the range or does not fall.
func (a *Analyzer) decayTime(curve []float64, startDB, endDB float64) float64 {
	start := -1
	end := -1
	for i, v := range curve {
		if start < 0 && v <= startDB {
			start = i
		}
		if start >= 0 && v <= endDB {
			end = i
			break
		}
	}
	if start < 0 || end <= start {
		return 0
	}

	// least squares over x = sample offset from start
	n := float64(end - start + 1)
	var sx, sy, sxx, sxy float64
	for i := start; i <= end; i++ {
		x := float64(i - start)
		y := curve[i]
		sx += x
		sy += y
		sxx += x * x
		sxy += x * y
	}
	denom := n*sxx - sx*sx
	if denom == 0 {
		return 0
	}

	slope := (n*sxy - sx*sy) / denom * a.SampleRate
	if slope >= 0 {
		return 0
	}
	return -60 / slope
}

// energyProfile is the running energy of an IR: cum[i] is the energy of
// samples [0,i).
type energyProfile struct {
	cum []float64
}

func newEnergyProfile(ir []float64) energyProfile {
	cum := make([]float64, len(ir)+1)
	for i, v := range ir {
		cum[i+1] = cum[i] + v*v
	}
	return energyProfile{cum: cum}
}

func (p energyProfile) total() float64 {
	return p.cum[len(p.cum)-1]
}

// split returns the energy before and from sample k.
func (p energyProfile) split(k int) (early, late float64) {
	k = min(max(k, 0), len(p.cum)-1)
	early = p.cum[k]
	return early, max(p.total()-early, 0)
}

func (p energyProfile) definition(k int) float64 {
	if k <= 0 || p.total() <= 0 {
		return 0
	}
	if k >= len(p.cum)-1 {
		return 1
	}
	early, _ := p.split(k)
	return early / p.total()
}

func (p energyProfile) clarity(k int) float64 {
	early, late := p.split(k)
	switch {
	case k <= 0 || early <= 0:
		return math.Inf(-1)
	case k >= len(p.cum)-1 || late <= 0:
		return math.Inf(1)
	}
	return 10 * math.Log10(early/late)
}

// schroeder returns the backward integral of ir in dB, one point per
// sample. The sum runs from the end so the tail keeps its precision.
func schroeder(ir []float64) []float64 {
	out := make([]float64, len(ir))
	var late float64
	for i := len(ir) - 1; i >= 0; i-- {
		late += ir[i] * ir[i]
		out[i] = late
	}

	if len(out) == 0 || out[0] <= 0 {
		return out
	}
	total := out[0]
	for i, e := range out {
		if e <= 0 {
			out[i] = floorDB
			continue
		}
		out[i] = 10 * math.Log10(e/total)
	}
	return out
}

func peakIndex(ir []float64) int {
	idx := 0
	peak := 0.0
	for i, v := range ir {
		if av := math.Abs(v); av > peak {
			peak = av
			idx = i
		}
	}
	return idx
}

// onsetIndex returns the first sample reaching ratio times the peak.
func onsetIndex(ir []float64, ratio float64) int {
	threshold := math.Abs(ir[peakIndex(ir)]) * ratio
	for i, v := range ir {
		if math.Abs(v) >= threshold {
			return i
		}
	}
	return 0
}
