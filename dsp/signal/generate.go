// Package signal generates the excitation signals used to drive reverbs:
// unit impulses for response measurement and periodic noise bursts for
// auditioning.
package signal

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-reverb/dsp/core"
)

// Generator creates deterministic signals at a fixed sample rate.
type Generator struct {
	cfg  core.ProcessorConfig
	seed int64
}

// NewGenerator creates a generator. seed drives every noise source it
// creates.
func NewGenerator(seed int64, opts ...core.ProcessorOption) *Generator {
	return &Generator{
		cfg:  core.ApplyProcessorOptions(opts...),
		seed: seed,
	}
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Samples converts a duration to a whole number of samples, rounding up.
func (g *Generator) Samples(seconds float64) (int, error) {
	if !(seconds > 0) || math.IsInf(seconds, 0) {
		return 0, fmt.Errorf("signal: duration must be > 0: %f", seconds)
	}
	return int(math.Ceil(seconds * g.cfg.SampleRate)), nil
}

// Impulse returns a unit impulse followed by silence.
func (g *Generator) Impulse(seconds float64) ([]float64, error) {
	n, err := g.Samples(seconds)
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)
	out[0] = 1
	return out, nil
}

// Bursts returns a noise source that emits burst-long bursts of white
// noise every period, starting with a burst.
func (g *Generator) Bursts(amplitude float64, burst, period time.Duration) (*Bursts, error) {
	if amplitude < 0 {
		return nil, fmt.Errorf("signal: burst amplitude must be >= 0: %f", amplitude)
	}
	if burst <= 0 || period < burst {
		return nil, fmt.Errorf("signal: need 0 < burst <= period: %v, %v", burst, period)
	}
	return &Bursts{
		rng:       rand.New(rand.NewSource(g.seed)),
		amplitude: amplitude,
		burst:     max(int(burst.Seconds()*g.cfg.SampleRate), 1),
		period:    max(int(period.Seconds()*g.cfg.SampleRate), 1),
	}, nil
}

// Bursts is an endless stream of noise bursts. It is not safe for
// concurrent use.
type Bursts struct {
	rng       *rand.Rand
	amplitude float64
	burst     int
	period    int
	pos       int
}

// Read fills dst with the next samples of the stream.
func (b *Bursts) Read(dst []float64) {
	for i := range dst {
		dst[i] = 0
		if b.pos < b.burst {
			dst[i] = (b.rng.Float64()*2 - 1) * b.amplitude
		}
		b.pos++
		if b.pos == b.period {
			b.pos = 0
		}
	}
}

// Position returns the sample offset inside the current period.
func (b *Bursts) Position() int { return b.pos }

// Normalize scales left and right together so the louder peak sits at
// peakDB and returns the applied gain. Silent input is left unchanged with
// a gain of 1.
func Normalize(left, right []float64, peakDB float64) float64 {
	peak := max(vecmath.MaxAbs(left), vecmath.MaxAbs(right))
	if peak == 0 {
		return 1
	}
	gain := core.DBToLinear(peakDB) / peak
	vecmath.ScaleBlockInPlace(left, gain)
	vecmath.ScaleBlockInPlace(right, gain)
	return gain
}
