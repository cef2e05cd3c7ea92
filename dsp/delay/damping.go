package delay

import "github.com/cwbudde/algo-reverb/dsp/core"

// Damping is a one-pole low-pass with unity DC gain:
//
//	y[n] = b0*x[n] + a1*y[n-1],  a1 = 1 - b0
//
// b0 = 1 passes the input through; smaller values darken the signal.
type Damping[F core.Float] struct {
	b0    F
	a1    F
	state F
}

// NewDamping returns a damping filter with feed-forward coefficient b0.
func NewDamping[F core.Float](b0 F) Damping[F] {
	var d Damping[F]
	d.SetB0(b0)
	return d
}

// SetB0 sets the feed-forward coefficient and derives a1 = 1 - b0.
func (d *Damping[F]) SetB0(b0 F) {
	d.b0 = b0
	d.a1 = 1 - b0
}

// Coefficients returns b0 and a1.
func (d *Damping[F]) Coefficients() (b0, a1 F) {
	return d.b0, d.a1
}

// Process filters one sample.
func (d *Damping[F]) Process(x F) F {
	d.state = d.b0*x + d.a1*d.state
	return d.state
}

// ProcessDelta is Process under another name. It is the same evaluation,
// b0*x + a1*state, not the incremental state += b0*(x - state); with
// a1 = 1 - b0 both describe one recurrence. Call sites that think of the
// filter in incremental terms use this name for readability.
func (d *Damping[F]) ProcessDelta(x F) F {
	return d.Process(x)
}

// State returns the filter history.
func (d *Damping[F]) State() F {
	return d.state
}

// SetState overrides the filter history.
func (d *Damping[F]) SetState(v F) {
	d.state = v
}

// Flush zeroes a denormal-range history value.
func (d *Damping[F]) Flush() {
	d.state = core.FlushDenormals(d.state)
}

// Reset clears the filter history. Coefficients are kept.
func (d *Damping[F]) Reset() {
	d.state = 0
}
