package delay

import "github.com/cwbudde/algo-reverb/dsp/core"

// Comb is a feedback comb filter with a one-pole low-pass in the loop:
//
//	y = buf
//	store = y*damp2 + store*damp1
//	buf = x + store*feedback
//
// damp2 is always 1 - damp1.
type Comb[F core.Float] struct {
	line     Line[F]
	feedback F
}

// NewComb returns a comb filter of the given length.
func NewComb[F core.Float](size int) (*Comb[F], error) {
	c := &Comb[F]{}
	if err := c.SetCapacity(size); err != nil {
		return nil, err
	}
	return c, nil
}

// SetCapacity resizes the delay buffer and clears history. Coefficients are kept.
func (c *Comb[F]) SetCapacity(n int) error {
	return c.line.SetCapacity(n)
}

// Cap returns the delay length in samples.
func (c *Comb[F]) Cap() int { return c.line.Cap() }

// SetDamp sets damp1. The loop low-pass keeps damp2 = 1 - damp1.
func (c *Comb[F]) SetDamp(v F) { c.line.Damping.SetB0(1 - v) }

// Damp returns damp1.
func (c *Comb[F]) Damp() F {
	_, a1 := c.line.Damping.Coefficients()
	return a1
}

// SetFeedback sets the loop gain.
func (c *Comb[F]) SetFeedback(g F) { c.feedback = g }

// Feedback returns the loop gain.
func (c *Comb[F]) Feedback() F { return c.feedback }

// Fill overwrites the delay buffer without moving the cursor.
func (c *Comb[F]) Fill(v F) { c.line.Fill(v) }

// Reset zeroes the buffer, the cursor and the filter store.
func (c *Comb[F]) Reset() { c.line.Reset() }

// Store returns the loop low-pass history.
func (c *Comb[F]) Store() F { return c.line.Damping.State() }

// Process filters one sample and returns the delayed, undamped sample.
func (c *Comb[F]) Process(x F) F {
	y := c.line.Read()
	store := c.line.Damping.Process(y)
	c.line.Write(x + store*c.feedback)
	c.line.AdvanceSingleTap()
	return y
}
