package delay

import "github.com/cwbudde/algo-reverb/dsp/core"

// Mode selects the allpass transfer function.
type Mode int

const (
	// ModeFreeverb is the feed-forward/feedback form used by Freeverb:
	//	y = buf - x;  buf = x + buf*g
	ModeFreeverb Mode = iota
	// ModeSchroeder is the classic Schroeder allpass:
	//	w = x + buf*g;  y = buf - w*g;  buf = w
	ModeSchroeder
)

func (m Mode) String() string {
	switch m {
	case ModeFreeverb:
		return "freeverb"
	case ModeSchroeder:
		return "schroeder"
	default:
		return "unknown"
	}
}

// Allpass is a single-tap allpass section over a Line.
type Allpass[F core.Float] struct {
	line     Line[F]
	feedback F
	mode     Mode
	last     F
}

// NewAllpass returns an allpass section of the given length, feedback and mode.
func NewAllpass[F core.Float](size int, feedback F, mode Mode) (*Allpass[F], error) {
	a := &Allpass[F]{feedback: feedback, mode: mode}
	if err := a.SetCapacity(size); err != nil {
		return nil, err
	}
	return a, nil
}

// SetCapacity resizes the delay buffer and clears history.
func (a *Allpass[F]) SetCapacity(n int) error {
	a.last = 0
	return a.line.SetCapacity(n)
}

// Cap returns the delay length in samples.
func (a *Allpass[F]) Cap() int { return a.line.Cap() }

// SetMode selects the transfer function.
func (a *Allpass[F]) SetMode(m Mode) { a.mode = m }

// Mode returns the transfer function in use.
func (a *Allpass[F]) Mode() Mode { return a.mode }

// SetFeedback sets the allpass coefficient.
func (a *Allpass[F]) SetFeedback(g F) { a.feedback = g }

// Feedback returns the allpass coefficient.
func (a *Allpass[F]) Feedback() F { return a.feedback }

// Fill overwrites the delay buffer without moving the cursor.
func (a *Allpass[F]) Fill(v F) { a.line.Fill(v) }

// Reset zeroes the buffer, the cursor and the last output.
func (a *Allpass[F]) Reset() {
	a.line.Reset()
	a.last = 0
}

// LastOutput returns the most recent filter output.
func (a *Allpass[F]) LastOutput() F { return a.last }

// ReadTap reads the delay buffer relative to the cursor.
func (a *Allpass[F]) ReadTap(offset int) F { return a.line.ReadTap(offset) }

// Process filters one sample.
func (a *Allpass[F]) Process(x F) F {
	bufout := a.line.Read()

	var y F
	if a.mode == ModeFreeverb {
		y = bufout - x
		a.line.Write(x + bufout*a.feedback)
	} else {
		w := x + bufout*a.feedback
		y = bufout - w*a.feedback
		a.line.Write(w)
	}

	a.line.AdvanceSingleTap()
	a.last = y
	return y
}
