package delay

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-reverb/dsp/core"
)

// MaxCapacity is the largest buffer a Line will allocate, in samples.
const MaxCapacity = 1 << 24

// ErrCapacity is returned when a requested capacity exceeds MaxCapacity.
var ErrCapacity = errors.New("delay: capacity exceeds maximum")

// Line is a circular delay line with independent read and write cursors.
//
// Most users treat it as a single-tap line through Process, where both
// cursors coincide. Lines inside a feedback network can instead place the
// read cursor behind the write cursor with SetDelay and step with Shift.
// The embedded Damping state is available to topologies that low-pass the
// line output inside their feedback path.
type Line[F core.Float] struct {
	buf  []F
	in   int
	out  int
	last F

	Damping Damping[F]
}

// New returns a delay line holding size samples. Sizes below one are raised
// to one.
func New[F core.Float](size int) (*Line[F], error) {
	l := &Line[F]{}
	if err := l.SetCapacity(size); err != nil {
		return nil, err
	}
	return l, nil
}

// SetCapacity resizes the line to n samples and clears history, cursors,
// last output and damping state. Existing storage is reused when it is
// large enough.
func (l *Line[F]) SetCapacity(n int) error {
	if n < 1 {
		n = 1
	}
	if n > MaxCapacity {
		return fmt.Errorf("%w: %d > %d", ErrCapacity, n, MaxCapacity)
	}
	l.buf = core.EnsureLen(l.buf, n)
	l.Reset()
	return nil
}

// Cap returns the number of samples the line holds.
func (l *Line[F]) Cap() int {
	return len(l.buf)
}

// Fill overwrites every cell with v. Cursors are not moved.
func (l *Line[F]) Fill(v F) {
	core.Fill(l.buf, v)
}

// Reset zeroes the buffer, the cursors, the last output and the damping state.
func (l *Line[F]) Reset() {
	core.Zero(l.buf)
	l.in, l.out = 0, 0
	l.last = 0
	l.Damping.Reset()
}

// Read returns the sample at the read cursor.
func (l *Line[F]) Read() F {
	return l.buf[l.out]
}

// Write stores x at the read cursor.
func (l *Line[F]) Write(x F) {
	l.buf[l.out] = x
}

// Advance moves the read cursor forward by one sample.
func (l *Line[F]) Advance() {
	if l.out++; l.out >= len(l.buf) {
		l.out = 0
	}
}

// AdvanceSingleTap moves the read cursor and keeps the write cursor on it.
func (l *Line[F]) AdvanceSingleTap() {
	l.Advance()
	l.in = l.out
}

// Process writes x and returns the sample written Cap() calls ago.
func (l *Line[F]) Process(x F) F {
	y := l.buf[l.out]
	l.buf[l.out] = x
	l.AdvanceSingleTap()
	l.last = y
	return y
}

// Push writes x at the write cursor and advances it. The read cursor stays.
func (l *Line[F]) Push(x F) {
	l.buf[l.in] = x
	if l.in++; l.in >= len(l.buf) {
		l.in = 0
	}
}

// Shift steps a dual-index line: it reads at the read cursor, writes x at
// the write cursor and advances both.
func (l *Line[F]) Shift(x F) F {
	y := l.buf[l.out]
	l.Push(x)
	l.Advance()
	l.last = y
	return y
}

// SetDelay places the read cursor d samples behind the write cursor, so
// Shift returns the input from d steps earlier. d is clamped to [1, Cap()].
func (l *Line[F]) SetDelay(d int) {
	n := len(l.buf)
	d = min(max(d, 1), n)
	l.out = wrap(l.in-d, n)
}

// Delay returns the distance between the write and read cursors, in [1, Cap()].
func (l *Line[F]) Delay() int {
	n := len(l.buf)
	d := wrap(l.in-l.out, n)
	if d == 0 {
		return n
	}
	return d
}

// ReadTap returns the sample offset positions from the read cursor. Offsets
// may be negative or exceed the capacity.
func (l *Line[F]) ReadTap(offset int) F {
	return l.buf[wrap(l.out+offset, len(l.buf))]
}

// At returns the sample at absolute buffer index i, taken modulo Cap().
func (l *Line[F]) At(i int) F {
	return l.buf[wrap(i, len(l.buf))]
}

// SetPositions sets the write and read cursors, modulo Cap().
func (l *Line[F]) SetPositions(in, out int) {
	l.in = wrap(in, len(l.buf))
	l.out = wrap(out, len(l.buf))
}

// Positions returns the write and read cursors.
func (l *Line[F]) Positions() (in, out int) {
	return l.in, l.out
}

// LastOutput returns the sample most recently returned by Process or Shift.
func (l *Line[F]) LastOutput() F {
	return l.last
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
