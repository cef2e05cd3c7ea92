package reverb

import (
	"fmt"
	"log/slog"
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-reverb/dsp/core"
	"github.com/cwbudde/algo-reverb/dsp/curve"
)

// State is the lifecycle state of an Engine.
type State int

const (
	// StateConstructed is the zero value: no topology has been built.
	StateConstructed State = iota
	// StateReady engines process audio.
	StateReady
	// StateFailed engines lost their buffers in a failed rebuild.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateConstructed:
		return "constructed"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// curveProbe is the number of points a room curve is checked at.
const curveProbe = 129

// Engine runs one reverb topology behind a block-processing contract.
//
// Process, Reset and parameter calls on an engine that is not ready are
// silent no-ops. An Engine is not safe for concurrent use.
type Engine struct {
	typ    Type
	state  State
	cfg    core.ProcessorConfig
	opts   options
	params Params
	logger *slog.Logger

	// exactly one is non-nil while the engine is ready
	freeverb *Freeverb
	fdn      *FDN
	dattorro *Dattorro
	lexverb  *Lexverb

	mixL []float64
	mixR []float64
}

// New builds an engine of type t for sampleRate. maxSampleRate is the
// largest rate TypeFDN can later switch to without allocating; values below
// sampleRate are raised to it. No engine is returned on failure.
func New(t Type, maxSampleRate, sampleRate float64, opts ...Option) (*Engine, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	if err := o.validate(t, sampleRate); err != nil {
		o.logger.Error("reverb construction failed", "type", t, "sample_rate", sampleRate, "err", err)
		return nil, err
	}
	if !(maxSampleRate >= sampleRate) || math.IsInf(maxSampleRate, 0) {
		maxSampleRate = sampleRate
	}

	e := &Engine{
		typ:    t,
		cfg:    o.processorConfig(maxSampleRate, sampleRate),
		opts:   o,
		params: o.params,
		logger: o.logger,
	}
	if err := e.allocate(e.cfg.MaxSampleRate, e.cfg.SampleRate); err != nil {
		e.logger.Error("reverb construction failed", "type", t, "sample_rate", sampleRate, "err", err)
		return nil, err
	}
	e.mixL = make([]float64, e.cfg.BlockSize)
	e.mixR = make([]float64, e.cfg.BlockSize)
	e.state = StateReady

	e.logger.Debug("reverb ready",
		"type", t,
		"sample_rate", e.cfg.SampleRate,
		"max_sample_rate", e.cfg.MaxSampleRate,
		"block_size", e.cfg.BlockSize)

	return e, nil
}

func (o options) validate(t Type, sampleRate float64) error {
	if err := validSampleRate(sampleRate); err != nil {
		return err
	}
	if t < TypeFreeverb || t > TypeLexverb {
		return fmt.Errorf("reverb: unknown type %d: %w", int(t), ErrInvalidArgument)
	}
	if !core.IsPowerOfTwo(o.blockSize) {
		return fmt.Errorf("reverb: block size must be a power of two: %d: %w", o.blockSize, ErrInvalidArgument)
	}
	if o.fdnLines != len(fdnLengths8) && o.fdnLines != len(fdnLengths12) {
		return fmt.Errorf("reverb: fdn line count must be 8 or 12: %d: %w", o.fdnLines, ErrInvalidArgument)
	}
	if o.roomCurve != nil && !curve.Validate(o.roomCurve, curveProbe) {
		return fmt.Errorf("reverb: room curve must be non-decreasing on [0,1]: %w", ErrInvalidArgument)
	}
	return nil
}

// allocate builds the topology and installs it only on success.
func (e *Engine) allocate(maxRate, rate float64) error {
	switch e.typ {
	case TypeFreeverb:
		v, err := NewFreeverb(rate)
		if err != nil {
			return err
		}
		v.SetParams(e.params)
		e.freeverb = v
	case TypeFDN:
		v, err := NewFDN(maxRate, rate, e.opts.fdnLines, e.opts.response)
		if err != nil {
			return err
		}
		v.SetParams(e.params)
		e.fdn = v
	case TypeDattorro:
		v, err := NewDattorro(rate)
		if err != nil {
			return err
		}
		v.SetParams(e.params)
		e.dattorro = v
	case TypeLexverb:
		v, err := NewLexverb(rate, e.opts.roomCurve)
		if err != nil {
			return err
		}
		v.SetParams(e.params)
		e.lexverb = v
	}
	e.cfg.SampleRate = rate
	e.cfg.MaxSampleRate = maxRate
	return nil
}

func (e *Engine) release() {
	e.freeverb = nil
	e.fdn = nil
	e.dattorro = nil
	e.lexverb = nil
}

// Type returns the topology.
func (e *Engine) Type() Type { return e.typ }

// State returns the lifecycle state.
func (e *Engine) State() State { return e.state }

// SampleRate returns the current processing rate.
func (e *Engine) SampleRate() float64 { return e.cfg.SampleRate }

// MaxSampleRate returns the rate TypeFDN buffers are sized for.
func (e *Engine) MaxSampleRate() float64 { return e.cfg.MaxSampleRate }

// BlockSize returns the processing block size.
func (e *Engine) BlockSize() int { return e.cfg.BlockSize }

// Params returns the current, clamped parameters.
func (e *Engine) Params() Params { return e.params }

// ProcessReplace overwrites left and right with the wet output for in. It
// processes min(len(in), len(left), len(right)) samples in blocks.
func (e *Engine) ProcessReplace(in, left, right []float64) {
	if e.state != StateReady {
		return
	}

	n := min(len(in), len(left), len(right))
	for off := 0; off < n; off += e.cfg.BlockSize {
		end := min(off+e.cfg.BlockSize, n)
		e.render(in[off:end], left[off:end], right[off:end])
	}
}

// ProcessMix adds the wet output for in onto left and right.
func (e *Engine) ProcessMix(in, left, right []float64) {
	if e.state != StateReady {
		return
	}

	n := min(len(in), len(left), len(right))
	for off := 0; off < n; off += e.cfg.BlockSize {
		end := min(off+e.cfg.BlockSize, n)
		mixL := e.mixL[:end-off]
		mixR := e.mixR[:end-off]
		e.render(in[off:end], mixL, mixR)
		vecmath.AddBlockInPlace(left[off:end], mixL)
		vecmath.AddBlockInPlace(right[off:end], mixR)
	}
}

func (e *Engine) render(in, left, right []float64) {
	switch e.typ {
	case TypeFreeverb:
		e.freeverb.Process(in, left, right)
	case TypeFDN:
		e.fdn.Process(in, left, right)
	case TypeDattorro:
		e.dattorro.Process(in, left, right)
	case TypeLexverb:
		e.lexverb.Process(in, left, right)
	}
}

// Reset clears all delay and filter history. Parameters are kept.
func (e *Engine) Reset() {
	if e.state != StateReady {
		return
	}

	switch e.typ {
	case TypeFreeverb:
		e.freeverb.Reset()
	case TypeFDN:
		e.fdn.Reset()
	case TypeDattorro:
		e.dattorro.Reset()
	case TypeLexverb:
		e.lexverb.Reset()
	}
}

// SetParameters updates the fields selected by mask. Values are clamped to
// their domains; delay history is untouched.
func (e *Engine) SetParameters(mask Mask, roomsize, damping, width, level float64) {
	e.SetParams(mask, Params{RoomSize: roomsize, Damping: damping, Width: width, Level: level})
}

// SetParams is SetParameters taking a Params value.
func (e *Engine) SetParams(mask Mask, p Params) {
	if e.state != StateReady {
		return
	}

	e.params = e.params.Merge(mask, p)
	switch e.typ {
	case TypeFreeverb:
		e.freeverb.SetParams(e.params)
	case TypeFDN:
		e.fdn.SetParams(e.params)
	case TypeDattorro:
		e.dattorro.SetParams(e.params)
	case TypeLexverb:
		e.lexverb.SetParams(e.params)
	}
}

// SampleRateChange resizes the engine for rate. On failure the engine keeps
// its last good state. TypeLexverb always reports ErrUnsupported; use
// Rebuild instead. May allocate: do not call from the audio goroutine.
func (e *Engine) SampleRateChange(rate float64) error {
	if e.state != StateReady {
		return fmt.Errorf("reverb: sample rate change: %w", ErrNotReady)
	}

	// Lexverb reports ErrUnsupported for any rate, valid or not.
	err := validSampleRate(rate)
	if e.typ == TypeLexverb {
		err = e.lexverb.SampleRateChange(rate)
	}
	if err != nil {
		e.logger.Warn("reverb sample rate change rejected", "type", e.typ, "sample_rate", rate, "err", err)
		return err
	}

	switch e.typ {
	case TypeFreeverb:
		err = e.freeverb.SampleRateChange(rate)
	case TypeFDN:
		err = e.fdn.SampleRateChange(rate)
	case TypeDattorro:
		err = e.dattorro.SampleRateChange(rate)
	}
	if err != nil {
		e.logger.Warn("reverb sample rate change rejected", "type", e.typ, "sample_rate", rate, "err", err)
		return err
	}

	e.cfg.SampleRate = rate
	e.logger.Debug("reverb sample rate changed", "type", e.typ, "sample_rate", rate)
	return nil
}

// Rebuild releases the topology and builds a fresh one for rate, with the
// current parameters. It works for every type and recovers a failed engine.
// If allocation fails the engine is left in StateFailed.
func (e *Engine) Rebuild(rate float64) error {
	if e.state == StateConstructed {
		return fmt.Errorf("reverb: rebuild: %w", ErrNotReady)
	}
	if err := validSampleRate(rate); err != nil {
		e.logger.Warn("reverb rebuild rejected", "type", e.typ, "sample_rate", rate, "err", err)
		return err
	}

	maxRate := max(e.cfg.MaxSampleRate, rate)
	e.release()
	if err := e.allocate(maxRate, rate); err != nil {
		e.state = StateFailed
		e.logger.Error("reverb rebuild failed", "type", e.typ, "sample_rate", rate, "err", err)
		return err
	}
	e.state = StateReady
	return nil
}

func (e *Engine) lengths() []int {
	switch e.typ {
	case TypeFreeverb:
		return e.freeverb.lengths()
	case TypeFDN:
		return e.fdn.lengths()
	case TypeDattorro:
		return e.dattorro.lengths()
	case TypeLexverb:
		return e.lexverb.lengths()
	}
	return nil
}
