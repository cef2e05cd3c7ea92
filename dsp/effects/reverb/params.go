package reverb

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-reverb/dsp/core"
	"github.com/cwbudde/algo-reverb/dsp/delay"
)

// Type selects a reverb topology.
type Type int

const (
	// TypeFreeverb is the parallel comb/allpass network.
	TypeFreeverb Type = iota
	// TypeFDN is the modulated feedback delay network.
	TypeFDN
	// TypeDattorro is the plate model.
	TypeDattorro
	// TypeLexverb is the cross-feedback allpass network.
	TypeLexverb
)

var typeNames = [...]string{
	TypeFreeverb: "freeverb",
	TypeFDN:      "fdn",
	TypeDattorro: "dattorro",
	TypeLexverb:  "lexverb",
}

// Types returns every supported topology.
func Types() []Type {
	return []Type{TypeFreeverb, TypeFDN, TypeDattorro, TypeLexverb}
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// ParseType maps a topology name to its Type.
func ParseType(name string) (Type, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range typeNames {
		if n == name {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("reverb: unknown type %q: %w", name, ErrInvalidArgument)
}

// Mask selects which parameters an update applies.
type Mask uint8

// Mask bits, one per parameter.
const (
	SetRoomSize Mask = 1 << iota
	SetDamping
	SetWidth
	SetLevel

	SetAll = SetRoomSize | SetDamping | SetWidth | SetLevel
)

// Parameter domain and construction defaults.
const (
	MaxWidth = 100.0

	DefaultRoomSize = 0.2
	DefaultDamping  = 0.0
	DefaultWidth    = 0.5
	DefaultLevel    = 0.9
)

// widthCompensation keeps the wet amplitude roughly independent of width.
const widthCompensation = 0.2

// Params holds the caller-settable reverb parameters.
type Params struct {
	RoomSize float64 // [0,1]
	Damping  float64 // [0,1]
	Width    float64 // [0,100]
	Level    float64 // [0,1]
}

// DefaultParams returns the parameters every engine starts with.
func DefaultParams() Params {
	return Params{
		RoomSize: DefaultRoomSize,
		Damping:  DefaultDamping,
		Width:    DefaultWidth,
		Level:    DefaultLevel,
	}
}

// Merge returns p with the fields selected by mask taken from update and
// clamped to their domains. NaN maps to the lower bound.
func (p Params) Merge(mask Mask, update Params) Params {
	if mask&SetRoomSize != 0 {
		p.RoomSize = core.Clamp(update.RoomSize, 0, 1)
	}
	if mask&SetDamping != 0 {
		p.Damping = core.Clamp(update.Damping, 0, 1)
	}
	if mask&SetWidth != 0 {
		p.Width = core.Clamp(update.Width, 0, MaxWidth)
	}
	if mask&SetLevel != 0 {
		p.Level = core.Clamp(update.Level, 0, 1)
	}
	return p
}

// Clamped returns p with every field inside its domain.
func (p Params) Clamped() Params {
	return Params{}.Merge(SetAll, p)
}

// wetGains derives the stereo weights. wet1+wet2 always equals
// level*scale/(1+width*0.2).
func wetGains(level, width, scale float64) (wet1, wet2 float64) {
	wet := level * scale / (1 + width*widthCompensation)
	return wet * (width/2 + 0.5), wet * ((1 - width) / 2)
}

// bufferLength truncates a buffer length computed in floating point. NaN,
// Inf and lengths past delay.MaxCapacity saturate just above the maximum, so
// SetCapacity rejects them instead of seeing a wrapped integer.
func bufferLength(n float64) int {
	if !(n <= delay.MaxCapacity) {
		return delay.MaxCapacity + 1
	}
	return int(n)
}

func validSampleRate(rate float64) error {
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return fmt.Errorf("reverb: sample rate must be > 0: %f: %w", rate, ErrInvalidArgument)
	}
	return nil
}
