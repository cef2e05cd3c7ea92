package core

import "math"

// Float is the set of sample types the reverb primitives are generic over.
type Float interface {
	~float32 | ~float64
}

// denormalThreshold is the magnitude below which feedback state is zeroed.
// It sits well above the float32 subnormal range so that both sample types
// flush at the same level.
const denormalThreshold = 1e-30

// Clamp limits value to [lo, hi]. Swapped bounds are reordered and NaN
// maps to lo, so a bad control value never reaches a feedback path.
func Clamp[F Float](value, lo, hi F) F {
	if lo > hi {
		lo, hi = hi, lo
	}
	switch {
	case value != value, value < lo:
		return lo
	case value > hi:
		return hi
	}
	return value
}

// FlushDenormals returns 0 for values too small to matter.
// Feedback states are flushed once per block, which keeps recursive filters
// off subnormal arithmetic after the input goes silent.
func FlushDenormals[F Float](x F) F {
	if x > -denormalThreshold && x < denormalThreshold {
		return 0
	}
	return x
}

// IsFinite reports whether x is neither NaN nor infinite.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// DBToLinear converts a level in dB to an amplitude gain.
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts an amplitude gain to dB. Zero gives -Inf and negative
// gains give NaN.
func LinearToDB(gain float64) float64 {
	switch {
	case gain < 0:
		return math.NaN()
	case gain == 0:
		return math.Inf(-1)
	}
	return 20 * math.Log10(gain)
}
