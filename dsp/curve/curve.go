// Package curve provides monotonic response curves mapping [0,1] onto [0,1].
//
// Curves are used to reshape control parameters before they drive a model,
// for instance the roomsize-dependent delay scaling of the Lexicon-style
// reverb. Inputs outside [0,1] are clamped and NaN maps to 0.
package curve

import (
	"math"

	"github.com/cwbudde/algo-reverb/dsp/core"
)

// Func maps a control value in [0,1] to a non-decreasing response in [0,1].
type Func func(x float64) float64

// tableSize matches the 7-bit controller resolution of the synthesizer.
const tableSize = 128

// peakAttenuation is the attenuation in centibels at the bottom of the
// concave curve.
const peakAttenuation = 960.0

var (
	concaveTable [tableSize]float64
	convexTable  [tableSize]float64
)

func init() {
	concaveTable[0], concaveTable[tableSize-1] = 0, 1
	convexTable[0], convexTable[tableSize-1] = 0, 1

	const last = tableSize - 1
	for i := 1; i < last; i++ {
		r := float64(i) / last
		x := (-200 * 2 / peakAttenuation) * math.Log10(r*r)
		convexTable[i] = core.Clamp(1-x, 0, 1)
		concaveTable[last-i] = core.Clamp(x, 0, 1)
	}
}

// Linear is the identity response.
func Linear(x float64) float64 {
	return core.Clamp(x, 0, 1)
}

// Concave rises slowly at first and steeply near 1.
func Concave(x float64) float64 {
	return lookup(&concaveTable, x)
}

// Convex rises steeply at first and flattens near 1.
func Convex(x float64) float64 {
	return lookup(&convexTable, x)
}

// Validate reports whether f stays inside [0,1] and never decreases when
// sampled at n evenly spaced points.
func Validate(f Func, n int) bool {
	if f == nil {
		return false
	}
	if n < 2 {
		n = 2
	}
	prev := math.Inf(-1)
	for i := range n {
		y := f(float64(i) / float64(n-1))
		if y != y || y < 0 || y > 1 || y < prev {
			return false
		}
		prev = y
	}
	return true
}

func lookup(table *[tableSize]float64, x float64) float64 {
	pos := core.Clamp(x, 0, 1) * (tableSize - 1)
	i := int(pos)
	if i >= tableSize-1 {
		return table[tableSize-1]
	}
	frac := pos - float64(i)
	return table[i] + frac*(table[i+1]-table[i])
}
