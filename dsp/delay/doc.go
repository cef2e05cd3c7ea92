// Package delay provides the circular delay line and the filters built on it
// that the reverb topologies share: allpass, damped comb and the one-pole
// damping low-pass.
//
// All primitives are generic over [core.Float] and process one sample per
// call without allocating. Buffers are owned by the primitive; composing
// code reads them through [Line.LastOutput] and [Line.ReadTap].
package delay
