// Package reverb provides the late-reverberation engine of a synthesizer:
// mono block in, stereo wet block out.
//
// Four topologies share the primitives of package delay:
//   - Freeverb: parallel damped combs feeding series allpasses.
//   - FDN: modulated feedback delay network with Householder mixing.
//   - Dattorro: plate model with predelay, input diffuser and a figure-eight tank.
//   - Lexverb: two allpass chains cross-fed through weighted delay lines.
//
// Engine selects one topology at construction and exposes a single
// block-processing contract. The variants compute in single precision and
// convert at the float64 boundary. No method of this package locks; callers
// serialize access or hand parameters to the audio goroutine through
// ParamHandoff.
package reverb
