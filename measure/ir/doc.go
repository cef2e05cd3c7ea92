// Package ir measures rendered reverb impulse responses.
//
// Decay metrics follow ISO 3382 and are derived from the Schroeder backward
// integration of the squared response:
//
//   - RT60, T20, T30: reverberation time from the -5 to -25/-35 dB slope
//   - EDT: early decay time from the 0 to -10 dB slope
//   - C50, C80 and D50, D80: clarity and definition
//   - CenterTime: temporal energy centroid
//
// Stereo responses add the inter-channel correlation and a spectral
// brightness (power centroid), which track the width and damping
// parameters of a reverb.
//
// # Usage
//
//	e, _ := reverb.New(reverb.TypeFDN, 48000, 48000)
//	resp, _ := ir.Render(e, 4)
//	m, _ := ir.AnalyzeStereo(resp)
//	fmt.Printf("RT60 = %.2f s, corr = %.2f\n", m.Left.RT60, m.Correlation)
package ir
