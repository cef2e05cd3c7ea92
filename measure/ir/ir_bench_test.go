package ir

import (
	"testing"

	"github.com/cwbudde/algo-reverb/dsp/effects/reverb"
)

func BenchmarkAnalyze(b *testing.B) {
	impulseResponse := exponentialDecay(48000, 1.0, 3.0)
	a := NewAnalyzer(48000)

	b.ResetTimer()

	for b.Loop() {
		if _, err := a.Analyze(impulseResponse); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkBrightness(b *testing.B) {
	impulseResponse := exponentialDecay(48000, 1.0, 1.0)

	b.ResetTimer()

	for b.Loop() {
		if _, err := Brightness(impulseResponse, 48000); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRender(b *testing.B) {
	e, err := reverb.New(reverb.TypeDattorro, 48000, 48000)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()

	for b.Loop() {
		if _, err := Render(e, 0.5); err != nil {
			b.Fatal(err)
		}
	}
}
