package ir

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-reverb/dsp/effects/reverb"
	"github.com/cwbudde/algo-reverb/internal/testutil"
)

const renderRate = 44100

func renderWith(t *testing.T, typ reverb.Type, p reverb.Params, seconds float64) Response {
	t.Helper()

	e, err := reverb.New(typ, renderRate, renderRate, reverb.WithParams(p))
	if err != nil {
		t.Fatalf("New(%v): %v", typ, err)
	}
	resp, err := Render(e, seconds)
	if err != nil {
		t.Fatalf("Render(%v): %v", typ, err)
	}
	return resp
}

func TestRenderValidation(t *testing.T) {
	if _, err := Render(nil, 1); !errors.Is(err, reverb.ErrNotReady) {
		t.Fatalf("nil engine: got %v want ErrNotReady", err)
	}

	var idle reverb.Engine
	if _, err := Render(&idle, 1); !errors.Is(err, reverb.ErrNotReady) {
		t.Fatalf("constructed engine: got %v want ErrNotReady", err)
	}

	e, err := reverb.New(reverb.TypeFreeverb, renderRate, renderRate)
	if err != nil {
		t.Fatal(err)
	}
	for _, seconds := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := Render(e, seconds); !errors.Is(err, ErrInvalidTime) {
			t.Fatalf("seconds=%v: got %v want ErrInvalidTime", seconds, err)
		}
	}
}

func TestRenderIsRepeatable(t *testing.T) {
	e, err := reverb.New(reverb.TypeFDN, renderRate, renderRate)
	if err != nil {
		t.Fatal(err)
	}

	first, err := Render(e, 0.25)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Render(e, 0.25)
	if err != nil {
		t.Fatal(err)
	}

	if len(first.Left) != int(math.Ceil(0.25*renderRate)) || first.SampleRate != renderRate {
		t.Fatalf("len=%d rate=%v", len(first.Left), first.SampleRate)
	}
	testutil.RequireSliceEqual(t, second.Left, first.Left)
	testutil.RequireSliceEqual(t, second.Right, first.Right)
}

func TestRoomsizeLengthensDecay(t *testing.T) {
	for _, typ := range []reverb.Type{reverb.TypeFreeverb, reverb.TypeFDN, reverb.TypeDattorro} {
		t.Run(typ.String(), func(t *testing.T) {
			rt := make([]float64, 2)
			for i, room := range []float64{0.2, 0.9} {
				p := reverb.DefaultParams()
				p.RoomSize = room
				resp := renderWith(t, typ, p, 3)

				var err error
				if rt[i], err = NewAnalyzer(resp.SampleRate).RT60(resp.Left); err != nil {
					t.Fatalf("roomsize=%v: %v", room, err)
				}
			}
			if !(rt[1] > 1.2*rt[0]) {
				t.Fatalf("RT60 did not grow with roomsize: %.3f s -> %.3f s", rt[0], rt[1])
			}
		})
	}
}

func TestDampingDarkensTail(t *testing.T) {
	for _, typ := range reverb.Types() {
		t.Run(typ.String(), func(t *testing.T) {
			centroid := make([]float64, 2)
			for i, damp := range []float64{0, 0.8} {
				p := reverb.DefaultParams()
				p.RoomSize = 0.5
				p.Damping = damp
				resp := renderWith(t, typ, p, 1)

				var err error
				if centroid[i], err = Brightness(resp.Left, resp.SampleRate); err != nil {
					t.Fatal(err)
				}
			}
			if !(centroid[1] < centroid[0]) {
				t.Fatalf("damping did not darken: %.1f Hz -> %.1f Hz", centroid[0], centroid[1])
			}
		})
	}
}

func TestWidthDecorrelates(t *testing.T) {
	for _, typ := range reverb.Types() {
		t.Run(typ.String(), func(t *testing.T) {
			corr := make([]float64, 2)
			for i, width := range []float64{0, 1} {
				p := reverb.DefaultParams()
				p.Width = width
				resp := renderWith(t, typ, p, 0.5)

				var err error
				if corr[i], err = StereoCorrelation(resp.Left, resp.Right); err != nil {
					t.Fatal(err)
				}
			}
			if corr[0] < 0.999 {
				t.Fatalf("width 0 is not mono: correlation %.4f", corr[0])
			}
			if !(corr[1] < corr[0]) {
				t.Fatalf("width 1 did not decorrelate: %.4f -> %.4f", corr[0], corr[1])
			}
		})
	}
}

func TestAnalyzeStereo(t *testing.T) {
	resp := renderWith(t, reverb.TypeDattorro, reverb.DefaultParams(), 1)

	m, err := AnalyzeStereo(resp)
	if err != nil {
		t.Fatal(err)
	}
	if m.Left.Onset < 176 || m.Right.Onset < 176 {
		t.Fatalf("onset before the predelay: %d/%d", m.Left.Onset, m.Right.Onset)
	}
	if m.BrightnessLeft <= 0 || m.BrightnessLeft >= renderRate/2 {
		t.Fatalf("brightness out of range: %v", m.BrightnessLeft)
	}
	if math.Abs(m.Correlation) > 1 {
		t.Fatalf("correlation out of range: %v", m.Correlation)
	}
}

func TestStereoCorrelation(t *testing.T) {
	x := testutil.Noise(1, 1, 1024)
	neg := make([]float64, len(x))
	for i, v := range x {
		neg[i] = -2 * v
	}

	tests := []struct {
		name        string
		left, right []float64
		want        float64
	}{
		{name: "identical", left: x, right: x, want: 1},
		{name: "inverted", left: x, right: neg, want: -1},
		{name: "silent", left: x, right: make([]float64, len(x)), want: 0},
	}

	for _, tt := range tests {
		got, err := StereoCorrelation(tt.left, tt.right)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(got-tt.want) > 1e-12 {
			t.Fatalf("%s: got %v want %v", tt.name, got, tt.want)
		}
	}

	if _, err := StereoCorrelation(x, x[:10]); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("got %v want ErrLengthMismatch", err)
	}
	if _, err := StereoCorrelation(nil, nil); !errors.Is(err, ErrEmptyIR) {
		t.Fatalf("got %v want ErrEmptyIR", err)
	}
}

func TestBrightness(t *testing.T) {
	const sampleRate = 48000.0
	low := testutil.Sine(500, sampleRate, 1, 4096)
	high := testutil.Sine(8000, sampleRate, 1, 4096)

	bl, err := Brightness(low, sampleRate)
	if err != nil {
		t.Fatal(err)
	}
	bh, err := Brightness(high, sampleRate)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(bl-500) > 100 || math.Abs(bh-8000) > 400 {
		t.Fatalf("centroids got %.1f/%.1f Hz want near 500/8000", bl, bh)
	}

	if _, err := Brightness(low, 0); !errors.Is(err, ErrInvalidSampleRate) {
		t.Fatalf("got %v want ErrInvalidSampleRate", err)
	}
	if b, err := Brightness(make([]float64, 16), sampleRate); err != nil || b != 0 {
		t.Fatalf("silence: got %v, %v", b, err)
	}
}
