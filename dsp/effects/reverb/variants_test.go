package reverb

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-reverb/dsp/curve"
	"github.com/cwbudde/algo-reverb/internal/testutil"
)

func TestFreeverbLengths(t *testing.T) {
	tests := []struct {
		rate            float64
		combL, combR    int
		lastAP, lastAPR int
	}{
		{rate: 44100, combL: 1116, combR: 1139, lastAP: 225, lastAPR: 248},
		{rate: 48000, combL: 1214, combR: 1239, lastAP: 244, lastAPR: 269},
		{rate: 22050, combL: 558, combR: 569, lastAP: 112, lastAPR: 124},
	}

	for _, tt := range tests {
		f, err := NewFreeverb(tt.rate)
		if err != nil {
			t.Fatalf("rate=%v: %v", tt.rate, err)
		}
		if f.combL[0].Cap() != tt.combL || f.combR[0].Cap() != tt.combR {
			t.Fatalf("rate=%v: comb 0 got %d/%d want %d/%d",
				tt.rate, f.combL[0].Cap(), f.combR[0].Cap(), tt.combL, tt.combR)
		}
		if f.apL[3].Cap() != tt.lastAP || f.apR[3].Cap() != tt.lastAPR {
			t.Fatalf("rate=%v: allpass 3 got %d/%d want %d/%d",
				tt.rate, f.apL[3].Cap(), f.apR[3].Cap(), tt.lastAP, tt.lastAPR)
		}
	}
}

func TestFreeverbRoomsizeMapping(t *testing.T) {
	f, err := NewFreeverb(testRate)
	if err != nil {
		t.Fatal(err)
	}
	f.SetParams(Params{RoomSize: 1, Damping: 0.25, Width: 1, Level: 1})

	if got := f.combL[0].Feedback(); math.Abs(float64(got)-0.98) > 1e-6 {
		t.Fatalf("comb feedback got %v want 0.98", got)
	}
	if got := f.combL[0].Damp(); math.Abs(float64(got)-0.25) > 1e-6 {
		t.Fatalf("comb damp got %v want 0.25", got)
	}
}

func TestFDNLengths(t *testing.T) {
	tests := []struct {
		name     string
		max      float64
		rate     float64
		wantLine int
	}{
		{name: "reference", max: 44100, rate: 44100, wantLine: 606},
		{name: "below-reference", max: 44100, rate: 22050, wantLine: 606},
		{name: "96k", max: 96000, rate: 96000, wantLine: 1317},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewFDN(tt.max, tt.rate, 8, ResponseFreeverb)
			if err != nil {
				t.Fatal(err)
			}
			if got := r.lengths()[0]; got != tt.wantLine {
				t.Fatalf("line 0 got %d want %d", got, tt.wantLine)
			}
		})
	}
}

func TestFDNRateChangeWithinMax(t *testing.T) {
	e, err := New(TypeFDN, 96000, testRate)
	if err != nil {
		t.Fatal(err)
	}

	if err := e.SampleRateChange(96000); err != nil {
		t.Fatalf("within max: %v", err)
	}
	if got := e.lengths()[0]; got != 1317 {
		t.Fatalf("line 0 got %d want 1317", got)
	}

	err = e.SampleRateChange(192000)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("above max: expected ErrInvalidArgument, got %v", err)
	}
	if e.SampleRate() != 96000 || e.State() != StateReady {
		t.Fatalf("rejected change altered the engine: rate=%v state=%v", e.SampleRate(), e.State())
	}

	if err := e.SampleRateChange(testRate); err != nil {
		t.Fatalf("back to reference: %v", err)
	}
	if got := e.lengths()[0]; got != 606 {
		t.Fatalf("line 0 got %d want 606", got)
	}
}

func TestFDNStereoGains(t *testing.T) {
	r, err := NewFDN(testRate, testRate, 8, ResponseFreeverb)
	if err != nil {
		t.Fatal(err)
	}

	wantL := []float32{1, -1, 1, -1, 1, -1, 1, -1}
	wantR := []float32{1, 1, -1, -1, 1, 1, -1, -1}
	testutil.RequireSliceEqual(t, r.leftGain, wantL)
	testutil.RequireSliceEqual(t, r.rightGain, wantR)
}

func TestFDNStableAtMaxRoomsize(t *testing.T) {
	for _, lines := range []int{8, 12} {
		for _, response := range []RoomsizeResponse{ResponseFreeverb, ResponseLinear} {
			e, err := New(TypeFDN, testRate, testRate, WithFDNLines(lines), WithFDNRoomsizeResponse(response))
			if err != nil {
				t.Fatal(err)
			}
			e.SetParameters(SetAll, 1, 0, 1, 1)

			left, right := render(e, testutil.Impulse(3*testRate, 0))
			testutil.RequireFinite(t, left)
			testutil.RequireFinite(t, right)

			half := testRate / 2
			head := testutil.Energy(left[:half])
			tail := testutil.Energy(left[len(left)-half:])
			if !(tail < head) {
				t.Fatalf("lines=%d response=%v: tail energy %g not below head %g", lines, response, tail, head)
			}
			for i, v := range left {
				if math.Abs(v) > 10 {
					t.Fatalf("lines=%d response=%v: sample %d = %g", lines, response, i, v)
				}
			}
		}
	}
}

func TestFDNRejectsInvalidConfig(t *testing.T) {
	if _, err := NewFDN(testRate, testRate, 10, ResponseFreeverb); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("lines: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := NewFDN(testRate, testRate, 8, RoomsizeResponse(5)); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("response: expected ErrInvalidArgument, got %v", err)
	}
}

func TestDattorroConversions(t *testing.T) {
	tests := []struct {
		name string
		got  int
		want int
	}{
		{name: "predelay-44k", got: dattorroSamples(dattorroPredelayS, 44100), want: 176},
		{name: "predelay-48k", got: dattorroSamples(dattorroPredelayS, 48000), want: 192},
		{name: "design-rate", got: dattorroDesignSamples(142, dattorroDesignRate), want: 142},
		{name: "scaled", got: dattorroDesignSamples(142, 44100), want: 210},
		{name: "minimum", got: dattorroSamples(1e-9, 44100), want: 1},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Fatalf("%s: got %d want %d", tt.name, tt.got, tt.want)
		}
	}
}

func TestDattorroTapsAtDesignRate(t *testing.T) {
	d, err := NewDattorro(dattorroDesignRate)
	if err != nil {
		t.Fatal(err)
	}
	for i := range 7 {
		if d.leftTaps[i] != dattorroLeftTaps[i].offset {
			t.Fatalf("left tap %d got %d want %d", i, d.leftTaps[i], dattorroLeftTaps[i].offset)
		}
		if d.rightTaps[i] != dattorroRightTaps[i].offset {
			t.Fatalf("right tap %d got %d want %d", i, d.rightTaps[i], dattorroRightTaps[i].offset)
		}
	}
}

// Each tank line is filled with its own power of ten, so the tap sum counts
// how often every line is read and with which sign.
func TestDattorroTapSources(t *testing.T) {
	d, err := NewDattorro(testRate)
	if err != nil {
		t.Fatal(err)
	}
	d.tankDelay[0].Fill(1)
	d.tankDelay[1].Fill(10)
	d.tankDelay[2].Fill(100)
	d.tankDelay[3].Fill(1000)
	d.tankAP[1].Fill(1e4)
	d.tankAP[3].Fill(1e5)
	d.tankAP[0].Fill(1e6)
	d.tankAP[2].Fill(1e6)

	// left: +2 dly2, +dly3, -dly0, -dly1, -ap1, -ap3
	if got := d.tapSum(&dattorroLeftTaps, &d.leftTaps); got != 200+1000-1-10-1e4-1e5 {
		t.Fatalf("left tap sum got %v want %v", got, 200+1000-1-10-1e4-1e5)
	}
	// right: +2 dly0, +dly1, -dly2, -dly3, -ap1, -ap3
	if got := d.tapSum(&dattorroRightTaps, &d.rightTaps); got != 2+10-100-1000-1e4-1e5 {
		t.Fatalf("right tap sum got %v want %v", got, 2+10-100-1000-1e4-1e5)
	}
}

func TestDattorroPredelay(t *testing.T) {
	e := newEngine(t, TypeDattorro)
	e.SetParameters(SetAll, 0.5, 0, 1, 1)

	left, _ := render(e, testutil.Impulse(512, 0))
	for i := range 176 {
		if left[i] != 0 {
			t.Fatalf("sample %d before the predelay is %g", i, left[i])
		}
	}
}

func TestLexverbRoomCurve(t *testing.T) {
	plain := newEngine(t, TypeLexverb)
	if got, want := plain.lexverb.dl[1].Delay(), plain.lexverb.dl[1].Cap(); got != want {
		t.Fatalf("without curve: delay got %d want %d", got, want)
	}

	e := newEngine(t, TypeLexverb, WithRoomCurve(curve.Concave))
	n := e.lexverb.dl[1].Cap()

	e.SetParameters(SetRoomSize, 0, 0, 0, 0)
	if got := e.lexverb.dl[1].Delay(); got != n/2 {
		t.Fatalf("roomsize 0: delay got %d want %d", got, n/2)
	}

	e.SetParameters(SetRoomSize, 1, 0, 0, 0)
	if got := e.lexverb.dl[1].Delay(); got != n {
		t.Fatalf("roomsize 1: delay got %d want %d", got, n)
	}

	e.SetParameters(SetRoomSize, 0.5, 0, 0, 0)
	mid := e.lexverb.dl[1].Delay()
	if mid <= n/2 || mid >= n {
		t.Fatalf("roomsize 0.5: delay %d outside (%d, %d)", mid, n/2, n)
	}
	e.Reset()
	if got := e.lexverb.dl[1].Delay(); got != mid {
		t.Fatalf("reset moved the delay: %d -> %d", mid, got)
	}
}

func TestVariantsBoundedOnNoise(t *testing.T) {
	noise := testutil.Noise(11, 1, 2*testRate)

	for _, typ := range Types() {
		t.Run(typ.String(), func(t *testing.T) {
			e := newEngine(t, typ)
			e.SetParameters(SetAll, 1, 0, MaxWidth, 1)

			left, right := render(e, noise)
			testutil.RequireFinite(t, left)
			testutil.RequireFinite(t, right)
			if testutil.Energy(left) == 0 {
				t.Fatal("no output")
			}
		})
	}
}
