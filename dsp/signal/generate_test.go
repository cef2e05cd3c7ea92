package signal

import (
	"math"
	"testing"
	"time"

	"github.com/cwbudde/algo-reverb/dsp/core"
)

func TestImpulse(t *testing.T) {
	g := NewGenerator(1, core.WithSampleRate(1000))

	x, err := g.Impulse(0.0101)
	if err != nil {
		t.Fatal(err)
	}
	if len(x) != 11 {
		t.Fatalf("length got %d want 11", len(x))
	}
	if x[0] != 1 {
		t.Fatalf("x[0] got %v want 1", x[0])
	}
	for i, v := range x[1:] {
		if v != 0 {
			t.Fatalf("sample %d got %v want 0", i+1, v)
		}
	}

	for _, seconds := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := g.Impulse(seconds); err == nil {
			t.Fatalf("seconds=%v: expected error", seconds)
		}
	}
}

func TestBurstsShape(t *testing.T) {
	g := NewGenerator(3, core.WithSampleRate(1000))
	b, err := g.Bursts(0.5, 10*time.Millisecond, 40*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}

	x := make([]float64, 100)
	// split reads continue the stream
	b.Read(x[:33])
	b.Read(x[33:])

	for i, v := range x {
		inBurst := i%40 < 10
		if inBurst && (v == 0 || math.Abs(v) > 0.5) {
			t.Fatalf("sample %d in burst got %v", i, v)
		}
		if !inBurst && v != 0 {
			t.Fatalf("sample %d between bursts got %v", i, v)
		}
	}
	if b.Position() != 100%40 {
		t.Fatalf("position got %d want %d", b.Position(), 100%40)
	}
}

func TestBurstsDeterministic(t *testing.T) {
	a := make([]float64, 64)
	b := make([]float64, 64)

	mk := func(seed int64) *Bursts {
		s, err := NewGenerator(seed).Bursts(1, 10*time.Millisecond, 20*time.Millisecond)
		if err != nil {
			t.Fatal(err)
		}
		return s
	}
	mk(7).Read(a)
	mk(7).Read(b)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestBurstsValidation(t *testing.T) {
	g := NewGenerator(1)
	tests := []struct {
		amp           float64
		burst, period time.Duration
	}{
		{amp: -1, burst: time.Millisecond, period: time.Second},
		{amp: 1, burst: 0, period: time.Second},
		{amp: 1, burst: time.Second, period: time.Millisecond},
	}
	for _, tt := range tests {
		if _, err := g.Bursts(tt.amp, tt.burst, tt.period); err == nil {
			t.Fatalf("%+v: expected error", tt)
		}
	}
}

func TestNormalize(t *testing.T) {
	left := []float64{-0.5, 0.25}
	right := []float64{0.1, 0}

	gain := Normalize(left, right, 0)
	if math.Abs(gain-2) > 1e-12 {
		t.Fatalf("gain got %v want 2", gain)
	}
	if left[0] != -1 || left[1] != 0.5 || math.Abs(right[0]-0.2) > 1e-12 {
		t.Fatalf("scaled got %v %v", left, right)
	}

	silent := []float64{0, 0}
	if gain := Normalize(silent, silent, -1); gain != 1 {
		t.Fatalf("silent gain got %v want 1", gain)
	}
}
