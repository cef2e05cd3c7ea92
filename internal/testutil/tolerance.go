// Package testutil holds assertions and signal generators shared by the
// package tests.
package testutil

import (
	"fmt"
	"math"
	"testing"

	"github.com/cwbudde/algo-reverb/dsp/core"
)

// RequireSliceEqual fails t unless got and want are identical sample for sample.
func RequireSliceEqual[F core.Float](t *testing.T, got, want []F) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("sample %d mismatch: got=%g want=%g diff=%g", i, got[i], want[i], got[i]-want[i])
		}
	}
}

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair exceeds eps (absolute tolerance).
func RequireSliceNearlyEqual[F core.Float](t *testing.T, got, want []F, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		diff := math.Abs(float64(got[i]) - float64(want[i]))
		if diff > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite[F core.Float](t *testing.T, data []F) {
	t.Helper()
	for i, v := range data {
		if !core.IsFinite(float64(v)) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// RequireSilent fails t if any element magnitude exceeds eps. eps = 0
// demands exact zeros.
func RequireSilent[F core.Float](t *testing.T, data []F, eps float64) {
	t.Helper()
	for i, v := range data {
		if math.Abs(float64(v)) > eps {
			t.Fatalf("index %d: got %v, want |x| <= %v", i, v, eps)
		}
	}
}

// MaxAbsDiff returns the maximum absolute difference between two slices.
// Returns an error if the slices differ in length.
func MaxAbsDiff[F core.Float](a, b []F) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("length mismatch: %d vs %d", len(a), len(b))
	}
	maxDiff := 0.0
	for i := range a {
		maxDiff = max(maxDiff, math.Abs(float64(a[i])-float64(b[i])))
	}
	return maxDiff, nil
}

// Energy returns the sum of squares of data.
func Energy[F core.Float](data []F) float64 {
	e := 0.0
	for _, v := range data {
		e += float64(v) * float64(v)
	}
	return e
}
