package testutil

import (
	"math"
	"testing"
)

// RequireSliceNearlyEqual fails t unless got and want have the same length
// and every pair differs by at most eps.
func RequireSliceNearlyEqual(t testing.TB, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		if d := math.Abs(got[i] - want[i]); d > eps || math.IsNaN(d) {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], d, eps)
		}
	}
}

// MaxAbsDiff returns the largest absolute difference over the common prefix
// of a and b.
func MaxAbsDiff(a, b []float64) float64 {
	var worst float64
	for i := range min(len(a), len(b)) {
		worst = math.Max(worst, math.Abs(a[i]-b[i]))
	}
	return worst
}

// RequireNonIncreasing fails t if any element exceeds its predecessor.
func RequireNonIncreasing(t testing.TB, values []float64) {
	t.Helper()
	for i := 1; i < len(values); i++ {
		if values[i] > values[i-1] {
			t.Fatalf("index %d: %v rises above %v", i, values[i], values[i-1])
		}
	}
}
