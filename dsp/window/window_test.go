package window

import (
	"math"
	"testing"
)

func TestGenerateHann(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		n    int
		want []float64
	}{
		{"symmetric", nil, 5, []float64{0, 0.5, 1, 0.5, 0}},
		{"periodic", []Option{WithPeriodic()}, 4, []float64{0, 0.5, 1, 0.5}},
		{"inverted", []Option{WithPeriodic(), WithInvert()}, 4, []float64{1, 0.5, 0, 0.5}},
		{"single sample", nil, 1, []float64{0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(TypeHann, tt.n, tt.opts...)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-12 {
					t.Errorf("w[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestGenerateRectangularAndEmpty(t *testing.T) {
	for i, v := range Generate(TypeRectangular, 8) {
		if v != 1 {
			t.Errorf("w[%d] = %v, want 1", i, v)
		}
	}
	if Generate(TypeHann, 0) != nil || Generate(TypeHann, -3) != nil {
		t.Error("non-positive length must yield nil")
	}
}

func TestRampsAreComplementary(t *testing.T) {
	for _, n := range []int{1, 2, 7, 256} {
		up, down := Ramp(n, false), Ramp(n, true)
		if len(up) != n || len(down) != n {
			t.Fatalf("n=%d: lengths %d and %d", n, len(up), len(down))
		}
		if up[0] != 0 || down[0] != 1 {
			t.Errorf("n=%d: ramps start at %v and %v", n, up[0], down[0])
		}
		for i := range n {
			if math.Abs(up[i]+down[i]-1) > 1e-15 {
				t.Errorf("n=%d: up[%d]+down[%d] = %v", n, i, i, up[i]+down[i])
			}
			if i > 0 && up[i] <= up[i-1] {
				t.Errorf("n=%d: rising ramp not increasing at %d", n, i)
			}
		}
	}
	if Ramp(0, false) != nil {
		t.Error("empty ramp must be nil")
	}
}
