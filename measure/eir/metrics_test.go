package eir

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-eir/internal/testutil"
)

func exponentialDecay(binWidth, rt60, delay, duration float64) *ImpulseResponse {
	n := int(duration / binWidth)
	return &ImpulseResponse{BinWidth: binWidth, Energy: testutil.ExponentialDecay(n, binWidth, rt60, delay, 1e-3)}
}

func TestAnalyzeExponentialDecay(t *testing.T) {
	tests := []struct {
		name  string
		rt60  float64
		delay float64
	}{
		{"short room", 0.5, 0.01},
		{"long room", 1.2, 0.03},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Analyze(exponentialDecay(1/fs, tt.rt60, tt.delay, 3*tt.rt60))
			if err != nil {
				t.Fatal(err)
			}
			for name, v := range map[string]float64{"RT60": m.RT60, "T20": m.T20, "T30": m.T30, "EDT": m.EDT} {
				if math.Abs(v-tt.rt60) > 0.05*tt.rt60 {
					t.Errorf("%s = %.3f, want %.3f (±5%%)", name, v, tt.rt60)
				}
			}
			if math.Abs(m.DirectArrival-tt.delay) > 1/fs {
				t.Errorf("DirectArrival = %v, want %v", m.DirectArrival, tt.delay)
			}
			if m.D50 <= 0 || m.D50 > m.D80 || m.D80 > 1 {
				t.Errorf("D50 = %v, D80 = %v", m.D50, m.D80)
			}
			if m.C50 >= m.C80 {
				t.Errorf("C50 = %v not below C80 = %v", m.C50, m.C80)
			}
			if m.CenterTime <= 0 || m.CenterTime > tt.rt60 {
				t.Errorf("CenterTime = %v", m.CenterTime)
			}
		})
	}
}

func TestAnalyzeSingleReflection(t *testing.T) {
	ir := &ImpulseResponse{BinWidth: 0.001, Energy: make([]float64, 200)}
	ir.Energy[10] = 0.3
	ir.Energy[110] = 0.1

	m, err := Analyze(ir)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(m.D50-0.75) > 1e-12 || math.Abs(m.C80-10*math.Log10(3)) > 1e-12 {
		t.Errorf("D50 = %v, C80 = %v", m.D50, m.C80)
	}
	if math.Abs(m.CenterTime-0.025) > 1e-12 {
		t.Errorf("CenterTime = %v, want 0.025", m.CenterTime)
	}
}

func TestAnalyzeRejectsEmpty(t *testing.T) {
	for name, ir := range map[string]*ImpulseResponse{
		"nil":     nil,
		"no bins": {BinWidth: 1},
		"silent":  {BinWidth: 1, Energy: make([]float64, 8)},
	} {
		if _, err := Analyze(ir); !errors.Is(err, ErrEmptyResponse) {
			t.Errorf("%s: expected ErrEmptyResponse, got %v", name, err)
		}
	}
}

func TestSchroeder(t *testing.T) {
	got := Schroeder([]float64{0.5, 0.25, 0.25, 0})
	want := []float64{0, 10 * math.Log10(0.5), 10 * math.Log10(0.25), -200}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("Schroeder[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if len(Schroeder(nil)) != 0 {
		t.Error("Schroeder(nil) not empty")
	}
}
