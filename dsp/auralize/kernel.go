package auralize

import (
	"math"

	"github.com/cwbudde/algo-eir/measure/eir"
)

// Kernel synthesizes the amplitude response of ir at sampleRate. Bin i
// contributes sign(seed, i)*sqrt(energy) at sample round(i*BinWidth*sampleRate);
// bins that land on the same sample add. The kernel ends at the last
// contributing sample. A response without energy yields a single zero tap.
func Kernel(ir *eir.ImpulseResponse, sampleRate float64, seed uint64) []float64 {
	if ir == nil {
		return []float64{0}
	}
	last, found := -1, false
	for i := len(ir.Energy) - 1; i >= 0; i-- {
		if ir.Energy[i] > 0 {
			last, found = i, true
			break
		}
	}
	if !found {
		return []float64{0}
	}

	step := ir.BinWidth * sampleRate
	h := make([]float64, int(math.Round(float64(last)*step))+1)
	for i, e := range ir.Energy[:last+1] {
		if e <= 0 {
			continue
		}
		h[int(math.Round(float64(i)*step))] += Sign(seed, i) * math.Sqrt(e)
	}
	return h
}

// Sign returns the reproducible ±1 assigned to bin index i.
func Sign(seed uint64, i int) float64 {
	if splitmix64(seed^uint64(i))&1 == 0 {
		return 1
	}
	return -1
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
