package eir

import "math"

// Metrics holds ISO 3382 room acoustic parameters of an energy response.
// Energy-based parameters are measured from the direct arrival.
type Metrics struct {
	DirectArrival float64 // delay of the first received energy in seconds
	Total         float64 // total received energy
	RT60          float64 // reverberation time in seconds (T30, or T20 when T30 is unavailable)
	EDT           float64 // early decay time in seconds (0 to -10 dB)
	T20           float64 // RT from -5 to -25 dB slope
	T30           float64 // RT from -5 to -35 dB slope
	C50           float64 // clarity at 50ms in dB
	C80           float64 // clarity at 80ms in dB
	D50           float64 // definition at 50ms (ratio 0-1)
	D80           float64 // definition at 80ms (ratio 0-1)
	CenterTime    float64 // energy centroid in seconds after the direct arrival
}

// Analyze computes the metrics of ir. Decay times that cannot be measured
// because the response does not decay far enough are reported as 0.
func Analyze(ir *ImpulseResponse) (Metrics, error) {
	if ir == nil || ir.Len() == 0 {
		return Metrics{}, ErrEmptyResponse
	}
	if !(ir.BinWidth > 0) {
		return Metrics{}, ErrInvalidBinWidth
	}
	first, ok := ir.FirstArrival()
	if !ok {
		return Metrics{}, ErrEmptyResponse
	}

	rate := 1 / ir.BinWidth
	e := ir.Energy[first:]
	decay := Schroeder(e)

	m := Metrics{
		DirectArrival: float64(first) * ir.BinWidth,
		Total:         ir.Total(),
		EDT:           reverbTime(decay, rate, 0, -10),
		T20:           reverbTime(decay, rate, -5, -25),
		T30:           reverbTime(decay, rate, -5, -35),
		C50:           clarity(e, rate, 50),
		C80:           clarity(e, rate, 80),
		D50:           definition(e, rate, 50),
		D80:           definition(e, rate, 80),
		CenterTime:    centerTime(e, rate),
	}
	m.RT60 = m.T30
	if m.RT60 == 0 {
		m.RT60 = m.T20
	}
	return m, nil
}

// Schroeder returns the backward-integrated energy decay curve in dB
// relative to the total energy, floored at -200 dB.
func Schroeder(energy []float64) []float64 {
	out := make([]float64, len(energy))
	var acc float64
	for i := len(energy) - 1; i >= 0; i-- {
		acc += energy[i]
		out[i] = acc
	}
	if len(out) == 0 || out[0] <= 0 {
		return out
	}

	total := out[0]
	for i, v := range out {
		if v <= 0 {
			out[i] = -200
			continue
		}
		out[i] = 10 * math.Log10(v/total)
	}
	return out
}

// reverbTime fits a line to the decay curve between startDB and endDB and
// extrapolates it to -60 dB.
func reverbTime(decay []float64, rate, startDB, endDB float64) float64 {
	start, end := -1, -1
	for i, v := range decay {
		if start < 0 && v <= startDB {
			start = i
		}
		if start >= 0 && v <= endDB {
			end = i
			break
		}
	}
	if start < 0 || end <= start {
		return 0
	}

	var sx, sy, sxx, sxy float64
	n := float64(end - start + 1)
	for i := start; i <= end; i++ {
		x := float64(i - start)
		sx += x
		sy += decay[i]
		sxx += x * x
		sxy += x * decay[i]
	}
	denom := n*sxx - sx*sx
	if denom == 0 {
		return 0
	}

	slope := (n*sxy - sx*sy) / denom * rate // dB/s
	if slope >= 0 {
		return 0
	}
	return -60 / slope
}

func split(energy []float64, rate, ms float64) (early, late float64) {
	boundary := int(math.Round(ms * 1e-3 * rate))
	for i, v := range energy {
		if i < boundary {
			early += v
		} else {
			late += v
		}
	}
	return early, late
}

func clarity(energy []float64, rate, ms float64) float64 {
	early, late := split(energy, rate, ms)
	switch {
	case late <= 0:
		return math.Inf(1)
	case early <= 0:
		return math.Inf(-1)
	}
	return 10 * math.Log10(early/late)
}

func definition(energy []float64, rate, ms float64) float64 {
	early, late := split(energy, rate, ms)
	if early+late <= 0 {
		return 0
	}
	return early / (early + late)
}

func centerTime(energy []float64, rate float64) float64 {
	var num, den float64
	for i, v := range energy {
		num += float64(i) / rate * v
		den += v
	}
	if den <= 0 {
		return 0
	}
	return num / den
}
