package eir

import (
	"errors"
	"fmt"
	"iter"
	"math"
)

// Errors returned by response construction and validation.
var (
	ErrInvalidBinWidth = errors.New("eir: bin width must be positive")
	ErrInvalidMaxDelay = errors.New("eir: max delay must be positive")
	ErrShapeMismatch   = errors.New("eir: histograms differ in shape")
	ErrNegativeEnergy  = errors.New("eir: negative bin energy")
	ErrEnergyBudget    = errors.New("eir: total energy exceeds emitted energy")
	ErrEmptyResponse   = errors.New("eir: impulse response is empty")
)

// EnergyBin is the energy received during one bin of delay.
type EnergyBin struct {
	Index  int
	Energy float64
}

// ImpulseResponse is the energy received at the receiver as a function of
// delay after an emission at Time. Energy[i] covers delays in
// [i·BinWidth, (i+1)·BinWidth).
type ImpulseResponse struct {
	Time     float64
	BinWidth float64
	Energy   []float64
}

// Len returns the number of bins.
func (ir *ImpulseResponse) Len() int { return len(ir.Energy) }

// Bins yields every bin in index order.
func (ir *ImpulseResponse) Bins() iter.Seq[EnergyBin] {
	return func(yield func(EnergyBin) bool) {
		for i, e := range ir.Energy {
			if !yield(EnergyBin{Index: i, Energy: e}) {
				return
			}
		}
	}
}

// Pairs yields (delay, energy) for every bin that received energy, in
// delay order.
func (ir *ImpulseResponse) Pairs() iter.Seq2[float64, float64] {
	return func(yield func(float64, float64) bool) {
		for i, e := range ir.Energy {
			if e == 0 {
				continue
			}
			if !yield(float64(i)*ir.BinWidth, e) {
				return
			}
		}
	}
}

// Total returns the sum of all bin energies.
func (ir *ImpulseResponse) Total() float64 {
	var sum float64
	for _, e := range ir.Energy {
		sum += e
	}
	return sum
}

// FirstArrival returns the index of the first bin that received energy.
func (ir *ImpulseResponse) FirstArrival() (int, bool) {
	for i, e := range ir.Energy {
		if e > 0 {
			return i, true
		}
	}
	return 0, false
}

// Validate checks that no bin is negative and that no more energy arrived
// than was emitted.
func (ir *ImpulseResponse) Validate() error {
	if !(ir.BinWidth > 0) {
		return ErrInvalidBinWidth
	}
	for i, e := range ir.Energy {
		if e < 0 || math.IsNaN(e) {
			return fmt.Errorf("%w: bin %d = %v", ErrNegativeEnergy, i, e)
		}
	}
	if total := ir.Total(); total > 1+1e-9 {
		return fmt.Errorf("%w: %v", ErrEnergyBudget, total)
	}
	return nil
}

// Histogram accumulates energy by delay bin.
type Histogram struct {
	binWidth float64
	energy   []float64
	dropped  float64
}

// NewHistogram returns an empty histogram with bins of binWidth seconds
// covering delays [0, maxDelay].
func NewHistogram(binWidth, maxDelay float64) (*Histogram, error) {
	if !(binWidth > 0) || math.IsInf(binWidth, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBinWidth, binWidth)
	}
	if !(maxDelay > 0) || math.IsInf(maxDelay, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMaxDelay, maxDelay)
	}
	n := int(math.Floor(maxDelay/binWidth)) + 1
	return &Histogram{binWidth: binWidth, energy: make([]float64, n)}, nil
}

// Add deposits energy arriving after delay seconds. Energy outside the
// covered range is counted as dropped.
func (h *Histogram) Add(delay, energy float64) {
	idx := int(math.Floor(delay / h.binWidth))
	if idx < 0 || idx >= len(h.energy) {
		h.dropped += energy
		return
	}
	h.energy[idx] += energy
}

// Merge adds o into h bin by bin.
func (h *Histogram) Merge(o *Histogram) error {
	if o.binWidth != h.binWidth || len(o.energy) != len(h.energy) {
		return fmt.Errorf("%w: %d bins of %v s vs %d bins of %v s",
			ErrShapeMismatch, len(h.energy), h.binWidth, len(o.energy), o.binWidth)
	}
	for i, e := range o.energy {
		h.energy[i] += e
	}
	h.dropped += o.dropped
	return nil
}

// Dropped returns the energy that fell outside the covered delays.
func (h *Histogram) Dropped() float64 { return h.dropped }

// Response returns a copy of the histogram as the response for instant t.
func (h *Histogram) Response(t float64) *ImpulseResponse {
	return &ImpulseResponse{Time: t, BinWidth: h.binWidth, Energy: append([]float64(nil), h.energy...)}
}

// Nearest returns the response whose Time is closest to t. Ties go to the
// earlier entry.
func Nearest(responses []*ImpulseResponse, t float64) *ImpulseResponse {
	var best *ImpulseResponse
	bestDist := math.Inf(1)
	for _, ir := range responses {
		if d := math.Abs(ir.Time - t); d < bestDist {
			best, bestDist = ir, d
		}
	}
	return best
}
