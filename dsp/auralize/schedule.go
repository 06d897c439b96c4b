package auralize

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-eir/dsp/window"
)

// Window is one analysis window of a time-variant rendering.
type Window struct {
	Index int
	Start int // first input sample
	Len   int // number of input samples, ramps included
	// RampIn and RampOut are the crossfade lengths at either end.
	RampIn, RampOut int
}

// Mid returns the sample at the window's midpoint.
func (w Window) Mid() int { return w.Start + w.Len/2 }

// Schedule partitions n samples into windows that start every hop samples
// and extend crossfade samples into the next one. The first window has no
// ramp in and the last no ramp out, so the window gains sum to one at every
// sample.
func Schedule(n, hop, crossfade int) ([]Window, error) {
	switch {
	case n <= 0:
		return nil, ErrEmptyInput
	case hop <= 0:
		return nil, fmt.Errorf("%w: hop %d", ErrInvalidSchedule, hop)
	case crossfade < 0 || crossfade > hop:
		return nil, fmt.Errorf("%w: crossfade %d outside [0, hop %d]", ErrInvalidSchedule, crossfade, hop)
	}

	count := (n + hop - 1) / hop
	windows := make([]Window, count)
	for i := range windows {
		w := Window{Index: i, Start: i * hop}
		end := min(w.Start+hop+crossfade, n)
		if i == count-1 {
			end = n
		} else {
			w.RampOut = end - (i+1)*hop
		}
		if i > 0 {
			w.RampIn = windows[i-1].RampOut
		}
		w.Len = end - w.Start
		windows[i] = w
	}
	return windows, nil
}

// Gains returns the per-sample weights of w: Hann ramps at the crossfades and
// unity in between.
func (w Window) Gains() []float64 {
	g := make([]float64, w.Len)
	for i := range g {
		g[i] = 1
	}
	copy(g[:w.RampIn], window.Ramp(w.RampIn, false))
	copy(g[w.Len-w.RampOut:], window.Ramp(w.RampOut, true))
	return g
}

// apply writes the weighted input samples of w into dst.
func (w Window) apply(dst, x []float64) {
	vecmath.MulBlock(dst, x[w.Start:w.Start+w.Len], w.Gains())
}
