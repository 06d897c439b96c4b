package auralize

import (
	"fmt"
	"math"
	"runtime"
	"strings"
	"sync"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-eir/internal/log"
	"github.com/cwbudde/algo-eir/measure/eir"
)

var logger = log.New("auralize")

// Limiter selects how out-of-range output is brought back to [-1, 1].
type Limiter int

const (
	// Normalize scales the whole output down when its peak exceeds full scale.
	Normalize Limiter = iota
	// Clip hard clips every sample to [-1, 1].
	Clip
)

func (l Limiter) String() string {
	switch l {
	case Normalize:
		return "normalize"
	case Clip:
		return "clip"
	default:
		return fmt.Sprintf("Limiter(%d)", int(l))
	}
}

// ParseLimiter parses "normalize" or "clip".
func ParseLimiter(s string) (Limiter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normalize":
		return Normalize, nil
	case "clip":
		return Clip, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownLimiter, s)
	}
}

// Options configures rendering.
type Options struct {
	Scale     float64 // gain applied before limiting
	Hop       int     // window spacing in samples
	Crossfade int     // ramp length in samples, at most Hop
	Limiter   Limiter
	Seed      uint64 // sign pattern of the synthesized kernels
	Workers   int    // <= 0 uses one per CPU
}

// DefaultOptions returns a scale of 10000, windows every 4096 samples with
// 1024-sample crossfades, and normalization.
func DefaultOptions() Options {
	return Options{
		Scale:     10000,
		Hop:       4096,
		Crossfade: 1024,
		Limiter:   Normalize,
		Seed:      1,
	}
}

// Stats describes a rendered signal.
type Stats struct {
	Windows int     // analysis windows rendered
	Gain    float64 // overall gain applied, Scale times any normalization
	Peak    float64 // peak absolute sample after limiting
	RMS     float64
	Clipped int // samples clipped by the Clip limiter
}

// Engine renders audio through impulse responses.
type Engine struct {
	opts Options
}

// New validates opts and returns an engine.
func New(opts Options) (*Engine, error) {
	if !(opts.Scale > 0) || math.IsInf(opts.Scale, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScale, opts.Scale)
	}
	if opts.Limiter != Normalize && opts.Limiter != Clip {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLimiter, int(opts.Limiter))
	}
	if _, err := Schedule(1, opts.Hop, opts.Crossfade); err != nil {
		return nil, err
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	return &Engine{opts: opts}, nil
}

// Options returns the engine configuration.
func (e *Engine) Options() Options { return e.opts }

// Instants returns the midpoint instant, in seconds, of every analysis window
// of in. Multi expects one response per instant.
func (e *Engine) Instants(in Buffer) []float64 {
	windows, err := Schedule(in.Len(), e.opts.Hop, e.opts.Crossfade)
	if err != nil || in.SampleRate <= 0 {
		return nil
	}
	out := make([]float64, len(windows))
	for i, w := range windows {
		out[i] = float64(w.Mid()) / in.SampleRate
	}
	return out
}

// Single convolves the whole input with ir.
func (e *Engine) Single(in Buffer, ir *eir.ImpulseResponse) (Buffer, Stats, error) {
	if err := in.validate(); err != nil {
		return Buffer{}, Stats{}, err
	}
	if ir == nil {
		return Buffer{}, Stats{}, ErrNoResponses
	}
	c, err := NewConvolver(Kernel(ir, in.SampleRate, e.opts.Seed), 0)
	if err != nil {
		return Buffer{}, Stats{}, err
	}
	out, err := c.Process(in.Samples)
	if err != nil {
		return Buffer{}, Stats{}, err
	}
	stats := e.finish(out)
	stats.Windows = 1
	return Buffer{Samples: out, SampleRate: in.SampleRate}, stats, nil
}

// Multi renders each analysis window of in with its own response and
// overlap-adds the results. With one response per window, window i uses
// irs[i]; otherwise each window uses the response nearest its midpoint.
func (e *Engine) Multi(in Buffer, irs []*eir.ImpulseResponse) (Buffer, Stats, error) {
	if err := in.validate(); err != nil {
		return Buffer{}, Stats{}, err
	}
	if len(irs) == 0 {
		return Buffer{}, Stats{}, ErrNoResponses
	}
	windows, err := Schedule(in.Len(), e.opts.Hop, e.opts.Crossfade)
	if err != nil {
		return Buffer{}, Stats{}, err
	}

	pick := func(w Window) *eir.ImpulseResponse {
		if len(irs) == len(windows) {
			return irs[w.Index]
		}
		return eir.Nearest(irs, float64(w.Mid())/in.SampleRate)
	}

	// Windows sharing a response share its prepared kernel.
	convolvers := make(map[*eir.ImpulseResponse]*Convolver)
	for _, w := range windows {
		ir := pick(w)
		if ir == nil {
			return Buffer{}, Stats{}, fmt.Errorf("%w: window %d", ErrNoResponses, w.Index)
		}
		if _, ok := convolvers[ir]; ok {
			continue
		}
		c, err := NewConvolver(Kernel(ir, in.SampleRate, e.opts.Seed), 0)
		if err != nil {
			return Buffer{}, Stats{}, err
		}
		convolvers[ir] = c
	}
	logger.Infof("rendering %d windows with %d distinct responses", len(windows), len(convolvers))

	parts := make([][]float64, len(windows))
	errs := make([]error, len(windows))
	jobs := make(chan Window)
	var wg sync.WaitGroup
	for range min(e.opts.Workers, len(windows)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for w := range jobs {
				c := convolvers[pick(w)]
				seg := make([]float64, w.Len)
				w.apply(seg, in.Samples)
				parts[w.Index], errs[w.Index] = c.Process(seg)
			}
		}()
	}
	for _, w := range windows {
		jobs <- w
	}
	close(jobs)
	wg.Wait()

	n := 0
	for i, w := range windows {
		if errs[i] != nil {
			return Buffer{}, Stats{}, fmt.Errorf("auralize: window %d: %w", i, errs[i])
		}
		n = max(n, w.Start+len(parts[i]))
	}
	out := make([]float64, n)
	for i, w := range windows {
		vecmath.AddBlockInPlace(out[w.Start:w.Start+len(parts[i])], parts[i])
	}

	stats := e.finish(out)
	stats.Windows = len(windows)
	return Buffer{Samples: out, SampleRate: in.SampleRate}, stats, nil
}

// finish applies the gain and limiter to out in place.
func (e *Engine) finish(out []float64) Stats {
	stats := Stats{Gain: e.opts.Scale}
	vecmath.ScaleBlockInPlace(out, e.opts.Scale)

	peak := vecmath.MaxAbs(out)
	switch {
	case peak <= 1:
	case e.opts.Limiter == Normalize:
		vecmath.ScaleBlockInPlace(out, 1/peak)
		stats.Gain /= peak
		logger.Debugf("normalized peak %.3g to full scale", peak)
	default:
		for i, v := range out {
			if math.Abs(v) > 1 {
				out[i] = math.Copysign(1, v)
				stats.Clipped++
			}
		}
		logger.Noticef("clipped %d of %d samples", stats.Clipped, len(out))
	}

	stats.Peak = vecmath.MaxAbs(out)
	if len(out) > 0 {
		stats.RMS = math.Sqrt(vecmath.DotProduct(out, out) / float64(len(out)))
	}
	return stats
}
