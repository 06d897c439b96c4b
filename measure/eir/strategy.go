package eir

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/cwbudde/algo-eir/internal/log"
	"github.com/cwbudde/algo-eir/sim/scene"
	"github.com/cwbudde/algo-eir/sim/trace"
)

var logger = log.New("eir")

// Errors returned by strategies.
var (
	ErrUnknownMethod      = errors.New("eir: unknown method")
	ErrUnknownCardinality = errors.New("eir: unknown cardinality")
	ErrInvalidInterval    = errors.New("eir: snapshot interval must be positive")
	ErrNoInstants         = errors.New("eir: multi-response build needs at least one instant")
)

// Method selects how moving geometry is sampled.
type Method int

const (
	Snapshot Method = iota
	Interpolated
)

func (m Method) String() string {
	switch m {
	case Snapshot:
		return "snapshot"
	case Interpolated:
		return "interpolated"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod parses "snapshot" or "interpolated".
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "snapshot":
		return Snapshot, nil
	case "interpolated":
		return Interpolated, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

// Cardinality selects how many responses a build produces.
type Cardinality int

const (
	Single Cardinality = iota
	Multi
)

func (c Cardinality) String() string {
	switch c {
	case Single:
		return "single"
	case Multi:
		return "multi"
	default:
		return fmt.Sprintf("Cardinality(%d)", int(c))
	}
}

// ParseCardinality parses "single" or "multi"; "time-varying" is accepted
// for "multi".
func ParseCardinality(s string) (Cardinality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single":
		return Single, nil
	case "multi", "time-varying":
		return Multi, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCardinality, s)
}

// Options configures response building.
type Options struct {
	// Trace holds the propagation options; Rays, Seed and MaxDelay apply to
	// every instant.
	Trace trace.Options
	// BinWidth is the histogram resolution in seconds.
	BinWidth float64
	// SnapshotInterval spaces the snapshot instants of the Snapshot method.
	SnapshotInterval float64
	// Workers is the number of tracing goroutines; <= 0 uses one per CPU.
	Workers int
	// FoldLoops maps instants of a looping scene into its first period so
	// that instants one period apart share a trace.
	FoldLoops bool
}

// DefaultOptions returns one bin per sample at 44.1 kHz and snapshots every
// 4096 samples.
func DefaultOptions() Options {
	return Options{
		Trace:            trace.DefaultOptions(),
		BinWidth:         1.0 / 44100,
		SnapshotInterval: 4096.0 / 44100,
		FoldLoops:        true,
	}
}

// Strategy produces impulse responses for a scene.
type Strategy interface {
	Method() Method
	Cardinality() Cardinality
	// Build returns one response per instant for Multi, or a single
	// response for instant 0 for Single, in which case instants is ignored.
	// Responses for instants that share a trace share one value.
	Build(sc *scene.Scene, instants []float64) ([]*ImpulseResponse, trace.Stats, error)
}

// NewStrategy resolves a method and cardinality into a Strategy.
func NewStrategy(m Method, c Cardinality, opts Options) (Strategy, error) {
	if m != Snapshot && m != Interpolated {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMethod, int(m))
	}
	if c != Single && c != Multi {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCardinality, int(c))
	}
	if !(opts.BinWidth > 0) || math.IsInf(opts.BinWidth, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBinWidth, opts.BinWidth)
	}
	if m == Snapshot && (!(opts.SnapshotInterval > 0) || math.IsInf(opts.SnapshotInterval, 0)) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInterval, opts.SnapshotInterval)
	}
	return &strategy{method: m, cardinality: c, opts: opts}, nil
}

type strategy struct {
	method      Method
	cardinality Cardinality
	opts        Options
}

func (s *strategy) Method() Method { return s.method }
func (s *strategy) Cardinality() Cardinality { return s.cardinality }

// emissionTimes maps every requested instant to the emission instant traced
// for it. Snapshot instants are rounded down to the interval grid.
func (s *strategy) emissionTimes(instants []float64) []float64 {
	if s.method == Interpolated {
		return instants
	}
	dt := s.opts.SnapshotInterval
	emit := make([]float64, len(instants))
	for i, t := range instants {
		emit[i] = math.Floor(t/dt+1e-9) * dt
	}
	return emit
}

// run traces every emission. Interpolated traces all of them in one
// continuous batch; Snapshot freezes the scene at each emission instant.
func (s *strategy) run(sc *scene.Scene, emissions []trace.Emission, opts trace.Options,
	newAcc func(int) trace.Accumulator,
) ([]trace.Accumulator, trace.Stats, error) {
	if s.method == Interpolated {
		tr, err := trace.New(sc, trace.Continuous(), opts)
		if err != nil {
			return nil, trace.Stats{}, err
		}
		accs, stats := trace.Run(tr, emissions, s.opts.Workers, newAcc)
		return accs, stats, nil
	}

	var accs []trace.Accumulator
	var stats trace.Stats
	for _, em := range emissions {
		tr, err := trace.New(sc, trace.Frozen(em.Time), opts)
		if err != nil {
			return nil, stats, err
		}
		a, st := trace.Run(tr, []trace.Emission{em}, s.opts.Workers, newAcc)
		accs = append(accs, a...)
		stats.Merge(st)
	}
	return accs, stats, nil
}

func (s *strategy) Build(sc *scene.Scene, instants []float64) ([]*ImpulseResponse, trace.Stats, error) {
	if s.cardinality == Single {
		instants = []float64{0}
	}
	if len(instants) == 0 {
		return nil, trace.Stats{}, ErrNoInstants
	}

	requested := instants
	if period, ok := sc.LoopPeriod(); ok && s.opts.FoldLoops {
		requested = make([]float64, len(instants))
		for i, t := range instants {
			requested[i] = t - math.Floor(t/period)*period
		}
		logger.Debugf("scene %q loops every %gs, folding %d instant(s)", sc.Name, period, len(instants))
	}

	emit := s.emissionTimes(requested)

	// One emission per distinct instant; slot maps requests to emissions.
	var unique []float64
	slot := make([]int, len(emit))
	for i, t := range emit {
		j := slices.Index(unique, t)
		if j < 0 {
			j = len(unique)
			unique = append(unique, t)
		}
		slot[i] = j
	}

	topts := s.opts.Trace
	topts.Timeline = math.Max(topts.Timeline, slices.Max(unique))
	if _, err := NewHistogram(s.opts.BinWidth, topts.MaxDelay); err != nil {
		return nil, trace.Stats{}, err
	}

	emissions := make([]trace.Emission, len(unique))
	for i, t := range unique {
		emissions[i] = trace.Emission{Index: i, Time: t}
	}

	logger.Infof("building %d %s response(s) from %d trace(s) of scene %q",
		len(instants), s.method, len(unique), sc.Name)

	accs, stats, err := s.run(sc, emissions, topts, func(int) trace.Accumulator {
		return &binner{width: s.opts.BinWidth, maxDelay: topts.MaxDelay, hists: make([]*Histogram, len(unique))}
	})
	if err != nil {
		return nil, stats, err
	}

	merged := make([]*Histogram, len(unique))
	for _, acc := range accs {
		for i, h := range acc.(*binner).hists {
			switch {
			case h == nil:
			case merged[i] == nil:
				merged[i] = h
			default:
				if err := merged[i].Merge(h); err != nil {
					return nil, stats, err
				}
			}
		}
	}

	responses := make([]*ImpulseResponse, len(unique))
	for i, h := range merged {
		if h == nil {
			h, _ = NewHistogram(s.opts.BinWidth, topts.MaxDelay)
		}
		responses[i] = h.Response(unique[i])
		if err := responses[i].Validate(); err != nil {
			logger.Warningf("response at %gs: %v", unique[i], err)
		}
	}

	out := make([]*ImpulseResponse, len(instants))
	for i := range instants {
		out[i] = responses[slot[i]]
	}

	logger.Infof("traced %d rays: %d hits, %d bounces, %d escaped", stats.Rays, stats.Hits, stats.Bounces, stats.Escaped)
	return out, stats, nil
}

// binner is the per-worker accumulator. Histograms are allocated on first
// use because a worker only sees the few emissions its shard spans.
type binner struct {
	width    float64
	maxDelay float64
	hists    []*Histogram
}

func (b *binner) Add(h trace.HitEvent) {
	hist := b.hists[h.Emission]
	if hist == nil {
		hist, _ = NewHistogram(b.width, b.maxDelay)
		b.hists[h.Emission] = hist
	}
	hist.Add(h.Delay, h.Energy)
}
