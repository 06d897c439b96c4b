// Package trace propagates acoustic energy from an emitter through a scene of
// possibly moving surfaces and reports the energy that reaches the receiver.
//
// Each ray is an independent finite sequence of hit events. Rays are seeded
// from (seed, emission, ray) alone, so the events of a ray never depend on
// how work is distributed across goroutines.
//
// # Usage
//
//	tr, err := trace.New(sc, trace.Continuous(), trace.DefaultOptions())
//	if err != nil {
//		return err
//	}
//	for hit := range tr.Trace(trace.Emission{Index: 0, Time: 0}, 17, nil) {
//		fmt.Println(hit.Delay, hit.Energy)
//	}
package trace

import (
	"errors"
	"fmt"
	"iter"
	"math"

	"github.com/cwbudde/algo-eir/internal/rootfind"
	"github.com/cwbudde/algo-eir/sim/geometry"
	"github.com/cwbudde/algo-eir/sim/scene"
)

// ErrInvalidOptions is returned by New for unusable tracer options.
var ErrInvalidOptions = errors.New("trace: invalid options")

// Mode selects how surface poses are evaluated during a trace.
//
// The zero Mode is continuous: every pose is evaluated at the exact instant
// the ray reaches it. A frozen mode evaluates every pose at one instant for
// the whole trace.
type Mode struct {
	frozen bool
	at     float64
}

// Continuous evaluates poses at exact arrival instants.
func Continuous() Mode { return Mode{} }

// Frozen evaluates every pose at the single instant at.
func Frozen(at float64) Mode { return Mode{frozen: true, at: at} }

// IsFrozen reports whether a single instant governs the whole trace.
func (m Mode) IsFrozen() bool { return m.frozen }

// PoseTime returns the instant whose geometry applies at t.
func (m Mode) PoseTime(t float64) float64 {
	if m.frozen {
		return m.at
	}
	return t
}

func (m Mode) String() string {
	if m.frozen {
		return fmt.Sprintf("frozen@%gs", m.at)
	}
	return "continuous"
}

// Options controls propagation and termination.
type Options struct {
	// Rays is the number of rays per emission; each starts with energy 1/Rays.
	Rays int
	// SpeedOfSound in m/s.
	SpeedOfSound float64
	// EnergyThreshold ends a ray once its energy drops below this fraction
	// of its initial energy.
	EnergyThreshold float64
	// MaxBounces ends a ray after this many reflections.
	MaxBounces int
	// MaxDelay ends a ray this many seconds after its emission.
	MaxDelay float64
	// Seed selects the random streams.
	Seed uint64
	// Horizon is the longest free path in meters before a ray counts as
	// escaped. Zero derives it from the scene bounds over [0, Timeline+MaxDelay].
	Horizon  float64
	Timeline float64
	// March tunes root finding against moving geometry.
	March rootfind.March
}

// DefaultOptions returns the propagation defaults: 100000 rays, 343.2 m/s,
// a relative energy floor of 5e-5, 500 bounces and one second of delay.
func DefaultOptions() Options {
	return Options{
		Rays:            100000,
		SpeedOfSound:    scene.SpeedOfSound,
		EnergyThreshold: 5e-5,
		MaxBounces:      500,
		MaxDelay:        1,
		Seed:            1,
		March:           rootfind.DefaultMarch(),
	}
}

func (o Options) validate() error {
	switch {
	case o.Rays <= 0:
		return fmt.Errorf("%w: rays must be positive, got %d", ErrInvalidOptions, o.Rays)
	case !(o.SpeedOfSound > 0) || math.IsInf(o.SpeedOfSound, 0):
		return fmt.Errorf("%w: speed of sound %v", ErrInvalidOptions, o.SpeedOfSound)
	case !(o.MaxDelay > 0) || math.IsInf(o.MaxDelay, 0):
		return fmt.Errorf("%w: max delay %v", ErrInvalidOptions, o.MaxDelay)
	case o.MaxBounces < 0:
		return fmt.Errorf("%w: max bounces %d", ErrInvalidOptions, o.MaxBounces)
	case !(o.EnergyThreshold >= 0 && o.EnergyThreshold < 1):
		return fmt.Errorf("%w: energy threshold %v", ErrInvalidOptions, o.EnergyThreshold)
	case o.Horizon < 0 || o.Timeline < 0:
		return fmt.Errorf("%w: negative horizon or timeline", ErrInvalidOptions)
	}
	return nil
}

// Emission is one instant at which the emitter releases a batch of rays.
type Emission struct {
	Index int
	Time  float64
}

// HitEvent is energy arriving at the receiver.
type HitEvent struct {
	Emission int
	// Time is the absolute arrival instant; Delay is Time minus the
	// emission instant.
	Time    float64
	Delay   float64
	Energy  float64
	Bounces int
}

// Stats counts what happened to the rays of a trace.
type Stats struct {
	Rays         int64
	Hits         int64
	Bounces      int64
	Escaped      int64
	Absorbed     int64
	Expired      int64
	NonConverged int64
	Degenerate   int64
}

// Merge adds o into s.
func (s *Stats) Merge(o Stats) {
	s.Rays += o.Rays
	s.Hits += o.Hits
	s.Bounces += o.Bounces
	s.Escaped += o.Escaped
	s.Absorbed += o.Absorbed
	s.Expired += o.Expired
	s.NonConverged += o.NonConverged
	s.Degenerate += o.Degenerate
}

type facet struct {
	surface  int
	local    geometry.Facet
	normal   geometry.Vec3
	point    geometry.Vec3
	motion   geometry.Motion
	material scene.Material
	// world is set when the facet's pose never changes during a trace.
	world geometry.Facet
}

// Tracer traces rays through one scene in one mode. It is safe for
// concurrent use.
type Tracer struct {
	scene   *scene.Scene
	mode    Mode
	opts    Options
	facets  []facet
	horizon float64

	skippedFacets   int
	receiverEnabled bool
	receiverLinear  bool
	receiverVel     geometry.Vec3
}

// New prepares a tracer. Degenerate facets are dropped here and reported by
// Warnings.
func New(sc *scene.Scene, mode Mode, opts Options) (*Tracer, error) {
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if mode.frozen && (math.IsNaN(mode.at) || math.IsInf(mode.at, 0)) {
		return nil, fmt.Errorf("%w: frozen instant %v", ErrInvalidOptions, mode.at)
	}

	tr := &Tracer{scene: sc, mode: mode, opts: opts}
	for i, surf := range sc.Surfaces {
		for _, f := range surf.Shape.Facets() {
			if f.Degenerate() {
				tr.skippedFacets++
				continue
			}
			p, n := f.Plane()
			fc := facet{surface: i, local: f, point: p, normal: n, motion: surf.Motion, material: surf.Material}
			switch {
			case geometry.IsStatic(surf.Motion):
				fc.world = f
			case mode.IsFrozen():
				fc.world = f.Transform(geometry.PoseAt(surf.Motion, mode.at))
			}
			tr.facets = append(tr.facets, fc)
		}
	}

	tr.receiverEnabled = sc.Receiver.Radius > 0
	tr.receiverVel, tr.receiverLinear = geometry.LinearVelocity(sc.Receiver.Motion)

	tr.horizon = opts.Horizon
	if tr.horizon == 0 {
		box := sc.Bounds(0, opts.Timeline+opts.MaxDelay, 64)
		tr.horizon = 1.05*box.Diagonal() + 1
	}
	tr.horizon = math.Min(tr.horizon, opts.SpeedOfSound*opts.MaxDelay)
	return tr, nil
}

// Mode returns the pose evaluation mode.
func (tr *Tracer) Mode() Mode { return tr.mode }

// Options returns the options the tracer was built with.
func (tr *Tracer) Options() Options { return tr.opts }

// Horizon returns the longest free path in meters.
func (tr *Tracer) Horizon() float64 { return tr.horizon }

// Warnings describes degenerate parts of the scene that are ignored.
func (tr *Tracer) Warnings() []string {
	var w []string
	if tr.skippedFacets > 0 {
		w = append(w, fmt.Sprintf("%d degenerate facet(s) of scene %q ignored", tr.skippedFacets, tr.scene.Name))
	}
	if !tr.receiverEnabled {
		w = append(w, fmt.Sprintf("receiver radius %v of scene %q disables capture", tr.scene.Receiver.Radius, tr.scene.Name))
	}
	return w
}

func (tr *Tracer) poseTime(t float64) float64 { return tr.mode.PoseTime(t) }

// ray is the state of one ray between segments. Energy never increases.
type ray struct {
	origin  geometry.Vec3
	dir     geometry.Vec3
	energy  float64
	emitted float64
	time    float64
	bounces int
	last    int
}

// Trace returns the hit events of one ray in arrival order. st, when not nil,
// accumulates what happened to the ray; it must not be shared between
// goroutines.
func (tr *Tracer) Trace(em Emission, rayIndex int, st *Stats) iter.Seq[HitEvent] {
	if st == nil {
		st = new(Stats)
	}
	return func(yield func(HitEvent) bool) {
		rng := newRand(tr.opts.Seed, em.Index, rayIndex)
		st.Rays++

		initial := 1 / float64(tr.opts.Rays)
		r := ray{
			origin:  tr.scene.Emitter.PositionAt(tr.poseTime(em.Time)),
			energy:  initial,
			emitted: em.Time,
			time:    em.Time,
			last:    -1,
		}
		r.dir = tr.emitDirection(rng, r.origin, em.Time)
		if r.dir.IsZero() || !r.dir.IsFinite() {
			st.Degenerate++
			return
		}

		c := tr.opts.SpeedOfSound
		limit := em.Time + tr.opts.MaxDelay
		floor := initial * tr.opts.EnergyThreshold

		for {
			segEnd := math.Min(r.time+tr.horizon/c, limit)
			h, ok := tr.nearestFacet(&r, segEnd, st)
			end := segEnd
			if ok {
				end = h.time
			}

			if tc, captured := tr.capture(&r, end, st); captured {
				st.Hits++
				ev := HitEvent{Emission: em.Index, Time: tc, Delay: tc - em.Time, Energy: r.energy, Bounces: r.bounces}
				if !yield(ev) {
					return
				}
			}

			if !ok {
				if segEnd < limit {
					st.Escaped++
				} else {
					st.Expired++
				}
				return
			}

			f := &tr.facets[h.facet]
			r.origin = h.point
			r.time = h.time
			r.last = h.facet
			r.energy *= 1 - f.material.Absorption
			r.bounces++
			st.Bounces++
			if r.energy < floor || r.bounces > tr.opts.MaxBounces {
				st.Absorbed++
				return
			}

			n := h.normal
			if n.Dot(r.dir) > 0 {
				n = n.Neg()
			}
			if f.material.Diffusion > 0 && rng.Float64() < f.material.Diffusion {
				r.dir = cosineHemisphere(rng, n)
			} else {
				r.dir = geometry.Reflect(r.dir, n).Norm()
			}
		}
	}
}
