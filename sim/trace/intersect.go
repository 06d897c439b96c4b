package trace

import (
	"errors"
	"math"

	"github.com/cwbudde/algo-eir/internal/rootfind"
	"github.com/cwbudde/algo-eir/sim/geometry"
)

// minFreePath keeps a ray from re-hitting the point it just left.
const minFreePath = 1e-9

type surfaceHit struct {
	facet  int
	time   float64
	point  geometry.Vec3
	normal geometry.Vec3
}

func (r *ray) at(t, c float64) geometry.Vec3 {
	return r.origin.AddScaled(r.dir, c*(t-r.time))
}

// nearestFacet returns the first facet the ray reaches before until. The
// facet the ray starts on is skipped.
func (tr *Tracer) nearestFacet(r *ray, until float64, st *Stats) (surfaceHit, bool) {
	best := surfaceHit{time: until}
	found := false
	for i := range tr.facets {
		if i == r.last {
			continue
		}
		f := &tr.facets[i]

		var h surfaceHit
		var ok bool
		switch {
		case f.world != nil:
			h, ok = tr.fixedHit(f.world, r, r.time, best.time)
		default:
			h, ok = tr.movingHit(f, r, best.time, st)
		}
		if ok {
			h.facet = i
			best, found = h, true
		}
	}
	return best, found
}

// fixedHit intersects the ray with a facet held at one world pose, between
// instants from and until.
func (tr *Tracer) fixedHit(w geometry.Facet, r *ray, from, until float64) (surfaceHit, bool) {
	c := tr.opts.SpeedOfSound
	lo := math.Max((from-r.time)*c, minFreePath)
	d, ok := geometry.Intersect(w, r.origin, r.dir, lo, (until-r.time)*c)
	if !ok {
		return surfaceHit{}, false
	}
	_, n := w.Plane()
	return surfaceHit{time: r.time + d/c, point: r.origin.AddScaled(r.dir, d), normal: n}, true
}

// movingHit finds the first instant at which the ray point lies on the
// facet's plane at that same instant and inside the facet's boundary.
func (tr *Tracer) movingHit(f *facet, r *ray, until float64, st *Stats) (surfaceHit, bool) {
	if !(until > r.time) {
		return surfaceHit{}, false
	}
	c := tr.opts.SpeedOfSound

	dist := func(t float64) float64 {
		local := geometry.PoseAt(f.motion, t).Inverse().Apply(r.at(t, c))
		return f.normal.Dot(local.Sub(f.point))
	}
	bound := func(t, d float64) float64 {
		return c + f.motion.MaxSpeed(r.at(t, c), math.Abs(d))
	}

	for t, err := range tr.opts.March.Roots(dist, bound, r.time, until) {
		if err != nil {
			if errors.Is(err, rootfind.ErrNoConvergence) {
				st.NonConverged++
			}
			return surfaceHit{}, false
		}
		pose := geometry.PoseAt(f.motion, t)
		p := r.at(t, c)
		if f.local.Contains(pose.Inverse().Apply(p)) {
			return surfaceHit{time: t, point: p, normal: pose.ApplyDir(f.normal)}, true
		}
	}
	return surfaceHit{}, false
}

// capture returns the instant the ray enters the receiver sphere during
// [r.time, end], if it does.
func (tr *Tracer) capture(r *ray, end float64, st *Stats) (float64, bool) {
	if !tr.receiverEnabled || end < r.time {
		return 0, false
	}
	rc := tr.scene.Receiver

	switch {
	case tr.mode.IsFrozen():
		return tr.sphereEntry(r, r.time, end, rc.CenterAt(tr.poseTime(r.time)), geometry.Vec3{})
	case tr.receiverLinear:
		return tr.sphereEntry(r, r.time, end, rc.CenterAt(r.time), tr.receiverVel)
	}
	return tr.marchEntry(r, end, st)
}

// sphereEntry solves |P(t) - C(t)| = radius in closed form for a receiver
// moving with constant velocity v from centre c0 at instant from.
func (tr *Tracer) sphereEntry(r *ray, from, to float64, c0, v geometry.Vec3) (float64, bool) {
	c := tr.opts.SpeedOfSound
	radius := tr.scene.Receiver.Radius

	d0 := r.at(from, c).Sub(c0)
	w := r.dir.Scale(c).Sub(v)
	k := d0.LenSquared() - radius*radius
	if k <= 0 {
		return from, true
	}
	roots, n := rootfind.Quadratic(w.LenSquared(), 2*d0.Dot(w), k)
	for i := range n {
		if s := roots[i]; s >= 0 && from+s <= to {
			return from + s, true
		}
	}
	return 0, false
}

func (tr *Tracer) marchEntry(r *ray, end float64, st *Stats) (float64, bool) {
	c := tr.opts.SpeedOfSound
	rc := tr.scene.Receiver

	gap := func(t float64) float64 {
		return r.at(t, c).Sub(rc.CenterAt(t)).Len() - rc.Radius
	}
	if gap(r.time) <= 0 {
		return r.time, true
	}
	if !(end > r.time) {
		return 0, false
	}
	bound := func(t, g float64) float64 {
		return c + rc.Motion.MaxSpeed(rc.CenterAt(t), math.Abs(g))
	}

	t, ok, err := tr.opts.March.First(gap, bound, r.time, end)
	if errors.Is(err, rootfind.ErrNoConvergence) {
		st.NonConverged++
	}
	return t, ok
}
