// Package scene describes an acoustic scene: surfaces with materials and
// motions, one emitter and one receiver. A Scene is read-only once built and
// may be shared by any number of concurrent tracers.
package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-eir/sim/geometry"
)

// SpeedOfSound is the default propagation speed in air, in m/s.
const SpeedOfSound = 343.2

// DefaultReceiverRadius is the capture radius used by the catalog scenes.
const DefaultReceiverRadius = 0.5

// ErrInvalidScene is returned by Validate.
var ErrInvalidScene = errors.New("scene: invalid scene")

// Material describes how a surface treats incident energy.
type Material struct {
	// Absorption is the fraction of energy absorbed per reflection, in [0, 1].
	Absorption float64
	// Diffusion is the probability that a reflection scatters diffusely
	// instead of specularly, in [0, 1].
	Diffusion float64
}

// Common materials.
var (
	Concrete = Material{Absorption: 0.02, Diffusion: 0.1}
	Glass    = Material{Absorption: 0.03, Diffusion: 0}
	Wood     = Material{Absorption: 0.1, Diffusion: 0.3}
)

func (m Material) validate() error {
	if !(m.Absorption >= 0 && m.Absorption <= 1) {
		return fmt.Errorf("absorption %v outside [0, 1]", m.Absorption)
	}
	if !(m.Diffusion >= 0 && m.Diffusion <= 1) {
		return fmt.Errorf("diffusion %v outside [0, 1]", m.Diffusion)
	}
	return nil
}

// Surface is a reflecting shape. Shape is given in local coordinates and
// placed in the world by Motion; a nil Motion is static.
type Surface struct {
	Name     string
	Shape    geometry.Shape
	Material Material
	Motion   geometry.Motion
}

// Emitter is a point source. A directional emitter radiates into a cone of
// half-angle ConeAngle (radians) centred on the receiver; otherwise it
// radiates uniformly in all directions.
type Emitter struct {
	Position    geometry.Vec3
	Motion      geometry.Motion
	Directional bool
	ConeAngle   float64
}

// PositionAt returns the world position of the emitter at t.
func (e Emitter) PositionAt(t float64) geometry.Vec3 {
	return geometry.PoseAt(e.Motion, t).Apply(e.Position)
}

// Receiver is a capture sphere. A non-positive Radius disables capture.
type Receiver struct {
	Position geometry.Vec3
	Radius   float64
	Motion   geometry.Motion
}

// CenterAt returns the world position of the receiver centre at t.
func (r Receiver) CenterAt(t float64) geometry.Vec3 {
	return geometry.PoseAt(r.Motion, t).Apply(r.Position)
}

// Scene is an ordered set of surfaces plus an emitter and a receiver.
type Scene struct {
	Name     string
	Surfaces []Surface
	Emitter  Emitter
	Receiver Receiver
}

// Validate reports the first structural problem with s. Degenerate but
// well-formed geometry, such as a zero-area facet or a receiver without
// radius, is left to the tracer to skip.
func (s *Scene) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil scene", ErrInvalidScene)
	}
	for i, surf := range s.Surfaces {
		if surf.Shape == nil || len(surf.Shape.Facets()) == 0 {
			return fmt.Errorf("%w: surface %d (%s) has no shape", ErrInvalidScene, i, surf.Name)
		}
		if err := surf.Material.validate(); err != nil {
			return fmt.Errorf("%w: surface %d (%s): %v", ErrInvalidScene, i, surf.Name, err)
		}
		if err := geometry.ValidateMotion(surf.Motion); err != nil {
			return fmt.Errorf("%w: surface %d (%s): %w", ErrInvalidScene, i, surf.Name, err)
		}
	}

	e := s.Emitter
	if !e.Position.IsFinite() {
		return fmt.Errorf("%w: emitter position is not finite", ErrInvalidScene)
	}
	if e.Directional && !(e.ConeAngle > 0 && e.ConeAngle <= math.Pi) {
		return fmt.Errorf("%w: emitter cone angle %v outside (0, π]", ErrInvalidScene, e.ConeAngle)
	}
	if err := geometry.ValidateMotion(e.Motion); err != nil {
		return fmt.Errorf("%w: emitter: %w", ErrInvalidScene, err)
	}

	r := s.Receiver
	if !r.Position.IsFinite() || math.IsNaN(r.Radius) || math.IsInf(r.Radius, 0) {
		return fmt.Errorf("%w: receiver is not finite", ErrInvalidScene)
	}
	if err := geometry.ValidateMotion(r.Motion); err != nil {
		return fmt.Errorf("%w: receiver: %w", ErrInvalidScene, err)
	}
	return nil
}

// Bounds returns a box enclosing every surface, the emitter and the receiver
// sphere at samples evenly spaced instants in [t0, t1].
func (s *Scene) Bounds(t0, t1 float64, samples int) geometry.AABB {
	if samples < 2 || !(t1 > t0) {
		samples, t1 = 1, t0
	}

	box := geometry.EmptyAABB()
	for i := range samples {
		t := t0
		if samples > 1 {
			t += (t1 - t0) * float64(i) / float64(samples-1)
		}
		for _, surf := range s.Surfaces {
			ext := geometry.Extent(surf.Shape, geometry.PoseAt(surf.Motion, t))
			if !ext.Empty() {
				box = box.Extend(ext.Min, 0).Extend(ext.Max, 0)
			}
		}
		box = box.Extend(s.Emitter.PositionAt(t), 0)
		box = box.Extend(s.Receiver.CenterAt(t), math.Max(s.Receiver.Radius, 0))
	}
	return box
}

// IsStatic reports whether nothing in the scene moves.
func (s *Scene) IsStatic() bool {
	for _, surf := range s.Surfaces {
		if !geometry.IsStatic(surf.Motion) {
			return false
		}
	}
	return geometry.IsStatic(s.Emitter.Motion) && geometry.IsStatic(s.Receiver.Motion)
}

// LoopPeriod returns the period shared by every moving part of the scene.
// ok is false when some part does not repeat, when two parts repeat with
// different periods, or when nothing moves.
func (s *Scene) LoopPeriod() (period float64, ok bool) {
	motions := []geometry.Motion{s.Emitter.Motion, s.Receiver.Motion}
	for _, surf := range s.Surfaces {
		motions = append(motions, surf.Motion)
	}
	for _, m := range motions {
		p, periodic := geometry.Period(m)
		switch {
		case !periodic:
			return 0, false
		case p == 0:
		case period == 0:
			period = p
		case math.Abs(p-period) > 1e-9*period:
			return 0, false
		}
	}
	return period, period > 0
}

// Box returns the six inward-facing walls of the axis-aligned box [lo, hi].
func Box(lo, hi geometry.Vec3) geometry.Composite {
	c := lo.Add(hi).Scale(0.5)
	h := hi.Sub(lo).Scale(0.5)
	x, y, z := geometry.V(h.X, 0, 0), geometry.V(0, h.Y, 0), geometry.V(0, 0, h.Z)

	return geometry.Composite{
		geometry.Rect{Center: c.Sub(x), U: y, V: z},
		geometry.Rect{Center: c.Add(x), U: z, V: y},
		geometry.Rect{Center: c.Sub(y), U: z, V: x},
		geometry.Rect{Center: c.Add(y), U: x, V: z},
		geometry.Rect{Center: c.Sub(z), U: x, V: y},
		geometry.Rect{Center: c.Add(z), U: y, V: x},
	}
}
