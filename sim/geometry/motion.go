package geometry

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidMotion is returned by Validate for motions that cannot be evaluated.
var ErrInvalidMotion = errors.New("geometry: invalid motion")

// Motion maps simulated time in seconds to the world pose of an object.
//
// Implementations must be pure: Pose may be called concurrently, for any
// instant and in any order.
type Motion interface {
	Pose(t float64) Pose

	// MaxSpeed bounds the speed, in m/s, of every body point that lies
	// within reach meters of the world point p, at any instant.
	MaxSpeed(p Vec3, reach float64) float64
}

// LinearVelocity reports whether m moves every point with one constant
// velocity, and returns that velocity. Such motions admit closed-form
// intersection tests.
func LinearVelocity(m Motion) (Vec3, bool) {
	switch mm := m.(type) {
	case nil, Static:
		return Vec3{}, true
	case Translation:
		return mm.Velocity, true
	default:
		return Vec3{}, false
	}
}

// IsStatic reports whether m never moves anything.
func IsStatic(m Motion) bool {
	v, ok := LinearVelocity(m)
	return ok && v.IsZero()
}

// PoseAt evaluates m at t, treating a nil motion as Static.
func PoseAt(m Motion, t float64) Pose {
	if m == nil {
		return IdentityPose()
	}
	return m.Pose(t)
}

// Period returns the smallest known T > 0 with m.Pose(t+T) == m.Pose(t) for
// every t. Static motions report (0, true) since any period fits them.
func Period(m Motion) (float64, bool) {
	switch mm := m.(type) {
	case nil, Static:
		return 0, true
	case Rotation:
		if mm.AngularVelocity == 0 {
			return 0, true
		}
		return 2 * math.Pi / math.Abs(mm.AngularVelocity), true
	case Looped:
		return mm.Period, true
	default:
		return 0, IsStatic(m)
	}
}

// ValidateMotion checks m and any motion it wraps.
func ValidateMotion(m Motion) error {
	if v, ok := m.(interface{ Validate() error }); ok {
		return v.Validate()
	}
	return nil
}

// Static never moves.
type Static struct{}

func (Static) Pose(float64) Pose { return IdentityPose() }
func (Static) MaxSpeed(Vec3, float64) float64 { return 0 }

// Translation moves with constant velocity, starting from the local
// coordinates at t = 0.
type Translation struct {
	Velocity Vec3
}

func (m Translation) Pose(t float64) Pose { return Translate(m.Velocity.Scale(t)) }
func (m Translation) MaxSpeed(Vec3, float64) float64 { return m.Velocity.Len() }

func (m Translation) Validate() error {
	if !m.Velocity.IsFinite() {
		return fmt.Errorf("%w: non-finite velocity", ErrInvalidMotion)
	}
	return nil
}

// Rotation spins at a constant angular velocity (rad/s, right-handed) about
// an axis through Pivot. The pose at t = 0 is the identity.
type Rotation struct {
	Pivot           Vec3
	Axis            Vec3
	AngularVelocity float64
}

// RevolutionsPerSecond converts a rotation rate to rad/s.
func RevolutionsPerSecond(rps float64) float64 {
	return 2 * math.Pi * rps
}

func (m Rotation) Pose(t float64) Pose {
	return RotateAbout(m.Pivot, m.Axis, m.AngularVelocity*t)
}

func (m Rotation) MaxSpeed(p Vec3, reach float64) float64 {
	return math.Abs(m.AngularVelocity) * (p.Sub(m.Pivot).Len() + reach)
}

func (m Rotation) Validate() error {
	if m.Axis.IsZero() {
		return fmt.Errorf("%w: rotation axis is zero", ErrInvalidMotion)
	}
	if !m.Pivot.IsFinite() || math.IsNaN(m.AngularVelocity) || math.IsInf(m.AngularVelocity, 0) {
		return fmt.Errorf("%w: non-finite rotation", ErrInvalidMotion)
	}
	return nil
}

// Keyframe is an offset reached at a given time.
type Keyframe struct {
	Time   float64
	Offset Vec3
}

// Keyframes translates along a piecewise-linear path through its frames.
// Before the first frame and after the last the offset is held.
type Keyframes []Keyframe

func (k Keyframes) Pose(t float64) Pose {
	if len(k) == 0 {
		return IdentityPose()
	}
	if t <= k[0].Time {
		return Translate(k[0].Offset)
	}
	for i := 1; i < len(k); i++ {
		if t < k[i].Time {
			a, b := k[i-1], k[i]
			f := (t - a.Time) / (b.Time - a.Time)
			return Translate(a.Offset.Add(b.Offset.Sub(a.Offset).Scale(f)))
		}
	}
	return Translate(k[len(k)-1].Offset)
}

func (k Keyframes) MaxSpeed(Vec3, float64) float64 {
	var vmax float64
	for i := 1; i < len(k); i++ {
		v := k[i].Offset.Sub(k[i-1].Offset).Len() / (k[i].Time - k[i-1].Time)
		vmax = math.Max(vmax, v)
	}
	return vmax
}

func (k Keyframes) Validate() error {
	if len(k) == 0 {
		return fmt.Errorf("%w: no keyframes", ErrInvalidMotion)
	}
	for i, f := range k {
		if !f.Offset.IsFinite() || math.IsNaN(f.Time) || math.IsInf(f.Time, 0) {
			return fmt.Errorf("%w: keyframe %d is not finite", ErrInvalidMotion, i)
		}
		if i > 0 && f.Time <= k[i-1].Time {
			return fmt.Errorf("%w: keyframe %d is not after keyframe %d", ErrInvalidMotion, i, i-1)
		}
	}
	return nil
}

// Looped repeats Motion with the given period, so that the pose at t equals
// the pose of Motion at t modulo Period.
type Looped struct {
	Motion Motion
	Period float64
}

func (m Looped) Pose(t float64) Pose {
	u := math.Mod(t, m.Period)
	if u < 0 {
		u += m.Period
	}
	return PoseAt(m.Motion, u)
}

func (m Looped) MaxSpeed(p Vec3, reach float64) float64 {
	if m.Motion == nil {
		return 0
	}
	return m.Motion.MaxSpeed(p, reach)
}

func (m Looped) Validate() error {
	if !(m.Period > 0) || math.IsInf(m.Period, 0) {
		return fmt.Errorf("%w: loop period %v", ErrInvalidMotion, m.Period)
	}
	return ValidateMotion(m.Motion)
}
