// Package geometry provides the time-parameterized geometry of a scene:
// vectors, rigid transforms, motions that map simulated time to a pose, and
// the planar shapes that surfaces are built from.
//
// Geometry is always defined in local coordinates and transformed to world
// coordinates on demand, so a scene can be queried at any number of time
// instants in any order without mutating shared state.
package geometry

import "math"

// Vec3 is a point or direction in 3-D space, in meters.
type Vec3 struct {
	X, Y, Z float64
}

// V is shorthand for constructing a Vec3.
func V(x, y, z float64) Vec3 { return Vec3{x, y, z} }

func (a Vec3) Add(b Vec3) Vec3 { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Sub(b Vec3) Vec3 { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vec3) Scale(s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }
func (a Vec3) Dot(b Vec3) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }
func (a Vec3) Len() float64 { return math.Sqrt(a.Dot(a)) }
func (a Vec3) LenSquared() float64 { return a.Dot(a) }
func (a Vec3) Neg() Vec3 { return Vec3{-a.X, -a.Y, -a.Z} }
func (a Vec3) Min(b Vec3) Vec3 { return Vec3{math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z)} }
func (a Vec3) Max(b Vec3) Vec3 { return Vec3{math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z)} }
func (a Vec3) AddScaled(b Vec3, s float64) Vec3 {
	return Vec3{a.X + b.X*s, a.Y + b.Y*s, a.Z + b.Z*s}
}

// Cross returns the cross product a × b.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// Norm returns a unit-length copy of a. The zero vector is returned unchanged.
func (a Vec3) Norm() Vec3 {
	l := a.Len()
	if l == 0 {
		return a
	}
	return a.Scale(1 / l)
}

// IsZero reports whether every component is (nearly) zero.
func (a Vec3) IsZero() bool {
	return a.LenSquared() < 1e-24
}

// IsFinite reports whether no component is NaN or infinite.
func (a Vec3) IsFinite() bool {
	for _, c := range [3]float64{a.X, a.Y, a.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Reflect mirrors direction d about the plane with unit normal n.
func Reflect(d, n Vec3) Vec3 {
	return d.Sub(n.Scale(2 * d.Dot(n)))
}

// Orthonormal returns two unit vectors that together with the unit vector n
// form a right-handed orthonormal basis.
func Orthonormal(n Vec3) (u, v Vec3) {
	helper := V(1, 0, 0)
	if math.Abs(n.X) > 0.9 {
		helper = V(0, 1, 0)
	}
	u = n.Cross(helper).Norm()
	v = n.Cross(u)
	return u, v
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max Vec3
}

// EmptyAABB returns a box that contains nothing; extending it with a point
// yields a degenerate box around that point.
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{Min: V(inf, inf, inf), Max: V(-inf, -inf, -inf)}
}

// Extend grows the box to contain p padded by radius.
func (b AABB) Extend(p Vec3, radius float64) AABB {
	pad := V(radius, radius, radius)
	return AABB{Min: b.Min.Min(p.Sub(pad)), Max: b.Max.Max(p.Add(pad))}
}

// Empty reports whether the box contains no point.
func (b AABB) Empty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Diagonal returns the length of the box diagonal, or 0 for an empty box.
func (b AABB) Diagonal() float64 {
	if b.Empty() {
		return 0
	}
	return b.Max.Sub(b.Min).Len()
}

// Contains reports whether p lies inside the box.
func (b AABB) Contains(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}
