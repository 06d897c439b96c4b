package geometry

import "math"

// Mat3 is a row-major 3x3 matrix.
type Mat3 [3][3]float64

// Identity3 returns the identity matrix.
func Identity3() Mat3 {
	return Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// AxisAngle returns the rotation by angle radians about the unit axis
// (Rodrigues' formula, right-handed).
func AxisAngle(axis Vec3, angle float64) Mat3 {
	a := axis.Norm()
	s, c := math.Sincos(angle)
	t := 1 - c
	return Mat3{
		{t*a.X*a.X + c, t*a.X*a.Y - s*a.Z, t*a.X*a.Z + s*a.Y},
		{t*a.X*a.Y + s*a.Z, t*a.Y*a.Y + c, t*a.Y*a.Z - s*a.X},
		{t*a.X*a.Z - s*a.Y, t*a.Y*a.Z + s*a.X, t*a.Z*a.Z + c},
	}
}

// MulVec returns m·v.
func (m Mat3) MulVec(v Vec3) Vec3 {
	return Vec3{
		m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Mul returns m·n.
func (m Mat3) Mul(n Mat3) Mat3 {
	var out Mat3
	for i := range 3 {
		for j := range 3 {
			out[i][j] = m[i][0]*n[0][j] + m[i][1]*n[1][j] + m[i][2]*n[2][j]
		}
	}
	return out
}

// Transpose returns mᵀ, which is the inverse of a rotation matrix.
func (m Mat3) Transpose() Mat3 {
	var out Mat3
	for i := range 3 {
		for j := range 3 {
			out[i][j] = m[j][i]
		}
	}
	return out
}

// Pose is a rigid transform: a rotation followed by a translation.
type Pose struct {
	Rotation    Mat3
	Translation Vec3
}

// IdentityPose returns the transform that maps every point onto itself.
func IdentityPose() Pose {
	return Pose{Rotation: Identity3()}
}

// Translate returns a pure translation by v.
func Translate(v Vec3) Pose {
	return Pose{Rotation: Identity3(), Translation: v}
}

// RotateAbout returns the rotation by angle about an axis through pivot.
func RotateAbout(pivot, axis Vec3, angle float64) Pose {
	r := AxisAngle(axis, angle)
	return Pose{Rotation: r, Translation: pivot.Sub(r.MulVec(pivot))}
}

// Apply maps a local point to world coordinates.
func (p Pose) Apply(v Vec3) Vec3 {
	return p.Rotation.MulVec(v).Add(p.Translation)
}

// ApplyDir maps a local direction to world coordinates (no translation).
func (p Pose) ApplyDir(v Vec3) Vec3 {
	return p.Rotation.MulVec(v)
}

// Inverse returns the transform mapping world coordinates back to local ones.
func (p Pose) Inverse() Pose {
	rt := p.Rotation.Transpose()
	return Pose{Rotation: rt, Translation: rt.MulVec(p.Translation).Neg()}
}

// Then returns the transform that applies p first and q second.
func (p Pose) Then(q Pose) Pose {
	return Pose{
		Rotation:    q.Rotation.Mul(p.Rotation),
		Translation: q.Rotation.MulVec(p.Translation).Add(q.Translation),
	}
}
