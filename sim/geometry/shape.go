package geometry

import "math"

const containsEpsilon = 1e-9

// Shape is the geometry of a surface in its local frame. The variants are
// Rect, Disc, Triangle and Composite; every variant decomposes into planar
// facets, which is all the tracer needs.
type Shape interface {
	Facets() []Facet
}

// Facet is a bounded planar piece of a shape.
type Facet interface {
	Shape

	// Plane returns a point on the facet and its unit normal.
	Plane() (point, normal Vec3)
	// Contains reports whether p, assumed to lie in the plane, is inside the
	// facet's boundary.
	Contains(p Vec3) bool
	// Transform returns the facet mapped through p.
	Transform(p Pose) Facet
	// Vertices returns points whose convex hull encloses the facet.
	Vertices() []Vec3
	// Degenerate reports a facet with zero area or no defined normal.
	Degenerate() bool
}

// Rect is a parallelogram spanned by the half-edge vectors U and V around
// Center. U and V are normally orthogonal.
type Rect struct {
	Center Vec3
	U, V   Vec3
}

func (r Rect) Facets() []Facet { return []Facet{r} }

func (r Rect) Plane() (Vec3, Vec3) { return r.Center, r.U.Cross(r.V).Norm() }

func (r Rect) Contains(p Vec3) bool {
	d := p.Sub(r.Center)
	uu, vv := r.U.LenSquared(), r.V.LenSquared()
	return math.Abs(d.Dot(r.U)) <= uu*(1+containsEpsilon) &&
		math.Abs(d.Dot(r.V)) <= vv*(1+containsEpsilon)
}

func (r Rect) Transform(p Pose) Facet {
	return Rect{Center: p.Apply(r.Center), U: p.ApplyDir(r.U), V: p.ApplyDir(r.V)}
}

func (r Rect) Vertices() []Vec3 {
	return []Vec3{
		r.Center.Add(r.U).Add(r.V),
		r.Center.Add(r.U).Sub(r.V),
		r.Center.Sub(r.U).Add(r.V),
		r.Center.Sub(r.U).Sub(r.V),
	}
}

func (r Rect) Degenerate() bool { return r.U.Cross(r.V).IsZero() }

// Disc is a flat circular panel.
type Disc struct {
	Center Vec3
	Normal Vec3
	Radius float64
}

func (d Disc) Facets() []Facet { return []Facet{d} }

func (d Disc) Plane() (Vec3, Vec3) { return d.Center, d.Normal.Norm() }

func (d Disc) Contains(p Vec3) bool {
	n := d.Normal.Norm()
	off := p.Sub(d.Center)
	radial := off.Sub(n.Scale(off.Dot(n)))
	return radial.LenSquared() <= d.Radius*d.Radius*(1+containsEpsilon)
}

func (d Disc) Transform(p Pose) Facet {
	return Disc{Center: p.Apply(d.Center), Normal: p.ApplyDir(d.Normal), Radius: d.Radius}
}

func (d Disc) Vertices() []Vec3 {
	u, v := Orthonormal(d.Normal.Norm())
	u, v = u.Scale(d.Radius), v.Scale(d.Radius)
	return Rect{Center: d.Center, U: u, V: v}.Vertices()
}

func (d Disc) Degenerate() bool { return d.Normal.IsZero() || !(d.Radius > 0) }

// Triangle is the triangle A, B, C.
type Triangle struct {
	A, B, C Vec3
}

func (tr Triangle) Facets() []Facet { return []Facet{tr} }

func (tr Triangle) Plane() (Vec3, Vec3) {
	return tr.A, tr.B.Sub(tr.A).Cross(tr.C.Sub(tr.A)).Norm()
}

func (tr Triangle) Contains(p Vec3) bool {
	n := tr.B.Sub(tr.A).Cross(tr.C.Sub(tr.A))
	tol := -containsEpsilon * n.LenSquared()
	edges := [3][2]Vec3{{tr.A, tr.B}, {tr.B, tr.C}, {tr.C, tr.A}}
	for _, e := range edges {
		if e[1].Sub(e[0]).Cross(p.Sub(e[0])).Dot(n) < tol {
			return false
		}
	}
	return true
}

func (tr Triangle) Transform(p Pose) Facet {
	return Triangle{A: p.Apply(tr.A), B: p.Apply(tr.B), C: p.Apply(tr.C)}
}

func (tr Triangle) Vertices() []Vec3 { return []Vec3{tr.A, tr.B, tr.C} }

func (tr Triangle) Degenerate() bool {
	return tr.B.Sub(tr.A).Cross(tr.C.Sub(tr.A)).IsZero()
}

// Composite groups shapes that move together, such as the walls of a
// non-convex room.
type Composite []Shape

func (c Composite) Facets() []Facet {
	var out []Facet
	for _, s := range c {
		if s != nil {
			out = append(out, s.Facets()...)
		}
	}
	return out
}

// Intersect returns the distance along the unit direction dir from origin to
// facet f, when that distance lies in (minDist, maxDist].
// Facets are two-sided.
func Intersect(f Facet, origin, dir Vec3, minDist, maxDist float64) (float64, bool) {
	point, normal := f.Plane()
	denom := normal.Dot(dir)
	if math.Abs(denom) < 1e-12 {
		return 0, false
	}
	dist := normal.Dot(point.Sub(origin)) / denom
	if !(dist > minDist) || dist > maxDist {
		return 0, false
	}
	if !f.Contains(origin.AddScaled(dir, dist)) {
		return 0, false
	}
	return dist, true
}

// SignedDistance returns the distance from p to the plane of f, positive on
// the side its normal points to.
func SignedDistance(f Facet, p Vec3) float64 {
	point, normal := f.Plane()
	return normal.Dot(p.Sub(point))
}

// Extent returns the world bounding box of s under pose p.
func Extent(s Shape, p Pose) AABB {
	box := EmptyAABB()
	for _, f := range s.Facets() {
		for _, v := range f.Vertices() {
			box = box.Extend(p.Apply(v), 0)
		}
	}
	return box
}
