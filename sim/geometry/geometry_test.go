package geometry

import (
	"errors"
	"math"
	"testing"
)

const eps = 1e-12

func nearVec(a, b Vec3, tol float64) bool {
	return a.Sub(b).Len() <= tol
}

func TestPoseInverseRoundTrip(t *testing.T) {
	poses := []Pose{
		IdentityPose(),
		Translate(V(1, -2, 3)),
		RotateAbout(V(1, 2, 3), V(0, 0, 1), 0.7),
		RotateAbout(V(-4, 0, 1), V(1, 1, 1), 2.1),
	}
	points := []Vec3{V(0, 0, 0), V(1, 2, 3), V(-5, 0.25, 8)}

	for i, p := range poses {
		inv := p.Inverse()
		for _, x := range points {
			if got := inv.Apply(p.Apply(x)); !nearVec(got, x, 1e-12) {
				t.Errorf("pose %d: inverse(apply(%v)) = %v", i, x, got)
			}
		}
	}
}

func TestPoseThen(t *testing.T) {
	a := RotateAbout(V(0, 0, 0), V(0, 0, 1), math.Pi/2)
	b := Translate(V(1, 0, 0))
	x := V(1, 0, 0)

	want := b.Apply(a.Apply(x))
	if got := a.Then(b).Apply(x); !nearVec(got, want, eps) {
		t.Fatalf("a.Then(b) = %v, want %v", got, want)
	}
	if !nearVec(want, V(1, 1, 0), eps) {
		t.Fatalf("unexpected composition %v", want)
	}
}

func TestRotationQuarterTurn(t *testing.T) {
	m := Rotation{Pivot: V(1, 0, 0), Axis: V(0, 0, 1), AngularVelocity: RevolutionsPerSecond(1)}

	if got := m.Pose(0.25).Apply(V(2, 0, 0)); !nearVec(got, V(1, 1, 0), 1e-12) {
		t.Errorf("quarter turn = %v, want (1, 1, 0)", got)
	}
	if got := m.Pose(1).Apply(V(2, 0, 0)); !nearVec(got, V(2, 0, 0), 1e-12) {
		t.Errorf("full turn = %v, want (2, 0, 0)", got)
	}
	if got := m.Pose(0.5).ApplyDir(V(0, 1, 0)); !nearVec(got, V(0, -1, 0), 1e-12) {
		t.Errorf("half-turn direction = %v, want (0, -1, 0)", got)
	}
}

func TestMaxSpeedBoundsMotion(t *testing.T) {
	motions := map[string]Motion{
		"translation": Translation{Velocity: V(3, 4, 0)},
		"rotation":    Rotation{Pivot: V(1, 1, 0), Axis: V(0, 1, 1), AngularVelocity: 5},
		"keyframes":   Keyframes{{0, V(0, 0, 0)}, {1, V(2, 0, 0)}, {1.5, V(2, 3, 0)}},
	}
	const dt = 1e-6

	for name, m := range motions {
		t.Run(name, func(t *testing.T) {
			local := V(2, -1, 0.5)
			for _, ts := range []float64{0.1, 0.4, 1.2} {
				p0 := m.Pose(ts).Apply(local)
				p1 := m.Pose(ts + dt).Apply(local)
				speed := p1.Sub(p0).Len() / dt
				if bound := m.MaxSpeed(p0, 0); speed > bound*(1+1e-4)+1e-9 {
					t.Errorf("t=%v: speed %v exceeds bound %v", ts, speed, bound)
				}
			}
		})
	}
}

func TestKeyframes(t *testing.T) {
	k := Keyframes{{0, V(0, 0, 0)}, {2, V(4, 0, 0)}, {3, V(4, 2, 0)}}

	tests := []struct {
		t    float64
		want Vec3
	}{
		{-1, V(0, 0, 0)},
		{0, V(0, 0, 0)},
		{1, V(2, 0, 0)},
		{2.5, V(4, 1, 0)},
		{10, V(4, 2, 0)},
	}
	for _, tt := range tests {
		if got := k.Pose(tt.t).Apply(Vec3{}); !nearVec(got, tt.want, eps) {
			t.Errorf("Pose(%v) = %v, want %v", tt.t, got, tt.want)
		}
	}
	if got := k.MaxSpeed(Vec3{}, 0); math.Abs(got-2) > eps {
		t.Errorf("MaxSpeed = %v, want 2", got)
	}
}

func TestLooped(t *testing.T) {
	m := Looped{Motion: Translation{Velocity: V(1, 0, 0)}, Period: 2}

	for _, tt := range []struct{ t, x float64 }{{0.5, 0.5}, {2.5, 0.5}, {-0.5, 1.5}, {4, 0}} {
		if got := m.Pose(tt.t).Translation.X; math.Abs(got-tt.x) > eps {
			t.Errorf("Pose(%v).X = %v, want %v", tt.t, got, tt.x)
		}
	}
}

func TestValidateMotion(t *testing.T) {
	tests := []struct {
		name    string
		m       Motion
		wantErr bool
	}{
		{"nil", nil, false},
		{"static", Static{}, false},
		{"zero axis", Rotation{AngularVelocity: 1}, true},
		{"empty keyframes", Keyframes{}, true},
		{"unordered keyframes", Keyframes{{1, Vec3{}}, {1, Vec3{}}}, true},
		{"zero period", Looped{Motion: Static{}}, true},
		{"looped bad inner", Looped{Motion: Keyframes{}, Period: 1}, true},
		{"nan velocity", Translation{Velocity: V(math.NaN(), 0, 0)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMotion(tt.m)
			if tt.wantErr && !errors.Is(err, ErrInvalidMotion) {
				t.Fatalf("expected ErrInvalidMotion, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestLinearVelocity(t *testing.T) {
	if v, ok := LinearVelocity(Translation{Velocity: V(1, 2, 3)}); !ok || v != V(1, 2, 3) {
		t.Errorf("translation: (%v, %v)", v, ok)
	}
	if _, ok := LinearVelocity(Rotation{Axis: V(0, 0, 1), AngularVelocity: 1}); ok {
		t.Error("rotation reported as linear")
	}
	if !IsStatic(nil) || !IsStatic(Static{}) || IsStatic(Translation{Velocity: V(0, 0, 1)}) {
		t.Error("IsStatic misclassified a motion")
	}
}

func TestPeriod(t *testing.T) {
	tests := []struct {
		name     string
		m        Motion
		want     float64
		periodic bool
	}{
		{"nil", nil, 0, true},
		{"static", Static{}, 0, true},
		{"still translation", Translation{}, 0, true},
		{"translation", Translation{Velocity: V(1, 0, 0)}, 0, false},
		{"rotation", Rotation{Axis: V(0, 0, 1), AngularVelocity: -RevolutionsPerSecond(2)}, 0.5, true},
		{"looped", Looped{Motion: Translation{Velocity: V(1, 0, 0)}, Period: 3}, 3, true},
		{"keyframes", Keyframes{{Time: 0}, {Time: 1, Offset: V(1, 0, 0)}}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Period(tt.m)
			if ok != tt.periodic || math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Period = (%v, %v), want (%v, %v)", got, ok, tt.want, tt.periodic)
			}
		})
	}
}

func TestFacetContains(t *testing.T) {
	rect := Rect{Center: V(0, 0, 0), U: V(2, 0, 0), V: V(0, 1, 0)}
	disc := Disc{Center: V(0, 0, 1), Normal: V(0, 0, 1), Radius: 1}
	tri := Triangle{A: V(0, 0, 0), B: V(1, 0, 0), C: V(0, 1, 0)}

	tests := []struct {
		name string
		f    Facet
		p    Vec3
		want bool
	}{
		{"rect inside", rect, V(1.9, -0.9, 0), true},
		{"rect corner", rect, V(2, 1, 0), true},
		{"rect outside", rect, V(2.1, 0, 0), false},
		{"disc inside", disc, V(0.5, 0.5, 1), true},
		{"disc outside", disc, V(0.8, 0.8, 1), false},
		{"triangle inside", tri, V(0.2, 0.2, 0), true},
		{"triangle edge", tri, V(0.5, 0.5, 0), true},
		{"triangle outside", tri, V(0.6, 0.6, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestDegenerate(t *testing.T) {
	if !(Rect{U: V(1, 0, 0), V: V(2, 0, 0)}).Degenerate() {
		t.Error("collinear rect not degenerate")
	}
	if !(Disc{Normal: V(0, 0, 1)}).Degenerate() {
		t.Error("zero-radius disc not degenerate")
	}
	if !(Triangle{A: V(0, 0, 0), B: V(1, 1, 1), C: V(2, 2, 2)}).Degenerate() {
		t.Error("collinear triangle not degenerate")
	}
	if (Triangle{A: V(0, 0, 0), B: V(1, 0, 0), C: V(0, 1, 0)}).Degenerate() {
		t.Error("unit triangle reported degenerate")
	}
}

func TestIntersect(t *testing.T) {
	wall := Rect{Center: V(5, 0, 0), U: V(0, 1, 0), V: V(0, 0, 1)}

	tests := []struct {
		name     string
		origin   Vec3
		dir      Vec3
		wantDist float64
		wantHit  bool
	}{
		{"head on", V(0, 0, 0), V(1, 0, 0), 5, true},
		{"from behind", V(10, 0, 0), V(-1, 0, 0), 5, true},
		{"oblique", V(0, 0, 0), V(1, 0.1, 0).Norm(), V(5, 0.5, 0).Len(), true},
		{"misses boundary", V(0, 0, 0), V(1, 0.5, 0).Norm(), 0, false},
		{"parallel", V(0, 0, 0), V(0, 1, 0), 0, false},
		{"pointing away", V(0, 0, 0), V(-1, 0, 0), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := Intersect(wall, tt.origin, tt.dir, 1e-9, 100)
			if ok != tt.wantHit {
				t.Fatalf("hit = %v, want %v", ok, tt.wantHit)
			}
			if ok && math.Abs(d-tt.wantDist) > 1e-12 {
				t.Errorf("distance = %v, want %v", d, tt.wantDist)
			}
		})
	}

	if _, ok := Intersect(wall, V(0, 0, 0), V(1, 0, 0), 1e-9, 4); ok {
		t.Error("hit beyond maxDist reported")
	}
}

func TestTransformedFacet(t *testing.T) {
	panel := Disc{Center: V(0, 0, 0), Normal: V(1, 0, 0), Radius: 1}
	pose := RotateAbout(V(0, 0, 0), V(0, 0, 1), math.Pi/2).Then(Translate(V(0, 3, 0)))

	world := panel.Transform(pose)
	point, normal := world.Plane()
	if !nearVec(point, V(0, 3, 0), 1e-12) || !nearVec(normal, V(0, 1, 0), 1e-12) {
		t.Fatalf("world plane = (%v, %v)", point, normal)
	}
	if d, ok := Intersect(world, V(0, 0, 0), V(0, 1, 0), 0, 10); !ok || math.Abs(d-3) > 1e-12 {
		t.Fatalf("Intersect = (%v, %v), want (3, true)", d, ok)
	}
	if got := SignedDistance(world, V(0, 5, 0)); math.Abs(got-2) > 1e-12 {
		t.Errorf("SignedDistance = %v, want 2", got)
	}
}

func TestCompositeAndExtent(t *testing.T) {
	floor := Composite{
		Rect{Center: V(1, 0, 0), U: V(1, 0, 0), V: V(0, 1, 0)},
		Composite{Triangle{A: V(0, 1, 0), B: V(2, 1, 0), C: V(0, 4, 0)}},
	}
	if n := len(floor.Facets()); n != 2 {
		t.Fatalf("Facets() has %d entries, want 2", n)
	}

	box := Extent(floor, Translate(V(0, 0, 1)))
	if !nearVec(box.Min, V(0, -1, 1), eps) || !nearVec(box.Max, V(2, 4, 1), eps) {
		t.Errorf("Extent = %+v", box)
	}
	if EmptyAABB().Diagonal() != 0 {
		t.Error("empty box has non-zero diagonal")
	}
}

func TestReflect(t *testing.T) {
	got := Reflect(V(1, -1, 0).Norm(), V(0, 1, 0))
	if !nearVec(got, V(1, 1, 0).Norm(), eps) {
		t.Errorf("Reflect = %v", got)
	}
	u, v := Orthonormal(V(0, 0, 1))
	if math.Abs(u.Dot(v)) > eps || math.Abs(u.Len()-1) > eps || math.Abs(v.Len()-1) > eps {
		t.Errorf("Orthonormal = %v, %v", u, v)
	}
}
