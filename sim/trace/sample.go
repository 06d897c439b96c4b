package trace

import (
	"math"
	"math/rand/v2"

	"github.com/cwbudde/algo-eir/sim/geometry"
)

// newRand returns the random stream of one ray. Streams depend only on the
// seed and the (emission, ray) pair.
func newRand(seed uint64, emission, rayIndex int) *rand.Rand {
	stream := uint64(uint32(emission))<<32 | uint64(uint32(rayIndex))
	return rand.New(rand.NewPCG(seed, stream))
}

// emitDirection draws the initial direction: uniform over the sphere, or
// uniform over the solid angle of a cone aimed at the receiver.
func (tr *Tracer) emitDirection(rng *rand.Rand, origin geometry.Vec3, t float64) geometry.Vec3 {
	e := tr.scene.Emitter
	if !e.Directional {
		return uniformSphere(rng)
	}
	axis := tr.scene.Receiver.CenterAt(tr.poseTime(t)).Sub(origin)
	if axis.IsZero() {
		return uniformSphere(rng)
	}
	return uniformCone(rng, axis.Norm(), e.ConeAngle)
}

func uniformSphere(rng *rand.Rand) geometry.Vec3 {
	z := 2*rng.Float64() - 1
	phi := 2 * math.Pi * rng.Float64()
	r := math.Sqrt(math.Max(0, 1-z*z))
	s, c := math.Sincos(phi)
	return geometry.V(r*c, r*s, z)
}

func uniformCone(rng *rand.Rand, axis geometry.Vec3, halfAngle float64) geometry.Vec3 {
	cosMax := math.Cos(halfAngle)
	cosT := 1 - rng.Float64()*(1-cosMax)
	sinT := math.Sqrt(math.Max(0, 1-cosT*cosT))
	s, c := math.Sincos(2 * math.Pi * rng.Float64())
	u, v := geometry.Orthonormal(axis)
	return axis.Scale(cosT).Add(u.Scale(sinT * c)).Add(v.Scale(sinT * s))
}

// cosineHemisphere draws a Lambertian direction around the unit normal n.
func cosineHemisphere(rng *rand.Rand, n geometry.Vec3) geometry.Vec3 {
	r2 := rng.Float64()
	r := math.Sqrt(r2)
	s, c := math.Sincos(2 * math.Pi * rng.Float64())
	u, v := geometry.Orthonormal(n)
	return n.Scale(math.Sqrt(1 - r2)).Add(u.Scale(r * c)).Add(v.Scale(r * s)).Norm()
}
