package vectors

import (
	"math"

	"github.com/echoflaresat/raycam/random"
)

// Random returns a vector with each component uniform in [0,1).
func Random(rng *random.PCG32) Vec3 {
	return Vec3{rng.Float64(), rng.Float64(), rng.Float64()}
}

// RandomRange returns a vector with each component uniform in [min,max).
func RandomRange(rng *random.PCG32, min, max float64) Vec3 {
	return Vec3{rng.Range(min, max), rng.Range(min, max), rng.Range(min, max)}
}

// RandomUnit returns a vector uniformly distributed on the unit sphere.
// Candidates with a squared length at or below 1e-160 are rejected so the
// normalization never divides by an underflowed length.
func RandomUnit(rng *random.PCG32) Vec3 {
	for {
		p := RandomRange(rng, -1, 1)
		lensq := p.NormSquared()
		if 1e-160 < lensq && lensq <= 1 {
			return p.Div(math.Sqrt(lensq))
		}
	}
}

// RandomOnHemisphere returns a unit vector in the hemisphere around normal.
func RandomOnHemisphere(rng *random.PCG32, normal Vec3) Vec3 {
	p := RandomUnit(rng)
	if p.Dot(normal) > 0 {
		return p
	}
	return p.Neg()
}

// RandomInUnitDisk returns a point strictly inside the unit disk on the z=0 plane.
func RandomInUnitDisk(rng *random.PCG32) Vec3 {
	for {
		p := Vec3{rng.Range(-1, 1), rng.Range(-1, 1), 0}
		if p.NormSquared() < 1 {
			return p
		}
	}
}
